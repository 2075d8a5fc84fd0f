package services

import (
	"context"
	"math"

	"github.com/google/uuid"

	"github.com/sarthology/dailysage-backend/internal/dto"
	"github.com/sarthology/dailysage-backend/internal/errs"
	"github.com/sarthology/dailysage-backend/internal/models"
)

type moodStore interface {
	Insert(ctx context.Context, uid string, log *models.MoodLog) error
}

type moodService struct {
	store moodStore
}

func NewMoodService(store moodStore) *moodService {
	return &moodService{store: store}
}

// LogMood records an emotional state for the authenticated user. The uid must
// come from the verified session, never from client-supplied arguments.
func (s *moodService) LogMood(ctx context.Context, uid string, req dto.LogMoodRequest) (models.MoodLog, error) {
	if req.Label == "" {
		return models.MoodLog{}, errs.NewValidationError("label is required")
	}
	if req.Valence < -1 || req.Valence > 1 || req.Energy < -1 || req.Energy > 1 {
		return models.MoodLog{}, errs.NewValidationError("valence and energy must be within [-1,1]")
	}

	log := models.MoodLog{
		ID:        uuid.New().String(),
		Vector:    models.MoodVector{X: req.Valence, Y: req.Energy},
		Label:     req.Label,
		Intensity: moodIntensity(req.Valence, req.Energy),
		Context:   req.Context,
		Tags:      req.Tags,
	}
	if err := s.store.Insert(ctx, uid, &log); err != nil {
		return models.MoodLog{}, err
	}
	return log, nil
}

// moodIntensity maps a (valence, energy) vector to a 1..10 scale:
// round(sqrt(v²+e²)*10), clamped.
func moodIntensity(valence, energy float64) int {
	raw := int(math.Round(math.Sqrt(valence*valence+energy*energy) * 10))
	if raw < 1 {
		return 1
	}
	if raw > 10 {
		return 10
	}
	return raw
}
