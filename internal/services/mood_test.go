package services

import (
	"context"
	"errors"
	"testing"

	"github.com/sarthology/dailysage-backend/internal/dto"
	"github.com/sarthology/dailysage-backend/internal/errs"
	"github.com/sarthology/dailysage-backend/internal/models"
	"github.com/sarthology/dailysage-backend/pkg/helpers"
)

type fakeMoodStore struct {
	inserted []models.MoodLog
	err      error
}

func (f *fakeMoodStore) Insert(ctx context.Context, uid string, log *models.MoodLog) error {
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, *log)
	return nil
}

func TestMoodIntensity(t *testing.T) {
	cases := []struct {
		valence, energy float64
		want            int
	}{
		{-0.5, 0.6, 8},
		{0, 0, 1},    // zero magnitude clamps up
		{1, 1, 10},   // sqrt(2)*10 clamps down
		{0.3, 0.4, 5},
		{-1, 0, 10},
		{0.05, 0, 1},
	}
	for _, tc := range cases {
		if got := moodIntensity(tc.valence, tc.energy); got != tc.want {
			t.Errorf("moodIntensity(%v, %v) = %d, want %d", tc.valence, tc.energy, got, tc.want)
		}
	}
}

func TestLogMoodComputesIntensityServerSide(t *testing.T) {
	store := &fakeMoodStore{}
	svc := NewMoodService(store)

	log, err := svc.LogMood(helpers.TestCtx(), "user", dto.LogMoodRequest{
		Valence: -0.5,
		Energy:  0.6,
		Label:   "anxious",
		Context: "work deadline",
	})
	if err != nil {
		t.Fatalf("LogMood error: %v", err)
	}
	if log.Intensity != 8 {
		t.Fatalf("intensity = %d, want 8", log.Intensity)
	}
	if len(store.inserted) != 1 {
		t.Fatalf("expected one insert, got %d", len(store.inserted))
	}
	if store.inserted[0].Vector != (models.MoodVector{X: -0.5, Y: 0.6}) {
		t.Fatalf("vector mismatch: %+v", store.inserted[0].Vector)
	}
	if log.ID == "" {
		t.Fatal("expected assigned id")
	}
}

func TestLogMoodValidation(t *testing.T) {
	svc := NewMoodService(&fakeMoodStore{})
	ctx := helpers.TestCtx()

	var validation *errs.ValidationError

	_, err := svc.LogMood(ctx, "user", dto.LogMoodRequest{Valence: 0.2, Energy: 0.2})
	if !errors.As(err, &validation) {
		t.Fatalf("missing label: want ValidationError, got %v", err)
	}

	_, err = svc.LogMood(ctx, "user", dto.LogMoodRequest{Valence: 1.5, Energy: 0, Label: "calm"})
	if !errors.As(err, &validation) {
		t.Fatalf("out-of-range valence: want ValidationError, got %v", err)
	}
}
