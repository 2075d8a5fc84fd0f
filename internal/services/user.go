package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sarthology/dailysage-backend/internal/errs"
	"github.com/sarthology/dailysage-backend/internal/models"
	"github.com/sarthology/dailysage-backend/internal/registry"
	"github.com/sarthology/dailysage-backend/pkg/logger"
)

type userStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, uid string) (*models.User, error)
	SaveLayout(ctx context.Context, uid string, layout models.DashboardLayout) error
}

type creditGranter interface {
	Grant(ctx context.Context, uid string, amount int64) error
}

type userService struct {
	store         userStore
	credits       creditGranter
	signupCredits int64
	clockNow      func() time.Time
}

func NewUserService(store userStore, credits creditGranter, signupCredits int64) *userService {
	return &userService{
		store:         store,
		credits:       credits,
		signupCredits: signupCredits,
		clockNow:      time.Now,
	}
}

// Register bootstraps a profile for a freshly authenticated uid: the user
// document, the starter dashboard, and the signup credit grant.
func (s *userService) Register(ctx context.Context, uid, email, displayName string) error {
	log := logger.FromContext(ctx)

	if email == "" {
		return errs.NewValidationError("email is required")
	}

	now := s.clockNow()
	user := &models.User{
		UID:         uid,
		Email:       email,
		DisplayName: displayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		log.Error("failed to create user in store", "error", err)
		return err
	}

	if err := s.store.SaveLayout(ctx, uid, starterLayout(now)); err != nil {
		log.Error("failed to save starter layout", "error", err)
		return err
	}

	if s.signupCredits > 0 {
		if err := s.credits.Grant(ctx, uid, s.signupCredits); err != nil {
			log.Error("failed to grant signup credits", "error", err)
			return err
		}
	}

	log.Info("user registered", "display_name", displayName)
	return nil
}

func (s *userService) GetUser(ctx context.Context, uid string) (*models.User, error) {
	return s.store.GetUser(ctx, uid)
}

// starterLayout is the onboarding dashboard every new account begins with.
func starterLayout(now time.Time) models.DashboardLayout {
	specs := []struct {
		widgetType, title, description string
	}{
		{registry.TypeDailyMaxim, "Daily Maxim", "One line of philosophy to carry through the day."},
		{registry.TypeReflectionPrompt, "Evening Reflection", "A short journaling prompt each evening."},
		{registry.TypeFeelingPicker, "How are you feeling?", "Log your mood in two taps."},
		{registry.TypeBreathingExercise, "Box Breathing", "Two minutes to settle before you start."},
	}
	widgets := make([]models.WidgetInstance, 0, len(specs))
	for i, spec := range specs {
		widgets = append(widgets, models.WidgetInstance{
			ID:          uuid.New().String(),
			WidgetType:  spec.widgetType,
			Title:       spec.title,
			Description: spec.description,
			Position:    i,
			Size:        models.SizeMedium,
			Source:      models.SourceOnboarding,
			CreatedAt:   now,
		})
	}
	return models.DashboardLayout{
		Widgets:        widgets,
		LastModifiedBy: models.ModifiedByUser,
		LastModifiedAt: now,
	}
}
