package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/sarthology/dailysage-backend/internal/dto"
	"github.com/sarthology/dailysage-backend/internal/errs"
	"github.com/sarthology/dailysage-backend/internal/models"
)

type journalService struct {
	store journalInserter
}

func NewJournalService(store journalInserter) *journalService {
	return &journalService{store: store}
}

func (s *journalService) CreateEntry(ctx context.Context, uid string, req dto.CreateJournalEntryRequest) (models.JournalEntry, error) {
	if req.Content == "" {
		return models.JournalEntry{}, errs.NewValidationError("content is required")
	}
	entry := models.JournalEntry{
		ID:      uuid.New().String(),
		Content: req.Content,
		Prompt:  req.Prompt,
		Tags:    req.Tags,
	}
	if err := s.store.Insert(ctx, uid, &entry); err != nil {
		return models.JournalEntry{}, err
	}
	return entry, nil
}
