package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sarthology/dailysage-backend/internal/dto"
	"github.com/sarthology/dailysage-backend/internal/errs"
	"github.com/sarthology/dailysage-backend/internal/middleware"
	"github.com/sarthology/dailysage-backend/internal/models"
	"github.com/sarthology/dailysage-backend/internal/response"
)

type journalService interface {
	CreateEntry(ctx context.Context, uid string, req dto.CreateJournalEntryRequest) (models.JournalEntry, error)
}

type moodService interface {
	LogMood(ctx context.Context, uid string, req dto.LogMoodRequest) (models.MoodLog, error)
}

// contentHandlers covers the direct save endpoints that bypass a widget:
// journaling and mood logging straight from the app shell.
type contentHandlers struct {
	ResponseHandler response.ResponseHandler
	JournalSvc      journalService
	MoodSvc         moodService
}

func NewContentHandlers(deps *Deps) *contentHandlers {
	return &contentHandlers{
		ResponseHandler: deps.ResponseHandler,
		JournalSvc:      deps.JournalSvc,
		MoodSvc:         deps.MoodSvc,
	}
}

func (h *contentHandlers) CreateJournalEntry(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateJournalEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	uid := middleware.UID(r.Context())
	entry, err := h.JournalSvc.CreateEntry(r.Context(), uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusCreated, entry)
}

func (h *contentHandlers) LogMood(w http.ResponseWriter, r *http.Request) {
	var req dto.LogMoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	uid := middleware.UID(r.Context())
	log, err := h.MoodSvc.LogMood(r.Context(), uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusCreated, log)
}
