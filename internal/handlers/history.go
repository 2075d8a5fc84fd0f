package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sarthology/dailysage-backend/internal/dto"
	"github.com/sarthology/dailysage-backend/internal/errs"
	"github.com/sarthology/dailysage-backend/internal/middleware"
	"github.com/sarthology/dailysage-backend/internal/models"
	"github.com/sarthology/dailysage-backend/internal/response"
)

type historyService interface {
	GetHistory(ctx context.Context, uid string, q dto.HistoryQuery) ([]models.HistoryEntry, error)
	GetWidgetHistory(ctx context.Context, uid, widgetInstanceID string, limit int) ([]models.HistoryEntry, error)
}

type historyHandlers struct {
	ResponseHandler response.ResponseHandler
	HistorySvc      historyService
}

func NewHistoryHandlers(deps *Deps) *historyHandlers {
	return &historyHandlers{
		ResponseHandler: deps.ResponseHandler,
		HistorySvc:      deps.HistorySvc,
	}
}

func (h *historyHandlers) HistoryRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetHistory)
	r.Get("/widgets/{widgetId}", h.GetWidgetHistory)
	return r
}

func (h *historyHandlers) GetHistory(w http.ResponseWriter, r *http.Request) {
	query := dto.HistoryQuery{
		DataSubtype: r.URL.Query().Get("dataSubtype"),
	}
	if tags := r.URL.Query().Get("tags"); tags != "" {
		query.Tags = strings.Split(tags, ",")
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			h.ResponseHandler.HandleError(w, r, errs.NewValidationError("limit must be a positive integer"))
			return
		}
		query.Limit = limit
	}

	uid := middleware.UID(r.Context())
	entries, err := h.HistorySvc.GetHistory(r.Context(), uid, query)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, entries)
}

func (h *historyHandlers) GetWidgetHistory(w http.ResponseWriter, r *http.Request) {
	widgetID := chi.URLParam(r, "widgetId")
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.ResponseHandler.HandleError(w, r, errs.NewValidationError("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	uid := middleware.UID(r.Context())
	entries, err := h.HistorySvc.GetWidgetHistory(r.Context(), uid, widgetID, limit)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, entries)
}
