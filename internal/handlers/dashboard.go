package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sarthology/dailysage-backend/internal/dto"
	"github.com/sarthology/dailysage-backend/internal/errs"
	"github.com/sarthology/dailysage-backend/internal/middleware"
	"github.com/sarthology/dailysage-backend/internal/models"
	"github.com/sarthology/dailysage-backend/internal/registry"
	"github.com/sarthology/dailysage-backend/internal/response"
)

type dashboardService interface {
	GetLayout(ctx context.Context, uid string) (models.DashboardLayout, error)
	AddWidget(ctx context.Context, uid string, req dto.CreateWidgetRequest, source string) (models.WidgetInstance, error)
	UpdateWidget(ctx context.Context, uid, widgetID string, req dto.UpdateWidgetRequest) error
	ReorderWidgets(ctx context.Context, uid string, req dto.ReorderWidgetsRequest) error
	ResizeWidget(ctx context.Context, uid, widgetID, size string) error
	RemoveWidget(ctx context.Context, uid, widgetID string) error
	PinWidget(ctx context.Context, uid string, req dto.PinWidgetRequest) (models.WidgetInstance, error)
	SaveWidgetEntry(ctx context.Context, uid, widgetID string, req dto.SaveWidgetEntryRequest) (string, error)
	WidgetTypeCatalog() []registry.CatalogEntry
}

type dashboardHandlers struct {
	ResponseHandler response.ResponseHandler
	DashboardSvc    dashboardService
}

func NewDashboardHandlers(deps *Deps) *dashboardHandlers {
	return &dashboardHandlers{
		ResponseHandler: deps.ResponseHandler,
		DashboardSvc:    deps.DashboardSvc,
	}
}

func (h *dashboardHandlers) DashboardRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetLayout)
	r.Post("/widgets", h.AddWidget)
	r.Put("/widgets/reorder", h.ReorderWidgets) // must be before /{widgetId}
	r.Put("/widgets/{widgetId}", h.UpdateWidget)
	r.Put("/widgets/{widgetId}/size", h.ResizeWidget)
	r.Delete("/widgets/{widgetId}", h.RemoveWidget)
	r.Post("/widgets/{widgetId}/entries", h.SaveWidgetEntry)
	r.Post("/pin", h.PinWidget)
	r.Get("/widget-types", h.GetWidgetTypes)
	return r
}

func (h *dashboardHandlers) GetLayout(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	layout, err := h.DashboardSvc.GetLayout(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, layout)
}

func (h *dashboardHandlers) AddWidget(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateWidgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	uid := middleware.UID(r.Context())
	widget, err := h.DashboardSvc.AddWidget(r.Context(), uid, req, models.SourceUser)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusCreated, widget)
}

func (h *dashboardHandlers) UpdateWidget(w http.ResponseWriter, r *http.Request) {
	widgetID := chi.URLParam(r, "widgetId")
	var req dto.UpdateWidgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	uid := middleware.UID(r.Context())
	if err := h.DashboardSvc.UpdateWidget(r.Context(), uid, widgetID, req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, nil)
}

func (h *dashboardHandlers) ReorderWidgets(w http.ResponseWriter, r *http.Request) {
	var req dto.ReorderWidgetsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	uid := middleware.UID(r.Context())
	if err := h.DashboardSvc.ReorderWidgets(r.Context(), uid, req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, nil)
}

func (h *dashboardHandlers) ResizeWidget(w http.ResponseWriter, r *http.Request) {
	widgetID := chi.URLParam(r, "widgetId")
	var req dto.ResizeWidgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	uid := middleware.UID(r.Context())
	if err := h.DashboardSvc.ResizeWidget(r.Context(), uid, widgetID, req.Size); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, nil)
}

func (h *dashboardHandlers) RemoveWidget(w http.ResponseWriter, r *http.Request) {
	widgetID := chi.URLParam(r, "widgetId")
	uid := middleware.UID(r.Context())
	if err := h.DashboardSvc.RemoveWidget(r.Context(), uid, widgetID); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, nil)
}

func (h *dashboardHandlers) PinWidget(w http.ResponseWriter, r *http.Request) {
	var req dto.PinWidgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	uid := middleware.UID(r.Context())
	widget, err := h.DashboardSvc.PinWidget(r.Context(), uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusCreated, widget)
}

func (h *dashboardHandlers) SaveWidgetEntry(w http.ResponseWriter, r *http.Request) {
	widgetID := chi.URLParam(r, "widgetId")
	var req dto.SaveWidgetEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	uid := middleware.UID(r.Context())
	id, err := h.DashboardSvc.SaveWidgetEntry(r.Context(), uid, widgetID, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *dashboardHandlers) GetWidgetTypes(w http.ResponseWriter, r *http.Request) {
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, h.DashboardSvc.WidgetTypeCatalog())
}
