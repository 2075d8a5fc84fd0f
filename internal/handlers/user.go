package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sarthology/dailysage-backend/internal/dto"
	"github.com/sarthology/dailysage-backend/internal/errs"
	"github.com/sarthology/dailysage-backend/internal/middleware"
	"github.com/sarthology/dailysage-backend/internal/response"
)

type userService interface {
	Register(ctx context.Context, uid, email, displayName string) error
}

type accountService interface {
	ResetAccount(ctx context.Context, uid string) error
}

type userHandlers struct {
	ResponseHandler response.ResponseHandler
	UserSvc         userService
	AccountSvc      accountService
}

func NewUserHandlers(deps *Deps) *userHandlers {
	return &userHandlers{
		ResponseHandler: deps.ResponseHandler,
		UserSvc:         deps.UserSvc,
		AccountSvc:      deps.AccountSvc,
	}
}

func (h *userHandlers) UserRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/register", h.Register)
	r.Delete("/me/data", h.ResetAccount)
	return r
}

func (h *userHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var body dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}

	uid := middleware.UID(r.Context())
	if err := h.UserSvc.Register(r.Context(), uid, body.Email, body.DisplayName); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusCreated, nil)
}

// ResetAccount wipes the caller's content but keeps the account itself.
func (h *userHandlers) ResetAccount(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	if err := h.AccountSvc.ResetAccount(r.Context(), uid); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, nil)
}
