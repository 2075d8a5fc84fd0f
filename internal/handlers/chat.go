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

type chatService interface {
	SendMessage(ctx context.Context, uid string, req dto.ChatRequest) (dto.ChatResponse, error)
	Balance(ctx context.Context, uid string) (int64, error)
}

type chatHandlers struct {
	ResponseHandler response.ResponseHandler
	ChatSvc         chatService
}

func NewChatHandlers(deps *Deps) *chatHandlers {
	return &chatHandlers{
		ResponseHandler: deps.ResponseHandler,
		ChatSvc:         deps.ChatSvc,
	}
}

func (h *chatHandlers) ChatRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/message", h.SendMessage)
	return r
}

func (h *chatHandlers) CreditRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetBalance)
	return r
}

func (h *chatHandlers) SendMessage(w http.ResponseWriter, r *http.Request) {
	var body dto.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}

	uid := middleware.UID(r.Context())
	resp, err := h.ChatSvc.SendMessage(r.Context(), uid, body)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, http.StatusOK, resp)
}

func (h *chatHandlers) GetBalance(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	balance, err := h.ChatSvc.Balance(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, dto.CreditBalanceResponse{Balance: balance})
}
