package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/sarthology/dailysage-backend/internal/dto"
	"github.com/sarthology/dailysage-backend/internal/errs"
	"github.com/sarthology/dailysage-backend/internal/models"
	"github.com/sarthology/dailysage-backend/pkg/logger"
)

type vertexClient interface {
	GenerateStream(ctx context.Context, req dto.VertexGenerateRequest, onEvent func(dto.StreamEvent)) error
}

type chatStore interface {
	SaveMessage(ctx context.Context, uid, sessionID string, msg models.ChatMessage) error
	ListMessages(ctx context.Context, uid, sessionID string, limit int) ([]models.ChatMessage, error)
}

type creditLedger interface {
	Deduct(ctx context.Context, uid string, amount int64) (int64, error)
	Grant(ctx context.Context, uid string, amount int64) error
	Balance(ctx context.Context, uid string) (int64, error)
}

const historyWindow = 8

type chatService struct {
	vertex    vertexClient
	store     chatStore
	credits   creditLedger
	dashboard dashboardMutator
	moods     moodLogger

	messageCost int64
	ttl         time.Duration
	clockNow    func() time.Time

	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewChatService(vertex vertexClient, store chatStore, credits creditLedger, dashboard dashboardMutator, moods moodLogger, messageCost int64, ttl time.Duration) *chatService {
	return &chatService{
		vertex:      vertex,
		store:       store,
		credits:     credits,
		dashboard:   dashboard,
		moods:       moods,
		messageCost: messageCost,
		ttl:         ttl,
		clockNow:    time.Now,
		inflight:    make(map[string]struct{}),
	}
}

// SendMessage runs one conversation turn: deduct credits, stream the model
// response feeding tool calls through the bridge, persist the turn, and
// return the answer with the applied actions and remaining balance.
//
// A second send for the same uid while one is pending is rejected rather
// than queued; a double-submitted message must not cost two credits.
func (s *chatService) SendMessage(ctx context.Context, uid string, req dto.ChatRequest) (dto.ChatResponse, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(req.Message) == "" {
		return dto.ChatResponse{}, errs.NewValidationError("message is required")
	}
	if req.SessionID == "" {
		return dto.ChatResponse{}, errs.NewValidationError("sessionId is required")
	}
	mode := req.Mode
	if mode == "" {
		mode = dto.ModeOpen
	}
	switch mode {
	case dto.ModeOpen, dto.ModePractice, dto.ModeChatOnly, dto.ModeSocratic:
	default:
		return dto.ChatResponse{}, errs.NewValidationError("unknown conversation mode: " + mode)
	}

	if !s.acquire(uid) {
		return dto.ChatResponse{}, errs.NewValidationError("a message is already being processed for this user")
	}
	defer s.release(uid)

	// The balance check and decrement are one atomic step; on failure the
	// model is never invoked.
	balance, err := s.credits.Deduct(ctx, uid, s.messageCost)
	if err != nil {
		return dto.ChatResponse{}, err
	}

	history, err := s.store.ListMessages(ctx, uid, req.SessionID, historyWindow)
	if err != nil {
		s.refund(ctx, uid)
		return dto.ChatResponse{}, err
	}

	vreq := dto.VertexGenerateRequest{
		System:   systemPrompt(s.clockNow(), mode),
		Contents: convertMessagesToContents(history, req.Message),
		Tools:    toolsForMode(mode),
	}
	if len(vreq.Tools) > 0 {
		vreq.ToolConfig = &dto.VertexToolConfig{Mode: dto.FunctionCallingModeAuto}
	}

	bridge := newToolBridge(uid, s.dashboard, s.moods)
	answer, err := s.streamTurn(ctx, vreq, bridge)
	if err != nil {
		var malformed *errs.MalformedFunctionCallError
		if errors.As(err, &malformed) {
			log.Warn("malformed function call, retrying with strict prompt", "session_id", req.SessionID)
			strictReq := vreq
			strictReq.System = strictSystemPrompt(s.clockNow(), mode)
			answer, err = s.streamTurn(ctx, strictReq, bridge)
		}
	}
	if err != nil {
		// The turn never completed, so the message must not cost a credit.
		s.refund(ctx, uid)
		return dto.ChatResponse{}, err
	}

	if err := s.saveMessage(ctx, uid, req.SessionID, models.ChatMessage{
		Role:    models.RoleUser,
		Content: req.Message,
	}); err != nil {
		return dto.ChatResponse{}, err
	}
	for _, rec := range bridge.Records() {
		if err := s.saveMessage(ctx, uid, req.SessionID, rec); err != nil {
			return dto.ChatResponse{}, err
		}
	}
	if answer != "" {
		if err := s.saveMessage(ctx, uid, req.SessionID, models.ChatMessage{
			Role:    models.RoleAssistant,
			Content: answer,
		}); err != nil {
			return dto.ChatResponse{}, err
		}
	}

	log.Info("chat turn completed",
		"session_id", req.SessionID,
		"mode", mode,
		"actions", len(bridge.Actions()),
	)
	return dto.ChatResponse{
		Answer:    answer,
		Actions:   bridge.Actions(),
		Ephemeral: bridge.Ephemeral(),
		Balance:   balance,
	}, nil
}

// streamTurn collects text deltas and routes tool events into the bridge.
func (s *chatService) streamTurn(ctx context.Context, req dto.VertexGenerateRequest, bridge *toolBridge) (string, error) {
	var text strings.Builder
	err := s.vertex.GenerateStream(ctx, req, func(ev dto.StreamEvent) {
		if ev.TextDelta != "" {
			text.WriteString(ev.TextDelta)
		}
		if ev.ToolCall != nil {
			if !isValidToolName(ev.ToolCall.Name) {
				logger.FromContext(ctx).Warn("model requested unknown tool", "tool", ev.ToolCall.Name)
				return
			}
			bridge.Handle(ctx, *ev.ToolCall)
		}
	})
	if err != nil {
		return "", err
	}
	return text.String(), nil
}

func (s *chatService) Balance(ctx context.Context, uid string) (int64, error) {
	return s.credits.Balance(ctx, uid)
}

// refund returns the message cost after a turn fails before completion.
// Best effort: a failed refund is logged, not surfaced over the turn error.
func (s *chatService) refund(ctx context.Context, uid string) {
	if err := s.credits.Grant(ctx, uid, s.messageCost); err != nil {
		logger.FromContext(ctx).Error("credit refund failed", "amount", s.messageCost, "error", err)
	}
}

func (s *chatService) acquire(uid string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[uid]; busy {
		return false
	}
	s.inflight[uid] = struct{}{}
	return true
}

func (s *chatService) release(uid string) {
	s.mu.Lock()
	delete(s.inflight, uid)
	s.mu.Unlock()
}

func (s *chatService) saveMessage(ctx context.Context, uid, sessionID string, msg models.ChatMessage) error {
	now := s.clockNow()
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = now
	}
	if s.ttl > 0 {
		msg.ExpiresAt = now.Add(s.ttl)
	}
	return s.store.SaveMessage(ctx, uid, sessionID, msg)
}

func convertMessagesToContents(history []models.ChatMessage, currentMessage string) []dto.VertexContent {
	contents := make([]dto.VertexContent, 0, len(history)+1)

	for _, msg := range history {
		switch msg.Role {
		case models.RoleUser:
			contents = append(contents, dto.VertexContent{
				Role:  "user",
				Parts: []dto.VertexPart{{Text: &msg.Content}},
			})

		case models.RoleAssistant:
			if msg.Content != "" {
				contents = append(contents, dto.VertexContent{
					Role:  "model",
					Parts: []dto.VertexPart{{Text: &msg.Content}},
				})
			}

		case models.RoleTool:
			// Replayed tool turns need explicit call and response parts.
			if msg.ToolName != "" && msg.ToolArgs != nil {
				contents = append(contents, dto.VertexContent{
					Role: "model",
					Parts: []dto.VertexPart{{FunctionCall: &dto.VertexToolCall{
						Name: msg.ToolName,
						Args: msg.ToolArgs,
					}}},
				})
			}
			if msg.ToolName != "" && msg.ToolResult != nil {
				contents = append(contents, dto.VertexContent{
					Role: "user",
					Parts: []dto.VertexPart{{FunctionResponse: &dto.VertexToolResult{
						Name:     msg.ToolName,
						Response: msg.ToolResult,
					}}},
				})
			}
		}
	}

	contents = append(contents, dto.VertexContent{
		Role:  "user",
		Parts: []dto.VertexPart{{Text: &currentMessage}},
	})

	return contents
}
