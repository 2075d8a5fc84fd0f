package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sarthology/dailysage-backend/internal/dto"
	"github.com/sarthology/dailysage-backend/internal/models"
	"github.com/sarthology/dailysage-backend/pkg/logger"
)

type dashboardMutator interface {
	AddWidget(ctx context.Context, uid string, req dto.CreateWidgetRequest, source string) (models.WidgetInstance, error)
	RemoveWidget(ctx context.Context, uid, widgetID string) error
	UpdateWidget(ctx context.Context, uid, widgetID string, req dto.UpdateWidgetRequest) error
}

type moodLogger interface {
	LogMood(ctx context.Context, uid string, req dto.LogMoodRequest) (models.MoodLog, error)
}

// toolBridge dispatches tool invocations from one conversation turn. A
// streaming response can surface the same invocation several times as its
// arguments accumulate, so dispatch is keyed by call id and fires at most
// once, and only once the arguments are complete.
type toolBridge struct {
	uid       string
	dashboard dashboardMutator
	moods     moodLogger

	processed map[string]struct{}
	actions   []dto.AppliedAction
	ephemeral []dto.EphemeralWidget
	records   []models.ChatMessage
}

func newToolBridge(uid string, dashboard dashboardMutator, moods moodLogger) *toolBridge {
	return &toolBridge{
		uid:       uid,
		dashboard: dashboard,
		moods:     moods,
		processed: make(map[string]struct{}),
	}
}

// Handle consumes one tool event. Partial events and replays of an already
// processed call id are dropped. A failing dispatch is recorded and logged
// but never aborts the turn; sibling calls still run.
func (b *toolBridge) Handle(ctx context.Context, ev dto.ToolInvocation) {
	if !ev.Final {
		return
	}
	if _, done := b.processed[ev.CallID]; done {
		return
	}
	b.processed[ev.CallID] = struct{}{}

	result, err := b.dispatch(ctx, ev)
	if err != nil {
		logger.FromContext(ctx).Warn("tool dispatch failed",
			slog.String("tool", ev.Name),
			slog.String("callId", ev.CallID),
			slog.String("error", err.Error()))
		result = "error: " + err.Error()
	}
	b.records = append(b.records, models.ChatMessage{
		Role:       models.RoleTool,
		ToolName:   ev.Name,
		ToolArgs:   ev.Args,
		ToolResult: map[string]any{"output": result},
	})
}

func (b *toolBridge) dispatch(ctx context.Context, ev dto.ToolInvocation) (string, error) {
	if strings.HasPrefix(ev.Name, "show_") {
		widgetType := strings.TrimPrefix(ev.Name, "show_")
		b.ephemeral = append(b.ephemeral, dto.EphemeralWidget{WidgetType: widgetType, Args: ev.Args})
		return "rendered", nil
	}

	switch ev.Name {
	case toolAddWidget:
		var args dto.CreateWidgetRequest
		if err := decodeArgs(ev.Args, &args); err != nil {
			return "", err
		}
		widget, err := b.dashboard.AddWidget(ctx, b.uid, args, models.SourceChat)
		if err != nil {
			return "", err
		}
		b.actions = append(b.actions, dto.AppliedAction{
			Tool:     ev.Name,
			WidgetID: widget.ID,
			Detail:   fmt.Sprintf("added %s widget %q", widget.WidgetType, widget.Title),
		})
		return "added widget " + widget.ID, nil

	case toolRemoveWidget:
		var args struct {
			WidgetID string `json:"widgetId"`
			Reason   string `json:"reason"`
		}
		if err := decodeArgs(ev.Args, &args); err != nil {
			return "", err
		}
		if err := b.dashboard.RemoveWidget(ctx, b.uid, args.WidgetID); err != nil {
			return "", err
		}
		b.actions = append(b.actions, dto.AppliedAction{Tool: ev.Name, WidgetID: args.WidgetID, Detail: args.Reason})
		return "removed widget " + args.WidgetID, nil

	case toolUpdateWidget:
		var args struct {
			WidgetID string                  `json:"widgetId"`
			Updates  dto.UpdateWidgetRequest `json:"updates"`
		}
		if err := decodeArgs(ev.Args, &args); err != nil {
			return "", err
		}
		if err := b.dashboard.UpdateWidget(ctx, b.uid, args.WidgetID, args.Updates); err != nil {
			return "", err
		}
		b.actions = append(b.actions, dto.AppliedAction{Tool: ev.Name, WidgetID: args.WidgetID, Detail: "updated widget"})
		return "updated widget " + args.WidgetID, nil

	case toolLogMood:
		// The uid comes from the verified session; any uid in the
		// model's arguments is ignored.
		var args dto.LogMoodRequest
		if err := decodeArgs(ev.Args, &args); err != nil {
			return "", err
		}
		log, err := b.moods.LogMood(ctx, b.uid, args)
		if err != nil {
			return "", err
		}
		b.actions = append(b.actions, dto.AppliedAction{
			Tool:   ev.Name,
			Detail: fmt.Sprintf("logged mood %q at intensity %d", log.Label, log.Intensity),
		})
		return "logged mood " + log.ID, nil
	}

	return "", fmt.Errorf("unknown tool %q", ev.Name)
}

func (b *toolBridge) Actions() []dto.AppliedAction     { return b.actions }
func (b *toolBridge) Ephemeral() []dto.EphemeralWidget { return b.ephemeral }

// Records returns one tool-role chat message per dispatched call, for
// persistence alongside the turn's user and assistant messages.
func (b *toolBridge) Records() []models.ChatMessage { return b.records }

// decodeArgs maps loosely typed tool arguments onto a request struct via a
// JSON round trip, the same coercion the HTTP layer gets from the decoder.
func decodeArgs(args map[string]any, out any) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encoding tool args: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding tool args: %w", err)
	}
	return nil
}
