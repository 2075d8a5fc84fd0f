package services

import (
	"context"
	"errors"
	"testing"

	"github.com/sarthology/dailysage-backend/internal/dto"
	"github.com/sarthology/dailysage-backend/internal/models"
	"github.com/sarthology/dailysage-backend/pkg/helpers"
)

type fakeDashboardMutator struct {
	addCalls    []dto.CreateWidgetRequest
	addSources  []string
	addErr      error
	removeCalls []string
	removeErr   error
	updateCalls []string
}

func (f *fakeDashboardMutator) AddWidget(ctx context.Context, uid string, req dto.CreateWidgetRequest, source string) (models.WidgetInstance, error) {
	f.addCalls = append(f.addCalls, req)
	f.addSources = append(f.addSources, source)
	if f.addErr != nil {
		return models.WidgetInstance{}, f.addErr
	}
	return models.WidgetInstance{ID: "w-new", WidgetType: req.WidgetType, Title: req.Title}, nil
}

func (f *fakeDashboardMutator) RemoveWidget(ctx context.Context, uid, widgetID string) error {
	f.removeCalls = append(f.removeCalls, widgetID)
	return f.removeErr
}

func (f *fakeDashboardMutator) UpdateWidget(ctx context.Context, uid, widgetID string, req dto.UpdateWidgetRequest) error {
	f.updateCalls = append(f.updateCalls, widgetID)
	return nil
}

type fakeMoodLogger struct {
	calls []dto.LogMoodRequest
	uids  []string
	err   error
}

func (f *fakeMoodLogger) LogMood(ctx context.Context, uid string, req dto.LogMoodRequest) (models.MoodLog, error) {
	f.calls = append(f.calls, req)
	f.uids = append(f.uids, uid)
	if f.err != nil {
		return models.MoodLog{}, f.err
	}
	return models.MoodLog{ID: "m-new", Label: req.Label, Intensity: moodIntensity(req.Valence, req.Energy)}, nil
}

func TestBridgeProcessesCallAtMostOnce(t *testing.T) {
	dash := &fakeDashboardMutator{}
	bridge := newToolBridge("user", dash, &fakeMoodLogger{})
	ctx := helpers.TestCtx()

	args := map[string]any{"widgetType": "daily_maxim", "title": "Maxim"}

	// Partial events arrive while arguments are still streaming.
	bridge.Handle(ctx, dto.ToolInvocation{CallID: "call-1", Name: toolAddWidget, Args: nil, Final: false})
	if len(dash.addCalls) != 0 {
		t.Fatalf("partial event must not dispatch, got %d calls", len(dash.addCalls))
	}

	bridge.Handle(ctx, dto.ToolInvocation{CallID: "call-1", Name: toolAddWidget, Args: args, Final: true})
	// The stream surfaces the completed call again.
	bridge.Handle(ctx, dto.ToolInvocation{CallID: "call-1", Name: toolAddWidget, Args: args, Final: true})

	if len(dash.addCalls) != 1 {
		t.Fatalf("expected exactly one dispatch, got %d", len(dash.addCalls))
	}
	if len(bridge.Actions()) != 1 {
		t.Fatalf("expected one applied action, got %d", len(bridge.Actions()))
	}
	if dash.addSources[0] != models.SourceChat {
		t.Fatalf("conversational add must carry source=chat, got %q", dash.addSources[0])
	}
}

func TestBridgeDistinctCallIDsBothApply(t *testing.T) {
	dash := &fakeDashboardMutator{}
	bridge := newToolBridge("user", dash, &fakeMoodLogger{})
	ctx := helpers.TestCtx()

	bridge.Handle(ctx, dto.ToolInvocation{CallID: "call-1", Name: toolRemoveWidget, Args: map[string]any{"widgetId": "w1"}, Final: true})
	bridge.Handle(ctx, dto.ToolInvocation{CallID: "call-2", Name: toolRemoveWidget, Args: map[string]any{"widgetId": "w2"}, Final: true})

	if len(dash.removeCalls) != 2 {
		t.Fatalf("expected both removals, got %v", dash.removeCalls)
	}
}

func TestBridgeShowToolsAreEphemeral(t *testing.T) {
	dash := &fakeDashboardMutator{}
	bridge := newToolBridge("user", dash, &fakeMoodLogger{})

	bridge.Handle(helpers.TestCtx(), dto.ToolInvocation{
		CallID: "call-1",
		Name:   toolShowThoughtExperiment,
		Args:   map[string]any{"title": "Ship of Theseus", "scenario": "...", "question": "..."},
		Final:  true,
	})

	if len(dash.addCalls)+len(dash.removeCalls)+len(dash.updateCalls) != 0 {
		t.Fatal("show_ tool must not mutate the dashboard")
	}
	eph := bridge.Ephemeral()
	if len(eph) != 1 || eph[0].WidgetType != "thought_experiment" {
		t.Fatalf("ephemeral mismatch: %+v", eph)
	}
}

func TestBridgeFailureDoesNotStopSiblings(t *testing.T) {
	dash := &fakeDashboardMutator{addErr: errors.New("firestore down")}
	bridge := newToolBridge("user", dash, &fakeMoodLogger{})
	ctx := helpers.TestCtx()

	bridge.Handle(ctx, dto.ToolInvocation{CallID: "call-1", Name: toolAddWidget,
		Args: map[string]any{"widgetType": "daily_maxim", "title": "Maxim"}, Final: true})
	bridge.Handle(ctx, dto.ToolInvocation{CallID: "call-2", Name: toolRemoveWidget,
		Args: map[string]any{"widgetId": "w1"}, Final: true})

	if len(dash.removeCalls) != 1 {
		t.Fatal("sibling call must still run after a failed dispatch")
	}
	if len(bridge.Actions()) != 1 {
		t.Fatalf("failed dispatch must not record an action, got %d", len(bridge.Actions()))
	}
	records := bridge.Records()
	if len(records) != 2 {
		t.Fatalf("both calls get a tool record, got %d", len(records))
	}
	if out, _ := records[0].ToolResult["output"].(string); out != "error: firestore down" {
		t.Fatalf("failed record output mismatch: %q", out)
	}
}

func TestBridgeMalformedArgsContinue(t *testing.T) {
	dash := &fakeDashboardMutator{}
	bridge := newToolBridge("user", dash, &fakeMoodLogger{})
	ctx := helpers.TestCtx()

	// widgetId is an object where a string is expected.
	bridge.Handle(ctx, dto.ToolInvocation{CallID: "call-1", Name: toolRemoveWidget,
		Args: map[string]any{"widgetId": map[string]any{"nested": true}}, Final: true})
	bridge.Handle(ctx, dto.ToolInvocation{CallID: "call-2", Name: toolRemoveWidget,
		Args: map[string]any{"widgetId": "w2"}, Final: true})

	if len(dash.removeCalls) != 1 || dash.removeCalls[0] != "w2" {
		t.Fatalf("valid sibling must dispatch, got %v", dash.removeCalls)
	}
}

func TestBridgeLogMoodUsesAuthenticatedUID(t *testing.T) {
	moods := &fakeMoodLogger{}
	bridge := newToolBridge("session-uid", &fakeDashboardMutator{}, moods)

	// A uid in the model's arguments must be ignored.
	bridge.Handle(helpers.TestCtx(), dto.ToolInvocation{CallID: "call-1", Name: toolLogMood,
		Args: map[string]any{"valence": -0.5, "energy": 0.6, "label": "anxious", "uid": "attacker"}, Final: true})

	if len(moods.calls) != 1 {
		t.Fatalf("expected one mood log, got %d", len(moods.calls))
	}
	if moods.uids[0] != "session-uid" {
		t.Fatalf("mood logged for wrong uid: %q", moods.uids[0])
	}
	if moods.calls[0].Valence != -0.5 || moods.calls[0].Energy != 0.6 {
		t.Fatalf("vector mismatch: %+v", moods.calls[0])
	}
}

func TestBridgeUnknownToolRecordsError(t *testing.T) {
	bridge := newToolBridge("user", &fakeDashboardMutator{}, &fakeMoodLogger{})

	bridge.Handle(helpers.TestCtx(), dto.ToolInvocation{CallID: "call-1", Name: "drop_all_tables", Final: true})

	if len(bridge.Actions()) != 0 {
		t.Fatal("unknown tool must not apply an action")
	}
	records := bridge.Records()
	if len(records) != 1 {
		t.Fatalf("unknown tool still gets a record, got %d", len(records))
	}
}
