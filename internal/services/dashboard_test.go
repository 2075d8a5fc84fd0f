package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sarthology/dailysage-backend/internal/dto"
	"github.com/sarthology/dailysage-backend/internal/errs"
	"github.com/sarthology/dailysage-backend/internal/models"
	"github.com/sarthology/dailysage-backend/internal/registry"
	"github.com/sarthology/dailysage-backend/pkg/helpers"
)

type fakeLayoutStore struct {
	mu       sync.Mutex
	layouts  map[string]models.DashboardLayout
	getCalls int
}

func newFakeLayoutStore() *fakeLayoutStore {
	return &fakeLayoutStore{layouts: make(map[string]models.DashboardLayout)}
}

func (f *fakeLayoutStore) GetLayout(ctx context.Context, uid string) (models.DashboardLayout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	return f.layouts[uid], nil
}

func (f *fakeLayoutStore) SaveLayout(ctx context.Context, uid string, layout models.DashboardLayout) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.layouts[uid] = layout
	return nil
}

type fakeJournalInserter struct {
	inserted []models.JournalEntry
}

func (f *fakeJournalInserter) Insert(ctx context.Context, uid string, entry *models.JournalEntry) error {
	f.inserted = append(f.inserted, *entry)
	return nil
}

type fakeWidgetDataInserter struct {
	inserted []models.WidgetData
}

func (f *fakeWidgetDataInserter) Insert(ctx context.Context, uid string, data *models.WidgetData) error {
	f.inserted = append(f.inserted, *data)
	return nil
}

type dashboardFixture struct {
	svc        *dashboardService
	profiles   *fakeLayoutStore
	journal    *fakeJournalInserter
	moods      *fakeMoodStore
	widgetData *fakeWidgetDataInserter
}

func newDashboardFixture() *dashboardFixture {
	profiles := newFakeLayoutStore()
	journal := &fakeJournalInserter{}
	moods := &fakeMoodStore{}
	widgetData := &fakeWidgetDataInserter{}
	svc := NewDashboardService(registry.Default(), profiles, journal, moods, widgetData, helpers.TestLogger())
	return &dashboardFixture{svc: svc, profiles: profiles, journal: journal, moods: moods, widgetData: widgetData}
}

func TestAddWidgetValidatesAgainstRegistry(t *testing.T) {
	fx := newDashboardFixture()
	ctx := helpers.TestCtx()
	defer fx.svc.CloseAll()

	var validation *errs.ValidationError

	_, err := fx.svc.AddWidget(ctx, "user", dto.CreateWidgetRequest{WidgetType: "crystal_ball", Title: "Nope"}, models.SourceUser)
	if !errors.As(err, &validation) {
		t.Fatalf("unknown type: want ValidationError, got %v", err)
	}

	_, err = fx.svc.AddWidget(ctx, "user", dto.CreateWidgetRequest{WidgetType: registry.TypeDailyMaxim}, models.SourceUser)
	if !errors.As(err, &validation) {
		t.Fatalf("missing title: want ValidationError, got %v", err)
	}

	_, err = fx.svc.AddWidget(ctx, "user", dto.CreateWidgetRequest{WidgetType: registry.TypeDailyMaxim, Title: "Maxim", Size: "huge"}, models.SourceUser)
	if !errors.As(err, &validation) {
		t.Fatalf("bad size: want ValidationError, got %v", err)
	}

	widget, err := fx.svc.AddWidget(ctx, "user", dto.CreateWidgetRequest{WidgetType: registry.TypeDailyMaxim, Title: "Maxim"}, models.SourceUser)
	if err != nil {
		t.Fatalf("AddWidget error: %v", err)
	}
	if widget.Position != 0 || widget.Size != models.SizeMedium {
		t.Fatalf("unexpected widget: %+v", widget)
	}
}

func TestStoreForCachesPerUID(t *testing.T) {
	fx := newDashboardFixture()
	ctx := helpers.TestCtx()
	defer fx.svc.CloseAll()

	if _, err := fx.svc.GetLayout(ctx, "user"); err != nil {
		t.Fatalf("GetLayout error: %v", err)
	}
	if _, err := fx.svc.GetLayout(ctx, "user"); err != nil {
		t.Fatalf("GetLayout error: %v", err)
	}
	if fx.profiles.getCalls != 1 {
		t.Fatalf("layout loaded %d times, want 1", fx.profiles.getCalls)
	}
}

func TestPinWidgetMarksPinnedChatSource(t *testing.T) {
	fx := newDashboardFixture()
	defer fx.svc.CloseAll()

	widget, err := fx.svc.PinWidget(helpers.TestCtx(), "user", dto.PinWidgetRequest{
		WidgetType: registry.TypeThoughtExperiment,
		Title:      "Ship of Theseus",
		Args:       map[string]any{"scenario": "..."},
	})
	if err != nil {
		t.Fatalf("PinWidget error: %v", err)
	}
	if !widget.Pinned || widget.Source != models.SourceChat {
		t.Fatalf("pinned widget mismatch: %+v", widget)
	}
}

func TestSaveWidgetEntryRoutesByCollection(t *testing.T) {
	fx := newDashboardFixture()
	ctx := helpers.TestCtx()
	defer fx.svc.CloseAll()

	journalWidget, err := fx.svc.AddWidget(ctx, "user", dto.CreateWidgetRequest{
		WidgetType: registry.TypeReflectionPrompt, Title: "Reflect"}, models.SourceUser)
	if err != nil {
		t.Fatalf("AddWidget error: %v", err)
	}
	gratitudeWidget, err := fx.svc.AddWidget(ctx, "user", dto.CreateWidgetRequest{
		WidgetType: registry.TypeGratitudeList, Title: "Gratitude"}, models.SourceUser)
	if err != nil {
		t.Fatalf("AddWidget error: %v", err)
	}
	moodWidget, err := fx.svc.AddWidget(ctx, "user", dto.CreateWidgetRequest{
		WidgetType: registry.TypeFeelingPicker, Title: "Feelings"}, models.SourceUser)
	if err != nil {
		t.Fatalf("AddWidget error: %v", err)
	}

	if _, err := fx.svc.SaveWidgetEntry(ctx, "user", journalWidget.ID, dto.SaveWidgetEntryRequest{
		Content: map[string]any{"content": "Today I noticed..."},
		Tags:    []string{"stoicism"},
	}); err != nil {
		t.Fatalf("journal save error: %v", err)
	}
	if len(fx.journal.inserted) != 1 || fx.journal.inserted[0].Content != "Today I noticed..." {
		t.Fatalf("journal insert mismatch: %+v", fx.journal.inserted)
	}

	if _, err := fx.svc.SaveWidgetEntry(ctx, "user", gratitudeWidget.ID, dto.SaveWidgetEntryRequest{
		Content: map[string]any{"items": []any{"coffee", "sunlight"}},
	}); err != nil {
		t.Fatalf("gratitude save error: %v", err)
	}
	if len(fx.widgetData.inserted) != 1 || fx.widgetData.inserted[0].DataSubtype != models.SubtypeGratitude {
		t.Fatalf("widget data insert mismatch: %+v", fx.widgetData.inserted)
	}
	if fx.widgetData.inserted[0].WidgetInstanceID != gratitudeWidget.ID {
		t.Fatal("widget data must record its source widget instance")
	}

	if _, err := fx.svc.SaveWidgetEntry(ctx, "user", moodWidget.ID, dto.SaveWidgetEntryRequest{
		Content: map[string]any{"valence": -0.5, "energy": 0.6, "label": "anxious"},
	}); err != nil {
		t.Fatalf("mood save error: %v", err)
	}
	if len(fx.moods.inserted) != 1 || fx.moods.inserted[0].Intensity != 8 {
		t.Fatalf("mood insert mismatch: %+v", fx.moods.inserted)
	}
}

func TestSaveWidgetEntryRejectsNonSavingTypes(t *testing.T) {
	fx := newDashboardFixture()
	ctx := helpers.TestCtx()
	defer fx.svc.CloseAll()

	display, err := fx.svc.AddWidget(ctx, "user", dto.CreateWidgetRequest{
		WidgetType: registry.TypeDailyMaxim, Title: "Maxim"}, models.SourceUser)
	if err != nil {
		t.Fatalf("AddWidget error: %v", err)
	}

	var validation *errs.ValidationError
	if _, err := fx.svc.SaveWidgetEntry(ctx, "user", display.ID, dto.SaveWidgetEntryRequest{
		Content: map[string]any{"content": "x"},
	}); !errors.As(err, &validation) {
		t.Fatalf("display widget save: want ValidationError, got %v", err)
	}

	var notFound *errs.NotFoundError
	if _, err := fx.svc.SaveWidgetEntry(ctx, "user", "missing", dto.SaveWidgetEntryRequest{
		Content: map[string]any{"content": "x"},
	}); !errors.As(err, &notFound) {
		t.Fatalf("missing widget: want NotFoundError, got %v", err)
	}
}

func TestSaveWidgetEntryDropsUnsupportedTags(t *testing.T) {
	fx := newDashboardFixture()
	ctx := helpers.TestCtx()
	defer fx.svc.CloseAll()

	// values_wheel stores assessments and does not support tags.
	wheel, err := fx.svc.AddWidget(ctx, "user", dto.CreateWidgetRequest{
		WidgetType: registry.TypeValuesWheel, Title: "Values"}, models.SourceUser)
	if err != nil {
		t.Fatalf("AddWidget error: %v", err)
	}

	if _, err := fx.svc.SaveWidgetEntry(ctx, "user", wheel.ID, dto.SaveWidgetEntryRequest{
		Content: map[string]any{"scores": map[string]any{"courage": 7}},
		Tags:    []string{"ignored"},
	}); err != nil {
		t.Fatalf("save error: %v", err)
	}
	if got := fx.widgetData.inserted[0].Tags; got != nil {
		t.Fatalf("tags must be dropped for untagged types, got %v", got)
	}
}

func TestEvictClosesStore(t *testing.T) {
	fx := newDashboardFixture()
	ctx := helpers.TestCtx()

	if _, err := fx.svc.AddWidget(ctx, "user", dto.CreateWidgetRequest{
		WidgetType: registry.TypeDailyMaxim, Title: "Maxim"}, models.SourceUser); err != nil {
		t.Fatalf("AddWidget error: %v", err)
	}
	fx.svc.Evict("user")

	// A fresh access reloads from the profile store.
	if _, err := fx.svc.GetLayout(ctx, "user"); err != nil {
		t.Fatalf("GetLayout error: %v", err)
	}
	if fx.profiles.getCalls != 2 {
		t.Fatalf("expected reload after eviction, got %d loads", fx.profiles.getCalls)
	}
	fx.svc.CloseAll()
}
