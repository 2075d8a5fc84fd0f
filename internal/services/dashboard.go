package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sarthology/dailysage-backend/internal/dashboard"
	"github.com/sarthology/dailysage-backend/internal/dto"
	"github.com/sarthology/dailysage-backend/internal/errs"
	"github.com/sarthology/dailysage-backend/internal/models"
	"github.com/sarthology/dailysage-backend/internal/registry"
)

// layoutStore is the persistence boundary for the layout blob.
type layoutStore interface {
	GetLayout(ctx context.Context, uid string) (models.DashboardLayout, error)
	SaveLayout(ctx context.Context, uid string, layout models.DashboardLayout) error
}

type journalInserter interface {
	Insert(ctx context.Context, uid string, entry *models.JournalEntry) error
}

type widgetDataInserter interface {
	Insert(ctx context.Context, uid string, data *models.WidgetData) error
}

type dashboardService struct {
	reg        registry.Registry
	profiles   layoutStore
	journal    journalInserter
	moods      moodStore
	widgetData widgetDataInserter
	log        *slog.Logger

	debounce time.Duration

	mu     sync.Mutex
	stores map[string]*dashboard.Store
}

func NewDashboardService(reg registry.Registry, profiles layoutStore, journal journalInserter, moods moodStore, widgetData widgetDataInserter, log *slog.Logger) *dashboardService {
	return &dashboardService{
		reg:        reg,
		profiles:   profiles,
		journal:    journal,
		moods:      moods,
		widgetData: widgetData,
		log:        log,
		debounce:   dashboard.DefaultDebounce,
		stores:     make(map[string]*dashboard.Store),
	}
}

// storeFor returns the cached in-memory store for a user, loading the
// persisted layout on first access. One store per uid; the process is the
// single writer for a session, last write wins across sessions.
func (s *dashboardService) storeFor(ctx context.Context, uid string) (*dashboard.Store, error) {
	s.mu.Lock()
	if st, ok := s.stores[uid]; ok {
		s.mu.Unlock()
		return st, nil
	}
	s.mu.Unlock()

	layout, err := s.profiles.GetLayout(ctx, uid)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.stores[uid]; ok {
		// lost the load race; the first store wins
		return st, nil
	}
	st := dashboard.NewStore(uid, layout, s.profiles, s.log, dashboard.WithDebounceWindow(s.debounce))
	s.stores[uid] = st
	return st, nil
}

// Evict tears down a user's cached store, cancelling any pending write.
func (s *dashboardService) Evict(uid string) {
	s.mu.Lock()
	st, ok := s.stores[uid]
	delete(s.stores, uid)
	s.mu.Unlock()
	if ok {
		st.Close()
	}
}

// CloseAll flushes every cached store; called on shutdown.
func (s *dashboardService) CloseAll() {
	s.mu.Lock()
	stores := make([]*dashboard.Store, 0, len(s.stores))
	for _, st := range s.stores {
		stores = append(stores, st)
	}
	s.stores = make(map[string]*dashboard.Store)
	s.mu.Unlock()
	for _, st := range stores {
		st.Flush()
		st.Close()
	}
}

func (s *dashboardService) GetLayout(ctx context.Context, uid string) (models.DashboardLayout, error) {
	st, err := s.storeFor(ctx, uid)
	if err != nil {
		return models.DashboardLayout{}, err
	}
	return st.Layout(), nil
}

// AddWidget validates the request against the registry and appends the widget.
// source distinguishes user-initiated adds from conversational ones.
func (s *dashboardService) AddWidget(ctx context.Context, uid string, req dto.CreateWidgetRequest, source string) (models.WidgetInstance, error) {
	if !s.reg.IsValid(req.WidgetType) {
		return models.WidgetInstance{}, errs.NewValidationError("unknown widget type: " + req.WidgetType)
	}
	if req.Title == "" {
		return models.WidgetInstance{}, errs.NewValidationError("title is required")
	}
	if err := validateSize(req.Size); err != nil {
		return models.WidgetInstance{}, err
	}
	st, err := s.storeFor(ctx, uid)
	if err != nil {
		return models.WidgetInstance{}, err
	}
	return st.AddWidget(dashboard.WidgetSpec{
		WidgetType:  req.WidgetType,
		Title:       req.Title,
		Description: req.Description,
		Args:        req.Args,
		Size:        req.Size,
		Source:      source,
		Tags:        req.Tags,
	}), nil
}

// RemoveWidget is idempotent: a stale id is already the desired end state.
func (s *dashboardService) RemoveWidget(ctx context.Context, uid, widgetID string) error {
	st, err := s.storeFor(ctx, uid)
	if err != nil {
		return err
	}
	st.RemoveWidget(widgetID)
	return nil
}

func (s *dashboardService) UpdateWidget(ctx context.Context, uid, widgetID string, req dto.UpdateWidgetRequest) error {
	st, err := s.storeFor(ctx, uid)
	if err != nil {
		return err
	}
	st.UpdateWidget(widgetID, dashboard.WidgetUpdate{
		Title:       req.Title,
		Description: req.Description,
		Args:        req.Args,
	})
	return nil
}

func (s *dashboardService) ReorderWidgets(ctx context.Context, uid string, req dto.ReorderWidgetsRequest) error {
	if req.MovedID == "" || req.TargetID == "" {
		return errs.NewValidationError("movedId and targetId are required")
	}
	st, err := s.storeFor(ctx, uid)
	if err != nil {
		return err
	}
	st.ReorderWidgets(req.MovedID, req.TargetID)
	return nil
}

func (s *dashboardService) ResizeWidget(ctx context.Context, uid, widgetID, size string) error {
	if err := validateSize(size); err != nil {
		return err
	}
	if size == "" {
		return errs.NewValidationError("size is required")
	}
	st, err := s.storeFor(ctx, uid)
	if err != nil {
		return err
	}
	st.ResizeWidget(widgetID, size)
	return nil
}

// PinWidget copies an ephemeral chat widget onto the dashboard. This is the
// explicit user action that turns a show_* render into a stored widget.
func (s *dashboardService) PinWidget(ctx context.Context, uid string, req dto.PinWidgetRequest) (models.WidgetInstance, error) {
	if !s.reg.IsValid(req.WidgetType) {
		return models.WidgetInstance{}, errs.NewValidationError("unknown widget type: " + req.WidgetType)
	}
	if req.Title == "" {
		return models.WidgetInstance{}, errs.NewValidationError("title is required")
	}
	st, err := s.storeFor(ctx, uid)
	if err != nil {
		return models.WidgetInstance{}, err
	}
	return st.AddWidget(dashboard.WidgetSpec{
		WidgetType:  req.WidgetType,
		Title:       req.Title,
		Description: req.Description,
		Args:        req.Args,
		Pinned:      true,
		Source:      models.SourceChat,
		Tags:        req.Tags,
	}), nil
}

// SaveWidgetEntry persists an artifact from a data-saving widget, routed to
// the collection its behavior config names.
func (s *dashboardService) SaveWidgetEntry(ctx context.Context, uid, widgetID string, req dto.SaveWidgetEntryRequest) (string, error) {
	st, err := s.storeFor(ctx, uid)
	if err != nil {
		return "", err
	}
	layout := st.Layout()
	var widget *models.WidgetInstance
	for i := range layout.Widgets {
		if layout.Widgets[i].ID == widgetID {
			widget = &layout.Widgets[i]
			break
		}
	}
	if widget == nil {
		return "", errs.NewNotFoundError("widget not found")
	}

	cfg, ok := s.reg.BehaviorOf(widget.WidgetType)
	if !ok || cfg.DataSaving == nil {
		return "", errs.NewValidationError(fmt.Sprintf("widget type %q does not save data", widget.WidgetType))
	}
	tags := req.Tags
	if !cfg.DataSaving.SupportsTags {
		tags = nil
	}

	switch cfg.DataSaving.Collection {
	case registry.CollectionJournal:
		content, _ := req.Content["content"].(string)
		if content == "" {
			return "", errs.NewValidationError("content.content is required for journal entries")
		}
		prompt, _ := req.Content["prompt"].(string)
		entry := models.JournalEntry{ID: uuid.New().String(), Content: content, Prompt: prompt, Tags: tags}
		if err := s.journal.Insert(ctx, uid, &entry); err != nil {
			return "", err
		}
		return entry.ID, nil

	case registry.CollectionMoods:
		valence, okV := toFloat(req.Content["valence"])
		energy, okE := toFloat(req.Content["energy"])
		label, _ := req.Content["label"].(string)
		if !okV || !okE || label == "" {
			return "", errs.NewValidationError("content.valence, content.energy, and content.label are required for mood entries")
		}
		moodCtx, _ := req.Content["context"].(string)
		log := models.MoodLog{
			ID:        uuid.New().String(),
			Vector:    models.MoodVector{X: valence, Y: energy},
			Label:     label,
			Intensity: moodIntensity(valence, energy),
			Context:   moodCtx,
			Tags:      tags,
		}
		if err := s.moods.Insert(ctx, uid, &log); err != nil {
			return "", err
		}
		return log.ID, nil

	default:
		data := models.WidgetData{
			ID:               uuid.New().String(),
			DataSubtype:      cfg.DataSaving.Subtype,
			Content:          req.Content,
			Tags:             tags,
			WidgetInstanceID: widgetID,
		}
		if err := s.widgetData.Insert(ctx, uid, &data); err != nil {
			return "", err
		}
		return data.ID, nil
	}
}

// WidgetTypeCatalog exposes the registry table for clients.
func (s *dashboardService) WidgetTypeCatalog() []registry.CatalogEntry {
	return s.reg.Catalog()
}

func validateSize(size string) error {
	switch size {
	case "", models.SizeSmall, models.SizeMedium, models.SizeLarge:
		return nil
	}
	return errs.NewValidationError("size must be one of: small, medium, large")
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
