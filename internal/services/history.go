package services

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/sarthology/dailysage-backend/internal/dto"
	"github.com/sarthology/dailysage-backend/internal/errs"
	"github.com/sarthology/dailysage-backend/internal/models"
	"github.com/sarthology/dailysage-backend/internal/store"
)

type journalLister interface {
	List(ctx context.Context, uid string, opts store.ListOptions) ([]models.JournalEntry, error)
}

type moodLister interface {
	List(ctx context.Context, uid string, opts store.ListOptions) ([]models.MoodLog, error)
}

type widgetDataLister interface {
	List(ctx context.Context, uid, subtype string, opts store.ListOptions) ([]models.WidgetData, error)
	ListByWidget(ctx context.Context, uid, widgetInstanceID string, limit int) ([]models.WidgetData, error)
}

type historyService struct {
	journal    journalLister
	moods      moodLister
	widgetData widgetDataLister
}

func NewHistoryService(journal journalLister, moods moodLister, widgetData widgetDataLister) *historyService {
	return &historyService{journal: journal, moods: moods, widgetData: widgetData}
}

// GetHistory fans out to the backing collections concurrently, normalizes
// each record, and merges newest-first. Each collection is queried with the
// overall limit so the merged result is complete before truncation.
func (s *historyService) GetHistory(ctx context.Context, uid string, q dto.HistoryQuery) ([]models.HistoryEntry, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = dto.DefaultHistoryLimit
	}
	if q.DataSubtype != "" && !knownSubtype(q.DataSubtype) {
		return nil, errs.NewValidationError("unknown data subtype: " + q.DataSubtype)
	}
	opts := store.ListOptions{Tags: q.Tags, Limit: limit}

	var journal, moods, generic []models.HistoryEntry
	g, gctx := errgroup.WithContext(ctx)

	if q.DataSubtype == "" || q.DataSubtype == models.SubtypeJournal {
		g.Go(func() error {
			entries, err := s.journal.List(gctx, uid, opts)
			if err != nil {
				return err
			}
			journal = normalizeJournal(entries)
			return nil
		})
	}
	if q.DataSubtype == "" || q.DataSubtype == models.SubtypeMoodLog {
		g.Go(func() error {
			logs, err := s.moods.List(gctx, uid, opts)
			if err != nil {
				return err
			}
			moods = normalizeMoods(logs)
			return nil
		})
	}
	if q.DataSubtype == "" || isWidgetDataSubtype(q.DataSubtype) {
		subtype := q.DataSubtype // empty means every widget-data subtype
		g.Go(func() error {
			data, err := s.widgetData.List(gctx, uid, subtype, opts)
			if err != nil {
				return err
			}
			generic = normalizeWidgetData(data)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make([]models.HistoryEntry, 0, len(journal)+len(moods)+len(generic))
	merged = append(merged, journal...)
	merged = append(merged, moods...)
	merged = append(merged, generic...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}

// GetWidgetHistory returns the saved artifacts of one widget instance,
// newest first.
func (s *historyService) GetWidgetHistory(ctx context.Context, uid, widgetInstanceID string, limit int) ([]models.HistoryEntry, error) {
	if widgetInstanceID == "" {
		return nil, errs.NewValidationError("widget instance id is required")
	}
	if limit <= 0 {
		limit = dto.DefaultWidgetHistoryLimit
	}
	data, err := s.widgetData.ListByWidget(ctx, uid, widgetInstanceID, limit)
	if err != nil {
		return nil, err
	}
	return normalizeWidgetData(data), nil
}

func normalizeJournal(entries []models.JournalEntry) []models.HistoryEntry {
	out := make([]models.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, models.HistoryEntry{
			ID:          e.ID,
			DataSubtype: models.SubtypeJournal,
			Content:     e,
			Tags:        e.Tags,
			CreatedAt:   e.CreatedAt,
			Source:      "journal",
		})
	}
	return out
}

func normalizeMoods(logs []models.MoodLog) []models.HistoryEntry {
	out := make([]models.HistoryEntry, 0, len(logs))
	for _, m := range logs {
		out = append(out, models.HistoryEntry{
			ID:          m.ID,
			DataSubtype: models.SubtypeMoodLog,
			Content:     m,
			Tags:        m.Tags,
			CreatedAt:   m.CreatedAt,
			Source:      "moods",
		})
	}
	return out
}

func normalizeWidgetData(data []models.WidgetData) []models.HistoryEntry {
	out := make([]models.HistoryEntry, 0, len(data))
	for _, d := range data {
		out = append(out, models.HistoryEntry{
			ID:          d.ID,
			DataSubtype: d.DataSubtype,
			Content:     d.Content,
			Tags:        d.Tags,
			CreatedAt:   d.CreatedAt,
			Source:      "widget_data",
		})
	}
	return out
}

func knownSubtype(subtype string) bool {
	switch subtype {
	case models.SubtypeJournal, models.SubtypeMoodLog:
		return true
	}
	return isWidgetDataSubtype(subtype)
}

func isWidgetDataSubtype(subtype string) bool {
	switch subtype {
	case models.SubtypeGratitude, models.SubtypeAssessment, models.SubtypeReframe:
		return true
	}
	return false
}
