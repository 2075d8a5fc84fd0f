package services

import (
	"context"
	"errors"
	"sync"

	"github.com/sarthology/dailysage-backend/internal/errs"
	"github.com/sarthology/dailysage-backend/pkg/logger"
)

type collectionWiper interface {
	DeleteAll(ctx context.Context, uid string) error
}

type layoutClearer interface {
	ClearLayout(ctx context.Context, uid string) error
}

type storeEvictor interface {
	Evict(uid string)
}

type accountService struct {
	journal    collectionWiper
	moods      collectionWiper
	widgetData collectionWiper
	chat       collectionWiper
	profiles   layoutClearer
	dashboards storeEvictor
}

func NewAccountService(journal, moods, widgetData, chat collectionWiper, profiles layoutClearer, dashboards storeEvictor) *accountService {
	return &accountService{
		journal:    journal,
		moods:      moods,
		widgetData: widgetData,
		chat:       chat,
		profiles:   profiles,
		dashboards: dashboards,
	}
}

// ResetAccount wipes the user's content: journal entries, mood logs, widget
// data, chat sessions, and the dashboard layout. Targets run concurrently
// and all of them are attempted; a failure in one does not stop the others,
// but any failure makes the whole reset fail. There is no rollback, so a
// failed reset can leave some targets already cleared.
func (s *accountService) ResetAccount(ctx context.Context, uid string) error {
	// Cancel any pending debounced layout write before clearing.
	s.dashboards.Evict(uid)

	targets := []struct {
		name string
		run  func(context.Context) error
	}{
		{"journal", func(ctx context.Context) error { return s.journal.DeleteAll(ctx, uid) }},
		{"moods", func(ctx context.Context) error { return s.moods.DeleteAll(ctx, uid) }},
		{"widget_data", func(ctx context.Context) error { return s.widgetData.DeleteAll(ctx, uid) }},
		{"chat", func(ctx context.Context) error { return s.chat.DeleteAll(ctx, uid) }},
		{"layout", func(ctx context.Context) error { return s.profiles.ClearLayout(ctx, uid) }},
	}

	failures := make([]error, len(targets))
	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := target.run(ctx); err != nil {
				logger.FromContext(ctx).Error("account reset target failed",
					"target", target.name, "error", err)
				failures[i] = err
			}
		}()
	}
	wg.Wait()

	if err := errors.Join(failures...); err != nil {
		return errs.NewDatabaseError("reset account", "failed to reset account data", err)
	}
	logger.FromContext(ctx).Info("account data reset")
	return nil
}
