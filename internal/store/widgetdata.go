package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/sarthology/dailysage-backend/internal/errs"
	"github.com/sarthology/dailysage-backend/internal/models"
)

type widgetDataStore struct {
	client *firestore.Client
}

func NewWidgetDataStore(client *firestore.Client) *widgetDataStore {
	return &widgetDataStore{client: client}
}

func (s *widgetDataStore) collection(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection("widget_data")
}

func (s *widgetDataStore) Insert(ctx context.Context, uid string, data *models.WidgetData) error {
	if data.CreatedAt.IsZero() {
		data.CreatedAt = time.Now()
	}
	_, err := s.collection(uid).Doc(data.ID).Set(ctx, data)
	if err != nil {
		return errs.NewDatabaseError("create", "failed to save widget data", err)
	}
	return nil
}

// List returns generic widget artifacts, optionally narrowed to one subtype.
func (s *widgetDataStore) List(ctx context.Context, uid, subtype string, opts ListOptions) ([]models.WidgetData, error) {
	q := s.collection(uid).Query
	if subtype != "" {
		q = q.Where("dataSubtype", "==", subtype)
	}
	return s.collect(applyListOptions(q, opts).Documents(ctx))
}

// ListByWidget returns artifacts saved by one specific widget instance.
func (s *widgetDataStore) ListByWidget(ctx context.Context, uid, widgetInstanceID string, limit int) ([]models.WidgetData, error) {
	q := s.collection(uid).Query.
		Where("widgetInstanceId", "==", widgetInstanceID).
		OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}
	return s.collect(q.Documents(ctx))
}

func (s *widgetDataStore) collect(iter *firestore.DocumentIterator) ([]models.WidgetData, error) {
	defer iter.Stop()
	var out []models.WidgetData
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list widget data", err)
		}
		var data models.WidgetData
		if err := doc.DataTo(&data); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse widget data", err)
		}
		out = append(out, data)
	}
	return out, nil
}

func (s *widgetDataStore) DeleteAll(ctx context.Context, uid string) error {
	return deleteCollection(ctx, s.client, s.collection(uid), "widget data")
}
