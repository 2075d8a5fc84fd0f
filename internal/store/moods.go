package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/sarthology/dailysage-backend/internal/errs"
	"github.com/sarthology/dailysage-backend/internal/models"
)

type moodStore struct {
	client *firestore.Client
}

func NewMoodStore(client *firestore.Client) *moodStore {
	return &moodStore{client: client}
}

func (s *moodStore) collection(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection("mood_logs")
}

func (s *moodStore) Insert(ctx context.Context, uid string, log *models.MoodLog) error {
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	_, err := s.collection(uid).Doc(log.ID).Set(ctx, log)
	if err != nil {
		return errs.NewDatabaseError("create", "failed to save mood log", err)
	}
	return nil
}

func (s *moodStore) List(ctx context.Context, uid string, opts ListOptions) ([]models.MoodLog, error) {
	iter := applyListOptions(s.collection(uid).Query, opts).Documents(ctx)
	defer iter.Stop()

	var out []models.MoodLog
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list mood logs", err)
		}
		var log models.MoodLog
		if err := doc.DataTo(&log); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse mood log", err)
		}
		out = append(out, log)
	}
	return out, nil
}

func (s *moodStore) DeleteAll(ctx context.Context, uid string) error {
	return deleteCollection(ctx, s.client, s.collection(uid), "mood logs")
}
