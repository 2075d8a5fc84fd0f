package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/sarthology/dailysage-backend/internal/errs"
	"github.com/sarthology/dailysage-backend/internal/models"
)

type journalStore struct {
	client *firestore.Client
}

func NewJournalStore(client *firestore.Client) *journalStore {
	return &journalStore{client: client}
}

func (s *journalStore) collection(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection("journal_entries")
}

func (s *journalStore) Insert(ctx context.Context, uid string, entry *models.JournalEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	_, err := s.collection(uid).Doc(entry.ID).Set(ctx, entry)
	if err != nil {
		return errs.NewDatabaseError("create", "failed to save journal entry", err)
	}
	return nil
}

func (s *journalStore) List(ctx context.Context, uid string, opts ListOptions) ([]models.JournalEntry, error) {
	iter := applyListOptions(s.collection(uid).Query, opts).Documents(ctx)
	defer iter.Stop()

	var out []models.JournalEntry
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list journal entries", err)
		}
		var entry models.JournalEntry
		if err := doc.DataTo(&entry); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse journal entry", err)
		}
		out = append(out, entry)
	}
	return out, nil
}

func (s *journalStore) DeleteAll(ctx context.Context, uid string) error {
	return deleteCollection(ctx, s.client, s.collection(uid), "journal entries")
}
