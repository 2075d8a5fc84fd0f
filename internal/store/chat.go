package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/sarthology/dailysage-backend/internal/errs"
	"github.com/sarthology/dailysage-backend/internal/models"
)

type chatStore struct {
	client *firestore.Client
}

func NewChatStore(client *firestore.Client) *chatStore {
	return &chatStore{client: client}
}

func (s *chatStore) sessions(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection("chat_sessions")
}

func (s *chatStore) messages(uid, sessionID string) *firestore.CollectionRef {
	return s.sessions(uid).Doc(sessionID).Collection("messages")
}

func (s *chatStore) SaveMessage(ctx context.Context, uid, sessionID string, msg models.ChatMessage) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	_, _, err := s.messages(uid, sessionID).Add(ctx, msg)
	if err != nil {
		return errs.NewDatabaseError("create", "failed to save chat message", err)
	}
	return nil
}

// ListMessages returns the most recent messages in chronological order.
func (s *chatStore) ListMessages(ctx context.Context, uid, sessionID string, limit int) ([]models.ChatMessage, error) {
	query := s.messages(uid, sessionID).Query.OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var out []models.ChatMessage
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list chat messages", err)
		}
		var msg models.ChatMessage
		if err := doc.DataTo(&msg); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse chat message", err)
		}
		out = append(out, msg)
	}

	reverseMessages(out)
	return out, nil
}

// DeleteAll removes every session and its messages.
func (s *chatStore) DeleteAll(ctx context.Context, uid string) error {
	sessions, err := s.sessions(uid).Documents(ctx).GetAll()
	if err != nil {
		return errs.NewDatabaseError("read", "failed to list chat sessions", err)
	}
	for _, session := range sessions {
		if err := deleteCollection(ctx, s.client, session.Ref.Collection("messages"), "chat messages"); err != nil {
			return err
		}
		if _, err := session.Ref.Delete(ctx); err != nil {
			return errs.NewDatabaseError("delete", "failed to delete chat session", err)
		}
	}
	return nil
}

func reverseMessages(msgs []models.ChatMessage) {
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
}
