package store

import (
	"context"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/sarthology/dailysage-backend/internal/models"
)

func TestChatStoreWithEmulator(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	ctx := context.Background()
	client, err := firestore.NewClient(ctx, "test-project")
	if err != nil {
		t.Fatalf("firestore client error: %v", err)
	}
	defer client.Close()

	store := NewChatStore(client)
	uid := "user"
	sessionID := "session-1"

	base := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	msgs := []models.ChatMessage{
		{Role: models.RoleUser, Content: "first", CreatedAt: base},
		{Role: models.RoleAssistant, Content: "second", CreatedAt: base.Add(time.Minute)},
		{Role: models.RoleUser, Content: "third", CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, msg := range msgs {
		if err := store.SaveMessage(ctx, uid, sessionID, msg); err != nil {
			t.Fatalf("save message error: %v", err)
		}
	}

	got, err := store.ListMessages(ctx, uid, sessionID, 2)
	if err != nil {
		t.Fatalf("list messages error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	if got[0].Content != "second" || got[1].Content != "third" {
		t.Fatalf("unexpected window: %q, %q", got[0].Content, got[1].Content)
	}

	if err := store.DeleteAll(ctx, uid); err != nil {
		t.Fatalf("delete all error: %v", err)
	}
	got, err = store.ListMessages(ctx, uid, sessionID, 0)
	if err != nil {
		t.Fatalf("list after delete error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty history, got %d messages", len(got))
	}
}

func TestReverseMessages(t *testing.T) {
	msgs := []models.ChatMessage{
		{Content: "c"},
		{Content: "b"},
		{Content: "a"},
	}
	reverseMessages(msgs)
	for i, want := range []string{"a", "b", "c"} {
		if msgs[i].Content != want {
			t.Fatalf("index %d: expected %q, got %q", i, want, msgs[i].Content)
		}
	}
}
