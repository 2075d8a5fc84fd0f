package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/sarthology/dailysage-backend/internal/errs"
)

// creditStore manages the credits field on the profile document. Deduct is a
// single transactional update-where-sufficient, never a separate read then
// write, so concurrent requests cannot double-spend.
type creditStore struct {
	client     *firestore.Client
	collection *firestore.CollectionRef
}

func NewCreditStore(client *firestore.Client) *creditStore {
	return &creditStore{
		client:     client,
		collection: client.Collection("users"),
	}
}

func (s *creditStore) Balance(ctx context.Context, uid string) (int64, error) {
	doc, err := s.collection.Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return 0, errs.NewNotFoundError("user not found")
		}
		return 0, errs.NewDatabaseError("read", "failed to read credit balance", err)
	}
	return readBalance(doc), nil
}

// Deduct atomically subtracts amount if the balance covers it. Returns
// InsufficientCreditsError otherwise; nothing is written in that case.
func (s *creditStore) Deduct(ctx context.Context, uid string, amount int64) (int64, error) {
	ref := s.collection.Doc(uid)
	var remaining int64

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errs.NewNotFoundError("user not found")
			}
			return err
		}
		balance := readBalance(doc)
		if balance < amount {
			return errs.NewInsufficientCreditsError(amount, balance)
		}
		remaining = balance - amount
		return tx.Update(ref, []firestore.Update{
			{Path: "credits", Value: remaining},
			{Path: "updatedAt", Value: time.Now()},
		})
	})
	if err != nil {
		switch err.(type) {
		case *errs.InsufficientCreditsError, *errs.NotFoundError:
			return 0, err
		}
		return 0, errs.NewDatabaseError("update", "failed to deduct credits", err)
	}
	return remaining, nil
}

// Grant adds credits (signup grant, subscription top-up).
func (s *creditStore) Grant(ctx context.Context, uid string, amount int64) error {
	_, err := s.collection.Doc(uid).Update(ctx, []firestore.Update{
		{Path: "credits", Value: firestore.Increment(amount)},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errs.NewNotFoundError("user not found")
		}
		return errs.NewDatabaseError("update", "failed to grant credits", err)
	}
	return nil
}

func readBalance(doc *firestore.DocumentSnapshot) int64 {
	raw, err := doc.DataAt("credits")
	if err != nil {
		return 0
	}
	if n, ok := raw.(int64); ok {
		return n
	}
	return 0
}
