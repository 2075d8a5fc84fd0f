package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/sarthology/dailysage-backend/internal/errs"
	"github.com/sarthology/dailysage-backend/internal/models"
)

// profileStore owns the users/{uid} document: profile fields plus the
// dashboardLayout blob. The layout contract is overwrite-whole-blob.
type profileStore struct {
	client     *firestore.Client
	collection *firestore.CollectionRef
}

func NewProfileStore(client *firestore.Client) *profileStore {
	return &profileStore{
		client:     client,
		collection: client.Collection("users"),
	}
}

func (s *profileStore) CreateUser(ctx context.Context, user *models.User) error {
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	_, err := s.collection.Doc(user.UID).Create(ctx, user)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errs.NewValidationError("user already registered")
		}
		return errs.NewDatabaseError("create", "failed to create user", err)
	}
	return nil
}

func (s *profileStore) GetUser(ctx context.Context, uid string) (*models.User, error) {
	doc, err := s.collection.Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("user not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get user", err)
	}
	var user models.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse user data", err)
	}
	return &user, nil
}

// SaveLayout overwrites the full layout blob on the profile document.
func (s *profileStore) SaveLayout(ctx context.Context, uid string, layout models.DashboardLayout) error {
	_, err := s.collection.Doc(uid).Set(ctx, map[string]any{
		"dashboardLayout": layout,
		"updatedAt":       time.Now(),
	}, firestore.MergeAll)
	if err != nil {
		return errs.NewDatabaseError("update", "failed to save dashboard layout", err)
	}
	return nil
}

func (s *profileStore) GetLayout(ctx context.Context, uid string) (models.DashboardLayout, error) {
	doc, err := s.collection.Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return models.DashboardLayout{}, errs.NewNotFoundError("user not found")
		}
		return models.DashboardLayout{}, errs.NewDatabaseError("read", "failed to get dashboard layout", err)
	}
	// a profile without the field yet decodes to an empty layout
	var wrapper struct {
		Layout models.DashboardLayout `firestore:"dashboardLayout"`
	}
	if err := doc.DataTo(&wrapper); err != nil {
		return models.DashboardLayout{}, errs.NewDatabaseError("read", "failed to parse dashboard layout", err)
	}
	return wrapper.Layout, nil
}

// ClearLayout resets the layout blob. Only the account reset path uses this.
func (s *profileStore) ClearLayout(ctx context.Context, uid string) error {
	_, err := s.collection.Doc(uid).Update(ctx, []firestore.Update{
		{Path: "dashboardLayout", Value: firestore.Delete},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil && status.Code(err) != codes.NotFound {
		return errs.NewDatabaseError("delete", "failed to clear dashboard layout", err)
	}
	return nil
}
