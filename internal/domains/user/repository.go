package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository covers accounts and the subscription graph. Recipe
// previews for subscription listings are read here as well so the
// listing stays a handful of batched queries.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// GetByIDs resolves a batch of ids; missing ids are absent from
	// the map.
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]User, error)
	List(ctx context.Context, page, limit int) ([]User, int64, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error

	SubscriptionExists(ctx context.Context, subscriberID, authorID uuid.UUID) (bool, error)
	CreateSubscription(ctx context.Context, subscriberID, authorID uuid.UUID) error
	DeleteSubscription(ctx context.Context, subscriberID, authorID uuid.UUID) (bool, error)
	// ListSubscribedAuthors returns the authors the subscriber follows,
	// newest subscription first, with the total count for pagination.
	ListSubscribedAuthors(ctx context.Context, subscriberID uuid.UUID, page, limit int) ([]User, int64, error)
	// SubscribedAuthorSet reports which of authorIDs the subscriber
	// follows. Absent ids are not followed.
	SubscribedAuthorSet(ctx context.Context, subscriberID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error)

	// RecipeBriefsByAuthors returns up to limit newest recipes per
	// author; limit <= 0 means no per-author cap.
	RecipeBriefsByAuthors(ctx context.Context, authorIDs []uuid.UUID, limit int) (map[uuid.UUID][]RecipeBrief, error)
	RecipeCountsByAuthors(ctx context.Context, authorIDs []uuid.UUID) (map[uuid.UUID]int, error)
}
