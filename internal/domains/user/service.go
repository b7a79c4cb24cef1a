package user

import (
	"context"

	"github.com/google/uuid"
)

// Service is the account, auth and subscription API. callerID is the
// authenticated user making the request; uuid.Nil means anonymous, and
// every IsSubscribed flag is then false.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*UserDTO, error)
	Login(ctx context.Context, req LoginRequest) (*TokenPair, error)
	Refresh(ctx context.Context, req RefreshRequest) (*TokenPair, error)
	SetPassword(ctx context.Context, userID uuid.UUID, req SetPasswordRequest) error

	GetByID(ctx context.Context, id, callerID uuid.UUID) (*UserDTO, error)
	List(ctx context.Context, callerID uuid.UUID, page, limit int) ([]UserDTO, int64, error)

	// Subscribe returns the followed author with recipe previews,
	// trimmed to recipesLimit when it is positive.
	Subscribe(ctx context.Context, subscriberID, authorID uuid.UUID, recipesLimit int) (*SubscriptionDTO, error)
	Unsubscribe(ctx context.Context, subscriberID, authorID uuid.UUID) error
	// Subscriptions lists followed authors with recipe previews. A
	// non-positive recipesLimit leaves the previews uncapped.
	Subscriptions(ctx context.Context, subscriberID uuid.UUID, page, limit, recipesLimit int) ([]SubscriptionDTO, int64, error)
}
