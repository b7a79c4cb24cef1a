// Package toggle implements the one add/remove pattern shared by
// favorites, shopping-cart entries and subscriptions: a join row between
// a subject (the requesting user) and an object (a recipe or an author)
// that only ever gets created or deleted.
package toggle

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrDuplicate is returned by a Relation's Create when the store's unique
// constraint rejects the pair. Concurrent adds race on the constraint,
// not on a read-then-write in application code.
var ErrDuplicate = errors.New("relation already exists")

// ValidationError carries a user-facing message and maps to HTTP 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Relation describes one toggle relation: how to check, create and delete
// the (subject, object) pair, plus the messages for the two failure modes.
type Relation struct {
	AlreadyPresent string
	NotPresent     string

	Exists func(ctx context.Context, subject, object uuid.UUID) (bool, error)
	Create func(ctx context.Context, subject, object uuid.UUID) error
	Delete func(ctx context.Context, subject, object uuid.UUID) (bool, error)
}

// Add creates the pair; adding an existing pair fails with the relation's
// already-present message.
func Add(ctx context.Context, rel Relation, subject, object uuid.UUID) error {
	exists, err := rel.Exists(ctx, subject, object)
	if err != nil {
		return err
	}
	if exists {
		return &ValidationError{Message: rel.AlreadyPresent}
	}

	if err := rel.Create(ctx, subject, object); err != nil {
		if errors.Is(err, ErrDuplicate) {
			// Lost the race against a concurrent add.
			return &ValidationError{Message: rel.AlreadyPresent}
		}
		return err
	}

	return nil
}

// Remove deletes the pair; removing a missing pair fails with the
// relation's not-present message.
func Remove(ctx context.Context, rel Relation, subject, object uuid.UUID) error {
	deleted, err := rel.Delete(ctx, subject, object)
	if err != nil {
		return err
	}
	if !deleted {
		return &ValidationError{Message: rel.NotPresent}
	}

	return nil
}
