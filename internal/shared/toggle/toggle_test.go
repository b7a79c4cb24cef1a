package toggle

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memRelation backs a Relation with an in-memory pair set.
type memRelation struct {
	pairs     map[[2]uuid.UUID]bool
	createErr error
}

func newMemRelation() *memRelation {
	return &memRelation{pairs: make(map[[2]uuid.UUID]bool)}
}

func (m *memRelation) relation() Relation {
	return Relation{
		AlreadyPresent: "already there",
		NotPresent:     "not there",
		Exists: func(_ context.Context, s, o uuid.UUID) (bool, error) {
			return m.pairs[[2]uuid.UUID{s, o}], nil
		},
		Create: func(_ context.Context, s, o uuid.UUID) error {
			if m.createErr != nil {
				return m.createErr
			}
			m.pairs[[2]uuid.UUID{s, o}] = true
			return nil
		},
		Delete: func(_ context.Context, s, o uuid.UUID) (bool, error) {
			key := [2]uuid.UUID{s, o}
			existed := m.pairs[key]
			delete(m.pairs, key)
			return existed, nil
		},
	}
}

func TestAddThenRemove(t *testing.T) {
	m := newMemRelation()
	subject, object := uuid.New(), uuid.New()

	require.NoError(t, Add(context.Background(), m.relation(), subject, object))
	require.NoError(t, Remove(context.Background(), m.relation(), subject, object))
	assert.Empty(t, m.pairs)
}

func TestAddTwiceFailsWithMessage(t *testing.T) {
	m := newMemRelation()
	subject, object := uuid.New(), uuid.New()

	require.NoError(t, Add(context.Background(), m.relation(), subject, object))

	err := Add(context.Background(), m.relation(), subject, object)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Equal(t, "already there", err.Error())
}

func TestRemoveMissingFailsWithMessage(t *testing.T) {
	m := newMemRelation()

	err := Remove(context.Background(), m.relation(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Equal(t, "not there", err.Error())
}

func TestAddLosingTheRaceReadsAsAlreadyPresent(t *testing.T) {
	// Exists says no, but the insert hits the unique constraint because
	// a concurrent request got there first.
	m := newMemRelation()
	m.createErr = ErrDuplicate

	err := Add(context.Background(), m.relation(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Equal(t, "already there", err.Error())
}

func TestAddPropagatesStorageErrors(t *testing.T) {
	m := newMemRelation()
	m.createErr = errors.New("connection reset")

	err := Add(context.Background(), m.relation(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.False(t, IsValidationError(err))
}
