package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipebox-backend/internal/domains/user"
	"recipebox-backend/internal/shared/toggle"
	"recipebox-backend/pkg/jwt"
)

type fakeUserRepo struct {
	user.Repository
	users         map[uuid.UUID]user.User
	subscriptions map[[2]uuid.UUID]bool
	briefs        map[uuid.UUID][]user.RecipeBrief
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:         make(map[uuid.UUID]user.User),
		subscriptions: make(map[[2]uuid.UUID]bool),
		briefs:        make(map[uuid.UUID][]user.RecipeBrief),
	}
}

func (f *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return user.ErrDuplicateEmail
		}
		if existing.Username == u.Username {
			return user.ErrDuplicateUsername
		}
	}
	f.users[u.ID] = *u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	if u, ok := f.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	u, ok := f.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.PasswordHash = hash
	f.users[id] = u
	return nil
}

func (f *fakeUserRepo) SubscriptionExists(_ context.Context, subscriberID, authorID uuid.UUID) (bool, error) {
	return f.subscriptions[[2]uuid.UUID{subscriberID, authorID}], nil
}

func (f *fakeUserRepo) CreateSubscription(_ context.Context, subscriberID, authorID uuid.UUID) error {
	key := [2]uuid.UUID{subscriberID, authorID}
	if f.subscriptions[key] {
		return toggle.ErrDuplicate
	}
	f.subscriptions[key] = true
	return nil
}

func (f *fakeUserRepo) DeleteSubscription(_ context.Context, subscriberID, authorID uuid.UUID) (bool, error) {
	key := [2]uuid.UUID{subscriberID, authorID}
	existed := f.subscriptions[key]
	delete(f.subscriptions, key)
	return existed, nil
}

func (f *fakeUserRepo) ListSubscribedAuthors(_ context.Context, subscriberID uuid.UUID, _, _ int) ([]user.User, int64, error) {
	out := make([]user.User, 0)
	for key := range f.subscriptions {
		if key[0] == subscriberID {
			out = append(out, f.users[key[1]])
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeUserRepo) SubscribedAuthorSet(_ context.Context, subscriberID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	set := make(map[uuid.UUID]bool)
	for _, id := range authorIDs {
		if f.subscriptions[[2]uuid.UUID{subscriberID, id}] {
			set[id] = true
		}
	}
	return set, nil
}

func (f *fakeUserRepo) RecipeBriefsByAuthors(_ context.Context, authorIDs []uuid.UUID, limit int) (map[uuid.UUID][]user.RecipeBrief, error) {
	out := make(map[uuid.UUID][]user.RecipeBrief)
	for _, id := range authorIDs {
		briefs := f.briefs[id]
		if limit > 0 && len(briefs) > limit {
			briefs = briefs[:limit]
		}
		out[id] = briefs
	}
	return out, nil
}

func (f *fakeUserRepo) RecipeCountsByAuthors(_ context.Context, authorIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	out := make(map[uuid.UUID]int)
	for _, id := range authorIDs {
		out[id] = len(f.briefs[id])
	}
	return out, nil
}

func newTestService() (user.Service, *fakeUserRepo) {
	repo := newFakeUserRepo()
	return NewUserService(repo, jwt.NewManager("test-secret", time.Minute, time.Hour)), repo
}

func register(t *testing.T, svc user.Service, email, username string) uuid.UUID {
	t.Helper()
	dto, err := svc.Register(context.Background(), user.RegisterRequest{
		Email:     email,
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Password:  "long-enough-password",
	})
	require.NoError(t, err)
	return dto.ID
}

func TestRegisterAndLogin(t *testing.T) {
	svc, repo := newTestService()
	id := register(t, svc, "a@example.com", "alice")

	// Password is stored hashed.
	assert.NotEqual(t, "long-enough-password", repo.users[id].PasswordHash)

	tokens, err := svc.Login(context.Background(), user.LoginRequest{
		Email:    "a@example.com",
		Password: "long-enough-password",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	_, err = svc.Login(context.Background(), user.LoginRequest{
		Email:    "a@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), user.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	register(t, svc, "a@example.com", "alice")

	_, err := svc.Register(context.Background(), user.RegisterRequest{
		Email:     "a@example.com",
		Username:  "alice2",
		FirstName: "Test",
		LastName:  "User",
		Password:  "long-enough-password",
	})
	assert.ErrorIs(t, err, user.ErrDuplicateEmail)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, _ := newTestService()
	register(t, svc, "a@example.com", "alice")

	tokens, err := svc.Login(context.Background(), user.LoginRequest{
		Email:    "a@example.com",
		Password: "long-enough-password",
	})
	require.NoError(t, err)

	// An access token must not pass as a refresh token.
	_, err = svc.Refresh(context.Background(), user.RefreshRequest{RefreshToken: tokens.AccessToken})
	assert.ErrorIs(t, err, user.ErrInvalidToken)

	_, err = svc.Refresh(context.Background(), user.RefreshRequest{RefreshToken: tokens.RefreshToken})
	assert.NoError(t, err)
}

func TestSetPassword(t *testing.T) {
	svc, _ := newTestService()
	id := register(t, svc, "a@example.com", "alice")

	err := svc.SetPassword(context.Background(), id, user.SetPasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "another-long-password",
	})
	assert.ErrorIs(t, err, user.ErrWrongPassword)

	err = svc.SetPassword(context.Background(), id, user.SetPasswordRequest{
		CurrentPassword: "long-enough-password",
		NewPassword:     "another-long-password",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), user.LoginRequest{
		Email:    "a@example.com",
		Password: "another-long-password",
	})
	assert.NoError(t, err)
}

func TestSubscribeToggle(t *testing.T) {
	svc, _ := newTestService()
	alice := register(t, svc, "a@example.com", "alice")
	bob := register(t, svc, "b@example.com", "bob")

	_, err := svc.Subscribe(context.Background(), alice, alice, 0)
	require.Error(t, err)
	assert.Equal(t, "cannot subscribe to oneself", err.Error())

	err = svc.Unsubscribe(context.Background(), alice, alice)
	require.Error(t, err)
	assert.Equal(t, "cannot subscribe to oneself", err.Error())

	sub, err := svc.Subscribe(context.Background(), alice, bob, 0)
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, bob, sub.ID)
	assert.True(t, sub.IsSubscribed)
	assert.Empty(t, sub.Recipes)

	_, err = svc.Subscribe(context.Background(), alice, bob, 0)
	require.Error(t, err)
	assert.Equal(t, "already subscribed to this author", err.Error())

	require.NoError(t, svc.Unsubscribe(context.Background(), alice, bob))

	err = svc.Unsubscribe(context.Background(), alice, bob)
	require.Error(t, err)
	assert.Equal(t, "not subscribed to this author", err.Error())

	_, err = svc.Subscribe(context.Background(), alice, uuid.New(), 0)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestSubscribeReturnsRecipePreviews(t *testing.T) {
	svc, repo := newTestService()
	alice := register(t, svc, "a@example.com", "alice")
	bob := register(t, svc, "b@example.com", "bob")

	repo.briefs[bob] = []user.RecipeBrief{
		{ID: uuid.New(), Name: "one"},
		{ID: uuid.New(), Name: "two"},
		{ID: uuid.New(), Name: "three"},
	}

	sub, err := svc.Subscribe(context.Background(), alice, bob, 2)
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Len(t, sub.Recipes, 2)
	assert.Equal(t, 3, sub.RecipesCount)
}

func TestSubscriptionsRecipesLimit(t *testing.T) {
	svc, repo := newTestService()
	alice := register(t, svc, "a@example.com", "alice")
	bob := register(t, svc, "b@example.com", "bob")

	repo.briefs[bob] = []user.RecipeBrief{
		{ID: uuid.New(), Name: "one"},
		{ID: uuid.New(), Name: "two"},
		{ID: uuid.New(), Name: "three"},
	}
	_, err := svc.Subscribe(context.Background(), alice, bob, 0)
	require.NoError(t, err)

	subs, total, err := svc.Subscriptions(context.Background(), alice, 1, 20, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, subs, 1)
	assert.True(t, subs[0].IsSubscribed)
	assert.Len(t, subs[0].Recipes, 2)
	// recipes_limit truncates the preview, not the count.
	assert.Equal(t, 3, subs[0].RecipesCount)
}

func TestGetByIDComputesIsSubscribed(t *testing.T) {
	svc, _ := newTestService()
	alice := register(t, svc, "a@example.com", "alice")
	bob := register(t, svc, "b@example.com", "bob")

	dto, err := svc.GetByID(context.Background(), bob, alice)
	require.NoError(t, err)
	assert.False(t, dto.IsSubscribed)

	_, err = svc.Subscribe(context.Background(), alice, bob, 0)
	require.NoError(t, err)

	dto, err = svc.GetByID(context.Background(), bob, alice)
	require.NoError(t, err)
	assert.True(t, dto.IsSubscribed)

	// Anonymous callers always see false.
	dto, err = svc.GetByID(context.Background(), bob, uuid.Nil)
	require.NoError(t, err)
	assert.False(t, dto.IsSubscribed)
}
