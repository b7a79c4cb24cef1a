package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"recipebox-backend/internal/domains/user"
	"recipebox-backend/internal/shared/toggle"
	"recipebox-backend/pkg/jwt"
	"recipebox-backend/pkg/logger"
)

type userService struct {
	repo       user.Repository
	jwtManager *jwt.Manager
}

func NewUserService(repo user.Repository, jwtManager *jwt.Manager) user.Service {
	return &userService{repo: repo, jwtManager: jwtManager}
}

func (s *userService) Register(ctx context.Context, req user.RegisterRequest) (*user.UserDTO, error) {
	// Step 1: Hash the password
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// Step 2: Insert; unique constraints catch duplicate email/username
	u := &user.User{
		ID:           uuid.New(),
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
		Role:         user.RoleUser,
		CreatedAt:    time.Now(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	logger.Info("user registered", map[string]interface{}{
		"user_id":  u.ID.String(),
		"username": u.Username,
	})

	dto := u.ToDTO(false)
	return &dto, nil
}

func (s *userService) Login(ctx context.Context, req user.LoginRequest) (*user.TokenPair, error) {
	u, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, user.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, user.ErrInvalidCredentials
	}

	return s.issueTokens(u)
}

func (s *userService) Refresh(ctx context.Context, req user.RefreshRequest) (*user.TokenPair, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, user.ErrInvalidToken
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, user.ErrInvalidToken
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, user.ErrInvalidToken
	}

	return s.issueTokens(u)
}

func (s *userService) issueTokens(u *user.User) (*user.TokenPair, error) {
	access, err := s.jwtManager.GenerateAccessToken(u.ID.String(), u.Username, u.Role)
	if err != nil {
		return nil, err
	}

	refresh, err := s.jwtManager.GenerateRefreshToken(u.ID.String())
	if err != nil {
		return nil, err
	}

	return &user.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *userService) SetPassword(ctx context.Context, userID uuid.UUID, req user.SetPasswordRequest) error {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return user.ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return user.ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.repo.UpdatePassword(ctx, userID, string(hash))
}

func (s *userService) GetByID(ctx context.Context, id, callerID uuid.UUID) (*user.UserDTO, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, user.ErrUserNotFound
	}

	subscribed := false
	if callerID != uuid.Nil && callerID != id {
		subscribed, err = s.repo.SubscriptionExists(ctx, callerID, id)
		if err != nil {
			return nil, err
		}
	}

	dto := u.ToDTO(subscribed)
	return &dto, nil
}

func (s *userService) List(ctx context.Context, callerID uuid.UUID, page, limit int) ([]user.UserDTO, int64, error) {
	users, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uuid.UUID, 0, len(users))
	for i := range users {
		ids = append(ids, users[i].ID)
	}

	subscribed, err := s.repo.SubscribedAuthorSet(ctx, callerID, ids)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]user.UserDTO, 0, len(users))
	for i := range users {
		dtos = append(dtos, users[i].ToDTO(subscribed[users[i].ID]))
	}

	return dtos, total, nil
}

func (s *userService) subscriptionRelation() toggle.Relation {
	return toggle.Relation{
		AlreadyPresent: "already subscribed to this author",
		NotPresent:     "not subscribed to this author",
		Exists:         s.repo.SubscriptionExists,
		Create:         s.repo.CreateSubscription,
		Delete:         s.repo.DeleteSubscription,
	}
}

func (s *userService) Subscribe(ctx context.Context, subscriberID, authorID uuid.UUID, recipesLimit int) (*user.SubscriptionDTO, error) {
	if subscriberID == authorID {
		return nil, &toggle.ValidationError{Message: "cannot subscribe to oneself"}
	}

	author, err := s.repo.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, user.ErrUserNotFound
	}

	if err := toggle.Add(ctx, s.subscriptionRelation(), subscriberID, authorID); err != nil {
		return nil, err
	}

	return s.subscriptionDTO(ctx, author, recipesLimit)
}

func (s *userService) Unsubscribe(ctx context.Context, subscriberID, authorID uuid.UUID) error {
	if subscriberID == authorID {
		return &toggle.ValidationError{Message: "cannot subscribe to oneself"}
	}

	author, err := s.repo.GetByID(ctx, authorID)
	if err != nil {
		return err
	}
	if author == nil {
		return user.ErrUserNotFound
	}

	return toggle.Remove(ctx, s.subscriptionRelation(), subscriberID, authorID)
}

// subscriptionDTO projects one followed author with recipe previews.
func (s *userService) subscriptionDTO(ctx context.Context, author *user.User, recipesLimit int) (*user.SubscriptionDTO, error) {
	ids := []uuid.UUID{author.ID}

	briefs, err := s.repo.RecipeBriefsByAuthors(ctx, ids, recipesLimit)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.RecipeCountsByAuthors(ctx, ids)
	if err != nil {
		return nil, err
	}

	recipes := briefs[author.ID]
	if recipes == nil {
		recipes = []user.RecipeBrief{}
	}

	return &user.SubscriptionDTO{
		UserDTO:      author.ToDTO(true),
		Recipes:      recipes,
		RecipesCount: counts[author.ID],
	}, nil
}

func (s *userService) Subscriptions(ctx context.Context, subscriberID uuid.UUID, page, limit, recipesLimit int) ([]user.SubscriptionDTO, int64, error) {
	// Step 1: Page through followed authors
	authors, total, err := s.repo.ListSubscribedAuthors(ctx, subscriberID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	if len(authors) == 0 {
		return []user.SubscriptionDTO{}, total, nil
	}

	ids := make([]uuid.UUID, 0, len(authors))
	for i := range authors {
		ids = append(ids, authors[i].ID)
	}

	// Step 2: Batch-load recipe previews and totals for the page
	briefs, err := s.repo.RecipeBriefsByAuthors(ctx, ids, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	counts, err := s.repo.RecipeCountsByAuthors(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]user.SubscriptionDTO, 0, len(authors))
	for i := range authors {
		a := &authors[i]
		recipes := briefs[a.ID]
		if recipes == nil {
			recipes = []user.RecipeBrief{}
		}
		dtos = append(dtos, user.SubscriptionDTO{
			UserDTO:      a.ToDTO(true),
			Recipes:      recipes,
			RecipesCount: counts[a.ID],
		})
	}

	return dtos, total, nil
}
