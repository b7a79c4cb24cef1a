package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"recipebox-backend/internal/domains/ingredient"
	"recipebox-backend/internal/domains/recipe"
	"recipebox-backend/internal/domains/tag"
	"recipebox-backend/internal/domains/user"
	"recipebox-backend/internal/shared"
	"recipebox-backend/internal/shared/toggle"
	"recipebox-backend/internal/shared/utils"
	"recipebox-backend/pkg/logger"
)

type recipeService struct {
	repo           recipe.Repository
	tagRepo        tag.Repository
	ingredientRepo ingredient.Repository
	userRepo       user.Repository
	store          recipe.ImageStore
	queue          recipe.TaskQueue
}

func NewRecipeService(
	repo recipe.Repository,
	tagRepo tag.Repository,
	ingredientRepo ingredient.Repository,
	userRepo user.Repository,
	store recipe.ImageStore,
	queue recipe.TaskQueue,
) recipe.Service {
	return &recipeService{
		repo:           repo,
		tagRepo:        tagRepo,
		ingredientRepo: ingredientRepo,
		userRepo:       userRepo,
		store:          store,
		queue:          queue,
	}
}

func invalid(format string, args ...interface{}) error {
	return &toggle.ValidationError{Message: fmt.Sprintf(format, args...)}
}

// validatePayload runs the write-side checks in a fixed order; the
// first violation wins. It returns the resolved tag ids and ingredient
// amounts ready for persistence.
func (s *recipeService) validatePayload(ctx context.Context, p recipe.RecipePayload) ([]uuid.UUID, []recipe.IngredientAmount, error) {
	// Step 1: Cooking time
	if p.CookingTime == nil || *p.CookingTime <= 0 {
		return nil, nil, invalid("cooking time must be greater than zero")
	}

	// Step 2: Tags present
	if len(p.Tags) == 0 {
		return nil, nil, invalid("tags field is required")
	}

	// Step 3: Every tag exists
	tagIDs := make([]uuid.UUID, 0, len(p.Tags))
	seenTags := make(map[uuid.UUID]bool, len(p.Tags))
	for _, raw := range p.Tags {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, nil, invalid("tag with id %s does not exist", raw)
		}
		t, err := s.tagRepo.GetByID(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		if t == nil {
			return nil, nil, invalid("tag with id %s does not exist", raw)
		}
		if !seenTags[id] {
			seenTags[id] = true
			tagIDs = append(tagIDs, id)
		}
	}

	// Step 4: Ingredients present
	if len(p.Ingredients) == 0 {
		return nil, nil, invalid("ingredients field is required")
	}

	// Step 5: Every entry carries both fields
	for _, ref := range p.Ingredients {
		if ref.ID == nil || ref.Amount == nil {
			return nil, nil, invalid("each ingredient must contain id and amount")
		}
	}

	// Resolve what does exist so later steps can report by name.
	parseable := make([]uuid.UUID, 0, len(p.Ingredients))
	for _, ref := range p.Ingredients {
		if id, err := uuid.Parse(*ref.ID); err == nil {
			parseable = append(parseable, id)
		}
	}
	known, err := s.ingredientRepo.GetByIDs(ctx, parseable)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[uuid.UUID]ingredient.Ingredient, len(known))
	for i := range known {
		byID[known[i].ID] = known[i]
	}

	// Step 6: No duplicates
	seen := make(map[string]bool, len(p.Ingredients))
	for _, ref := range p.Ingredients {
		if seen[*ref.ID] {
			name := *ref.ID
			if id, err := uuid.Parse(*ref.ID); err == nil {
				if ing, ok := byID[id]; ok {
					name = ing.Name
				}
			}
			return nil, nil, invalid("ingredient %s added twice", name)
		}
		seen[*ref.ID] = true
	}

	// Step 7: Every ingredient exists
	for _, ref := range p.Ingredients {
		id, err := uuid.Parse(*ref.ID)
		if err != nil {
			return nil, nil, invalid("ingredient with id %s does not exist", *ref.ID)
		}
		if _, ok := byID[id]; !ok {
			return nil, nil, invalid("ingredient with id %s does not exist", *ref.ID)
		}
	}

	// Step 8: Positive integer amounts
	amounts := make([]recipe.IngredientAmount, 0, len(p.Ingredients))
	for _, ref := range p.Ingredients {
		id, _ := uuid.Parse(*ref.ID)
		if !ref.Amount.Valid || ref.Amount.Value <= 0 {
			return nil, nil, invalid("ingredient %s: amount must be a positive number", byID[id].Name)
		}
		amounts = append(amounts, recipe.IngredientAmount{IngredientID: id, Amount: ref.Amount.Value})
	}

	return tagIDs, amounts, nil
}

// storeImage decodes a base64 data URI and uploads the original,
// returning its public URL and object key. Raster formats also get a
// background resize task.
func (s *recipeService) storeImage(ctx context.Context, recipeID uuid.UUID, dataURI string) (url, key string, err error) {
	data, ext, err := utils.ParseDataURI(dataURI)
	if err != nil {
		return "", "", recipe.ErrInvalidImage
	}

	key = fmt.Sprintf("recipes/%s.%s", recipeID, ext)
	contentType := "image/" + ext
	if ext == "svg" {
		contentType = "image/svg+xml"
	}

	url, err = s.store.Upload(ctx, key, data, contentType)
	if err != nil {
		return "", "", fmt.Errorf("failed to store recipe image: %w", err)
	}

	if ext == "jpg" || ext == "jpeg" || ext == "png" {
		s.enqueue(ctx, shared.TypeProcessRecipeImage, shared.ProcessRecipeImagePayload{
			RecipeID: recipeID,
			ImageKey: key,
		})
	}

	return url, key, nil
}

// enqueue is best effort. A lost resize task degrades image variants,
// not the recipe itself.
func (s *recipeService) enqueue(ctx context.Context, taskType string, payload interface{}) {
	task, err := utils.MarshalTask(taskType, payload)
	if err != nil {
		logger.Error("failed to build task", err)
		return
	}
	if _, err := s.queue.EnqueueContext(ctx, task); err != nil {
		logger.Error("failed to enqueue "+taskType, err)
	}
}

func (s *recipeService) Create(ctx context.Context, authorID uuid.UUID, p recipe.RecipePayload) (*recipe.RecipeDTO, error) {
	// Step 1: Validate
	if err := p.ValidateCreate(); err != nil {
		return nil, &toggle.ValidationError{Message: err.Error()}
	}
	tagIDs, amounts, err := s.validatePayload(ctx, p)
	if err != nil {
		return nil, err
	}

	// Step 2: Store the image
	now := time.Now()
	rec := &recipe.Recipe{
		ID:          uuid.New(),
		AuthorID:    authorID,
		Name:        *p.Name,
		Text:        *p.Text,
		CookingTime: *p.CookingTime,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	rec.Image, rec.ImageKey, err = s.storeImage(ctx, rec.ID, *p.Image)
	if err != nil {
		return nil, err
	}

	// Step 3: Persist the aggregate in one transaction
	if err := s.repo.CreateWithRelations(ctx, rec, tagIDs, amounts); err != nil {
		return nil, err
	}

	logger.Info("recipe created", map[string]interface{}{
		"recipe_id": rec.ID.String(),
		"author_id": authorID.String(),
	})

	return s.buildDTO(ctx, rec, authorID)
}

func (s *recipeService) Update(ctx context.Context, id, callerID uuid.UUID, isAdmin bool, p recipe.RecipePayload) (*recipe.RecipeDTO, error) {
	// Step 1: Load and authorize
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, recipe.ErrRecipeNotFound
	}
	if rec.AuthorID != callerID && !isAdmin {
		return nil, recipe.ErrNotOwner
	}

	// Step 2: Validate; tags and ingredients are mandatory on update
	// because they are replaced wholesale, but an omitted cooking time
	// keeps its stored value
	if p.CookingTime == nil {
		p.CookingTime = &rec.CookingTime
	}
	tagIDs, amounts, err := s.validatePayload(ctx, p)
	if err != nil {
		return nil, err
	}

	// Step 3: Apply scalars that are present
	if p.Name != nil {
		rec.Name = *p.Name
	}
	if p.Text != nil {
		rec.Text = *p.Text
	}
	rec.CookingTime = *p.CookingTime
	rec.UpdatedAt = time.Now()

	if p.Image != nil {
		rec.Image, rec.ImageKey, err = s.storeImage(ctx, rec.ID, *p.Image)
		if err != nil {
			return nil, err
		}
	}

	// Step 4: Persist
	if err := s.repo.UpdateWithRelations(ctx, rec, tagIDs, amounts); err != nil {
		return nil, err
	}

	return s.buildDTO(ctx, rec, callerID)
}

func (s *recipeService) Delete(ctx context.Context, id, callerID uuid.UUID, isAdmin bool) error {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rec == nil {
		return recipe.ErrRecipeNotFound
	}
	if rec.AuthorID != callerID && !isAdmin {
		return recipe.ErrNotOwner
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.enqueue(ctx, shared.TypeDeleteRecipeImages, shared.DeleteRecipeImagesPayload{RecipeID: id})

	logger.Info("recipe deleted", map[string]interface{}{
		"recipe_id": id.String(),
		"caller_id": callerID.String(),
	})

	return nil
}

func (s *recipeService) GetByID(ctx context.Context, id, callerID uuid.UUID) (*recipe.RecipeDTO, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, recipe.ErrRecipeNotFound
	}

	return s.buildDTO(ctx, rec, callerID)
}

func (s *recipeService) List(ctx context.Context, q recipe.ListQuery, callerID uuid.UUID, page, limit int) ([]recipe.RecipeDTO, int64, error) {
	f := recipe.ListFilter{
		AuthorID: utils.ParseStringToUUID(q.Author),
		TagSlugs: q.Tags,
		Page:     page,
		Limit:    limit,
	}
	// The two caller-relative filters are silently ignored for
	// anonymous requests.
	if callerID != uuid.Nil {
		if isTruthy(q.IsFavorited) {
			f.FavoritedBy = callerID
		}
		if isTruthy(q.IsInShoppingCart) {
			f.InCartOf = callerID
		}
	}

	recipes, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	dtos, err := s.buildDTOs(ctx, recipes, callerID)
	if err != nil {
		return nil, 0, err
	}

	return dtos, total, nil
}

func isTruthy(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func (s *recipeService) buildDTO(ctx context.Context, rec *recipe.Recipe, callerID uuid.UUID) (*recipe.RecipeDTO, error) {
	dtos, err := s.buildDTOs(ctx, []recipe.Recipe{*rec}, callerID)
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

// buildDTOs assembles full projections for a page of recipes with a
// fixed number of batched queries regardless of page size.
func (s *recipeService) buildDTOs(ctx context.Context, recipes []recipe.Recipe, callerID uuid.UUID) ([]recipe.RecipeDTO, error) {
	if len(recipes) == 0 {
		return []recipe.RecipeDTO{}, nil
	}

	recipeIDs := make([]uuid.UUID, 0, len(recipes))
	authorIDs := make([]uuid.UUID, 0, len(recipes))
	seenAuthors := make(map[uuid.UUID]bool, len(recipes))
	for i := range recipes {
		recipeIDs = append(recipeIDs, recipes[i].ID)
		if !seenAuthors[recipes[i].AuthorID] {
			seenAuthors[recipes[i].AuthorID] = true
			authorIDs = append(authorIDs, recipes[i].AuthorID)
		}
	}

	tagsByRecipe, err := s.repo.TagsByRecipeIDs(ctx, recipeIDs)
	if err != nil {
		return nil, err
	}
	ingredientsByRecipe, err := s.repo.IngredientsByRecipeIDs(ctx, recipeIDs)
	if err != nil {
		return nil, err
	}
	authors, err := s.userRepo.GetByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	favorited, err := s.repo.FavoritedSet(ctx, callerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	inCart, err := s.repo.InCartSet(ctx, callerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	subscribed, err := s.userRepo.SubscribedAuthorSet(ctx, callerID, authorIDs)
	if err != nil {
		return nil, err
	}

	dtos := make([]recipe.RecipeDTO, 0, len(recipes))
	for i := range recipes {
		rec := &recipes[i]

		author := authors[rec.AuthorID]
		tagDTOs := make([]tag.TagDTO, 0, len(tagsByRecipe[rec.ID]))
		for _, t := range tagsByRecipe[rec.ID] {
			tagDTOs = append(tagDTOs, t.ToDTO())
		}
		ings := ingredientsByRecipe[rec.ID]
		if ings == nil {
			ings = []recipe.RecipeIngredient{}
		}

		dtos = append(dtos, recipe.RecipeDTO{
			ID:               rec.ID,
			Author:           author.ToDTO(subscribed[rec.AuthorID]),
			Name:             rec.Name,
			Text:             rec.Text,
			Image:            rec.Image,
			CookingTime:      rec.CookingTime,
			Tags:             tagDTOs,
			Ingredients:      ings,
			IsFavorited:      favorited[rec.ID],
			IsInShoppingCart: inCart[rec.ID],
			CreatedAt:        rec.CreatedAt,
		})
	}

	return dtos, nil
}

func (s *recipeService) favoriteRelation() toggle.Relation {
	return toggle.Relation{
		AlreadyPresent: "recipe already in favorites",
		NotPresent:     "recipe not in favorites",
		Exists:         s.repo.FavoriteExists,
		Create:         s.repo.CreateFavorite,
		Delete:         s.repo.DeleteFavorite,
	}
}

func (s *recipeService) cartRelation() toggle.Relation {
	return toggle.Relation{
		AlreadyPresent: "recipe already in shopping cart",
		NotPresent:     "recipe not in shopping cart",
		Exists:         s.repo.CartExists,
		Create:         s.repo.CreateCartItem,
		Delete:         s.repo.DeleteCartItem,
	}
}

func (s *recipeService) requireRecipe(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, recipe.ErrRecipeNotFound
	}
	return rec, nil
}

func (s *recipeService) Favorite(ctx context.Context, callerID, recipeID uuid.UUID) (*recipe.RecipeBrief, error) {
	rec, err := s.requireRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if err := toggle.Add(ctx, s.favoriteRelation(), callerID, recipeID); err != nil {
		return nil, err
	}
	return rec.Brief(), nil
}

func (s *recipeService) Unfavorite(ctx context.Context, callerID, recipeID uuid.UUID) error {
	if _, err := s.requireRecipe(ctx, recipeID); err != nil {
		return err
	}
	return toggle.Remove(ctx, s.favoriteRelation(), callerID, recipeID)
}

func (s *recipeService) AddToCart(ctx context.Context, callerID, recipeID uuid.UUID) (*recipe.RecipeBrief, error) {
	rec, err := s.requireRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if err := toggle.Add(ctx, s.cartRelation(), callerID, recipeID); err != nil {
		return nil, err
	}
	return rec.Brief(), nil
}

func (s *recipeService) RemoveFromCart(ctx context.Context, callerID, recipeID uuid.UUID) error {
	if _, err := s.requireRecipe(ctx, recipeID); err != nil {
		return err
	}
	return toggle.Remove(ctx, s.cartRelation(), callerID, recipeID)
}

func (s *recipeService) ShoppingList(ctx context.Context, callerID uuid.UUID) (string, error) {
	items, err := s.repo.AggregateShoppingList(ctx, callerID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "%s - %d %s\n", item.Name, item.Total, item.MeasurementUnit)
	}

	return b.String(), nil
}
