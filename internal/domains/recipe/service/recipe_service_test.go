package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipebox-backend/internal/domains/ingredient"
	"recipebox-backend/internal/domains/recipe"
	"recipebox-backend/internal/domains/tag"
	"recipebox-backend/internal/domains/user"
	"recipebox-backend/internal/shared/toggle"
)

// The fakes below embed their interfaces so only the methods the
// service actually touches need implementations.

type fakeTagRepo struct {
	tag.Repository
	tags map[uuid.UUID]tag.Tag
}

func (f *fakeTagRepo) GetByID(_ context.Context, id uuid.UUID) (*tag.Tag, error) {
	if t, ok := f.tags[id]; ok {
		return &t, nil
	}
	return nil, nil
}

type fakeIngredientRepo struct {
	ingredient.Repository
	ingredients map[uuid.UUID]ingredient.Ingredient
}

func (f *fakeIngredientRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]ingredient.Ingredient, error) {
	out := make([]ingredient.Ingredient, 0, len(ids))
	for _, id := range ids {
		if ing, ok := f.ingredients[id]; ok {
			out = append(out, ing)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	user.Repository
	users      map[uuid.UUID]user.User
	subscribed map[[2]uuid.UUID]bool
}

func (f *fakeUserRepo) GetByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]user.User, error) {
	out := make(map[uuid.UUID]user.User)
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (f *fakeUserRepo) SubscribedAuthorSet(_ context.Context, subscriberID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	set := make(map[uuid.UUID]bool)
	for _, id := range authorIDs {
		if f.subscribed[[2]uuid.UUID{subscriberID, id}] {
			set[id] = true
		}
	}
	return set, nil
}

type storedRecipe struct {
	rec         recipe.Recipe
	tagIDs      []uuid.UUID
	ingredients []recipe.IngredientAmount
}

type fakeRecipeRepo struct {
	recipes     map[uuid.UUID]*storedRecipe
	favorites   map[[2]uuid.UUID]bool
	cart        map[[2]uuid.UUID]bool
	ingredients map[uuid.UUID]ingredient.Ingredient
}

func newFakeRecipeRepo(ingredients map[uuid.UUID]ingredient.Ingredient) *fakeRecipeRepo {
	return &fakeRecipeRepo{
		recipes:     make(map[uuid.UUID]*storedRecipe),
		favorites:   make(map[[2]uuid.UUID]bool),
		cart:        make(map[[2]uuid.UUID]bool),
		ingredients: ingredients,
	}
}

func (f *fakeRecipeRepo) CreateWithRelations(_ context.Context, r *recipe.Recipe, tagIDs []uuid.UUID, ings []recipe.IngredientAmount) error {
	f.recipes[r.ID] = &storedRecipe{rec: *r, tagIDs: tagIDs, ingredients: ings}
	return nil
}

func (f *fakeRecipeRepo) UpdateWithRelations(_ context.Context, r *recipe.Recipe, tagIDs []uuid.UUID, ings []recipe.IngredientAmount) error {
	if _, ok := f.recipes[r.ID]; !ok {
		return recipe.ErrRecipeNotFound
	}
	f.recipes[r.ID] = &storedRecipe{rec: *r, tagIDs: tagIDs, ingredients: ings}
	return nil
}

func (f *fakeRecipeRepo) GetByID(_ context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	if s, ok := f.recipes[id]; ok {
		rec := s.rec
		return &rec, nil
	}
	return nil, nil
}

func (f *fakeRecipeRepo) List(_ context.Context, _ recipe.ListFilter) ([]recipe.Recipe, int64, error) {
	out := make([]recipe.Recipe, 0, len(f.recipes))
	for _, s := range f.recipes {
		out = append(out, s.rec)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRecipeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.recipes[id]; !ok {
		return recipe.ErrRecipeNotFound
	}
	delete(f.recipes, id)
	return nil
}

func (f *fakeRecipeRepo) TagsByRecipeIDs(_ context.Context, recipeIDs []uuid.UUID) (map[uuid.UUID][]tag.Tag, error) {
	return map[uuid.UUID][]tag.Tag{}, nil
}

func (f *fakeRecipeRepo) IngredientsByRecipeIDs(_ context.Context, recipeIDs []uuid.UUID) (map[uuid.UUID][]recipe.RecipeIngredient, error) {
	out := make(map[uuid.UUID][]recipe.RecipeIngredient)
	for _, id := range recipeIDs {
		s, ok := f.recipes[id]
		if !ok {
			continue
		}
		for _, ia := range s.ingredients {
			ing := f.ingredients[ia.IngredientID]
			out[id] = append(out[id], recipe.RecipeIngredient{
				ID:              ia.IngredientID,
				Name:            ing.Name,
				MeasurementUnit: ing.MeasurementUnit,
				Amount:          ia.Amount,
			})
		}
	}
	return out, nil
}

func (f *fakeRecipeRepo) FavoriteExists(_ context.Context, userID, recipeID uuid.UUID) (bool, error) {
	return f.favorites[[2]uuid.UUID{userID, recipeID}], nil
}

func (f *fakeRecipeRepo) CreateFavorite(_ context.Context, userID, recipeID uuid.UUID) error {
	key := [2]uuid.UUID{userID, recipeID}
	if f.favorites[key] {
		return toggle.ErrDuplicate
	}
	f.favorites[key] = true
	return nil
}

func (f *fakeRecipeRepo) DeleteFavorite(_ context.Context, userID, recipeID uuid.UUID) (bool, error) {
	key := [2]uuid.UUID{userID, recipeID}
	existed := f.favorites[key]
	delete(f.favorites, key)
	return existed, nil
}

func (f *fakeRecipeRepo) FavoritedSet(_ context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	set := make(map[uuid.UUID]bool)
	for _, id := range recipeIDs {
		if f.favorites[[2]uuid.UUID{userID, id}] {
			set[id] = true
		}
	}
	return set, nil
}

func (f *fakeRecipeRepo) CartExists(_ context.Context, userID, recipeID uuid.UUID) (bool, error) {
	return f.cart[[2]uuid.UUID{userID, recipeID}], nil
}

func (f *fakeRecipeRepo) CreateCartItem(_ context.Context, userID, recipeID uuid.UUID) error {
	key := [2]uuid.UUID{userID, recipeID}
	if f.cart[key] {
		return toggle.ErrDuplicate
	}
	f.cart[key] = true
	return nil
}

func (f *fakeRecipeRepo) DeleteCartItem(_ context.Context, userID, recipeID uuid.UUID) (bool, error) {
	key := [2]uuid.UUID{userID, recipeID}
	existed := f.cart[key]
	delete(f.cart, key)
	return existed, nil
}

func (f *fakeRecipeRepo) InCartSet(_ context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	set := make(map[uuid.UUID]bool)
	for _, id := range recipeIDs {
		if f.cart[[2]uuid.UUID{userID, id}] {
			set[id] = true
		}
	}
	return set, nil
}

func (f *fakeRecipeRepo) AggregateShoppingList(_ context.Context, userID uuid.UUID) ([]recipe.ShoppingItem, error) {
	type key struct{ name, unit string }
	totals := make(map[key]int)
	for pair := range f.cart {
		if pair[0] != userID {
			continue
		}
		s, ok := f.recipes[pair[1]]
		if !ok {
			continue
		}
		for _, ia := range s.ingredients {
			ing := f.ingredients[ia.IngredientID]
			totals[key{ing.Name, ing.MeasurementUnit}] += ia.Amount
		}
	}

	items := make([]recipe.ShoppingItem, 0, len(totals))
	for k, total := range totals {
		items = append(items, recipe.ShoppingItem{Name: k.name, MeasurementUnit: k.unit, Total: total})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

type fakeStore struct {
	uploads map[string][]byte
}

func (f *fakeStore) Upload(_ context.Context, key string, data []byte, _ string) (string, error) {
	if f.uploads == nil {
		f.uploads = make(map[string][]byte)
	}
	f.uploads[key] = data
	return "http://storage.local/" + key, nil
}

type fakeQueue struct {
	tasks []*asynq.Task
}

func (f *fakeQueue) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{}, nil
}

// fixture bundles a service with its fakes and some seeded data.
type fixture struct {
	svc      recipe.Service
	repo     *fakeRecipeRepo
	store    *fakeStore
	queue    *fakeQueue
	author   user.User
	tagID    uuid.UUID
	flourID  uuid.UUID
	sugarID  uuid.UUID
}

func newFixture() *fixture {
	author := user.User{ID: uuid.New(), Email: "chef@example.com", Username: "chef"}
	tagID := uuid.New()
	flourID, sugarID := uuid.New(), uuid.New()

	tags := map[uuid.UUID]tag.Tag{
		tagID: {ID: tagID, Name: "Dinner", Color: "#E26C2D", Slug: "dinner"},
	}
	ingredients := map[uuid.UUID]ingredient.Ingredient{
		flourID: {ID: flourID, Name: "flour", MeasurementUnit: "g"},
		sugarID: {ID: sugarID, Name: "sugar", MeasurementUnit: "g"},
	}
	authors := map[uuid.UUID]user.User{author.ID: author}

	repo := newFakeRecipeRepo(ingredients)
	store := &fakeStore{}
	queue := &fakeQueue{}

	svc := NewRecipeService(
		repo,
		&fakeTagRepo{tags: tags},
		&fakeIngredientRepo{ingredients: ingredients},
		&fakeUserRepo{users: authors, subscribed: map[[2]uuid.UUID]bool{}},
		store,
		queue,
	)

	return &fixture{
		svc:     svc,
		repo:    repo,
		store:   store,
		queue:   queue,
		author:  author,
		tagID:   tagID,
		flourID: flourID,
		sugarID: sugarID,
	}
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func amount(n int) *recipe.FlexAmount {
	return &recipe.FlexAmount{Valid: true, Value: n}
}

func badAmount() *recipe.FlexAmount {
	return &recipe.FlexAmount{Valid: false}
}

func pngDataURI() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png-bytes"))
}

func (f *fixture) validPayload() recipe.RecipePayload {
	return recipe.RecipePayload{
		Name:        strPtr("Pancakes"),
		Text:        strPtr("Mix and fry."),
		Image:       strPtr(pngDataURI()),
		CookingTime: intPtr(15),
		Tags:        []string{f.tagID.String()},
		Ingredients: []recipe.IngredientRef{
			{ID: strPtr(f.flourID.String()), Amount: amount(100)},
		},
	}
}

func TestCreateValidationSequence(t *testing.T) {
	f := newFixture()
	unknownTag := uuid.New()
	unknownIngredient := uuid.New()

	cases := []struct {
		name    string
		mutate  func(p *recipe.RecipePayload)
		message string
	}{
		{
			name:    "missing cooking time",
			mutate:  func(p *recipe.RecipePayload) { p.CookingTime = nil },
			message: "cooking time must be greater than zero",
		},
		{
			name:    "zero cooking time",
			mutate:  func(p *recipe.RecipePayload) { p.CookingTime = intPtr(0) },
			message: "cooking time must be greater than zero",
		},
		{
			name:    "no tags",
			mutate:  func(p *recipe.RecipePayload) { p.Tags = nil },
			message: "tags field is required",
		},
		{
			name:    "unknown tag",
			mutate:  func(p *recipe.RecipePayload) { p.Tags = []string{unknownTag.String()} },
			message: fmt.Sprintf("tag with id %s does not exist", unknownTag),
		},
		{
			name:    "no ingredients",
			mutate:  func(p *recipe.RecipePayload) { p.Ingredients = nil },
			message: "ingredients field is required",
		},
		{
			name: "ingredient without amount",
			mutate: func(p *recipe.RecipePayload) {
				p.Ingredients = []recipe.IngredientRef{{ID: strPtr(f.flourID.String())}}
			},
			message: "each ingredient must contain id and amount",
		},
		{
			name: "ingredient without id",
			mutate: func(p *recipe.RecipePayload) {
				p.Ingredients = []recipe.IngredientRef{{Amount: amount(100)}}
			},
			message: "each ingredient must contain id and amount",
		},
		{
			name: "duplicate ingredient",
			mutate: func(p *recipe.RecipePayload) {
				p.Ingredients = []recipe.IngredientRef{
					{ID: strPtr(f.flourID.String()), Amount: amount(100)},
					{ID: strPtr(f.flourID.String()), Amount: amount(50)},
				}
			},
			message: "ingredient flour added twice",
		},
		{
			name: "unknown ingredient",
			mutate: func(p *recipe.RecipePayload) {
				p.Ingredients = []recipe.IngredientRef{
					{ID: strPtr(unknownIngredient.String()), Amount: amount(100)},
				}
			},
			message: fmt.Sprintf("ingredient with id %s does not exist", unknownIngredient),
		},
		{
			name: "zero amount",
			mutate: func(p *recipe.RecipePayload) {
				p.Ingredients = []recipe.IngredientRef{
					{ID: strPtr(f.flourID.String()), Amount: amount(0)},
				}
			},
			message: "ingredient flour: amount must be a positive number",
		},
		{
			name: "non-numeric amount",
			mutate: func(p *recipe.RecipePayload) {
				p.Ingredients = []recipe.IngredientRef{
					{ID: strPtr(f.flourID.String()), Amount: badAmount()},
				}
			},
			message: "ingredient flour: amount must be a positive number",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := f.validPayload()
			tc.mutate(&p)

			_, err := f.svc.Create(context.Background(), f.author.ID, p)
			require.Error(t, err)
			assert.True(t, toggle.IsValidationError(err))
			assert.Equal(t, tc.message, err.Error())
		})
	}
}

func TestCreatePersistsAggregate(t *testing.T) {
	f := newFixture()

	dto, err := f.svc.Create(context.Background(), f.author.ID, f.validPayload())
	require.NoError(t, err)

	assert.Equal(t, "Pancakes", dto.Name)
	assert.Equal(t, f.author.ID, dto.Author.ID)
	assert.Equal(t, 15, dto.CookingTime)
	assert.False(t, dto.IsFavorited)
	require.Len(t, dto.Ingredients, 1)
	assert.Equal(t, "flour", dto.Ingredients[0].Name)
	assert.Equal(t, 100, dto.Ingredients[0].Amount)

	// The image landed in storage and a resize task went out.
	stored := f.repo.recipes[dto.ID]
	require.NotNil(t, stored)
	assert.Contains(t, stored.rec.Image, "http://storage.local/recipes/")
	assert.Len(t, f.store.uploads, 1)
	require.Len(t, f.queue.tasks, 1)
	assert.Equal(t, "recipe:process_image", f.queue.tasks[0].Type())
}

func TestCreateIgnoresClientAuthor(t *testing.T) {
	f := newFixture()

	dto, err := f.svc.Create(context.Background(), f.author.ID, f.validPayload())
	require.NoError(t, err)
	assert.Equal(t, f.author.ID, f.repo.recipes[dto.ID].rec.AuthorID)
}

func TestUpdateReplacesRelationsWholesale(t *testing.T) {
	f := newFixture()

	created, err := f.svc.Create(context.Background(), f.author.ID, f.validPayload())
	require.NoError(t, err)

	p := f.validPayload()
	p.Name = strPtr("Crepes")
	p.Image = nil
	p.Text = nil
	p.Ingredients = []recipe.IngredientRef{
		{ID: strPtr(f.sugarID.String()), Amount: amount(40)},
	}

	dto, err := f.svc.Update(context.Background(), created.ID, f.author.ID, false, p)
	require.NoError(t, err)

	assert.Equal(t, "Crepes", dto.Name)
	// Absent scalars keep their stored values.
	assert.Equal(t, "Mix and fry.", dto.Text)
	assert.NotEmpty(t, dto.Image)

	stored := f.repo.recipes[created.ID]
	require.Len(t, stored.ingredients, 1)
	assert.Equal(t, f.sugarID, stored.ingredients[0].IngredientID)
	assert.Equal(t, 40, stored.ingredients[0].Amount)
}

func TestUpdateKeepsOmittedCookingTime(t *testing.T) {
	f := newFixture()

	created, err := f.svc.Create(context.Background(), f.author.ID, f.validPayload())
	require.NoError(t, err)
	require.Equal(t, 15, created.CookingTime)

	p := f.validPayload()
	p.CookingTime = nil
	p.Image = nil

	dto, err := f.svc.Update(context.Background(), created.ID, f.author.ID, false, p)
	require.NoError(t, err)
	assert.Equal(t, 15, dto.CookingTime)

	// An explicitly invalid value is still rejected.
	p.CookingTime = intPtr(0)
	_, err = f.svc.Update(context.Background(), created.ID, f.author.ID, false, p)
	require.Error(t, err)
	assert.Equal(t, "cooking time must be greater than zero", err.Error())
}

func TestUpdateRequiresOwnerOrAdmin(t *testing.T) {
	f := newFixture()

	created, err := f.svc.Create(context.Background(), f.author.ID, f.validPayload())
	require.NoError(t, err)

	stranger := uuid.New()
	_, err = f.svc.Update(context.Background(), created.ID, stranger, false, f.validPayload())
	assert.ErrorIs(t, err, recipe.ErrNotOwner)

	_, err = f.svc.Update(context.Background(), created.ID, stranger, true, f.validPayload())
	assert.NoError(t, err)
}

func TestDeleteRequiresOwnerAndEnqueuesCleanup(t *testing.T) {
	f := newFixture()

	created, err := f.svc.Create(context.Background(), f.author.ID, f.validPayload())
	require.NoError(t, err)

	err = f.svc.Delete(context.Background(), created.ID, uuid.New(), false)
	assert.ErrorIs(t, err, recipe.ErrNotOwner)

	require.NoError(t, f.svc.Delete(context.Background(), created.ID, f.author.ID, false))
	assert.NotContains(t, f.repo.recipes, created.ID)

	last := f.queue.tasks[len(f.queue.tasks)-1]
	assert.Equal(t, "recipe:delete_images", last.Type())
}

func TestFavoriteToggle(t *testing.T) {
	f := newFixture()
	caller := uuid.New()

	created, err := f.svc.Create(context.Background(), f.author.ID, f.validPayload())
	require.NoError(t, err)

	brief, err := f.svc.Favorite(context.Background(), caller, created.ID)
	require.NoError(t, err)
	require.NotNil(t, brief)
	assert.Equal(t, created.ID, brief.ID)
	assert.Equal(t, "Pancakes", brief.Name)
	assert.Equal(t, 15, brief.CookingTime)

	_, err = f.svc.Favorite(context.Background(), caller, created.ID)
	require.Error(t, err)
	assert.Equal(t, "recipe already in favorites", err.Error())

	require.NoError(t, f.svc.Unfavorite(context.Background(), caller, created.ID))

	err = f.svc.Unfavorite(context.Background(), caller, created.ID)
	require.Error(t, err)
	assert.Equal(t, "recipe not in favorites", err.Error())

	_, err = f.svc.Favorite(context.Background(), caller, uuid.New())
	assert.ErrorIs(t, err, recipe.ErrRecipeNotFound)
}

func TestCartToggle(t *testing.T) {
	f := newFixture()
	caller := uuid.New()

	created, err := f.svc.Create(context.Background(), f.author.ID, f.validPayload())
	require.NoError(t, err)

	brief, err := f.svc.AddToCart(context.Background(), caller, created.ID)
	require.NoError(t, err)
	require.NotNil(t, brief)
	assert.Equal(t, created.ID, brief.ID)
	assert.Equal(t, created.Image, brief.Image)

	_, err = f.svc.AddToCart(context.Background(), caller, created.ID)
	require.Error(t, err)
	assert.Equal(t, "recipe already in shopping cart", err.Error())

	require.NoError(t, f.svc.RemoveFromCart(context.Background(), caller, created.ID))

	err = f.svc.RemoveFromCart(context.Background(), caller, created.ID)
	require.Error(t, err)
	assert.Equal(t, "recipe not in shopping cart", err.Error())
}

func TestShoppingListSumsAcrossRecipes(t *testing.T) {
	f := newFixture()
	caller := uuid.New()

	first, err := f.svc.Create(context.Background(), f.author.ID, f.validPayload())
	require.NoError(t, err)

	p := f.validPayload()
	p.Ingredients = []recipe.IngredientRef{
		{ID: strPtr(f.flourID.String()), Amount: amount(200)},
		{ID: strPtr(f.sugarID.String()), Amount: amount(50)},
	}
	second, err := f.svc.Create(context.Background(), f.author.ID, p)
	require.NoError(t, err)

	_, err = f.svc.AddToCart(context.Background(), caller, first.ID)
	require.NoError(t, err)
	_, err = f.svc.AddToCart(context.Background(), caller, second.ID)
	require.NoError(t, err)

	text, err := f.svc.ShoppingList(context.Background(), caller)
	require.NoError(t, err)
	assert.Equal(t, "flour - 300 g\nsugar - 50 g\n", text)
}

func TestShoppingListEmptyCart(t *testing.T) {
	f := newFixture()

	text, err := f.svc.ShoppingList(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, text)
}
