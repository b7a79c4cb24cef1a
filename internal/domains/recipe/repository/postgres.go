package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"recipebox-backend/internal/domains/recipe"
	"recipebox-backend/internal/domains/tag"
	"recipebox-backend/internal/shared/toggle"
	"recipebox-backend/internal/shared/utils"
	"recipebox-backend/pkg/database"
)

const recipeColumns = "id, author_id, name, text, image, image_key, cooking_time, created_at, updated_at"

type postgresRecipeRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRecipeRepository(db *pgxpool.Pool) recipe.Repository {
	return &postgresRecipeRepository{db: db}
}

func (r *postgresRecipeRepository) CreateWithRelations(ctx context.Context, rec *recipe.Recipe, tagIDs []uuid.UUID, ingredients []recipe.IngredientAmount) error {
	return database.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO recipes (id, author_id, name, text, image, image_key, cooking_time, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

		_, err := tx.Exec(ctx, query,
			rec.ID, rec.AuthorID, rec.Name, rec.Text, rec.Image, rec.ImageKey,
			rec.CookingTime, rec.CreatedAt, rec.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create recipe: %w", err)
		}

		return insertRelations(ctx, tx, rec.ID, tagIDs, ingredients)
	})
}

func (r *postgresRecipeRepository) UpdateWithRelations(ctx context.Context, rec *recipe.Recipe, tagIDs []uuid.UUID, ingredients []recipe.IngredientAmount) error {
	return database.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			UPDATE recipes
			SET name = $2, text = $3, image = $4, image_key = $5, cooking_time = $6, updated_at = $7
			WHERE id = $1`

		result, err := tx.Exec(ctx, query,
			rec.ID, rec.Name, rec.Text, rec.Image, rec.ImageKey, rec.CookingTime, rec.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to update recipe: %w", err)
		}
		if result.RowsAffected() == 0 {
			return recipe.ErrRecipeNotFound
		}

		// Relations are replaced wholesale on every update.
		if _, err := tx.Exec(ctx, `DELETE FROM recipe_tags WHERE recipe_id = $1`, rec.ID); err != nil {
			return fmt.Errorf("failed to clear recipe tags: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = $1`, rec.ID); err != nil {
			return fmt.Errorf("failed to clear recipe ingredients: %w", err)
		}

		return insertRelations(ctx, tx, rec.ID, tagIDs, ingredients)
	})
}

func insertRelations(ctx context.Context, tx pgx.Tx, recipeID uuid.UUID, tagIDs []uuid.UUID, ingredients []recipe.IngredientAmount) error {
	for _, tagID := range tagIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO recipe_tags (recipe_id, tag_id) VALUES ($1, $2)`,
			recipeID, tagID)
		if err != nil {
			return fmt.Errorf("failed to attach tag: %w", err)
		}
	}

	for _, ing := range ingredients {
		_, err := tx.Exec(ctx,
			`INSERT INTO recipe_ingredients (recipe_id, ingredient_id, amount) VALUES ($1, $2, $3)`,
			recipeID, ing.IngredientID, ing.Amount)
		if err != nil {
			return fmt.Errorf("failed to attach ingredient: %w", err)
		}
	}

	return nil
}

func (r *postgresRecipeRepository) GetByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	query := fmt.Sprintf(`SELECT %s FROM recipes WHERE id = $1`, recipeColumns)

	var rec recipe.Recipe
	err := r.db.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.AuthorID, &rec.Name, &rec.Text, &rec.Image, &rec.ImageKey,
		&rec.CookingTime, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	return &rec, nil
}

func (r *postgresRecipeRepository) List(ctx context.Context, f recipe.ListFilter) ([]recipe.Recipe, int64, error) {
	clauses := make([]string, 0, 4)
	args := make([]interface{}, 0, 4)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.AuthorID != uuid.Nil {
		clauses = append(clauses, "r.author_id = "+arg(f.AuthorID))
	}
	if len(f.TagSlugs) > 0 {
		clauses = append(clauses, fmt.Sprintf(
			`EXISTS (SELECT 1 FROM recipe_tags rt JOIN tags t ON t.id = rt.tag_id
			 WHERE rt.recipe_id = r.id AND t.slug = ANY(%s))`, arg(f.TagSlugs)))
	}
	if f.FavoritedBy != uuid.Nil {
		clauses = append(clauses,
			"EXISTS (SELECT 1 FROM favorites fv WHERE fv.recipe_id = r.id AND fv.user_id = "+arg(f.FavoritedBy)+")")
	}
	if f.InCartOf != uuid.Nil {
		clauses = append(clauses,
			"EXISTS (SELECT 1 FROM cart_items ci WHERE ci.recipe_id = r.id AND ci.user_id = "+arg(f.InCartOf)+")")
	}

	where := ""
	if len(clauses) > 0 {
		where = "WHERE " + utils.JoinWithAnd(clauses)
	}

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM recipes r %s`, where)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT r.id, r.author_id, r.name, r.text, r.image, r.image_key, r.cooking_time, r.created_at, r.updated_at
		FROM recipes r %s
		ORDER BY r.created_at DESC
		LIMIT %s OFFSET %s`, where, arg(f.Limit), arg((f.Page-1)*f.Limit))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	recipes := make([]recipe.Recipe, 0)
	for rows.Next() {
		var rec recipe.Recipe
		if err := rows.Scan(&rec.ID, &rec.AuthorID, &rec.Name, &rec.Text, &rec.Image, &rec.ImageKey,
			&rec.CookingTime, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read recipes: %w", err)
	}

	return recipes, total, nil
}

func (r *postgresRecipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	if result.RowsAffected() == 0 {
		return recipe.ErrRecipeNotFound
	}

	return nil
}

func (r *postgresRecipeRepository) TagsByRecipeIDs(ctx context.Context, recipeIDs []uuid.UUID) (map[uuid.UUID][]tag.Tag, error) {
	tags := make(map[uuid.UUID][]tag.Tag, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return tags, nil
	}

	query := `
		SELECT rt.recipe_id, t.id, t.name, t.color, t.slug, t.created_at
		FROM recipe_tags rt
		JOIN tags t ON t.id = rt.tag_id
		WHERE rt.recipe_id = ANY($1)
		ORDER BY t.name`

	rows, err := r.db.Query(ctx, query, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var recipeID uuid.UUID
		var t tag.Tag
		if err := rows.Scan(&recipeID, &t.ID, &t.Name, &t.Color, &t.Slug, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recipe tag: %w", err)
		}
		tags[recipeID] = append(tags[recipeID], t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read recipe tags: %w", err)
	}

	return tags, nil
}

func (r *postgresRecipeRepository) IngredientsByRecipeIDs(ctx context.Context, recipeIDs []uuid.UUID) (map[uuid.UUID][]recipe.RecipeIngredient, error) {
	ingredients := make(map[uuid.UUID][]recipe.RecipeIngredient, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return ingredients, nil
	}

	query := `
		SELECT ri.recipe_id, i.id, i.name, i.measurement_unit, ri.amount
		FROM recipe_ingredients ri
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ri.recipe_id = ANY($1)
		ORDER BY i.name`

	rows, err := r.db.Query(ctx, query, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe ingredients: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var recipeID uuid.UUID
		var ing recipe.RecipeIngredient
		if err := rows.Scan(&recipeID, &ing.ID, &ing.Name, &ing.MeasurementUnit, &ing.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan recipe ingredient: %w", err)
		}
		ingredients[recipeID] = append(ingredients[recipeID], ing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read recipe ingredients: %w", err)
	}

	return ingredients, nil
}

func (r *postgresRecipeRepository) FavoriteExists(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	return r.pairExists(ctx, "favorites", userID, recipeID)
}

func (r *postgresRecipeRepository) CreateFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	return r.createPair(ctx, "favorites", userID, recipeID)
}

func (r *postgresRecipeRepository) DeleteFavorite(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	return r.deletePair(ctx, "favorites", userID, recipeID)
}

func (r *postgresRecipeRepository) FavoritedSet(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	return r.pairSet(ctx, "favorites", userID, recipeIDs)
}

func (r *postgresRecipeRepository) CartExists(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	return r.pairExists(ctx, "cart_items", userID, recipeID)
}

func (r *postgresRecipeRepository) CreateCartItem(ctx context.Context, userID, recipeID uuid.UUID) error {
	return r.createPair(ctx, "cart_items", userID, recipeID)
}

func (r *postgresRecipeRepository) DeleteCartItem(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	return r.deletePair(ctx, "cart_items", userID, recipeID)
}

func (r *postgresRecipeRepository) InCartSet(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	return r.pairSet(ctx, "cart_items", userID, recipeIDs)
}

// favorites and cart_items share the same (user_id, recipe_id) shape.
func (r *postgresRecipeRepository) pairExists(ctx context.Context, table string, userID, recipeID uuid.UUID) (bool, error) {
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE user_id = $1 AND recipe_id = $2)`, table)
	if err := r.db.QueryRow(ctx, query, userID, recipeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check %s: %w", table, err)
	}
	return exists, nil
}

func (r *postgresRecipeRepository) createPair(ctx context.Context, table string, userID, recipeID uuid.UUID) error {
	query := fmt.Sprintf(`INSERT INTO %s (user_id, recipe_id, created_at) VALUES ($1, $2, NOW())`, table)
	_, err := r.db.Exec(ctx, query, userID, recipeID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return toggle.ErrDuplicate
		}
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return nil
}

func (r *postgresRecipeRepository) deletePair(ctx context.Context, table string, userID, recipeID uuid.UUID) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1 AND recipe_id = $2`, table)
	result, err := r.db.Exec(ctx, query, userID, recipeID)
	if err != nil {
		return false, fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *postgresRecipeRepository) pairSet(ctx context.Context, table string, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	set := make(map[uuid.UUID]bool, len(recipeIDs))
	if userID == uuid.Nil || len(recipeIDs) == 0 {
		return set, nil
	}

	query := fmt.Sprintf(`SELECT recipe_id FROM %s WHERE user_id = $1 AND recipe_id = ANY($2)`, table)
	rows, err := r.db.Query(ctx, query, userID, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s set: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan recipe id: %w", err)
		}
		set[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s set: %w", table, err)
	}

	return set, nil
}

func (r *postgresRecipeRepository) AggregateShoppingList(ctx context.Context, userID uuid.UUID) ([]recipe.ShoppingItem, error) {
	query := `
		SELECT i.name, i.measurement_unit, SUM(ri.amount)
		FROM cart_items ci
		JOIN recipe_ingredients ri ON ri.recipe_id = ci.recipe_id
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ci.user_id = $1
		GROUP BY i.name, i.measurement_unit
		ORDER BY i.name`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate shopping list: %w", err)
	}
	defer rows.Close()

	items := make([]recipe.ShoppingItem, 0)
	for rows.Next() {
		var item recipe.ShoppingItem
		if err := rows.Scan(&item.Name, &item.MeasurementUnit, &item.Total); err != nil {
			return nil, fmt.Errorf("failed to scan shopping item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read shopping list: %w", err)
	}

	return items, nil
}
