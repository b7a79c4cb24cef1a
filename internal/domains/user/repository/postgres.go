package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"recipebox-backend/internal/domains/user"
	"recipebox-backend/internal/shared/toggle"
)

type postgresUserRepository struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepository(db *pgxpool.Pool) user.Repository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (id, email, username, first_name, last_name, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(ctx, query,
		u.ID, u.Email, u.Username, u.FirstName, u.LastName, u.PasswordHash, u.Role, u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if strings.Contains(pgErr.ConstraintName, "username") {
				return user.ErrDuplicateUsername
			}
			return user.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return r.getBy(ctx, "id = $1", id)
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.getBy(ctx, "email = $1", email)
}

func (r *postgresUserRepository) getBy(ctx context.Context, where string, arg interface{}) (*user.User, error) {
	query := fmt.Sprintf(`
		SELECT id, email, username, first_name, last_name, password_hash, role, created_at
		FROM users
		WHERE %s`, where)

	var u user.User
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &u, nil
}

func (r *postgresUserRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]user.User, error) {
	users := make(map[uuid.UUID]user.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	query := `
		SELECT id, email, username, first_name, last_name, password_hash, role, created_at
		FROM users
		WHERE id = ANY($1)`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get users by ids: %w", err)
	}
	defer rows.Close()

	list, err := scanUsers(rows)
	if err != nil {
		return nil, err
	}
	for i := range list {
		users[list[i].ID] = list[i]
	}

	return users, nil
}

func (r *postgresUserRepository) List(ctx context.Context, page, limit int) ([]user.User, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query := `
		SELECT id, email, username, first_name, last_name, password_hash, role, created_at
		FROM users
		ORDER BY created_at
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users, err := scanUsers(rows)
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *postgresUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	result, err := r.db.Exec(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if result.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}

	return nil
}

func (r *postgresUserRepository) SubscriptionExists(ctx context.Context, subscriberID, authorID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM subscriptions WHERE subscriber_id = $1 AND author_id = $2)`,
		subscriberID, authorID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check subscription: %w", err)
	}

	return exists, nil
}

func (r *postgresUserRepository) CreateSubscription(ctx context.Context, subscriberID, authorID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO subscriptions (subscriber_id, author_id, created_at) VALUES ($1, $2, NOW())`,
		subscriberID, authorID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return toggle.ErrDuplicate
		}
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	return nil
}

func (r *postgresUserRepository) DeleteSubscription(ctx context.Context, subscriberID, authorID uuid.UUID) (bool, error) {
	result, err := r.db.Exec(ctx,
		`DELETE FROM subscriptions WHERE subscriber_id = $1 AND author_id = $2`,
		subscriberID, authorID)
	if err != nil {
		return false, fmt.Errorf("failed to delete subscription: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *postgresUserRepository) ListSubscribedAuthors(ctx context.Context, subscriberID uuid.UUID, page, limit int) ([]user.User, int64, error) {
	var total int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM subscriptions WHERE subscriber_id = $1`, subscriberID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	query := `
		SELECT u.id, u.email, u.username, u.first_name, u.last_name, u.password_hash, u.role, u.created_at
		FROM subscriptions s
		JOIN users u ON u.id = s.author_id
		WHERE s.subscriber_id = $1
		ORDER BY s.created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, subscriberID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list subscribed authors: %w", err)
	}
	defer rows.Close()

	users, err := scanUsers(rows)
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *postgresUserRepository) SubscribedAuthorSet(ctx context.Context, subscriberID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	set := make(map[uuid.UUID]bool, len(authorIDs))
	if subscriberID == uuid.Nil || len(authorIDs) == 0 {
		return set, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT author_id FROM subscriptions WHERE subscriber_id = $1 AND author_id = ANY($2)`,
		subscriberID, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription set: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan author id: %w", err)
		}
		set[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read subscription set: %w", err)
	}

	return set, nil
}

func (r *postgresUserRepository) RecipeBriefsByAuthors(ctx context.Context, authorIDs []uuid.UUID, limit int) (map[uuid.UUID][]user.RecipeBrief, error) {
	briefs := make(map[uuid.UUID][]user.RecipeBrief, len(authorIDs))
	if len(authorIDs) == 0 {
		return briefs, nil
	}

	query := `
		SELECT author_id, id, name, image, cooking_time
		FROM (
			SELECT author_id, id, name, image, cooking_time,
			       ROW_NUMBER() OVER (PARTITION BY author_id ORDER BY created_at DESC) AS rn
			FROM recipes
			WHERE author_id = ANY($1)
		) ranked
		WHERE $2 <= 0 OR rn <= $2`

	rows, err := r.db.Query(ctx, query, authorIDs, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe previews: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var authorID uuid.UUID
		var b user.RecipeBrief
		if err := rows.Scan(&authorID, &b.ID, &b.Name, &b.Image, &b.CookingTime); err != nil {
			return nil, fmt.Errorf("failed to scan recipe preview: %w", err)
		}
		briefs[authorID] = append(briefs[authorID], b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read recipe previews: %w", err)
	}

	return briefs, nil
}

func (r *postgresUserRepository) RecipeCountsByAuthors(ctx context.Context, authorIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT author_id, COUNT(*) FROM recipes WHERE author_id = ANY($1) GROUP BY author_id`,
		authorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to count recipes by author: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("failed to scan recipe count: %w", err)
		}
		counts[id] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read recipe counts: %w", err)
	}

	return counts, nil
}

func scanUsers(rows pgx.Rows) ([]user.User, error) {
	users := make([]user.User, 0)
	for rows.Next() {
		var u user.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName,
			&u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}

	return users, nil
}
