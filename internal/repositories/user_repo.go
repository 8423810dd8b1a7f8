package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nivkatz/toystore/internal/database"
	"github.com/nivkatz/toystore/internal/models"
	"github.com/nivkatz/toystore/pkg/auth"
)

// UserRepository is the credential store. Password hashes are written and
// compared here and nowhere else: models.User has no hash field, so the
// secret cannot leave this package by construction.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{pool: db.Pool}
}

// rowScanner interface for scanning user rows (supports both single row and multiple rows)
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUserRow(scanner rowScanner) (*models.User, error) {
	var user models.User

	err := scanner.Scan(
		&user.ID, &user.Username, &user.Fullname, &user.IsAdmin,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &user, nil
}

func scanUserRows(rows pgx.Rows) ([]*models.User, error) {
	defer rows.Close()

	users := make([]*models.User, 0)

	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, username, fullname, is_admin, created_at, updated_at
		FROM users WHERE id = $1
	`

	return scanUserRow(r.pool.QueryRow(ctx, query, id))
}

// GetByUsername looks up a user by exact, case-sensitive username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id, username, fullname, is_admin, created_at, updated_at
		FROM users WHERE username = $1
	`

	return scanUserRow(r.pool.QueryRow(ctx, query, username))
}

func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	query := `
		SELECT id, username, fullname, is_admin, created_at, updated_at
		FROM users ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}

	return scanUserRows(rows)
}

// Create inserts a user with the given password hash. The hash is consumed
// here; the returned record never carries it.
func (r *UserRepository) Create(ctx context.Context, user *models.User, passwordHash string) (*models.User, error) {
	user.ID = uuid.New().String()

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
		INSERT INTO users (id, username, password_hash, fullname, is_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, username, fullname, is_admin, created_at, updated_at
	`

	return scanUserRow(r.pool.QueryRow(ctx, query,
		user.ID, user.Username, passwordHash, user.Fullname,
		user.IsAdmin, user.CreatedAt, user.UpdatedAt,
	))
}

// Update changes the mutable profile fields. The password is not mutable
// through this path.
func (r *UserRepository) Update(ctx context.Context, id string, user *models.User) (*models.User, error) {
	query := `
		UPDATE users SET username = $1, fullname = $2, updated_at = $3
		WHERE id = $4
		RETURNING id, username, fullname, is_admin, created_at, updated_at
	`

	return scanUserRow(r.pool.QueryRow(ctx, query,
		user.Username, user.Fullname, time.Now(), id,
	))
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM users WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// VerifyCredentials checks a username/password pair. Unknown usernames and
// wrong passwords both return ErrUnauthorized, and an unknown username
// still burns a bcrypt comparison so the two cases take the same time.
func (r *UserRepository) VerifyCredentials(ctx context.Context, username, password string) (*models.User, error) {
	query := `
		SELECT id, username, fullname, is_admin, created_at, updated_at, password_hash
		FROM users WHERE username = $1
	`

	var user models.User
	var passwordHash string

	err := r.pool.QueryRow(ctx, query, username).Scan(
		&user.ID, &user.Username, &user.Fullname, &user.IsAdmin,
		&user.CreatedAt, &user.UpdatedAt, &passwordHash,
	)
	if err != nil {
		if mapped := database.MapPostgresError(err); mapped == models.ErrNotFound {
			auth.BurnCompare(password)
			return nil, models.ErrUnauthorized
		}
		return nil, database.MapPostgresError(err)
	}

	if err := auth.ComparePassword(passwordHash, password); err != nil {
		return nil, models.ErrUnauthorized
	}

	return &user, nil
}
