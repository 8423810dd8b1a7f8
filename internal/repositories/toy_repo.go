package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nivkatz/toystore/internal/database"
	"github.com/nivkatz/toystore/internal/models"
)

type ToyRepository struct {
	pool *pgxpool.Pool
}

func NewToyRepository(db *database.DB) *ToyRepository {
	return &ToyRepository{pool: db.Pool}
}

const toyColumns = `id, name, price, in_stock, labels, img_url, msgs, created_at, updated_at`

func scanToyRow(scanner rowScanner) (*models.Toy, error) {
	var toy models.Toy
	var msgs []byte

	err := scanner.Scan(
		&toy.ID, &toy.Name, &toy.Price, &toy.InStock,
		&toy.Labels, &toy.ImgURL, &msgs,
		&toy.CreatedAt, &toy.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	if err := json.Unmarshal(msgs, &toy.Messages); err != nil {
		return nil, fmt.Errorf("failed to decode toy messages: %w", err)
	}
	if toy.Messages == nil {
		toy.Messages = []models.ToyMsg{}
	}
	if toy.Labels == nil {
		toy.Labels = []string{}
	}

	return &toy, nil
}

func scanToyRows(rows pgx.Rows) ([]models.Toy, error) {
	defer rows.Close()

	toys := make([]models.Toy, 0)

	for rows.Next() {
		toy, err := scanToyRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan toy: %w", err)
		}
		toys = append(toys, *toy)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return toys, nil
}

// List returns the full collection in insertion order. The query engine
// filters, sorts and paginates the snapshot in process.
func (r *ToyRepository) List(ctx context.Context) ([]models.Toy, error) {
	query := `SELECT ` + toyColumns + ` FROM toys ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query toys: %w", err)
	}

	return scanToyRows(rows)
}

func (r *ToyRepository) GetByID(ctx context.Context, id string) (*models.Toy, error) {
	query := `SELECT ` + toyColumns + ` FROM toys WHERE id = $1`

	return scanToyRow(r.pool.QueryRow(ctx, query, id))
}

func (r *ToyRepository) Create(ctx context.Context, toy *models.Toy) (*models.Toy, error) {
	toy.ID = uuid.New().String()

	now := time.Now()
	toy.CreatedAt = now
	toy.UpdatedAt = now

	if toy.Labels == nil {
		toy.Labels = []string{}
	}
	if toy.Messages == nil {
		toy.Messages = []models.ToyMsg{}
	}

	msgs, err := json.Marshal(toy.Messages)
	if err != nil {
		return nil, fmt.Errorf("failed to encode toy messages: %w", err)
	}

	query := `
		INSERT INTO toys (id, name, price, in_stock, labels, img_url, msgs, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + toyColumns

	return scanToyRow(r.pool.QueryRow(ctx, query,
		toy.ID, toy.Name, toy.Price, toy.InStock,
		toy.Labels, toy.ImgURL, msgs,
		toy.CreatedAt, toy.UpdatedAt,
	))
}

// Update replaces the mutable fields of an existing toy. CreatedAt and the
// message sequence are left untouched.
func (r *ToyRepository) Update(ctx context.Context, id string, toy *models.Toy) (*models.Toy, error) {
	if toy.Labels == nil {
		toy.Labels = []string{}
	}

	query := `
		UPDATE toys SET name = $1, price = $2, in_stock = $3, labels = $4, img_url = $5, updated_at = $6
		WHERE id = $7
		RETURNING ` + toyColumns

	return scanToyRow(r.pool.QueryRow(ctx, query,
		toy.Name, toy.Price, toy.InStock, toy.Labels, toy.ImgURL, time.Now(), id,
	))
}

func (r *ToyRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM toys WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// AppendMessage pushes a message onto the toy's sequence in a single
// statement. There is no read-modify-write window: concurrent appends
// cannot lose each other.
func (r *ToyRepository) AppendMessage(ctx context.Context, toyID string, msg *models.ToyMsg) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	query := `
		UPDATE toys
		SET msgs = msgs || $2::jsonb, updated_at = now()
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, toyID, payload)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// RemoveMessage filters the message out of the sequence in a single
// statement. The EXISTS guard makes a missing message indistinguishable
// from a missing toy: both report zero rows and map to ErrNotFound.
func (r *ToyRepository) RemoveMessage(ctx context.Context, toyID, msgID string) error {
	query := `
		UPDATE toys
		SET msgs = (
			SELECT COALESCE(jsonb_agg(m), '[]'::jsonb)
			FROM jsonb_array_elements(msgs) AS m
			WHERE m->>'id' <> $2
		), updated_at = now()
		WHERE id = $1
		  AND EXISTS (
			SELECT 1 FROM jsonb_array_elements(msgs) AS m WHERE m->>'id' = $2
		  )
	`

	result, err := r.pool.Exec(ctx, query, toyID, msgID)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
