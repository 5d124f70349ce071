// Package categories provides the PostgreSQL-backed repository for per-owner
// code categories. (user_id, name) is unique at the schema level; the insert
// surfaces that violation as a sentinel so the resolver can re-read the
// winning row.
package categories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/logit-team/logit/internal/common"
	"github.com/logit-team/logit/internal/dbx"
	"github.com/logit-team/logit/internal/server/models"
)

// uniqueViolation is the PostgreSQL error code for unique_violation.
const uniqueViolation = "23505"

// PostgresRepository implements category storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByOwnerAndName(ctx context.Context, ownerID, name string) (*models.Category, error) {
	query :=
		`SELECT id, user_id, name, created_at FROM categories
		 WHERE user_id = $1 AND name = $2
		 `
	c := &models.Category{}
	err := r.db.QueryRowContext(ctx, query, ownerID, name).Scan(
		&c.ID, &c.OwnerID, &c.Name, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

// Create inserts the category. The name conflict is absorbed with ON
// CONFLICT DO NOTHING rather than letting the insert raise 23505: a raised
// unique_violation aborts the surrounding transaction and would make the
// resolver's re-read fail with 25P02 when called inside WithTx.
func (r *PostgresRepository) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	query :=
		`INSERT INTO categories (id, user_id, name)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, name) DO NOTHING
		 RETURNING id
		 `
	err := r.db.QueryRowContext(ctx, query,
		category.ID, category.OwnerID, category.Name).Scan(&category.ID)
	if err != nil {
		// DO NOTHING yields no row when another session won the race.
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorAlreadyExists
		}
		// id collisions are not covered by the conflict target and still raise.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return category, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Category, error) {
	query :=
		`SELECT id, user_id, name, created_at FROM categories
		 WHERE user_id = $1
		 ORDER BY name
		 `
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
