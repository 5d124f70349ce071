// Package users provides the PostgreSQL-backed repository for user rows.
// The snippet/reconciliation core only reads them to verify an owner exists
// and to look up a stored GitHub access token.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/logit-team/logit/internal/common"
	"github.com/logit-team/logit/internal/dbx"
	"github.com/logit-team/logit/internal/server/models"
)

// PostgresRepository implements user storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (id, github_login, github_access_token)
		 VALUES ($1, $2, $3)
		 RETURNING id
		 `
	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.GithubLogin, user.GithubAccessToken).Scan(&user.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

// GetByID returns the user row or common.ErrorNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT id, github_login, github_access_token, created_at FROM users
		 WHERE id = $1
		 `
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.GithubLogin, &user.GithubAccessToken, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}
