// Package codes provides the PostgreSQL-backed repository for durable code
// records. Rows are immutable; identity is (id, commit_id).
package codes

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/logit-team/logit/internal/dbx"
	"github.com/logit-team/logit/internal/server/models"
)

// PostgresRepository implements code-record storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, code *models.Code) (bool, error) {
	query := `
		INSERT INTO codes (id, commit_id, title, content, code, file_name, start_offset, end_offset, status, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id, commit_id) DO NOTHING;
	`
	categoryID := sql.NullString{String: code.CategoryID, Valid: code.CategoryID != ""}
	res, err := r.db.ExecContext(ctx, query,
		code.ID, code.CommitID, code.Title, code.Content, code.Code,
		code.FileName, code.StartOffset, code.EndOffset, string(code.Status), categoryID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n == 1, nil
}

func (r *PostgresRepository) GetByCommit(ctx context.Context, commitID string) ([]*models.Code, error) {
	query := `
		SELECT c.id, c.commit_id, c.title, c.content, c.code, c.file_name,
		       c.start_offset, c.end_offset, c.status, COALESCE(c.category_id::text, '') AS category_id, c.created_at,
		       COALESCE(cat.name, '') AS category_name
		FROM codes c
		LEFT JOIN categories cat ON cat.id = c.category_id
		WHERE c.commit_id = $1
		ORDER BY c.created_at, c.id;
	`
	rows, err := r.db.QueryContext(ctx, query, commitID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Code
	for rows.Next() {
		var c models.Code
		var status string
		if err := rows.Scan(
			&c.ID, &c.CommitID, &c.Title, &c.Content, &c.Code, &c.FileName,
			&c.StartOffset, &c.EndOffset, &status, &c.CategoryID, &c.CreatedAt,
			&c.CategoryName,
		); err != nil {
			return nil, err
		}
		c.Status = models.SnippetStatus(status)
		result = append(result, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
