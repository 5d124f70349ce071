// Package commits provides the PostgreSQL-backed repository for ingested
// GitHub commits and their changed files.
package commits

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/logit-team/logit/internal/common"
	"github.com/logit-team/logit/internal/dbx"
	"github.com/logit-team/logit/internal/server/models"
)

// PostgresRepository implements commit storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) LatestCommitDate(ctx context.Context, ownerName, repoName, branch string) (time.Time, error) {
	query :=
		`SELECT MAX(date) FROM commits
		 WHERE owner_name = $1 AND repo_name = $2 AND branch = $3
		 `
	var latest sql.NullTime
	err := r.db.QueryRowContext(ctx, query, ownerName, repoName, branch).Scan(&latest)
	if err != nil {
		return time.Time{}, fmt.Errorf("db error: %w", err)
	}
	if !latest.Valid {
		return time.Time{}, nil
	}
	return latest.Time, nil
}

func (r *PostgresRepository) InsertBatch(ctx context.Context, commits []*models.Commit) error {
	query :=
		`INSERT INTO commits (id, owner_name, repo_name, branch, message, stats, date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO NOTHING;
		 `
	for _, c := range commits {
		_, err := r.db.ExecContext(ctx, query,
			c.ID, c.OwnerName, c.RepoName, c.Branch, c.Message, c.Stats, c.Date)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Commit, error) {
	query :=
		`SELECT id, owner_name, repo_name, branch, message, stats, date, created_at FROM commits
		 WHERE id = $1
		 `
	c := &models.Commit{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.OwnerName, &c.RepoName, &c.Branch, &c.Message, &c.Stats, &c.Date, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) ListByBranch(ctx context.Context, ownerName, repoName, branch string) ([]*models.Commit, error) {
	query :=
		`SELECT id, owner_name, repo_name, branch, message, stats, date, created_at FROM commits
		 WHERE owner_name = $1 AND repo_name = $2 AND branch = $3
		 ORDER BY date DESC
		 `
	rows, err := r.db.QueryContext(ctx, query, ownerName, repoName, branch)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Commit
	for rows.Next() {
		var c models.Commit
		if err := rows.Scan(&c.ID, &c.OwnerName, &c.RepoName, &c.Branch,
			&c.Message, &c.Stats, &c.Date, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) SaveStats(ctx context.Context, id, stats string) error {
	query :=
		`UPDATE commits SET stats = $2
		 WHERE id = $1
		 `
	res, err := r.db.ExecContext(ctx, query, id, stats)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) InsertFiles(ctx context.Context, files []*models.CommitFile) error {
	query :=
		`INSERT INTO commit_files (commit_id, filename, additions, deletions, patch)
		 VALUES ($1, $2, $3, $4, $5);
		 `
	for _, f := range files {
		_, err := r.db.ExecContext(ctx, query,
			f.CommitID, f.Filename, f.Additions, f.Deletions, f.Patch)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) ListFiles(ctx context.Context, commitID string) ([]*models.CommitFile, error) {
	query :=
		`SELECT id, commit_id, filename, additions, deletions, patch FROM commit_files
		 WHERE commit_id = $1
		 ORDER BY id
		 `
	rows, err := r.db.QueryContext(ctx, query, commitID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.CommitFile
	for rows.Next() {
		var f models.CommitFile
		if err := rows.Scan(&f.ID, &f.CommitID, &f.Filename, &f.Additions, &f.Deletions, &f.Patch); err != nil {
			return nil, err
		}
		result = append(result, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
