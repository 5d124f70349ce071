package codes

import (
	"context"

	"github.com/logit-team/logit/internal/server/models"
)

type Repository interface {
	// Insert persists one code record. Inserting the same (id, commit_id)
	// pair again is a no-op, which is what makes a reconciliation rerun
	// safe. The returned bool reports whether a row was actually written.
	Insert(ctx context.Context, code *models.Code) (bool, error)

	// GetByCommit returns all code records for a commit with category names
	// resolved, ordered by creation time then id.
	GetByCommit(ctx context.Context, commitID string) ([]*models.Code, error)
}
