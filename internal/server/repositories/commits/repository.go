package commits

import (
	"context"
	"time"

	"github.com/logit-team/logit/internal/server/models"
)

type Repository interface {
	// LatestCommitDate returns the newest commit date stored for the branch,
	// or the zero time if nothing has been ingested yet.
	LatestCommitDate(ctx context.Context, ownerName, repoName, branch string) (time.Time, error)

	// InsertBatch stores freshly ingested commits.
	InsertBatch(ctx context.Context, commits []*models.Commit) error

	// GetByID returns the commit or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.Commit, error)

	// ListByBranch returns all stored commits for a branch, newest first.
	ListByBranch(ctx context.Context, ownerName, repoName, branch string) ([]*models.Commit, error)

	// SaveStats fills in the stats summary fetched on first detail access.
	SaveStats(ctx context.Context, id, stats string) error

	// InsertFiles stores the files changed by a commit.
	InsertFiles(ctx context.Context, files []*models.CommitFile) error

	// ListFiles returns the stored files for a commit.
	ListFiles(ctx context.Context, commitID string) ([]*models.CommitFile, error)
}
