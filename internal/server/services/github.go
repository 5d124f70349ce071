package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/logit-team/logit/internal/common"
	"github.com/logit-team/logit/internal/dbx"
	"github.com/logit-team/logit/internal/logging"
	"github.com/logit-team/logit/internal/server/github"
	"github.com/logit-team/logit/internal/server/models"
	"github.com/logit-team/logit/internal/server/repositories/repomanager"
)

// GithubService ingests commit history from GitHub into the local store:
// incremental branch syncs plus lazy per-commit stats fetched on first
// detail access.
type GithubService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	client      github.API
	logger      logging.Logger
}

func NewGithubService(db *sql.DB, repomanager repomanager.RepositoryManager, client github.API, logger logging.Logger) *GithubService {
	return &GithubService{
		db:          db,
		repomanager: repomanager,
		client:      client,
		logger:      logger,
	}
}

// token returns the owner's stored GitHub access token or ErrGithubNotLinked.
func (s *GithubService) token(ctx context.Context, ownerID string) (string, error) {
	userRepo := s.repomanager.Users(s.db)

	user, err := userRepo.GetByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", fmt.Errorf("%w: %s", common.ErrOwnerNotFound, ownerID)
		}
		return "", fmt.Errorf("error loading user: %w", err)
	}
	if user.GithubAccessToken == "" {
		return "", common.ErrGithubNotLinked
	}
	return user.GithubAccessToken, nil
}

// Repos lists the repositories the owner's token grants access to.
func (s *GithubService) Repos(ctx context.Context, ownerID string) ([]github.RepoInfo, error) {
	token, err := s.token(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	repos, err := s.client.ListRepos(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("error listing github repos: %w", err)
	}
	return repos, nil
}

// Branches lists the branches of a repository, so callers can pick one to
// sync instead of assuming a default.
func (s *GithubService) Branches(ctx context.Context, ownerID, owner, repo string) ([]github.BranchInfo, error) {
	token, err := s.token(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	branches, err := s.client.ListBranches(ctx, token, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("error listing github branches: %w", err)
	}
	return branches, nil
}

// SyncCommits pulls the branch history from GitHub, stores commits newer than
// the latest ingested one, and returns the full stored history newest first.
func (s *GithubService) SyncCommits(ctx context.Context, ownerID, owner, repo, branch string) ([]*models.Commit, error) {

	token, err := s.token(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	commitRepo := s.repomanager.Commits(s.db)

	latest, err := commitRepo.LatestCommitDate(ctx, owner, repo, branch)
	if err != nil {
		return nil, fmt.Errorf("error reading latest commit date: %w", err)
	}

	fetched, err := s.client.ListCommits(ctx, token, owner, repo, branch)
	if err != nil {
		return nil, fmt.Errorf("error listing github commits: %w", err)
	}

	var fresh []*models.Commit
	for _, c := range fetched {
		if !c.Date.After(latest) {
			continue
		}
		fresh = append(fresh, &models.Commit{
			ID:        c.SHA,
			OwnerName: owner,
			RepoName:  repo,
			Branch:    branch,
			Message:   c.Message,
			Date:      c.Date,
		})
	}

	if len(fresh) > 0 {
		err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			return s.repomanager.Commits(tx).InsertBatch(ctx, fresh)
		})
		if err != nil {
			return nil, fmt.Errorf("error storing commits: %w", err)
		}
		s.logger.Info(ctx, "ingested commits", "owner", owner, "repo", repo, "branch", branch, "count", len(fresh))
	}

	result, err := commitRepo.ListByBranch(ctx, owner, repo, branch)
	if err != nil {
		return nil, fmt.Errorf("error listing commits: %w", err)
	}
	return result, nil
}

// CommitDetails returns a stored commit with its changed files. Stats and
// files are fetched from GitHub on first access and persisted, so repeat
// requests are served from the store.
func (s *GithubService) CommitDetails(ctx context.Context, ownerID, owner, repo, sha string) (*models.Commit, []*models.CommitFile, error) {

	commitRepo := s.repomanager.Commits(s.db)

	commit, err := commitRepo.GetByID(ctx, sha)
	if err != nil {
		return nil, nil, fmt.Errorf("error loading commit: %w", err)
	}

	if commit.Stats == "" {
		token, err := s.token(ctx, ownerID)
		if err != nil {
			return nil, nil, err
		}

		detail, err := s.client.GetCommit(ctx, token, owner, repo, sha)
		if err != nil {
			return nil, nil, fmt.Errorf("error fetching commit detail: %w", err)
		}

		files := make([]*models.CommitFile, 0, len(detail.Files))
		for _, f := range detail.Files {
			files = append(files, &models.CommitFile{
				CommitID:  sha,
				Filename:  f.Filename,
				Additions: f.Additions,
				Deletions: f.Deletions,
				Patch:     f.Patch,
			})
		}

		err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			txRepo := s.repomanager.Commits(tx)
			if err := txRepo.SaveStats(ctx, sha, detail.Stats); err != nil {
				return err
			}
			return txRepo.InsertFiles(ctx, files)
		})
		if err != nil {
			return nil, nil, fmt.Errorf("error storing commit detail: %w", err)
		}

		commit.Stats = detail.Stats
	}

	files, err := commitRepo.ListFiles(ctx, sha)
	if err != nil {
		return nil, nil, fmt.Errorf("error listing commit files: %w", err)
	}
	return commit, files, nil
}
