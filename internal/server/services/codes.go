package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/logit-team/logit/internal/common"
	"github.com/logit-team/logit/internal/dbx"
	"github.com/logit-team/logit/internal/logging"
	"github.com/logit-team/logit/internal/server/models"
	"github.com/logit-team/logit/internal/server/repositories/repomanager"
	"github.com/logit-team/logit/internal/server/snippetcache"
)

// CommitResult summarizes one reconciliation run.
type CommitResult struct {
	CommitID string `json:"commit_id"`

	// Records is the number of code rows actually written. A rerun of an
	// already-reconciled commit reports zero.
	Records int `json:"records"`

	// CacheCleared is false when the durable write succeeded but the staging
	// cache could not be cleared; the staged entries survive and a later
	// commit rerun is safe because persistence is idempotent.
	CacheCleared bool `json:"cache_cleared"`

	Message string `json:"message"`
}

// CodeService owns the snippet staging operations and the commit-time
// reconciliation of staged snippets into durable code records.
type CodeService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cache       snippetcache.Gateway
	logger      logging.Logger
}

func NewCodeService(db *sql.DB, repomanager repomanager.RepositoryManager, cache snippetcache.Gateway, logger logging.Logger) *CodeService {
	return &CodeService{
		db:          db,
		repomanager: repomanager,
		cache:       cache,
		logger:      logger,
	}
}

// StageSnippet places a snippet into the owner's staging cache. A missing id
// is generated, a missing status defaults to active, and offsets must form a
// non-inverted range.
func (s *CodeService) StageSnippet(ctx context.Context, ownerID string, snippet *models.Snippet) (*models.Snippet, error) {
	if snippet.ID == "" {
		snippet.ID = uuid.NewString()
	}
	if snippet.Status == "" {
		snippet.Status = models.StatusActive
	}
	if _, err := models.ParseSnippetStatus(string(snippet.Status)); err != nil {
		return nil, err
	}
	if snippet.StartOffset > snippet.EndOffset {
		return nil, fmt.Errorf("%w: start offset %d exceeds end offset %d",
			common.ErrorValidation, snippet.StartOffset, snippet.EndOffset)
	}

	snippet.OwnerID = ownerID

	if err := s.cache.Save(ctx, ownerID, snippet); err != nil {
		return nil, fmt.Errorf("error staging snippet: %w", err)
	}
	return snippet, nil
}

// ListStaged returns the owner's staged snippets in stable order.
func (s *CodeService) ListStaged(ctx context.Context, ownerID string) ([]*models.Snippet, error) {
	staged, err := s.cache.ListAll(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error listing staged snippets: %w", err)
	}
	sortSnippets(staged)
	return staged, nil
}

// UpdateCodeBlock rewrites the code payload and offsets of a staged snippet.
func (s *CodeService) UpdateCodeBlock(ctx context.Context, ownerID, id string, startOffset, endOffset int, code string) error {
	if startOffset > endOffset {
		return fmt.Errorf("%w: start offset %d exceeds end offset %d",
			common.ErrorValidation, startOffset, endOffset)
	}

	err := s.cache.UpdateBlock(ctx, ownerID, id, startOffset, endOffset, code)
	if errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("%w: %s", common.ErrSnippetNotFound, id)
	}
	return err
}

// MarkDeleted stages the removal of a snippet. Only the status tag changes;
// the cached payload stays intact.
func (s *CodeService) MarkDeleted(ctx context.Context, ownerID, id string) error {
	err := s.cache.MarkDeleted(ctx, ownerID, id)
	if errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("%w: %s", common.ErrSnippetNotFound, id)
	}
	return err
}

// CommitSnippets drains the owner's staging cache and persists every staged
// snippet as a code record under commitID, inside a single transaction.
//
// For an active snippet the cached payload is authoritative. For a deleted
// snippet the cache only holds the status tag, so the payload is taken from
// the caller-supplied snapshot map; a deleted snippet with no snapshot entry
// aborts the whole commit. Categories are resolved by name per owner, created
// on first use. The cache is cleared only after the transaction commits, and
// a clear failure is reported rather than retried: rows are keyed by
// (id, commit_id), so rerunning the commit is harmless.
func (s *CodeService) CommitSnippets(ctx context.Context, ownerID, commitID string, snapshots map[string]*models.Snippet) (*CommitResult, error) {

	userRepo := s.repomanager.Users(s.db)
	if _, err := userRepo.GetByID(ctx, ownerID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: %s", common.ErrOwnerNotFound, ownerID)
		}
		return nil, fmt.Errorf("error verifying owner: %w", err)
	}

	staged, err := s.cache.ListAll(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error draining staged snippets: %w", err)
	}
	sortSnippets(staged)

	written := 0

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {

		categoryRepo := s.repomanager.Categories(tx)
		codeRepo := s.repomanager.Codes(tx)

		// One resolution per category name per pass.
		resolved := map[string]*models.Category{}

		for _, sn := range staged {

			status, err := models.ParseSnippetStatus(string(sn.Status))
			if err != nil {
				return err
			}

			payload := sn
			if status == models.StatusDeleted {
				snapshot, ok := snapshots[sn.ID]
				if !ok {
					return fmt.Errorf("%w: no snapshot for deleted snippet %s", common.ErrSnippetNotFound, sn.ID)
				}
				payload = snapshot
			}
			if payload.StartOffset > payload.EndOffset {
				return fmt.Errorf("%w: snippet %s start offset %d exceeds end offset %d",
					common.ErrorValidation, sn.ID, payload.StartOffset, payload.EndOffset)
			}

			categoryID := ""
			if payload.Category != "" {
				cat, ok := resolved[payload.Category]
				if !ok {
					cat, err = resolveCategory(ctx, categoryRepo, ownerID, payload.Category)
					if err != nil {
						return err
					}
					resolved[payload.Category] = cat
				}
				categoryID = cat.ID
			}

			ok, err := codeRepo.Insert(ctx, &models.Code{
				ID:          sn.ID,
				CommitID:    commitID,
				Title:       payload.Title,
				Content:     payload.Content,
				Code:        payload.Code,
				FileName:    payload.FilePath,
				StartOffset: payload.StartOffset,
				EndOffset:   payload.EndOffset,
				Status:      status,
				CategoryID:  categoryID,
			})
			if err != nil {
				return err
			}
			if ok {
				written++
			}
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("error committing snippets: %w", err)
	}

	result := &CommitResult{
		CommitID:     commitID,
		Records:      written,
		CacheCleared: true,
		Message:      fmt.Sprintf("committed %d snippets", written),
	}

	if err := s.cache.Clear(ctx, ownerID, commitID); err != nil {
		s.logger.Warn(ctx, "failed to clear snippet cache after commit",
			"owner_id", ownerID, "commit_id", commitID, "error", err)
		result.CacheCleared = false
		result.Message = fmt.Sprintf("committed %d snippets, cache not cleared", written)
	}

	return result, nil
}

// GetByCommit returns the durable code records stored under a commit.
func (s *CodeService) GetByCommit(ctx context.Context, commitID string) ([]*models.Code, error) {
	codeRepo := s.repomanager.Codes(s.db)

	result, err := codeRepo.GetByCommit(ctx, commitID)
	if err != nil {
		return nil, fmt.Errorf("error listing code records: %w", err)
	}
	return result, nil
}

// sortSnippets orders by creation time, breaking ties by id so the order is
// deterministic across reruns.
func sortSnippets(snippets []*models.Snippet) {
	sort.Slice(snippets, func(i, j int) bool {
		if snippets[i].CreatedAt.Equal(snippets[j].CreatedAt) {
			return snippets[i].ID < snippets[j].ID
		}
		return snippets[i].CreatedAt.Before(snippets[j].CreatedAt)
	})
}
