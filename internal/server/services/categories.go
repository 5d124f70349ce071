package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/logit-team/logit/internal/common"
	"github.com/logit-team/logit/internal/server/models"
	"github.com/logit-team/logit/internal/server/repositories/categories"
	"github.com/logit-team/logit/internal/server/repositories/repomanager"
)

type CategoryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCategoryService(db *sql.DB, repomanager repomanager.RepositoryManager) *CategoryService {
	return &CategoryService{
		db:          db,
		repomanager: repomanager,
	}
}

// resolveCategory returns the category named by (ownerID, name), creating it
// when absent. Concurrent creators race on the unique (owner, name)
// constraint: the loser gets ErrorAlreadyExists from the insert and re-reads
// the winner's row, so both callers converge on the same category id.
func resolveCategory(ctx context.Context, repo categories.Repository, ownerID, name string) (*models.Category, error) {
	cat, err := repo.GetByOwnerAndName(ctx, ownerID, name)
	if err == nil {
		return cat, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	created, err := repo.Create(ctx, &models.Category{
		ID:      uuid.NewString(),
		OwnerID: ownerID,
		Name:    name,
	})
	if err == nil {
		return created, nil
	}
	if !errors.Is(err, common.ErrorAlreadyExists) {
		return nil, err
	}

	return repo.GetByOwnerAndName(ctx, ownerID, name)
}

// FindOrCreate resolves a category by name for the owner, creating it on
// first use.
func (s *CategoryService) FindOrCreate(ctx context.Context, ownerID, name string) (*models.Category, error) {
	repo := s.repomanager.Categories(s.db)

	cat, err := resolveCategory(ctx, repo, ownerID, name)
	if err != nil {
		return nil, fmt.Errorf("error resolving category: %w", err)
	}
	return cat, nil
}

// List returns all categories belonging to the owner.
func (s *CategoryService) List(ctx context.Context, ownerID string) ([]*models.Category, error) {
	repo := s.repomanager.Categories(s.db)

	result, err := repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error listing categories: %w", err)
	}
	return result, nil
}
