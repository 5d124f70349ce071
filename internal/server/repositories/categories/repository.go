package categories

import (
	"context"

	"github.com/logit-team/logit/internal/server/models"
)

type Repository interface {
	// GetByOwnerAndName returns the category for (owner, name) or
	// common.ErrorNotFound.
	GetByOwnerAndName(ctx context.Context, ownerID, name string) (*models.Category, error)

	// Create inserts the category. A unique-constraint violation on
	// (owner, name) is reported as common.ErrorAlreadyExists so callers can
	// re-read the winning row instead of erroring.
	Create(ctx context.Context, category *models.Category) (*models.Category, error)

	// ListByOwner returns all categories belonging to the owner.
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Category, error)
}
