// Package snippetcache defines the gateway over the ephemeral, per-user
// store holding in-progress snippets, plus its Redis and in-memory
// implementations. The cache is an auxiliary staging area: it is never the
// source of truth for anything that also exists durably.
package snippetcache

import (
	"context"

	"github.com/logit-team/logit/internal/server/models"
)

// Gateway is the cache contract consumed by the reconciler and the staging
// operations. Every operation is scoped by owner id.
type Gateway interface {
	// Save creates or overwrites the entry keyed by snippet id.
	Save(ctx context.Context, ownerID string, snippet *models.Snippet) error

	// Get returns the snippet or common.ErrorNotFound.
	Get(ctx context.Context, ownerID, id string) (*models.Snippet, error)

	// ListAll returns every staged snippet for the owner. Insertion order is
	// not significant; callers needing a stable order must sort.
	ListAll(ctx context.Context, ownerID string) ([]*models.Snippet, error)

	// UpdateBlock mutates offsets and code in place. It fails with
	// common.ErrorNotFound, and leaves no side effect, when id is absent.
	UpdateBlock(ctx context.Context, ownerID, id string, startOffset, endOffset int, code string) error

	// MarkDeleted flips the status tag to deleted in place, leaving all
	// content fields untouched. Fails with common.ErrorNotFound when id is
	// absent.
	MarkDeleted(ctx context.Context, ownerID, id string) error

	// Clear bulk-removes all staged entries for the owner after a successful
	// reconciliation. commitID is a trace key only; the staging scope is
	// per-owner.
	Clear(ctx context.Context, ownerID, commitID string) error
}
