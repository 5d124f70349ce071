package snippetcache

import (
	"context"
	"sync"
	"time"

	"github.com/logit-team/logit/internal/common"
	"github.com/logit-team/logit/internal/server/models"
)

// MemoryGateway is an in-process Gateway used in tests and single-node
// development setups. Snippets are copied on the way in and out so callers
// never alias cache-owned state.
type MemoryGateway struct {
	mu     sync.RWMutex
	owners map[string]map[string]*models.Snippet
}

// NewMemoryGateway constructs an empty in-memory gateway.
func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{owners: make(map[string]map[string]*models.Snippet)}
}

func (g *MemoryGateway) Save(ctx context.Context, ownerID string, snippet *models.Snippet) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now().UTC()
	if snippet.CreatedAt.IsZero() {
		snippet.CreatedAt = now
	}
	snippet.UpdatedAt = now

	entries, ok := g.owners[ownerID]
	if !ok {
		entries = make(map[string]*models.Snippet)
		g.owners[ownerID] = entries
	}
	cp := *snippet
	entries[snippet.ID] = &cp
	return nil
}

func (g *MemoryGateway) Get(ctx context.Context, ownerID, id string) (*models.Snippet, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	s, ok := g.owners[ownerID][id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *s
	return &cp, nil
}

func (g *MemoryGateway) ListAll(ctx context.Context, ownerID string) ([]*models.Snippet, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	entries := g.owners[ownerID]
	result := make([]*models.Snippet, 0, len(entries))
	for _, s := range entries {
		cp := *s
		result = append(result, &cp)
	}
	return result, nil
}

func (g *MemoryGateway) UpdateBlock(ctx context.Context, ownerID, id string, startOffset, endOffset int, code string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, ok := g.owners[ownerID][id]
	if !ok {
		return common.ErrorNotFound
	}
	s.StartOffset = startOffset
	s.EndOffset = endOffset
	s.Code = code
	s.UpdatedAt = time.Now().UTC()
	return nil
}

func (g *MemoryGateway) MarkDeleted(ctx context.Context, ownerID, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, ok := g.owners[ownerID][id]
	if !ok {
		return common.ErrorNotFound
	}
	s.Status = models.StatusDeleted
	s.UpdatedAt = time.Now().UTC()
	return nil
}

func (g *MemoryGateway) Clear(ctx context.Context, ownerID, commitID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.owners, ownerID)
	return nil
}
