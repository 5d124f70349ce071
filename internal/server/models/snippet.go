// Package models contains the server-side domain entities: cache-resident
// snippets, durable code records, categories, commits and users.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/logit-team/logit/internal/common"
)

// SnippetStatus is the closed set of lifecycle tags a staged snippet can
// carry. Anything outside this set is rejected at parse time.
type SnippetStatus string

const (
	// StatusActive marks a snippet that is still live; its cached payload
	// is authoritative at commit time.
	StatusActive SnippetStatus = "active"

	// StatusDeleted marks a snippet whose removal was staged. Only the tag
	// changes in the cache; the authoritative payload must come from the
	// caller-supplied snapshot map at commit time.
	StatusDeleted SnippetStatus = "deleted"
)

// ParseSnippetStatus maps a raw status tag to the closed enum. Matching is
// case-insensitive; "managed" is accepted as a legacy alias of "active"
// (older clients wrote that tag into the cache). Unknown tags wrap
// common.ErrUnknownStatus, matched by callers with errors.Is.
func ParseSnippetStatus(tag string) (SnippetStatus, error) {
	switch strings.ToLower(tag) {
	case "active", "managed":
		return StatusActive, nil
	case "deleted":
		return StatusDeleted, nil
	}
	return "", fmt.Errorf("%w: %q", common.ErrUnknownStatus, tag)
}

// Snippet is an ephemeral, cache-resident code annotation awaiting commit.
// It is owned exclusively by the cache for the duration of a user's editing
// session and is serialized as JSON into the cache hash.
type Snippet struct {
	ID          string        `json:"id"`
	OwnerID     string        `json:"owner_id"`
	Title       string        `json:"title"`
	Content     string        `json:"content"`
	Code        string        `json:"code"`
	FilePath    string        `json:"file_path"`
	StartOffset int           `json:"start_offset"`
	EndOffset   int           `json:"end_offset"`
	Category    string        `json:"category"`
	Status      SnippetStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
