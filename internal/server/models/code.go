package models

import "time"

// Code is a durable, immutable snapshot of a snippet attached to a commit.
// Identity is (ID, CommitID): the same snippet reconciled under the same
// commit id again must not produce a second row. Rows are never updated in
// place; each commit produces a new generation of records.
type Code struct {
	ID          string
	CommitID    string
	Title       string
	Content     string
	Code        string
	FileName    string
	StartOffset int
	EndOffset   int
	Status      SnippetStatus
	CategoryID  string
	CreatedAt   time.Time

	// CategoryName is populated by listing queries (join), not stored
	// on the codes row itself.
	CategoryName string
}
