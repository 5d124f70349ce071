package models

import "time"

// Category is a named, per-owner grouping of code records.
// (OwnerID, Name) is unique; repeated resolution of the same pair must yield
// the same identity.
type Category struct {
	ID        string
	OwnerID   string
	Name      string
	CreatedAt time.Time
}
