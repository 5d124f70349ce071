package models

import "time"

// Commit is an ingested GitHub commit. ID is the commit SHA. Stats stays
// empty until the first detail request; it is filled once and then served
// from the store.
type Commit struct {
	ID        string
	OwnerName string
	RepoName  string
	Branch    string
	Message   string
	Stats     string
	Date      time.Time
	CreatedAt time.Time
}

// CommitFile is a file changed by an ingested commit.
type CommitFile struct {
	ID        int64
	CommitID  string
	Filename  string
	Additions int64
	Deletions int64
	Patch     string
}
