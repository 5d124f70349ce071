package models

import "time"

// User is the owner of staged snippets, categories and code records.
// Identity/session resolution happens outside this core; services receive
// the owner id explicitly and only verify the row exists.
type User struct {
	ID                string
	GithubLogin       string
	GithubAccessToken string
	CreatedAt         time.Time
}
