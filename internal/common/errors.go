// Package common defines shared sentinel errors used across the cache,
// repository and service layers. Callers should match them with errors.Is.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal   = errors.New("internal error")
	ErrorValidation = errors.New("validation error")

	// OwnerNotFound: the caller identity does not resolve to a known user.
	ErrOwnerNotFound = errors.New("owner not found")

	// SnippetNotFound: a cache mutation targets a missing entry, or a
	// deleted-status snippet has no entry in the caller-supplied snapshot map.
	ErrSnippetNotFound = errors.New("snippet not found")

	// ErrUnknownStatus: a staged snippet carries a status tag outside the
	// closed active/deleted set.
	ErrUnknownStatus = errors.New("unknown snippet status")

	// ErrGithubNotLinked: the user has no stored GitHub access token.
	ErrGithubNotLinked = errors.New("github account not linked")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
