package repomanager

import (
	"context"
	"database/sql"

	"github.com/logit-team/logit/internal/dbx"
	"github.com/logit-team/logit/internal/server/repositories/categories"
	"github.com/logit-team/logit/internal/server/repositories/codes"
	"github.com/logit-team/logit/internal/server/repositories/commits"
	"github.com/logit-team/logit/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX. Services bind to
// *sql.DB for standalone reads and rebind to the transaction handle inside
// dbx.WithTx sections.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Categories(db dbx.DBTX) categories.Repository
	Codes(db dbx.DBTX) codes.Repository
	Commits(db dbx.DBTX) commits.Repository
}
