package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/strengthsmap/internal/dbx"
	"github.com/dmitrijs2005/strengthsmap/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/strengthsmap/internal/server/repositories/community"
	"github.com/dmitrijs2005/strengthsmap/internal/server/repositories/entries"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Entries(db dbx.DBTX) entries.Repository
	Community(db dbx.DBTX) community.Repository
}
