package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/artvault/internal/dbx"
	"github.com/dmitrijs2005/artvault/internal/server/repositories/artworks"
	"github.com/dmitrijs2005/artvault/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Artworks(db dbx.DBTX) artworks.Repository
}
