package repomanager

import (
	"context"
	"database/sql"

	"github.com/dkravets/mediakeeper/internal/dbx"
	"github.com/dkravets/mediakeeper/internal/server/repositories/contents"
	"github.com/dkravets/mediakeeper/internal/server/repositories/events"
	"github.com/dkravets/mediakeeper/internal/server/repositories/images"
	"github.com/dkravets/mediakeeper/internal/server/repositories/refreshtokens"
	"github.com/dkravets/mediakeeper/internal/server/repositories/spaces"
	"github.com/dkravets/mediakeeper/internal/server/repositories/users"
	"github.com/dkravets/mediakeeper/internal/server/repositories/videos"
)

// RepositoryManager vends repository implementations bound to a DBTX, so
// services can run several repositories inside one transaction by passing
// the same tx handle to each.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Spaces(db dbx.DBTX) spaces.Repository
	Contents(db dbx.DBTX) contents.Repository
	Events(db dbx.DBTX) events.Repository
	Images(db dbx.DBTX) images.Repository
	Videos(db dbx.DBTX) videos.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
