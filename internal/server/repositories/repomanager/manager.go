package repomanager

import (
	"context"
	"database/sql"

	"github.com/mbelyaev/postboard/internal/dbx"
	"github.com/mbelyaev/postboard/internal/server/repositories/comments"
	"github.com/mbelyaev/postboard/internal/server/repositories/posts"
	"github.com/mbelyaev/postboard/internal/server/repositories/replies"
	"github.com/mbelyaev/postboard/internal/server/repositories/resettokens"
	"github.com/mbelyaev/postboard/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Posts(db dbx.DBTX) posts.Repository
	Comments(db dbx.DBTX) comments.Repository
	Replies(db dbx.DBTX) replies.Repository
	ResetTokens(db dbx.DBTX) resettokens.Repository
}
