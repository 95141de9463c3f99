// Package graph resolves the foreign-key relationships of the entity graph
// User → Post → Comment → Reply. Every method is a lazy lookup against the
// storage layer; siblings may be resolved concurrently, so the Resolver
// itself holds no mutable state.
package graph

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mbelyaev/postboard/internal/common"
	"github.com/mbelyaev/postboard/internal/server/models"
	"github.com/mbelyaev/postboard/internal/server/repositories/repomanager"
)

// Resolver delegates to the repositories vended by the repository manager.
// A lookup that finds nothing returns nil (for single entities) or an empty
// slice (for collections); only storage failures produce errors.
type Resolver struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
}

func NewResolver(db *sql.DB, repos repomanager.RepositoryManager) *Resolver {
	return &Resolver{db: db, repos: repos}
}

// --- top-level lookups ---

func (r *Resolver) User(ctx context.Context, id string) (*models.User, error) {
	user, err := r.repos.Users(r.db).FindByID(ctx, id)
	return single(user, err)
}

func (r *Resolver) Users(ctx context.Context) ([]*models.User, error) {
	result, err := r.repos.Users(r.db).FindAll(ctx)
	if err != nil {
		return nil, persistence(err)
	}
	return result, nil
}

func (r *Resolver) Post(ctx context.Context, id string) (*models.Post, error) {
	post, err := r.repos.Posts(r.db).FindByID(ctx, id)
	return single(post, err)
}

func (r *Resolver) Posts(ctx context.Context) ([]*models.Post, error) {
	result, err := r.repos.Posts(r.db).FindAll(ctx)
	if err != nil {
		return nil, persistence(err)
	}
	return result, nil
}

func (r *Resolver) Comment(ctx context.Context, id string) (*models.Comment, error) {
	comment, err := r.repos.Comments(r.db).FindByID(ctx, id)
	return single(comment, err)
}

func (r *Resolver) Comments(ctx context.Context) ([]*models.Comment, error) {
	result, err := r.repos.Comments(r.db).FindAll(ctx)
	if err != nil {
		return nil, persistence(err)
	}
	return result, nil
}

func (r *Resolver) Reply(ctx context.Context, id string) (*models.Reply, error) {
	reply, err := r.repos.Replies(r.db).FindByID(ctx, id)
	return single(reply, err)
}

func (r *Resolver) Replies(ctx context.Context) ([]*models.Reply, error) {
	result, err := r.repos.Replies(r.db).FindAll(ctx)
	if err != nil {
		return nil, persistence(err)
	}
	return result, nil
}

// --- edges, parent to children ---

// UserPosts returns the user's posts in creation order.
func (r *Resolver) UserPosts(ctx context.Context, userID string) ([]*models.Post, error) {
	result, err := r.repos.Posts(r.db).FindByAuthor(ctx, userID)
	if err != nil {
		return nil, persistence(err)
	}
	return result, nil
}

// PostComments returns the post's comments in creation order.
func (r *Resolver) PostComments(ctx context.Context, postID string) ([]*models.Comment, error) {
	result, err := r.repos.Comments(r.db).FindByPost(ctx, postID)
	if err != nil {
		return nil, persistence(err)
	}
	return result, nil
}

// CommentReplies returns the comment's replies in creation order.
func (r *Resolver) CommentReplies(ctx context.Context, commentID string) ([]*models.Reply, error) {
	result, err := r.repos.Replies(r.db).FindByComment(ctx, commentID)
	if err != nil {
		return nil, persistence(err)
	}
	return result, nil
}

// --- edges, child to parent ---

// PostAuthor returns the owning user of a post, or nil when absent.
func (r *Resolver) PostAuthor(ctx context.Context, post *models.Post) (*models.User, error) {
	user, err := r.repos.Users(r.db).FindByID(ctx, post.AuthorID)
	return single(user, err)
}

// CommentAuthor returns the owning user of a comment, or nil when absent.
func (r *Resolver) CommentAuthor(ctx context.Context, comment *models.Comment) (*models.User, error) {
	user, err := r.repos.Users(r.db).FindByID(ctx, comment.AuthorID)
	return single(user, err)
}

// CommentPost returns the parent post of a comment, or nil when absent.
func (r *Resolver) CommentPost(ctx context.Context, comment *models.Comment) (*models.Post, error) {
	post, err := r.repos.Posts(r.db).FindByID(ctx, comment.PostID)
	return single(post, err)
}

// ReplyAuthor returns the owning user of a reply, or nil when absent.
func (r *Resolver) ReplyAuthor(ctx context.Context, reply *models.Reply) (*models.User, error) {
	user, err := r.repos.Users(r.db).FindByID(ctx, reply.AuthorID)
	return single(user, err)
}

// ReplyComment returns the parent comment of a reply, or nil when absent.
func (r *Resolver) ReplyComment(ctx context.Context, reply *models.Reply) (*models.Comment, error) {
	comment, err := r.repos.Comments(r.db).FindByID(ctx, reply.CommentID)
	return single(comment, err)
}

// single maps a repository not-found to (nil, nil): an absent relation is not
// an error at this layer.
func single[T any](entity *T, err error) (*T, error) {
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, persistence(err)
	}
	return entity, nil
}

func persistence(err error) error {
	return fmt.Errorf("%w: %v", common.ErrorPersistence, err)
}
