package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mbelyaev/postboard/internal/common"
	"github.com/mbelyaev/postboard/internal/server/auth"
	"github.com/mbelyaev/postboard/internal/server/config"
	"github.com/mbelyaev/postboard/internal/server/models"
	"github.com/mbelyaev/postboard/internal/server/repositories/repomanager"
)

// ContentService handles creation and deletion of posts, comments, and
// replies. Every mutation requires an authenticated actor; deletes
// additionally require ownership when enforcement is enabled.
type ContentService struct {
	db               *sql.DB
	repos            repomanager.RepositoryManager
	enforceOwnership bool
}

func NewContentService(db *sql.DB, repos repomanager.RepositoryManager, cfg *config.Config) *ContentService {
	return &ContentService{
		db:               db,
		repos:            repos,
		enforceOwnership: cfg.EnforceOwnership,
	}
}

// CreatePost creates a post owned by the acting identity.
func (s *ContentService) CreatePost(ctx context.Context, actor auth.AuthContext, title, content string) (*models.Post, error) {
	identity, err := auth.RequireAuthenticated(actor)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return nil, common.NewError(common.ErrorValidation, "Title and content are required fields")
	}

	post, err := s.repos.Posts(s.db).Create(ctx, &models.Post{
		Title:    title,
		Content:  content,
		AuthorID: identity.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorPersistence, err)
	}

	return post, nil
}

// CreateComment creates a comment on postID owned by the acting identity.
// Referential existence of the parent post is enforced by storage; only the
// presence of the id string is validated here.
func (s *ContentService) CreateComment(ctx context.Context, actor auth.AuthContext, text, postID string) (*models.Comment, error) {
	identity, err := auth.RequireAuthenticated(actor)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(text) == "" || strings.TrimSpace(postID) == "" {
		return nil, common.NewError(common.ErrorValidation, "Text and post id are required fields")
	}

	comment, err := s.repos.Comments(s.db).Create(ctx, &models.Comment{
		Text:     text,
		PostID:   postID,
		AuthorID: identity.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorPersistence, err)
	}

	return comment, nil
}

// CreateReply creates a reply on commentID owned by the acting identity.
func (s *ContentService) CreateReply(ctx context.Context, actor auth.AuthContext, text, commentID string) (*models.Reply, error) {
	identity, err := auth.RequireAuthenticated(actor)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(text) == "" || strings.TrimSpace(commentID) == "" {
		return nil, common.NewError(common.ErrorValidation, "Text and comment id are required fields")
	}

	reply, err := s.repos.Replies(s.db).Create(ctx, &models.Reply{
		Text:      text,
		CommentID: commentID,
		AuthorID:  identity.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorPersistence, err)
	}

	return reply, nil
}

// DeletePost deletes a post after the ownership check.
func (s *ContentService) DeletePost(ctx context.Context, actor auth.AuthContext, id string) error {
	if _, err := auth.RequireAuthenticated(actor); err != nil {
		return err
	}

	post, err := s.repos.Posts(s.db).FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.NewError(common.ErrorNotFound, "Post not found")
		}
		return fmt.Errorf("%w: %v", common.ErrorPersistence, err)
	}

	if err := s.authorizeOwner(actor, post.AuthorID); err != nil {
		return err
	}

	if err := s.repos.Posts(s.db).Delete(ctx, id); err != nil && !errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("%w: %v", common.ErrorPersistence, err)
	}

	return nil
}

// DeleteComment deletes a comment after the ownership check.
func (s *ContentService) DeleteComment(ctx context.Context, actor auth.AuthContext, id string) error {
	if _, err := auth.RequireAuthenticated(actor); err != nil {
		return err
	}

	comment, err := s.repos.Comments(s.db).FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.NewError(common.ErrorNotFound, "Comment not found")
		}
		return fmt.Errorf("%w: %v", common.ErrorPersistence, err)
	}

	if err := s.authorizeOwner(actor, comment.AuthorID); err != nil {
		return err
	}

	if err := s.repos.Comments(s.db).Delete(ctx, id); err != nil && !errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("%w: %v", common.ErrorPersistence, err)
	}

	return nil
}

// DeleteReply deletes a reply after the ownership check.
func (s *ContentService) DeleteReply(ctx context.Context, actor auth.AuthContext, id string) error {
	if _, err := auth.RequireAuthenticated(actor); err != nil {
		return err
	}

	reply, err := s.repos.Replies(s.db).FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.NewError(common.ErrorNotFound, "Reply not found")
		}
		return fmt.Errorf("%w: %v", common.ErrorPersistence, err)
	}

	if err := s.authorizeOwner(actor, reply.AuthorID); err != nil {
		return err
	}

	if err := s.repos.Replies(s.db).Delete(ctx, id); err != nil && !errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("%w: %v", common.ErrorPersistence, err)
	}

	return nil
}

func (s *ContentService) authorizeOwner(actor auth.AuthContext, ownerID string) error {
	if !s.enforceOwnership {
		return nil
	}
	return auth.RequireOwner(actor, ownerID)
}
