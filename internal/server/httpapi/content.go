package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mbelyaev/postboard/internal/server/models"
	"github.com/mbelyaev/postboard/internal/server/services"
)

type postDTO struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

type commentDTO struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

type replyDTO struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CommentID string    `json:"commentId"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

func toPostDTO(p *models.Post) *postDTO {
	if p == nil {
		return nil
	}
	return &postDTO{ID: p.ID, Title: p.Title, Content: p.Content, UserID: p.AuthorID, CreatedAt: p.CreatedAt}
}

func toCommentDTO(c *models.Comment) *commentDTO {
	if c == nil {
		return nil
	}
	return &commentDTO{ID: c.ID, Text: c.Text, PostID: c.PostID, UserID: c.AuthorID, CreatedAt: c.CreatedAt}
}

func toReplyDTO(r *models.Reply) *replyDTO {
	if r == nil {
		return nil
	}
	return &replyDTO{ID: r.ID, Text: r.Text, CommentID: r.CommentID, UserID: r.AuthorID, CreatedAt: r.CreatedAt}
}

type contentHandler struct {
	content *services.ContentService
}

type createPostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type createPostResponse struct {
	Post    *postDTO `json:"post"`
	Message string   `json:"message"`
}

// POST /api/posts
func (h *contentHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	post, err := h.content.CreatePost(r.Context(), AuthFromRequest(r), req.Title, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, createPostResponse{
		Post:    toPostDTO(post),
		Message: "Post created Successfully",
	})
}

// DELETE /api/posts/{id}
func (h *contentHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	if err := h.content.DeletePost(r.Context(), AuthFromRequest(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Post deleted successfully"})
}

type createCommentRequest struct {
	Text   string `json:"text"`
	PostID string `json:"postId"`
}

type createCommentResponse struct {
	Comment *commentDTO `json:"comment"`
	Message string      `json:"message"`
}

// POST /api/comments
func (h *contentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	var req createCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	comment, err := h.content.CreateComment(r.Context(), AuthFromRequest(r), req.Text, req.PostID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, createCommentResponse{
		Comment: toCommentDTO(comment),
		Message: "Comment created successfully",
	})
}

// DELETE /api/comments/{id}
func (h *contentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := h.content.DeleteComment(r.Context(), AuthFromRequest(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Comment deleted successfully"})
}

type createReplyRequest struct {
	Text      string `json:"text"`
	CommentID string `json:"commentId"`
}

type createReplyResponse struct {
	Reply   *replyDTO `json:"reply"`
	Message string    `json:"message"`
}

// POST /api/replies
func (h *contentHandler) CreateReply(w http.ResponseWriter, r *http.Request) {
	var req createReplyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	reply, err := h.content.CreateReply(r.Context(), AuthFromRequest(r), req.Text, req.CommentID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, createReplyResponse{
		Reply:   toReplyDTO(reply),
		Message: "Reply created successfully",
	})
}

// DELETE /api/replies/{id}
func (h *contentHandler) DeleteReply(w http.ResponseWriter, r *http.Request) {
	if err := h.content.DeleteReply(r.Context(), AuthFromRequest(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Reply deleted successfully"})
}
