package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mbelyaev/postboard/internal/server/graph"
	"github.com/mbelyaev/postboard/internal/server/models"
)

// queryHandler serves the read side: entity lookups and relationship
// traversal over the resolver. Absent entities become 404; absent children
// become empty arrays.
type queryHandler struct {
	graph *graph.Resolver
}

func notFound(w http.ResponseWriter, entity string) {
	writeJSON(w, http.StatusNotFound, messageResponse{Message: entity + " not found"})
}

// GET /api/users
func (h *queryHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.graph.Users(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	result := []*userDTO{}
	for _, u := range users {
		result = append(result, toUserDTO(u))
	}
	writeJSON(w, http.StatusOK, result)
}

// GET /api/users/{id}
func (h *queryHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.graph.User(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		notFound(w, "User")
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

// GET /api/users/{id}/posts
func (h *queryHandler) ListUserPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.graph.UserPosts(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writePosts(w, posts)
}

// GET /api/posts
func (h *queryHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.graph.Posts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writePosts(w, posts)
}

func writePosts(w http.ResponseWriter, posts []*models.Post) {
	result := []*postDTO{}
	for _, p := range posts {
		result = append(result, toPostDTO(p))
	}
	writeJSON(w, http.StatusOK, result)
}

// GET /api/posts/{id}
func (h *queryHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.graph.Post(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if post == nil {
		notFound(w, "Post")
		return
	}
	writeJSON(w, http.StatusOK, toPostDTO(post))
}

// GET /api/posts/{id}/author
func (h *queryHandler) GetPostAuthor(w http.ResponseWriter, r *http.Request) {
	post, err := h.graph.Post(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if post == nil {
		notFound(w, "Post")
		return
	}

	author, err := h.graph.PostAuthor(r.Context(), post)
	if err != nil {
		writeError(w, err)
		return
	}
	if author == nil {
		notFound(w, "User")
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(author))
}

// GET /api/posts/{id}/comments
func (h *queryHandler) ListPostComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.graph.PostComments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	result := []*commentDTO{}
	for _, c := range comments {
		result = append(result, toCommentDTO(c))
	}
	writeJSON(w, http.StatusOK, result)
}

// GET /api/comments/{id}
func (h *queryHandler) GetComment(w http.ResponseWriter, r *http.Request) {
	comment, err := h.graph.Comment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if comment == nil {
		notFound(w, "Comment")
		return
	}
	writeJSON(w, http.StatusOK, toCommentDTO(comment))
}

// GET /api/comments/{id}/post
func (h *queryHandler) GetCommentPost(w http.ResponseWriter, r *http.Request) {
	comment, err := h.graph.Comment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if comment == nil {
		notFound(w, "Comment")
		return
	}

	post, err := h.graph.CommentPost(r.Context(), comment)
	if err != nil {
		writeError(w, err)
		return
	}
	if post == nil {
		notFound(w, "Post")
		return
	}
	writeJSON(w, http.StatusOK, toPostDTO(post))
}

// GET /api/comments/{id}/replies
func (h *queryHandler) ListCommentReplies(w http.ResponseWriter, r *http.Request) {
	replies, err := h.graph.CommentReplies(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	result := []*replyDTO{}
	for _, rep := range replies {
		result = append(result, toReplyDTO(rep))
	}
	writeJSON(w, http.StatusOK, result)
}

// GET /api/replies/{id}
func (h *queryHandler) GetReply(w http.ResponseWriter, r *http.Request) {
	reply, err := h.graph.Reply(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if reply == nil {
		notFound(w, "Reply")
		return
	}
	writeJSON(w, http.StatusOK, toReplyDTO(reply))
}
