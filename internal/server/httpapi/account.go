package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mbelyaev/postboard/internal/server/metrics"
	"github.com/mbelyaev/postboard/internal/server/models"
	"github.com/mbelyaev/postboard/internal/server/repositories/users"
	"github.com/mbelyaev/postboard/internal/server/services"
)

// userDTO is the wire shape of a user. The password hash never leaves the
// service boundary.
type userDTO struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserDTO(u *models.User) *userDTO {
	if u == nil {
		return nil
	}
	return &userDTO{ID: u.ID, Username: u.Username, Email: u.Email, CreatedAt: u.CreatedAt}
}

type accountHandler struct {
	accounts  *services.AccountService
	collector *metrics.Collector
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupResponse struct {
	Status  int      `json:"status"`
	Message string   `json:"message"`
	User    *userDTO `json:"user,omitempty"`
}

// POST /api/signup
func (h *accountHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorEnvelope(w, err)
		return
	}

	user, err := h.accounts.Signup(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeErrorEnvelope(w, err)
		return
	}

	if h.collector != nil {
		h.collector.RecordSignup()
	}
	writeJSON(w, http.StatusOK, signupResponse{
		Status:  http.StatusOK,
		Message: "Signup successful",
		User:    toUserDTO(user),
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Status       int      `json:"status"`
	Message      string   `json:"message"`
	AccessToken  string   `json:"accessToken,omitempty"`
	RefreshToken string   `json:"refreshToken,omitempty"`
	User         *userDTO `json:"user,omitempty"`
}

// POST /api/login
func (h *accountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorEnvelope(w, err)
		return
	}

	result, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeErrorEnvelope(w, err)
		return
	}

	if h.collector != nil {
		h.collector.RecordLogin()
	}
	writeJSON(w, http.StatusOK, loginResponse{
		Status:       http.StatusOK,
		Message:      "Login successful",
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		User:         toUserDTO(result.User),
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// POST /api/token/refresh
func (h *accountHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	pair, err := h.accounts.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, refreshResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

type updateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

type updateUserResponse struct {
	User    *userDTO `json:"user"`
	Message string   `json:"message"`
}

// PATCH /api/users/{id}
func (h *accountHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.accounts.UpdateProfile(r.Context(), AuthFromRequest(r), chi.URLParam(r, "id"),
		users.ProfileUpdate{Username: req.Username, Email: req.Email})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updateUserResponse{
		User:    toUserDTO(user),
		Message: "User updated successfully",
	})
}

type updatePasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

// PUT /api/users/{id}/password
func (h *accountHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req updatePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.accounts.ChangePassword(r.Context(), AuthFromRequest(r), chi.URLParam(r, "id"), req.NewPassword); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Password updated successfully"})
}

// DELETE /api/users/{id}
func (h *accountHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.accounts.DeleteAccount(r.Context(), AuthFromRequest(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "User deleted successfully"})
}
