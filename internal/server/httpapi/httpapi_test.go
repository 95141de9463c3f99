package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/mbelyaev/postboard/internal/common"
	"github.com/mbelyaev/postboard/internal/dbx"
	"github.com/mbelyaev/postboard/internal/logging"
	"github.com/mbelyaev/postboard/internal/server/auth"
	"github.com/mbelyaev/postboard/internal/server/config"
	"github.com/mbelyaev/postboard/internal/server/graph"
	"github.com/mbelyaev/postboard/internal/server/mailer"
	"github.com/mbelyaev/postboard/internal/server/metrics"
	"github.com/mbelyaev/postboard/internal/server/models"
	commentsrepo "github.com/mbelyaev/postboard/internal/server/repositories/comments"
	postsrepo "github.com/mbelyaev/postboard/internal/server/repositories/posts"
	repliesrepo "github.com/mbelyaev/postboard/internal/server/repositories/replies"
	resettokensrepo "github.com/mbelyaev/postboard/internal/server/repositories/resettokens"
	usersrepo "github.com/mbelyaev/postboard/internal/server/repositories/users"
	"github.com/mbelyaev/postboard/internal/server/services"
)

// memStore is a minimal in-memory RepositoryManager for transport tests.
type memStore struct {
	users    []*models.User
	posts    []*models.Post
	comments []*models.Comment
	replies  []*models.Reply
	tokens   []*models.ResetToken
}

type memUsersRepo struct{ s *memStore }
type memPostsRepo struct{ s *memStore }
type memCommentsRepo struct{ s *memStore }
type memRepliesRepo struct{ s *memStore }
type memTokensRepo struct{ s *memStore }

func (m *memStore) RunMigrations(context.Context, *sql.DB) error    { return nil }
func (m *memStore) Users(dbx.DBTX) usersrepo.Repository             { return &memUsersRepo{m} }
func (m *memStore) Posts(dbx.DBTX) postsrepo.Repository             { return &memPostsRepo{m} }
func (m *memStore) Comments(dbx.DBTX) commentsrepo.Repository       { return &memCommentsRepo{m} }
func (m *memStore) Replies(dbx.DBTX) repliesrepo.Repository         { return &memRepliesRepo{m} }
func (m *memStore) ResetTokens(dbx.DBTX) resettokensrepo.Repository { return &memTokensRepo{m} }

func (r *memUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	u.CreatedAt = time.Now()
	r.s.users = append(r.s.users, u)
	return u, nil
}

func (r *memUsersRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	for _, u := range r.s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memUsersRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range r.s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memUsersRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memUsersRepo) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	for _, u := range r.s.users {
		if u.Username == username || u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memUsersRepo) FindAll(ctx context.Context) ([]*models.User, error) {
	return append([]*models.User{}, r.s.users...), nil
}

func (r *memUsersRepo) Update(ctx context.Context, id string, update usersrepo.ProfileUpdate) (*models.User, error) {
	for _, u := range r.s.users {
		if u.ID == id {
			if update.Username != nil {
				u.Username = *update.Username
			}
			if update.Email != nil {
				u.Email = *update.Email
			}
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memUsersRepo) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	for _, u := range r.s.users {
		if u.ID == id {
			u.PasswordHash = passwordHash
			return nil
		}
	}
	return common.ErrorNotFound
}

func (r *memUsersRepo) Delete(ctx context.Context, id string) error {
	for i, u := range r.s.users {
		if u.ID == id {
			r.s.users = append(r.s.users[:i], r.s.users[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (r *memPostsRepo) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.CreatedAt = time.Now()
	r.s.posts = append(r.s.posts, p)
	return p, nil
}

func (r *memPostsRepo) FindByID(ctx context.Context, id string) (*models.Post, error) {
	for _, p := range r.s.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memPostsRepo) FindAll(ctx context.Context) ([]*models.Post, error) {
	return append([]*models.Post{}, r.s.posts...), nil
}

func (r *memPostsRepo) FindByAuthor(ctx context.Context, authorID string) ([]*models.Post, error) {
	result := []*models.Post{}
	for _, p := range r.s.posts {
		if p.AuthorID == authorID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r *memPostsRepo) Delete(ctx context.Context, id string) error {
	for i, p := range r.s.posts {
		if p.ID == id {
			r.s.posts = append(r.s.posts[:i], r.s.posts[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (r *memCommentsRepo) Create(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	c.CreatedAt = time.Now()
	r.s.comments = append(r.s.comments, c)
	return c, nil
}

func (r *memCommentsRepo) FindByID(ctx context.Context, id string) (*models.Comment, error) {
	for _, c := range r.s.comments {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memCommentsRepo) FindAll(ctx context.Context) ([]*models.Comment, error) {
	return append([]*models.Comment{}, r.s.comments...), nil
}

func (r *memCommentsRepo) FindByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	result := []*models.Comment{}
	for _, c := range r.s.comments {
		if c.PostID == postID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (r *memCommentsRepo) Delete(ctx context.Context, id string) error {
	for i, c := range r.s.comments {
		if c.ID == id {
			r.s.comments = append(r.s.comments[:i], r.s.comments[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (r *memRepliesRepo) Create(ctx context.Context, rep *models.Reply) (*models.Reply, error) {
	if rep.ID == "" {
		rep.ID = uuid.New().String()
	}
	rep.CreatedAt = time.Now()
	r.s.replies = append(r.s.replies, rep)
	return rep, nil
}

func (r *memRepliesRepo) FindByID(ctx context.Context, id string) (*models.Reply, error) {
	for _, rep := range r.s.replies {
		if rep.ID == id {
			return rep, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memRepliesRepo) FindAll(ctx context.Context) ([]*models.Reply, error) {
	return append([]*models.Reply{}, r.s.replies...), nil
}

func (r *memRepliesRepo) FindByComment(ctx context.Context, commentID string) ([]*models.Reply, error) {
	result := []*models.Reply{}
	for _, rep := range r.s.replies {
		if rep.CommentID == commentID {
			result = append(result, rep)
		}
	}
	return result, nil
}

func (r *memRepliesRepo) Delete(ctx context.Context, id string) error {
	for i, rep := range r.s.replies {
		if rep.ID == id {
			r.s.replies = append(r.s.replies[:i], r.s.replies[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (r *memTokensRepo) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	r.s.tokens = append(r.s.tokens, &models.ResetToken{
		ID: uuid.New().String(), UserID: userID, Token: token,
		ExpirationDate: time.Now().Add(validity), CreatedAt: time.Now(),
	})
	return nil
}

func (r *memTokensRepo) Find(ctx context.Context, token string) (*models.ResetToken, error) {
	for _, rt := range r.s.tokens {
		if rt.Token == token {
			return rt, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memTokensRepo) Delete(ctx context.Context, token string) error {
	for i, rt := range r.s.tokens {
		if rt.Token == token {
			r.s.tokens = append(r.s.tokens[:i], r.s.tokens[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *memTokensRepo) DeleteForUser(ctx context.Context, userID string) error {
	kept := r.s.tokens[:0]
	for _, rt := range r.s.tokens {
		if rt.UserID != userID {
			kept = append(kept, rt)
		}
	}
	r.s.tokens = kept
	return nil
}

type apiFixture struct {
	srv    *httptest.Server
	store  *memStore
	tokens *auth.TokenService
	mock   sqlmock.Sqlmock
}

func newAPIFixture(t *testing.T, mutate func(cfg *config.Config)) *apiFixture {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	if mutate != nil {
		mutate(cfg)
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	// The reset flow consumes tokens inside a transaction; sqlmock provides
	// the *sql.DB for it while the repositories stay in memory.
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := &memStore{}
	passwords := auth.NewPasswordService(bcrypt.MinCost)
	tokens := auth.NewTokenService([]byte(cfg.SecretKey),
		cfg.AccessTokenValidityDuration, cfg.RefreshTokenValidityDuration, cfg.ResetTokenValidityDuration)

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	limiter := NewRateLimiter(RateLimiterConfig{Rate: rate.Limit(1000), Burst: 1000, CleanupInterval: time.Minute})
	t.Cleanup(limiter.Stop)

	router := NewRouter(&RouterDeps{
		Resolver:    auth.NewContextResolver(tokens),
		Accounts:    services.NewAccountService(nil, store, passwords, tokens, cfg),
		Content:     services.NewContentService(nil, store, cfg),
		Resets:      services.NewResetFlowService(db, store, passwords, tokens, mailer.NewLogMailer(logger), cfg, logger),
		Graph:       graph.NewResolver(nil, store),
		Collector:   collector,
		Gatherer:    reg,
		RateLimiter: limiter,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &apiFixture{srv: srv, store: store, tokens: tokens, mock: mock}
}

func (f *apiFixture) do(t *testing.T, method, path, bearer string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, f.srv.URL+path, &buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+bearer)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func (f *apiFixture) signupAndLogin(t *testing.T, username, email, password string) (string, string) {
	t.Helper()

	resp, _ := f.do(t, http.MethodPost, "/api/signup", "", map[string]string{
		"username": username, "email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := f.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"username": username, "password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	token, _ := body["accessToken"].(string)
	require.NotEmpty(t, token)
	user, _ := body["user"].(map[string]any)
	require.NotNil(t, user)
	id, _ := user["id"].(string)
	require.NotEmpty(t, id)
	return token, id
}

func TestSignupLoginFlow(t *testing.T) {
	f := newAPIFixture(t, nil)

	resp, body := f.do(t, http.MethodPost, "/api/signup", "", map[string]string{
		"username": "john_doe", "email": "john@example.com", "password": "Passw0rd",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Signup successful", body["message"])

	resp, body = f.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"username": "john_doe", "password": "Passw0rd",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Login successful", body["message"])
	assert.NotEmpty(t, body["accessToken"])
	assert.NotEmpty(t, body["refreshToken"])

	user, _ := body["user"].(map[string]any)
	require.NotNil(t, user)
	assert.Equal(t, "john_doe", user["username"])
	_, hasPassword := user["passwordHash"]
	assert.False(t, hasPassword)
}

func TestLoginFailureEnvelope(t *testing.T) {
	f := newAPIFixture(t, nil)
	f.signupAndLogin(t, "john_doe", "john@example.com", "Passw0rd")

	resp, body := f.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"username": "john_doe", "password": "WrongPassw0rd",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, float64(http.StatusUnauthorized), body["status"])
	assert.Equal(t, "Invalid login credentials", body["message"])
}

func TestSignupDuplicate(t *testing.T) {
	f := newAPIFixture(t, nil)
	f.signupAndLogin(t, "john_doe", "john@example.com", "Passw0rd")

	resp, body := f.do(t, http.MethodPost, "/api/signup", "", map[string]string{
		"username": "john_doe", "email": "other@example.com", "password": "Passw0rd",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "User already exists", body["message"])
}

func TestInvalidBearerTokenIsHard401(t *testing.T) {
	f := newAPIFixture(t, nil)

	// Even a route that allows anonymous access rejects a bad credential.
	resp, body := f.do(t, http.MethodGet, "/api/posts", "garbage.token.here", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid token", body["message"])
}

func TestTokenRefresh(t *testing.T) {
	f := newAPIFixture(t, nil)
	f.signupAndLogin(t, "john_doe", "john@example.com", "Passw0rd")

	resp, body := f.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"username": "john_doe", "password": "Passw0rd",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	refresh, _ := body["refreshToken"].(string)

	resp, body = f.do(t, http.MethodPost, "/api/token/refresh", "", map[string]string{
		"refreshToken": refresh,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["accessToken"])

	resp, body = f.do(t, http.MethodPost, "/api/token/refresh", "", map[string]string{
		"refreshToken": "bogus",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid token", body["message"])
}

func TestContentLifecycle(t *testing.T) {
	f := newAPIFixture(t, nil)
	token, userID := f.signupAndLogin(t, "john_doe", "john@example.com", "Passw0rd")

	// Anonymous creation is rejected.
	resp, _ := f.do(t, http.MethodPost, "/api/posts", "", map[string]string{
		"title": "First post", "content": "Hello world",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Authenticated creation succeeds and records ownership.
	resp, body := f.do(t, http.MethodPost, "/api/posts", token, map[string]string{
		"title": "First post", "content": "Hello world",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	post, _ := body["post"].(map[string]any)
	require.NotNil(t, post)
	assert.Equal(t, userID, post["userId"])
	postID, _ := post["id"].(string)

	resp, body = f.do(t, http.MethodPost, "/api/comments", token, map[string]string{
		"text": "Nice post", "postId": postID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	comment, _ := body["comment"].(map[string]any)
	require.NotNil(t, comment)
	commentID, _ := comment["id"].(string)

	resp, body = f.do(t, http.MethodPost, "/api/replies", token, map[string]string{
		"text": "I agree", "commentId": commentID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Traversal.
	resp, _ = f.do(t, http.MethodGet, "/api/posts/"+postID+"/author", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Deletion by a different user is forbidden.
	otherToken, _ := f.signupAndLogin(t, "jane_doe", "jane@example.com", "Passw0rd")
	resp, _ = f.do(t, http.MethodDelete, "/api/posts/"+postID, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Deletion by the owner works.
	resp, body = f.do(t, http.MethodDelete, "/api/posts/"+postID, token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Post deleted successfully", body["message"])

	resp, _ = f.do(t, http.MethodGet, "/api/posts/"+postID, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestOwnershipEnforcementOff(t *testing.T) {
	f := newAPIFixture(t, func(cfg *config.Config) { cfg.EnforceOwnership = false })
	token, _ := f.signupAndLogin(t, "john_doe", "john@example.com", "Passw0rd")

	resp, body := f.do(t, http.MethodPost, "/api/posts", token, map[string]string{
		"title": "First post", "content": "Hello world",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	post, _ := body["post"].(map[string]any)
	postID, _ := post["id"].(string)

	otherToken, _ := f.signupAndLogin(t, "jane_doe", "jane@example.com", "Passw0rd")
	resp, _ = f.do(t, http.MethodDelete, "/api/posts/"+postID, otherToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestQueryRoutes(t *testing.T) {
	f := newAPIFixture(t, nil)
	token, userID := f.signupAndLogin(t, "john_doe", "john@example.com", "Passw0rd")

	resp, _ := f.do(t, http.MethodGet, "/api/users/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body := f.do(t, http.MethodGet, "/api/users/"+userID, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "john_doe", body["username"])

	// Children of an existing parent with no children: empty array, not 404.
	resp, bodyRaw := f.do(t, http.MethodPost, "/api/posts", token, map[string]string{
		"title": "First post", "content": "Hello world",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	post, _ := bodyRaw["post"].(map[string]any)
	postID, _ := post["id"].(string)

	req, err := http.NewRequest(http.MethodGet, f.srv.URL+"/api/posts/"+postID+"/comments", nil)
	require.NoError(t, err)
	listResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer listResp.Body.Close()
	raw, err := io.ReadAll(listResp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, listResp.StatusCode)
	assert.JSONEq(t, "[]", string(raw))
}

func TestPasswordResetFlow(t *testing.T) {
	f := newAPIFixture(t, nil)
	f.signupAndLogin(t, "john_doe", "john@example.com", "Passw0rd")

	resp, body := f.do(t, http.MethodPost, "/api/password-reset", "", map[string]string{
		"email": "nobody@example.com",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "User with this email does not exist.", body["message"])

	resp, body = f.do(t, http.MethodPost, "/api/password-reset", "", map[string]string{
		"email": "john@example.com",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	require.Len(t, f.store.tokens, 1)
	resetToken := f.store.tokens[0].Token

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	resp, body = f.do(t, http.MethodPost, "/api/password-reset/complete", "", map[string]string{
		"token": resetToken, "newPassword": "NewPassw0rd",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Password updated successfully", body["message"])

	// The rotated password logs in, the old one does not.
	resp, _ = f.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"username": "john_doe", "password": "NewPassw0rd",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = f.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"username": "john_doe", "password": "Passw0rd",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// A consumed token cannot be redeemed again.
	resp, _ = f.do(t, http.MethodPost, "/api/password-reset/complete", "", map[string]string{
		"token": resetToken, "newPassword": "OtherPassw0rd",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRateLimit(t *testing.T) {
	limiter := NewRateLimiter(RateLimiterConfig{Rate: rate.Limit(0.1), Burst: 2, CleanupInterval: time.Minute})
	defer limiter.Stop()

	handler := limiter.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	req.RemoteAddr = "10.0.0.1:1234"

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// A different client has its own bucket.
	other := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	other.RemoteAddr = "10.0.0.2:1234"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthzAndMetrics(t *testing.T) {
	f := newAPIFixture(t, nil)

	resp, body := f.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])

	f.signupAndLogin(t, "john_doe", "john@example.com", "Passw0rd")

	req, err := http.NewRequest(http.MethodGet, f.srv.URL+"/metrics", nil)
	require.NoError(t, err)
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	raw, err := io.ReadAll(resp2.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "postboard_logins_total")
	assert.Contains(t, string(raw), "postboard_http_requests_total")
}
