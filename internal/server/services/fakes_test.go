package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mbelyaev/postboard/internal/common"
	"github.com/mbelyaev/postboard/internal/dbx"
	"github.com/mbelyaev/postboard/internal/server/models"
	commentsrepo "github.com/mbelyaev/postboard/internal/server/repositories/comments"
	postsrepo "github.com/mbelyaev/postboard/internal/server/repositories/posts"
	repliesrepo "github.com/mbelyaev/postboard/internal/server/repositories/replies"
	resettokensrepo "github.com/mbelyaev/postboard/internal/server/repositories/resettokens"
	usersrepo "github.com/mbelyaev/postboard/internal/server/repositories/users"
)

// --- in-memory fakes, shared by the service tests ---

type fakeUsersRepo struct {
	byID map[string]*models.User

	createErr error
	findErr   error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[string]*models.User{}}
}

func (f *fakeUsersRepo) add(u *models.User) *models.User {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	u.CreatedAt = time.Now()
	f.byID[u.ID] = u
	return u
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.add(u), nil
}

func (f *fakeUsersRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.byID {
		if u.Username == username || u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) FindAll(ctx context.Context) ([]*models.User, error) {
	result := []*models.User{}
	for _, u := range f.byID {
		result = append(result, u)
	}
	return result, nil
}

func (f *fakeUsersRepo) Update(ctx context.Context, id string, update usersrepo.ProfileUpdate) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if update.Username != nil {
		u.Username = *update.Username
	}
	if update.Email != nil {
		u.Email = *update.Email
	}
	return u, nil
}

func (f *fakeUsersRepo) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	u, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (f *fakeUsersRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakePostsRepo struct {
	posts []*models.Post

	createErr error
}

func (f *fakePostsRepo) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.CreatedAt = time.Now()
	f.posts = append(f.posts, p)
	return p, nil
}

func (f *fakePostsRepo) FindByID(ctx context.Context, id string) (*models.Post, error) {
	for _, p := range f.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakePostsRepo) FindAll(ctx context.Context) ([]*models.Post, error) {
	return append([]*models.Post{}, f.posts...), nil
}

func (f *fakePostsRepo) FindByAuthor(ctx context.Context, authorID string) ([]*models.Post, error) {
	result := []*models.Post{}
	for _, p := range f.posts {
		if p.AuthorID == authorID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (f *fakePostsRepo) Delete(ctx context.Context, id string) error {
	for i, p := range f.posts {
		if p.ID == id {
			f.posts = append(f.posts[:i], f.posts[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

type fakeCommentsRepo struct {
	comments []*models.Comment
}

func (f *fakeCommentsRepo) Create(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	c.CreatedAt = time.Now()
	f.comments = append(f.comments, c)
	return c, nil
}

func (f *fakeCommentsRepo) FindByID(ctx context.Context, id string) (*models.Comment, error) {
	for _, c := range f.comments {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeCommentsRepo) FindAll(ctx context.Context) ([]*models.Comment, error) {
	return append([]*models.Comment{}, f.comments...), nil
}

func (f *fakeCommentsRepo) FindByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	result := []*models.Comment{}
	for _, c := range f.comments {
		if c.PostID == postID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (f *fakeCommentsRepo) Delete(ctx context.Context, id string) error {
	for i, c := range f.comments {
		if c.ID == id {
			f.comments = append(f.comments[:i], f.comments[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

type fakeRepliesRepo struct {
	replies []*models.Reply
}

func (f *fakeRepliesRepo) Create(ctx context.Context, r *models.Reply) (*models.Reply, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	r.CreatedAt = time.Now()
	f.replies = append(f.replies, r)
	return r, nil
}

func (f *fakeRepliesRepo) FindByID(ctx context.Context, id string) (*models.Reply, error) {
	for _, r := range f.replies {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeRepliesRepo) FindAll(ctx context.Context) ([]*models.Reply, error) {
	return append([]*models.Reply{}, f.replies...), nil
}

func (f *fakeRepliesRepo) FindByComment(ctx context.Context, commentID string) ([]*models.Reply, error) {
	result := []*models.Reply{}
	for _, r := range f.replies {
		if r.CommentID == commentID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (f *fakeRepliesRepo) Delete(ctx context.Context, id string) error {
	for i, r := range f.replies {
		if r.ID == id {
			f.replies = append(f.replies[:i], f.replies[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

type fakeResetTokensRepo struct {
	byToken map[string]*models.ResetToken

	createErr error
	deleteErr error
}

func newFakeResetTokensRepo() *fakeResetTokensRepo {
	return &fakeResetTokensRepo{byToken: map[string]*models.ResetToken{}}
}

func (f *fakeResetTokensRepo) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.byToken[token] = &models.ResetToken{
		ID:             uuid.New().String(),
		UserID:         userID,
		Token:          token,
		ExpirationDate: time.Now().Add(validity),
		CreatedAt:      time.Now(),
	}
	return nil
}

func (f *fakeResetTokensRepo) Find(ctx context.Context, token string) (*models.ResetToken, error) {
	if rt, ok := f.byToken[token]; ok {
		return rt, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeResetTokensRepo) Delete(ctx context.Context, token string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.byToken, token)
	return nil
}

func (f *fakeResetTokensRepo) DeleteForUser(ctx context.Context, userID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for token, rt := range f.byToken {
		if rt.UserID == userID {
			delete(f.byToken, token)
		}
	}
	return nil
}

type fakeRepoManager struct {
	u  *fakeUsersRepo
	p  *fakePostsRepo
	c  *fakeCommentsRepo
	r  *fakeRepliesRepo
	rt *fakeResetTokensRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		u:  newFakeUsersRepo(),
		p:  &fakePostsRepo{},
		c:  &fakeCommentsRepo{},
		r:  &fakeRepliesRepo{},
		rt: newFakeResetTokensRepo(),
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error       { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository             { return m.u }
func (m *fakeRepoManager) Posts(db dbx.DBTX) postsrepo.Repository             { return m.p }
func (m *fakeRepoManager) Comments(db dbx.DBTX) commentsrepo.Repository       { return m.c }
func (m *fakeRepoManager) Replies(db dbx.DBTX) repliesrepo.Repository         { return m.r }
func (m *fakeRepoManager) ResetTokens(db dbx.DBTX) resettokensrepo.Repository { return m.rt }

type fakeMailer struct {
	to      []string
	subject []string
	body    []string

	sendErr error
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, body string) error {
	if f.sendErr != nil {
		return fmt.Errorf("%w: smtp unreachable", common.ErrorDelivery)
	}
	f.to = append(f.to, to)
	f.subject = append(f.subject, subject)
	f.body = append(f.body, body)
	return nil
}
