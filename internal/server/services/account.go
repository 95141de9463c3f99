// Package services contains server-side business logic. This file implements
// AccountService, which handles signup, login, token refresh, and user
// self-service (profile update, password change, account deletion).
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mbelyaev/postboard/internal/common"
	"github.com/mbelyaev/postboard/internal/server/auth"
	"github.com/mbelyaev/postboard/internal/server/config"
	"github.com/mbelyaev/postboard/internal/server/models"
	"github.com/mbelyaev/postboard/internal/server/repositories/repomanager"
	"github.com/mbelyaev/postboard/internal/server/repositories/users"
)

// Allows letters, numbers, and underscores, 3 to 12 characters.
var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,12}$`)

// Basic email shape validation.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+`)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// LoginResult is what a successful login returns: both tokens plus the user
// record.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
}

// AccountService provides account lifecycle operations:
//   - Signup: validate and create users
//   - Login: verify credentials and mint tokens
//   - Refresh: verify a refresh token and mint a new pair
//   - UpdateProfile / ChangePassword / DeleteAccount: self-service mutations
type AccountService struct {
	db               *sql.DB
	repos            repomanager.RepositoryManager
	passwords        *auth.PasswordService
	tokens           *auth.TokenService
	enforceOwnership bool
}

// NewAccountService constructs an AccountService using repositories, the
// identity layer, and server config.
func NewAccountService(db *sql.DB, repos repomanager.RepositoryManager, passwords *auth.PasswordService, tokens *auth.TokenService, cfg *config.Config) *AccountService {
	return &AccountService{
		db:               db,
		repos:            repos,
		passwords:        passwords,
		tokens:           tokens,
		enforceOwnership: cfg.EnforceOwnership,
	}
}

// Signup validates the input, checks uniqueness, hashes the password, and
// persists the new user. All invalid/missing fields are reported in a single
// validation message.
func (s *AccountService) Signup(ctx context.Context, username, email, password string) (*models.User, error) {
	if err := validateSignupInput(username, email, password); err != nil {
		return nil, err
	}

	repo := s.repos.Users(s.db)

	// Pre-check is advisory only: the unique constraints in storage remain
	// the source of truth for concurrent signups.
	_, err := repo.FindByUsernameOrEmail(ctx, username, email)
	if err == nil {
		return nil, common.NewError(common.ErrorConflict, "User already exists")
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("%w: %v", common.ErrorPersistence, err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user, err := repo.Create(ctx, &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.ErrorConflict, "User already exists")
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorPersistence, err)
	}

	return user, nil
}

func validateSignupInput(username, email, password string) error {
	missing := []string{}
	if strings.TrimSpace(username) == "" {
		missing = append(missing, "Username")
	}
	if strings.TrimSpace(email) == "" {
		missing = append(missing, "Email")
	}
	if strings.TrimSpace(password) == "" {
		missing = append(missing, "Password")
	}
	if len(missing) > 0 {
		if len(missing) == 1 {
			return common.NewError(common.ErrorValidation, missing[0]+" is required")
		}
		return common.NewError(common.ErrorValidation, strings.Join(missing, ", ")+" are required")
	}

	if !usernameRegex.MatchString(username) {
		return common.NewError(common.ErrorValidation, "Invalid username")
	}
	if !emailRegex.MatchString(email) {
		return common.NewError(common.ErrorValidation, "Invalid email address")
	}
	if !validPassword(password) {
		return common.NewError(common.ErrorValidation, "Invalid password")
	}

	return nil
}

// validPassword requires 8 to 15 characters with at least one lowercase
// letter, one uppercase letter, and one digit; special characters @$!%*?&
// are allowed.
func validPassword(password string) bool {
	if len(password) < 8 || len(password) > 15 {
		return false
	}
	var lower, upper, digit bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune("@$!%*?&", r):
		default:
			return false
		}
	}
	return lower && upper && digit
}

// Login verifies the credentials and, on success, returns both tokens plus
// the user. Unknown usernames and wrong passwords are indistinguishable to
// the caller.
func (s *AccountService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	missing := []string{}
	if strings.TrimSpace(username) == "" {
		missing = append(missing, "Username")
	}
	if strings.TrimSpace(password) == "" {
		missing = append(missing, "Password")
	}
	if len(missing) == 1 {
		return nil, common.NewError(common.ErrorValidation, missing[0]+" is required")
	}
	if len(missing) > 1 {
		return nil, common.NewError(common.ErrorValidation, strings.Join(missing, " and ")+" are required")
	}

	user, err := s.repos.Users(s.db).FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewError(common.ErrorAuthentication, "Invalid login credentials")
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorPersistence, err)
	}

	ok, err := s.passwords.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if !ok {
		return nil, common.NewError(common.ErrorAuthentication, "Invalid login credentials")
	}

	pair, err := s.issueTokenPair(user)
	if err != nil {
		return nil, err
	}

	return &LoginResult{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken, User: user}, nil
}

// Refresh verifies a refresh token and mints a fresh pair for the same user.
// The user record is re-read so rotated claims reflect the current profile.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	identity, err := s.tokens.Verify(refreshToken)
	if err != nil {
		return nil, common.NewError(common.ErrorAuthentication, "Invalid token")
	}

	user, err := s.repos.Users(s.db).FindByID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewError(common.ErrorAuthentication, "Invalid token")
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorPersistence, err)
	}

	return s.issueTokenPair(user)
}

// UpdateProfile applies a partial update: only supplied fields change.
func (s *AccountService) UpdateProfile(ctx context.Context, actor auth.AuthContext, id string, update users.ProfileUpdate) (*models.User, error) {
	if err := s.authorizeSelf(actor, id); err != nil {
		return nil, err
	}

	user, err := s.repos.Users(s.db).Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewError(common.ErrorNotFound, "User not found")
		}
		if isUniqueViolation(err) {
			return nil, common.NewError(common.ErrorConflict, "User already exists")
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorPersistence, err)
	}

	return user, nil
}

// ChangePassword re-hashes and stores the new password.
func (s *AccountService) ChangePassword(ctx context.Context, actor auth.AuthContext, id, newPassword string) error {
	if err := s.authorizeSelf(actor, id); err != nil {
		return err
	}

	if strings.TrimSpace(newPassword) == "" {
		return common.NewError(common.ErrorValidation, "New password cannot be empty")
	}

	hash, err := s.passwords.Hash(newPassword)
	if err != nil {
		return common.ErrorInternal
	}

	if err := s.repos.Users(s.db).UpdatePassword(ctx, id, hash); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.NewError(common.ErrorNotFound, "User not found")
		}
		return fmt.Errorf("%w: %v", common.ErrorPersistence, err)
	}

	return nil
}

// DeleteAccount removes the user record. Cascading removal of owned content
// is a storage concern; nothing here assumes the cascade exists.
func (s *AccountService) DeleteAccount(ctx context.Context, actor auth.AuthContext, id string) error {
	if err := s.authorizeSelf(actor, id); err != nil {
		return err
	}

	if err := s.repos.Users(s.db).Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.NewError(common.ErrorNotFound, "User not found")
		}
		return fmt.Errorf("%w: %v", common.ErrorPersistence, err)
	}

	return nil
}

// authorizeSelf gates the user self-service mutations. With ownership
// enforcement off, any caller may act on any id (legacy behavior).
func (s *AccountService) authorizeSelf(actor auth.AuthContext, id string) error {
	if !s.enforceOwnership {
		return nil
	}
	return auth.RequireOwner(actor, id)
}

func (s *AccountService) issueTokenPair(user *models.User) (*TokenPair, error) {
	identity := auth.Identity{ID: user.ID, Username: user.Username, Email: user.Email}

	access, err := s.tokens.IssueAccessToken(identity)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := s.tokens.IssueRefreshToken(identity)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
