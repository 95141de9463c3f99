// Package auth implements the identity layer: signing and verifying JWTs,
// password hashing, and the per-request authentication context.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mbelyaev/postboard/internal/common"
)

// Identity is the claim set carried by access and refresh tokens.
type Identity struct {
	ID       string
	Username string
	Email    string
}

// Claims is the JWT payload for access and refresh tokens.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ResetClaims is the JWT payload for password-reset tokens. It carries only
// the user id.
type ResetClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
}

// TokenService signs and verifies tokens with an HS256 key injected at
// construction. It holds no other state.
type TokenService struct {
	secretKey  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	resetTTL   time.Duration
}

func NewTokenService(secretKey []byte, accessTTL, refreshTTL, resetTTL time.Duration) *TokenService {
	return &TokenService{
		secretKey:  secretKey,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		resetTTL:   resetTTL,
	}
}

// IssueAccessToken mints a short-lived token encoding the identity.
func (s *TokenService) IssueAccessToken(identity Identity) (string, error) {
	return s.sign(identity, s.accessTTL)
}

// IssueRefreshToken mints a long-lived token encoding the identity.
func (s *TokenService) IssueRefreshToken(identity Identity) (string, error) {
	return s.sign(identity, s.refreshTTL)
}

func (s *TokenService) sign(identity Identity, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID:   identity.ID,
		Username: identity.Username,
		Email:    identity.Email,
	})

	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify checks signature and expiry and returns the embedded identity.
// All failure modes (tampered, malformed, expired) collapse into the single
// ErrInvalidToken so the caller cannot distinguish them.
func (s *TokenService) Verify(tokenString string) (Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, common.ErrInvalidToken
	}

	return Identity{ID: claims.UserID, Username: claims.Username, Email: claims.Email}, nil
}

// IssueResetToken mints a single-purpose password-reset token for userID.
func (s *TokenService) IssueResetToken(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, ResetClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.resetTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// VerifyResetToken checks a reset token and returns the user id it was
// issued for.
func (s *TokenService) VerifyResetToken(tokenString string) (string, error) {
	claims := &ResetClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	})
	if err != nil || !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}
