package auth

import (
	"github.com/mbelyaev/postboard/internal/common"
)

// AuthContext is the immutable per-request identity. It is either anonymous
// or carries the authenticated identity; it is built once per request and
// never mutated afterwards.
type AuthContext struct {
	identity *Identity
}

// Anonymous returns the unauthenticated context.
func Anonymous() AuthContext {
	return AuthContext{}
}

// Authenticated returns a context carrying the given identity.
func Authenticated(identity Identity) AuthContext {
	return AuthContext{identity: &identity}
}

// Identity returns the authenticated identity, or ok=false when anonymous.
func (c AuthContext) Identity() (Identity, bool) {
	if c.identity == nil {
		return Identity{}, false
	}
	return *c.identity, true
}

// IsAuthenticated reports whether the context carries an identity.
func (c AuthContext) IsAuthenticated() bool {
	return c.identity != nil
}

// ContextResolver turns the raw bearer credential extracted by the transport
// into an AuthContext.
type ContextResolver struct {
	tokens *TokenService
}

func NewContextResolver(tokens *TokenService) *ContextResolver {
	return &ContextResolver{tokens: tokens}
}

// Resolve returns the anonymous context for an empty credential. A present
// credential must verify; a caller who supplied a bad token gets a hard
// authentication failure, never a silent fallback to anonymous.
func (r *ContextResolver) Resolve(credential string) (AuthContext, error) {
	if credential == "" {
		return Anonymous(), nil
	}

	identity, err := r.tokens.Verify(credential)
	if err != nil {
		return AuthContext{}, common.NewError(common.ErrorAuthentication, "Invalid token")
	}

	return Authenticated(identity), nil
}

// RequireAuthenticated returns the acting identity or an authentication
// failure. Every mutation that creates or touches a resource goes through
// this first.
func RequireAuthenticated(ctx AuthContext) (Identity, error) {
	identity, ok := ctx.Identity()
	if !ok {
		return Identity{}, common.NewError(common.ErrorAuthentication, "Authentication required")
	}
	return identity, nil
}

// RequireOwner checks that the acting identity owns the resource. Ownership
// is the sole authorization predicate; there is no admin override.
func RequireOwner(ctx AuthContext, resourceOwnerID string) error {
	identity, err := RequireAuthenticated(ctx)
	if err != nil {
		return err
	}
	if identity.ID != resourceOwnerID {
		return common.NewError(common.ErrorAuthorization, "Not authorized")
	}
	return nil
}
