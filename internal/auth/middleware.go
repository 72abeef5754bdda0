package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	apperrors "filemarket/internal/errors"

	"github.com/coreos/go-oidc/v3/oidc"
)

type UserContextKey string

const userContextKey UserContextKey = "user_id"

// RoleAdmin is the realm role allowed to resolve pending approvals.
const RoleAdmin = "admin"

// TokenVerifier is satisfied by *oidc.IDTokenVerifier.
type TokenVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (*oidc.IDToken, error)
}

// Authenticator holds the OIDC verification logic
type Authenticator struct {
	verifier TokenVerifier
}

// NewAuthenticator runs OIDC discovery against the issuer. Call this once in main.
func NewAuthenticator(ctx context.Context, issuerURL, clientID string) (*Authenticator, error) {
	// Hits {issuer}/.well-known/openid-configuration
	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, err
	}

	return &Authenticator{
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

// Middleware rejects requests without a valid bearer token and stores the
// caller's UserInfo in the request context.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawToken, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			apperrors.RespondError(w, r, apperrors.New(apperrors.ErrUnauthorized, "Missing or malformed Authorization header", nil))
			return
		}

		// Signature, expiry and audience. Keys are cached by the verifier.
		idToken, err := a.verifier.Verify(r.Context(), rawToken)
		if err != nil {
			slog.WarnContext(r.Context(), "Token verification failed", "error", err)
			apperrors.RespondError(w, r, apperrors.New(apperrors.ErrUnauthorized, "Invalid or expired token", err))
			return
		}

		var claims KeycloakClaims
		if err := idToken.Claims(&claims); err != nil {
			apperrors.RespondError(w, r, apperrors.New(apperrors.ErrInternal, "Failed to parse claims", err))
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), claims.UserInfo())))
	})
}

// RequireRole must run after Middleware.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := GetUserInfo(r.Context()); err != nil {
				apperrors.RespondError(w, r, apperrors.New(apperrors.ErrUnauthorized, "Authentication required", err))
				return
			}
			if !HasRole(r.Context(), role) {
				apperrors.RespondError(w, r, apperrors.New(apperrors.ErrForbidden, "You are not allowed to do that", nil))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}

// WithUser stores user in ctx.
func WithUser(ctx context.Context, user UserInfo) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserInfo retrieves the user data from context
func GetUserInfo(ctx context.Context) (UserInfo, error) {
	val := ctx.Value(userContextKey)
	if user, ok := val.(UserInfo); ok {
		return user, nil
	}
	return UserInfo{}, errors.New("no user found in context")
}

// GetUserID is a shortcut for just the subject
func GetUserID(ctx context.Context) (string, error) {
	user, err := GetUserInfo(ctx)
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

// HasRole checks if the user has a specific Keycloak Realm Role
func HasRole(ctx context.Context, role string) bool {
	user, err := GetUserInfo(ctx)
	if err != nil {
		return false
	}
	return slices.Contains(user.Roles, role)
}
