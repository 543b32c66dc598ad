// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/carterperez-dev/tournament-backend/internal/core"
)

const claimsKey contextKey = "access_claims"

const RoleAdmin = core.RoleAdmin

type TokenVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) (*AccessTokenClaims, error)
}

// AccessTokenClaims is what GET /api/me echoes back to the caller.
type AccessTokenClaims struct {
	UserID   int64  `json:"id"`
	Mail     string `json:"mail"`
	Nickname string `json:"nickname"`
	Role     string `json:"role"`
}

func (c *AccessTokenClaims) actor() core.Actor {
	if c == nil {
		return core.Actor{}
	}
	return core.Actor{ID: c.UserID, Role: c.Role}
}

// Authenticator rejects the request unless it carries a bearer token the
// verifier accepts. Expired and forged tokens get the same answer.
func Authenticator(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				core.JSONError(w, core.UnauthorizedError("missing authorization token"))
				return
			}

			claims, err := verifier.VerifyAccessToken(r.Context(), token)
			if err != nil {
				core.JSONError(w, core.TokenInvalidError())
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func WithClaims(ctx context.Context, claims *AccessTokenClaims) context.Context {
	recordUser(ctx, claims.UserID)
	return context.WithValue(ctx, claimsKey, claims)
}

func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := GetClaims(r.Context())
		switch {
		case claims == nil:
			core.JSONError(w, core.UnauthorizedError("authentication required"))
		case !claims.actor().IsAdmin():
			core.JSONError(w, core.ForbiddenError("insufficient permissions"))
		default:
			next.ServeHTTP(w, r)
		}
	})
}

func ExtractToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func GetClaims(ctx context.Context) *AccessTokenClaims {
	claims, _ := ctx.Value(claimsKey).(*AccessTokenClaims)
	return claims
}

// GetActor returns the zero Actor for anonymous requests.
func GetActor(ctx context.Context) core.Actor {
	return GetClaims(ctx).actor()
}
