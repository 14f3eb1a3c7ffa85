package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mcarreira/lingohub/internal/auth"
	"github.com/mcarreira/lingohub/internal/config"
	"github.com/mcarreira/lingohub/internal/domain/user"
	"github.com/mcarreira/lingohub/internal/observability"
)

// Keep these interfaces small so tests can fake them easily.
type TokenVerifier interface {
	VerifyAccessToken(token string) (*auth.Claims, error)
}

type UserLoader interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

type AuthMiddleware struct {
	jwt   TokenVerifier
	users UserLoader
	prom  *observability.Prom
}

func NewAuthMiddleware(jwt TokenVerifier, users UserLoader, prom *observability.Prom) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt, users: users, prom: prom}
}

func (m *AuthMiddleware) record(c *gin.Context, result string) {
	if m.prom == nil {
		return
	}

	endpoint := c.FullPath()
	if endpoint == "" {
		endpoint = c.Request.URL.Path
	}

	m.prom.AuthDecisions.WithLabelValues(endpoint, result).Inc()
}

// RequireAuth resolves the current identity before any handler logic runs:
// bearer token out of the Authorization header, signature + expiry check,
// then a user lookup by the token subject. Any miss is a 401; the messages
// differ for client diagnostics but the status never does.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			m.record(c, "unauthorized")
			abortUnauthorized(c, "Missing or invalid Authorization header")
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if raw == "" {
			m.record(c, "unauthorized")
			abortUnauthorized(c, "Missing or invalid access token")
			return
		}

		claims, err := m.jwt.VerifyAccessToken(raw)
		if err != nil {
			m.record(c, "unauthorized")

			if errors.Is(err, auth.ErrTokenExpired) {
				abortUnauthorized(c, "Token expired")
				return
			}

			abortUnauthorized(c, "Invalid token")
			return
		}

		cctx, cancel := config.WithTimeout(2 * time.Second)

		defer cancel()

		// token is valid but its subject may be gone; only a confirmed
		// missing user is unauthorized, a store failure is a 500
		u, err := m.users.GetByID(cctx, claims.Subject)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				m.record(c, "unauthorized")
				abortUnauthorized(c, "User not found")
				return
			}

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": gin.H{
					"code":    "internal_error",
					"message": "Could not resolve identity",
				},
			})
			return
		}

		m.record(c, "ok")
		SetCurrentUser(c, u)

		c.Next()
	}
}

// SetCurrentUser stashes the resolved identity on the request context.
// Handlers read it back through CurrentUser; tests use it to fake auth.
func SetCurrentUser(c *gin.Context, u user.User) {
	c.Set(ctxIdentityKey, u)
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    "unauthorized",
			"message": message,
		},
	})
}

// Helpers so handlers don't need to know the magic keys.

func CurrentUser(c *gin.Context) (user.User, bool) {
	v, ok := c.Get(ctxIdentityKey)
	if !ok {
		return user.User{}, false
	}
	u, ok := v.(user.User)
	return u, ok
}

func UserIDFromContext(c *gin.Context) (string, bool) {
	u, ok := CurrentUser(c)
	if !ok {
		return "", false
	}
	return u.ID, true
}

func RoleFromContext(c *gin.Context) (string, bool) {
	u, ok := CurrentUser(c)
	if !ok {
		return "", false
	}
	return u.Role, true
}
