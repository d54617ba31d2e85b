package middleware

import (
	"net/http"
	"strings"

	"github.com/Domenick1991/dirabasi/internal/auth"
	"github.com/Domenick1991/dirabasi/internal/domain"
	"github.com/gin-gonic/gin"
)

const (
	sessionIDKey = "session_id"
	roleKey      = "role"
)

// Auth requires a valid bearer token and stores its session id and role on the context.
func Auth(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := tokens.Parse(strings.TrimSpace(raw))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(sessionIDKey, claims.SessionID)
		c.Set(roleKey, claims.Role)
		c.Next()
	}
}

// RequireRole lets through only the given roles; Auth must run first.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetRole(c)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden for role " + string(role)})
	}
}

func GetSessionID(c *gin.Context) string {
	if v, ok := c.Get(sessionIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func GetRole(c *gin.Context) domain.Role {
	if v, ok := c.Get(roleKey); ok {
		if r, ok := v.(domain.Role); ok {
			return r
		}
	}
	return ""
}

// SetSession is used by handlers and tests that authenticate without a token.
func SetSession(c *gin.Context, sid string, role domain.Role) {
	c.Set(sessionIDKey, sid)
	c.Set(roleKey, role)
}
