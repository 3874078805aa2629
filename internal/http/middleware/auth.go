// README: Firebase ID-token auth middleware and caller accessors.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tourvisto/internal/infra"
)

const (
	ctxKeyUID    = "auth.uid"
	ctxKeyRole   = "auth.role"
	ctxKeyClaims = "auth.claims"

	RoleAdmin = "admin"
)

// Auth verifies the Bearer token and stores the caller's uid, role claim and
// raw claims on the context. Any failure aborts with 401.
func Auth(verifier infra.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		token, err := verifier.VerifyIDToken(c.Request.Context(), strings.TrimSpace(raw))
		if err != nil || token == nil || token.UID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		role, _ := token.Claims["role"].(string)
		c.Set(ctxKeyUID, token.UID)
		c.Set(ctxKeyRole, role)
		c.Set(ctxKeyClaims, token.Claims)
		c.Next()
	}
}

// RequireRole rejects callers whose role claim differs from role. Must run after Auth.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CallerRole(c) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

func CallerUID(c *gin.Context) string {
	return c.GetString(ctxKeyUID)
}

func CallerRole(c *gin.Context) string {
	return c.GetString(ctxKeyRole)
}

// CallerClaim returns a string claim from the verified token, or "".
func CallerClaim(c *gin.Context, name string) string {
	v, ok := c.Get(ctxKeyClaims)
	if !ok {
		return ""
	}
	claims, _ := v.(map[string]interface{})
	s, _ := claims[name].(string)
	return s
}
