package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"medibook/services/identity"
)

// Context keys set by the auth middleware.
const (
	CtxExternalID = "externalID"
	CtxUserName   = "userName"
	CtxUserEmail  = "userEmail"
)

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(authHeader, "Bearer ")
}

// RequireAuth rejects requests without a resolvable identity.
func RequireAuth(provider identity.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}

		id, err := provider.Resolve(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}

		c.Set(CtxExternalID, id.ExternalID)
		c.Set(CtxUserName, id.Name)
		c.Set(CtxUserEmail, id.Email)
		c.Next()
	}
}

// OptionalAuth resolves an identity when a token is present but lets
// anonymous callers through; read endpoints use it to compute isMine.
func OptionalAuth(provider identity.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if id, err := provider.Resolve(token); err == nil {
				c.Set(CtxExternalID, id.ExternalID)
				c.Set(CtxUserName, id.Name)
				c.Set(CtxUserEmail, id.Email)
			}
		}
		c.Next()
	}
}
