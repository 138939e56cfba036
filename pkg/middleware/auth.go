package middleware

import (
	"strings"

	"taskrewards-platform/pkg/errutil"
	"taskrewards-platform/pkg/token"

	"github.com/gin-gonic/gin"
)

const claimsKey = "auth.claims"

// Auth guards routes with bearer-token verification and the admin claim.
type Auth struct {
	tokens *token.Manager
}

func NewAuth(tokens *token.Manager) *Auth {
	return &Auth{tokens: tokens}
}

// Required verifies the Authorization header and stores claims on the context.
func (a *Auth) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(401, gin.H{"error": "Missing Authorization header"})
			return
		}

		raw := strings.TrimPrefix(header, "Bearer ")
		claims, err := a.tokens.Verify(raw)
		if err != nil {
			c.AbortWithStatusJSON(401, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// AdminOnly must run after Required.
func (a *Auth) AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := ClaimsFrom(c)
		if claims == nil || !claims.IsAdmin {
			c.AbortWithStatusJSON(403, gin.H{"error": "Admin only"})
			return
		}
		c.Next()
	}
}

func ClaimsFrom(c *gin.Context) *token.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*token.Claims)
	return claims
}

// Abort is a helper for handlers: records the error for the Error middleware
// and stops the chain.
func Abort(c *gin.Context, err error) {
	if _, ok := err.(errutil.BaseError); !ok {
		err = errutil.Internal("Request failed", err)
	}
	_ = c.Error(err)
	c.Abort()
}
