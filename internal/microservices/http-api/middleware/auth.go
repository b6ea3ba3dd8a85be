package middleware

import (
	"errors"
	"net/http"
	"strings"

	"pinduca/internal/microservices/http-api/service"
	"pinduca/internal/policy"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// TokenValidator is satisfied by service.AuthService.
type TokenValidator interface {
	ValidateToken(tokenString string) (*service.Claims, error)
}

// AuthMiddleware is a Gin middleware for JWT authentication of API requests.
// It requires "Authorization: Bearer <token>" and stores the verified principal in the context.
func AuthMiddleware(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Extract token (format: "Bearer <token>")
		parts := strings.Fields(c.GetHeader("Authorization"))
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortWithError(c, http.StatusUnauthorized, service.ErrAuthRequired)
			return
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			if !errors.Is(err, service.ErrExpiredToken) {
				err = service.ErrInvalidToken
			}
			abortWithError(c, http.StatusUnauthorized, err)
			return
		}

		// Set principal in context for handlers to use
		c.Set(principalKey, claims.Principal())
		c.Next()
	}
}

// Principal returns the authenticated principal, or nil on public routes.
func Principal(c *gin.Context) *policy.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*policy.Principal)
	return p
}

// SetPrincipal is used by tests and internal tooling to act as a user.
func SetPrincipal(c *gin.Context, p *policy.Principal) {
	c.Set(principalKey, p)
}

// RequireAdmin must run after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := Principal(c)
		if p == nil {
			abortWithError(c, http.StatusUnauthorized, service.ErrAuthRequired)
			return
		}
		if !p.IsAdmin() {
			abortWithError(c, http.StatusForbidden, service.ErrAdminOnly)
			return
		}
		c.Next()
	}
}

func abortWithError(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, gin.H{"erro": err.Error()})
}
