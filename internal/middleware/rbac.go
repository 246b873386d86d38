package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/chgu-campus/dorm-api/internal/models"
	appErrors "github.com/chgu-campus/dorm-api/pkg/errors"
	"github.com/chgu-campus/dorm-api/pkg/response"
)

// RequireRoles enforces role-based access for routes. It must run
// after JWT so the claims are already resolved; an authenticated user
// with a mismatched role is rejected, never silently downgraded.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims := claimsValue.(*models.JWTClaims)

		if _, ok := allowed[claims.Role]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
