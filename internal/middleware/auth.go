package middleware

import (
	"net/http"

	"lokapasar-be/internal/auth"
	"lokapasar-be/internal/utils"

	"github.com/gin-gonic/gin"
)

// Authenticate parses the session token when present and plants the user info
// into the request context. Routes that require a session use RequireAuth.
func Authenticate(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := auth.ExtractAccessToken(c)
		if tokenStr == "" {
			c.Next()
			return
		}

		claims, err := auth.ParseJWT(jwtSecret, tokenStr)
		if err != nil {
			c.Next()
			return
		}

		ctx := utils.SetUserContext(
			c.Request.Context(),
			claims.UserID,
			claims.Email,
			claims.Role,
			claims.StoreID,
		)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireAuth rejects requests without a valid session.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := utils.GetUserIDFromContext(c.Request.Context()); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

// RequireRole rejects authenticated callers whose role is not in the allow list.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := utils.GetUserRoleFromContext(c.Request.Context())
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	}
}
