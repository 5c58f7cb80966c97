package middleware

import (
	"net/http"

	"github.com/adelie22/Artivora/internal/user"

	"github.com/gin-gonic/gin"
)

// GinRequireAdmin gates catalog mutations on the single role flag.
// Must run after GinRequireAuth so the user id is in context.
func GinRequireAdmin(users *user.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserIDFromContext(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "unauthorized",
			})
			return
		}

		u, err := users.GetByID(c.Request.Context(), userID)
		if err != nil || !u.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "admin role required",
			})
			return
		}

		c.Next()
	}
}
