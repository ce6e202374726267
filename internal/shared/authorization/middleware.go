package authorization

import (
	"github.com/gin-gonic/gin"
)

// ContextKeyUserRole is set by the session middleware after resolving the user.
const ContextKeyUserRole = "user_role"

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString(ContextKeyUserRole)
		if userRole != string(RoleAdmin) {
			c.JSON(403, gin.H{
				"error": "admin access required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
