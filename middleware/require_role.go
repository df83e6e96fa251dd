package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/princinho/portfoliobackend/models"
	"github.com/princinho/portfoliobackend/utils"
)

// RequireRole must run after AuthMiddleware. It rejects callers whose role is
// not listed.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := Role(c)
		if !slices.Contains(roles, role) {
			utils.Abort(c, http.StatusForbidden, "Role "+string(role)+" is not authorized to access this route")
			return
		}
		c.Next()
	}
}
