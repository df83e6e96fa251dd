package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/princinho/portfoliobackend/services"
	"github.com/princinho/portfoliobackend/utils"
)

const notAuthorized = "Not authorized to access this route"

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// AuthMiddleware admits requests carrying a valid bearer token whose subject
// is an existing, active administrator.
func AuthMiddleware(sessions *services.SessionIssuer, credentials *services.Credentials) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject, err := sessions.Validate(bearerToken(c))
		if err != nil {
			msg := notAuthorized
			if errors.Is(err, services.ErrTokenExpired) {
				msg = "Token expired"
			}
			utils.Abort(c, http.StatusUnauthorized, msg)
			return
		}

		id, err := services.ParseID("admin", subject)
		if err != nil {
			utils.Abort(c, http.StatusUnauthorized, notAuthorized)
			return
		}
		admin, err := credentials.Get(c.Request.Context(), id)
		switch {
		case errors.Is(err, services.ErrNotFound):
			utils.Abort(c, http.StatusUnauthorized, "Admin not found")
			return
		case err != nil:
			utils.Abort(c, http.StatusInternalServerError, "Server Error")
			return
		case !admin.IsActive:
			utils.Abort(c, http.StatusUnauthorized, "Account is deactivated")
			return
		}

		setIdentity(c, admin)
		c.Next()
	}
}
