package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princinho/portfoliobackend/dto"
	"github.com/princinho/portfoliobackend/middleware"
	"github.com/princinho/portfoliobackend/models"
	"github.com/princinho/portfoliobackend/services"
	"github.com/princinho/portfoliobackend/utils"
)

func adminView(a *models.Admin) gin.H {
	return gin.H{
		"id":        a.ID,
		"name":      a.Name,
		"email":     a.Email,
		"role":      a.Role,
		"lastLogin": a.LastLogin,
	}
}

// POST /auth/login
func Login(credentials *services.Credentials, sessions *services.SessionIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.LoginDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			utils.Error(c, http.StatusBadRequest, "Please provide an email and password")
			return
		}

		admin, err := credentials.Verify(c.Request.Context(), body.Email, body.Password)
		if err != nil {
			respondError(c, err)
			return
		}

		token, err := sessions.Issue(admin.ID.Hex())
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"token":   token,
			"data":    adminView(admin),
		})
	}
}

// GET /auth/me
func GetMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		admin, ok := middleware.CurrentAdmin(c)
		if !ok {
			utils.Error(c, http.StatusUnauthorized, "Not authorized to access this route")
			return
		}
		utils.Success(c, http.StatusOK, "", admin)
	}
}

// PUT /auth/profile
func UpdateProfile(credentials *services.Credentials) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.UpdateProfileDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			bindError(c, err)
			return
		}
		id, _ := middleware.AdminID(c)

		admin, err := credentials.Update(c.Request.Context(), id, models.AdminUpdate{
			Name:  body.Name,
			Email: body.Email,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		utils.Success(c, http.StatusOK, "Profile updated successfully", admin)
	}
}

// PUT /auth/password
func ChangeMyPassword(credentials *services.Credentials) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.ChangeMyPasswordDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			bindError(c, err)
			return
		}
		id, _ := middleware.AdminID(c)

		if err := credentials.ChangePassword(c.Request.Context(), id, body.CurrentPassword, body.NewPassword); err != nil {
			respondError(c, err)
			return
		}
		utils.Success(c, http.StatusOK, "Password updated successfully", gin.H{})
	}
}
