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

// GET /admin/admins
func GetAdmins(credentials *services.Credentials) gin.HandlerFunc {
	return func(c *gin.Context) {
		admins, err := credentials.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		if admins == nil {
			admins = []models.Admin{}
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "count": len(admins), "data": admins})
	}
}

// POST /admin/admins
func CreateAdmin(credentials *services.Credentials) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.CreateAdminDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			bindError(c, err)
			return
		}

		admin, err := credentials.Create(c.Request.Context(), services.NewAdmin{
			Name:     body.Name,
			Email:    body.Email,
			Password: body.Password,
			Role:     models.Role(body.Role),
		})
		if err != nil {
			respondError(c, err)
			return
		}
		utils.Success(c, http.StatusCreated, "Admin created successfully", admin)
	}
}

// PUT /admin/admins/:id
func UpdateAdmin(credentials *services.Credentials) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "admin")
		if !ok {
			return
		}
		var body dto.UpdateAdminDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			bindError(c, err)
			return
		}

		update := models.AdminUpdate{
			Name:     body.Name,
			Email:    body.Email,
			Password: body.Password,
			IsActive: body.IsActive,
		}
		if body.Role != nil {
			role := models.Role(*body.Role)
			update.Role = &role
		}

		admin, err := credentials.Update(c.Request.Context(), id, update)
		if err != nil {
			respondError(c, err)
			return
		}
		utils.Success(c, http.StatusOK, "Admin updated successfully", admin)
	}
}

// DELETE /admin/admins/:id
func DeleteAdmin(credentials *services.Credentials) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "admin")
		if !ok {
			return
		}
		if self, _ := middleware.AdminID(c); self == id {
			utils.Error(c, http.StatusBadRequest, "You cannot delete your own account")
			return
		}

		if err := credentials.Delete(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		utils.Success(c, http.StatusOK, "Admin deleted successfully", gin.H{})
	}
}
