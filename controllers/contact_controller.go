package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princinho/portfoliobackend/dto"
	"github.com/princinho/portfoliobackend/models"
	"github.com/princinho/portfoliobackend/services"
	"github.com/princinho/portfoliobackend/utils"
)

const statsDays = 30

// POST /contact
func SubmitContact(inbox *services.Inbox) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.CreateContactDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			utils.Error(c, http.StatusBadRequest, "Please provide name, email and message")
			return
		}
		msg, err := inbox.Submit(c.Request.Context(), services.Submission{
			Name:      body.Name,
			Email:     body.Email,
			Message:   body.Message,
			IPAddress: c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})
		if err != nil {
			respondError(c, err)
			return
		}
		utils.Success(c, http.StatusCreated, "Thank you for your message! I will get back to you soon.", gin.H{
			"id":        msg.ID,
			"name":      msg.Name,
			"email":     msg.Email,
			"createdAt": msg.CreatedAt,
		})
	}
}

// GET /contact?status=&page=&limit=
func GetContacts(inbox *services.Inbox) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, err := services.ParseStatus(c.Query("status"))
		if err != nil {
			respondError(c, err)
			return
		}
		page, err := inbox.List(c.Request.Context(), services.ListQuery{
			Status: status,
			Page:   utils.ParseIntDefault(c.Query("page"), 1),
			Limit:  utils.ParseIntDefault(c.Query("limit"), services.DefaultPageSize),
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"count":   len(page.Messages),
			"total":   page.Total,
			"pagination": gin.H{
				"page":  page.Page,
				"limit": page.Limit,
				"pages": page.Pages,
			},
			"data": page.Messages,
		})
	}
}

// GET /contact/stats
func GetContactStats(inbox *services.Inbox) gin.HandlerFunc {
	return func(c *gin.Context) {
		days := utils.ParseIntDefault(c.Query("days"), statsDays)
		if days < 1 {
			days = statsDays
		}
		stats, err := inbox.Stats(c.Request.Context(), days)
		if err != nil {
			respondError(c, err)
			return
		}
		utils.Success(c, http.StatusOK, "", stats)
	}
}

// GET /contact/:id
func GetContact(inbox *services.Inbox) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "message")
		if !ok {
			return
		}
		msg, err := inbox.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		utils.Success(c, http.StatusOK, "", msg)
	}
}

// PUT /contact/:id/status
func UpdateContactStatus(inbox *services.Inbox) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "message")
		if !ok {
			return
		}
		var body dto.UpdateContactStatusDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			bindError(c, err)
			return
		}
		msg, err := inbox.SetStatus(c.Request.Context(), id, models.MessageStatus(body.Status))
		if err != nil {
			respondError(c, err)
			return
		}
		utils.Success(c, http.StatusOK, "Status updated successfully", msg)
	}
}

// DELETE /contact/:id
func DeleteContact(inbox *services.Inbox) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "message")
		if !ok {
			return
		}
		if err := inbox.Delete(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		utils.Success(c, http.StatusOK, "Message deleted successfully", gin.H{})
	}
}
