package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/princinho/portfoliobackend/services"
	"github.com/princinho/portfoliobackend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// respondError maps service errors onto the HTTP error envelope. Unexpected
// errors are attached to the context for the request log and never leak.
func respondError(c *gin.Context, err error) {
	var verr *services.ValidationError
	var nf *services.NotFoundError
	switch {
	case errors.As(err, &verr):
		utils.Error(c, http.StatusBadRequest, verr.Error())
	case errors.Is(err, services.ErrDuplicateEmail):
		utils.Error(c, http.StatusBadRequest, "Email already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.Error(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, services.ErrTokenMissing),
		errors.Is(err, services.ErrTokenExpired),
		errors.Is(err, services.ErrTokenInvalid):
		utils.Error(c, http.StatusUnauthorized, "Not authorized to access this route")
	case errors.As(err, &nf):
		utils.Error(c, http.StatusNotFound, capitalize(nf.Error()))
	case errors.Is(err, services.ErrNotFound):
		utils.Error(c, http.StatusNotFound, "Not found")
	default:
		_ = c.Error(err)
		utils.Error(c, http.StatusInternalServerError, "Server Error")
	}
}

func bindError(c *gin.Context, err error) {
	utils.Error(c, http.StatusBadRequest, err.Error())
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func paramID(c *gin.Context, entity string) (bson.ObjectID, bool) {
	id, err := services.ParseID(entity, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return bson.ObjectID{}, false
	}
	return id, true
}
