package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/princinho/portfoliobackend/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	adminKey   = "admin"
	adminIDKey = "adminID"
	roleKey    = "role"
	emailKey   = "email"
)

func setIdentity(c *gin.Context, admin *models.Admin) {
	c.Set(adminKey, admin)
	c.Set(adminIDKey, admin.ID)
	c.Set(roleKey, admin.Role)
	c.Set(emailKey, admin.Email)
}

// CurrentAdmin returns the administrator admitted by AuthMiddleware.
func CurrentAdmin(c *gin.Context) (*models.Admin, bool) {
	v, ok := c.Get(adminKey)
	if !ok {
		return nil, false
	}
	admin, ok := v.(*models.Admin)
	return admin, ok
}

func AdminID(c *gin.Context) (bson.ObjectID, bool) {
	v, ok := c.Get(adminIDKey)
	if !ok {
		return bson.ObjectID{}, false
	}
	id, ok := v.(bson.ObjectID)
	return id, ok
}

func Role(c *gin.Context) models.Role {
	v, _ := c.Get(roleKey)
	role, _ := v.(models.Role)
	return role
}
