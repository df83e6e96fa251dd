package utils

import (
	"github.com/gin-gonic/gin"
)

// Success writes the {success:true, data} envelope. message is omitted when
// empty.
func Success(c *gin.Context, status int, message string, data any) {
	resp := gin.H{"success": true, "data": data}
	if message != "" {
		resp["message"] = message
	}
	c.JSON(status, resp)
}

// Error writes the {success:false, error} envelope.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

// Abort writes the error envelope and stops the handler chain.
func Abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": message})
}
