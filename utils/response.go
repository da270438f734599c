package utils

import (
	"github.com/gin-gonic/gin"
)

// JSONResponse writes the standard success envelope: status, a
// human-readable message, and the payload under "data".
func JSONResponse(c *gin.Context, status int, data any, message string) {
	c.JSON(status, gin.H{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

// JSONError writes the standard error envelope. The message is the
// client-facing summary; the wrapped error detail goes under "error".
func JSONError(c *gin.Context, status int, err error, message string) {
	c.JSON(status, gin.H{
		"status":  status,
		"message": message,
		"error":   err.Error(),
	})
}
