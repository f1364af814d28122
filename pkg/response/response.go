package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alterlapsus/auth-api/pkg/validation"
)

// Thin JSON response helpers. Error bodies follow the public contract:
// field-level failures as {"errors":[{field,message},...]}, everything else
// as {"message": "..."}.

func OK(c *gin.Context, message string, data gin.H) {
	body := gin.H{"message": message}
	for k, v := range data {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

func Message(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

func FieldErrors(c *gin.Context, status int, errs []validation.FieldError) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"errors": errs})
}
