package handlers

import (
	"net/http"
	"updoot/internal/middleware"
	"updoot/internal/models"
	"updoot/internal/validate"

	"github.com/gin-gonic/gin"
)

// CurrentUser returns the session user loaded by middleware, or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, exists := c.Get(middleware.CheckUserKey); exists {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// fieldErrors writes the structured error shape shared by all endpoints.
func fieldErrors(c *gin.Context, code int, errs ...validate.FieldError) {
	c.JSON(code, gin.H{"errors": errs})
}

func serverError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"errors": []validate.FieldError{{Field: "server", Message: "Something went wrong"}},
	})
}
