package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"chapterquiz-server/models"
	"chapterquiz-server/service"
)

// statusFor maps service error kinds to HTTP codes. Conflicts are 400 because
// existing clients branch on that code for duplicate signups.
func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindBadRequest, service.KindConflict:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	var se *service.Error
	if errors.As(err, &se) {
		c.JSON(statusFor(se.Kind), models.ErrorResponse{Detail: se.Detail})
		return
	}
	log.Printf("Error handling %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{Detail: "Internal server error"})
}

func writeBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{Detail: fmt.Sprintf("Invalid request body: %v", err)})
}

func bulkMessage(n int) string {
	return fmt.Sprintf("Successfully uploaded %d quiz submissions", n)
}
