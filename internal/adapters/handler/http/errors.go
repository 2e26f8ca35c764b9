package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-study-tracker/internal/core/domain"
	"github.com/comitanigiacomo/kanso-study-tracker/internal/core/services"
)

var validationErrors = []error{
	domain.ErrSubjectNameEmpty,
	domain.ErrSubjectNameTooLong,
	domain.ErrInvalidPdfCount,
	domain.ErrInvalidDate,
	domain.ErrInvalidSessionType,
	domain.ErrInvalidProgress,
	domain.ErrInvalidFraction,
	domain.ErrTaskTextEmpty,
	domain.ErrTaskTextTooLong,
	domain.ErrInvalidTaskURL,
	services.ErrInvalidMonth,
}

func isValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func handleError(c *gin.Context, err error) {
	switch {
	case isValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, domain.ErrSubjectNotFound) || errors.Is(err, domain.ErrTaskNotFound) || errors.Is(err, domain.ErrProgressNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})

	case errors.Is(err, domain.ErrTaskConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "task already exists"})

	case errors.Is(err, services.ErrStorageDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})

	default:
		log.Printf("[ERROR] Request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)

		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
