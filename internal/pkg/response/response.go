package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"studiobooking/internal/pkg/apperr"
	"studiobooking/internal/pkg/logger"
	pkgvalidator "studiobooking/internal/pkg/validator"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// BindError reports a request body or query that failed to bind or validate.
func BindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", pkgvalidator.Fields(verrs))
		return
	}
	Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
}

// FromError writes the envelope for a classified error. Internal errors are logged
// and their details are not exposed.
func FromError(c *gin.Context, err error) {
	e, ok := apperr.As(err)
	if !ok || e.Kind == apperr.KindInternal {
		logger.FromContext(c.Request.Context()).Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":      "INTERNAL_ERROR",
				"message":   "Internal server error",
				"retryable": true,
			},
		})
		return
	}
	if len(e.Details) > 0 {
		ErrorWithDetails(c, e.Kind.HTTPStatus(), e.Code, err.Error(), e.Details)
		return
	}
	Error(c, e.Kind.HTTPStatus(), e.Code, err.Error())
}

// PathUUID parses a uuid path parameter, writing a 400 when it is malformed.
func PathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		Error(c, http.StatusBadRequest, "INVALID_ID", "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
