package api

import (
	"net/http"

	"petcare-store/internal/apperr"
	"petcare-store/internal/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// writeError maps an application error onto its status code and body
func (h *Handler) writeError(c *gin.Context, err error) {
	appErr := apperr.From(err)

	switch appErr.Kind {
	case apperr.KindValidation:
		c.JSON(http.StatusBadRequest, gin.H{
			"message": appErr.Message,
			"errors":  appErr.Violations,
		})
	case apperr.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"message": appErr.Message})
	case apperr.KindConflict:
		c.JSON(http.StatusConflict, gin.H{"message": appErr.Message})
	case apperr.KindSignatureMismatch:
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": appErr.Message,
		})
	default:
		h.logger.Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": appErr.Message})
	}
}

// bindJSON decodes the body into dst, writing a validation error on failure
func (h *Handler) bindJSON(c *gin.Context, dst interface{}, messages validation.Messages) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.writeError(c, validation.DecodeError(err, messages))
		return false
	}
	return true
}
