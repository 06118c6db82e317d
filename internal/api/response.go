package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/vladimiradmaev/vitals-tracker/internal/errors"
	"github.com/vladimiradmaev/vitals-tracker/internal/logger"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// respondError maps err onto a status code. Only validation and not-found
// messages reach the client; anything else is reported generically.
func respondError(c *gin.Context, err error) {
	apperrors.NewHandler(logger.GetLogger()).Handle(c.Request.Context(), err)

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		c.JSON(http.StatusInternalServerError, ErrorEnvelope{Error: APIError{Message: "Internal server error", Code: "INTERNAL"}})
		return
	}

	switch appErr.Type {
	case apperrors.ErrorTypeValidation:
		c.JSON(http.StatusBadRequest, ErrorEnvelope{Error: APIError{Message: appErr.Message, Code: appErr.Code}})
	case apperrors.ErrorTypeNotFound:
		c.JSON(http.StatusNotFound, ErrorEnvelope{Error: APIError{Message: appErr.Message, Code: appErr.Code}})
	default:
		c.JSON(http.StatusInternalServerError, ErrorEnvelope{Error: APIError{Message: "Internal server error", Code: appErr.Code}})
	}
}

func respondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
