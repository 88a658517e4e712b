package api

import (
	"errors"
	"net/http"

	"gnatwriter/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	errCodeBadRequest      = "BAD_REQUEST"
	errCodeValidation      = "VALIDATION_ERROR"
	errCodeNotFound        = "NOT_FOUND"
	errCodeConflict        = "CONFLICT"
	errCodeContextOverflow = "CONTEXT_OVERFLOW"
	errCodeModel           = "MODEL_ERROR"
	errCodeDispatch        = "DISPATCH_ERROR"
	errCodeUnauthorized    = "UNAUTHORIZED"
	errCodeInternal        = "INTERNAL_ERROR"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func handleServiceError(c *gin.Context, err error) {
	var statusCode int
	var errResp errorResponse

	switch {
	case errors.Is(err, models.ErrValidation):
		statusCode = http.StatusBadRequest
		errResp = errorResponse{Code: errCodeValidation, Message: err.Error()}
	case errors.Is(err, models.ErrNotFound):
		statusCode = http.StatusNotFound
		errResp = errorResponse{Code: errCodeNotFound, Message: err.Error()}
	case errors.Is(err, models.ErrConflict):
		statusCode = http.StatusConflict
		errResp = errorResponse{Code: errCodeConflict, Message: err.Error()}
	case errors.Is(err, models.ErrContextOverflow):
		statusCode = http.StatusRequestEntityTooLarge
		errResp = errorResponse{Code: errCodeContextOverflow, Message: err.Error()}
	case errors.Is(err, models.ErrModel):
		statusCode = http.StatusBadGateway
		errResp = errorResponse{Code: errCodeModel, Message: err.Error()}
	case errors.Is(err, models.ErrDispatch):
		statusCode = http.StatusServiceUnavailable
		errResp = errorResponse{Code: errCodeDispatch, Message: err.Error()}
	default:
		zap.L().Error("Unhandled internal error", zap.Error(err))
		statusCode = http.StatusInternalServerError
		errResp = errorResponse{Code: errCodeInternal, Message: "An unexpected internal error occurred"}
	}

	c.AbortWithStatusJSON(statusCode, errResp)
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Code: errCodeBadRequest, Message: msg})
}
