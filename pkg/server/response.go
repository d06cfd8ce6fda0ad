package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/example/bookshop/pkg/errs"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Error codes carried alongside HTTP status for machine consumers.
const (
	CodeNotFound          = "NOT_FOUND"
	CodeForbidden         = "FORBIDDEN"
	CodeUnauthenticated   = "UNAUTHENTICATED"
	CodeValidationError   = "VALIDATION_ERROR"
	CodeEmptyCart         = "EMPTY_CART"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeExceedsStock      = "EXCEEDS_STOCK"
	CodeAlreadyPaid       = "ALREADY_PAID"
	CodeUnknownGateway    = "UNKNOWN_GATEWAY"
	CodeGatewayFailure    = "GATEWAY_FAILURE"
	CodeInternal          = "INTERNAL_ERROR"
)

type responseMeta struct {
	Timestamp string `json:"timestamp"`
	RequestID string `json:"request_id"`
}

func meta(c *gin.Context) responseMeta {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	return responseMeta{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: requestID,
	}
}

func respondSuccess(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"message": message,
		"data":    data,
		"meta":    meta(c),
	})
}

func respondError(c *gin.Context, status int, code, message string, fieldErrors interface{}) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
		"code":    code,
		"errors":  fieldErrors,
		"meta":    meta(c),
	})
}

// respondServiceError maps the domain error taxonomy onto HTTP status and
// code. Gateway failures stay generic: provider detail never leaves the
// server.
func respondServiceError(c *gin.Context, err error) {
	if stockErr, ok := errs.IsInsufficientStock(err); ok {
		respondError(c, http.StatusConflict, CodeInsufficientStock, stockErr.Error(), nil)
		return
	}

	switch {
	case errors.Is(err, errs.ErrEmptyCart):
		respondError(c, http.StatusNotFound, CodeEmptyCart, "cart is empty", nil)
	case errors.Is(err, errs.ErrNotFound):
		respondError(c, http.StatusNotFound, CodeNotFound, "resource not found", nil)
	case errors.Is(err, errs.ErrForbidden):
		respondError(c, http.StatusForbidden, CodeForbidden, "you do not have access to this resource", nil)
	case errors.Is(err, errs.ErrExceedsStock):
		respondError(c, http.StatusConflict, CodeExceedsStock, err.Error(), nil)
	case errors.Is(err, errs.ErrAlreadyPaid):
		respondError(c, http.StatusConflict, CodeAlreadyPaid, "order is already paid", nil)
	case errors.Is(err, errs.ErrUnknownGateway):
		respondError(c, http.StatusBadRequest, CodeUnknownGateway, "payment gateway is not available", nil)
	case errors.Is(err, errs.ErrGatewayFailure):
		respondError(c, http.StatusInternalServerError, CodeGatewayFailure, "failed to create payment, please try again later", nil)
	default:
		respondError(c, http.StatusInternalServerError, CodeInternal, "internal server error", nil)
	}
}
