package server

import (
	"net/http"

	"github.com/example/bookshop/pkg/gateway"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type createPaymentRequest struct {
	OrderID string `json:"order_id" binding:"required"`
	Gateway string `json:"gateway" binding:"required"`
	Phone   string `json:"phone"`
}

func (s *Server) createPayment(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusUnprocessableEntity, CodeValidationError, "invalid request body", err.Error())
		return
	}

	payment, gatewayResp, err := s.payments.CreatePayment(c.Request.Context(), req.Gateway, req.OrderID, gateway.ChargeOptions{
		Phone: req.Phone,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "payment created", gin.H{
		"payment":          payment,
		"gateway_response": gatewayResp,
	})
}

// paymentWebhook always acknowledges a syntactically valid delivery.
// Reconciliation failures are logged server-side; returning an error status
// would only put the provider into a retry loop that masks the real problem.
func (s *Server) paymentWebhook(c *gin.Context) {
	gatewayName := c.Param("gateway")

	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, "invalid webhook payload", err.Error())
		return
	}

	if err := s.payments.HandleWebhook(c.Request.Context(), gatewayName, payload); err != nil {
		s.logger.Error("Webhook processing failed",
			zap.String("gateway", gatewayName),
			zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "webhook processed for " + gatewayName,
	})
}
