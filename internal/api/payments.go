package api

import (
	"net/http"

	"petcare-store/internal/apperr"
	"petcare-store/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var paymentMessages = map[string]string{
	"amount": "Amount must be a positive number",
}

func (h *Handler) createPaymentOrder(c *gin.Context) {
	var req service.CreatePaymentOrderRequest
	if !h.bindJSON(c, &req, paymentMessages) {
		return
	}

	order, err := h.payments.CreatePaymentOrder(c.Request.Context(), req)
	if err != nil {
		if apperr.Is(err, apperr.KindInternal) {
			h.logger.Error("Failed to create payment order", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Failed to create payment order",
			})
			return
		}
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"order":   order,
	})
}

func (h *Handler) verifyPayment(c *gin.Context) {
	var req service.VerifyPaymentRequest
	if !h.bindJSON(c, &req, nil) {
		return
	}

	err := h.payments.VerifyPayment(c.Request.Context(), req)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Payment verified successfully",
		})
	case apperr.Is(err, apperr.KindInternal):
		h.logger.Error("Payment verification failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Payment verification failed",
		})
	default:
		h.writeError(c, err)
	}
}

func (h *Handler) paymentMethods(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"methods": h.payments.PaymentMethods(),
	})
}
