package api

import (
	"net/http"

	"petcare-store/internal/models"
	"petcare-store/internal/validation"

	"github.com/gin-gonic/gin"
)

func (h *Handler) createOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if !h.bindJSON(c, &req, validation.OrderMessages) {
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.orders.ListOrders(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (h *Handler) getOrder(c *gin.Context) {
	order, err := h.orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// payOrder records the payment result carried in the body
func (h *Handler) payOrder(c *gin.Context) {
	var req models.PayOrderRequest
	if !h.bindJSON(c, &req, nil) {
		return
	}

	order, err := h.orders.MarkPaid(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}
