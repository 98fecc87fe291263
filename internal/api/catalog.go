package api

import (
	"net/http"
	"strings"

	"petcare-store/internal/models"
	"petcare-store/internal/validation"

	"github.com/gin-gonic/gin"
)

func (h *Handler) createProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if !h.bindJSON(c, &req, validation.ProductMessages) {
		return
	}

	product, err := h.products.CreateProduct(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

// listProducts filters by ?category when it is set
func (h *Handler) listProducts(c *gin.Context) {
	category := models.Category(strings.TrimSpace(c.Query("category")))

	products, err := h.products.ListProducts(c.Request.Context(), category)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

func (h *Handler) getProduct(c *gin.Context) {
	product, err := h.products.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *Handler) listZones(c *gin.Context) {
	zones, err := h.shipping.ListZones(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, zones)
}

func (h *Handler) calculateShipping(c *gin.Context) {
	var req models.ShippingQuoteRequest
	if !h.bindJSON(c, &req, validation.ShippingMessages) {
		return
	}

	quote, err := h.shipping.Quote(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, quote)
}

func (h *Handler) registerUser(c *gin.Context) {
	var req models.RegisterUserRequest
	if !h.bindJSON(c, &req, validation.UserMessages) {
		return
	}

	user, err := h.users.Register(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}
