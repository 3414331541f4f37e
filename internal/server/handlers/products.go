package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sowmensarker/ambika/internal/service/inventory"
)

// AddProduct handles POST /products.
func (h *Handler) AddProduct(c *gin.Context) {
	var input inventory.AddProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badBody(c)
		return
	}

	product, err := h.svc.Products.AddProduct(c.Request.Context(), input, IdentityFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": product})
}

// ListProducts handles GET /products.
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.svc.Products.ListProducts(c.Request.Context(), c.Query("range"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": products})
}

// Stock handles GET /stock.
func (h *Handler) Stock(c *gin.Context) {
	rows, err := h.svc.Products.Stock(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}
