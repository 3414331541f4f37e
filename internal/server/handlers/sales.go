package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sowmensarker/ambika/internal/domain/models"
	"github.com/sowmensarker/ambika/internal/service/reporting"
	"github.com/sowmensarker/ambika/internal/service/sales"
)

type repayRequest struct {
	BuyerName  string  `json:"buyer_name"`
	BuyerPhone string  `json:"buyer_phoneNo"`
	Amount     float64 `json:"amount"`
}

// CreateSale handles POST /sales.
func (h *Handler) CreateSale(c *gin.Context) {
	var input sales.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badBody(c)
		return
	}

	sale, err := h.svc.Sales.CreateSale(c.Request.Context(), input, IdentityFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": sale})
}

// ListSales handles GET /sales.
func (h *Handler) ListSales(c *gin.Context) {
	filter := sales.Filter{
		Status: models.SaleStatus(c.Query("status")),
		Search: c.Query("search"),
	}
	list, err := h.svc.Sales.List(c.Request.Context(), c.Query("range"), filter)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

// ExportSales handles GET /sales/export with the same filters as ListSales.
func (h *Handler) ExportSales(c *gin.Context) {
	filter := sales.Filter{
		Status: models.SaleStatus(c.Query("status")),
		Search: c.Query("search"),
	}
	list, err := h.svc.Sales.List(c.Request.Context(), c.Query("range"), filter)
	if err != nil {
		h.fail(c, err)
		return
	}

	var buf bytes.Buffer
	if err := reporting.WriteSalesXLSX(&buf, list); err != nil {
		h.logger.Error("sales export failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to build export"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "sales.xlsx"))
	c.Data(http.StatusOK, reporting.XLSXContentType, buf.Bytes())
}

// GetSale handles GET /sales/:id.
func (h *Handler) GetSale(c *gin.Context) {
	id, ok := saleID(c)
	if !ok {
		return
	}
	sale, err := h.svc.Sales.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sale})
}

// Repay handles POST /sales/:id/repayments.
func (h *Handler) Repay(c *gin.Context) {
	id, ok := saleID(c)
	if !ok {
		return
	}
	var req repayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}

	sale, err := h.svc.Sales.Repay(c.Request.Context(), sales.RepayInput{
		SaleID:     id,
		BuyerName:  req.BuyerName,
		BuyerPhone: req.BuyerPhone,
		Amount:     req.Amount,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sale})
}
