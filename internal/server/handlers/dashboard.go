package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sowmensarker/ambika/internal/service/reporting"
)

// Summary handles GET /dashboard/summary.
func (h *Handler) Summary(c *gin.Context) {
	summary, err := h.svc.Reports.Summary(c.Request.Context(), c.Query("range"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": summary})
}

// Charts handles GET /dashboard/charts.
func (h *Handler) Charts(c *gin.Context) {
	points, err := h.svc.Reports.Charts(c.Request.Context(), c.Query("range"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": points})
}

// RecentSales handles GET /dashboard/recent-sales.
func (h *Handler) RecentSales(c *gin.Context) {
	limit := reporting.DefaultRecentSales
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	recent, err := h.svc.Reports.Recent(c.Request.Context(), c.Query("range"), limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": recent})
}
