package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sowmensarker/ambika/internal/service/reporting"
)

// ListActivities handles GET /activities.
func (h *Handler) ListActivities(c *gin.Context) {
	records, err := h.svc.Activities.List(c.Request.Context(), c.Query("range"), c.Query("search"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": records})
}

// ExportActivities handles GET /activities/export and streams an xlsx workbook.
func (h *Handler) ExportActivities(c *gin.Context) {
	records, err := h.svc.Activities.List(c.Request.Context(), c.Query("range"), c.Query("search"))
	if err != nil {
		h.fail(c, err)
		return
	}

	var buf bytes.Buffer
	if err := reporting.WriteActivitiesXLSX(&buf, records); err != nil {
		h.logger.Error("activity export failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to build export"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "activity.xlsx"))
	c.Data(http.StatusOK, reporting.XLSXContentType, buf.Bytes())
}
