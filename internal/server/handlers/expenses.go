package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sowmensarker/ambika/internal/service/expenses"
)

// AddExpense handles POST /expenses.
func (h *Handler) AddExpense(c *gin.Context) {
	var input expenses.AddInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badBody(c)
		return
	}

	expense, err := h.svc.Expenses.AddExpense(c.Request.Context(), input, IdentityFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": expense})
}

// ListExpenses handles GET /expenses.
func (h *Handler) ListExpenses(c *gin.Context) {
	filter := expenses.Filter{Search: c.Query("search"), Date: c.Query("date")}
	list, err := h.svc.Expenses.List(c.Request.Context(), c.Query("range"), filter)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}
