// Package handlers adapts the services to gin.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sowmensarker/ambika/internal/domain/models"
	"github.com/sowmensarker/ambika/internal/service/expenses"
	"github.com/sowmensarker/ambika/internal/service/inventory"
	"github.com/sowmensarker/ambika/internal/service/sales"
)

// ProductService handles intake and stock.
type ProductService interface {
	AddProduct(ctx context.Context, input inventory.AddProductInput, actor models.Identity) (models.AddedProduct, error)
	ListProducts(ctx context.Context, rangeToken string) ([]models.AddedProduct, error)
	Stock(ctx context.Context, search string) ([]models.StockProduct, error)
}

// SaleService handles the sale lifecycle.
type SaleService interface {
	CreateSale(ctx context.Context, input sales.CreateInput, seller models.Identity) (models.Sale, error)
	Repay(ctx context.Context, input sales.RepayInput) (models.Sale, error)
	Get(ctx context.Context, saleID int64) (models.Sale, error)
	List(ctx context.Context, rangeToken string, filter sales.Filter) ([]models.Sale, error)
}

// ExpenseService handles expense logging.
type ExpenseService interface {
	AddExpense(ctx context.Context, input expenses.AddInput, actor models.Identity) (models.DailyExpense, error)
	List(ctx context.Context, rangeToken string, filter expenses.Filter) ([]models.DailyExpense, error)
}

// ActivityService reads the ledger.
type ActivityService interface {
	List(ctx context.Context, rangeToken, search string) ([]models.ActivityRecord, error)
}

// ReportService computes the dashboard.
type ReportService interface {
	Summary(ctx context.Context, rangeToken string) (models.Summary, error)
	Charts(ctx context.Context, rangeToken string) ([]models.DailySalesPoint, error)
	Recent(ctx context.Context, rangeToken string, n int) ([]models.Sale, error)
}

// UserService manages profiles.
type UserService interface {
	SaveProfile(ctx context.Context, identity models.Identity) (models.UserProfile, error)
	Get(ctx context.Context, uid string) (models.UserProfile, error)
	UpdateField(ctx context.Context, uid, field string, value any) (models.UserProfile, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// Services groups what the handlers depend on.
type Services struct {
	Products   ProductService
	Sales      SaleService
	Expenses   ExpenseService
	Activities ActivityService
	Reports    ReportService
	Users      UserService
}

// Handler serves the /api/v1 routes.
type Handler struct {
	svc    Services
	logger *zap.Logger
}

// New constructs the HTTP handler adapter.
func New(svc Services, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

// StatusFor maps a service error to an HTTP status.
func StatusFor(err error) int {
	switch models.KindOf(err) {
	case models.KindValidation, models.KindInvalidRange:
		return http.StatusBadRequest
	case models.KindNotFound:
		return http.StatusNotFound
	case models.KindDuplicate, models.KindConflict:
		return http.StatusConflict
	case models.KindOverpayment:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := StatusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(RequestIDKey)),
			zap.Error(err))
		var typed *models.Error
		if errors.As(err, &typed) {
			message = typed.Message
		} else {
			message = "internal error"
		}
	}
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

func badBody(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}

func saleID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid sale id"})
		return 0, false
	}
	return id, true
}
