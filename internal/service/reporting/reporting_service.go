// Package reporting derives the dashboard figures from the stored records.
package reporting

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sowmensarker/ambika/internal/domain/models"
	"github.com/sowmensarker/ambika/internal/repository"
	"github.com/sowmensarker/ambika/internal/service/daterange"
)

// Store is the slice of the record store the reports read from.
type Store interface {
	repository.ProductRepository
	repository.SaleRepository
	repository.ExpenseRepository
	repository.ReportRepository
}

// StockCounter reports current stock over the whole history.
type StockCounter interface {
	TotalProductsInStock(ctx context.Context) (int, error)
}

// Service exposes the dashboard aggregates and the scheduled summaries.
type Service struct {
	store  Store
	stock  StockCounter
	clock  *daterange.Clock
	logger *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(store Store, stock StockCounter, clock *daterange.Clock, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = daterange.NewClock(nil)
	}
	return &Service{store: store, stock: stock, clock: clock, logger: logger}
}

type window struct {
	token    string
	from, to string
	products []models.AddedProduct
	sales    []models.Sale
	expenses []models.DailyExpense
}

func (s *Service) load(ctx context.Context, token string) (window, error) {
	if strings.TrimSpace(token) == "" {
		token = daterange.Default
	}
	from, to, err := s.clock.Resolve(token)
	if err != nil {
		return window{}, err
	}

	w := window{token: token, from: from, to: to}
	if w.products, err = s.store.ProductsInRange(ctx, from, to); err != nil {
		return window{}, models.PersistenceError("failed to get product data", err)
	}
	if w.sales, err = s.store.SalesInRange(ctx, from, to); err != nil {
		return window{}, models.PersistenceError("failed to get sold product data", err)
	}
	if w.expenses, err = s.store.ExpensesInRange(ctx, from, to); err != nil {
		return window{}, models.PersistenceError("failed to get daily expense data", err)
	}
	return w, nil
}

// Summary computes the dashboard cards for a range. Products in stock is not windowed.
func (s *Service) Summary(ctx context.Context, token string) (models.Summary, error) {
	w, err := s.load(ctx, token)
	if err != nil {
		return models.Summary{}, err
	}

	inStock, err := s.stock.TotalProductsInStock(ctx)
	if err != nil {
		return models.Summary{}, err
	}

	return models.Summary{
		Range:           w.token,
		From:            w.from,
		To:              w.to,
		TotalIncome:     TotalIncome(w.sales),
		TotalExpense:    TotalExpense(w.expenses, w.products),
		TotalPending:    TotalPending(w.sales),
		ProductsInStock: inStock,
		SalesCount:      len(w.sales),
	}, nil
}

// Charts returns the per-day sales points of a range.
func (s *Service) Charts(ctx context.Context, token string) ([]models.DailySalesPoint, error) {
	w, err := s.load(ctx, token)
	if err != nil {
		return nil, err
	}
	return DailySales(w.sales), nil
}

// Recent returns the n newest sales of a range.
func (s *Service) Recent(ctx context.Context, token string, n int) ([]models.Sale, error) {
	w, err := s.load(ctx, token)
	if err != nil {
		return nil, err
	}
	return RecentSales(w.sales, n), nil
}

// Snapshot computes the summary of token and stores it as today's daily report.
func (s *Service) Snapshot(ctx context.Context, token string) (models.DailyReport, error) {
	summary, err := s.Summary(ctx, token)
	if err != nil {
		return models.DailyReport{}, fmt.Errorf("failed to compute summary: %w", err)
	}

	report := models.DailyReport{
		Date:            s.clock.Today(),
		Range:           summary.Range,
		TotalIncome:     summary.TotalIncome,
		TotalExpense:    summary.TotalExpense,
		TotalPending:    summary.TotalPending,
		ProductsInStock: summary.ProductsInStock,
		SalesCount:      summary.SalesCount,
		CreatedAt:       s.clock.Now(),
	}
	if err := s.store.SaveDailyReport(ctx, report); err != nil {
		return models.DailyReport{}, models.PersistenceError("failed to save daily report", err)
	}

	s.logger.Info("daily report stored",
		zap.String("date", report.Date),
		zap.Float64("income", report.TotalIncome),
		zap.Int("sales", report.SalesCount),
	)
	return report, nil
}

// WeeklyReport renders the last seven days as a chat message.
func (s *Service) WeeklyReport(ctx context.Context) (string, error) {
	summary, err := s.Summary(ctx, daterange.SevenDays)
	if err != nil {
		return "", fmt.Errorf("failed to compute weekly summary: %w", err)
	}
	return WeeklyReportMessage(summary), nil
}

// WeeklyReportMessage formats a summary for WhatsApp.
func WeeklyReportMessage(summary models.Summary) string {
	if summary.SalesCount == 0 && summary.TotalExpense == 0 {
		return fmt.Sprintf("Ambika summary (%s to %s): no sales or expenses recorded. %d items in stock.",
			summary.From, summary.To, summary.ProductsInStock)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Ambika summary (%s to %s)\n", summary.From, summary.To)
	fmt.Fprintf(&b, "Sales: %d\n", summary.SalesCount)
	fmt.Fprintf(&b, "Income: BDT %.2f\n", summary.TotalIncome)
	fmt.Fprintf(&b, "Expense: BDT %.2f\n", summary.TotalExpense)
	fmt.Fprintf(&b, "Pending: BDT %.2f\n", summary.TotalPending)
	fmt.Fprintf(&b, "In stock: %d items", summary.ProductsInStock)
	return b.String()
}
