// Package sales creates sales and applies repayments against their pending balance.
package sales

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sowmensarker/ambika/internal/domain/models"
	"github.com/sowmensarker/ambika/internal/repository"
	"github.com/sowmensarker/ambika/internal/service/activity"
	"github.com/sowmensarker/ambika/internal/service/daterange"
	"github.com/sowmensarker/ambika/internal/service/validation"
)

// LineInput is one product on the sale form.
type LineInput struct {
	ProductID       string  `json:"productId" validate:"required"`
	ProductName     string  `json:"productName"`
	SellingQuantity int     `json:"selling_quantity" validate:"gt=0"`
	SellingPrice    float64 `json:"selling_price" validate:"gte=0"`
}

// CreateInput is the sale form. ReceivedAmount is only read for pending sales.
type CreateInput struct {
	BuyerName      string            `json:"buyer_name" validate:"required"`
	BuyerPhone     string            `json:"buyer_phoneNo" validate:"required"`
	Status         models.SaleStatus `json:"status" validate:"required,oneof=paid pending"`
	ReceivedAmount *float64          `json:"received_amount"`
	SoldProducts   []LineInput       `json:"sold_products" validate:"required,min=1,dive"`
}

// RepayInput identifies a sale by id and buyer and carries the amount paid.
type RepayInput struct {
	SaleID     int64   `json:"saleId" validate:"required"`
	BuyerName  string  `json:"buyer_name" validate:"required"`
	BuyerPhone string  `json:"buyer_phoneNo" validate:"required"`
	Amount     float64 `json:"amount"`
}

// Filter narrows a sale listing. Empty fields match everything.
type Filter struct {
	Status models.SaleStatus
	Search string
}

// Service owns the soldProductData collection.
type Service struct {
	repo        repository.SaleRepository
	recorder    *activity.Recorder
	clock       *daterange.Clock
	phoneRegion string
	logger      *zap.Logger
}

// NewService wires the sales service. phoneRegion is an ISO 3166 code such as "BD"; empty disables normalisation.
func NewService(repo repository.SaleRepository, recorder *activity.Recorder, clock *daterange.Clock, phoneRegion string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = daterange.NewClock(nil)
	}
	return &Service{repo: repo, recorder: recorder, clock: clock, phoneRegion: phoneRegion, logger: logger}
}

// CreateSale validates the form, computes the totals and stores the sale.
func (s *Service) CreateSale(ctx context.Context, input CreateInput, seller models.Identity) (models.Sale, error) {
	input.BuyerName = strings.TrimSpace(input.BuyerName)
	input.BuyerPhone = strings.TrimSpace(input.BuyerPhone)
	input.Status = models.SaleStatus(strings.ToLower(strings.TrimSpace(string(input.Status))))
	if err := validation.Struct(input); err != nil {
		return models.Sale{}, err
	}

	lines := make([]models.SoldLine, 0, len(input.SoldProducts))
	total := decimal.Zero
	for _, in := range input.SoldProducts {
		lineTotal := models.LineTotal(in.SellingQuantity, in.SellingPrice)
		total = total.Add(lineTotal)
		lines = append(lines, models.SoldLine{
			ProductID:       strings.TrimSpace(in.ProductID),
			ProductName:     in.ProductName,
			SellingQuantity: in.SellingQuantity,
			SellingPrice:    models.Amount(models.Money(in.SellingPrice)),
			TotalPrice:      models.Amount(lineTotal),
		})
	}

	received := total
	if input.Status == models.SaleStatusPending {
		if input.ReceivedAmount == nil {
			return models.Sale{}, models.ValidationError("received_amount is required for a pending sale")
		}
		received = models.Money(*input.ReceivedAmount)
		if received.IsNegative() || received.GreaterThan(total) {
			return models.Sale{}, models.ValidationError("received_amount must be between 0 and %s", models.FormatAmount(models.Amount(total)))
		}
	}
	pending := total.Sub(received)

	today := s.clock.Today()
	sale := models.Sale{
		BuyerName:      input.BuyerName,
		BuyerPhone:     NormalizePhone(input.BuyerPhone, s.phoneRegion),
		SellerName:     seller.DisplayName,
		SoldProducts:   lines,
		TotalSold:      models.Amount(total),
		SoldAt:         today,
		Timestamp:      s.clock.Millis(),
		PendingAmount:  models.Amount(pending),
		ReceivedAmount: models.Amount(received),
		InstallmentHistory: []models.Installment{
			{Amount: models.Amount(received), Remain: models.Amount(pending), RepayDate: today},
		},
		Status: statusFor(pending),
	}

	if err := s.repo.InsertSale(ctx, sale); err != nil {
		return models.Sale{}, models.PersistenceError("failed to add sold product data", err)
	}

	s.logger.Info("sale created",
		zap.Int64("sale_id", sale.Timestamp),
		zap.String("status", string(sale.Status)),
		zap.Float64("total", sale.TotalSold),
	)

	s.record(ctx, models.ActivitySale,
		fmt.Sprintf("Sold BDT %s Taka to %s(%s)", models.FormatAmount(sale.TotalSold), sale.BuyerName, sale.BuyerPhone),
		sale.TotalSold, today)

	return sale, nil
}

// Repay applies a repayment to the matching sale. The write only succeeds if
// nobody else updated the sale since it was read.
func (s *Service) Repay(ctx context.Context, input RepayInput) (models.Sale, error) {
	input.BuyerName = strings.TrimSpace(input.BuyerName)
	input.BuyerPhone = strings.TrimSpace(input.BuyerPhone)
	if err := validation.Struct(input); err != nil {
		return models.Sale{}, err
	}
	amount := models.Money(input.Amount)
	if !amount.IsPositive() {
		return models.Sale{}, models.ValidationError("amount must be greater than 0")
	}

	matches, err := s.repo.FindSales(ctx, repository.SaleQuery{
		Timestamp:  input.SaleID,
		BuyerName:  input.BuyerName,
		BuyerPhone: NormalizePhone(input.BuyerPhone, s.phoneRegion),
	})
	if err != nil {
		return models.Sale{}, models.PersistenceError("failed to get sold product data", err)
	}
	switch len(matches) {
	case 0:
		return models.Sale{}, models.NotFoundError("sale %d for %s not found", input.SaleID, input.BuyerName)
	case 1:
	default:
		return models.Sale{}, models.DuplicateError("found %d sales with id %d", len(matches), input.SaleID)
	}

	sale := matches[0]
	pending := models.Money(sale.PendingAmount)
	if amount.GreaterThan(pending) {
		return models.Sale{}, models.OverpaymentError(models.Amount(amount), sale.PendingAmount)
	}

	updated := applyRepayment(sale, amount, s.clock.Today())
	if err := s.repo.UpdateSale(ctx, updated, sale.Version); err != nil {
		if errors.Is(err, models.ErrConflict) || errors.Is(err, models.ErrNotFound) {
			return models.Sale{}, err
		}
		return models.Sale{}, models.PersistenceError("failed to update sale", err)
	}

	s.logger.Info("repayment applied",
		zap.Int64("sale_id", updated.Timestamp),
		zap.Float64("amount", models.Amount(amount)),
		zap.Float64("pending", updated.PendingAmount),
	)

	s.record(ctx, models.ActivityRepayment,
		fmt.Sprintf("%s(%s) repaid BDT %s Taka. Sale Id: %d", updated.BuyerName, updated.BuyerPhone, models.FormatAmount(models.Amount(amount)), updated.Timestamp),
		models.Amount(amount), s.clock.Today())

	return updated, nil
}

// applyRepayment returns a copy of sale with amount received on day.
func applyRepayment(sale models.Sale, amount decimal.Decimal, day string) models.Sale {
	out := sale.Clone()
	received := models.Money(sale.ReceivedAmount).Add(amount)
	pending := models.Money(sale.TotalSold).Sub(received)

	out.ReceivedAmount = models.Amount(received)
	out.PendingAmount = models.Amount(pending)
	out.InstallmentHistory = append(out.InstallmentHistory, models.Installment{
		Amount:    models.Amount(amount),
		Remain:    models.Amount(pending),
		RepayDate: day,
	})
	out.Status = statusFor(pending)
	out.Version = sale.Version + 1
	return out
}

func statusFor(pending decimal.Decimal) models.SaleStatus {
	if pending.IsZero() {
		return models.SaleStatusPaid
	}
	return models.SaleStatusPending
}

// Get returns the sale with the given id.
func (s *Service) Get(ctx context.Context, saleID int64) (models.Sale, error) {
	if saleID <= 0 {
		return models.Sale{}, models.ValidationError("invalid sale id %d", saleID)
	}
	matches, err := s.repo.FindSales(ctx, repository.SaleQuery{Timestamp: saleID})
	if err != nil {
		return models.Sale{}, models.PersistenceError("failed to get sold product data", err)
	}
	switch len(matches) {
	case 0:
		return models.Sale{}, models.NotFoundError("sale %d not found", saleID)
	case 1:
		return matches[0], nil
	default:
		return models.Sale{}, models.DuplicateError("found %d sales with id %d", len(matches), saleID)
	}
}

// List returns the sales of a range, newest first.
func (s *Service) List(ctx context.Context, rangeToken string, filter Filter) ([]models.Sale, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, models.ValidationError("unknown status %q", filter.Status)
	}
	from, to, err := s.clock.Resolve(rangeToken)
	if err != nil {
		return nil, err
	}
	sales, err := s.repo.SalesInRange(ctx, from, to)
	if err != nil {
		return nil, models.PersistenceError("failed to get sold product data", err)
	}

	needle := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]models.Sale, 0, len(sales))
	for _, sale := range sales {
		if filter.Status != "" && sale.Status != filter.Status {
			continue
		}
		if needle != "" && !matchesSearch(sale, needle) {
			continue
		}
		out = append(out, sale)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	return out, nil
}

func matchesSearch(sale models.Sale, needle string) bool {
	for _, field := range []string{sale.BuyerName, sale.BuyerPhone, sale.SellerName, strconv.FormatInt(sale.Timestamp, 10)} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func (s *Service) record(ctx context.Context, typ models.ActivityType, description string, amount float64, date string) {
	if s.recorder == nil {
		return
	}
	_, err := s.recorder.Record(ctx, typ, description, amount, date)
	activity.LogFailure(s.logger, typ, err)
}
