// Package inventory handles product intake and derives current stock.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sowmensarker/ambika/internal/domain/models"
	"github.com/sowmensarker/ambika/internal/repository"
	"github.com/sowmensarker/ambika/internal/service/activity"
	"github.com/sowmensarker/ambika/internal/service/daterange"
	"github.com/sowmensarker/ambika/internal/service/validation"
)

// AddProductInput is the intake form.
type AddProductInput struct {
	ProductID   string  `json:"productId" validate:"required"`
	ProductName string  `json:"productName" validate:"required"`
	Quantity    int     `json:"quantity" validate:"gt=0"`
	BuyingPrice float64 `json:"buyingPrice" validate:"gte=0"`
}

// Service owns the addedProductData collection.
type Service struct {
	products     repository.ProductRepository
	sales        repository.SaleRepository
	recorder     *activity.Recorder
	clock        *daterange.Clock
	lowThreshold int
	logger       *zap.Logger
}

// NewService wires the inventory service. A non-positive lowThreshold uses DefaultLowStockThreshold.
func NewService(products repository.ProductRepository, sales repository.SaleRepository, recorder *activity.Recorder, clock *daterange.Clock, lowThreshold int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = daterange.NewClock(nil)
	}
	if lowThreshold <= 0 {
		lowThreshold = DefaultLowStockThreshold
	}
	return &Service{
		products:     products,
		sales:        sales,
		recorder:     recorder,
		clock:        clock,
		lowThreshold: lowThreshold,
		logger:       logger,
	}
}

// AddProduct stores one intake for today and records the cash outflow.
func (s *Service) AddProduct(ctx context.Context, input AddProductInput, actor models.Identity) (models.AddedProduct, error) {
	input.ProductID = strings.TrimSpace(input.ProductID)
	input.ProductName = strings.TrimSpace(input.ProductName)
	if err := validation.Struct(input); err != nil {
		return models.AddedProduct{}, err
	}
	if actor.UID == "" {
		return models.AddedProduct{}, models.ValidationError("acting user is required")
	}

	existing, err := s.products.FindProductsByID(ctx, input.ProductID)
	if err != nil {
		return models.AddedProduct{}, models.PersistenceError("failed to look up product", err)
	}
	for _, p := range existing {
		if !strings.EqualFold(p.ProductName, input.ProductName) {
			return models.AddedProduct{}, models.DuplicateError(
				"product id %s is already used by %s", input.ProductID, p.ProductName)
		}
	}

	product := models.AddedProduct{
		ProductID:      input.ProductID,
		ProductName:    input.ProductName,
		Quantity:       input.Quantity,
		BuyingPrice:    input.BuyingPrice,
		ProductAddedAt: s.clock.Today(),
		AddedBy:        actor.Actor(),
		Timestamp:      s.clock.Millis(),
	}

	if err := s.products.InsertProduct(ctx, product); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			return models.AddedProduct{}, models.DuplicateError(
				"product %s was already added today, try again tomorrow", product.ProductID)
		}
		return models.AddedProduct{}, models.PersistenceError("failed to add product", err)
	}

	s.logger.Info("product added",
		zap.String("product_id", product.ProductID),
		zap.Int("quantity", product.Quantity),
		zap.String("added_by", product.AddedBy.UID),
	)

	if s.recorder != nil {
		cost := models.Amount(models.LineTotal(product.Quantity, product.BuyingPrice))
		description := fmt.Sprintf("Added %d items of %s with Product ID: %s", product.Quantity, product.ProductName, product.ProductID)
		_, err := s.recorder.Record(ctx, models.ActivityProductAdded, description, -cost, product.ProductAddedAt)
		activity.LogFailure(s.logger, models.ActivityProductAdded, err)
	}

	return product, nil
}

// ListProducts returns the intakes of a date window, newest first.
func (s *Service) ListProducts(ctx context.Context, rangeToken string) ([]models.AddedProduct, error) {
	from, to, err := s.clock.Resolve(rangeToken)
	if err != nil {
		return nil, err
	}
	products, err := s.products.ProductsInRange(ctx, from, to)
	if err != nil {
		return nil, models.PersistenceError("failed to get product data", err)
	}
	sortProducts(products)
	return products, nil
}

// Stock derives the stock table over the whole history.
func (s *Service) Stock(ctx context.Context, search string) ([]models.StockProduct, error) {
	added, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, models.PersistenceError("failed to get product data", err)
	}
	sold, err := s.sales.ListSales(ctx)
	if err != nil {
		return nil, models.PersistenceError("failed to get sold product data", err)
	}
	return FilterStock(ComputeStock(added, sold, s.lowThreshold), search), nil
}

// TotalProductsInStock sums current stock over the whole history. It is not windowed.
func (s *Service) TotalProductsInStock(ctx context.Context) (int, error) {
	rows, err := s.Stock(ctx, "")
	if err != nil {
		return 0, err
	}
	return TotalInStock(rows), nil
}

func sortProducts(products []models.AddedProduct) {
	sort.SliceStable(products, func(i, j int) bool { return products[i].Timestamp > products[j].Timestamp })
}
