// Package repository declares the record store the services are written against.
// The mongodb package is the production implementation, memory is used for local
// runs and tests.
package repository

import (
	"context"

	"github.com/sowmensarker/ambika/internal/domain/models"
)

// Collection names shared by every implementation.
const (
	UsersCollection        = "userData"
	ProductsCollection     = "addedProductData"
	SalesCollection        = "soldProductData"
	ExpensesCollection     = "dailyExpenseData"
	ActivityCollection     = "activityData"
	DailyReportsCollection = "daily_reports"
)

// ProductRepository persists product intakes.
type ProductRepository interface {
	// InsertProduct fails with a duplicate error when (productId, productAddedAt) already exists.
	InsertProduct(ctx context.Context, product models.AddedProduct) error
	FindProductsByID(ctx context.Context, productID string) ([]models.AddedProduct, error)
	ListProducts(ctx context.Context) ([]models.AddedProduct, error)
	ProductsInRange(ctx context.Context, from, to string) ([]models.AddedProduct, error)
}

// SaleQuery selects sales by id and buyer identity. Empty fields are ignored.
type SaleQuery struct {
	Timestamp  int64
	BuyerName  string
	BuyerPhone string
}

// SaleRepository persists sales.
type SaleRepository interface {
	InsertSale(ctx context.Context, sale models.Sale) error
	FindSales(ctx context.Context, query SaleQuery) ([]models.Sale, error)
	ListSales(ctx context.Context) ([]models.Sale, error)
	SalesInRange(ctx context.Context, from, to string) ([]models.Sale, error)
	// UpdateSale replaces the payment fields of a sale only if its stored version
	// still equals expectedVersion. It fails with a conflict error otherwise.
	UpdateSale(ctx context.Context, sale models.Sale, expectedVersion int64) error
}

// ExpenseRepository persists daily expenses.
type ExpenseRepository interface {
	InsertExpense(ctx context.Context, expense models.DailyExpense) error
	ListExpenses(ctx context.Context) ([]models.DailyExpense, error)
	ExpensesInRange(ctx context.Context, from, to string) ([]models.DailyExpense, error)
}

// ActivityRepository persists the audit trail.
type ActivityRepository interface {
	InsertActivity(ctx context.Context, record models.ActivityRecord) error
	ListActivities(ctx context.Context) ([]models.ActivityRecord, error)
	ActivitiesInRange(ctx context.Context, from, to string) ([]models.ActivityRecord, error)
}

// UserRepository persists user profiles.
type UserRepository interface {
	UpsertUser(ctx context.Context, profile models.UserProfile) error
	GetUser(ctx context.Context, uid string) (models.UserProfile, error)
	UpdateUserField(ctx context.Context, uid, field string, value any) error
	EmailExists(ctx context.Context, email string) (bool, error)
}

// ReportRepository stores nightly report snapshots.
type ReportRepository interface {
	SaveDailyReport(ctx context.Context, report models.DailyReport) error
}

// Store bundles every collection.
type Store interface {
	ProductRepository
	SaleRepository
	ExpenseRepository
	ActivityRepository
	UserRepository
	ReportRepository
	Close(ctx context.Context) error
}
