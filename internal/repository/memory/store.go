// Package memory is a process-local implementation of repository.Store.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sowmensarker/ambika/internal/domain/models"
	"github.com/sowmensarker/ambika/internal/repository"
)

var _ repository.Store = (*Store)(nil)

// Store keeps every collection in slices guarded by one lock. Insertion order is preserved.
type Store struct {
	mu          sync.RWMutex
	products    []models.AddedProduct
	productKeys map[string]struct{}
	sales       []models.Sale
	expenses    []models.DailyExpense
	expenseKeys map[string]struct{}
	activities  []models.ActivityRecord
	users       map[string]models.UserProfile
	reports     []models.DailyReport
}

// New returns an empty store.
func New() *Store {
	return &Store{
		productKeys: make(map[string]struct{}),
		expenseKeys: make(map[string]struct{}),
		users:       make(map[string]models.UserProfile),
	}
}

func productKey(p models.AddedProduct) string {
	return p.ProductID + "\x00" + p.ProductAddedAt
}

func inRange(value, from, to string) bool {
	return value >= from && value <= to
}

// InsertProduct stores an intake, enforcing the (productId, productAddedAt) key.
func (s *Store) InsertProduct(_ context.Context, product models.AddedProduct) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := productKey(product)
	if _, exists := s.productKeys[key]; exists {
		return models.DuplicateError("product %s was already added on %s", product.ProductID, product.ProductAddedAt)
	}
	s.productKeys[key] = struct{}{}
	s.products = append(s.products, product)
	return nil
}

// FindProductsByID returns every intake of productID.
func (s *Store) FindProductsByID(_ context.Context, productID string) ([]models.AddedProduct, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.AddedProduct
	for _, p := range s.products {
		if p.ProductID == productID {
			out = append(out, p)
		}
	}
	return out, nil
}

// ListProducts returns a copy of every intake.
func (s *Store) ListProducts(_ context.Context) ([]models.AddedProduct, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.AddedProduct(nil), s.products...), nil
}

// ProductsInRange filters on productAddedAt, both bounds inclusive.
func (s *Store) ProductsInRange(_ context.Context, from, to string) ([]models.AddedProduct, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.AddedProduct
	for _, p := range s.products {
		if inRange(p.ProductAddedAt, from, to) {
			out = append(out, p)
		}
	}
	return out, nil
}

// InsertSale stores a sale; the timestamp must be unique.
func (s *Store) InsertSale(_ context.Context, sale models.Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.sales {
		if existing.Timestamp == sale.Timestamp {
			return models.DuplicateError("sale %d already exists", sale.Timestamp)
		}
	}
	s.sales = append(s.sales, sale.Clone())
	return nil
}

// FindSales returns the sales matching every non-empty field of query.
func (s *Store) FindSales(_ context.Context, query repository.SaleQuery) ([]models.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Sale
	for _, sale := range s.sales {
		if query.Timestamp != 0 && sale.Timestamp != query.Timestamp {
			continue
		}
		if query.BuyerName != "" && sale.BuyerName != query.BuyerName {
			continue
		}
		if query.BuyerPhone != "" && sale.BuyerPhone != query.BuyerPhone {
			continue
		}
		out = append(out, sale.Clone())
	}
	return out, nil
}

// ListSales returns a copy of every sale.
func (s *Store) ListSales(_ context.Context) ([]models.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Sale, 0, len(s.sales))
	for _, sale := range s.sales {
		out = append(out, sale.Clone())
	}
	return out, nil
}

// SalesInRange filters on soldAt, both bounds inclusive.
func (s *Store) SalesInRange(_ context.Context, from, to string) ([]models.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Sale
	for _, sale := range s.sales {
		if inRange(sale.SoldAt, from, to) {
			out = append(out, sale.Clone())
		}
	}
	return out, nil
}

// UpdateSale swaps in the new payment state when the stored version matches.
func (s *Store) UpdateSale(_ context.Context, sale models.Sale, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.sales {
		if existing.Timestamp != sale.Timestamp {
			continue
		}
		if existing.Version != expectedVersion {
			return models.ConflictError("sale %d changed from version %d to %d", sale.Timestamp, expectedVersion, existing.Version)
		}
		updated := existing.Clone()
		updated.PendingAmount = sale.PendingAmount
		updated.ReceivedAmount = sale.ReceivedAmount
		updated.InstallmentHistory = append([]models.Installment(nil), sale.InstallmentHistory...)
		updated.Status = sale.Status
		updated.Version = sale.Version
		s.sales[i] = updated
		return nil
	}
	return models.NotFoundError("sale %d not found", sale.Timestamp)
}

// InsertExpense stores an expense; the expense key must be unique.
func (s *Store) InsertExpense(_ context.Context, expense models.DailyExpense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.expenseKeys[expense.Key]; exists {
		return models.DuplicateError("expense %s already exists", expense.Key)
	}
	s.expenseKeys[expense.Key] = struct{}{}
	s.expenses = append(s.expenses, expense)
	return nil
}

// ListExpenses returns a copy of every expense.
func (s *Store) ListExpenses(_ context.Context) ([]models.DailyExpense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.DailyExpense(nil), s.expenses...), nil
}

// ExpensesInRange filters on expenseDate, both bounds inclusive.
func (s *Store) ExpensesInRange(_ context.Context, from, to string) ([]models.DailyExpense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.DailyExpense
	for _, e := range s.expenses {
		if inRange(e.ExpenseDate, from, to) {
			out = append(out, e)
		}
	}
	return out, nil
}

// InsertActivity appends to the audit trail.
func (s *Store) InsertActivity(_ context.Context, record models.ActivityRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activities = append(s.activities, record)
	return nil
}

// ListActivities returns a copy of the audit trail.
func (s *Store) ListActivities(_ context.Context) ([]models.ActivityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.ActivityRecord(nil), s.activities...), nil
}

// ActivitiesInRange filters on the record date, both bounds inclusive.
func (s *Store) ActivitiesInRange(_ context.Context, from, to string) ([]models.ActivityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.ActivityRecord
	for _, a := range s.activities {
		if inRange(a.Date, from, to) {
			out = append(out, a)
		}
	}
	return out, nil
}

// UpsertUser replaces the profile stored under profile.UID.
func (s *Store) UpsertUser(_ context.Context, profile models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile.CompletedSteps = append([]int(nil), profile.CompletedSteps...)
	s.users[profile.UID] = profile
	return nil
}

// GetUser loads one profile.
func (s *Store) GetUser(_ context.Context, uid string) (models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.users[uid]
	if !ok {
		return models.UserProfile{}, models.NotFoundError("user %s not found", uid)
	}
	return profile, nil
}

// UpdateUserField sets a single profile field.
func (s *Store) UpdateUserField(_ context.Context, uid, field string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.users[uid]
	if !ok {
		return models.NotFoundError("user %s not found", uid)
	}

	var typeOK bool
	switch field {
	case "displayName":
		profile.DisplayName, typeOK = value.(string)
	case "email":
		profile.Email, typeOK = value.(string)
	case "photoURL":
		profile.PhotoURL, typeOK = value.(string)
	case "emailVerified":
		profile.EmailVerified, typeOK = value.(bool)
	case "completedSteps":
		profile.CompletedSteps, typeOK = value.([]int)
	default:
		return fmt.Errorf("unknown user field %q", field)
	}
	if !typeOK {
		return fmt.Errorf("unexpected value type %T for user field %q", value, field)
	}

	s.users[uid] = profile
	return nil
}

// EmailExists reports whether any profile uses email (case-insensitive).
func (s *Store) EmailExists(_ context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, profile := range s.users {
		if strings.EqualFold(profile.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

// SaveDailyReport appends a report snapshot.
func (s *Store) SaveDailyReport(_ context.Context, report models.DailyReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, report)
	return nil
}

// DailyReports returns the stored snapshots.
func (s *Store) DailyReports() []models.DailyReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.DailyReport(nil), s.reports...)
}

// Close is a no-op.
func (s *Store) Close(context.Context) error { return nil }
