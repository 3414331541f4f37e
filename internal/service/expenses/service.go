// Package expenses logs daily operating expenses.
package expenses

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

// AddInput is the expense form.
type AddInput struct {
	ExpenseTitle  string  `json:"expense_title" validate:"required"`
	ExpenseAmount float64 `json:"expense_amount" validate:"gt=0"`
	Comments      string  `json:"comments"`
}

// Filter narrows an expense listing. Date is an exact YYYY-MM-DD day.
type Filter struct {
	Search string
	Date   string
}

// Service owns the dailyExpenseData collection.
type Service struct {
	repo     repository.ExpenseRepository
	recorder *activity.Recorder
	clock    *daterange.Clock
	logger   *zap.Logger
}

// NewService wires the expense service.
func NewService(repo repository.ExpenseRepository, recorder *activity.Recorder, clock *daterange.Clock, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = daterange.NewClock(nil)
	}
	return &Service{repo: repo, recorder: recorder, clock: clock, logger: logger}
}

// AddExpense stores an expense spent by the acting user and records the outflow.
func (s *Service) AddExpense(ctx context.Context, input AddInput, actor models.Identity) (models.DailyExpense, error) {
	input.ExpenseTitle = strings.TrimSpace(input.ExpenseTitle)
	if err := validation.Struct(input); err != nil {
		return models.DailyExpense{}, err
	}
	if actor.UID == "" {
		return models.DailyExpense{}, models.ValidationError("acting user is required")
	}

	ts := s.clock.Millis()
	expense := models.DailyExpense{
		ExpenseTitle:  input.ExpenseTitle,
		ExpenseAmount: models.Amount(models.Money(input.ExpenseAmount)),
		Comments:      strings.TrimSpace(input.Comments),
		ExpenseDate:   s.clock.Today(),
		Timestamp:     ts,
		SpendBy:       spender(actor),
		Key:           models.ExpenseKey(input.ExpenseTitle, ts),
	}

	if err := s.repo.InsertExpense(ctx, expense); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			return models.DailyExpense{}, models.DuplicateError("expense %q was already submitted", expense.ExpenseTitle)
		}
		return models.DailyExpense{}, models.PersistenceError("failed to add daily expense", err)
	}

	s.logger.Info("expense added", zap.String("key", expense.Key), zap.Float64("amount", expense.ExpenseAmount))

	if s.recorder != nil {
		description := fmt.Sprintf("Spent %s on %s", models.FormatAmount(expense.ExpenseAmount), expense.ExpenseTitle)
		_, err := s.recorder.Record(ctx, models.ActivityExpense, description, -expense.ExpenseAmount, expense.ExpenseDate)
		activity.LogFailure(s.logger, models.ActivityExpense, err)
	}

	return expense, nil
}

// List returns the expenses of a range, newest first.
func (s *Service) List(ctx context.Context, rangeToken string, filter Filter) ([]models.DailyExpense, error) {
	from, to, err := s.clock.Resolve(rangeToken)
	if err != nil {
		return nil, err
	}
	expenses, err := s.repo.ExpensesInRange(ctx, from, to)
	if err != nil {
		return nil, models.PersistenceError("failed to get daily expense data", err)
	}

	needle := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]models.DailyExpense, 0, len(expenses))
	for _, e := range expenses {
		if filter.Date != "" && e.ExpenseDate != filter.Date {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(e.ExpenseTitle), needle) &&
			!strings.Contains(strings.ToLower(e.SpendBy), needle) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	return out, nil
}

func spender(actor models.Identity) string {
	if actor.DisplayName != "" {
		return actor.DisplayName
	}
	return actor.Email
}
