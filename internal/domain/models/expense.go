package models

import (
	"strconv"
	"strings"
)

// DailyExpense is an operating expense logged by a shop user.
type DailyExpense struct {
	ExpenseTitle  string  `bson:"expense_title" json:"expense_title" validate:"required"`
	ExpenseAmount float64 `bson:"expense_amount" json:"expense_amount" validate:"gt=0"`
	Comments      string  `bson:"comments" json:"comments"`
	ExpenseDate   string  `bson:"expenseDate" json:"expenseDate"`
	Timestamp     int64   `bson:"timestamp" json:"timestamp"`
	SpendBy       string  `bson:"spendBy" json:"spendBy"`
	Key           string  `bson:"expense_key" json:"expense_key"`
}

// ExpenseKey builds the identity key of an expense: lower-cased title with
// whitespace runs collapsed to underscores, followed by the timestamp.
func ExpenseKey(title string, timestamp int64) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(title)), "_")
	return normalized + strconv.FormatInt(timestamp, 10)
}
