package models

// ActivityType enumerates the audit-trail entry kinds.
type ActivityType string

const (
	ActivityProductAdded ActivityType = "Added Product"
	ActivitySale         ActivityType = "Sold Product"
	ActivityExpense      ActivityType = "additional expense"
	ActivityRepayment    ActivityType = "Repaid Pending"
)

// ActivityRecord is one append-only ledger line. Amount is negative for
// money going out and positive for money coming in.
type ActivityRecord struct {
	Type        ActivityType `bson:"type" json:"type"`
	Description string       `bson:"description" json:"description"`
	Amount      float64      `bson:"amount" json:"amount"`
	Date        string       `bson:"date" json:"date"`
	Timestamp   int64        `bson:"timestamp" json:"timestamp"`
}
