package models

import "time"

// DailyReport is the nightly snapshot of the dashboard figures, stored in MongoDB.
type DailyReport struct {
	Date            string    `bson:"date" json:"date"`
	Range           string    `bson:"range" json:"range"`
	TotalIncome     float64   `bson:"total_income" json:"total_income"`
	TotalExpense    float64   `bson:"total_expense" json:"total_expense"`
	TotalPending    float64   `bson:"total_pending" json:"total_pending"`
	ProductsInStock int       `bson:"products_in_stock" json:"products_in_stock"`
	SalesCount      int       `bson:"sales_count" json:"sales_count"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
}

// Summary holds the dashboard cards for one date window.
type Summary struct {
	Range           string  `json:"range"`
	From            string  `json:"from"`
	To              string  `json:"to"`
	TotalIncome     float64 `json:"total_income"`
	TotalExpense    float64 `json:"total_expense"`
	TotalPending    float64 `json:"total_pending"`
	ProductsInStock int     `json:"products_in_stock"`
	SalesCount      int     `json:"sales_count"`
}

// DailySalesPoint is one x-axis entry of the dashboard charts.
type DailySalesPoint struct {
	Day       string  `json:"day"`
	TotalSold float64 `json:"total_sold"`
	Quantity  int     `json:"quantity"`
}
