package models

// StockLevel is the colour cue shown next to a stock row.
type StockLevel string

const (
	StockOut StockLevel = "out"
	StockLow StockLevel = "low"
	StockOK  StockLevel = "ok"
)

// StockProduct is derived from the intake and sales collections; it is never stored.
type StockProduct struct {
	ProductID    string     `json:"productId"`
	ProductName  string     `json:"productName"`
	BuyingPrice  float64    `json:"buyingPrice"`
	AddedBy      Actor      `json:"addedBy"`
	Timestamp    int64      `json:"timestamp"`
	TotalAdded   int        `json:"totalAdded"`
	TotalSold    int        `json:"totalSold"`
	CurrentStock int        `json:"currentStock"`
	Level        StockLevel `json:"level"`
}
