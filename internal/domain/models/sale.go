package models

// SaleStatus is the payment state of a sale. The only transition is pending -> paid.
type SaleStatus string

const (
	SaleStatusPaid    SaleStatus = "paid"
	SaleStatusPending SaleStatus = "pending"
)

// IsValid reports whether s is a known status.
func (s SaleStatus) IsValid() bool {
	return s == SaleStatusPaid || s == SaleStatusPending
}

// SoldLine is one product line on a sale.
type SoldLine struct {
	ProductID       string  `bson:"productId" json:"productId" validate:"required"`
	ProductName     string  `bson:"productName" json:"productName"`
	SellingQuantity int     `bson:"selling_quantity" json:"selling_quantity" validate:"gt=0"`
	SellingPrice    float64 `bson:"selling_price" json:"selling_price" validate:"gte=0"`
	TotalPrice      float64 `bson:"total_price" json:"total_price"`
}

// Installment is one payment received against a sale.
type Installment struct {
	Amount    float64 `bson:"amount" json:"amount"`
	Remain    float64 `bson:"remain" json:"remain"`
	RepayDate string  `bson:"repay_date" json:"repay_date"`
}

// Sale is a sold-product document. Timestamp doubles as the sale id.
//
// ReceivedAmount + PendingAmount always equals TotalSold, and the installment
// amounts always sum to ReceivedAmount.
type Sale struct {
	BuyerName          string        `bson:"buyer_name" json:"buyer_name"`
	BuyerPhone         string        `bson:"buyer_phoneNo" json:"buyer_phoneNo"`
	SellerName         string        `bson:"seller_name" json:"seller_name"`
	SoldProducts       []SoldLine    `bson:"sold_products" json:"sold_products"`
	TotalSold          float64       `bson:"total_sold" json:"total_sold"`
	SoldAt             string        `bson:"soldAt" json:"soldAt"`
	Timestamp          int64         `bson:"timestamp" json:"timestamp"`
	PendingAmount      float64       `bson:"pending_amount" json:"pending_amount"`
	ReceivedAmount     float64       `bson:"received_amount" json:"received_amount"`
	InstallmentHistory []Installment `bson:"installment_history" json:"installment_history"`
	Status             SaleStatus    `bson:"status" json:"status"`
	Version            int64         `bson:"version" json:"version"`
}

// Clone returns a deep copy so stores never share slices with callers.
func (s Sale) Clone() Sale {
	out := s
	out.SoldProducts = append([]SoldLine(nil), s.SoldProducts...)
	out.InstallmentHistory = append([]Installment(nil), s.InstallmentHistory...)
	return out
}
