package inventory

import (
	"sort"
	"strings"

	"github.com/sowmensarker/ambika/internal/domain/models"
)

// DefaultLowStockThreshold marks a row as low when its current stock is at or below it.
const DefaultLowStockThreshold = 5

// ComputeStock derives one row per added productId from the intake and sales
// history. Intake metadata comes from the last intake seen for the id. Sold
// lines for ids that were never added are ignored and currentStock may go
// negative. Rows are returned newest intake first.
func ComputeStock(added []models.AddedProduct, sold []models.Sale, lowThreshold int) []models.StockProduct {
	if len(added) == 0 {
		return []models.StockProduct{}
	}

	soldByID := make(map[string]int)
	for _, sale := range sold {
		for _, line := range sale.SoldProducts {
			soldByID[line.ProductID] += line.SellingQuantity
		}
	}

	index := make(map[string]int)
	rows := make([]models.StockProduct, 0)
	for _, p := range added {
		i, ok := index[p.ProductID]
		if !ok {
			i = len(rows)
			index[p.ProductID] = i
			rows = append(rows, models.StockProduct{ProductID: p.ProductID})
		}
		row := &rows[i]
		row.ProductName = p.ProductName
		row.BuyingPrice = p.BuyingPrice
		row.AddedBy = p.AddedBy
		row.Timestamp = p.Timestamp
		row.TotalAdded += p.Quantity
	}

	for i := range rows {
		rows[i].TotalSold = soldByID[rows[i].ProductID]
		rows[i].CurrentStock = rows[i].TotalAdded - rows[i].TotalSold
		rows[i].Level = Level(rows[i].CurrentStock, lowThreshold)
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Timestamp > rows[j].Timestamp })
	return rows
}

// Level classifies a stock count.
func Level(current, lowThreshold int) models.StockLevel {
	switch {
	case current <= 0:
		return models.StockOut
	case current <= lowThreshold:
		return models.StockLow
	default:
		return models.StockOK
	}
}

// TotalInStock sums currentStock over every row.
func TotalInStock(rows []models.StockProduct) int {
	total := 0
	for _, r := range rows {
		total += r.CurrentStock
	}
	return total
}

// FilterStock keeps rows whose id or name contains search, case-insensitively.
func FilterStock(rows []models.StockProduct, search string) []models.StockProduct {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return rows
	}
	out := make([]models.StockProduct, 0, len(rows))
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.ProductID), needle) || strings.Contains(strings.ToLower(r.ProductName), needle) {
			out = append(out, r)
		}
	}
	return out
}
