package reporting

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/sowmensarker/ambika/internal/domain/models"
)

// DefaultRecentSales is how many sales the dashboard lists.
const DefaultRecentSales = 5

// TotalIncome sums every installment received across sales.
func TotalIncome(sales []models.Sale) float64 {
	total := decimal.Zero
	for _, sale := range sales {
		for _, inst := range sale.InstallmentHistory {
			total = total.Add(models.Money(inst.Amount))
		}
	}
	return models.Amount(total)
}

// TotalPending sums the outstanding balance of sales.
func TotalPending(sales []models.Sale) float64 {
	total := decimal.Zero
	for _, sale := range sales {
		total = total.Add(models.Money(sale.PendingAmount))
	}
	return models.Amount(total)
}

// TotalExpense is the cost of every intake plus every logged expense.
func TotalExpense(expenses []models.DailyExpense, added []models.AddedProduct) float64 {
	total := decimal.Zero
	for _, p := range added {
		total = total.Add(models.LineTotal(p.Quantity, p.BuyingPrice))
	}
	for _, e := range expenses {
		total = total.Add(models.Money(e.ExpenseAmount))
	}
	return models.Amount(total)
}

// DailySales buckets sales by soldAt for the dashboard charts, oldest day first.
func DailySales(sales []models.Sale) []models.DailySalesPoint {
	type bucket struct {
		total    decimal.Decimal
		quantity int
	}
	buckets := make(map[string]*bucket)
	for _, sale := range sales {
		b, ok := buckets[sale.SoldAt]
		if !ok {
			b = &bucket{total: decimal.Zero}
			buckets[sale.SoldAt] = b
		}
		b.total = b.total.Add(models.Money(sale.TotalSold))
		for _, line := range sale.SoldProducts {
			b.quantity += line.SellingQuantity
		}
	}

	points := make([]models.DailySalesPoint, 0, len(buckets))
	for day, b := range buckets {
		points = append(points, models.DailySalesPoint{Day: day, TotalSold: models.Amount(b.total), Quantity: b.quantity})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Day < points[j].Day })
	return points
}

// RecentSales returns the n newest sales by timestamp. n <= 0 uses DefaultRecentSales.
func RecentSales(sales []models.Sale, n int) []models.Sale {
	if n <= 0 {
		n = DefaultRecentSales
	}
	sorted := make([]models.Sale, len(sales))
	copy(sorted, sales)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Timestamp > sorted[j].Timestamp })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
