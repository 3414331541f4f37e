package reporting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sowmensarker/ambika/internal/domain/models"
)

func TestTotals_EmptyInputsAreZero(t *testing.T) {
	assert.Equal(t, 0.0, TotalIncome(nil))
	assert.Equal(t, 0.0, TotalIncome([]models.Sale{}))
	assert.Equal(t, 0.0, TotalPending(nil))
	assert.Equal(t, 0.0, TotalExpense(nil, nil))
}

func TestTotalExpense(t *testing.T) {
	added := []models.AddedProduct{{ProductID: "P1", Quantity: 4, BuyingPrice: 25}}
	expenses := []models.DailyExpense{{ExpenseTitle: "Tea", ExpenseAmount: 30}}

	assert.Equal(t, 130.0, TotalExpense(expenses, added))
	assert.Equal(t, 100.0, TotalExpense(nil, added))
	assert.Equal(t, 30.0, TotalExpense(expenses, nil))
}

func TestTotalIncomeAndPending(t *testing.T) {
	sales := []models.Sale{
		{
			TotalSold:          150,
			ReceivedAmount:     150,
			InstallmentHistory: []models.Installment{{Amount: 50, Remain: 100}, {Amount: 100}},
		},
		{
			TotalSold:          0.3,
			ReceivedAmount:     0.1,
			PendingAmount:      0.2,
			InstallmentHistory: []models.Installment{{Amount: 0.1, Remain: 0.2}},
		},
		{
			TotalSold:          10,
			PendingAmount:      10,
			InstallmentHistory: []models.Installment{{Amount: 0, Remain: 10}},
		},
	}

	assert.Equal(t, 150.1, TotalIncome(sales))
	assert.Equal(t, 10.2, TotalPending(sales))
}

func TestDailySales(t *testing.T) {
	sales := []models.Sale{
		{SoldAt: "2025-01-10", TotalSold: 100, SoldProducts: []models.SoldLine{{SellingQuantity: 2}, {SellingQuantity: 1}}},
		{SoldAt: "2025-01-08", TotalSold: 40.5, SoldProducts: []models.SoldLine{{SellingQuantity: 4}}},
		{SoldAt: "2025-01-10", TotalSold: 20, SoldProducts: []models.SoldLine{{SellingQuantity: 1}}},
	}

	points := DailySales(sales)
	require.Len(t, points, 2)
	assert.Equal(t, models.DailySalesPoint{Day: "2025-01-08", TotalSold: 40.5, Quantity: 4}, points[0])
	assert.Equal(t, models.DailySalesPoint{Day: "2025-01-10", TotalSold: 120, Quantity: 4}, points[1])
	assert.Empty(t, DailySales(nil))
}

func TestRecentSales(t *testing.T) {
	var sales []models.Sale
	for ts := int64(1); ts <= 7; ts++ {
		sales = append(sales, models.Sale{Timestamp: ts})
	}

	recent := RecentSales(sales, 0)
	require.Len(t, recent, DefaultRecentSales)
	assert.Equal(t, int64(7), recent[0].Timestamp)
	assert.Equal(t, int64(3), recent[4].Timestamp)
	assert.Equal(t, int64(1), sales[0].Timestamp, "input is not reordered")

	assert.Len(t, RecentSales(sales[:2], 5), 2)
}
