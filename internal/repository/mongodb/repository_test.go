package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sowmensarker/ambika/internal/domain/models"
	"github.com/sowmensarker/ambika/internal/repository"
)

func TestRangeFilter(t *testing.T) {
	got := rangeFilter("soldAt", "2025-01-01", "2025-01-31")
	assert.Equal(t, bson.M{"soldAt": bson.M{"$gte": "2025-01-01", "$lte": "2025-01-31"}}, got)
}

func TestSaleFilter(t *testing.T) {
	t.Run("all fields", func(t *testing.T) {
		got := saleFilter(repository.SaleQuery{Timestamp: 42, BuyerName: "Karim", BuyerPhone: "+8801711000000"})
		assert.Equal(t, bson.M{"timestamp": int64(42), "buyer_name": "Karim", "buyer_phoneNo": "+8801711000000"}, got)
	})

	t.Run("empty query matches everything", func(t *testing.T) {
		assert.Empty(t, saleFilter(repository.SaleQuery{}))
	})
}

func TestVersionFilter(t *testing.T) {
	t.Run("version zero also matches legacy documents", func(t *testing.T) {
		got := versionFilter(7, 0)
		assert.Equal(t, int64(7), got["timestamp"])
		or, ok := got["$or"].(bson.A)
		require.True(t, ok)
		assert.Len(t, or, 2)
	})

	t.Run("explicit version", func(t *testing.T) {
		assert.Equal(t, bson.M{"timestamp": int64(7), "version": int64(3)}, versionFilter(7, 3))
	})
}

func TestSaleUpdate_OnlyTouchesPaymentFields(t *testing.T) {
	sale := models.Sale{
		BuyerName:          "ignored",
		PendingAmount:      10,
		ReceivedAmount:     90,
		InstallmentHistory: []models.Installment{{Amount: 90, Remain: 10, RepayDate: "2025-01-01"}},
		Status:             models.SaleStatusPending,
		Version:            2,
	}

	set, ok := saleUpdate(sale)["$set"].(bson.M)
	require.True(t, ok)
	assert.Len(t, set, 5)
	assert.NotContains(t, set, "buyer_name")
	assert.Equal(t, int64(2), set["version"])
}

func TestEmailFilter_EscapesInput(t *testing.T) {
	got := emailFilter("a.b+c@shop.com")
	re, ok := got["email"].(primitive.Regex)
	require.True(t, ok)
	assert.Equal(t, `^a\.b\+c@shop\.com$`, re.Pattern)
	assert.Equal(t, "i", re.Options)
}

func TestIndexModels_DeclareUniqueNaturalKeys(t *testing.T) {
	indexes := indexModels()

	products := indexes[repository.ProductsCollection]
	require.NotEmpty(t, products)
	require.NotNil(t, products[0].Options)
	assert.True(t, *products[0].Options.Unique)
	assert.Equal(t, bson.D{{Key: "productId", Value: 1}, {Key: "productAddedAt", Value: 1}}, products[0].Keys)

	sales := indexes[repository.SalesCollection]
	require.NotEmpty(t, sales)
	assert.True(t, *sales[0].Options.Unique)
}

func TestNewMongoDBRepository_UnreachableServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	repo, err := NewMongoDBRepository(ctx, "mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=200&connectTimeoutMS=200", "ambika")
	require.Error(t, err)
	assert.Nil(t, repo)
	assert.Contains(t, err.Error(), "failed to ping mongodb")
}
