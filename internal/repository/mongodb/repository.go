package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sowmensarker/ambika/internal/domain/models"
	"github.com/sowmensarker/ambika/internal/repository"
)

var _ repository.Store = (*MongoDBRepository)(nil)

// MongoDBRepository implements repository.Store on top of a MongoDB database.
type MongoDBRepository struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoDBRepository connects, pings and makes sure the indexes exist.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	repo := &MongoDBRepository{client: client, db: client.Database(dbName)}
	if err := repo.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return repo, nil
}

func (r *MongoDBRepository) ensureIndexes(ctx context.Context) error {
	for collection, indexes := range indexModels() {
		if _, err := r.db.Collection(collection).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("create indexes on %s: %w", collection, err)
		}
	}
	return nil
}

func indexModels() map[string][]mongo.IndexModel {
	asc := func(keys ...string) bson.D {
		d := bson.D{}
		for _, k := range keys {
			d = append(d, bson.E{Key: k, Value: 1})
		}
		return d
	}
	unique := func(name string) *options.IndexOptions {
		return options.Index().SetUnique(true).SetName(name)
	}

	return map[string][]mongo.IndexModel{
		repository.ProductsCollection: {
			{Keys: asc("productId", "productAddedAt"), Options: unique("product_day_unique")},
			{Keys: asc("productAddedAt")},
		},
		repository.SalesCollection: {
			{Keys: asc("timestamp"), Options: unique("sale_id_unique")},
			{Keys: asc("soldAt")},
		},
		repository.ExpensesCollection: {
			{Keys: asc("expense_key"), Options: unique("expense_key_unique")},
			{Keys: asc("expenseDate")},
		},
		repository.ActivityCollection: {
			{Keys: asc("date")},
		},
		repository.UsersCollection: {
			{Keys: asc("uid"), Options: unique("uid_unique")},
		},
	}
}

func rangeFilter(field, from, to string) bson.M {
	return bson.M{field: bson.M{"$gte": from, "$lte": to}}
}

func saleFilter(q repository.SaleQuery) bson.M {
	filter := bson.M{}
	if q.Timestamp != 0 {
		filter["timestamp"] = q.Timestamp
	}
	if q.BuyerName != "" {
		filter["buyer_name"] = q.BuyerName
	}
	if q.BuyerPhone != "" {
		filter["buyer_phoneNo"] = q.BuyerPhone
	}
	return filter
}

// versionFilter matches the sale only at the expected version. Documents written
// before the version field existed count as version 0.
func versionFilter(timestamp, expected int64) bson.M {
	if expected == 0 {
		return bson.M{
			"timestamp": timestamp,
			"$or": bson.A{
				bson.M{"version": 0},
				bson.M{"version": bson.M{"$exists": false}},
			},
		}
	}
	return bson.M{"timestamp": timestamp, "version": expected}
}

func saleUpdate(sale models.Sale) bson.M {
	return bson.M{"$set": bson.M{
		"pending_amount":      sale.PendingAmount,
		"received_amount":     sale.ReceivedAmount,
		"installment_history": sale.InstallmentHistory,
		"status":              sale.Status,
		"version":             sale.Version,
	}}
}

func emailFilter(email string) bson.M {
	return bson.M{"email": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(email) + "$", Options: "i"}}
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any) ([]T, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// InsertProduct saves a product intake.
func (r *MongoDBRepository) InsertProduct(ctx context.Context, product models.AddedProduct) error {
	_, err := r.db.Collection(repository.ProductsCollection).InsertOne(ctx, product)
	if mongo.IsDuplicateKeyError(err) {
		return models.DuplicateError("product %s was already added on %s", product.ProductID, product.ProductAddedAt)
	}
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

// FindProductsByID returns every intake of one product id.
func (r *MongoDBRepository) FindProductsByID(ctx context.Context, productID string) ([]models.AddedProduct, error) {
	out, err := findAll[models.AddedProduct](ctx, r.db.Collection(repository.ProductsCollection), bson.M{"productId": productID})
	if err != nil {
		return nil, fmt.Errorf("failed to find product %s: %w", productID, err)
	}
	return out, nil
}

// ListProducts returns every intake.
func (r *MongoDBRepository) ListProducts(ctx context.Context) ([]models.AddedProduct, error) {
	out, err := findAll[models.AddedProduct](ctx, r.db.Collection(repository.ProductsCollection), bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return out, nil
}

// ProductsInRange returns intakes with productAddedAt inside [from, to].
func (r *MongoDBRepository) ProductsInRange(ctx context.Context, from, to string) ([]models.AddedProduct, error) {
	out, err := findAll[models.AddedProduct](ctx, r.db.Collection(repository.ProductsCollection), rangeFilter("productAddedAt", from, to))
	if err != nil {
		return nil, fmt.Errorf("failed to query products by range: %w", err)
	}
	return out, nil
}

// InsertSale saves a new sale.
func (r *MongoDBRepository) InsertSale(ctx context.Context, sale models.Sale) error {
	_, err := r.db.Collection(repository.SalesCollection).InsertOne(ctx, sale)
	if mongo.IsDuplicateKeyError(err) {
		return models.DuplicateError("sale %d already exists", sale.Timestamp)
	}
	if err != nil {
		return fmt.Errorf("failed to insert sale: %w", err)
	}
	return nil
}

// FindSales returns sales matching the query.
func (r *MongoDBRepository) FindSales(ctx context.Context, query repository.SaleQuery) ([]models.Sale, error) {
	out, err := findAll[models.Sale](ctx, r.db.Collection(repository.SalesCollection), saleFilter(query))
	if err != nil {
		return nil, fmt.Errorf("failed to find sales: %w", err)
	}
	return out, nil
}

// ListSales returns every sale.
func (r *MongoDBRepository) ListSales(ctx context.Context) ([]models.Sale, error) {
	out, err := findAll[models.Sale](ctx, r.db.Collection(repository.SalesCollection), bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	return out, nil
}

// SalesInRange returns sales with soldAt inside [from, to].
func (r *MongoDBRepository) SalesInRange(ctx context.Context, from, to string) ([]models.Sale, error) {
	out, err := findAll[models.Sale](ctx, r.db.Collection(repository.SalesCollection), rangeFilter("soldAt", from, to))
	if err != nil {
		return nil, fmt.Errorf("failed to query sales by range: %w", err)
	}
	return out, nil
}

// UpdateSale applies a version-conditional update of the payment fields.
func (r *MongoDBRepository) UpdateSale(ctx context.Context, sale models.Sale, expectedVersion int64) error {
	coll := r.db.Collection(repository.SalesCollection)
	res, err := coll.UpdateOne(ctx, versionFilter(sale.Timestamp, expectedVersion), saleUpdate(sale))
	if err != nil {
		return fmt.Errorf("failed to update sale %d: %w", sale.Timestamp, err)
	}
	if res.MatchedCount == 1 {
		return nil
	}

	count, err := coll.CountDocuments(ctx, bson.M{"timestamp": sale.Timestamp})
	if err != nil {
		return fmt.Errorf("failed to check sale %d: %w", sale.Timestamp, err)
	}
	if count == 0 {
		return models.NotFoundError("sale %d not found", sale.Timestamp)
	}
	return models.ConflictError("sale %d was modified by another request", sale.Timestamp)
}

// InsertExpense saves a daily expense.
func (r *MongoDBRepository) InsertExpense(ctx context.Context, expense models.DailyExpense) error {
	_, err := r.db.Collection(repository.ExpensesCollection).InsertOne(ctx, expense)
	if mongo.IsDuplicateKeyError(err) {
		return models.DuplicateError("expense %s already exists", expense.Key)
	}
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	return nil
}

// ListExpenses returns every expense.
func (r *MongoDBRepository) ListExpenses(ctx context.Context) ([]models.DailyExpense, error) {
	out, err := findAll[models.DailyExpense](ctx, r.db.Collection(repository.ExpensesCollection), bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return out, nil
}

// ExpensesInRange returns expenses with expenseDate inside [from, to].
func (r *MongoDBRepository) ExpensesInRange(ctx context.Context, from, to string) ([]models.DailyExpense, error) {
	out, err := findAll[models.DailyExpense](ctx, r.db.Collection(repository.ExpensesCollection), rangeFilter("expenseDate", from, to))
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses by range: %w", err)
	}
	return out, nil
}

// InsertActivity appends an audit record.
func (r *MongoDBRepository) InsertActivity(ctx context.Context, record models.ActivityRecord) error {
	if _, err := r.db.Collection(repository.ActivityCollection).InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}
	return nil
}

// ListActivities returns the whole audit trail.
func (r *MongoDBRepository) ListActivities(ctx context.Context) ([]models.ActivityRecord, error) {
	out, err := findAll[models.ActivityRecord](ctx, r.db.Collection(repository.ActivityCollection), bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return out, nil
}

// ActivitiesInRange returns audit records dated inside [from, to].
func (r *MongoDBRepository) ActivitiesInRange(ctx context.Context, from, to string) ([]models.ActivityRecord, error) {
	out, err := findAll[models.ActivityRecord](ctx, r.db.Collection(repository.ActivityCollection), rangeFilter("date", from, to))
	if err != nil {
		return nil, fmt.Errorf("failed to query activities by range: %w", err)
	}
	return out, nil
}

// UpsertUser writes the full profile document.
func (r *MongoDBRepository) UpsertUser(ctx context.Context, profile models.UserProfile) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := r.db.Collection(repository.UsersCollection).ReplaceOne(ctx, bson.M{"uid": profile.UID}, profile, opts); err != nil {
		return fmt.Errorf("failed to save user %s: %w", profile.UID, err)
	}
	return nil
}

// GetUser loads one profile.
func (r *MongoDBRepository) GetUser(ctx context.Context, uid string) (models.UserProfile, error) {
	var profile models.UserProfile
	err := r.db.Collection(repository.UsersCollection).FindOne(ctx, bson.M{"uid": uid}).Decode(&profile)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.UserProfile{}, models.NotFoundError("user %s not found", uid)
	}
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("failed to load user %s: %w", uid, err)
	}
	return profile, nil
}

// UpdateUserField sets one field of a profile.
func (r *MongoDBRepository) UpdateUserField(ctx context.Context, uid, field string, value any) error {
	res, err := r.db.Collection(repository.UsersCollection).UpdateOne(ctx, bson.M{"uid": uid}, bson.M{"$set": bson.M{field: value}})
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", uid, err)
	}
	if res.MatchedCount == 0 {
		return models.NotFoundError("user %s not found", uid)
	}
	return nil
}

// EmailExists reports whether a profile already uses email.
func (r *MongoDBRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	count, err := r.db.Collection(repository.UsersCollection).CountDocuments(ctx, emailFilter(email), options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return count > 0, nil
}

// SaveDailyReport saves a daily report to the database.
func (r *MongoDBRepository) SaveDailyReport(ctx context.Context, report models.DailyReport) error {
	if _, err := r.db.Collection(repository.DailyReportsCollection).InsertOne(ctx, report); err != nil {
		return fmt.Errorf("failed to insert daily report: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
