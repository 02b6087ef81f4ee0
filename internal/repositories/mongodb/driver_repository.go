package mongodb

import (
	"context"
	"fmt"
	"time"

	"fleethub/internal/models"
	"fleethub/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type driverRepository struct {
	collection *mongo.Collection
}

func NewDriverRepository(db *mongo.Database) interfaces.DriverRepository {
	return &driverRepository{
		collection: db.Collection("drivers"),
	}
}

// Basic CRUD operations
func (r *driverRepository) Create(ctx context.Context, driver *models.Driver) error {
	if driver.ID.IsZero() {
		driver.ID = primitive.NewObjectID()
	}
	driver.CreatedAt = time.Now()
	driver.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, driver)
	if err != nil {
		return fmt.Errorf("failed to create driver: %w", err)
	}
	return nil
}

func (r *driverRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Driver, error) {
	var driver models.Driver
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&driver)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get driver: %w", err)
	}
	return &driver, nil
}

func (r *driverRepository) Save(ctx context.Context, driver *models.Driver) error {
	driver.UpdatedAt = time.Now()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": driver.ID}, driver)
	if err != nil {
		return fmt.Errorf("failed to save driver: %w", err)
	}
	if result.MatchedCount == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}

func (r *driverRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update driver: %w", err)
	}
	if result.MatchedCount == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}

func (r *driverRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete driver: %w", err)
	}
	if result.DeletedCount == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}

func driverListQuery(vendorIDs []primitive.ObjectID, filter *interfaces.DriverListFilter) bson.M {
	query := bson.M{"vendorId": bson.M{"$in": vendorIDs}}
	if filter != nil {
		if filter.Status != "" {
			query["status"] = filter.Status
		}
		if filter.Region != "" {
			query["region"] = filter.Region
		}
		if filter.City != "" {
			query["city"] = filter.City
		}
	}
	return query
}

// Subtree-scoped queries
func (r *driverRepository) List(ctx context.Context, vendorIDs []primitive.ObjectID, filter *interfaces.DriverListFilter) ([]*models.Driver, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter != nil && filter.Limit > 0 {
		opts.SetSkip(filter.Skip).SetLimit(filter.Limit)
	}

	cursor, err := r.collection.Find(ctx, driverListQuery(vendorIDs, filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list drivers: %w", err)
	}
	defer cursor.Close(ctx)

	var drivers []*models.Driver
	if err := cursor.All(ctx, &drivers); err != nil {
		return nil, fmt.Errorf("failed to decode drivers: %w", err)
	}
	return drivers, nil
}

func (r *driverRepository) Count(ctx context.Context, vendorIDs []primitive.ObjectID, filter *interfaces.DriverListFilter) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, driverListQuery(vendorIDs, filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count drivers: %w", err)
	}
	return count, nil
}

func (r *driverRepository) CountNonCompliant(ctx context.Context, vendorIDs []primitive.ObjectID) (int64, error) {
	query := bson.M{
		"vendorId":                           bson.M{"$in": vendorIDs},
		"complianceStatus.overall.compliant": bson.M{"$ne": true},
	}

	count, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to count non-compliant drivers: %w", err)
	}
	return count, nil
}

func (r *driverRepository) CountPendingDocuments(ctx context.Context, vendorIDs []primitive.ObjectID) (int64, error) {
	// Pending means uploaded but not yet verified, for any known doc type.
	var pending []bson.M
	for _, docType := range models.DriverDocTypes {
		pending = append(pending, bson.M{
			"documents." + string(docType) + ".url":                       bson.M{"$exists": true, "$ne": ""},
			"complianceStatus.documents." + string(docType) + ".verified": bson.M{"$ne": true},
		})
	}

	query := bson.M{
		"vendorId": bson.M{"$in": vendorIDs},
		"$or":      pending,
	}

	count, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to count drivers with pending documents: %w", err)
	}
	return count, nil
}

func (r *driverRepository) FindWithExpiringDocuments(ctx context.Context, vendorIDs []primitive.ObjectID, from, until time.Time, limit int64) ([]*models.Driver, error) {
	var expiring []bson.M
	for _, docType := range models.DriverDocTypes {
		expiring = append(expiring, bson.M{
			"documents." + string(docType) + ".expiresAt": bson.M{"$gte": from, "$lte": until},
		})
	}

	query := bson.M{
		"vendorId": bson.M{"$in": vendorIDs},
		"$or":      expiring,
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find drivers with expiring documents: %w", err)
	}
	defer cursor.Close(ctx)

	var drivers []*models.Driver
	if err := cursor.All(ctx, &drivers); err != nil {
		return nil, fmt.Errorf("failed to decode drivers: %w", err)
	}
	return drivers, nil
}

func (r *driverRepository) ReassignVendor(ctx context.Context, fromVendorIDs []primitive.ObjectID, toVendorID primitive.ObjectID) error {
	if len(fromVendorIDs) == 0 {
		return nil
	}

	_, err := r.collection.UpdateMany(
		ctx,
		bson.M{"vendorId": bson.M{"$in": fromVendorIDs}},
		bson.M{"$set": bson.M{
			"vendorId":   toVendorID,
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to reassign drivers: %w", err)
	}
	return nil
}
