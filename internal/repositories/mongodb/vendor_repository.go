package mongodb

import (
	"context"
	"fmt"
	"time"

	"fleethub/internal/models"
	"fleethub/internal/repositories/interfaces"
	"fleethub/internal/utils"
	"fleethub/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type vendorRepository struct {
	collection *mongo.Collection
	cache      CacheService
	logger     *logger.Logger
}

func NewVendorRepository(db *mongo.Database, cache CacheService, log *logger.Logger) interfaces.VendorRepository {
	return &vendorRepository{
		collection: db.Collection("vendors"),
		cache:      cache,
		logger:     log,
	}
}

// Basic CRUD operations
func (r *vendorRepository) Create(ctx context.Context, vendor *models.Vendor) error {
	if vendor.ID.IsZero() {
		vendor.ID = primitive.NewObjectID()
	}
	vendor.CreatedAt = time.Now()
	vendor.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, vendor)
	if err != nil {
		return fmt.Errorf("failed to create vendor: %w", err)
	}

	r.cacheVendor(ctx, vendor)
	return nil
}

func (r *vendorRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Vendor, error) {
	// Try cache first
	if vendor := r.getVendorFromCache(ctx, id.Hex()); vendor != nil {
		return vendor, nil
	}

	var vendor models.Vendor
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&vendor)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get vendor: %w", err)
	}

	r.cacheVendor(ctx, &vendor)
	return &vendor, nil
}

func (r *vendorRepository) GetByName(ctx context.Context, name string) (*models.Vendor, error) {
	var vendor models.Vendor
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&vendor)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get vendor by name: %w", err)
	}
	return &vendor, nil
}

func (r *vendorRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update vendor: %w", err)
	}
	if result.MatchedCount == 0 {
		return interfaces.ErrNotFound
	}

	r.invalidateVendorCache(ctx, id.Hex())
	return nil
}

func (r *vendorRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete vendor: %w", err)
	}
	if result.DeletedCount == 0 {
		return interfaces.ErrNotFound
	}

	r.invalidateVendorCache(ctx, id.Hex())
	return nil
}

func (r *vendorRepository) DeleteMany(ctx context.Context, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return fmt.Errorf("failed to delete vendors: %w", err)
	}

	for _, id := range ids {
		r.invalidateVendorCache(ctx, id.Hex())
	}
	return nil
}

// Hierarchy queries
func (r *vendorRepository) GetSubtreeIDs(ctx context.Context, rootID primitive.ObjectID) ([]primitive.ObjectID, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"_id": rootID},
			{"ancestors": rootID},
		},
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		// Fail open to the root itself so a vendor never loses access to
		// its own resources when the subtree query is unavailable.
		r.logger.WithError(err).WithField("vendor_id", rootID.Hex()).
			Warn("subtree query failed, falling back to root vendor only")
		return []primitive.ObjectID{rootID}, nil
	}
	defer cursor.Close(ctx)

	var ids []primitive.ObjectID
	for cursor.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			r.logger.WithError(err).WithField("vendor_id", rootID.Hex()).
				Warn("subtree decode failed, falling back to root vendor only")
			return []primitive.ObjectID{rootID}, nil
		}
		ids = append(ids, doc.ID)
	}
	if err := cursor.Err(); err != nil {
		r.logger.WithError(err).WithField("vendor_id", rootID.Hex()).
			Warn("subtree cursor failed, falling back to root vendor only")
		return []primitive.ObjectID{rootID}, nil
	}

	if len(ids) == 0 {
		ids = []primitive.ObjectID{rootID}
	}
	return ids, nil
}

func (r *vendorRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Vendor, error) {
	if len(ids) == 0 {
		return []*models.Vendor{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to get vendors by ids: %w", err)
	}
	defer cursor.Close(ctx)

	var vendors []*models.Vendor
	if err := cursor.All(ctx, &vendors); err != nil {
		return nil, fmt.Errorf("failed to decode vendors: %w", err)
	}
	return vendors, nil
}

func (r *vendorRepository) GetChildren(ctx context.Context, parentID primitive.ObjectID) ([]*models.Vendor, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"parentVendorId": parentID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to get child vendors: %w", err)
	}
	defer cursor.Close(ctx)

	var vendors []*models.Vendor
	if err := cursor.All(ctx, &vendors); err != nil {
		return nil, fmt.Errorf("failed to decode child vendors: %w", err)
	}
	return vendors, nil
}

func (r *vendorRepository) ReparentChildren(ctx context.Context, vendorID, newParentID primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(
		ctx,
		bson.M{"parentVendorId": vendorID},
		bson.M{"$set": bson.M{
			"parentVendorId": newParentID,
			"updated_at":     time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to reparent child vendors: %w", err)
	}
	return nil
}

func (r *vendorRepository) List(ctx context.Context, ids []primitive.ObjectID, level models.VendorLevel, region, city string) ([]*models.Vendor, error) {
	filter := bson.M{"_id": bson.M{"$in": ids}}
	if level != "" {
		filter["level"] = level
	}
	if region != "" {
		filter["region"] = region
	}
	if city != "" {
		filter["city"] = city
	}

	cursor, err := r.collection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "levelValue", Value: 1}, {Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list vendors: %w", err)
	}
	defer cursor.Close(ctx)

	var vendors []*models.Vendor
	if err := cursor.All(ctx, &vendors); err != nil {
		return nil, fmt.Errorf("failed to decode vendors: %w", err)
	}
	return vendors, nil
}

func (r *vendorRepository) CountByLevel(ctx context.Context, ids []primitive.ObjectID) (map[models.VendorLevel]int64, error) {
	pipeline := []bson.M{
		{"$match": bson.M{"_id": bson.M{"$in": ids}}},
		{"$group": bson.M{"_id": "$level", "count": bson.M{"$sum": 1}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to count vendors by level: %w", err)
	}
	defer cursor.Close(ctx)

	counts := make(map[models.VendorLevel]int64)
	for cursor.Next(ctx) {
		var row struct {
			Level models.VendorLevel `bson:"_id"`
			Count int64              `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("failed to decode vendor level count: %w", err)
		}
		counts[row.Level] = row.Count
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate vendor level counts: %w", err)
	}
	return counts, nil
}

// Cache helpers
func (r *vendorRepository) cacheVendor(ctx context.Context, vendor *models.Vendor) {
	if r.cache != nil {
		cacheKey := utils.CacheKeyVendorPrefix + vendor.ID.Hex()
		r.cache.Set(ctx, cacheKey, vendor, utils.VendorCacheTTL)
	}
}

func (r *vendorRepository) getVendorFromCache(ctx context.Context, vendorID string) *models.Vendor {
	if r.cache == nil {
		return nil
	}

	cacheKey := utils.CacheKeyVendorPrefix + vendorID
	var vendor models.Vendor
	if err := r.cache.Get(ctx, cacheKey, &vendor); err != nil {
		return nil
	}
	return &vendor
}

func (r *vendorRepository) invalidateVendorCache(ctx context.Context, vendorID string) {
	if r.cache != nil {
		r.cache.Delete(ctx, utils.CacheKeyVendorPrefix+vendorID)
	}
}
