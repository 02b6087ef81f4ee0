package mongodb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fleethub/internal/models"
	"fleethub/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type vehicleRepository struct {
	collection *mongo.Collection
}

func NewVehicleRepository(db *mongo.Database) interfaces.VehicleRepository {
	return &vehicleRepository{
		collection: db.Collection("vehicles"),
	}
}

// Basic CRUD operations
func (r *vehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	if vehicle.ID.IsZero() {
		vehicle.ID = primitive.NewObjectID()
	}
	vehicle.CreatedAt = time.Now()
	vehicle.UpdatedAt = time.Now()

	// Normalize registration number to uppercase
	vehicle.RegNumber = strings.ToUpper(strings.TrimSpace(vehicle.RegNumber))

	_, err := r.collection.InsertOne(ctx, vehicle)
	if err != nil {
		return fmt.Errorf("failed to create vehicle: %w", err)
	}
	return nil
}

func (r *vehicleRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&vehicle)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}
	return &vehicle, nil
}

func (r *vehicleRepository) GetByRegNumber(ctx context.Context, regNumber string) (*models.Vehicle, error) {
	regNumber = strings.ToUpper(strings.TrimSpace(regNumber))

	var vehicle models.Vehicle
	err := r.collection.FindOne(ctx, bson.M{"regNumber": regNumber}).Decode(&vehicle)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get vehicle by registration number: %w", err)
	}
	return &vehicle, nil
}

func (r *vehicleRepository) Save(ctx context.Context, vehicle *models.Vehicle) error {
	vehicle.UpdatedAt = time.Now()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": vehicle.ID}, vehicle)
	if err != nil {
		return fmt.Errorf("failed to save vehicle: %w", err)
	}
	if result.MatchedCount == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}

func (r *vehicleRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	// Normalize registration number if being updated
	if regNumber, exists := updates["regNumber"]; exists {
		if regStr, ok := regNumber.(string); ok {
			updates["regNumber"] = strings.ToUpper(strings.TrimSpace(regStr))
		}
	}

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update vehicle: %w", err)
	}
	if result.MatchedCount == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}

func (r *vehicleRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}
	if result.DeletedCount == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}

func vehicleListQuery(vendorIDs []primitive.ObjectID, filter *interfaces.VehicleListFilter) bson.M {
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
func (r *vehicleRepository) List(ctx context.Context, vendorIDs []primitive.ObjectID, filter *interfaces.VehicleListFilter) ([]*models.Vehicle, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter != nil && filter.Limit > 0 {
		opts.SetSkip(filter.Skip).SetLimit(filter.Limit)
	}

	cursor, err := r.collection.Find(ctx, vehicleListQuery(vendorIDs, filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	defer cursor.Close(ctx)

	var vehicles []*models.Vehicle
	if err := cursor.All(ctx, &vehicles); err != nil {
		return nil, fmt.Errorf("failed to decode vehicles: %w", err)
	}
	return vehicles, nil
}

func (r *vehicleRepository) Count(ctx context.Context, vendorIDs []primitive.ObjectID, filter *interfaces.VehicleListFilter) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, vehicleListQuery(vendorIDs, filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count vehicles: %w", err)
	}
	return count, nil
}

func (r *vehicleRepository) CountUnassignedAvailable(ctx context.Context, vendorIDs []primitive.ObjectID) (int64, error) {
	query := bson.M{
		"vendorId":         bson.M{"$in": vendorIDs},
		"status":           models.VehicleStatusAvailable,
		"assignedDriverId": bson.M{"$exists": false},
	}

	count, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to count unassigned vehicles: %w", err)
	}
	return count, nil
}

func (r *vehicleRepository) CountNonCompliant(ctx context.Context, vendorIDs []primitive.ObjectID) (int64, error) {
	query := bson.M{
		"vendorId":                           bson.M{"$in": vendorIDs},
		"complianceStatus.overall.compliant": bson.M{"$ne": true},
	}

	count, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to count non-compliant vehicles: %w", err)
	}
	return count, nil
}

func (r *vehicleRepository) CountPendingDocuments(ctx context.Context, vendorIDs []primitive.ObjectID) (int64, error) {
	// Pending means uploaded but not yet verified, for any known doc type.
	var pending []bson.M
	for _, docType := range models.VehicleDocTypes {
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
		return 0, fmt.Errorf("failed to count vehicles with pending documents: %w", err)
	}
	return count, nil
}

func (r *vehicleRepository) FindWithExpiringDocuments(ctx context.Context, vendorIDs []primitive.ObjectID, from, until time.Time, limit int64) ([]*models.Vehicle, error) {
	var expiring []bson.M
	for _, docType := range models.VehicleDocTypes {
		expiring = append(expiring, bson.M{
			"documents." + string(docType) + ".expiresAt": bson.M{"$gte": from, "$lte": until},
		})
	}

	query := bson.M{
		"vendorId": bson.M{"$in": vendorIDs},
		"$or":      expiring,
	}

	opts := options.Find().SetSort(bson.D{{Key: "regNumber", Value: 1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find vehicles with expiring documents: %w", err)
	}
	defer cursor.Close(ctx)

	var vehicles []*models.Vehicle
	if err := cursor.All(ctx, &vehicles); err != nil {
		return nil, fmt.Errorf("failed to decode vehicles: %w", err)
	}
	return vehicles, nil
}

func (r *vehicleRepository) ReassignVendor(ctx context.Context, fromVendorIDs []primitive.ObjectID, toVendorID primitive.ObjectID) error {
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
		return fmt.Errorf("failed to reassign vehicles: %w", err)
	}
	return nil
}
