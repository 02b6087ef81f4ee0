package interfaces

import (
	"context"
	"time"

	"fleethub/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VehicleListFilter narrows subtree-scoped vehicle listings. Skip and Limit
// page the result; a zero Limit means no paging.
type VehicleListFilter struct {
	Status models.VehicleStatus
	Region string
	City   string
	Skip   int64
	Limit  int64
}

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *models.Vehicle) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error)
	GetByRegNumber(ctx context.Context, regNumber string) (*models.Vehicle, error)

	// Save persists the full document; used after in-memory mutations of
	// documents, compliance state or assignment links.
	Save(ctx context.Context, vehicle *models.Vehicle) error
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	List(ctx context.Context, vendorIDs []primitive.ObjectID, filter *VehicleListFilter) ([]*models.Vehicle, error)
	Count(ctx context.Context, vendorIDs []primitive.ObjectID, filter *VehicleListFilter) (int64, error)
	CountUnassignedAvailable(ctx context.Context, vendorIDs []primitive.ObjectID) (int64, error)
	CountNonCompliant(ctx context.Context, vendorIDs []primitive.ObjectID) (int64, error)
	CountPendingDocuments(ctx context.Context, vendorIDs []primitive.ObjectID) (int64, error)
	FindWithExpiringDocuments(ctx context.Context, vendorIDs []primitive.ObjectID, from, until time.Time, limit int64) ([]*models.Vehicle, error)

	// ReassignVendor moves every vehicle owned by the given vendors to a new
	// owner; used by the vendor-delete cascade.
	ReassignVendor(ctx context.Context, fromVendorIDs []primitive.ObjectID, toVendorID primitive.ObjectID) error
}
