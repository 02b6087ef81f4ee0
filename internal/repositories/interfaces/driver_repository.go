package interfaces

import (
	"context"
	"time"

	"fleethub/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DriverListFilter narrows subtree-scoped driver listings. Skip and Limit
// page the result; a zero Limit means no paging.
type DriverListFilter struct {
	Status models.DriverStatus
	Region string
	City   string
	Skip   int64
	Limit  int64
}

type DriverRepository interface {
	Create(ctx context.Context, driver *models.Driver) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Driver, error)

	// Save persists the full document; used after in-memory mutations of
	// documents, compliance state or assignment links.
	Save(ctx context.Context, driver *models.Driver) error
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	List(ctx context.Context, vendorIDs []primitive.ObjectID, filter *DriverListFilter) ([]*models.Driver, error)
	Count(ctx context.Context, vendorIDs []primitive.ObjectID, filter *DriverListFilter) (int64, error)
	CountNonCompliant(ctx context.Context, vendorIDs []primitive.ObjectID) (int64, error)
	CountPendingDocuments(ctx context.Context, vendorIDs []primitive.ObjectID) (int64, error)
	FindWithExpiringDocuments(ctx context.Context, vendorIDs []primitive.ObjectID, from, until time.Time, limit int64) ([]*models.Driver, error)

	// ReassignVendor moves every driver owned by the given vendors to a new
	// owner; used by the vendor-delete cascade.
	ReassignVendor(ctx context.Context, fromVendorIDs []primitive.ObjectID, toVendorID primitive.ObjectID) error
}
