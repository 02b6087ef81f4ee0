package interfaces

import (
	"context"
	"errors"

	"fleethub/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned by repositories when a lookup matches nothing.
// Services translate it into the caller-facing not-found error.
var ErrNotFound = errors.New("not found")

type VendorRepository interface {
	Create(ctx context.Context, vendor *models.Vendor) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Vendor, error)
	GetByName(ctx context.Context, name string) (*models.Vendor, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteMany(ctx context.Context, ids []primitive.ObjectID) error

	// GetSubtreeIDs returns rootID plus every vendor whose ancestors array
	// contains rootID. On a backing query failure it falls back to just
	// [rootID] so a principal never loses access to their own vendor.
	GetSubtreeIDs(ctx context.Context, rootID primitive.ObjectID) ([]primitive.ObjectID, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Vendor, error)
	GetChildren(ctx context.Context, parentID primitive.ObjectID) ([]*models.Vendor, error)

	// ReparentChildren points the direct children of vendorID at newParentID.
	// Ancestors arrays are intentionally not recomputed; subtree queries
	// tolerate the resulting dangling ancestor ids.
	ReparentChildren(ctx context.Context, vendorID, newParentID primitive.ObjectID) error

	List(ctx context.Context, ids []primitive.ObjectID, level models.VendorLevel, region, city string) ([]*models.Vendor, error)
	CountByLevel(ctx context.Context, ids []primitive.ObjectID) (map[models.VendorLevel]int64, error)
}
