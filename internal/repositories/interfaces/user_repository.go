package interfaces

import (
	"context"

	"fleethub/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// DeleteByVendorIDs removes every user account belonging to the given
	// vendors; used by the vendor-delete cascade.
	DeleteByVendorIDs(ctx context.Context, vendorIDs []primitive.ObjectID) error
}
