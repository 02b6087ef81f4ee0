package services

import (
	"context"
	"errors"

	"fleethub/internal/models"
	"fleethub/internal/repositories/interfaces"
	"fleethub/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

// requireInScope resolves the principal's subtree and checks that the target
// vendor belongs to it. Existence of the target must already be established
// by the caller so a missing resource reads as 404 rather than 403.
func requireInScope(ctx context.Context, vendorRepo interfaces.VendorRepository, principal *models.Principal, targetVendorID primitive.ObjectID) ([]primitive.ObjectID, error) {
	subtree, err := vendorRepo.GetSubtreeIDs(ctx, principal.VendorID)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	if !containsID(subtree, targetVendorID) {
		return nil, utils.NewForbiddenError(utils.MsgNotInSubtree)
	}
	return subtree, nil
}

// translateRepoErr maps the repository not-found sentinel onto the
// caller-facing error for the named resource.
func translateRepoErr(err error, resource string) error {
	if errors.Is(err, interfaces.ErrNotFound) {
		return utils.NewNotFoundError(resource)
	}
	return utils.NewInternalError(err)
}
