package services

import (
	"context"
	"errors"
	"fmt"

	"fleethub/internal/models"
	"fleethub/internal/repositories/interfaces"
	"fleethub/internal/utils"
	"fleethub/internal/validators"
	"fleethub/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type VendorService interface {
	GetVendor(ctx context.Context, principal *models.Principal, id primitive.ObjectID) (*models.Vendor, error)
	GetSubtree(ctx context.Context, principal *models.Principal, id primitive.ObjectID) (*SubtreeResponse, error)
	GetChildren(ctx context.Context, principal *models.Principal, id primitive.ObjectID) ([]*models.Vendor, error)
	ListVendors(ctx context.Context, principal *models.Principal, level models.VendorLevel, region, city string) ([]*models.Vendor, error)

	CreateSubVendor(ctx context.Context, principal *models.Principal, parentID primitive.ObjectID, request *validators.CreateSubVendorRequest) (*models.Vendor, error)
	UpdateVendor(ctx context.Context, principal *models.Principal, id primitive.ObjectID, request *validators.UpdateVendorRequest) (*models.Vendor, error)
	DeleteVendor(ctx context.Context, principal *models.Principal, id primitive.ObjectID) error

	GetPermissions(ctx context.Context, principal *models.Principal, id primitive.ObjectID) (*PermissionsResponse, error)
	UpdatePermissions(ctx context.Context, principal *models.Principal, id primitive.ObjectID, request *validators.UpdatePermissionsRequest) (*models.Vendor, error)

	GetStats(ctx context.Context, principal *models.Principal, id primitive.ObjectID) (*VendorStats, error)
}

type vendorService struct {
	vendorRepo  interfaces.VendorRepository
	userRepo    interfaces.UserRepository
	driverRepo  interfaces.DriverRepository
	vehicleRepo interfaces.VehicleRepository
	txRunner    interfaces.TransactionRunner
	logger      *logger.Logger
}

type SubtreeResponse struct {
	Root primitive.ObjectID `json:"root"`
	Tree []*models.Vendor   `json:"tree"`
}

type PermissionsResponse struct {
	VendorID    primitive.ObjectID `json:"vendorId"`
	Permissions models.Permissions `json:"permissions"`
}

type VendorStats struct {
	Vendor *models.Vendor   `json:"vendor"`
	Counts VendorStatCounts `json:"counts"`

	DirectSubVendors []*models.Vendor `json:"directSubvendors"`
}

type VendorStatCounts struct {
	SubVendors      int64 `json:"subvendors"`
	SuperVendors    int64 `json:"superVendors"`
	RegionalVendors int64 `json:"regionalVendors"`
	CityVendors     int64 `json:"cityVendors"`

	Drivers                 int64 `json:"drivers"`
	AvailableDrivers        int64 `json:"availableDrivers"`
	OnDutyDrivers           int64 `json:"onDutyDrivers"`
	NonCompliantDrivers     int64 `json:"nonCompliantDrivers"`
	DriversPendingDocuments int64 `json:"driversPendingDocuments"`

	Vehicles                 int64 `json:"vehicles"`
	AvailableVehicles        int64 `json:"availableVehicles"`
	InServiceVehicles        int64 `json:"inServiceVehicles"`
	MaintenanceVehicles      int64 `json:"maintenanceVehicles"`
	UnassignedVehicles       int64 `json:"unassignedVehicles"`
	NonCompliantVehicles     int64 `json:"nonCompliantVehicles"`
	VehiclesPendingDocuments int64 `json:"vehiclesPendingDocuments"`
}

func NewVendorService(
	vendorRepo interfaces.VendorRepository,
	userRepo interfaces.UserRepository,
	driverRepo interfaces.DriverRepository,
	vehicleRepo interfaces.VehicleRepository,
	txRunner interfaces.TransactionRunner,
	logger *logger.Logger,
) VendorService {
	return &vendorService{
		vendorRepo:  vendorRepo,
		userRepo:    userRepo,
		driverRepo:  driverRepo,
		vehicleRepo: vehicleRepo,
		txRunner:    txRunner,
		logger:      logger,
	}
}

func (s *vendorService) GetVendor(ctx context.Context, principal *models.Principal, id primitive.ObjectID) (*models.Vendor, error) {
	vendor, err := s.vendorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoErr(err, "vendor")
	}
	if _, err := requireInScope(ctx, s.vendorRepo, principal, vendor.ID); err != nil {
		return nil, err
	}
	return vendor, nil
}

func (s *vendorService) GetSubtree(ctx context.Context, principal *models.Principal, id primitive.ObjectID) (*SubtreeResponse, error) {
	vendor, err := s.vendorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoErr(err, "vendor")
	}
	if _, err := requireInScope(ctx, s.vendorRepo, principal, vendor.ID); err != nil {
		return nil, err
	}

	subtreeIDs, err := s.vendorRepo.GetSubtreeIDs(ctx, id)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	vendors, err := s.vendorRepo.GetByIDs(ctx, subtreeIDs)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	return &SubtreeResponse{Root: id, Tree: vendors}, nil
}

func (s *vendorService) GetChildren(ctx context.Context, principal *models.Principal, id primitive.ObjectID) ([]*models.Vendor, error) {
	vendor, err := s.vendorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoErr(err, "vendor")
	}
	if _, err := requireInScope(ctx, s.vendorRepo, principal, vendor.ID); err != nil {
		return nil, err
	}
	children, err := s.vendorRepo.GetChildren(ctx, id)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	return children, nil
}

func (s *vendorService) ListVendors(ctx context.Context, principal *models.Principal, level models.VendorLevel, region, city string) ([]*models.Vendor, error) {
	if level != "" && !models.IsValidVendorLevel(level) {
		return nil, utils.NewValidationError("invalid vendor level")
	}

	subtree, err := s.vendorRepo.GetSubtreeIDs(ctx, principal.VendorID)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	vendors, err := s.vendorRepo.List(ctx, subtree, level, region, city)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	return vendors, nil
}

func (s *vendorService) CreateSubVendor(ctx context.Context, principal *models.Principal, parentID primitive.ObjectID, request *validators.CreateSubVendorRequest) (*models.Vendor, error) {
	if errs := validators.ValidateCreateSubVendor(request); len(errs) > 0 {
		return nil, utils.NewValidationError(errs.Error())
	}

	parent, err := s.vendorRepo.GetByID(ctx, parentID)
	if err != nil {
		return nil, translateRepoErr(err, "parent vendor")
	}
	if _, err := requireInScope(ctx, s.vendorRepo, principal, parent.ID); err != nil {
		return nil, err
	}
	if !principal.Can(models.CapCreateSubVendor) {
		return nil, utils.NewForbiddenError("you do not have permission to create sub-vendors")
	}

	newLevelValue := parent.LevelValue + 1
	if newLevelValue > models.LevelValueCity {
		return nil, utils.NewValidationError("cannot create vendors below city level")
	}
	newLevel := models.VendorLevelForValue(newLevelValue)
	if request.Level != "" && models.VendorLevel(request.Level) != newLevel {
		return nil, utils.NewValidationError(fmt.Sprintf("level must be %s for a child of %s", newLevel, parent.Level))
	}

	if _, err := s.userRepo.GetByEmail(ctx, request.Email); err == nil {
		return nil, utils.NewConflictError("email already exists")
	} else if !errors.Is(err, interfaces.ErrNotFound) {
		return nil, utils.NewInternalError(err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, utils.NewInternalError(fmt.Errorf("failed to hash password: %w", err))
	}

	vendor := &models.Vendor{
		Name:           request.Name,
		Level:          newLevel,
		LevelValue:     newLevelValue,
		ParentVendorID: &parent.ID,
		Ancestors:      append(append([]primitive.ObjectID{}, parent.Ancestors...), parent.ID),
		Region:         request.Region,
		City:           request.City,
		Permissions:    models.DefaultPermissions(newLevelValue),
	}

	err = s.txRunner.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.vendorRepo.Create(ctx, vendor); err != nil {
			return err
		}
		user := &models.User{
			Email:        request.Email,
			PasswordHash: string(passwordHash),
			Role:         models.UserRole(newLevel),
			VendorID:     vendor.ID,
		}
		return s.userRepo.Create(ctx, user)
	})
	if err != nil {
		s.logger.WithError(err).WithField("parent_id", parentID.Hex()).Error("Failed to create sub-vendor")
		return nil, utils.NewInternalError(err)
	}

	s.logger.WithFields(map[string]interface{}{
		"vendor_id": vendor.ID.Hex(),
		"parent_id": parentID.Hex(),
		"level":     string(newLevel),
	}).Info("Sub-vendor created")

	return vendor, nil
}

func (s *vendorService) UpdateVendor(ctx context.Context, principal *models.Principal, id primitive.ObjectID, request *validators.UpdateVendorRequest) (*models.Vendor, error) {
	if errs := validators.ValidateUpdateVendor(request); len(errs) > 0 {
		return nil, utils.NewValidationError(errs.Error())
	}

	vendor, err := s.vendorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoErr(err, "vendor")
	}
	if _, err := requireInScope(ctx, s.vendorRepo, principal, vendor.ID); err != nil {
		return nil, err
	}
	if !principal.Can(models.CapEditSubVendor) {
		return nil, utils.NewForbiddenError("you do not have permission to edit vendors")
	}

	updates := map[string]interface{}{}
	if request.Name != nil {
		updates["name"] = *request.Name
		vendor.Name = *request.Name
	}
	if request.Region != nil {
		updates["region"] = *request.Region
		vendor.Region = *request.Region
	}
	if request.City != nil {
		updates["city"] = *request.City
		vendor.City = *request.City
	}
	if len(updates) == 0 {
		return vendor, nil
	}

	if err := s.vendorRepo.Update(ctx, id, updates); err != nil {
		return nil, translateRepoErr(err, "vendor")
	}
	return vendor, nil
}

// DeleteVendor removes a vendor and its whole subtree in one transaction.
// Drivers and vehicles owned anywhere in the subtree move to the deleted
// vendor's parent, direct children are reparented first, and every login
// account in the subtree is dropped.
func (s *vendorService) DeleteVendor(ctx context.Context, principal *models.Principal, id primitive.ObjectID) error {
	vendor, err := s.vendorRepo.GetByID(ctx, id)
	if err != nil {
		return translateRepoErr(err, "vendor")
	}
	if _, err := requireInScope(ctx, s.vendorRepo, principal, vendor.ID); err != nil {
		return err
	}
	if !principal.Can(models.CapDeleteSubVendor) {
		return utils.NewForbiddenError("you do not have permission to delete vendors")
	}
	if vendor.IsRoot() {
		return utils.NewValidationError("cannot delete root vendor")
	}
	parentID := *vendor.ParentVendorID

	err = s.txRunner.RunInTransaction(ctx, func(ctx context.Context) error {
		subtreeIDs, err := s.vendorRepo.GetSubtreeIDs(ctx, id)
		if err != nil {
			return err
		}

		if err := s.vendorRepo.ReparentChildren(ctx, id, parentID); err != nil {
			return err
		}
		if err := s.driverRepo.ReassignVendor(ctx, subtreeIDs, parentID); err != nil {
			return err
		}
		if err := s.vehicleRepo.ReassignVendor(ctx, subtreeIDs, parentID); err != nil {
			return err
		}
		if err := s.userRepo.DeleteByVendorIDs(ctx, subtreeIDs); err != nil {
			return err
		}

		var others []primitive.ObjectID
		for _, subID := range subtreeIDs {
			if subID != id {
				others = append(others, subID)
			}
		}
		if err := s.vendorRepo.DeleteMany(ctx, others); err != nil {
			return err
		}
		return s.vendorRepo.Delete(ctx, id)
	})
	if err != nil {
		s.logger.WithError(err).WithField("vendor_id", id.Hex()).Error("Failed to delete vendor")
		return utils.NewInternalError(err)
	}

	s.logger.WithField("vendor_id", id.Hex()).Info("Vendor deleted")
	return nil
}

func (s *vendorService) GetPermissions(ctx context.Context, principal *models.Principal, id primitive.ObjectID) (*PermissionsResponse, error) {
	vendor, err := s.vendorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoErr(err, "vendor")
	}
	if _, err := requireInScope(ctx, s.vendorRepo, principal, vendor.ID); err != nil {
		return nil, err
	}
	return &PermissionsResponse{VendorID: vendor.ID, Permissions: vendor.Permissions}, nil
}

func (s *vendorService) UpdatePermissions(ctx context.Context, principal *models.Principal, id primitive.ObjectID, request *validators.UpdatePermissionsRequest) (*models.Vendor, error) {
	if errs := validators.ValidateUpdatePermissions(request); len(errs) > 0 {
		return nil, utils.NewValidationError(errs.Error())
	}

	vendor, err := s.vendorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoErr(err, "vendor")
	}

	// The grant is read from the caller's vendor record, not the token
	// snapshot, so a revocation takes effect immediately.
	callerVendor, err := s.vendorRepo.GetByID(ctx, principal.VendorID)
	if err != nil {
		return nil, translateRepoErr(err, "vendor")
	}
	if !callerVendor.Permissions.Has(models.CapEditPermissions) {
		return nil, utils.NewForbiddenError("you do not have permission to modify vendor permissions")
	}
	if _, err := requireInScope(ctx, s.vendorRepo, principal, vendor.ID); err != nil {
		return nil, err
	}

	// A super vendor's record may only be changed by that vendor itself.
	if vendor.Level == models.VendorLevelSuper && vendor.ID != principal.VendorID {
		return nil, utils.NewForbiddenError("cannot modify super vendor permissions")
	}

	merged := vendor.Permissions
	for name, value := range request.Permissions {
		if !merged.Set(models.Capability(name), value) {
			return nil, utils.NewValidationError(fmt.Sprintf("unknown permission: %s", name))
		}
	}
	vendor.Permissions = merged

	if err := s.vendorRepo.Update(ctx, id, map[string]interface{}{"permissions": merged}); err != nil {
		return nil, translateRepoErr(err, "vendor")
	}

	s.logger.WithFields(map[string]interface{}{
		"vendor_id":  id.Hex(),
		"updated_by": principal.UserID.Hex(),
	}).Info("Vendor permissions updated")

	return vendor, nil
}

func (s *vendorService) GetStats(ctx context.Context, principal *models.Principal, id primitive.ObjectID) (*VendorStats, error) {
	vendor, err := s.vendorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoErr(err, "vendor")
	}
	if _, err := requireInScope(ctx, s.vendorRepo, principal, vendor.ID); err != nil {
		return nil, err
	}

	subtreeIDs, err := s.vendorRepo.GetSubtreeIDs(ctx, id)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	counts := VendorStatCounts{SubVendors: int64(len(subtreeIDs) - 1)}

	byLevel, err := s.vendorRepo.CountByLevel(ctx, subtreeIDs)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	counts.SuperVendors = byLevel[models.VendorLevelSuper]
	counts.RegionalVendors = byLevel[models.VendorLevelRegional]
	counts.CityVendors = byLevel[models.VendorLevelCity]

	if counts.Drivers, err = s.driverRepo.Count(ctx, subtreeIDs, nil); err != nil {
		return nil, utils.NewInternalError(err)
	}
	if counts.AvailableDrivers, err = s.driverRepo.Count(ctx, subtreeIDs, &interfaces.DriverListFilter{Status: models.DriverStatusAvailable}); err != nil {
		return nil, utils.NewInternalError(err)
	}
	if counts.OnDutyDrivers, err = s.driverRepo.Count(ctx, subtreeIDs, &interfaces.DriverListFilter{Status: models.DriverStatusOnDuty}); err != nil {
		return nil, utils.NewInternalError(err)
	}
	if counts.NonCompliantDrivers, err = s.driverRepo.CountNonCompliant(ctx, subtreeIDs); err != nil {
		return nil, utils.NewInternalError(err)
	}
	if counts.DriversPendingDocuments, err = s.driverRepo.CountPendingDocuments(ctx, subtreeIDs); err != nil {
		return nil, utils.NewInternalError(err)
	}

	if counts.Vehicles, err = s.vehicleRepo.Count(ctx, subtreeIDs, nil); err != nil {
		return nil, utils.NewInternalError(err)
	}
	if counts.AvailableVehicles, err = s.vehicleRepo.Count(ctx, subtreeIDs, &interfaces.VehicleListFilter{Status: models.VehicleStatusAvailable}); err != nil {
		return nil, utils.NewInternalError(err)
	}
	if counts.InServiceVehicles, err = s.vehicleRepo.Count(ctx, subtreeIDs, &interfaces.VehicleListFilter{Status: models.VehicleStatusInService}); err != nil {
		return nil, utils.NewInternalError(err)
	}
	if counts.MaintenanceVehicles, err = s.vehicleRepo.Count(ctx, subtreeIDs, &interfaces.VehicleListFilter{Status: models.VehicleStatusMaintenance}); err != nil {
		return nil, utils.NewInternalError(err)
	}
	if counts.UnassignedVehicles, err = s.vehicleRepo.CountUnassignedAvailable(ctx, subtreeIDs); err != nil {
		return nil, utils.NewInternalError(err)
	}
	if counts.NonCompliantVehicles, err = s.vehicleRepo.CountNonCompliant(ctx, subtreeIDs); err != nil {
		return nil, utils.NewInternalError(err)
	}
	if counts.VehiclesPendingDocuments, err = s.vehicleRepo.CountPendingDocuments(ctx, subtreeIDs); err != nil {
		return nil, utils.NewInternalError(err)
	}

	children, err := s.vendorRepo.GetChildren(ctx, id)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	return &VendorStats{
		Vendor:           vendor,
		Counts:           counts,
		DirectSubVendors: children,
	}, nil
}
