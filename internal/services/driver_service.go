package services

import (
	"context"
	"time"

	"fleethub/internal/models"
	"fleethub/internal/repositories/interfaces"
	"fleethub/internal/utils"
	"fleethub/internal/validators"
	"fleethub/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DriverService interface {
	ListDrivers(ctx context.Context, principal *models.Principal, request *validators.ListDriversRequest, page *utils.PaginationParams) ([]*models.Driver, int64, error)
	GetDriver(ctx context.Context, principal *models.Principal, id primitive.ObjectID) (*models.Driver, error)
	CreateDriver(ctx context.Context, principal *models.Principal, request *validators.CreateDriverRequest) (*models.Driver, error)
	UpdateDriver(ctx context.Context, principal *models.Principal, id primitive.ObjectID, request *validators.UpdateDriverRequest) (*models.Driver, error)
	DeleteDriver(ctx context.Context, principal *models.Principal, id primitive.ObjectID) error
	UpdateStatus(ctx context.Context, principal *models.Principal, id primitive.ObjectID, request *validators.UpdateDriverStatusRequest) (*models.Driver, error)
}

type driverService struct {
	driverRepo  interfaces.DriverRepository
	vehicleRepo interfaces.VehicleRepository
	vendorRepo  interfaces.VendorRepository
	txRunner    interfaces.TransactionRunner
	logger      *logger.Logger
}

func NewDriverService(
	driverRepo interfaces.DriverRepository,
	vehicleRepo interfaces.VehicleRepository,
	vendorRepo interfaces.VendorRepository,
	txRunner interfaces.TransactionRunner,
	logger *logger.Logger,
) DriverService {
	return &driverService{
		driverRepo:  driverRepo,
		vehicleRepo: vehicleRepo,
		vendorRepo:  vendorRepo,
		txRunner:    txRunner,
		logger:      logger,
	}
}

func (s *driverService) ListDrivers(ctx context.Context, principal *models.Principal, request *validators.ListDriversRequest, page *utils.PaginationParams) ([]*models.Driver, int64, error) {
	if errs := validators.ValidateListDrivers(request); len(errs) > 0 {
		return nil, 0, utils.NewValidationError(errs.Error())
	}

	subtree, err := s.vendorRepo.GetSubtreeIDs(ctx, principal.VendorID)
	if err != nil {
		return nil, 0, utils.NewInternalError(err)
	}

	filter := &interfaces.DriverListFilter{
		Status: models.DriverStatus(request.Status),
		Region: request.Region,
		City:   request.City,
	}
	if page != nil {
		filter.Skip = int64(page.GetSkip())
		filter.Limit = int64(page.GetLimit())
	}

	total, err := s.driverRepo.Count(ctx, subtree, filter)
	if err != nil {
		return nil, 0, utils.NewInternalError(err)
	}
	drivers, err := s.driverRepo.List(ctx, subtree, filter)
	if err != nil {
		return nil, 0, utils.NewInternalError(err)
	}
	return drivers, total, nil
}

func (s *driverService) GetDriver(ctx context.Context, principal *models.Principal, id primitive.ObjectID) (*models.Driver, error) {
	driver, err := s.driverRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoErr(err, "driver")
	}
	if _, err := requireInScope(ctx, s.vendorRepo, principal, driver.VendorID); err != nil {
		return nil, err
	}
	return driver, nil
}

func (s *driverService) CreateDriver(ctx context.Context, principal *models.Principal, request *validators.CreateDriverRequest) (*models.Driver, error) {
	if errs := validators.ValidateCreateDriver(request); len(errs) > 0 {
		return nil, utils.NewValidationError(errs.Error())
	}

	targetVendorID := principal.VendorID
	if request.VendorID != "" {
		id, err := primitive.ObjectIDFromHex(request.VendorID)
		if err != nil {
			return nil, utils.NewValidationError("invalid vendor id")
		}
		targetVendorID = id
		if _, err := requireInScope(ctx, s.vendorRepo, principal, targetVendorID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	driver := &models.Driver{
		Name:     request.Name,
		Contact:  request.Contact,
		VendorID: targetVendorID,
		Status:   models.DriverStatusAvailable,
		City:     request.City,
		Region:   request.Region,
	}
	if request.LicenseNumber != "" || request.LicenseURL != "" || request.LicenseExpiry != nil {
		driver.SetDocument(models.DocDrivingLicense, models.Document{
			URL:           request.LicenseURL,
			UploadedAt:    &now,
			ExpiresAt:     request.LicenseExpiry,
			LicenseNumber: request.LicenseNumber,
		})
	}
	driver.CheckCompliance(now)

	if err := s.driverRepo.Create(ctx, driver); err != nil {
		return nil, utils.NewInternalError(err)
	}

	s.logger.WithFields(map[string]interface{}{
		"driver_id": driver.ID.Hex(),
		"vendor_id": targetVendorID.Hex(),
	}).Info("Driver created")

	return driver, nil
}

func (s *driverService) UpdateDriver(ctx context.Context, principal *models.Principal, id primitive.ObjectID, request *validators.UpdateDriverRequest) (*models.Driver, error) {
	if errs := validators.ValidateUpdateDriver(request); len(errs) > 0 {
		return nil, utils.NewValidationError(errs.Error())
	}

	driver, err := s.driverRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoErr(err, "driver")
	}
	subtree, err := requireInScope(ctx, s.vendorRepo, principal, driver.VendorID)
	if err != nil {
		return nil, err
	}

	if request.Name != nil {
		driver.Name = *request.Name
	}
	if request.Contact != nil {
		driver.Contact = *request.Contact
	}
	if request.City != nil {
		driver.City = *request.City
	}
	if request.Region != nil {
		driver.Region = *request.Region
	}
	if request.VendorID != nil {
		newVendorID, err := primitive.ObjectIDFromHex(*request.VendorID)
		if err != nil {
			return nil, utils.NewValidationError("invalid vendor id")
		}
		if !containsID(subtree, newVendorID) {
			return nil, utils.NewForbiddenError("cannot move driver to that vendor")
		}
		driver.VendorID = newVendorID
	}

	if err := s.driverRepo.Save(ctx, driver); err != nil {
		return nil, translateRepoErr(err, "driver")
	}
	return driver, nil
}

func (s *driverService) DeleteDriver(ctx context.Context, principal *models.Principal, id primitive.ObjectID) error {
	driver, err := s.driverRepo.GetByID(ctx, id)
	if err != nil {
		return translateRepoErr(err, "driver")
	}
	if _, err := requireInScope(ctx, s.vendorRepo, principal, driver.VendorID); err != nil {
		return err
	}

	err = s.txRunner.RunInTransaction(ctx, func(ctx context.Context) error {
		if driver.AssignedVehicleID != nil {
			updates := map[string]interface{}{
				"assignedDriverId": nil,
				"status":           models.VehicleStatusAvailable,
			}
			if err := s.vehicleRepo.Update(ctx, *driver.AssignedVehicleID, updates); err != nil {
				return err
			}
		}
		return s.driverRepo.Delete(ctx, id)
	})
	if err != nil {
		return utils.NewInternalError(err)
	}

	s.logger.WithField("driver_id", id.Hex()).Info("Driver deleted")
	return nil
}

// UpdateStatus enforces the compliance gate: AVAILABLE and ON_DUTY are
// reachable only for a compliant driver, and any status other than
// AVAILABLE releases the assigned vehicle.
func (s *driverService) UpdateStatus(ctx context.Context, principal *models.Principal, id primitive.ObjectID, request *validators.UpdateDriverStatusRequest) (*models.Driver, error) {
	if errs := validators.ValidateUpdateDriverStatus(request); len(errs) > 0 {
		return nil, utils.NewValidationError(errs.Error())
	}
	status := models.DriverStatus(request.Status)

	driver, err := s.driverRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoErr(err, "driver")
	}
	if _, err := requireInScope(ctx, s.vendorRepo, principal, driver.VendorID); err != nil {
		return nil, err
	}

	now := time.Now()
	if status.RequiresCompliance() && !driver.CheckCompliance(now) {
		// Persist the refreshed verdict even though the transition is refused.
		if saveErr := s.driverRepo.Save(ctx, driver); saveErr != nil {
			return nil, utils.NewInternalError(saveErr)
		}
		return nil, utils.NewComplianceError(
			"cannot set status to "+string(status)+": driver is not compliant with document requirements",
			driver.ComplianceStatus,
		)
	}

	err = s.txRunner.RunInTransaction(ctx, func(ctx context.Context) error {
		if status != models.DriverStatusAvailable && driver.AssignedVehicleID != nil {
			updates := map[string]interface{}{
				"assignedDriverId": nil,
				"status":           models.VehicleStatusAvailable,
			}
			if err := s.vehicleRepo.Update(ctx, *driver.AssignedVehicleID, updates); err != nil {
				return err
			}
			driver.AssignedVehicleID = nil
		}
		driver.Status = status
		return s.driverRepo.Save(ctx, driver)
	})
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	return driver, nil
}
