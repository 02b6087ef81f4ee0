package services

import (
	"context"
	"errors"
	"time"

	"fleethub/internal/models"
	"fleethub/internal/repositories/interfaces"
	"fleethub/internal/utils"
	"fleethub/internal/validators"
	"fleethub/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VehicleService interface {
	ListVehicles(ctx context.Context, principal *models.Principal, request *validators.ListVehiclesRequest, page *utils.PaginationParams) ([]*models.Vehicle, int64, error)
	GetVehicle(ctx context.Context, principal *models.Principal, id primitive.ObjectID) (*models.Vehicle, error)
	CreateVehicle(ctx context.Context, principal *models.Principal, request *validators.CreateVehicleRequest) (*models.Vehicle, error)
	UpdateVehicle(ctx context.Context, principal *models.Principal, id primitive.ObjectID, request *validators.UpdateVehicleRequest) (*models.Vehicle, error)
	DeleteVehicle(ctx context.Context, principal *models.Principal, id primitive.ObjectID) error
	UpdateStatus(ctx context.Context, principal *models.Principal, id primitive.ObjectID, request *validators.UpdateVehicleStatusRequest) (*models.Vehicle, error)
}

type vehicleService struct {
	vehicleRepo interfaces.VehicleRepository
	driverRepo  interfaces.DriverRepository
	vendorRepo  interfaces.VendorRepository
	txRunner    interfaces.TransactionRunner
	logger      *logger.Logger
}

func NewVehicleService(
	vehicleRepo interfaces.VehicleRepository,
	driverRepo interfaces.DriverRepository,
	vendorRepo interfaces.VendorRepository,
	txRunner interfaces.TransactionRunner,
	logger *logger.Logger,
) VehicleService {
	return &vehicleService{
		vehicleRepo: vehicleRepo,
		driverRepo:  driverRepo,
		vendorRepo:  vendorRepo,
		txRunner:    txRunner,
		logger:      logger,
	}
}

func (s *vehicleService) ListVehicles(ctx context.Context, principal *models.Principal, request *validators.ListVehiclesRequest, page *utils.PaginationParams) ([]*models.Vehicle, int64, error) {
	if errs := validators.ValidateListVehicles(request); len(errs) > 0 {
		return nil, 0, utils.NewValidationError(errs.Error())
	}

	subtree, err := s.vendorRepo.GetSubtreeIDs(ctx, principal.VendorID)
	if err != nil {
		return nil, 0, utils.NewInternalError(err)
	}

	filter := &interfaces.VehicleListFilter{
		Status: models.VehicleStatus(request.Status),
		Region: request.Region,
		City:   request.City,
	}
	if page != nil {
		filter.Skip = int64(page.GetSkip())
		filter.Limit = int64(page.GetLimit())
	}

	total, err := s.vehicleRepo.Count(ctx, subtree, filter)
	if err != nil {
		return nil, 0, utils.NewInternalError(err)
	}
	vehicles, err := s.vehicleRepo.List(ctx, subtree, filter)
	if err != nil {
		return nil, 0, utils.NewInternalError(err)
	}
	return vehicles, total, nil
}

func (s *vehicleService) GetVehicle(ctx context.Context, principal *models.Principal, id primitive.ObjectID) (*models.Vehicle, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoErr(err, "vehicle")
	}
	if _, err := requireInScope(ctx, s.vendorRepo, principal, vehicle.VendorID); err != nil {
		return nil, err
	}
	return vehicle, nil
}

func (s *vehicleService) CreateVehicle(ctx context.Context, principal *models.Principal, request *validators.CreateVehicleRequest) (*models.Vehicle, error) {
	if errs := validators.ValidateCreateVehicle(request); len(errs) > 0 {
		return nil, utils.NewValidationError(errs.Error())
	}

	if _, err := s.vehicleRepo.GetByRegNumber(ctx, request.RegNumber); err == nil {
		return nil, utils.NewConflictError("registration number must be unique")
	} else if !errors.Is(err, interfaces.ErrNotFound) {
		return nil, utils.NewInternalError(err)
	}

	targetVendorID := principal.VendorID
	region, city := request.Region, request.City
	if request.VendorID != "" {
		id, err := primitive.ObjectIDFromHex(request.VendorID)
		if err != nil {
			return nil, utils.NewValidationError("invalid vendor id")
		}
		targetVendorID = id
		if _, err := requireInScope(ctx, s.vendorRepo, principal, targetVendorID); err != nil {
			return nil, err
		}

		// Inherit placement from the owning vendor when not provided.
		if region == "" || city == "" {
			targetVendor, err := s.vendorRepo.GetByID(ctx, targetVendorID)
			if err != nil {
				return nil, translateRepoErr(err, "vendor")
			}
			if region == "" {
				region = targetVendor.Region
			}
			if city == "" {
				city = targetVendor.City
			}
		}
	}

	vehicle := &models.Vehicle{
		RegNumber:         request.RegNumber,
		Model:             request.Model,
		VendorID:          targetVendorID,
		Status:            models.VehicleStatusInactive,
		Capacity:          request.Capacity,
		FuelType:          models.FuelType(request.FuelType),
		VehicleType:       models.VehicleType(request.VehicleType),
		ManufacturingYear: request.ManufacturingYear,
		Color:             request.Color,
		City:              city,
		Region:            region,
	}
	if vehicle.Capacity == 0 {
		vehicle.Capacity = 4
	}
	if vehicle.FuelType == "" {
		vehicle.FuelType = models.FuelTypePetrol
	}
	if vehicle.VehicleType == "" {
		vehicle.VehicleType = models.VehicleTypeSedan
	}
	vehicle.CheckCompliance(time.Now())

	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		return nil, utils.NewInternalError(err)
	}

	s.logger.WithFields(map[string]interface{}{
		"vehicle_id": vehicle.ID.Hex(),
		"vendor_id":  targetVendorID.Hex(),
		"reg_number": vehicle.RegNumber,
	}).Info("Vehicle created")

	return vehicle, nil
}

func (s *vehicleService) UpdateVehicle(ctx context.Context, principal *models.Principal, id primitive.ObjectID, request *validators.UpdateVehicleRequest) (*models.Vehicle, error) {
	if errs := validators.ValidateUpdateVehicle(request); len(errs) > 0 {
		return nil, utils.NewValidationError(errs.Error())
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoErr(err, "vehicle")
	}
	subtree, err := requireInScope(ctx, s.vendorRepo, principal, vehicle.VendorID)
	if err != nil {
		return nil, err
	}

	if request.VendorID != nil {
		newVendorID, err := primitive.ObjectIDFromHex(*request.VendorID)
		if err != nil {
			return nil, utils.NewValidationError("invalid vendor id")
		}
		if !containsID(subtree, newVendorID) {
			return nil, utils.NewForbiddenError("cannot move vehicle to a vendor outside your subtree")
		}
		vehicle.VendorID = newVendorID
	}
	if request.RegNumber != nil && *request.RegNumber != vehicle.RegNumber {
		if _, err := s.vehicleRepo.GetByRegNumber(ctx, *request.RegNumber); err == nil {
			return nil, utils.NewConflictError("registration number must be unique")
		} else if !errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewInternalError(err)
		}
		vehicle.RegNumber = *request.RegNumber
	}
	if request.Model != nil {
		vehicle.Model = *request.Model
	}
	if request.Capacity != nil {
		vehicle.Capacity = *request.Capacity
	}
	if request.FuelType != nil {
		vehicle.FuelType = models.FuelType(*request.FuelType)
	}
	if request.VehicleType != nil {
		vehicle.VehicleType = models.VehicleType(*request.VehicleType)
	}
	if request.ManufacturingYear != nil {
		vehicle.ManufacturingYear = *request.ManufacturingYear
	}
	if request.Color != nil {
		vehicle.Color = *request.Color
	}
	if request.City != nil {
		vehicle.City = *request.City
	}
	if request.Region != nil {
		vehicle.Region = *request.Region
	}

	if err := s.vehicleRepo.Save(ctx, vehicle); err != nil {
		return nil, translateRepoErr(err, "vehicle")
	}
	return vehicle, nil
}

func (s *vehicleService) DeleteVehicle(ctx context.Context, principal *models.Principal, id primitive.ObjectID) error {
	vehicle, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return translateRepoErr(err, "vehicle")
	}
	if _, err := requireInScope(ctx, s.vendorRepo, principal, vehicle.VendorID); err != nil {
		return err
	}

	err = s.txRunner.RunInTransaction(ctx, func(ctx context.Context) error {
		if vehicle.AssignedDriverID != nil {
			updates := map[string]interface{}{
				"assignedVehicleId": nil,
				"status":            models.DriverStatusAvailable,
			}
			if err := s.driverRepo.Update(ctx, *vehicle.AssignedDriverID, updates); err != nil {
				return err
			}
		}
		return s.vehicleRepo.Delete(ctx, id)
	})
	if err != nil {
		return utils.NewInternalError(err)
	}

	s.logger.WithField("vehicle_id", id.Hex()).Info("Vehicle deleted")
	return nil
}

// UpdateStatus enforces the compliance gate: AVAILABLE and IN_SERVICE are
// reachable only for a compliant vehicle, and leaving the duty statuses
// releases the assigned driver.
func (s *vehicleService) UpdateStatus(ctx context.Context, principal *models.Principal, id primitive.ObjectID, request *validators.UpdateVehicleStatusRequest) (*models.Vehicle, error) {
	if errs := validators.ValidateUpdateVehicleStatus(request); len(errs) > 0 {
		return nil, utils.NewValidationError(errs.Error())
	}
	status := models.VehicleStatus(request.Status)

	vehicle, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoErr(err, "vehicle")
	}
	if _, err := requireInScope(ctx, s.vendorRepo, principal, vehicle.VendorID); err != nil {
		return nil, err
	}

	now := time.Now()
	if status.RequiresCompliance() && !vehicle.CheckCompliance(now) {
		// Persist the refreshed verdict even though the transition is refused.
		if saveErr := s.vehicleRepo.Save(ctx, vehicle); saveErr != nil {
			return nil, utils.NewInternalError(saveErr)
		}
		return nil, utils.NewComplianceError(
			"cannot set status to "+string(status)+": vehicle is not compliant with document requirements",
			vehicle.ComplianceStatus,
		)
	}

	err = s.txRunner.RunInTransaction(ctx, func(ctx context.Context) error {
		if !status.RequiresCompliance() && vehicle.AssignedDriverID != nil {
			updates := map[string]interface{}{
				"assignedVehicleId": nil,
				"status":            models.DriverStatusAvailable,
			}
			if err := s.driverRepo.Update(ctx, *vehicle.AssignedDriverID, updates); err != nil {
				return err
			}
			vehicle.AssignedDriverID = nil
		}
		vehicle.Status = status
		return s.vehicleRepo.Save(ctx, vehicle)
	})
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	return vehicle, nil
}
