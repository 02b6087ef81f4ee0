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

// AssignmentService coordinates the driver/vehicle pairing. Both HTTP entry
// points funnel into the same pair transition, so assigning driver D to
// vehicle V behaves identically no matter which side initiates it.
type AssignmentService interface {
	AssignVehicleToDriver(ctx context.Context, principal *models.Principal, driverID primitive.ObjectID, request *validators.AssignVehicleRequest) (*AssignmentResult, error)
	AssignDriverToVehicle(ctx context.Context, principal *models.Principal, vehicleID primitive.ObjectID, request *validators.AssignDriverRequest) (*AssignmentResult, error)
}

type assignmentService struct {
	driverRepo  interfaces.DriverRepository
	vehicleRepo interfaces.VehicleRepository
	vendorRepo  interfaces.VendorRepository
	txRunner    interfaces.TransactionRunner
	logger      *logger.Logger
}

type AssignmentResult struct {
	Driver  *models.Driver  `json:"driver,omitempty"`
	Vehicle *models.Vehicle `json:"vehicle,omitempty"`
}

func NewAssignmentService(
	driverRepo interfaces.DriverRepository,
	vehicleRepo interfaces.VehicleRepository,
	vendorRepo interfaces.VendorRepository,
	txRunner interfaces.TransactionRunner,
	logger *logger.Logger,
) AssignmentService {
	return &assignmentService{
		driverRepo:  driverRepo,
		vehicleRepo: vehicleRepo,
		vendorRepo:  vendorRepo,
		txRunner:    txRunner,
		logger:      logger,
	}
}

func (s *assignmentService) AssignVehicleToDriver(ctx context.Context, principal *models.Principal, driverID primitive.ObjectID, request *validators.AssignVehicleRequest) (*AssignmentResult, error) {
	if errs := validators.ValidateAssignVehicle(request); len(errs) > 0 {
		return nil, utils.NewValidationError(errs.Error())
	}

	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, translateRepoErr(err, "driver")
	}
	subtree, err := requireInScope(ctx, s.vendorRepo, principal, driver.VendorID)
	if err != nil {
		return nil, err
	}

	if request.VehicleID == nil {
		if err := s.releaseDriver(ctx, driver); err != nil {
			return nil, err
		}
		return &AssignmentResult{Driver: driver}, nil
	}

	vehicleID, err := primitive.ObjectIDFromHex(*request.VehicleID)
	if err != nil {
		return nil, utils.NewValidationError("invalid vehicle id")
	}
	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, translateRepoErr(err, "vehicle")
	}
	if !containsID(subtree, vehicle.VendorID) {
		return nil, utils.NewForbiddenError("cannot assign vehicle outside subtree")
	}

	if err := s.link(ctx, driver, vehicle, request.ForceAssignment); err != nil {
		return nil, err
	}
	return &AssignmentResult{Driver: driver, Vehicle: vehicle}, nil
}

func (s *assignmentService) AssignDriverToVehicle(ctx context.Context, principal *models.Principal, vehicleID primitive.ObjectID, request *validators.AssignDriverRequest) (*AssignmentResult, error) {
	if errs := validators.ValidateAssignDriver(request); len(errs) > 0 {
		return nil, utils.NewValidationError(errs.Error())
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, translateRepoErr(err, "vehicle")
	}
	subtree, err := requireInScope(ctx, s.vendorRepo, principal, vehicle.VendorID)
	if err != nil {
		return nil, err
	}

	if request.DriverID == nil {
		if err := s.releaseVehicle(ctx, vehicle); err != nil {
			return nil, err
		}
		return &AssignmentResult{Vehicle: vehicle}, nil
	}

	driverID, err := primitive.ObjectIDFromHex(*request.DriverID)
	if err != nil {
		return nil, utils.NewValidationError("invalid driver id")
	}
	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, translateRepoErr(err, "driver")
	}
	if !containsID(subtree, driver.VendorID) {
		return nil, utils.NewForbiddenError("cannot assign driver from outside your subtree")
	}

	if err := s.link(ctx, driver, vehicle, request.ForceAssignment); err != nil {
		return nil, err
	}
	return &AssignmentResult{Driver: driver, Vehicle: vehicle}, nil
}

// link is the single pair transition. The driver's previous vehicle is
// released up front, before the target is validated, so a refused assignment
// still leaves the old pairing cleared. The vehicle being held by another
// driver is a conflict. Without force, both sides must pass the compliance
// check.
func (s *assignmentService) link(ctx context.Context, driver *models.Driver, vehicle *models.Vehicle, force bool) error {
	if driver.AssignedVehicleID != nil && *driver.AssignedVehicleID != vehicle.ID {
		if err := s.releaseDriver(ctx, driver); err != nil {
			return err
		}
	}

	if vehicle.AssignedDriverID != nil && *vehicle.AssignedDriverID != driver.ID {
		return utils.NewConflictError("vehicle already assigned to another driver")
	}

	now := time.Now()
	if force {
		driver.ComplianceStatus.ForceCompliant(now)
		vehicle.ComplianceStatus.ForceCompliant(now)
	} else {
		if !driver.CheckCompliance(now) {
			return utils.NewComplianceError(
				"cannot assign: driver is not compliant with document requirements",
				driver.ComplianceStatus,
			)
		}
		if !vehicle.CheckCompliance(now) {
			return utils.NewComplianceError(
				"cannot assign: vehicle is not compliant with document requirements",
				vehicle.ComplianceStatus,
			)
		}
	}

	if vehicle.Region != "" && driver.Region != "" && vehicle.Region != driver.Region {
		s.logger.WithFields(map[string]interface{}{
			"driver_region":  driver.Region,
			"vehicle_region": vehicle.Region,
		}).Warn("Driver assigned to vehicle in a different region")
	}
	if vehicle.City != "" && driver.City != "" && vehicle.City != driver.City {
		s.logger.WithFields(map[string]interface{}{
			"driver_city":  driver.City,
			"vehicle_city": vehicle.City,
		}).Warn("Driver assigned to vehicle in a different city")
	}

	err := s.txRunner.RunInTransaction(ctx, func(ctx context.Context) error {
		vehicle.AssignedDriverID = &driver.ID
		vehicle.Status = models.VehicleStatusInService
		if err := s.vehicleRepo.Save(ctx, vehicle); err != nil {
			return err
		}

		driver.AssignedVehicleID = &vehicle.ID
		driver.Status = models.DriverStatusOnDuty
		return s.driverRepo.Save(ctx, driver)
	})
	if err != nil {
		return utils.NewInternalError(err)
	}

	s.logger.WithFields(map[string]interface{}{
		"driver_id":  driver.ID.Hex(),
		"vehicle_id": vehicle.ID.Hex(),
		"forced":     force,
	}).Info("Driver assigned to vehicle")

	return nil
}

// unlink releases an existing pairing from either side.
func (s *assignmentService) unlink(ctx context.Context, driver *models.Driver, vehicle *models.Vehicle) error {
	err := s.txRunner.RunInTransaction(ctx, func(ctx context.Context) error {
		if vehicle != nil {
			vehicle.AssignedDriverID = nil
			if vehicle.Status == models.VehicleStatusInService {
				vehicle.Status = models.VehicleStatusAvailable
			}
			if err := s.vehicleRepo.Save(ctx, vehicle); err != nil {
				return err
			}
		}
		if driver != nil {
			driver.AssignedVehicleID = nil
			if driver.Status == models.DriverStatusOnDuty {
				driver.Status = models.DriverStatusAvailable
			}
			return s.driverRepo.Save(ctx, driver)
		}
		return nil
	})
	if err != nil {
		return utils.NewInternalError(err)
	}
	return nil
}

func (s *assignmentService) releaseDriver(ctx context.Context, driver *models.Driver) error {
	if driver.AssignedVehicleID == nil {
		return nil
	}
	vehicle, err := s.vehicleRepo.GetByID(ctx, *driver.AssignedVehicleID)
	if err != nil {
		// Dangling link: clear the driver side anyway.
		vehicle = nil
	}
	return s.unlink(ctx, driver, vehicle)
}

func (s *assignmentService) releaseVehicle(ctx context.Context, vehicle *models.Vehicle) error {
	if vehicle.AssignedDriverID == nil {
		return nil
	}
	driver, err := s.driverRepo.GetByID(ctx, *vehicle.AssignedDriverID)
	if err != nil {
		driver = nil
	}
	return s.unlink(ctx, driver, vehicle)
}
