package validators

// AssignVehicleRequest attaches a vehicle to a driver. A nil VehicleID
// releases the driver's current vehicle. ForceAssignment bypasses the
// compliance gate and marks both sides manually approved.
type AssignVehicleRequest struct {
	VehicleID       *string `json:"vehicleId" validate:"omitempty,object_id"`
	ForceAssignment bool    `json:"forceAssignment"`
}

// AssignDriverRequest is the vehicle-side mirror of AssignVehicleRequest.
type AssignDriverRequest struct {
	DriverID        *string `json:"driverId" validate:"omitempty,object_id"`
	ForceAssignment bool    `json:"forceAssignment"`
}

func ValidateAssignVehicle(req *AssignVehicleRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateAssignDriver(req *AssignDriverRequest) ValidationErrors {
	return ValidateStruct(req)
}
