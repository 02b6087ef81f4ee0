package validators

type CreateVehicleRequest struct {
	RegNumber         string `json:"regNumber" validate:"required,min=2,max=20"`
	Model             string `json:"model" validate:"required,min=1,max=100"`
	VendorID          string `json:"vendorId" validate:"omitempty,object_id"`
	Status            string `json:"status" validate:"omitempty,vehicle_status"`
	Capacity          int    `json:"capacity" validate:"omitempty,min=1,max=100"`
	FuelType          string `json:"fuelType" validate:"omitempty,fuel_type"`
	VehicleType       string `json:"vehicleType" validate:"omitempty,vehicle_type"`
	ManufacturingYear int    `json:"manufacturingYear" validate:"omitempty,min=1950,max=2100"`
	Color             string `json:"color" validate:"omitempty,max=50"`
	City              string `json:"city" validate:"omitempty,max=100"`
	Region            string `json:"region" validate:"omitempty,max=100"`
}

type UpdateVehicleRequest struct {
	RegNumber         *string `json:"regNumber" validate:"omitempty,min=2,max=20"`
	VendorID          *string `json:"vendorId" validate:"omitempty,object_id"`
	Model             *string `json:"model" validate:"omitempty,min=1,max=100"`
	Capacity          *int    `json:"capacity" validate:"omitempty,min=1,max=100"`
	FuelType          *string `json:"fuelType" validate:"omitempty,fuel_type"`
	VehicleType       *string `json:"vehicleType" validate:"omitempty,vehicle_type"`
	ManufacturingYear *int    `json:"manufacturingYear" validate:"omitempty,min=1950,max=2100"`
	Color             *string `json:"color" validate:"omitempty,max=50"`
	City              *string `json:"city" validate:"omitempty,max=100"`
	Region            *string `json:"region" validate:"omitempty,max=100"`
}

type UpdateVehicleStatusRequest struct {
	Status string `json:"status" validate:"required,vehicle_status"`
}

type ListVehiclesRequest struct {
	Status string `form:"status" validate:"omitempty,vehicle_status"`
	Region string `form:"region" validate:"omitempty,max=100"`
	City   string `form:"city" validate:"omitempty,max=100"`
}

func ValidateCreateVehicle(req *CreateVehicleRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateUpdateVehicle(req *UpdateVehicleRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateUpdateVehicleStatus(req *UpdateVehicleStatusRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateListVehicles(req *ListVehiclesRequest) ValidationErrors {
	return ValidateStruct(req)
}
