package validators

import "time"

type CreateDriverRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Contact  string `json:"contact" validate:"omitempty,max=50"`
	VendorID string `json:"vendorId" validate:"omitempty,object_id"`
	City     string `json:"city" validate:"omitempty,max=100"`
	Region   string `json:"region" validate:"omitempty,max=100"`

	// Optional driving licence seed; uploading through the documents API
	// later overrides these.
	LicenseNumber string     `json:"licenseNumber" validate:"omitempty,max=50"`
	LicenseURL    string     `json:"licenseUrl" validate:"omitempty,url"`
	LicenseExpiry *time.Time `json:"licenseExpiry" validate:"omitempty"`
}

type UpdateDriverRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=100"`
	Contact  *string `json:"contact" validate:"omitempty,max=50"`
	VendorID *string `json:"vendorId" validate:"omitempty,object_id"`
	City     *string `json:"city" validate:"omitempty,max=100"`
	Region   *string `json:"region" validate:"omitempty,max=100"`
}

type UpdateDriverStatusRequest struct {
	Status string `json:"status" validate:"required,driver_status"`
}

type ListDriversRequest struct {
	Status string `form:"status" validate:"omitempty,driver_status"`
	Region string `form:"region" validate:"omitempty,max=100"`
	City   string `form:"city" validate:"omitempty,max=100"`
}

func ValidateCreateDriver(req *CreateDriverRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateUpdateDriver(req *UpdateDriverRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateUpdateDriverStatus(req *UpdateDriverStatusRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateListDrivers(req *ListDriversRequest) ValidationErrors {
	return ValidateStruct(req)
}
