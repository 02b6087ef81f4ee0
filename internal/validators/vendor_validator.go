package validators

// CreateSubVendorRequest creates a child vendor together with its login
// account in a single transaction.
type CreateSubVendorRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Level    string `json:"level" validate:"omitempty,vendor_level"`
	Region   string `json:"region" validate:"omitempty,max=100"`
	City     string `json:"city" validate:"omitempty,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,strong_password"`
}

type UpdateVendorRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=2,max=100"`
	Region *string `json:"region" validate:"omitempty,max=100"`
	City   *string `json:"city" validate:"omitempty,max=100"`
}

// UpdatePermissionsRequest is a merge patch: only the capabilities present
// in the map are changed, everything else keeps its current value.
type UpdatePermissionsRequest struct {
	Permissions map[string]bool `json:"permissions" validate:"required,min=1"`
}

func ValidateCreateSubVendor(req *CreateSubVendorRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateUpdateVendor(req *UpdateVendorRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateUpdatePermissions(req *UpdatePermissionsRequest) ValidationErrors {
	return ValidateStruct(req)
}
