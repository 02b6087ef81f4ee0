package validators

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,strong_password"`
}

func ValidateLogin(req *LoginRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateChangePassword(req *ChangePasswordRequest) ValidationErrors {
	return ValidateStruct(req)
}
