package validators

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"fleethub/internal/models"
	"fleethub/internal/utils"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Register custom validation functions
	validate.RegisterValidation("object_id", validateObjectID)
	validate.RegisterValidation("strong_password", validateStrongPassword)
	validate.RegisterValidation("vendor_level", validateVendorLevel)
	validate.RegisterValidation("driver_status", validateDriverStatus)
	validate.RegisterValidation("vehicle_status", validateVehicleStatus)
	validate.RegisterValidation("fuel_type", validateFuelType)
	validate.RegisterValidation("vehicle_type", validateVehicleType)
	validate.RegisterValidation("driver_doc_type", validateDriverDocType)
	validate.RegisterValidation("vehicle_doc_type", validateVehicleDocType)
	validate.RegisterValidation("future_date", validateFutureDate)
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var messages []string
	for _, err := range v {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

// ValidateStruct validates a struct and returns detailed errors
func ValidateStruct(s interface{}) ValidationErrors {
	var validationErrors ValidationErrors

	err := validate.Struct(s)
	if err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, ValidationError{
				Field:   err.Field(),
				Tag:     err.Tag(),
				Value:   fmt.Sprintf("%v", err.Value()),
				Message: getErrorMessage(err),
			})
		}
	}

	return validationErrors
}

func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", err.Field())
	case "email":
		return "Invalid email format"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
	case "object_id":
		return "Invalid ID format"
	case "strong_password":
		return "Password must contain uppercase, lowercase and a number"
	case "vendor_level":
		return "Level must be one of SuperVendor, RegionalVendor, CityVendor"
	case "driver_status":
		return "Status must be one of AVAILABLE, ON_DUTY, MAINTENANCE, INACTIVE"
	case "vehicle_status":
		return "Status must be one of AVAILABLE, IN_SERVICE, MAINTENANCE, INACTIVE"
	case "fuel_type":
		return "Invalid fuel type"
	case "vehicle_type":
		return "Invalid vehicle type"
	case "driver_doc_type":
		return "Invalid driver document type"
	case "vehicle_doc_type":
		return "Invalid vehicle document type"
	case "future_date":
		return fmt.Sprintf("%s must be in the future", err.Field())
	default:
		return fmt.Sprintf("%s is invalid", err.Field())
	}
}

func validateObjectID(fl validator.FieldLevel) bool {
	_, err := primitive.ObjectIDFromHex(fl.Field().String())
	return err == nil
}

func validateStrongPassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	if len(password) < utils.PasswordMinLength {
		return false
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasUpper && hasLower && hasDigit
}

func validateVendorLevel(fl validator.FieldLevel) bool {
	return models.IsValidVendorLevel(models.VendorLevel(fl.Field().String()))
}

func validateDriverStatus(fl validator.FieldLevel) bool {
	return models.IsValidDriverStatus(models.DriverStatus(fl.Field().String()))
}

func validateVehicleStatus(fl validator.FieldLevel) bool {
	return models.IsValidVehicleStatus(models.VehicleStatus(fl.Field().String()))
}

func validateFuelType(fl validator.FieldLevel) bool {
	return models.IsValidFuelType(models.FuelType(fl.Field().String()))
}

func validateVehicleType(fl validator.FieldLevel) bool {
	return models.IsValidVehicleType(models.VehicleType(fl.Field().String()))
}

func validateDriverDocType(fl validator.FieldLevel) bool {
	return models.IsValidDriverDocType(models.DocType(fl.Field().String()))
}

func validateVehicleDocType(fl validator.FieldLevel) bool {
	return models.IsValidVehicleDocType(models.DocType(fl.Field().String()))
}

func validateFutureDate(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return date.After(time.Now())
}
