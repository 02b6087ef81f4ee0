package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VehicleStatus string
type FuelType string
type VehicleType string

const (
	VehicleStatusAvailable   VehicleStatus = "AVAILABLE"
	VehicleStatusInService   VehicleStatus = "IN_SERVICE"
	VehicleStatusMaintenance VehicleStatus = "MAINTENANCE"
	VehicleStatusInactive    VehicleStatus = "INACTIVE"

	FuelTypePetrol   FuelType = "PETROL"
	FuelTypeDiesel   FuelType = "DIESEL"
	FuelTypeCNG      FuelType = "CNG"
	FuelTypeElectric FuelType = "ELECTRIC"
	FuelTypeHybrid   FuelType = "HYBRID"

	VehicleTypeSedan     VehicleType = "SEDAN"
	VehicleTypeSUV       VehicleType = "SUV"
	VehicleTypeHatchback VehicleType = "HATCHBACK"
	VehicleTypeVan       VehicleType = "VAN"
	VehicleTypeBus       VehicleType = "BUS"
	VehicleTypeOther     VehicleType = "OTHER"
)

func IsValidVehicleStatus(status VehicleStatus) bool {
	switch status {
	case VehicleStatusAvailable, VehicleStatusInService, VehicleStatusMaintenance, VehicleStatusInactive:
		return true
	}
	return false
}

// RequiresCompliance reports whether entering the status is gated by the
// compliance verdict.
func (s VehicleStatus) RequiresCompliance() bool {
	return s == VehicleStatusAvailable || s == VehicleStatusInService
}

func IsValidFuelType(fuelType FuelType) bool {
	switch fuelType {
	case FuelTypePetrol, FuelTypeDiesel, FuelTypeCNG, FuelTypeElectric, FuelTypeHybrid:
		return true
	}
	return false
}

func IsValidVehicleType(vehicleType VehicleType) bool {
	switch vehicleType {
	case VehicleTypeSedan, VehicleTypeSUV, VehicleTypeHatchback, VehicleTypeVan, VehicleTypeBus, VehicleTypeOther:
		return true
	}
	return false
}

type Vehicle struct {
	ID                primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	RegNumber         string               `json:"regNumber" bson:"regNumber"`
	Model             string               `json:"model" bson:"model"`
	VendorID          primitive.ObjectID   `json:"vendorId" bson:"vendorId"`
	AssignedDriverID  *primitive.ObjectID  `json:"assignedDriverId" bson:"assignedDriverId,omitempty"`
	Status            VehicleStatus        `json:"status" bson:"status"`
	Capacity          int                  `json:"capacity" bson:"capacity"`
	FuelType          FuelType             `json:"fuelType" bson:"fuelType"`
	VehicleType       VehicleType          `json:"vehicleType" bson:"vehicleType"`
	ManufacturingYear int                  `json:"manufacturingYear,omitempty" bson:"manufacturingYear,omitempty"`
	Color             string               `json:"color,omitempty" bson:"color,omitempty"`
	City              string               `json:"city,omitempty" bson:"city,omitempty"`
	Region            string               `json:"region,omitempty" bson:"region,omitempty"`
	Documents         map[DocType]Document `json:"documents" bson:"documents"`
	ComplianceStatus  ComplianceStatus     `json:"complianceStatus" bson:"complianceStatus"`
	CreatedAt         time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at" bson:"updated_at"`
}

// CheckCompliance recomputes the overall verdict from the required documents
// (insurance only) and caches it on the compliance status. The caller persists
// the vehicle afterwards.
func (v *Vehicle) CheckCompliance(now time.Time) bool {
	if v.Documents == nil {
		v.Documents = make(map[DocType]Document)
	}
	return evaluateCompliance(v.Documents, &v.ComplianceStatus, RequiredVehicleDocs, now)
}

func (v *Vehicle) SetDocument(docType DocType, doc Document) {
	if v.Documents == nil {
		v.Documents = make(map[DocType]Document)
	}
	v.Documents[docType] = doc
}

func (v *Vehicle) RemoveDocument(docType DocType) {
	delete(v.Documents, docType)
}
