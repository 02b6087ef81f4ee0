package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DriverStatus string

const (
	DriverStatusAvailable   DriverStatus = "AVAILABLE"
	DriverStatusOnDuty      DriverStatus = "ON_DUTY"
	DriverStatusMaintenance DriverStatus = "MAINTENANCE"
	DriverStatusInactive    DriverStatus = "INACTIVE"
)

func IsValidDriverStatus(status DriverStatus) bool {
	switch status {
	case DriverStatusAvailable, DriverStatusOnDuty, DriverStatusMaintenance, DriverStatusInactive:
		return true
	}
	return false
}

// RequiresCompliance reports whether entering the status is gated by the
// compliance verdict.
func (s DriverStatus) RequiresCompliance() bool {
	return s == DriverStatusAvailable || s == DriverStatusOnDuty
}

type Driver struct {
	ID                primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name              string               `json:"name" bson:"name"`
	Contact           string               `json:"contact,omitempty" bson:"contact,omitempty"`
	VendorID          primitive.ObjectID   `json:"vendorId" bson:"vendorId"`
	AssignedVehicleID *primitive.ObjectID  `json:"assignedVehicleId" bson:"assignedVehicleId,omitempty"`
	Status            DriverStatus         `json:"status" bson:"status"`
	City              string               `json:"city,omitempty" bson:"city,omitempty"`
	Region            string               `json:"region,omitempty" bson:"region,omitempty"`
	Documents         map[DocType]Document `json:"documents" bson:"documents"`
	ComplianceStatus  ComplianceStatus     `json:"complianceStatus" bson:"complianceStatus"`
	CreatedAt         time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at" bson:"updated_at"`
}

// CheckCompliance recomputes the overall verdict from the required documents
// (driving license only) and caches it on the compliance status. The caller is
// responsible for persisting the driver afterwards.
func (d *Driver) CheckCompliance(now time.Time) bool {
	if d.Documents == nil {
		d.Documents = make(map[DocType]Document)
	}
	return evaluateCompliance(d.Documents, &d.ComplianceStatus, RequiredDriverDocs, now)
}

func (d *Driver) SetDocument(docType DocType, doc Document) {
	if d.Documents == nil {
		d.Documents = make(map[DocType]Document)
	}
	d.Documents[docType] = doc
}

func (d *Driver) RemoveDocument(docType DocType) {
	delete(d.Documents, docType)
}
