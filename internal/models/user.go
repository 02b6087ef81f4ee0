package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRole string

const (
	RoleSuperVendor    UserRole = "SuperVendor"
	RoleRegionalVendor UserRole = "RegionalVendor"
	RoleCityVendor     UserRole = "CityVendor"
	RoleDriver         UserRole = "Driver"
)

func IsValidUserRole(role UserRole) bool {
	switch role {
	case RoleSuperVendor, RoleRegionalVendor, RoleCityVendor, RoleDriver:
		return true
	}
	return false
}

// User is an authenticatable principal. Every user belongs to exactly one
// vendor; the effective permission set is always read from that vendor's
// current record, never stored on the user or inside a token.
type User struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email        string             `json:"email" bson:"email"`
	PasswordHash string             `json:"-" bson:"passwordHash"`
	Role         UserRole           `json:"role" bson:"role"`
	VendorID     primitive.ObjectID `json:"vendorId" bson:"vendorId"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

// Principal is the immutable authenticated identity resolved once per request
// by the authentication middleware. Permissions are a snapshot of the vendor's
// record at resolution time.
type Principal struct {
	UserID      primitive.ObjectID `json:"userId"`
	Email       string             `json:"email"`
	Role        UserRole           `json:"role"`
	VendorID    primitive.ObjectID `json:"vendorId"`
	Permissions Permissions        `json:"permissions"`
}

// Can reports whether the principal's snapshot grants the capability.
func (p *Principal) Can(capability Capability) bool {
	return p.Permissions.Has(capability)
}
