package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VendorLevel string

const (
	VendorLevelSuper    VendorLevel = "SuperVendor"
	VendorLevelRegional VendorLevel = "RegionalVendor"
	VendorLevelCity     VendorLevel = "CityVendor"
)

// Numeric ranks for hierarchy math. Lower value means higher authority.
const (
	LevelValueSuper    = 1
	LevelValueRegional = 2
	LevelValueCity     = 3
	LevelValueDriver   = 4
)

func IsValidVendorLevel(level VendorLevel) bool {
	switch level {
	case VendorLevelSuper, VendorLevelRegional, VendorLevelCity:
		return true
	}
	return false
}

func VendorLevelForValue(levelValue int) VendorLevel {
	switch levelValue {
	case LevelValueSuper:
		return VendorLevelSuper
	case LevelValueRegional:
		return VendorLevelRegional
	default:
		return VendorLevelCity
	}
}

// Vendor is a node in the vendor hierarchy. Ancestors holds the ids from the
// root down to the immediate parent, materialized when the node is created and
// never recomputed afterwards, so subtree queries are a single indexed lookup.
type Vendor struct {
	ID             primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name           string               `json:"name" bson:"name"`
	Level          VendorLevel          `json:"level" bson:"level"`
	LevelValue     int                  `json:"levelValue" bson:"levelValue"`
	ParentVendorID *primitive.ObjectID  `json:"parentVendorId" bson:"parentVendorId,omitempty"`
	Ancestors      []primitive.ObjectID `json:"ancestors" bson:"ancestors"`
	Region         string               `json:"region,omitempty" bson:"region,omitempty"`
	City           string               `json:"city,omitempty" bson:"city,omitempty"`
	Permissions    Permissions          `json:"permissions" bson:"permissions"`
	CreatedAt      time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at" bson:"updated_at"`
}

func (v *Vendor) IsRoot() bool {
	return v.ParentVendorID == nil
}
