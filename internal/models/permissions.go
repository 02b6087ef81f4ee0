package models

// Capability names one permission-gated class of operation. The set is fixed;
// an unknown capability never grants access.
type Capability string

const (
	CapCreateSubVendor Capability = "canCreateSubVendor"
	CapDeleteSubVendor Capability = "canDeleteSubVendor"
	CapEditSubVendor   Capability = "canEditSubVendor"
	CapManageFleet     Capability = "canManageFleet"
	CapViewFleet       Capability = "canViewFleet"
	CapAddDriver       Capability = "canAddDriver"
	CapEditDriver      Capability = "canEditDriver"
	CapRemoveDriver    Capability = "canRemoveDriver"
	CapAssignDrivers   Capability = "canAssignDrivers"
	CapAddVehicle      Capability = "canAddVehicle"
	CapEditVehicle     Capability = "canEditVehicle"
	CapRemoveVehicle   Capability = "canRemoveVehicle"
	CapAssignVehicles  Capability = "canAssignVehicles"
	CapVerifyDocuments Capability = "canVerifyDocuments"
	CapUploadDocuments Capability = "canUploadDocuments"
	CapViewAnalytics   Capability = "canViewAnalytics"
	CapEditPermissions Capability = "canEditPermissions"
	CapViewVendors     Capability = "canViewVendors"
)

// Permissions is the capability record stored on every vendor node. Sub-vendors
// do not copy their parent's record; inheritance happens only through subtree
// membership checks at authorization time.
type Permissions struct {
	CanCreateSubVendor bool `json:"canCreateSubVendor" bson:"canCreateSubVendor"`
	CanDeleteSubVendor bool `json:"canDeleteSubVendor" bson:"canDeleteSubVendor"`
	CanEditSubVendor   bool `json:"canEditSubVendor" bson:"canEditSubVendor"`
	CanManageFleet     bool `json:"canManageFleet" bson:"canManageFleet"`
	CanViewFleet       bool `json:"canViewFleet" bson:"canViewFleet"`
	CanAddDriver       bool `json:"canAddDriver" bson:"canAddDriver"`
	CanEditDriver      bool `json:"canEditDriver" bson:"canEditDriver"`
	CanRemoveDriver    bool `json:"canRemoveDriver" bson:"canRemoveDriver"`
	CanAssignDrivers   bool `json:"canAssignDrivers" bson:"canAssignDrivers"`
	CanAddVehicle      bool `json:"canAddVehicle" bson:"canAddVehicle"`
	CanEditVehicle     bool `json:"canEditVehicle" bson:"canEditVehicle"`
	CanRemoveVehicle   bool `json:"canRemoveVehicle" bson:"canRemoveVehicle"`
	CanAssignVehicles  bool `json:"canAssignVehicles" bson:"canAssignVehicles"`
	CanVerifyDocuments bool `json:"canVerifyDocuments" bson:"canVerifyDocuments"`
	CanUploadDocuments bool `json:"canUploadDocuments" bson:"canUploadDocuments"`
	CanViewAnalytics   bool `json:"canViewAnalytics" bson:"canViewAnalytics"`
	CanEditPermissions bool `json:"canEditPermissions" bson:"canEditPermissions"`
	CanViewVendors     bool `json:"canViewVendors" bson:"canViewVendors"`
}

// Has reports whether the capability is granted. Unknown capabilities are
// always denied.
func (p Permissions) Has(capability Capability) bool {
	switch capability {
	case CapCreateSubVendor:
		return p.CanCreateSubVendor
	case CapDeleteSubVendor:
		return p.CanDeleteSubVendor
	case CapEditSubVendor:
		return p.CanEditSubVendor
	case CapManageFleet:
		return p.CanManageFleet
	case CapViewFleet:
		return p.CanViewFleet
	case CapAddDriver:
		return p.CanAddDriver
	case CapEditDriver:
		return p.CanEditDriver
	case CapRemoveDriver:
		return p.CanRemoveDriver
	case CapAssignDrivers:
		return p.CanAssignDrivers
	case CapAddVehicle:
		return p.CanAddVehicle
	case CapEditVehicle:
		return p.CanEditVehicle
	case CapRemoveVehicle:
		return p.CanRemoveVehicle
	case CapAssignVehicles:
		return p.CanAssignVehicles
	case CapVerifyDocuments:
		return p.CanVerifyDocuments
	case CapUploadDocuments:
		return p.CanUploadDocuments
	case CapViewAnalytics:
		return p.CanViewAnalytics
	case CapEditPermissions:
		return p.CanEditPermissions
	case CapViewVendors:
		return p.CanViewVendors
	}
	return false
}

// Set assigns the capability and reports whether it is a known one. Unknown
// capabilities are rejected so a merge patch cannot invent grants.
func (p *Permissions) Set(capability Capability, value bool) bool {
	switch capability {
	case CapCreateSubVendor:
		p.CanCreateSubVendor = value
	case CapDeleteSubVendor:
		p.CanDeleteSubVendor = value
	case CapEditSubVendor:
		p.CanEditSubVendor = value
	case CapManageFleet:
		p.CanManageFleet = value
	case CapViewFleet:
		p.CanViewFleet = value
	case CapAddDriver:
		p.CanAddDriver = value
	case CapEditDriver:
		p.CanEditDriver = value
	case CapRemoveDriver:
		p.CanRemoveDriver = value
	case CapAssignDrivers:
		p.CanAssignDrivers = value
	case CapAddVehicle:
		p.CanAddVehicle = value
	case CapEditVehicle:
		p.CanEditVehicle = value
	case CapRemoveVehicle:
		p.CanRemoveVehicle = value
	case CapAssignVehicles:
		p.CanAssignVehicles = value
	case CapVerifyDocuments:
		p.CanVerifyDocuments = value
	case CapUploadDocuments:
		p.CanUploadDocuments = value
	case CapViewAnalytics:
		p.CanViewAnalytics = value
	case CapEditPermissions:
		p.CanEditPermissions = value
	case CapViewVendors:
		p.CanViewVendors = value
	default:
		return false
	}
	return true
}

// DefaultPermissions builds the permission record a freshly created vendor
// starts with, derived from the new vendor's own numeric level.
func DefaultPermissions(levelValue int) Permissions {
	return Permissions{
		CanCreateSubVendor: levelValue < LevelValueDriver,
		CanEditSubVendor:   levelValue < LevelValueDriver,
		CanManageFleet:     levelValue < LevelValueDriver,
		CanAddDriver:       levelValue < LevelValueDriver,
		CanEditDriver:      levelValue < LevelValueDriver,
		CanAssignDrivers:   levelValue < LevelValueDriver,
		CanAddVehicle:      levelValue < LevelValueDriver,
		CanEditVehicle:     levelValue < LevelValueDriver,
		CanAssignVehicles:  levelValue < LevelValueDriver,
		CanViewFleet:       levelValue < LevelValueDriver,

		CanDeleteSubVendor: levelValue < LevelValueCity,
		CanRemoveDriver:    levelValue < LevelValueCity,
		CanRemoveVehicle:   levelValue < LevelValueCity,
		CanViewAnalytics:   levelValue < LevelValueCity,

		CanEditPermissions: levelValue < LevelValueRegional,
		CanVerifyDocuments: levelValue < LevelValueRegional,

		CanUploadDocuments: true,
	}
}

// FullPermissions grants everything; used when seeding the root vendor.
func FullPermissions() Permissions {
	p := DefaultPermissions(LevelValueSuper)
	p.CanViewVendors = true
	return p
}
