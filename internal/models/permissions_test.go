package models

import (
	"testing"
)

func TestPermissions_Has(t *testing.T) {
	perms := Permissions{
		CanAddDriver:       true,
		CanVerifyDocuments: true,
	}

	tests := []struct {
		name       string
		capability Capability
		expected   bool
	}{
		{"granted capability", CapAddDriver, true},
		{"granted verify capability", CapVerifyDocuments, true},
		{"ungranted capability", CapDeleteSubVendor, false},
		{"ungranted edit capability", CapEditPermissions, false},
		{"unknown capability", Capability("canDoAnything"), false},
		{"empty capability", Capability(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := perms.Has(tt.capability)
			if result != tt.expected {
				t.Errorf("Has(%s) = %v, want %v", tt.capability, result, tt.expected)
			}
		})
	}
}

func TestPermissions_Set(t *testing.T) {
	var perms Permissions

	if !perms.Set(CapAddVehicle, true) {
		t.Error("Set(CapAddVehicle) should accept a known capability")
	}
	if !perms.CanAddVehicle {
		t.Error("Set(CapAddVehicle, true) should grant the capability")
	}

	if !perms.Set(CapAddVehicle, false) {
		t.Error("Set should accept revoking a known capability")
	}
	if perms.CanAddVehicle {
		t.Error("Set(CapAddVehicle, false) should revoke the capability")
	}

	if perms.Set(Capability("canDoAnything"), true) {
		t.Error("Set should reject an unknown capability")
	}
	if perms != (Permissions{}) {
		t.Error("rejected Set should leave the record unchanged")
	}
}

func TestPermissions_SetHasRoundTrip(t *testing.T) {
	all := []Capability{
		CapCreateSubVendor, CapDeleteSubVendor, CapEditSubVendor,
		CapManageFleet, CapViewFleet,
		CapAddDriver, CapEditDriver, CapRemoveDriver, CapAssignDrivers,
		CapAddVehicle, CapEditVehicle, CapRemoveVehicle, CapAssignVehicles,
		CapVerifyDocuments, CapUploadDocuments,
		CapViewAnalytics, CapEditPermissions, CapViewVendors,
	}

	for _, capability := range all {
		t.Run(string(capability), func(t *testing.T) {
			var perms Permissions
			if !perms.Set(capability, true) {
				t.Fatalf("Set(%s) rejected a known capability", capability)
			}
			if !perms.Has(capability) {
				t.Errorf("Has(%s) = false after Set(%s, true)", capability, capability)
			}
		})
	}
}

func TestDefaultPermissions(t *testing.T) {
	tests := []struct {
		name       string
		levelValue int
		capability Capability
		expected   bool
	}{
		// Super vendors hold the full management set.
		{"super can create sub-vendor", LevelValueSuper, CapCreateSubVendor, true},
		{"super can delete sub-vendor", LevelValueSuper, CapDeleteSubVendor, true},
		{"super can edit permissions", LevelValueSuper, CapEditPermissions, true},
		{"super can verify documents", LevelValueSuper, CapVerifyDocuments, true},
		{"super can view analytics", LevelValueSuper, CapViewAnalytics, true},

		// Regional vendors lose the permission-editing and verification tier.
		{"regional can create sub-vendor", LevelValueRegional, CapCreateSubVendor, true},
		{"regional can delete sub-vendor", LevelValueRegional, CapDeleteSubVendor, true},
		{"regional cannot edit permissions", LevelValueRegional, CapEditPermissions, false},
		{"regional cannot verify documents", LevelValueRegional, CapVerifyDocuments, false},

		// City vendors keep day-to-day fleet management only.
		{"city can add driver", LevelValueCity, CapAddDriver, true},
		{"city can assign vehicles", LevelValueCity, CapAssignVehicles, true},
		{"city cannot remove driver", LevelValueCity, CapRemoveDriver, false},
		{"city cannot view analytics", LevelValueCity, CapViewAnalytics, false},
		{"city cannot edit permissions", LevelValueCity, CapEditPermissions, false},

		// Everyone can upload documents; nobody gets the vendor directory by default.
		{"super can upload documents", LevelValueSuper, CapUploadDocuments, true},
		{"city can upload documents", LevelValueCity, CapUploadDocuments, true},
		{"super cannot view vendors by default", LevelValueSuper, CapViewVendors, false},
		{"city cannot view vendors by default", LevelValueCity, CapViewVendors, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perms := DefaultPermissions(tt.levelValue)
			result := perms.Has(tt.capability)
			if result != tt.expected {
				t.Errorf("DefaultPermissions(%d).Has(%s) = %v, want %v",
					tt.levelValue, tt.capability, result, tt.expected)
			}
		})
	}
}

func TestFullPermissions(t *testing.T) {
	perms := FullPermissions()

	if !perms.CanViewVendors {
		t.Error("FullPermissions should include the vendor directory")
	}
	if !perms.CanEditPermissions {
		t.Error("FullPermissions should include permission editing")
	}
	if !perms.CanDeleteSubVendor {
		t.Error("FullPermissions should include sub-vendor deletion")
	}
}
