package models

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestIsValidVendorLevel(t *testing.T) {
	tests := []struct {
		name     string
		level    VendorLevel
		expected bool
	}{
		{"super vendor", VendorLevelSuper, true},
		{"regional vendor", VendorLevelRegional, true},
		{"city vendor", VendorLevelCity, true},
		{"invalid level", "NationalVendor", false},
		{"empty level", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValidVendorLevel(tt.level)
			if result != tt.expected {
				t.Errorf("IsValidVendorLevel(%s) = %v, want %v", tt.level, result, tt.expected)
			}
		})
	}
}

func TestVendorLevelForValue(t *testing.T) {
	tests := []struct {
		name       string
		levelValue int
		expected   VendorLevel
	}{
		{"super", LevelValueSuper, VendorLevelSuper},
		{"regional", LevelValueRegional, VendorLevelRegional},
		{"city", LevelValueCity, VendorLevelCity},
		{"below city stays city", LevelValueDriver, VendorLevelCity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := VendorLevelForValue(tt.levelValue)
			if result != tt.expected {
				t.Errorf("VendorLevelForValue(%d) = %s, want %s", tt.levelValue, result, tt.expected)
			}
		})
	}
}

func TestVendor_IsRoot(t *testing.T) {
	root := &Vendor{Level: VendorLevelSuper}
	if !root.IsRoot() {
		t.Error("vendor without a parent should be root")
	}

	parentID := primitive.NewObjectID()
	child := &Vendor{Level: VendorLevelRegional, ParentVendorID: &parentID}
	if child.IsRoot() {
		t.Error("vendor with a parent should not be root")
	}
}
