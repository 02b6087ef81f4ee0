package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DocType string

const (
	DocDrivingLicense          DocType = "drivingLicense"
	DocPermit                  DocType = "permit"
	DocPollutionCertificate    DocType = "pollutionCertificate"
	DocRegistrationCertificate DocType = "registrationCertificate"
	DocInsurance               DocType = "insurance"
)

// Document types accepted per entity. The required subsets drive the
// compliance verdict; the rest are informational.
var (
	DriverDocTypes  = []DocType{DocDrivingLicense, DocPermit, DocPollutionCertificate}
	VehicleDocTypes = []DocType{DocRegistrationCertificate, DocInsurance, DocPermit, DocPollutionCertificate}

	RequiredDriverDocs  = []DocType{DocDrivingLicense}
	RequiredVehicleDocs = []DocType{DocInsurance}
)

func IsValidDriverDocType(docType DocType) bool {
	for _, t := range DriverDocTypes {
		if t == docType {
			return true
		}
	}
	return false
}

func IsValidVehicleDocType(docType DocType) bool {
	for _, t := range VehicleDocTypes {
		if t == docType {
			return true
		}
	}
	return false
}

// Document records an uploaded compliance document. The blob itself lives in
// the storage provider; only the URL is kept here.
type Document struct {
	URL           string     `json:"url,omitempty" bson:"url,omitempty"`
	UploadedAt    *time.Time `json:"uploadedAt,omitempty" bson:"uploadedAt,omitempty"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty" bson:"expiresAt,omitempty"`
	LicenseNumber string     `json:"licenseNumber,omitempty" bson:"licenseNumber,omitempty"`
}

// Verification is the per-document review record set by a verifier.
type Verification struct {
	Verified   bool                `json:"verified" bson:"verified"`
	VerifiedBy *primitive.ObjectID `json:"verifiedBy,omitempty" bson:"verifiedBy,omitempty"`
	VerifiedAt *time.Time          `json:"verifiedAt,omitempty" bson:"verifiedAt,omitempty"`
	Notes      string              `json:"notes,omitempty" bson:"notes,omitempty"`
}

// OverallCompliance is the cached verdict. ManuallyApproved is an operator
// override: while set, the verdict is forced true and survives document
// changes until explicitly cleared.
type OverallCompliance struct {
	Compliant        bool      `json:"compliant" bson:"compliant"`
	LastChecked      time.Time `json:"lastChecked" bson:"lastChecked"`
	ManuallyApproved bool      `json:"manuallyApproved,omitempty" bson:"manuallyApproved,omitempty"`
}

type ComplianceStatus struct {
	Documents map[DocType]Verification `json:"documents" bson:"documents"`
	Overall   OverallCompliance        `json:"overall" bson:"overall"`
}

func (cs *ComplianceStatus) ensure() {
	if cs.Documents == nil {
		cs.Documents = make(map[DocType]Verification)
	}
}

// evaluateCompliance computes the required-document verdict and writes it to
// overall, preserving the manual-override flag. Idempotent: repeated calls
// without document changes yield the same verdict.
func evaluateCompliance(docs map[DocType]Document, cs *ComplianceStatus, required []DocType, now time.Time) bool {
	cs.ensure()

	if cs.Overall.ManuallyApproved {
		cs.Overall.Compliant = true
		cs.Overall.LastChecked = now
		return true
	}

	compliant := true
	for _, docType := range required {
		doc := docs[docType]
		status := cs.Documents[docType]
		if doc.URL == "" || !status.Verified || (doc.ExpiresAt != nil && doc.ExpiresAt.Before(now)) {
			compliant = false
			break
		}
	}

	cs.Overall.Compliant = compliant
	cs.Overall.LastChecked = now
	return compliant
}

// ForceCompliant marks the entity manually approved, bypassing document
// checks. Used by forced assignments.
func (cs *ComplianceStatus) ForceCompliant(now time.Time) {
	cs.ensure()
	cs.Overall.ManuallyApproved = true
	cs.Overall.Compliant = true
	cs.Overall.LastChecked = now
}

// ClearManualApproval removes the override; the next compliance check falls
// back to the document verdict.
func (cs *ComplianceStatus) ClearManualApproval() {
	cs.Overall.ManuallyApproved = false
}

// SetVerification records a verify/reject decision for one document. It does
// not touch the manual-override flag.
func (cs *ComplianceStatus) SetVerification(docType DocType, verified bool, verifiedBy primitive.ObjectID, notes string, now time.Time) {
	cs.ensure()
	cs.Documents[docType] = Verification{
		Verified:   verified,
		VerifiedBy: &verifiedBy,
		VerifiedAt: &now,
		Notes:      notes,
	}
}

// ResetVerification clears the review record for a document, used after a
// fresh upload replaces the blob.
func (cs *ComplianceStatus) ResetVerification(docType DocType) {
	cs.ensure()
	cs.Documents[docType] = Verification{}
}

// ClearVerification drops the review record entirely, used when the document
// itself is deleted.
func (cs *ComplianceStatus) ClearVerification(docType DocType) {
	delete(cs.Documents, docType)
}
