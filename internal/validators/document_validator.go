package validators

import "time"

// UploadDocumentRequest carries document metadata; the file itself arrives
// as multipart form data.
type UploadDocumentRequest struct {
	DocType       string     `form:"docType" validate:"required"`
	LicenseNumber string     `form:"licenseNumber" validate:"omitempty,max=50"`
	ExpiresAt     *time.Time `form:"expiresAt" validate:"omitempty"`
}

type VerifyDocumentRequest struct {
	DocType  string `json:"docType" validate:"required"`
	Verified bool   `json:"verified"`
	Notes    string `json:"notes" validate:"omitempty,max=500"`
}

type ExpiringDocumentsRequest struct {
	Days  int `form:"days" validate:"omitempty,min=1,max=365"`
	Limit int `form:"limit" validate:"omitempty,min=1,max=100"`
}

func ValidateUploadDocument(req *UploadDocumentRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateVerifyDocument(req *VerifyDocumentRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateExpiringDocuments(req *ExpiringDocumentsRequest) ValidationErrors {
	return ValidateStruct(req)
}
