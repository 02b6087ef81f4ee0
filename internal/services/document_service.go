package services

import (
	"context"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"
	"time"

	"fleethub/internal/models"
	"fleethub/internal/repositories/interfaces"
	"fleethub/internal/utils"
	"fleethub/internal/validators"
	"fleethub/pkg/logger"
	"fleethub/pkg/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DocumentService owns the compliance document lifecycle: upload, review and
// the subtree-wide reporting around it.
type DocumentService interface {
	UploadDriverDocument(ctx context.Context, principal *models.Principal, driverID primitive.ObjectID, docType models.DocType, upload *DocumentUpload) (*DocumentsResponse, error)
	UploadVehicleDocument(ctx context.Context, principal *models.Principal, vehicleID primitive.ObjectID, docType models.DocType, upload *DocumentUpload) (*DocumentsResponse, error)

	GetDriverDocuments(ctx context.Context, principal *models.Principal, driverID primitive.ObjectID) (*DocumentsResponse, error)
	GetVehicleDocuments(ctx context.Context, principal *models.Principal, vehicleID primitive.ObjectID) (*DocumentsResponse, error)

	DownloadDriverDocument(ctx context.Context, principal *models.Principal, driverID primitive.ObjectID, docType models.DocType) (*DocumentFile, error)
	DownloadVehicleDocument(ctx context.Context, principal *models.Principal, vehicleID primitive.ObjectID, docType models.DocType) (*DocumentFile, error)

	DeleteDriverDocument(ctx context.Context, principal *models.Principal, driverID primitive.ObjectID, docType models.DocType) (*DocumentsResponse, error)
	DeleteVehicleDocument(ctx context.Context, principal *models.Principal, vehicleID primitive.ObjectID, docType models.DocType) (*DocumentsResponse, error)

	VerifyDriverDocument(ctx context.Context, principal *models.Principal, driverID primitive.ObjectID, docType models.DocType, request *validators.VerifyDocumentRequest) (*models.ComplianceStatus, error)
	VerifyVehicleDocument(ctx context.Context, principal *models.Principal, vehicleID primitive.ObjectID, docType models.DocType, request *validators.VerifyDocumentRequest) (*models.ComplianceStatus, error)

	RecheckDriverCompliance(ctx context.Context, principal *models.Principal, driverID primitive.ObjectID) (*models.ComplianceStatus, error)
	RecheckVehicleCompliance(ctx context.Context, principal *models.Principal, vehicleID primitive.ObjectID) (*models.ComplianceStatus, error)

	GetComplianceSummary(ctx context.Context, principal *models.Principal) (*ComplianceSummary, error)
	GetExpiringDocuments(ctx context.Context, principal *models.Principal, request *validators.ExpiringDocumentsRequest) (*ExpiringDocumentsResponse, error)
}

type documentService struct {
	driverRepo  interfaces.DriverRepository
	vehicleRepo interfaces.VehicleRepository
	vendorRepo  interfaces.VendorRepository
	storage     storage.StorageProvider
	logger      *logger.Logger
}

// DocumentUpload carries one incoming file plus its metadata.
type DocumentUpload struct {
	FileName      string
	ContentType   string
	Size          int64
	Reader        io.Reader
	ExpiresAt     *time.Time
	LicenseNumber string
}

type DocumentsResponse struct {
	Documents        map[models.DocType]models.Document `json:"documents"`
	ComplianceStatus models.ComplianceStatus            `json:"complianceStatus"`
}

// DocumentFile streams a stored document back to the client. The caller
// closes Reader.
type DocumentFile struct {
	FileName    string
	ContentType string
	Size        int64
	Reader      io.ReadCloser
}

type ComplianceSummary struct {
	PendingDriverDocs    int64 `json:"pendingDriverDocsCount"`
	PendingVehicleDocs   int64 `json:"pendingVehicleDocsCount"`
	NonCompliantDrivers  int64 `json:"nonCompliantDriversCount"`
	NonCompliantVehicles int64 `json:"nonCompliantVehiclesCount"`

	ExpiringDocuments ExpiringDocuments `json:"expiringDocuments"`
}

type ExpiringDocuments struct {
	Drivers  []ExpiringDriverDocs  `json:"drivers"`
	Vehicles []ExpiringVehicleDocs `json:"vehicles"`
}

type ExpiringDocumentsResponse struct {
	Days              int               `json:"days"`
	ExpiringDocuments ExpiringDocuments `json:"expiringDocuments"`
}

type ExpiringDocumentRef struct {
	ExpiresAt     time.Time `json:"expiresAt"`
	DaysRemaining int       `json:"daysRemaining"`
}

type ExpiringDriverDocs struct {
	ID        primitive.ObjectID                      `json:"id"`
	Name      string                                  `json:"name"`
	Documents map[models.DocType]*ExpiringDocumentRef `json:"documents"`
}

type ExpiringVehicleDocs struct {
	ID        primitive.ObjectID                      `json:"id"`
	RegNumber string                                  `json:"regNumber"`
	Documents map[models.DocType]*ExpiringDocumentRef `json:"documents"`
}

var allowedDocumentExts = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

func NewDocumentService(
	driverRepo interfaces.DriverRepository,
	vehicleRepo interfaces.VehicleRepository,
	vendorRepo interfaces.VendorRepository,
	storageProvider storage.StorageProvider,
	logger *logger.Logger,
) DocumentService {
	return &documentService{
		driverRepo:  driverRepo,
		vehicleRepo: vehicleRepo,
		vendorRepo:  vendorRepo,
		storage:     storageProvider,
		logger:      logger,
	}
}

func validateUpload(upload *DocumentUpload) error {
	ext := strings.ToLower(filepath.Ext(upload.FileName))
	if !allowedDocumentExts[ext] {
		return utils.NewValidationError("invalid file type, only PDF and image files are allowed")
	}
	if upload.Size > utils.MaxDocumentSize {
		return utils.NewValidationError("document exceeds the maximum allowed size")
	}
	return nil
}

func (s *documentService) storeFile(ctx context.Context, kind string, entityID primitive.ObjectID, docType models.DocType, upload *DocumentUpload) (string, error) {
	ext := strings.ToLower(filepath.Ext(upload.FileName))
	key := fmt.Sprintf("%s/%s/%s%s", kind, entityID.Hex(), docType, ext)

	response, err := s.storage.Upload(ctx, &storage.UploadRequest{
		Key:         key,
		Reader:      upload.Reader,
		ContentType: upload.ContentType,
		Size:        upload.Size,
	})
	if err != nil {
		return "", fmt.Errorf("failed to store document: %w", err)
	}
	return response.URL, nil
}

func (s *documentService) UploadDriverDocument(ctx context.Context, principal *models.Principal, driverID primitive.ObjectID, docType models.DocType, upload *DocumentUpload) (*DocumentsResponse, error) {
	if !models.IsValidDriverDocType(docType) {
		return nil, utils.NewValidationError("invalid driver document type")
	}
	if err := validateUpload(upload); err != nil {
		return nil, err
	}

	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, translateRepoErr(err, "driver")
	}
	if _, err := requireInScope(ctx, s.vendorRepo, principal, driver.VendorID); err != nil {
		return nil, err
	}

	url, err := s.storeFile(ctx, "drivers", driverID, docType, upload)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	now := time.Now()
	driver.SetDocument(docType, models.Document{
		URL:           url,
		UploadedAt:    &now,
		ExpiresAt:     upload.ExpiresAt,
		LicenseNumber: upload.LicenseNumber,
	})
	// A fresh upload always goes back through review.
	driver.ComplianceStatus.ResetVerification(docType)
	driver.CheckCompliance(now)

	if err := s.driverRepo.Save(ctx, driver); err != nil {
		return nil, translateRepoErr(err, "driver")
	}

	s.logger.WithFields(map[string]interface{}{
		"driver_id": driverID.Hex(),
		"doc_type":  string(docType),
	}).Info("Driver document uploaded")

	return &DocumentsResponse{Documents: driver.Documents, ComplianceStatus: driver.ComplianceStatus}, nil
}

func (s *documentService) UploadVehicleDocument(ctx context.Context, principal *models.Principal, vehicleID primitive.ObjectID, docType models.DocType, upload *DocumentUpload) (*DocumentsResponse, error) {
	if !models.IsValidVehicleDocType(docType) {
		return nil, utils.NewValidationError("invalid vehicle document type")
	}
	if err := validateUpload(upload); err != nil {
		return nil, err
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, translateRepoErr(err, "vehicle")
	}
	if _, err := requireInScope(ctx, s.vendorRepo, principal, vehicle.VendorID); err != nil {
		return nil, err
	}

	url, err := s.storeFile(ctx, "vehicles", vehicleID, docType, upload)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	now := time.Now()
	vehicle.SetDocument(docType, models.Document{
		URL:        url,
		UploadedAt: &now,
		ExpiresAt:  upload.ExpiresAt,
	})
	vehicle.ComplianceStatus.ResetVerification(docType)
	vehicle.CheckCompliance(now)

	if err := s.vehicleRepo.Save(ctx, vehicle); err != nil {
		return nil, translateRepoErr(err, "vehicle")
	}

	s.logger.WithFields(map[string]interface{}{
		"vehicle_id": vehicleID.Hex(),
		"doc_type":   string(docType),
	}).Info("Vehicle document uploaded")

	return &DocumentsResponse{Documents: vehicle.Documents, ComplianceStatus: vehicle.ComplianceStatus}, nil
}

func (s *documentService) GetDriverDocuments(ctx context.Context, principal *models.Principal, driverID primitive.ObjectID) (*DocumentsResponse, error) {
	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, translateRepoErr(err, "driver")
	}
	if _, err := requireInScope(ctx, s.vendorRepo, principal, driver.VendorID); err != nil {
		return nil, err
	}
	if driver.Documents == nil {
		driver.Documents = map[models.DocType]models.Document{}
	}
	return &DocumentsResponse{Documents: driver.Documents, ComplianceStatus: driver.ComplianceStatus}, nil
}

func (s *documentService) GetVehicleDocuments(ctx context.Context, principal *models.Principal, vehicleID primitive.ObjectID) (*DocumentsResponse, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, translateRepoErr(err, "vehicle")
	}
	if _, err := requireInScope(ctx, s.vendorRepo, principal, vehicle.VendorID); err != nil {
		return nil, err
	}
	if vehicle.Documents == nil {
		vehicle.Documents = map[models.DocType]models.Document{}
	}
	return &DocumentsResponse{Documents: vehicle.Documents, ComplianceStatus: vehicle.ComplianceStatus}, nil
}

// documentKey rebuilds the storage key for a stored document. The extension
// comes from the URL recorded at upload time.
func documentKey(kind string, entityID primitive.ObjectID, docType models.DocType, url string) string {
	ext := strings.ToLower(filepath.Ext(url))
	return fmt.Sprintf("%s/%s/%s%s", kind, entityID.Hex(), docType, ext)
}

func (s *documentService) downloadFile(ctx context.Context, key string, docType models.DocType) (*DocumentFile, error) {
	response, err := s.storage.Download(ctx, key)
	if err != nil {
		return nil, utils.NewInternalError(fmt.Errorf("failed to fetch document: %w", err))
	}
	return &DocumentFile{
		FileName:    string(docType) + strings.ToLower(filepath.Ext(key)),
		ContentType: response.ContentType,
		Size:        response.Size,
		Reader:      response.Reader,
	}, nil
}

func (s *documentService) DownloadDriverDocument(ctx context.Context, principal *models.Principal, driverID primitive.ObjectID, docType models.DocType) (*DocumentFile, error) {
	if !models.IsValidDriverDocType(docType) {
		return nil, utils.NewValidationError("invalid driver document type")
	}
	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, translateRepoErr(err, "driver")
	}
	if _, err := requireInScope(ctx, s.vendorRepo, principal, driver.VendorID); err != nil {
		return nil, err
	}
	if driver.Documents[docType].URL == "" {
		return nil, utils.NewNotFoundError("document")
	}
	key := documentKey("drivers", driverID, docType, driver.Documents[docType].URL)
	return s.downloadFile(ctx, key, docType)
}

func (s *documentService) DownloadVehicleDocument(ctx context.Context, principal *models.Principal, vehicleID primitive.ObjectID, docType models.DocType) (*DocumentFile, error) {
	if !models.IsValidVehicleDocType(docType) {
		return nil, utils.NewValidationError("invalid vehicle document type")
	}
	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, translateRepoErr(err, "vehicle")
	}
	if _, err := requireInScope(ctx, s.vendorRepo, principal, vehicle.VendorID); err != nil {
		return nil, err
	}
	if vehicle.Documents[docType].URL == "" {
		return nil, utils.NewNotFoundError("document")
	}
	key := documentKey("vehicles", vehicleID, docType, vehicle.Documents[docType].URL)
	return s.downloadFile(ctx, key, docType)
}

func (s *documentService) deleteFile(ctx context.Context, key string) error {
	exists, err := s.storage.FileExists(ctx, key)
	if err != nil {
		return utils.NewInternalError(fmt.Errorf("failed to check document: %w", err))
	}
	if !exists {
		return nil
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		return utils.NewInternalError(fmt.Errorf("failed to delete document: %w", err))
	}
	return nil
}

// DeleteDriverDocument removes the blob and the document record. The
// compliance verdict is recomputed without it.
func (s *documentService) DeleteDriverDocument(ctx context.Context, principal *models.Principal, driverID primitive.ObjectID, docType models.DocType) (*DocumentsResponse, error) {
	if !models.IsValidDriverDocType(docType) {
		return nil, utils.NewValidationError("invalid driver document type")
	}
	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, translateRepoErr(err, "driver")
	}
	if _, err := requireInScope(ctx, s.vendorRepo, principal, driver.VendorID); err != nil {
		return nil, err
	}
	if driver.Documents[docType].URL == "" {
		return nil, utils.NewNotFoundError("document")
	}

	key := documentKey("drivers", driverID, docType, driver.Documents[docType].URL)
	if err := s.deleteFile(ctx, key); err != nil {
		return nil, err
	}

	driver.RemoveDocument(docType)
	driver.ComplianceStatus.ClearVerification(docType)
	driver.CheckCompliance(time.Now())

	if err := s.driverRepo.Save(ctx, driver); err != nil {
		return nil, translateRepoErr(err, "driver")
	}

	s.logger.WithFields(map[string]interface{}{
		"driver_id": driverID.Hex(),
		"doc_type":  string(docType),
	}).Info("Driver document deleted")

	return &DocumentsResponse{Documents: driver.Documents, ComplianceStatus: driver.ComplianceStatus}, nil
}

func (s *documentService) DeleteVehicleDocument(ctx context.Context, principal *models.Principal, vehicleID primitive.ObjectID, docType models.DocType) (*DocumentsResponse, error) {
	if !models.IsValidVehicleDocType(docType) {
		return nil, utils.NewValidationError("invalid vehicle document type")
	}
	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, translateRepoErr(err, "vehicle")
	}
	if _, err := requireInScope(ctx, s.vendorRepo, principal, vehicle.VendorID); err != nil {
		return nil, err
	}
	if vehicle.Documents[docType].URL == "" {
		return nil, utils.NewNotFoundError("document")
	}

	key := documentKey("vehicles", vehicleID, docType, vehicle.Documents[docType].URL)
	if err := s.deleteFile(ctx, key); err != nil {
		return nil, err
	}

	vehicle.RemoveDocument(docType)
	vehicle.ComplianceStatus.ClearVerification(docType)
	vehicle.CheckCompliance(time.Now())

	if err := s.vehicleRepo.Save(ctx, vehicle); err != nil {
		return nil, translateRepoErr(err, "vehicle")
	}

	s.logger.WithFields(map[string]interface{}{
		"vehicle_id": vehicleID.Hex(),
		"doc_type":   string(docType),
	}).Info("Vehicle document deleted")

	return &DocumentsResponse{Documents: vehicle.Documents, ComplianceStatus: vehicle.ComplianceStatus}, nil
}

func (s *documentService) VerifyDriverDocument(ctx context.Context, principal *models.Principal, driverID primitive.ObjectID, docType models.DocType, request *validators.VerifyDocumentRequest) (*models.ComplianceStatus, error) {
	if !models.IsValidDriverDocType(docType) {
		return nil, utils.NewValidationError("invalid driver document type")
	}
	if errs := validators.ValidateVerifyDocument(request); len(errs) > 0 {
		return nil, utils.NewValidationError(errs.Error())
	}

	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, translateRepoErr(err, "driver")
	}
	if _, err := requireInScope(ctx, s.vendorRepo, principal, driver.VendorID); err != nil {
		return nil, err
	}
	if driver.Documents[docType].URL == "" {
		return nil, utils.NewValidationError(fmt.Sprintf("no %s document found", docType))
	}

	now := time.Now()
	driver.ComplianceStatus.SetVerification(docType, request.Verified, principal.UserID, request.Notes, now)
	driver.CheckCompliance(now)

	if err := s.driverRepo.Save(ctx, driver); err != nil {
		return nil, translateRepoErr(err, "driver")
	}

	s.logger.WithFields(map[string]interface{}{
		"driver_id":   driverID.Hex(),
		"doc_type":    string(docType),
		"verified":    request.Verified,
		"verified_by": principal.UserID.Hex(),
	}).Info("Driver document reviewed")

	return &driver.ComplianceStatus, nil
}

func (s *documentService) VerifyVehicleDocument(ctx context.Context, principal *models.Principal, vehicleID primitive.ObjectID, docType models.DocType, request *validators.VerifyDocumentRequest) (*models.ComplianceStatus, error) {
	if !models.IsValidVehicleDocType(docType) {
		return nil, utils.NewValidationError("invalid vehicle document type")
	}
	if errs := validators.ValidateVerifyDocument(request); len(errs) > 0 {
		return nil, utils.NewValidationError(errs.Error())
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, translateRepoErr(err, "vehicle")
	}
	if _, err := requireInScope(ctx, s.vendorRepo, principal, vehicle.VendorID); err != nil {
		return nil, err
	}
	if vehicle.Documents[docType].URL == "" {
		return nil, utils.NewValidationError(fmt.Sprintf("no %s document found", docType))
	}

	now := time.Now()
	vehicle.ComplianceStatus.SetVerification(docType, request.Verified, principal.UserID, request.Notes, now)
	vehicle.CheckCompliance(now)

	if err := s.vehicleRepo.Save(ctx, vehicle); err != nil {
		return nil, translateRepoErr(err, "vehicle")
	}

	s.logger.WithFields(map[string]interface{}{
		"vehicle_id":  vehicleID.Hex(),
		"doc_type":    string(docType),
		"verified":    request.Verified,
		"verified_by": principal.UserID.Hex(),
	}).Info("Vehicle document reviewed")

	return &vehicle.ComplianceStatus, nil
}

func (s *documentService) RecheckDriverCompliance(ctx context.Context, principal *models.Principal, driverID primitive.ObjectID) (*models.ComplianceStatus, error) {
	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, translateRepoErr(err, "driver")
	}
	if _, err := requireInScope(ctx, s.vendorRepo, principal, driver.VendorID); err != nil {
		return nil, err
	}

	driver.CheckCompliance(time.Now())
	if err := s.driverRepo.Save(ctx, driver); err != nil {
		return nil, translateRepoErr(err, "driver")
	}
	return &driver.ComplianceStatus, nil
}

func (s *documentService) RecheckVehicleCompliance(ctx context.Context, principal *models.Principal, vehicleID primitive.ObjectID) (*models.ComplianceStatus, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, translateRepoErr(err, "vehicle")
	}
	if _, err := requireInScope(ctx, s.vendorRepo, principal, vehicle.VendorID); err != nil {
		return nil, err
	}

	vehicle.CheckCompliance(time.Now())
	if err := s.vehicleRepo.Save(ctx, vehicle); err != nil {
		return nil, translateRepoErr(err, "vehicle")
	}
	return &vehicle.ComplianceStatus, nil
}

func (s *documentService) GetComplianceSummary(ctx context.Context, principal *models.Principal) (*ComplianceSummary, error) {
	subtree, err := s.vendorRepo.GetSubtreeIDs(ctx, principal.VendorID)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	summary := &ComplianceSummary{}
	if summary.PendingDriverDocs, err = s.driverRepo.CountPendingDocuments(ctx, subtree); err != nil {
		return nil, utils.NewInternalError(err)
	}
	if summary.PendingVehicleDocs, err = s.vehicleRepo.CountPendingDocuments(ctx, subtree); err != nil {
		return nil, utils.NewInternalError(err)
	}
	if summary.NonCompliantDrivers, err = s.driverRepo.CountNonCompliant(ctx, subtree); err != nil {
		return nil, utils.NewInternalError(err)
	}
	if summary.NonCompliantVehicles, err = s.vehicleRepo.CountNonCompliant(ctx, subtree); err != nil {
		return nil, utils.NewInternalError(err)
	}

	expiring, err := s.collectExpiring(ctx, subtree, utils.DefaultExpiryWindow, utils.ExpiringDocsMaxLimit)
	if err != nil {
		return nil, err
	}
	summary.ExpiringDocuments = *expiring

	return summary, nil
}

func (s *documentService) GetExpiringDocuments(ctx context.Context, principal *models.Principal, request *validators.ExpiringDocumentsRequest) (*ExpiringDocumentsResponse, error) {
	if errs := validators.ValidateExpiringDocuments(request); len(errs) > 0 {
		return nil, utils.NewValidationError(errs.Error())
	}

	days := request.Days
	if days <= 0 {
		days = utils.DefaultExpiryWindow
	}

	subtree, err := s.vendorRepo.GetSubtreeIDs(ctx, principal.VendorID)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	expiring, err := s.collectExpiring(ctx, subtree, days, int64(request.Limit))
	if err != nil {
		return nil, err
	}

	return &ExpiringDocumentsResponse{Days: days, ExpiringDocuments: *expiring}, nil
}

func (s *documentService) collectExpiring(ctx context.Context, subtree []primitive.ObjectID, days int, limit int64) (*ExpiringDocuments, error) {
	now := time.Now()
	until := now.AddDate(0, 0, days)

	drivers, err := s.driverRepo.FindWithExpiringDocuments(ctx, subtree, now, until, limit)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	vehicles, err := s.vehicleRepo.FindWithExpiringDocuments(ctx, subtree, now, until, limit)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	result := &ExpiringDocuments{
		Drivers:  make([]ExpiringDriverDocs, 0, len(drivers)),
		Vehicles: make([]ExpiringVehicleDocs, 0, len(vehicles)),
	}
	for _, driver := range drivers {
		result.Drivers = append(result.Drivers, ExpiringDriverDocs{
			ID:        driver.ID,
			Name:      driver.Name,
			Documents: expiringRefs(driver.Documents, models.DriverDocTypes, now, until),
		})
	}
	for _, vehicle := range vehicles {
		result.Vehicles = append(result.Vehicles, ExpiringVehicleDocs{
			ID:        vehicle.ID,
			RegNumber: vehicle.RegNumber,
			Documents: expiringRefs(vehicle.Documents, models.VehicleDocTypes, now, until),
		})
	}
	return result, nil
}

func expiringRefs(docs map[models.DocType]models.Document, docTypes []models.DocType, now, until time.Time) map[models.DocType]*ExpiringDocumentRef {
	refs := make(map[models.DocType]*ExpiringDocumentRef)
	for _, docType := range docTypes {
		doc, ok := docs[docType]
		if !ok || doc.ExpiresAt == nil {
			continue
		}
		if doc.ExpiresAt.Before(now) || doc.ExpiresAt.After(until) {
			continue
		}
		refs[docType] = &ExpiringDocumentRef{
			ExpiresAt:     *doc.ExpiresAt,
			DaysRemaining: int(math.Ceil(doc.ExpiresAt.Sub(now).Hours() / 24)),
		}
	}
	return refs
}
