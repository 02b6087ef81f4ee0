package services

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"fleethub/internal/models"
	"fleethub/internal/utils"
	"fleethub/internal/validators"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type documentFixture struct {
	tree        *vendorTree
	driverRepo  *fakeDriverRepo
	vehicleRepo *fakeVehicleRepo
	store       *fakeStorage
	service     DocumentService
}

func newDocumentFixture() *documentFixture {
	tree := newVendorTree()
	driverRepo := newFakeDriverRepo()
	vehicleRepo := newFakeVehicleRepo()
	store := newFakeStorage()
	return &documentFixture{
		tree:        tree,
		driverRepo:  driverRepo,
		vehicleRepo: vehicleRepo,
		store:       store,
		service:     NewDocumentService(driverRepo, vehicleRepo, tree.vendorRepo, store, testLogger()),
	}
}

func pdfUpload(name string) *DocumentUpload {
	content := "%PDF-1.4 test"
	return &DocumentUpload{
		FileName:    name,
		ContentType: "application/pdf",
		Size:        int64(len(content)),
		Reader:      strings.NewReader(content),
	}
}

func TestDocumentService_UploadDriverDocument(t *testing.T) {
	f := newDocumentFixture()
	ctx := context.Background()
	principal := f.tree.principalFor(f.tree.city)
	driver := f.driverRepo.add(&models.Driver{Name: "Asha", VendorID: f.tree.city.ID, Status: models.DriverStatusInactive})

	expiry := time.Now().AddDate(1, 0, 0)
	upload := pdfUpload("license.pdf")
	upload.ExpiresAt = &expiry
	upload.LicenseNumber = "DL-1420110012345"

	response, err := f.service.UploadDriverDocument(ctx, principal, driver.ID, models.DocDrivingLicense, upload)
	assert.NoError(t, err)

	doc := response.Documents[models.DocDrivingLicense]
	assert.NotEmpty(t, doc.URL)
	assert.Equal(t, "DL-1420110012345", doc.LicenseNumber)
	assert.NotNil(t, doc.UploadedAt)

	// The blob landed in storage under the driver's key.
	exists, _ := f.store.FileExists(ctx, "drivers/"+driver.ID.Hex()+"/drivingLicense.pdf")
	assert.True(t, exists)

	// A fresh upload is unverified, so the driver stays non-compliant.
	assert.False(t, response.ComplianceStatus.Documents[models.DocDrivingLicense].Verified)
	assert.False(t, response.ComplianceStatus.Overall.Compliant)
}

func TestDocumentService_DownloadDriverDocument(t *testing.T) {
	f := newDocumentFixture()
	ctx := context.Background()
	principal := f.tree.principalFor(f.tree.city)
	driver := f.driverRepo.add(&models.Driver{Name: "Asha", VendorID: f.tree.city.ID, Status: models.DriverStatusInactive})

	_, err := f.service.UploadDriverDocument(ctx, principal, driver.ID, models.DocDrivingLicense, pdfUpload("license.pdf"))
	assert.NoError(t, err)

	file, err := f.service.DownloadDriverDocument(ctx, principal, driver.ID, models.DocDrivingLicense)
	assert.NoError(t, err)
	assert.Equal(t, "drivingLicense.pdf", file.FileName)

	content, err := io.ReadAll(file.Reader)
	assert.NoError(t, err)
	assert.NoError(t, file.Reader.Close())
	assert.Equal(t, "%PDF-1.4 test", string(content))

	// Nothing stored for the permit, so there is nothing to stream.
	_, err = f.service.DownloadDriverDocument(ctx, principal, driver.ID, models.DocPermit)
	assertKind(t, err, utils.KindNotFound)
}

func TestDocumentService_DeleteDriverDocument(t *testing.T) {
	f := newDocumentFixture()
	ctx := context.Background()
	principal := f.tree.principalFor(f.tree.city)
	driver := f.driverRepo.add(&models.Driver{Name: "Asha", VendorID: f.tree.city.ID, Status: models.DriverStatusInactive})

	_, err := f.service.UploadDriverDocument(ctx, principal, driver.ID, models.DocDrivingLicense, pdfUpload("license.pdf"))
	assert.NoError(t, err)
	_, err = f.service.VerifyDriverDocument(ctx, principal, driver.ID, models.DocDrivingLicense, &validators.VerifyDocumentRequest{DocType: string(models.DocDrivingLicense), Verified: true})
	assert.NoError(t, err)

	response, err := f.service.DeleteDriverDocument(ctx, principal, driver.ID, models.DocDrivingLicense)
	assert.NoError(t, err)

	// Record, review state and verdict are all gone with the blob.
	_, kept := response.Documents[models.DocDrivingLicense]
	assert.False(t, kept)
	_, reviewed := response.ComplianceStatus.Documents[models.DocDrivingLicense]
	assert.False(t, reviewed)
	assert.False(t, response.ComplianceStatus.Overall.Compliant)

	exists, _ := f.store.FileExists(ctx, "drivers/"+driver.ID.Hex()+"/drivingLicense.pdf")
	assert.False(t, exists)

	stored, _ := f.driverRepo.GetByID(ctx, driver.ID)
	assert.False(t, stored.ComplianceStatus.Overall.Compliant)

	// Deleting again has nothing to remove.
	_, err = f.service.DeleteDriverDocument(ctx, principal, driver.ID, models.DocDrivingLicense)
	assertKind(t, err, utils.KindNotFound)
}

func TestDocumentService_DeleteVehicleDocument(t *testing.T) {
	f := newDocumentFixture()
	ctx := context.Background()
	principal := f.tree.principalFor(f.tree.city)
	vehicle := f.vehicleRepo.add(&models.Vehicle{RegNumber: "KA-01-0042", VendorID: f.tree.city.ID, Status: models.VehicleStatusInactive})

	_, err := f.service.UploadVehicleDocument(ctx, principal, vehicle.ID, models.DocInsurance, pdfUpload("insurance.pdf"))
	assert.NoError(t, err)

	response, err := f.service.DeleteVehicleDocument(ctx, principal, vehicle.ID, models.DocInsurance)
	assert.NoError(t, err)

	_, kept := response.Documents[models.DocInsurance]
	assert.False(t, kept)

	exists, _ := f.store.FileExists(ctx, "vehicles/"+vehicle.ID.Hex()+"/insurance.pdf")
	assert.False(t, exists)
}

func TestDocumentService_UploadResetsVerification(t *testing.T) {
	f := newDocumentFixture()
	ctx := context.Background()
	principal := f.tree.principalFor(f.tree.city)
	driver := f.driverRepo.add(&models.Driver{Name: "Asha", VendorID: f.tree.city.ID, Status: models.DriverStatusInactive})

	_, err := f.service.UploadDriverDocument(ctx, principal, driver.ID, models.DocDrivingLicense, pdfUpload("license.pdf"))
	assert.NoError(t, err)
	_, err = f.service.VerifyDriverDocument(ctx, principal, driver.ID, models.DocDrivingLicense, &validators.VerifyDocumentRequest{
		DocType:  string(models.DocDrivingLicense),
		Verified: true,
	})
	assert.NoError(t, err)

	// Replacing the file sends it back through review.
	response, err := f.service.UploadDriverDocument(ctx, principal, driver.ID, models.DocDrivingLicense, pdfUpload("license-v2.pdf"))
	assert.NoError(t, err)
	assert.False(t, response.ComplianceStatus.Documents[models.DocDrivingLicense].Verified)
	assert.False(t, response.ComplianceStatus.Overall.Compliant)
}

func TestDocumentService_UploadValidation(t *testing.T) {
	f := newDocumentFixture()
	ctx := context.Background()
	principal := f.tree.principalFor(f.tree.city)
	driver := f.driverRepo.add(&models.Driver{Name: "Asha", VendorID: f.tree.city.ID, Status: models.DriverStatusInactive})

	t.Run("wrong doc type for driver", func(t *testing.T) {
		_, err := f.service.UploadDriverDocument(ctx, principal, driver.ID, models.DocInsurance, pdfUpload("ins.pdf"))
		assertKind(t, err, utils.KindValidation)
	})

	t.Run("disallowed extension", func(t *testing.T) {
		_, err := f.service.UploadDriverDocument(ctx, principal, driver.ID, models.DocDrivingLicense, pdfUpload("license.exe"))
		assertKind(t, err, utils.KindValidation)
	})

	t.Run("oversized file", func(t *testing.T) {
		upload := pdfUpload("license.pdf")
		upload.Size = utils.MaxDocumentSize + 1
		_, err := f.service.UploadDriverDocument(ctx, principal, driver.ID, models.DocDrivingLicense, upload)
		assertKind(t, err, utils.KindValidation)
	})

	t.Run("driver outside subtree", func(t *testing.T) {
		outside := f.driverRepo.add(&models.Driver{Name: "Rootie", VendorID: f.tree.root.ID, Status: models.DriverStatusInactive})
		_, err := f.service.UploadDriverDocument(ctx, principal, outside.ID, models.DocDrivingLicense, pdfUpload("license.pdf"))
		assertKind(t, err, utils.KindForbidden)
	})
}

func TestDocumentService_VerifyDriverDocument(t *testing.T) {
	f := newDocumentFixture()
	ctx := context.Background()
	principal := f.tree.principalFor(f.tree.root)
	driver := f.driverRepo.add(&models.Driver{Name: "Asha", VendorID: f.tree.city.ID, Status: models.DriverStatusInactive})

	// Verifying a document that was never uploaded is refused.
	_, err := f.service.VerifyDriverDocument(ctx, principal, driver.ID, models.DocDrivingLicense, &validators.VerifyDocumentRequest{
		DocType:  string(models.DocDrivingLicense),
		Verified: true,
	})
	assertKind(t, err, utils.KindValidation)

	_, err = f.service.UploadDriverDocument(ctx, principal, driver.ID, models.DocDrivingLicense, pdfUpload("license.pdf"))
	assert.NoError(t, err)

	status, err := f.service.VerifyDriverDocument(ctx, principal, driver.ID, models.DocDrivingLicense, &validators.VerifyDocumentRequest{
		DocType:  string(models.DocDrivingLicense),
		Verified: true,
		Notes:    "looks good",
	})
	assert.NoError(t, err)
	assert.True(t, status.Documents[models.DocDrivingLicense].Verified)
	assert.Equal(t, principal.UserID, *status.Documents[models.DocDrivingLicense].VerifiedBy)
	assert.Equal(t, "looks good", status.Documents[models.DocDrivingLicense].Notes)
	// The license is the only required driver document, so verifying it flips
	// the overall verdict.
	assert.True(t, status.Overall.Compliant)

	stored, _ := f.driverRepo.GetByID(ctx, driver.ID)
	assert.True(t, stored.ComplianceStatus.Overall.Compliant)
}

func TestDocumentService_VerifyRejection(t *testing.T) {
	f := newDocumentFixture()
	ctx := context.Background()
	principal := f.tree.principalFor(f.tree.root)
	vehicle := f.vehicleRepo.add(&models.Vehicle{RegNumber: "KA-01-0001", VendorID: f.tree.city.ID, Status: models.VehicleStatusInactive})

	_, err := f.service.UploadVehicleDocument(ctx, principal, vehicle.ID, models.DocInsurance, pdfUpload("ins.pdf"))
	assert.NoError(t, err)

	status, err := f.service.VerifyVehicleDocument(ctx, principal, vehicle.ID, models.DocInsurance, &validators.VerifyDocumentRequest{
		DocType:  string(models.DocInsurance),
		Verified: false,
		Notes:    "policy lapsed",
	})
	assert.NoError(t, err)
	assert.False(t, status.Documents[models.DocInsurance].Verified)
	assert.False(t, status.Overall.Compliant)
}

func TestDocumentService_GetDocuments(t *testing.T) {
	f := newDocumentFixture()
	ctx := context.Background()
	principal := f.tree.principalFor(f.tree.city)
	driver := f.driverRepo.add(&models.Driver{Name: "Asha", VendorID: f.tree.city.ID, Status: models.DriverStatusInactive})

	// Drivers with no uploads still return an empty map, not nil.
	response, err := f.service.GetDriverDocuments(ctx, principal, driver.ID)
	assert.NoError(t, err)
	assert.NotNil(t, response.Documents)
	assert.Empty(t, response.Documents)

	_, err = f.service.GetDriverDocuments(ctx, principal, primitive.NewObjectID())
	assertKind(t, err, utils.KindNotFound)
}

func TestDocumentService_RecheckCompliance(t *testing.T) {
	f := newDocumentFixture()
	ctx := context.Background()
	principal := f.tree.principalFor(f.tree.city)

	// A verified document that has since expired is caught by a recheck.
	now := time.Now()
	expired := now.Add(-time.Hour)
	driver := &models.Driver{Name: "Asha", VendorID: f.tree.city.ID, Status: models.DriverStatusAvailable}
	driver.SetDocument(models.DocDrivingLicense, models.Document{URL: "https://files.test/dl.pdf", ExpiresAt: &expired})
	driver.ComplianceStatus.SetVerification(models.DocDrivingLicense, true, primitive.NewObjectID(), "", now.Add(-48*time.Hour))
	driver.ComplianceStatus.Overall.Compliant = true
	f.driverRepo.add(driver)

	status, err := f.service.RecheckDriverCompliance(ctx, principal, driver.ID)
	assert.NoError(t, err)
	assert.False(t, status.Overall.Compliant)

	stored, _ := f.driverRepo.GetByID(ctx, driver.ID)
	assert.False(t, stored.ComplianceStatus.Overall.Compliant)
}

func TestDocumentService_GetComplianceSummary(t *testing.T) {
	f := newDocumentFixture()
	ctx := context.Background()
	now := time.Now()

	// One driver pending review, one compliant; one vehicle without documents.
	pending := &models.Driver{Name: "Pending", VendorID: f.tree.city.ID, Status: models.DriverStatusInactive}
	pending.SetDocument(models.DocDrivingLicense, models.Document{URL: "https://files.test/dl.pdf"})
	pending.CheckCompliance(now)
	f.driverRepo.add(pending)

	compliant := &models.Driver{Name: "Ready", VendorID: f.tree.city.ID, Status: models.DriverStatusAvailable}
	compliant.SetDocument(models.DocDrivingLicense, models.Document{URL: "https://files.test/dl2.pdf"})
	compliant.ComplianceStatus.SetVerification(models.DocDrivingLicense, true, primitive.NewObjectID(), "", now)
	compliant.CheckCompliance(now)
	f.driverRepo.add(compliant)

	f.vehicleRepo.add(&models.Vehicle{RegNumber: "KA-01-0001", VendorID: f.tree.city.ID, Status: models.VehicleStatusInactive})

	summary, err := f.service.GetComplianceSummary(ctx, f.tree.principalFor(f.tree.city))
	assert.NoError(t, err)
	assert.Equal(t, int64(1), summary.PendingDriverDocs)
	assert.Equal(t, int64(1), summary.NonCompliantDrivers)
	assert.Equal(t, int64(1), summary.NonCompliantVehicles)
	assert.Equal(t, int64(0), summary.PendingVehicleDocs)
}

func TestDocumentService_GetExpiringDocuments(t *testing.T) {
	f := newDocumentFixture()
	ctx := context.Background()
	now := time.Now()

	soon := now.AddDate(0, 0, 10)
	far := now.AddDate(0, 0, 90)

	expiringDriver := &models.Driver{Name: "Expiring", VendorID: f.tree.city.ID, Status: models.DriverStatusAvailable}
	expiringDriver.SetDocument(models.DocDrivingLicense, models.Document{URL: "https://files.test/dl.pdf", ExpiresAt: &soon})
	f.driverRepo.add(expiringDriver)

	laterDriver := &models.Driver{Name: "Later", VendorID: f.tree.city.ID, Status: models.DriverStatusAvailable}
	laterDriver.SetDocument(models.DocDrivingLicense, models.Document{URL: "https://files.test/dl2.pdf", ExpiresAt: &far})
	f.driverRepo.add(laterDriver)

	expiringVehicle := &models.Vehicle{RegNumber: "KA-01-0001", VendorID: f.tree.city.ID, Status: models.VehicleStatusAvailable}
	expiringVehicle.SetDocument(models.DocInsurance, models.Document{URL: "https://files.test/ins.pdf", ExpiresAt: &soon})
	f.vehicleRepo.add(expiringVehicle)

	response, err := f.service.GetExpiringDocuments(ctx, f.tree.principalFor(f.tree.city), &validators.ExpiringDocumentsRequest{Days: 30, Limit: 10})
	assert.NoError(t, err)
	assert.Equal(t, 30, response.Days)
	assert.Len(t, response.ExpiringDocuments.Drivers, 1)
	assert.Len(t, response.ExpiringDocuments.Vehicles, 1)

	ref := response.ExpiringDocuments.Drivers[0].Documents[models.DocDrivingLicense]
	if assert.NotNil(t, ref) {
		assert.Equal(t, 10, ref.DaysRemaining)
	}

	// Days defaults to the standard window when omitted.
	response, err = f.service.GetExpiringDocuments(ctx, f.tree.principalFor(f.tree.city), &validators.ExpiringDocumentsRequest{})
	assert.NoError(t, err)
	assert.Equal(t, utils.DefaultExpiryWindow, response.Days)
}
