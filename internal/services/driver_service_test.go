package services

import (
	"context"
	"testing"
	"time"

	"fleethub/internal/models"
	"fleethub/internal/utils"
	"fleethub/internal/validators"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type driverFixture struct {
	tree        *vendorTree
	driverRepo  *fakeDriverRepo
	vehicleRepo *fakeVehicleRepo
	service     DriverService
}

func newDriverFixture() *driverFixture {
	tree := newVendorTree()
	driverRepo := newFakeDriverRepo()
	vehicleRepo := newFakeVehicleRepo()
	return &driverFixture{
		tree:        tree,
		driverRepo:  driverRepo,
		vehicleRepo: vehicleRepo,
		service:     NewDriverService(driverRepo, vehicleRepo, tree.vendorRepo, passThroughTx{}, testLogger()),
	}
}

func TestDriverService_CreateDriver(t *testing.T) {
	f := newDriverFixture()
	ctx := context.Background()

	driver, err := f.service.CreateDriver(ctx, f.tree.principalFor(f.tree.city), &validators.CreateDriverRequest{
		Name:    "Asha Kumar",
		Contact: "+911234567890",
		City:    "metro",
	})
	assert.NoError(t, err)
	assert.Equal(t, f.tree.city.ID, driver.VendorID)
	assert.Equal(t, models.DriverStatusAvailable, driver.Status)
	assert.False(t, driver.ComplianceStatus.Overall.Compliant)
}

func TestDriverService_CreateDriver_WithLicenseSeed(t *testing.T) {
	f := newDriverFixture()
	expiry := time.Now().AddDate(1, 0, 0)

	driver, err := f.service.CreateDriver(context.Background(), f.tree.principalFor(f.tree.city), &validators.CreateDriverRequest{
		Name:          "Ravi",
		LicenseNumber: "DL-1420110012345",
		LicenseURL:    "https://files.test/dl.pdf",
		LicenseExpiry: &expiry,
	})
	assert.NoError(t, err)

	doc := driver.Documents[models.DocDrivingLicense]
	assert.Equal(t, "DL-1420110012345", doc.LicenseNumber)
	assert.Equal(t, "https://files.test/dl.pdf", doc.URL)
	// Seeded but unverified, so still non-compliant.
	assert.False(t, driver.ComplianceStatus.Overall.Compliant)
}

func TestDriverService_CreateDriver_TargetVendorScope(t *testing.T) {
	f := newDriverFixture()
	ctx := context.Background()

	// A parent principal may create on behalf of a descendant vendor.
	driver, err := f.service.CreateDriver(ctx, f.tree.principalFor(f.tree.root), &validators.CreateDriverRequest{
		Name:     "Scoped",
		VendorID: f.tree.city.ID.Hex(),
	})
	assert.NoError(t, err)
	assert.Equal(t, f.tree.city.ID, driver.VendorID)

	// But not for a vendor above them.
	_, err = f.service.CreateDriver(ctx, f.tree.principalFor(f.tree.city), &validators.CreateDriverRequest{
		Name:     "OutOfScope",
		VendorID: f.tree.root.ID.Hex(),
	})
	assertKind(t, err, utils.KindForbidden)
}

func TestDriverService_GetDriver(t *testing.T) {
	f := newDriverFixture()
	ctx := context.Background()
	driver := f.driverRepo.add(&models.Driver{Name: "Asha", VendorID: f.tree.city.ID, Status: models.DriverStatusInactive})

	found, err := f.service.GetDriver(ctx, f.tree.principalFor(f.tree.regional), driver.ID)
	assert.NoError(t, err)
	assert.Equal(t, driver.ID, found.ID)

	// Not found beats forbidden for a missing id.
	_, err = f.service.GetDriver(ctx, f.tree.principalFor(f.tree.city), primitive.NewObjectID())
	assertKind(t, err, utils.KindNotFound)

	// Out of subtree reads as forbidden.
	outside := f.driverRepo.add(&models.Driver{Name: "Rootie", VendorID: f.tree.root.ID, Status: models.DriverStatusInactive})
	_, err = f.service.GetDriver(ctx, f.tree.principalFor(f.tree.city), outside.ID)
	assertKind(t, err, utils.KindForbidden)
}

func TestDriverService_ListDrivers_Pagination(t *testing.T) {
	f := newDriverFixture()
	ctx := context.Background()
	principal := f.tree.principalFor(f.tree.root)

	for i := 0; i < 5; i++ {
		f.driverRepo.add(&models.Driver{Name: "D", VendorID: f.tree.city.ID, Status: models.DriverStatusInactive})
	}

	page := &utils.PaginationParams{Page: 2, PageSize: 2}
	drivers, total, err := f.service.ListDrivers(ctx, principal, &validators.ListDriversRequest{}, page)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, drivers, 2)

	// Without paging everything comes back.
	drivers, total, err = f.service.ListDrivers(ctx, principal, &validators.ListDriversRequest{}, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, drivers, 5)
}

func TestDriverService_ListDrivers_StatusFilter(t *testing.T) {
	f := newDriverFixture()
	ctx := context.Background()

	f.driverRepo.add(&models.Driver{Name: "A", VendorID: f.tree.city.ID, Status: models.DriverStatusAvailable})
	f.driverRepo.add(&models.Driver{Name: "B", VendorID: f.tree.city.ID, Status: models.DriverStatusInactive})

	drivers, total, err := f.service.ListDrivers(ctx, f.tree.principalFor(f.tree.city), &validators.ListDriversRequest{Status: string(models.DriverStatusAvailable)}, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, drivers, 1)
	assert.Equal(t, "A", drivers[0].Name)

	_, _, err = f.service.ListDrivers(ctx, f.tree.principalFor(f.tree.city), &validators.ListDriversRequest{Status: "SLEEPING"}, nil)
	assertKind(t, err, utils.KindValidation)
}

func TestDriverService_ListDrivers_SubtreeScoped(t *testing.T) {
	f := newDriverFixture()
	ctx := context.Background()

	f.driverRepo.add(&models.Driver{Name: "RootDriver", VendorID: f.tree.root.ID, Status: models.DriverStatusInactive})
	f.driverRepo.add(&models.Driver{Name: "CityDriver", VendorID: f.tree.city.ID, Status: models.DriverStatusInactive})

	drivers, total, err := f.service.ListDrivers(ctx, f.tree.principalFor(f.tree.city), &validators.ListDriversRequest{}, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "CityDriver", drivers[0].Name)
}

func TestDriverService_UpdateDriver(t *testing.T) {
	f := newDriverFixture()
	ctx := context.Background()
	driver := f.driverRepo.add(&models.Driver{Name: "Old Name", VendorID: f.tree.city.ID, Status: models.DriverStatusInactive})

	name := "New Name"
	updated, err := f.service.UpdateDriver(ctx, f.tree.principalFor(f.tree.regional), driver.ID, &validators.UpdateDriverRequest{Name: &name})
	assert.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)

	// Moving the driver to a vendor outside the caller's subtree is refused.
	rootHex := f.tree.root.ID.Hex()
	_, err = f.service.UpdateDriver(ctx, f.tree.principalFor(f.tree.regional), driver.ID, &validators.UpdateDriverRequest{VendorID: &rootHex})
	assertKind(t, err, utils.KindForbidden)

	// Moving within the subtree works.
	regionalHex := f.tree.regional.ID.Hex()
	updated, err = f.service.UpdateDriver(ctx, f.tree.principalFor(f.tree.regional), driver.ID, &validators.UpdateDriverRequest{VendorID: &regionalHex})
	assert.NoError(t, err)
	assert.Equal(t, f.tree.regional.ID, updated.VendorID)
}

func TestDriverService_DeleteDriver_ReleasesVehicle(t *testing.T) {
	f := newDriverFixture()
	ctx := context.Background()

	vehicle := f.vehicleRepo.add(&models.Vehicle{RegNumber: "KA-01-0001", VendorID: f.tree.city.ID, Status: models.VehicleStatusInService})
	driver := f.driverRepo.add(&models.Driver{Name: "Asha", VendorID: f.tree.city.ID, Status: models.DriverStatusOnDuty, AssignedVehicleID: &vehicle.ID})
	vehicle.AssignedDriverID = &driver.ID

	err := f.service.DeleteDriver(ctx, f.tree.principalFor(f.tree.city), driver.ID)
	assert.NoError(t, err)

	_, err = f.driverRepo.GetByID(ctx, driver.ID)
	assert.Error(t, err)

	released, _ := f.vehicleRepo.GetByID(ctx, vehicle.ID)
	assert.Nil(t, released.AssignedDriverID)
	assert.Equal(t, models.VehicleStatusAvailable, released.Status)
}

func TestDriverService_UpdateStatus_ComplianceGate(t *testing.T) {
	f := newDriverFixture()
	ctx := context.Background()
	principal := f.tree.principalFor(f.tree.city)

	driver := f.driverRepo.add(&models.Driver{Name: "NoDocs", VendorID: f.tree.city.ID, Status: models.DriverStatusInactive})

	// Duty statuses are gated on compliance.
	_, err := f.service.UpdateStatus(ctx, principal, driver.ID, &validators.UpdateDriverStatusRequest{Status: string(models.DriverStatusAvailable)})
	assertKind(t, err, utils.KindValidation)

	// Non-duty statuses are always reachable.
	updated, err := f.service.UpdateStatus(ctx, principal, driver.ID, &validators.UpdateDriverStatusRequest{Status: string(models.DriverStatusMaintenance)})
	assert.NoError(t, err)
	assert.Equal(t, models.DriverStatusMaintenance, updated.Status)

	// Once compliant, duty statuses open up.
	now := time.Now()
	stored, _ := f.driverRepo.GetByID(ctx, driver.ID)
	stored.SetDocument(models.DocDrivingLicense, models.Document{URL: "https://files.test/dl.pdf", UploadedAt: &now})
	stored.ComplianceStatus.SetVerification(models.DocDrivingLicense, true, primitive.NewObjectID(), "", now)
	assert.NoError(t, f.driverRepo.Save(ctx, stored))

	updated, err = f.service.UpdateStatus(ctx, principal, driver.ID, &validators.UpdateDriverStatusRequest{Status: string(models.DriverStatusAvailable)})
	assert.NoError(t, err)
	assert.Equal(t, models.DriverStatusAvailable, updated.Status)
}

func TestDriverService_UpdateStatus_LeavingDutyReleasesVehicle(t *testing.T) {
	f := newDriverFixture()
	ctx := context.Background()

	vehicle := f.vehicleRepo.add(&models.Vehicle{RegNumber: "KA-01-0002", VendorID: f.tree.city.ID, Status: models.VehicleStatusInService})
	driver := f.driverRepo.add(&models.Driver{Name: "Asha", VendorID: f.tree.city.ID, Status: models.DriverStatusOnDuty, AssignedVehicleID: &vehicle.ID})
	vehicle.AssignedDriverID = &driver.ID

	updated, err := f.service.UpdateStatus(ctx, f.tree.principalFor(f.tree.city), driver.ID, &validators.UpdateDriverStatusRequest{Status: string(models.DriverStatusInactive)})
	assert.NoError(t, err)
	assert.Equal(t, models.DriverStatusInactive, updated.Status)
	assert.Nil(t, updated.AssignedVehicleID)

	released, _ := f.vehicleRepo.GetByID(ctx, vehicle.ID)
	assert.Nil(t, released.AssignedDriverID)
	assert.Equal(t, models.VehicleStatusAvailable, released.Status)
}

func TestDriverService_UpdateStatus_OnDutyReleasesVehicle(t *testing.T) {
	f := newDriverFixture()
	ctx := context.Background()
	now := time.Now()
	expiry := now.AddDate(1, 0, 0)

	vehicle := f.vehicleRepo.add(&models.Vehicle{RegNumber: "KA-01-0003", VendorID: f.tree.city.ID, Status: models.VehicleStatusInService})
	driver := &models.Driver{Name: "Ravi", VendorID: f.tree.city.ID, Status: models.DriverStatusAvailable}
	driver.SetDocument(models.DocDrivingLicense, models.Document{URL: "https://files.test/dl.pdf", UploadedAt: &now, ExpiresAt: &expiry})
	driver.ComplianceStatus.SetVerification(models.DocDrivingLicense, true, primitive.NewObjectID(), "", now)
	driver = f.driverRepo.add(driver)

	stored, _ := f.driverRepo.GetByID(ctx, driver.ID)
	stored.AssignedVehicleID = &vehicle.ID
	assert.NoError(t, f.driverRepo.Save(ctx, stored))
	vehicle.AssignedDriverID = &driver.ID

	// Any status other than AVAILABLE drops the vehicle link, duty or not.
	updated, err := f.service.UpdateStatus(ctx, f.tree.principalFor(f.tree.city), driver.ID, &validators.UpdateDriverStatusRequest{Status: string(models.DriverStatusOnDuty)})
	assert.NoError(t, err)
	assert.Equal(t, models.DriverStatusOnDuty, updated.Status)
	assert.Nil(t, updated.AssignedVehicleID)

	onDutyReleased, _ := f.vehicleRepo.GetByID(ctx, vehicle.ID)
	assert.Nil(t, onDutyReleased.AssignedDriverID)
	assert.Equal(t, models.VehicleStatusAvailable, onDutyReleased.Status)
}
