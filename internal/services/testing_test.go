package services

import (
	"bytes"
	"context"
	"io"
	"sort"
	"time"

	"fleethub/internal/models"
	"fleethub/internal/repositories/interfaces"
	"fleethub/pkg/logger"
	"fleethub/pkg/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repositories backing the service tests. They mirror the MongoDB
// implementations closely enough to exercise the service logic, including the
// subtree resolution over materialized ancestors.

func testLogger() *logger.Logger {
	log, _ := logger.NewLogger(&logger.Config{Level: "error", Format: "text", Output: "stdout"})
	return log
}

type passThroughTx struct{}

func (passThroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeVendorRepo struct {
	vendors map[primitive.ObjectID]*models.Vendor
}

func newFakeVendorRepo() *fakeVendorRepo {
	return &fakeVendorRepo{vendors: map[primitive.ObjectID]*models.Vendor{}}
}

func (r *fakeVendorRepo) add(vendor *models.Vendor) *models.Vendor {
	if vendor.ID.IsZero() {
		vendor.ID = primitive.NewObjectID()
	}
	r.vendors[vendor.ID] = vendor
	return vendor
}

func (r *fakeVendorRepo) Create(ctx context.Context, vendor *models.Vendor) error {
	vendor.ID = primitive.NewObjectID()
	vendor.CreatedAt = time.Now()
	vendor.UpdatedAt = vendor.CreatedAt
	r.vendors[vendor.ID] = vendor
	return nil
}

func (r *fakeVendorRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Vendor, error) {
	vendor, ok := r.vendors[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	copied := *vendor
	return &copied, nil
}

func (r *fakeVendorRepo) GetByName(ctx context.Context, name string) (*models.Vendor, error) {
	for _, vendor := range r.vendors {
		if vendor.Name == name {
			copied := *vendor
			return &copied, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (r *fakeVendorRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	vendor, ok := r.vendors[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	for key, value := range updates {
		switch key {
		case "name":
			vendor.Name = value.(string)
		case "region":
			vendor.Region = value.(string)
		case "city":
			vendor.City = value.(string)
		case "permissions":
			vendor.Permissions = value.(models.Permissions)
		}
	}
	vendor.UpdatedAt = time.Now()
	return nil
}

func (r *fakeVendorRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.vendors[id]; !ok {
		return interfaces.ErrNotFound
	}
	delete(r.vendors, id)
	return nil
}

func (r *fakeVendorRepo) DeleteMany(ctx context.Context, ids []primitive.ObjectID) error {
	for _, id := range ids {
		delete(r.vendors, id)
	}
	return nil
}

func (r *fakeVendorRepo) GetSubtreeIDs(ctx context.Context, rootID primitive.ObjectID) ([]primitive.ObjectID, error) {
	ids := []primitive.ObjectID{rootID}
	for id, vendor := range r.vendors {
		for _, ancestor := range vendor.Ancestors {
			if ancestor == rootID {
				ids = append(ids, id)
				break
			}
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Hex() < ids[j].Hex() })
	return ids, nil
}

func (r *fakeVendorRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Vendor, error) {
	var result []*models.Vendor
	for _, id := range ids {
		if vendor, ok := r.vendors[id]; ok {
			copied := *vendor
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakeVendorRepo) GetChildren(ctx context.Context, parentID primitive.ObjectID) ([]*models.Vendor, error) {
	var children []*models.Vendor
	for _, vendor := range r.vendors {
		if vendor.ParentVendorID != nil && *vendor.ParentVendorID == parentID {
			copied := *vendor
			children = append(children, &copied)
		}
	}
	return children, nil
}

func (r *fakeVendorRepo) ReparentChildren(ctx context.Context, vendorID, newParentID primitive.ObjectID) error {
	for _, vendor := range r.vendors {
		if vendor.ParentVendorID != nil && *vendor.ParentVendorID == vendorID {
			parent := newParentID
			vendor.ParentVendorID = &parent
		}
	}
	return nil
}

func (r *fakeVendorRepo) List(ctx context.Context, ids []primitive.ObjectID, level models.VendorLevel, region, city string) ([]*models.Vendor, error) {
	var result []*models.Vendor
	for _, id := range ids {
		vendor, ok := r.vendors[id]
		if !ok {
			continue
		}
		if level != "" && vendor.Level != level {
			continue
		}
		if region != "" && vendor.Region != region {
			continue
		}
		if city != "" && vendor.City != city {
			continue
		}
		copied := *vendor
		result = append(result, &copied)
	}
	return result, nil
}

func (r *fakeVendorRepo) CountByLevel(ctx context.Context, ids []primitive.ObjectID) (map[models.VendorLevel]int64, error) {
	counts := map[models.VendorLevel]int64{}
	for _, id := range ids {
		if vendor, ok := r.vendors[id]; ok {
			counts[vendor.Level]++
		}
	}
	return counts, nil
}

type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]*models.User{}}
}

func (r *fakeUserRepo) add(user *models.User) *models.User {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users[user.ID] = user
	return user
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	user, ok := r.users[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	if hash, ok := updates["passwordHash"]; ok {
		user.PasswordHash = hash.(string)
	}
	user.UpdatedAt = time.Now()
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) DeleteByVendorIDs(ctx context.Context, vendorIDs []primitive.ObjectID) error {
	for id, user := range r.users {
		for _, vendorID := range vendorIDs {
			if user.VendorID == vendorID {
				delete(r.users, id)
				break
			}
		}
	}
	return nil
}

type fakeDriverRepo struct {
	drivers map[primitive.ObjectID]*models.Driver
}

func newFakeDriverRepo() *fakeDriverRepo {
	return &fakeDriverRepo{drivers: map[primitive.ObjectID]*models.Driver{}}
}

func (r *fakeDriverRepo) add(driver *models.Driver) *models.Driver {
	if driver.ID.IsZero() {
		driver.ID = primitive.NewObjectID()
	}
	r.drivers[driver.ID] = driver
	return driver
}

func (r *fakeDriverRepo) Create(ctx context.Context, driver *models.Driver) error {
	driver.ID = primitive.NewObjectID()
	driver.CreatedAt = time.Now()
	driver.UpdatedAt = driver.CreatedAt
	r.drivers[driver.ID] = driver
	return nil
}

func (r *fakeDriverRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Driver, error) {
	driver, ok := r.drivers[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	copied := *driver
	return &copied, nil
}

func (r *fakeDriverRepo) Save(ctx context.Context, driver *models.Driver) error {
	if _, ok := r.drivers[driver.ID]; !ok {
		return interfaces.ErrNotFound
	}
	copied := *driver
	copied.UpdatedAt = time.Now()
	r.drivers[driver.ID] = &copied
	return nil
}

func (r *fakeDriverRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	driver, ok := r.drivers[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	if value, ok := updates["assignedVehicleId"]; ok {
		if value == nil {
			driver.AssignedVehicleID = nil
		} else {
			id := value.(primitive.ObjectID)
			driver.AssignedVehicleID = &id
		}
	}
	if value, ok := updates["status"]; ok {
		driver.Status = value.(models.DriverStatus)
	}
	driver.UpdatedAt = time.Now()
	return nil
}

func (r *fakeDriverRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.drivers[id]; !ok {
		return interfaces.ErrNotFound
	}
	delete(r.drivers, id)
	return nil
}

func (r *fakeDriverRepo) matches(driver *models.Driver, vendorIDs []primitive.ObjectID, filter *interfaces.DriverListFilter) bool {
	if !containsID(vendorIDs, driver.VendorID) {
		return false
	}
	if filter == nil {
		return true
	}
	if filter.Status != "" && driver.Status != filter.Status {
		return false
	}
	if filter.Region != "" && driver.Region != filter.Region {
		return false
	}
	if filter.City != "" && driver.City != filter.City {
		return false
	}
	return true
}

func (r *fakeDriverRepo) List(ctx context.Context, vendorIDs []primitive.ObjectID, filter *interfaces.DriverListFilter) ([]*models.Driver, error) {
	var result []*models.Driver
	for _, driver := range r.drivers {
		if r.matches(driver, vendorIDs, filter) {
			copied := *driver
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID.Hex() < result[j].ID.Hex() })
	if filter != nil && filter.Limit > 0 {
		if filter.Skip >= int64(len(result)) {
			return nil, nil
		}
		result = result[filter.Skip:]
		if int64(len(result)) > filter.Limit {
			result = result[:filter.Limit]
		}
	}
	return result, nil
}

func (r *fakeDriverRepo) Count(ctx context.Context, vendorIDs []primitive.ObjectID, filter *interfaces.DriverListFilter) (int64, error) {
	var count int64
	for _, driver := range r.drivers {
		if r.matches(driver, vendorIDs, filter) {
			count++
		}
	}
	return count, nil
}

func (r *fakeDriverRepo) CountNonCompliant(ctx context.Context, vendorIDs []primitive.ObjectID) (int64, error) {
	var count int64
	for _, driver := range r.drivers {
		if containsID(vendorIDs, driver.VendorID) && !driver.ComplianceStatus.Overall.Compliant {
			count++
		}
	}
	return count, nil
}

func (r *fakeDriverRepo) CountPendingDocuments(ctx context.Context, vendorIDs []primitive.ObjectID) (int64, error) {
	var count int64
	for _, driver := range r.drivers {
		if !containsID(vendorIDs, driver.VendorID) {
			continue
		}
		for docType, doc := range driver.Documents {
			if doc.URL != "" && !driver.ComplianceStatus.Documents[docType].Verified {
				count++
				break
			}
		}
	}
	return count, nil
}

func (r *fakeDriverRepo) FindWithExpiringDocuments(ctx context.Context, vendorIDs []primitive.ObjectID, from, until time.Time, limit int64) ([]*models.Driver, error) {
	var result []*models.Driver
	for _, driver := range r.drivers {
		if !containsID(vendorIDs, driver.VendorID) {
			continue
		}
		for _, doc := range driver.Documents {
			if doc.ExpiresAt != nil && doc.ExpiresAt.After(from) && doc.ExpiresAt.Before(until) {
				copied := *driver
				result = append(result, &copied)
				break
			}
		}
	}
	if limit > 0 && int64(len(result)) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *fakeDriverRepo) ReassignVendor(ctx context.Context, fromVendorIDs []primitive.ObjectID, toVendorID primitive.ObjectID) error {
	for _, driver := range r.drivers {
		if containsID(fromVendorIDs, driver.VendorID) {
			driver.VendorID = toVendorID
		}
	}
	return nil
}

type fakeVehicleRepo struct {
	vehicles map[primitive.ObjectID]*models.Vehicle
}

func newFakeVehicleRepo() *fakeVehicleRepo {
	return &fakeVehicleRepo{vehicles: map[primitive.ObjectID]*models.Vehicle{}}
}

func (r *fakeVehicleRepo) add(vehicle *models.Vehicle) *models.Vehicle {
	if vehicle.ID.IsZero() {
		vehicle.ID = primitive.NewObjectID()
	}
	r.vehicles[vehicle.ID] = vehicle
	return vehicle
}

func (r *fakeVehicleRepo) Create(ctx context.Context, vehicle *models.Vehicle) error {
	vehicle.ID = primitive.NewObjectID()
	vehicle.CreatedAt = time.Now()
	vehicle.UpdatedAt = vehicle.CreatedAt
	r.vehicles[vehicle.ID] = vehicle
	return nil
}

func (r *fakeVehicleRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error) {
	vehicle, ok := r.vehicles[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	copied := *vehicle
	return &copied, nil
}

func (r *fakeVehicleRepo) GetByRegNumber(ctx context.Context, regNumber string) (*models.Vehicle, error) {
	for _, vehicle := range r.vehicles {
		if vehicle.RegNumber == regNumber {
			copied := *vehicle
			return &copied, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (r *fakeVehicleRepo) Save(ctx context.Context, vehicle *models.Vehicle) error {
	if _, ok := r.vehicles[vehicle.ID]; !ok {
		return interfaces.ErrNotFound
	}
	copied := *vehicle
	copied.UpdatedAt = time.Now()
	r.vehicles[vehicle.ID] = &copied
	return nil
}

func (r *fakeVehicleRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	vehicle, ok := r.vehicles[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	if value, ok := updates["assignedDriverId"]; ok {
		if value == nil {
			vehicle.AssignedDriverID = nil
		} else {
			id := value.(primitive.ObjectID)
			vehicle.AssignedDriverID = &id
		}
	}
	if value, ok := updates["status"]; ok {
		vehicle.Status = value.(models.VehicleStatus)
	}
	vehicle.UpdatedAt = time.Now()
	return nil
}

func (r *fakeVehicleRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.vehicles[id]; !ok {
		return interfaces.ErrNotFound
	}
	delete(r.vehicles, id)
	return nil
}

func (r *fakeVehicleRepo) matches(vehicle *models.Vehicle, vendorIDs []primitive.ObjectID, filter *interfaces.VehicleListFilter) bool {
	if !containsID(vendorIDs, vehicle.VendorID) {
		return false
	}
	if filter == nil {
		return true
	}
	if filter.Status != "" && vehicle.Status != filter.Status {
		return false
	}
	if filter.Region != "" && vehicle.Region != filter.Region {
		return false
	}
	if filter.City != "" && vehicle.City != filter.City {
		return false
	}
	return true
}

func (r *fakeVehicleRepo) List(ctx context.Context, vendorIDs []primitive.ObjectID, filter *interfaces.VehicleListFilter) ([]*models.Vehicle, error) {
	var result []*models.Vehicle
	for _, vehicle := range r.vehicles {
		if r.matches(vehicle, vendorIDs, filter) {
			copied := *vehicle
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID.Hex() < result[j].ID.Hex() })
	if filter != nil && filter.Limit > 0 {
		if filter.Skip >= int64(len(result)) {
			return nil, nil
		}
		result = result[filter.Skip:]
		if int64(len(result)) > filter.Limit {
			result = result[:filter.Limit]
		}
	}
	return result, nil
}

func (r *fakeVehicleRepo) Count(ctx context.Context, vendorIDs []primitive.ObjectID, filter *interfaces.VehicleListFilter) (int64, error) {
	var count int64
	for _, vehicle := range r.vehicles {
		if r.matches(vehicle, vendorIDs, filter) {
			count++
		}
	}
	return count, nil
}

func (r *fakeVehicleRepo) CountUnassignedAvailable(ctx context.Context, vendorIDs []primitive.ObjectID) (int64, error) {
	var count int64
	for _, vehicle := range r.vehicles {
		if containsID(vendorIDs, vehicle.VendorID) && vehicle.AssignedDriverID == nil && vehicle.Status == models.VehicleStatusAvailable {
			count++
		}
	}
	return count, nil
}

func (r *fakeVehicleRepo) CountNonCompliant(ctx context.Context, vendorIDs []primitive.ObjectID) (int64, error) {
	var count int64
	for _, vehicle := range r.vehicles {
		if containsID(vendorIDs, vehicle.VendorID) && !vehicle.ComplianceStatus.Overall.Compliant {
			count++
		}
	}
	return count, nil
}

func (r *fakeVehicleRepo) CountPendingDocuments(ctx context.Context, vendorIDs []primitive.ObjectID) (int64, error) {
	var count int64
	for _, vehicle := range r.vehicles {
		if !containsID(vendorIDs, vehicle.VendorID) {
			continue
		}
		for docType, doc := range vehicle.Documents {
			if doc.URL != "" && !vehicle.ComplianceStatus.Documents[docType].Verified {
				count++
				break
			}
		}
	}
	return count, nil
}

func (r *fakeVehicleRepo) FindWithExpiringDocuments(ctx context.Context, vendorIDs []primitive.ObjectID, from, until time.Time, limit int64) ([]*models.Vehicle, error) {
	var result []*models.Vehicle
	for _, vehicle := range r.vehicles {
		if !containsID(vendorIDs, vehicle.VendorID) {
			continue
		}
		for _, doc := range vehicle.Documents {
			if doc.ExpiresAt != nil && doc.ExpiresAt.After(from) && doc.ExpiresAt.Before(until) {
				copied := *vehicle
				result = append(result, &copied)
				break
			}
		}
	}
	if limit > 0 && int64(len(result)) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *fakeVehicleRepo) ReassignVendor(ctx context.Context, fromVendorIDs []primitive.ObjectID, toVendorID primitive.ObjectID) error {
	for _, vehicle := range r.vehicles {
		if containsID(fromVendorIDs, vehicle.VendorID) {
			vehicle.VendorID = toVendorID
		}
	}
	return nil
}

type fakeStorage struct {
	uploads map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploads: map[string][]byte{}}
}

func (s *fakeStorage) Upload(ctx context.Context, request *storage.UploadRequest) (*storage.UploadResponse, error) {
	data, err := io.ReadAll(request.Reader)
	if err != nil {
		return nil, err
	}
	s.uploads[request.Key] = data
	return &storage.UploadResponse{
		Key:  request.Key,
		URL:  "https://files.test/" + request.Key,
		Size: int64(len(data)),
	}, nil
}

func (s *fakeStorage) Download(ctx context.Context, key string) (*storage.DownloadResponse, error) {
	data, ok := s.uploads[key]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return &storage.DownloadResponse{
		Reader:      io.NopCloser(bytes.NewReader(data)),
		Size:        int64(len(data)),
		ContentType: "application/octet-stream",
	}, nil
}

func (s *fakeStorage) Delete(ctx context.Context, key string) error {
	delete(s.uploads, key)
	return nil
}

func (s *fakeStorage) FileExists(ctx context.Context, key string) (bool, error) {
	_, ok := s.uploads[key]
	return ok, nil
}

// vendorTree seeds a three level hierarchy: root -> regional -> city.
type vendorTree struct {
	vendorRepo *fakeVendorRepo
	root       *models.Vendor
	regional   *models.Vendor
	city       *models.Vendor
}

func newVendorTree() *vendorTree {
	repo := newFakeVendorRepo()

	root := repo.add(&models.Vendor{
		ID:          primitive.NewObjectID(),
		Name:        "Root Fleet Co",
		Level:       models.VendorLevelSuper,
		LevelValue:  models.LevelValueSuper,
		Ancestors:   []primitive.ObjectID{},
		Permissions: models.FullPermissions(),
	})
	regional := repo.add(&models.Vendor{
		ID:             primitive.NewObjectID(),
		Name:           "North Region",
		Level:          models.VendorLevelRegional,
		LevelValue:     models.LevelValueRegional,
		ParentVendorID: &root.ID,
		Ancestors:      []primitive.ObjectID{root.ID},
		Region:         "north",
		Permissions:    models.DefaultPermissions(models.LevelValueRegional),
	})
	city := repo.add(&models.Vendor{
		ID:             primitive.NewObjectID(),
		Name:           "Metro City",
		Level:          models.VendorLevelCity,
		LevelValue:     models.LevelValueCity,
		ParentVendorID: &regional.ID,
		Ancestors:      []primitive.ObjectID{root.ID, regional.ID},
		Region:         "north",
		City:           "metro",
		Permissions:    models.DefaultPermissions(models.LevelValueCity),
	})

	return &vendorTree{vendorRepo: repo, root: root, regional: regional, city: city}
}

func (t *vendorTree) principalFor(vendor *models.Vendor) *models.Principal {
	return &models.Principal{
		UserID:      primitive.NewObjectID(),
		Email:       "user@" + vendor.Name + ".test",
		Role:        models.UserRole(vendor.Level),
		VendorID:    vendor.ID,
		Permissions: vendor.Permissions,
	}
}
