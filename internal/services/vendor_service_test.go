package services

import (
	"context"
	"net/http"
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procurehub/procurement-service/internal/models"
	"github.com/procurehub/procurement-service/internal/utils"
)

/* ------------------------------------------------------------------
   Fakes
------------------------------------------------------------------ */

type fakeVendorRepo struct {
	vendors map[uuid.UUID]*models.Vendor
	areas   map[uuid.UUID]*models.ServiceableArea
}

func newFakeVendorRepo() *fakeVendorRepo {
	return &fakeVendorRepo{
		vendors: map[uuid.UUID]*models.Vendor{},
		areas:   map[uuid.UUID]*models.ServiceableArea{},
	}
}

func (f *fakeVendorRepo) Create(ctx context.Context, v *models.Vendor) error {
	f.vendors[v.ID] = v
	return nil
}

func (f *fakeVendorRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	return f.vendors[id], nil
}

func (f *fakeVendorRepo) List(ctx context.Context) ([]*models.Vendor, error) {
	var out []*models.Vendor
	for _, v := range f.vendors {
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeVendorRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Vendor) error) (*models.Vendor, error) {
	v, ok := f.vendors[id]
	if !ok {
		return nil, utils.ErrVendorNotFound
	}
	if err := mutate(v); err != nil {
		return nil, err
	}
	return v, nil
}

func (f *fakeVendorRepo) AddServiceableArea(ctx context.Context, a *models.ServiceableArea) error {
	for _, existing := range f.areas {
		if existing.VendorID == a.VendorID && existing.StateID == a.StateID &&
			uuidPtrEqual(existing.CityID, a.CityID) && uuidPtrEqual(existing.CountyID, a.CountyID) {
			return utils.ErrDuplicateArea
		}
	}
	f.areas[a.ID] = a
	return nil
}

func (f *fakeVendorRepo) RemoveServiceableArea(ctx context.Context, vendorID, areaID uuid.UUID) error {
	a, ok := f.areas[areaID]
	if !ok || a.VendorID != vendorID {
		return utils.ErrVendorNotFound
	}
	delete(f.areas, areaID)
	return nil
}

func (f *fakeVendorRepo) ListServiceableAreas(ctx context.Context, vendorID uuid.UUID) ([]*models.ServiceableArea, error) {
	var out []*models.ServiceableArea
	for _, a := range f.areas {
		if a.VendorID == vendorID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeVendorRepo) ListCandidates(ctx context.Context, pred sq.Sqlizer) ([]*models.Vendor, error) {
	return f.List(ctx)
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

type fakeLocationRepo struct {
	states   map[uuid.UUID]*models.State
	cities   map[uuid.UUID]*models.City
	counties map[uuid.UUID]*models.County
}

func newFakeLocationRepo() *fakeLocationRepo {
	return &fakeLocationRepo{
		states:   map[uuid.UUID]*models.State{},
		cities:   map[uuid.UUID]*models.City{},
		counties: map[uuid.UUID]*models.County{},
	}
}

func (f *fakeLocationRepo) GetStateByID(ctx context.Context, id uuid.UUID) (*models.State, error) {
	return f.states[id], nil
}

func (f *fakeLocationRepo) GetStateByCode(ctx context.Context, code string) (*models.State, error) {
	for _, s := range f.states {
		if s.Code == code {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeLocationRepo) ListStates(ctx context.Context) ([]*models.State, error) {
	var out []*models.State
	for _, s := range f.states {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeLocationRepo) GetCityByID(ctx context.Context, id uuid.UUID) (*models.City, error) {
	return f.cities[id], nil
}

func (f *fakeLocationRepo) GetCountyByID(ctx context.Context, id uuid.UUID) (*models.County, error) {
	return f.counties[id], nil
}

func (f *fakeLocationRepo) ListCitiesByState(ctx context.Context, stateID uuid.UUID) ([]*models.City, error) {
	var out []*models.City
	for _, c := range f.cities {
		if c.StateID == stateID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeLocationRepo) ListCountiesByState(ctx context.Context, stateID uuid.UUID) ([]*models.County, error) {
	var out []*models.County
	for _, c := range f.counties {
		if c.StateID == stateID {
			out = append(out, c)
		}
	}
	return out, nil
}

/* ------------------------------------------------------------------
   Serviceable areas
------------------------------------------------------------------ */

func newTestVendorService() (*VendorService, *fakeVendorRepo, *fakeLocationRepo) {
	vendors := newFakeVendorRepo()
	locations := newFakeLocationRepo()
	return NewVendorService(vendors, locations), vendors, locations
}

func seedGeorgia(locations *fakeLocationRepo) (state *models.State, city *models.City, county *models.County) {
	state = &models.State{ID: uuid.New(), Code: "GA", Name: "Georgia"}
	city = &models.City{ID: uuid.New(), StateID: state.ID, Name: "Atlanta"}
	county = &models.County{ID: uuid.New(), StateID: state.ID, Name: "Fulton"}
	locations.states[state.ID] = state
	locations.cities[city.ID] = city
	locations.counties[county.ID] = county
	return state, city, county
}

func seedVendor(vendors *fakeVendorRepo) *models.Vendor {
	v := &models.Vendor{ID: uuid.New(), Name: "Atlanta Lawn Works"}
	vendors.vendors[v.ID] = v
	return v
}

func requireValidationError(t *testing.T, err error) {
	t.Helper()
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
	assert.Equal(t, utils.ErrCodeValidation, appErr.Code)
}

func TestAddServiceableArea(t *testing.T) {
	svc, vendors, locations := newTestVendorService()
	state, city, county := seedGeorgia(locations)
	vendor := seedVendor(vendors)

	area, err := svc.AddServiceableArea(context.Background(), vendor.ID, state.ID, &city.ID, &county.ID)
	require.NoError(t, err)
	assert.Equal(t, vendor.ID, area.VendorID)
	assert.Equal(t, state.ID, area.StateID)
	assert.Len(t, vendors.areas, 1)
}

func TestAddServiceableAreaUnknownState(t *testing.T) {
	svc, vendors, _ := newTestVendorService()
	vendor := seedVendor(vendors)

	_, err := svc.AddServiceableArea(context.Background(), vendor.ID, uuid.New(), nil, nil)
	requireValidationError(t, err)
	assert.Empty(t, vendors.areas)
}

func TestAddServiceableAreaCityFromOtherState(t *testing.T) {
	svc, vendors, locations := newTestVendorService()
	state, _, _ := seedGeorgia(locations)
	vendor := seedVendor(vendors)

	texas := &models.State{ID: uuid.New(), Code: "TX", Name: "Texas"}
	austin := &models.City{ID: uuid.New(), StateID: texas.ID, Name: "Austin"}
	locations.states[texas.ID] = texas
	locations.cities[austin.ID] = austin

	_, err := svc.AddServiceableArea(context.Background(), vendor.ID, state.ID, &austin.ID, nil)
	requireValidationError(t, err)
}

func TestAddServiceableAreaCountyFromOtherState(t *testing.T) {
	svc, vendors, locations := newTestVendorService()
	state, _, _ := seedGeorgia(locations)
	vendor := seedVendor(vendors)

	texas := &models.State{ID: uuid.New(), Code: "TX", Name: "Texas"}
	travis := &models.County{ID: uuid.New(), StateID: texas.ID, Name: "Travis"}
	locations.states[texas.ID] = texas
	locations.counties[travis.ID] = travis

	_, err := svc.AddServiceableArea(context.Background(), vendor.ID, state.ID, nil, &travis.ID)
	requireValidationError(t, err)
}

func TestAddServiceableAreaDuplicateIsConflict(t *testing.T) {
	svc, vendors, locations := newTestVendorService()
	state, _, _ := seedGeorgia(locations)
	vendor := seedVendor(vendors)

	_, err := svc.AddServiceableArea(context.Background(), vendor.ID, state.ID, nil, nil)
	require.NoError(t, err)

	_, err = svc.AddServiceableArea(context.Background(), vendor.ID, state.ID, nil, nil)
	requireConflict(t, err, utils.ErrCodeDuplicateArea)
}

func TestAddServiceableAreaUnknownVendor(t *testing.T) {
	svc, _, locations := newTestVendorService()
	state, _, _ := seedGeorgia(locations)

	_, err := svc.AddServiceableArea(context.Background(), uuid.New(), state.ID, nil, nil)

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.StatusCode)
}
