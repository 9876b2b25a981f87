package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/procurehub/procurement-service/internal/models"
	"github.com/procurehub/procurement-service/internal/repositories"
	"github.com/procurehub/procurement-service/internal/utils"
)

// Stable ids so reseeding is idempotent and test clients can hard-code them.
var (
	seedManagerID  = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	seedPropertyID = uuid.MustParse("33333333-3333-3333-3333-333333333333")

	seedStateGA  = uuid.MustParse("aaaaaaaa-0000-0000-0000-00000000000a")
	seedCityATL  = uuid.MustParse("aaaaaaaa-0000-0000-0000-00000000000b")
	seedCountyFU = uuid.MustParse("aaaaaaaa-0000-0000-0000-00000000000c")

	seedVendorNational = uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000001")
	seedVendorState    = uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000002")
	seedVendorCity     = uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000003")
)

/*
SeedAllTestData populates reference rows and a small demo data set: one
property in Atlanta, three vendors with different coverage shapes, and an
active scope of work. Skips itself when the sentinel property already exists.
*/
func SeedAllTestData(
	ctx context.Context,
	db repositories.DB,
	propRepo repositories.PropertyRepository,
	vendorRepo repositories.VendorRepository,
	scopeRepo repositories.ScopeRepository,
) error {
	if existing, err := propRepo.GetByID(ctx, seedPropertyID); err != nil {
		return fmt.Errorf("check existing seed property: %w", err)
	} else if existing != nil {
		utils.Logger.Info("Seed data already present; skipping seeding")
		return nil
	}

	if err := seedLocations(ctx, db); err != nil {
		return fmt.Errorf("seed locations: %w", err)
	}

	property := &models.Property{
		ID:           seedPropertyID,
		ManagerID:    seedManagerID,
		PropertyName: "Peachtree Commons",
		Address:      "250 Peachtree St NE, Atlanta, GA 30303",
		ZipCode:      "30303",
		StateID:      utils.Ptr(seedStateGA),
		CityID:       utils.Ptr(seedCityATL),
		CountyID:     utils.Ptr(seedCountyFU),
		TimeZone:     "America/New_York",
		Latitude:     33.7603,
		Longitude:    -84.3871,
	}
	if err := propRepo.Create(ctx, property); err != nil {
		return fmt.Errorf("seed property: %w", err)
	}

	if err := seedVendors(ctx, vendorRepo); err != nil {
		return fmt.Errorf("seed vendors: %w", err)
	}

	scope := &models.ScopeOfWork{
		ID:        uuid.New(),
		Name:      "Landscaping - Peachtree Commons",
		Status:    models.ScopeStatusActive,
		CreatedBy: seedManagerID,
	}
	if err := scopeRepo.Create(ctx, scope); err != nil && err != utils.ErrDuplicateScopeName {
		return fmt.Errorf("seed scope: %w", err)
	}

	utils.Logger.Info("Seeded test data")
	return nil
}

func seedLocations(ctx context.Context, db repositories.DB) error {
	code, err := utils.NormalizeUSState("Georgia")
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, `
        INSERT INTO states (id, code, name) VALUES ($1,$2,'Georgia')
        ON CONFLICT (code) DO NOTHING
    `, seedStateGA, code)
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, `
        INSERT INTO cities (id, state_id, name) VALUES ($1,$2,'Atlanta')
        ON CONFLICT (id) DO NOTHING
    `, seedCityATL, seedStateGA)
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, `
        INSERT INTO counties (id, state_id, name) VALUES ($1,$2,'Fulton')
        ON CONFLICT (id) DO NOTHING
    `, seedCountyFU, seedStateGA)
	return err
}

func seedVendors(ctx context.Context, vendorRepo repositories.VendorRepository) error {
	vendors := []*models.Vendor{
		{
			ID:                  seedVendorNational,
			Name:                "National Grounds Co",
			ContactEmail:        "bids@nationalgrounds.test",
			ContactPhone:        "+14045550101",
			CoversContinentalUS: true,
			OfficeLatitude:      39.7392,
			OfficeLongitude:     -104.9903,
		},
		{
			ID:              seedVendorState,
			Name:            "Georgia Property Services",
			ContactEmail:    "rfp@gaproperty.test",
			ContactPhone:    "+14045550102",
			OfficeLatitude:  33.4735,
			OfficeLongitude: -82.0105,
		},
		{
			ID:              seedVendorCity,
			Name:            "Atlanta Lawn Works",
			ContactEmail:    "sales@atllawn.test",
			ContactPhone:    "+14045550103",
			OfficeLatitude:  33.7490,
			OfficeLongitude: -84.3880,
		},
	}
	for _, v := range vendors {
		if err := vendorRepo.Create(ctx, v); err != nil {
			return err
		}
	}

	areas := []*models.ServiceableArea{
		{ID: uuid.New(), VendorID: seedVendorState, StateID: seedStateGA},
		{ID: uuid.New(), VendorID: seedVendorCity, StateID: seedStateGA, CityID: utils.Ptr(seedCityATL)},
	}
	for _, a := range areas {
		if err := vendorRepo.AddServiceableArea(ctx, a); err != nil && err != utils.ErrDuplicateArea {
			return err
		}
	}
	return nil
}
