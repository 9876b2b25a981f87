package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procurehub/procurement-service/internal/models"
	"github.com/procurehub/procurement-service/internal/utils"
)

var (
	georgiaID = uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001")
	atlantaID = uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000002")
	fultonID  = uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000003")
	texasID   = uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000004")
)

func atlantaLocation() models.PropertyLocation {
	return models.PropertyLocation{
		StateID:  utils.Ptr(georgiaID),
		CityID:   utils.Ptr(atlantaID),
		CountyID: utils.Ptr(fultonID),
	}
}

func vendorWithAreas(areas ...*models.ServiceableArea) *models.Vendor {
	return &models.Vendor{ID: uuid.New(), Name: "vendor", ServiceableAreas: areas}
}

func stateWideArea(stateID uuid.UUID) *models.ServiceableArea {
	return &models.ServiceableArea{ID: uuid.New(), StateID: stateID}
}

func TestMatchVendorStateWide(t *testing.T) {
	area := stateWideArea(georgiaID)
	mt, matched := MatchVendor(vendorWithAreas(area), atlantaLocation())

	assert.Equal(t, MatchStateWide, mt)
	require.NotNil(t, matched)
	assert.Equal(t, area.ID, matched.ID)
}

func TestMatchVendorCity(t *testing.T) {
	area := &models.ServiceableArea{ID: uuid.New(), StateID: georgiaID, CityID: utils.Ptr(atlantaID)}
	mt, matched := MatchVendor(vendorWithAreas(area), atlantaLocation())

	assert.Equal(t, MatchCity, mt)
	require.NotNil(t, matched)
	assert.Equal(t, area.ID, matched.ID)
}

func TestMatchVendorCounty(t *testing.T) {
	area := &models.ServiceableArea{ID: uuid.New(), StateID: georgiaID, CountyID: utils.Ptr(fultonID)}
	mt, _ := MatchVendor(vendorWithAreas(area), atlantaLocation())

	assert.Equal(t, MatchCounty, mt)
}

func TestMatchVendorContinentalBeatsAreas(t *testing.T) {
	v := vendorWithAreas(stateWideArea(georgiaID))
	v.CoversContinentalUS = true

	mt, matched := MatchVendor(v, atlantaLocation())
	assert.Equal(t, MatchContinentalUS, mt)
	assert.Nil(t, matched)
}

func TestMatchVendorOutsideInterest(t *testing.T) {
	v := vendorWithAreas()
	v.InterestedInOutsideRFPs = true

	mt, _ := MatchVendor(v, atlantaLocation())
	assert.Equal(t, MatchOutsideInterest, mt)
}

func TestMatchVendorStateWideBeatsCity(t *testing.T) {
	// A state-wide area outranks a city area even when both are present.
	v := vendorWithAreas(
		&models.ServiceableArea{ID: uuid.New(), StateID: georgiaID, CityID: utils.Ptr(atlantaID)},
		stateWideArea(georgiaID),
	)

	mt, _ := MatchVendor(v, atlantaLocation())
	assert.Equal(t, MatchStateWide, mt)
}

func TestMatchVendorSpecificLocation(t *testing.T) {
	// An area narrowed by both city and county is claimed by the exact-triple
	// tier, not the city tier.
	area := &models.ServiceableArea{
		ID:       uuid.New(),
		StateID:  georgiaID,
		CityID:   utils.Ptr(atlantaID),
		CountyID: utils.Ptr(fultonID),
	}

	mt, matched := MatchVendor(vendorWithAreas(area), atlantaLocation())
	assert.Equal(t, MatchSpecificLocation, mt)
	require.NotNil(t, matched)
	assert.Equal(t, area.ID, matched.ID)
}

func TestMatchVendorTripleWithWrongCountyFallsBack(t *testing.T) {
	// Right city, wrong county: no narrow tier applies, so the vendor
	// surfaces on the loosest one.
	area := &models.ServiceableArea{
		ID:       uuid.New(),
		StateID:  georgiaID,
		CityID:   utils.Ptr(atlantaID),
		CountyID: utils.Ptr(uuid.New()),
	}

	mt, _ := MatchVendor(vendorWithAreas(area), atlantaLocation())
	assert.Equal(t, MatchStateFallback, mt)
}

func TestMatchVendorWrongStateNoMatch(t *testing.T) {
	mt, matched := MatchVendor(vendorWithAreas(stateWideArea(texasID)), atlantaLocation())

	assert.Equal(t, MatchNone, mt)
	assert.Nil(t, matched)
}

func TestMatchVendorNoStateOnProperty(t *testing.T) {
	// Without a state to compare against, any vendor gets the broadest label.
	mt, _ := MatchVendor(vendorWithAreas(stateWideArea(georgiaID)), models.PropertyLocation{})
	assert.Equal(t, MatchContinentalUS, mt)
}

func TestMatchVendorStateFallback(t *testing.T) {
	// Area in the right state but narrowed to a different city: still
	// surfaced, on the loosest tier.
	otherCity := uuid.New()
	area := &models.ServiceableArea{ID: uuid.New(), StateID: georgiaID, CityID: utils.Ptr(otherCity)}

	mt, matched := MatchVendor(vendorWithAreas(area), atlantaLocation())
	assert.Equal(t, MatchStateFallback, mt)
	require.NotNil(t, matched)
	assert.Equal(t, area.ID, matched.ID)
}

func TestMatchVendorsRankedByTierThenDistance(t *testing.T) {
	property := &models.Property{
		ID:       uuid.New(),
		StateID:  utils.Ptr(georgiaID),
		CityID:   utils.Ptr(atlantaID),
		Latitude: 33.7603, Longitude: -84.3871,
	}

	national := vendorWithAreas()
	national.Name = "national"
	national.CoversContinentalUS = true

	nearStateWide := vendorWithAreas(stateWideArea(georgiaID))
	nearStateWide.Name = "near-state-wide"
	nearStateWide.OfficeLatitude, nearStateWide.OfficeLongitude = 33.75, -84.39

	farStateWide := vendorWithAreas(stateWideArea(georgiaID))
	farStateWide.Name = "far-state-wide"
	farStateWide.OfficeLatitude, farStateWide.OfficeLongitude = 32.08, -81.09 // Savannah

	cityOnly := vendorWithAreas(&models.ServiceableArea{
		ID: uuid.New(), StateID: georgiaID, CityID: utils.Ptr(atlantaID),
	})
	cityOnly.Name = "city-only"

	noMatch := vendorWithAreas(stateWideArea(texasID))
	noMatch.Name = "texas-only"

	matches := MatchVendors(
		[]*models.Vendor{noMatch, cityOnly, farStateWide, national, nearStateWide},
		property,
	)

	require.Len(t, matches, 4)
	assert.Equal(t, "national", matches[0].Vendor.Name)
	assert.Equal(t, "near-state-wide", matches[1].Vendor.Name)
	assert.Equal(t, "far-state-wide", matches[2].Vendor.Name)
	assert.Equal(t, "city-only", matches[3].Vendor.Name)

	assert.Equal(t, MatchContinentalUS, matches[0].MatchType)
	assert.Equal(t, MatchStateWide, matches[1].MatchType)
	assert.Equal(t, MatchCity, matches[3].MatchType)

	// near office sorts before far within the same tier
	assert.Less(t, matches[1].DistanceMiles, matches[2].DistanceMiles)
	// city-only vendor has no office coordinates
	assert.Negative(t, matches[3].DistanceMiles)
}

func TestMatchVendorsUnknownDistanceSortsLast(t *testing.T) {
	property := &models.Property{
		ID:      uuid.New(),
		StateID: utils.Ptr(georgiaID),
		Latitude: 33.7603, Longitude: -84.3871,
	}

	withOffice := vendorWithAreas(stateWideArea(georgiaID))
	withOffice.Name = "with-office"
	withOffice.OfficeLatitude, withOffice.OfficeLongitude = 34.0, -84.0

	withoutOffice := vendorWithAreas(stateWideArea(georgiaID))
	withoutOffice.Name = "without-office"

	matches := MatchVendors([]*models.Vendor{withoutOffice, withOffice}, property)

	require.Len(t, matches, 2)
	assert.Equal(t, "with-office", matches[0].Vendor.Name)
	assert.Equal(t, "without-office", matches[1].Vendor.Name)
}

func TestBuildGeographicFilterNoState(t *testing.T) {
	sql, args, err := BuildGeographicFilter(models.PropertyLocation{}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "v.covers_continental_us")
	assert.Contains(t, sql, "v.interested_in_outside_rfps")
	assert.NotContains(t, sql, "serviceable_areas")
	assert.Equal(t, []interface{}{true, true}, args)
}

func TestBuildGeographicFilterFullHierarchy(t *testing.T) {
	sql, args, err := BuildGeographicFilter(atlantaLocation()).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "a.city_id IS NULL AND a.county_id IS NULL")
	assert.Contains(t, sql, "a.city_id =")
	assert.Contains(t, sql, "a.county_id =")
	// flags, state-wide, city pair, county pair, state fallback
	assert.Len(t, args, 8)
}
