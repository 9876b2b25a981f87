package services

import (
	"sort"

	sq "github.com/Masterminds/squirrel"

	"github.com/procurehub/procurement-service/internal/models"
	"github.com/procurehub/procurement-service/internal/utils"
)

// MatchType classifies how a vendor covers a property, from broadest to most
// specific. STATE_FALLBACK_COVERAGE is the loosest tier: the vendor has some
// area in the property's state but nothing matched a narrower tier.
type MatchType string

const (
	MatchContinentalUS    MatchType = "CONTINENTAL_US_COVERAGE"
	MatchOutsideInterest  MatchType = "OUTSIDE_RFP_INTEREST"
	MatchStateWide        MatchType = "STATE_WIDE_COVERAGE"
	MatchCity             MatchType = "CITY_COVERAGE"
	MatchCounty           MatchType = "COUNTY_COVERAGE"
	MatchSpecificLocation MatchType = "SPECIFIC_LOCATION_COVERAGE"
	MatchStateFallback    MatchType = "STATE_FALLBACK_COVERAGE"
	MatchNone             MatchType = ""
)

// tierRank orders match types for ranking; lower is stronger.
var tierRank = map[MatchType]int{
	MatchContinentalUS:    0,
	MatchOutsideInterest:  1,
	MatchStateWide:        2,
	MatchCity:             3,
	MatchCounty:           4,
	MatchSpecificLocation: 5,
	MatchStateFallback:    6,
}

// VendorMatch is one classified vendor, with the area that produced the match
// when a specific area was involved.
type VendorMatch struct {
	Vendor       *models.Vendor
	MatchType    MatchType
	MatchingArea *models.ServiceableArea

	// DistanceMiles from the vendor's office to the property, used as a
	// tie-breaker within a tier. Negative when either side lacks coordinates.
	DistanceMiles float64
}

// MatchVendor classifies one vendor against a property location. Pure
// function, evaluated in strict priority order; the first tier that applies
// wins.
func MatchVendor(vendor *models.Vendor, loc models.PropertyLocation) (MatchType, *models.ServiceableArea) {
	if vendor.CoversContinentalUS {
		return MatchContinentalUS, nil
	}
	if vendor.InterestedInOutsideRFPs {
		return MatchOutsideInterest, nil
	}

	// Without a state there is nothing to compare areas against; such
	// properties fall back to the broadest label.
	if loc.StateID == nil {
		return MatchContinentalUS, nil
	}

	var stateAreas []*models.ServiceableArea
	for _, a := range vendor.ServiceableAreas {
		if a.StateID == *loc.StateID {
			stateAreas = append(stateAreas, a)
		}
	}
	if len(stateAreas) == 0 {
		return MatchNone, nil
	}

	// An area narrowed by both city and county belongs to the exact-triple
	// tier only; the city and county tiers claim single-dimension areas.
	for _, a := range stateAreas {
		if a.CityID == nil && a.CountyID == nil {
			return MatchStateWide, a
		}
	}
	if loc.CityID != nil {
		for _, a := range stateAreas {
			if a.CityID != nil && *a.CityID == *loc.CityID && a.CountyID == nil {
				return MatchCity, a
			}
		}
	}
	if loc.CountyID != nil {
		for _, a := range stateAreas {
			if a.CountyID != nil && *a.CountyID == *loc.CountyID && a.CityID == nil {
				return MatchCounty, a
			}
		}
	}
	if loc.CityID != nil && loc.CountyID != nil {
		for _, a := range stateAreas {
			if a.CityID != nil && *a.CityID == *loc.CityID &&
				a.CountyID != nil && *a.CountyID == *loc.CountyID {
				return MatchSpecificLocation, a
			}
		}
	}

	// Some area shares the state but nothing narrower applied.
	return MatchStateFallback, stateAreas[0]
}

// MatchVendors classifies every vendor against the property and returns the
// matched ones ranked by tier strength, then by office distance.
func MatchVendors(vendors []*models.Vendor, property *models.Property) []VendorMatch {
	loc := property.Location()

	var out []VendorMatch
	for _, v := range vendors {
		mt, area := MatchVendor(v, loc)
		if mt == MatchNone {
			continue
		}

		dist := -1.0
		if property.Latitude != 0 || property.Longitude != 0 {
			if v.OfficeLatitude != 0 || v.OfficeLongitude != 0 {
				dist = utils.DistanceMiles(
					v.OfficeLatitude, v.OfficeLongitude,
					property.Latitude, property.Longitude,
				)
			}
		}

		out = append(out, VendorMatch{
			Vendor:        v,
			MatchType:     mt,
			MatchingArea:  area,
			DistanceMiles: dist,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := tierRank[out[i].MatchType], tierRank[out[j].MatchType]
		if ri != rj {
			return ri < rj
		}
		di, dj := out[i].DistanceMiles, out[j].DistanceMiles
		if di < 0 {
			return false
		}
		if dj < 0 {
			return true
		}
		return di < dj
	})
	return out
}

// BuildGeographicFilter produces the candidate predicate the vendor
// repository runs before the in-memory classification above. Broad on
// purpose: it admits every vendor some tier could match, and MatchVendor
// assigns the precise label afterwards.
func BuildGeographicFilter(loc models.PropertyLocation) sq.Sqlizer {
	pred := sq.Or{
		sq.Eq{"v.covers_continental_us": true},
		sq.Eq{"v.interested_in_outside_rfps": true},
	}
	if loc.StateID == nil {
		return pred
	}

	areaMatch := sq.Or{
		sq.Expr(`EXISTS (
            SELECT 1 FROM serviceable_areas a
            WHERE a.vendor_id = v.id AND a.state_id = ?
              AND a.city_id IS NULL AND a.county_id IS NULL
        )`, *loc.StateID),
	}
	if loc.CityID != nil {
		areaMatch = append(areaMatch, sq.Expr(`EXISTS (
            SELECT 1 FROM serviceable_areas a
            WHERE a.vendor_id = v.id AND a.state_id = ? AND a.city_id = ?
        )`, *loc.StateID, *loc.CityID))
	}
	if loc.CountyID != nil {
		areaMatch = append(areaMatch, sq.Expr(`EXISTS (
            SELECT 1 FROM serviceable_areas a
            WHERE a.vendor_id = v.id AND a.state_id = ? AND a.county_id = ?
        )`, *loc.StateID, *loc.CountyID))
	}
	// State-only fallback candidates.
	areaMatch = append(areaMatch, sq.Expr(`EXISTS (
        SELECT 1 FROM serviceable_areas a
        WHERE a.vendor_id = v.id AND a.state_id = ?
    )`, *loc.StateID))

	return append(pred, areaMatch...)
}
