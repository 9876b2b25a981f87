package utils

import (
	"time"

	"github.com/bradfitz/latlong"
	"github.com/umahmood/haversine"
)

// DistanceMiles returns the great-circle distance between two coordinates.
func DistanceMiles(lat1, lng1, lat2, lng2 float64) float64 {
	mi, _ := haversine.Distance(
		haversine.Coord{Lat: lat1, Lon: lng1},
		haversine.Coord{Lat: lat2, Lon: lng2},
	)
	return mi
}

// LocationForProperty resolves a property's timezone. An explicit IANA name
// wins; otherwise the zone is derived from coordinates. Falls back to UTC.
func LocationForProperty(tzName string, lat, lng float64) *time.Location {
	if tzName == "" {
		tzName = latlong.LookupZoneName(lat, lng)
	}
	if tzName == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return time.UTC
	}
	return loc
}
