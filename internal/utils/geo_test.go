package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceMiles(t *testing.T) {
	// Atlanta to Savannah is roughly 215 miles great-circle.
	d := DistanceMiles(33.7490, -84.3880, 32.0809, -81.0912)
	assert.InDelta(t, 215, d, 15)

	assert.Zero(t, DistanceMiles(33.7490, -84.3880, 33.7490, -84.3880))
}

func TestLocationForPropertyExplicitZone(t *testing.T) {
	loc := LocationForProperty("America/New_York", 0, 0)
	require.NotNil(t, loc)
	assert.Equal(t, "America/New_York", loc.String())
}

func TestLocationForPropertyFromCoordinates(t *testing.T) {
	loc := LocationForProperty("", 33.7490, -84.3880)
	require.NotNil(t, loc)
	assert.Equal(t, "America/New_York", loc.String())
}

func TestLocationForPropertyFallsBackToUTC(t *testing.T) {
	assert.Equal(t, time.UTC, LocationForProperty("Not/AZone", 0, 0))
}
