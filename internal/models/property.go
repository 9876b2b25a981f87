package models

import (
	"time"

	"github.com/google/uuid"
)

// Property is a physical site. The state/city/county hierarchy is what the
// vendor matcher compares serviceable areas against.
type Property struct {
	ID           uuid.UUID  `json:"id"`
	ManagerID    uuid.UUID  `json:"manager_id"`
	PropertyName string     `json:"property_name"`
	Address      string     `json:"address"`
	ZipCode      string     `json:"zip_code"`
	StateID      *uuid.UUID `json:"state_id,omitempty"`
	CityID       *uuid.UUID `json:"city_id,omitempty"`
	CountyID     *uuid.UUID `json:"county_id,omitempty"`
	TimeZone     string     `json:"timezone"`
	Latitude     float64    `json:"latitude"`
	Longitude    float64    `json:"longitude"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Versioned
}

func (p *Property) GetID() string { return p.ID.String() }

// PropertyLocation is the slice of a property the matcher needs.
type PropertyLocation struct {
	StateID  *uuid.UUID
	CityID   *uuid.UUID
	CountyID *uuid.UUID
}

// Location returns the matching hierarchy for this property.
func (p *Property) Location() PropertyLocation {
	return PropertyLocation{StateID: p.StateID, CityID: p.CityID, CountyID: p.CountyID}
}
