package models

import (
	"time"

	"github.com/google/uuid"
)

// Vendor is a service provider that can be matched to properties.
type Vendor struct {
	ID                      uuid.UUID `json:"id"`
	Name                    string    `json:"name"`
	ContactEmail            string    `json:"contact_email"`
	ContactPhone            string    `json:"contact_phone"`
	CoversContinentalUS     bool      `json:"covers_continental_us"`
	InterestedInOutsideRFPs bool      `json:"interested_in_outside_rfps"`
	OfficeLatitude          float64   `json:"office_latitude"`
	OfficeLongitude         float64   `json:"office_longitude"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
	Versioned

	// Loaded alongside the vendor row for matching and display.
	ServiceableAreas []*ServiceableArea `json:"serviceable_areas,omitempty"`
}

func (v *Vendor) GetID() string { return v.ID.String() }

// ServiceableArea declares a geographic scope the vendor can service: a state,
// optionally narrowed by city and/or county. Null city and county means the
// whole state.
type ServiceableArea struct {
	ID       uuid.UUID  `json:"id"`
	VendorID uuid.UUID  `json:"vendor_id"`
	StateID  uuid.UUID  `json:"state_id"`
	CityID   *uuid.UUID `json:"city_id,omitempty"`
	CountyID *uuid.UUID `json:"county_id,omitempty"`
}
