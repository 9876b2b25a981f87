package dtos

import "github.com/google/uuid"

type CreateVendorRequest struct {
	Name                    string  `json:"name" validate:"required,min=1,max=255"`
	ContactEmail            string  `json:"contact_email" validate:"required,email"`
	ContactPhone            string  `json:"contact_phone" validate:"omitempty,e164"`
	CoversContinentalUS     bool    `json:"covers_continental_us"`
	InterestedInOutsideRFPs bool    `json:"interested_in_outside_rfps"`
	OfficeLatitude          float64 `json:"office_latitude" validate:"omitempty,latitude"`
	OfficeLongitude         float64 `json:"office_longitude" validate:"omitempty,longitude"`
}

type UpdateVendorRequest struct {
	Name                    *string  `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	ContactEmail            *string  `json:"contact_email,omitempty" validate:"omitempty,email"`
	ContactPhone            *string  `json:"contact_phone,omitempty" validate:"omitempty,e164"`
	CoversContinentalUS     *bool    `json:"covers_continental_us,omitempty"`
	InterestedInOutsideRFPs *bool    `json:"interested_in_outside_rfps,omitempty"`
	OfficeLatitude          *float64 `json:"office_latitude,omitempty" validate:"omitempty,latitude"`
	OfficeLongitude         *float64 `json:"office_longitude,omitempty" validate:"omitempty,longitude"`
}

type AddServiceableAreaRequest struct {
	StateID  uuid.UUID  `json:"state_id" validate:"required"`
	CityID   *uuid.UUID `json:"city_id,omitempty"`
	CountyID *uuid.UUID `json:"county_id,omitempty"`
}

type ServiceableAreaDTO struct {
	ID       uuid.UUID  `json:"id"`
	StateID  uuid.UUID  `json:"state_id"`
	CityID   *uuid.UUID `json:"city_id,omitempty"`
	CountyID *uuid.UUID `json:"county_id,omitempty"`
}

type VendorDTO struct {
	ID                      uuid.UUID            `json:"id"`
	Name                    string               `json:"name"`
	ContactEmail            string               `json:"contact_email"`
	ContactPhone            string               `json:"contact_phone"`
	CoversContinentalUS     bool                 `json:"covers_continental_us"`
	InterestedInOutsideRFPs bool                 `json:"interested_in_outside_rfps"`
	ServiceableAreas        []ServiceableAreaDTO `json:"serviceable_areas,omitempty"`
}

/*
VendorMatchDTO is one ranked matcher result for a property.
*/
type VendorMatchDTO struct {
	Vendor        VendorDTO           `json:"vendor"`
	MatchType     string              `json:"match_type"`
	MatchingArea  *ServiceableAreaDTO `json:"matching_area,omitempty"`
	DistanceMiles *float64            `json:"distance_miles,omitempty"`
}
