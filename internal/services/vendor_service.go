package services

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/procurehub/procurement-service/internal/models"
	"github.com/procurehub/procurement-service/internal/repositories"
	"github.com/procurehub/procurement-service/internal/utils"
)

type VendorService struct {
	vendors   repositories.VendorRepository
	locations repositories.LocationRepository
}

func NewVendorService(
	vendors repositories.VendorRepository,
	locations repositories.LocationRepository,
) *VendorService {
	return &VendorService{vendors: vendors, locations: locations}
}

func (s *VendorService) CreateVendor(ctx context.Context, v *models.Vendor) (*models.Vendor, error) {
	v.ID = uuid.New()
	if err := s.vendors.Create(ctx, v); err != nil {
		return nil, err
	}
	return s.vendors.GetByID(ctx, v.ID)
}

func (s *VendorService) GetVendor(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	v, err := s.vendors.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, &utils.AppError{
			StatusCode: http.StatusNotFound,
			Code:       utils.ErrCodeNotFound,
			Message:    "Vendor not found",
			Err:        utils.ErrVendorNotFound,
		}
	}
	return v, nil
}

func (s *VendorService) ListVendors(ctx context.Context) ([]*models.Vendor, error) {
	return s.vendors.List(ctx)
}

func (s *VendorService) UpdateVendor(ctx context.Context, id uuid.UUID, mutate func(*models.Vendor) error) (*models.Vendor, error) {
	return s.vendors.UpdateWithRetry(ctx, id, mutate)
}

// AddServiceableArea declares a new coverage area for a vendor. The state,
// city, and county must exist and belong together; duplicate (state, city,
// county) triples for the same vendor are rejected.
func (s *VendorService) AddServiceableArea(ctx context.Context, vendorID uuid.UUID, stateID uuid.UUID, cityID, countyID *uuid.UUID) (*models.ServiceableArea, error) {
	vendor, err := s.GetVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	state, err := s.validateAreaLocation(ctx, stateID, cityID, countyID)
	if err != nil {
		return nil, err
	}
	if vendor.CoversContinentalUS && utils.IsContinentalUSState(state.Code) {
		utils.Logger.WithField("vendorId", vendorID).Warnf(
			"Serviceable area in %s is redundant with continental coverage", state.Code,
		)
	}

	area := &models.ServiceableArea{
		ID:       uuid.New(),
		VendorID: vendorID,
		StateID:  stateID,
		CityID:   cityID,
		CountyID: countyID,
	}
	if err := s.vendors.AddServiceableArea(ctx, area); err != nil {
		if err == utils.ErrDuplicateArea {
			return nil, &utils.AppError{
				StatusCode: http.StatusConflict,
				Code:       utils.ErrCodeDuplicateArea,
				Message:    "Vendor already has this serviceable area",
				Err:        err,
			}
		}
		return nil, err
	}
	return area, nil
}

// validateAreaLocation checks the referenced state exists and that any city or
// county narrowing the area belongs to that state.
func (s *VendorService) validateAreaLocation(ctx context.Context, stateID uuid.UUID, cityID, countyID *uuid.UUID) (*models.State, error) {
	state, err := s.locations.GetStateByID(ctx, stateID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, invalidAreaLocation("Unknown state")
	}
	if cityID != nil {
		city, err := s.locations.GetCityByID(ctx, *cityID)
		if err != nil {
			return nil, err
		}
		if city == nil || city.StateID != stateID {
			return nil, invalidAreaLocation("City does not belong to the given state")
		}
	}
	if countyID != nil {
		county, err := s.locations.GetCountyByID(ctx, *countyID)
		if err != nil {
			return nil, err
		}
		if county == nil || county.StateID != stateID {
			return nil, invalidAreaLocation("County does not belong to the given state")
		}
	}
	return state, nil
}

func invalidAreaLocation(message string) error {
	return &utils.AppError{
		StatusCode: http.StatusBadRequest,
		Code:       utils.ErrCodeValidation,
		Message:    message,
	}
}

func (s *VendorService) RemoveServiceableArea(ctx context.Context, vendorID, areaID uuid.UUID) error {
	err := s.vendors.RemoveServiceableArea(ctx, vendorID, areaID)
	if err == utils.ErrVendorNotFound {
		return &utils.AppError{
			StatusCode: http.StatusNotFound,
			Code:       utils.ErrCodeNotFound,
			Message:    "Serviceable area not found",
			Err:        err,
		}
	}
	return err
}
