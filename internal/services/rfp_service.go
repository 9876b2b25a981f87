package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/procurehub/procurement-service/internal/models"
	"github.com/procurehub/procurement-service/internal/repositories"
	"github.com/procurehub/procurement-service/internal/utils"
)

// CreateRFPInput carries the fields needed to open an RFP. DueDate and
// DueTime are interpreted in the property's local timezone.
type CreateRFPInput struct {
	Title         string
	Description   string
	PropertyID    uuid.UUID
	ScopeOfWorkID *uuid.UUID
	DueDate       string // YYYY-MM-DD
	DueTime       string // HH:MM, 24h
	CreatedBy     uuid.UUID
}

type RFPService struct {
	rfps       repositories.RFPRepository
	vendors    repositories.VendorRepository
	properties repositories.PropertyRepository
	notify     *NotifyService
}

func NewRFPService(
	rfps repositories.RFPRepository,
	vendors repositories.VendorRepository,
	properties repositories.PropertyRepository,
	notify *NotifyService,
) *RFPService {
	return &RFPService{rfps: rfps, vendors: vendors, properties: properties, notify: notify}
}

// CreateRFP opens a draft RFP. The bid deadline is anchored to the property's
// timezone so "due 5pm Friday" means 5pm where the property is.
func (s *RFPService) CreateRFP(ctx context.Context, in CreateRFPInput) (*models.RFP, error) {
	property, err := s.getProperty(ctx, in.PropertyID)
	if err != nil {
		return nil, err
	}

	loc := utils.LocationForProperty(property.TimeZone, property.Latitude, property.Longitude)
	dueAt, err := time.ParseInLocation("2006-01-02 15:04", in.DueDate+" "+in.DueTime, loc)
	if err != nil {
		return nil, &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       utils.ErrCodeValidation,
			Message:    "Invalid bid due date or time",
			Err:        err,
		}
	}

	rfp := &models.RFP{
		ID:            uuid.New(),
		Title:         in.Title,
		Description:   in.Description,
		PropertyID:    in.PropertyID,
		ScopeOfWorkID: in.ScopeOfWorkID,
		Status:        models.RFPStatusDraft,
		BidDueAt:      dueAt.UTC(),
		CreatedBy:     in.CreatedBy,
	}
	if err := s.rfps.Create(ctx, rfp); err != nil {
		return nil, err
	}
	return s.rfps.GetByID(ctx, rfp.ID)
}

func (s *RFPService) GetRFP(ctx context.Context, id uuid.UUID) (*models.RFP, error) {
	rfp, err := s.rfps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rfp == nil {
		return nil, &utils.AppError{
			StatusCode: http.StatusNotFound,
			Code:       utils.ErrCodeNotFound,
			Message:    "RFP not found",
		}
	}
	return rfp, nil
}

func (s *RFPService) ListRFPs(ctx context.Context, status models.RFPStatusType, limit, offset int) ([]*models.RFP, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	return s.rfps.ListByStatus(ctx, status, limit, offset)
}

// MatchVendorsForProperty runs the two-phase match: a broad SQL pre-filter
// selects candidates, then each survivor is classified and ranked in memory.
func (s *RFPService) MatchVendorsForProperty(ctx context.Context, propertyID uuid.UUID) ([]VendorMatch, error) {
	property, err := s.getProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.vendors.ListCandidates(ctx, BuildGeographicFilter(property.Location()))
	if err != nil {
		return nil, err
	}
	return MatchVendors(candidates, property), nil
}

// PublishRFP transitions a draft to PUBLISHED, invites every matched vendor,
// and notifies them best-effort.
func (s *RFPService) PublishRFP(ctx context.Context, id uuid.UUID) (*models.RFP, []VendorMatch, error) {
	rfp, err := s.GetRFP(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if rfp.Status != models.RFPStatusDraft {
		return nil, nil, &utils.AppError{
			StatusCode: http.StatusConflict,
			Code:       utils.ErrCodeConflict,
			Message:    fmt.Sprintf("RFP is %s, only drafts can be published", rfp.Status),
		}
	}

	property, err := s.getProperty(ctx, rfp.PropertyID)
	if err != nil {
		return nil, nil, err
	}

	matches, err := s.MatchVendorsForProperty(ctx, rfp.PropertyID)
	if err != nil {
		return nil, nil, err
	}

	published, err := s.rfps.UpdateWithRetry(ctx, id, func(r *models.RFP) error {
		if r.Status != models.RFPStatusDraft {
			return &utils.AppError{
				StatusCode: http.StatusConflict,
				Code:       utils.ErrCodeConflict,
				Message:    "RFP was published concurrently",
			}
		}
		r.Status = models.RFPStatusPublished
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	for _, m := range matches {
		err := s.rfps.AddVendor(ctx, &models.RFPVendor{
			ID:        uuid.New(),
			RFPID:     id,
			VendorID:  m.Vendor.ID,
			MatchType: string(m.MatchType),
		})
		if err != nil {
			utils.Logger.WithError(err).Warnf("Failed to record RFP invite for vendor %s", m.Vendor.ID)
			continue
		}
		s.notify.SendRFPInvitation(m.Vendor, published, property, string(m.MatchType))
	}

	return published, matches, nil
}

// CloseRFP ends bidding.
func (s *RFPService) CloseRFP(ctx context.Context, id uuid.UUID) (*models.RFP, error) {
	return s.rfps.UpdateWithRetry(ctx, id, func(r *models.RFP) error {
		r.Status = models.RFPStatusClosed
		return nil
	})
}

func (s *RFPService) ListInvitedVendors(ctx context.Context, rfpID uuid.UUID) ([]*models.RFPVendor, error) {
	return s.rfps.ListVendors(ctx, rfpID)
}

func (s *RFPService) getProperty(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	property, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, &utils.AppError{
			StatusCode: http.StatusNotFound,
			Code:       utils.ErrCodeNotFound,
			Message:    "Property not found",
			Err:        utils.ErrPropertyNotFound,
		}
	}
	return property, nil
}
