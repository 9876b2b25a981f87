package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/procurehub/procurement-service/internal/dtos"
	"github.com/procurehub/procurement-service/internal/models"
	"github.com/procurehub/procurement-service/internal/services"
	"github.com/procurehub/procurement-service/internal/utils"
)

type VendorsController struct {
	vendorService *services.VendorService
	rfpService    *services.RFPService
	exportService *services.ExportService
}

func NewVendorsController(
	vs *services.VendorService,
	rs *services.RFPService,
	es *services.ExportService,
) *VendorsController {
	return &VendorsController{vendorService: vs, rfpService: rs, exportService: es}
}

// ----------------------------------------------------------------
// POST /api/v1/vendors
// ----------------------------------------------------------------
func (c *VendorsController) CreateVendorHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreateVendorRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	vendor, err := c.vendorService.CreateVendor(r.Context(), &models.Vendor{
		Name:                    req.Name,
		ContactEmail:            req.ContactEmail,
		ContactPhone:            req.ContactPhone,
		CoversContinentalUS:     req.CoversContinentalUS,
		InterestedInOutsideRFPs: req.InterestedInOutsideRFPs,
		OfficeLatitude:          req.OfficeLatitude,
		OfficeLongitude:         req.OfficeLongitude,
	})
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, toVendorDTO(vendor))
}

// ----------------------------------------------------------------
// GET /api/v1/vendors
// ----------------------------------------------------------------
func (c *VendorsController) ListVendorsHandler(w http.ResponseWriter, r *http.Request) {
	vendors, err := c.vendorService.ListVendors(r.Context())
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	out := make([]dtos.VendorDTO, 0, len(vendors))
	for _, v := range vendors {
		out = append(out, toVendorDTO(v))
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

// ----------------------------------------------------------------
// GET /api/v1/vendors/{vendorId}
// ----------------------------------------------------------------
func (c *VendorsController) GetVendorHandler(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := pathUUID(w, mux.Vars(r), "vendorId")
	if !ok {
		return
	}
	vendor, err := c.vendorService.GetVendor(r.Context(), vendorID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toVendorDTO(vendor))
}

// ----------------------------------------------------------------
// PATCH /api/v1/vendors/{vendorId}
// ----------------------------------------------------------------
func (c *VendorsController) UpdateVendorHandler(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := pathUUID(w, mux.Vars(r), "vendorId")
	if !ok {
		return
	}
	var req dtos.UpdateVendorRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	vendor, err := c.vendorService.UpdateVendor(r.Context(), vendorID, func(v *models.Vendor) error {
		if req.Name != nil {
			v.Name = *req.Name
		}
		if req.ContactEmail != nil {
			v.ContactEmail = *req.ContactEmail
		}
		if req.ContactPhone != nil {
			v.ContactPhone = *req.ContactPhone
		}
		if req.CoversContinentalUS != nil {
			v.CoversContinentalUS = *req.CoversContinentalUS
		}
		if req.InterestedInOutsideRFPs != nil {
			v.InterestedInOutsideRFPs = *req.InterestedInOutsideRFPs
		}
		if req.OfficeLatitude != nil {
			v.OfficeLatitude = *req.OfficeLatitude
		}
		if req.OfficeLongitude != nil {
			v.OfficeLongitude = *req.OfficeLongitude
		}
		return nil
	})
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toVendorDTO(vendor))
}

// ----------------------------------------------------------------
// POST /api/v1/vendors/{vendorId}/areas
// ----------------------------------------------------------------
func (c *VendorsController) AddServiceableAreaHandler(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := pathUUID(w, mux.Vars(r), "vendorId")
	if !ok {
		return
	}
	var req dtos.AddServiceableAreaRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	area, err := c.vendorService.AddServiceableArea(r.Context(), vendorID, req.StateID, req.CityID, req.CountyID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, toAreaDTO(area))
}

// ----------------------------------------------------------------
// DELETE /api/v1/vendors/{vendorId}/areas/{areaId}
// ----------------------------------------------------------------
func (c *VendorsController) RemoveServiceableAreaHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	vendorID, ok := pathUUID(w, vars, "vendorId")
	if !ok {
		return
	}
	areaID, ok := pathUUID(w, vars, "areaId")
	if !ok {
		return
	}
	if err := c.vendorService.RemoveServiceableArea(r.Context(), vendorID, areaID); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ----------------------------------------------------------------
// GET /api/v1/properties/{propertyId}/vendor-matches
// ----------------------------------------------------------------
func (c *VendorsController) MatchVendorsHandler(w http.ResponseWriter, r *http.Request) {
	propertyID, ok := pathUUID(w, mux.Vars(r), "propertyId")
	if !ok {
		return
	}
	matches, err := c.rfpService.MatchVendorsForProperty(r.Context(), propertyID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toMatchDTOs(matches))
}

// ----------------------------------------------------------------
// GET /api/v1/vendors/{vendorId}/contracts/export
// ----------------------------------------------------------------
func (c *VendorsController) ExportContractsHandler(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := pathUUID(w, mux.Vars(r), "vendorId")
	if !ok {
		return
	}
	book, err := c.exportService.ExportVendorContracts(r.Context(), vendorID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="contracts.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(book)
}

func toVendorDTO(v *models.Vendor) dtos.VendorDTO {
	dto := dtos.VendorDTO{
		ID:                      v.ID,
		Name:                    v.Name,
		ContactEmail:            v.ContactEmail,
		ContactPhone:            v.ContactPhone,
		CoversContinentalUS:     v.CoversContinentalUS,
		InterestedInOutsideRFPs: v.InterestedInOutsideRFPs,
	}
	for _, a := range v.ServiceableAreas {
		dto.ServiceableAreas = append(dto.ServiceableAreas, toAreaDTO(a))
	}
	return dto
}

func toAreaDTO(a *models.ServiceableArea) dtos.ServiceableAreaDTO {
	return dtos.ServiceableAreaDTO{
		ID:       a.ID,
		StateID:  a.StateID,
		CityID:   a.CityID,
		CountyID: a.CountyID,
	}
}

func toMatchDTOs(matches []services.VendorMatch) []dtos.VendorMatchDTO {
	out := make([]dtos.VendorMatchDTO, 0, len(matches))
	for _, m := range matches {
		dto := dtos.VendorMatchDTO{
			Vendor:    toVendorDTO(m.Vendor),
			MatchType: string(m.MatchType),
		}
		if m.MatchingArea != nil {
			area := toAreaDTO(m.MatchingArea)
			dto.MatchingArea = &area
		}
		if m.DistanceMiles >= 0 {
			dto.DistanceMiles = utils.Ptr(m.DistanceMiles)
		}
		out = append(out, dto)
	}
	return out
}
