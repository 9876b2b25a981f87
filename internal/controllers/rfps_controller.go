package controllers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/procurehub/procurement-service/internal/dtos"
	"github.com/procurehub/procurement-service/internal/models"
	"github.com/procurehub/procurement-service/internal/services"
	"github.com/procurehub/procurement-service/internal/utils"
)

type RFPsController struct {
	rfpService *services.RFPService
}

func NewRFPsController(rs *services.RFPService) *RFPsController {
	return &RFPsController{rfpService: rs}
}

// ----------------------------------------------------------------
// POST /api/v1/rfps
// ----------------------------------------------------------------
func (c *RFPsController) CreateRFPHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	var req dtos.CreateRFPRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	rfp, err := c.rfpService.CreateRFP(r.Context(), services.CreateRFPInput{
		Title:         req.Title,
		Description:   req.Description,
		PropertyID:    req.PropertyID,
		ScopeOfWorkID: req.ScopeOfWorkID,
		DueDate:       req.DueDate,
		DueTime:       req.DueTime,
		CreatedBy:     userID,
	})
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, toRFPDTO(rfp))
}

// ----------------------------------------------------------------
// GET /api/v1/rfps?status=PUBLISHED&page=0&size=25
// ----------------------------------------------------------------
func (c *RFPsController) ListRFPsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := models.RFPStatusType(q.Get("status"))
	if status == "" {
		status = models.RFPStatusPublished
	}

	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))
	if page < 0 {
		page = 0
	}

	rfps, err := c.rfpService.ListRFPs(r.Context(), status, size, page*size)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	out := make([]dtos.RFPDTO, 0, len(rfps))
	for _, m := range rfps {
		out = append(out, toRFPDTO(m))
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

// ----------------------------------------------------------------
// GET /api/v1/rfps/{rfpId}
// ----------------------------------------------------------------
func (c *RFPsController) GetRFPHandler(w http.ResponseWriter, r *http.Request) {
	rfpID, ok := pathUUID(w, mux.Vars(r), "rfpId")
	if !ok {
		return
	}
	rfp, err := c.rfpService.GetRFP(r.Context(), rfpID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toRFPDTO(rfp))
}

// ----------------------------------------------------------------
// POST /api/v1/rfps/{rfpId}/publish
// ----------------------------------------------------------------
func (c *RFPsController) PublishRFPHandler(w http.ResponseWriter, r *http.Request) {
	rfpID, ok := pathUUID(w, mux.Vars(r), "rfpId")
	if !ok {
		return
	}
	rfp, matches, err := c.rfpService.PublishRFP(r.Context(), rfpID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.PublishRFPResponse{
		RFP:            toRFPDTO(rfp),
		InvitedVendors: toMatchDTOs(matches),
	})
}

// ----------------------------------------------------------------
// POST /api/v1/rfps/{rfpId}/close
// ----------------------------------------------------------------
func (c *RFPsController) CloseRFPHandler(w http.ResponseWriter, r *http.Request) {
	rfpID, ok := pathUUID(w, mux.Vars(r), "rfpId")
	if !ok {
		return
	}
	rfp, err := c.rfpService.CloseRFP(r.Context(), rfpID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toRFPDTO(rfp))
}

func toRFPDTO(m *models.RFP) dtos.RFPDTO {
	return dtos.RFPDTO{
		ID:            m.ID,
		Title:         m.Title,
		Description:   m.Description,
		PropertyID:    m.PropertyID,
		ScopeOfWorkID: m.ScopeOfWorkID,
		Status:        string(m.Status),
		BidDueAt:      m.BidDueAt,
		CreatedAt:     m.CreatedAt,
	}
}
