package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/procurehub/procurement-service/internal/dtos"
	"github.com/procurehub/procurement-service/internal/models"
	"github.com/procurehub/procurement-service/internal/services"
	"github.com/procurehub/procurement-service/internal/utils"
)

type ContractsController struct {
	contractService *services.ContractService
}

func NewContractsController(cs *services.ContractService) *ContractsController {
	return &ContractsController{contractService: cs}
}

// ----------------------------------------------------------------
// POST /api/v1/contracts
// ----------------------------------------------------------------
func (c *ContractsController) CreateContractHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	var req dtos.CreateContractRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	contract, err := c.contractService.CreateContract(r.Context(), &models.Contract{
		VendorID:      req.VendorID,
		PropertyID:    req.PropertyID,
		ScopeOfWorkID: req.ScopeOfWorkID,
		AnnualValue:   req.AnnualValue,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		CreatedBy:     userID,
	})
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, toContractDTO(contract))
}

// ----------------------------------------------------------------
// GET /api/v1/contracts/{contractId}
// ----------------------------------------------------------------
func (c *ContractsController) GetContractHandler(w http.ResponseWriter, r *http.Request) {
	contractID, ok := pathUUID(w, mux.Vars(r), "contractId")
	if !ok {
		return
	}
	contract, err := c.contractService.GetContract(r.Context(), contractID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toContractDTO(contract))
}

// ----------------------------------------------------------------
// GET /api/v1/properties/{propertyId}/contracts
// ----------------------------------------------------------------
func (c *ContractsController) ListPropertyContractsHandler(w http.ResponseWriter, r *http.Request) {
	propertyID, ok := pathUUID(w, mux.Vars(r), "propertyId")
	if !ok {
		return
	}
	contracts, err := c.contractService.ListByProperty(r.Context(), propertyID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	out := make([]dtos.ContractDTO, 0, len(contracts))
	for _, m := range contracts {
		out = append(out, toContractDTO(m))
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

// ----------------------------------------------------------------
// POST /api/v1/contracts/{contractId}/terminate
// ----------------------------------------------------------------
func (c *ContractsController) TerminateContractHandler(w http.ResponseWriter, r *http.Request) {
	contractID, ok := pathUUID(w, mux.Vars(r), "contractId")
	if !ok {
		return
	}
	contract, err := c.contractService.TerminateContract(r.Context(), contractID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toContractDTO(contract))
}

func toContractDTO(m *models.Contract) dtos.ContractDTO {
	return dtos.ContractDTO{
		ID:            m.ID,
		VendorID:      m.VendorID,
		PropertyID:    m.PropertyID,
		ScopeOfWorkID: m.ScopeOfWorkID,
		Status:        string(m.Status),
		AnnualValue:   m.AnnualValue,
		StartDate:     m.StartDate,
		EndDate:       m.EndDate,
	}
}
