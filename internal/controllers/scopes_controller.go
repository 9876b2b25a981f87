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

type ScopesController struct {
	scopeService  *services.ScopeService
	openaiService *services.OpenAIService
	exportService *services.ExportService
	draftsEnabled bool
}

func NewScopesController(
	ss *services.ScopeService,
	os *services.OpenAIService,
	es *services.ExportService,
	draftsEnabled bool,
) *ScopesController {
	return &ScopesController{
		scopeService:  ss,
		openaiService: os,
		exportService: es,
		draftsEnabled: draftsEnabled,
	}
}

// ----------------------------------------------------------------
// POST /api/v1/scopes
// ----------------------------------------------------------------
func (c *ScopesController) CreateScopeHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	var req dtos.CreateScopeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	scope, err := c.scopeService.CreateScope(r.Context(), &models.ScopeOfWork{
		Name:      req.Name,
		ClientID:  req.ClientID,
		ServiceID: req.ServiceID,
		CreatedBy: userID,
	})
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, toScopeDTO(scope))
}

// ----------------------------------------------------------------
// GET /api/v1/scopes/{scopeId}
// ----------------------------------------------------------------
func (c *ScopesController) GetScopeHandler(w http.ResponseWriter, r *http.Request) {
	scopeID, ok := pathUUID(w, mux.Vars(r), "scopeId")
	if !ok {
		return
	}
	scope, err := c.scopeService.GetScope(r.Context(), scopeID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toScopeDTO(scope))
}

// ----------------------------------------------------------------
// GET /api/v1/scopes?client_id=...&include_archived=true
// ----------------------------------------------------------------
func (c *ScopesController) ListScopesHandler(w http.ResponseWriter, r *http.Request) {
	clientID, ok := pathUUID(w, map[string]string{"client_id": r.URL.Query().Get("client_id")}, "client_id")
	if !ok {
		return
	}
	includeArchived, _ := strconv.ParseBool(r.URL.Query().Get("include_archived"))

	scopes, err := c.scopeService.ListScopes(r.Context(), clientID, includeArchived)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	out := make([]dtos.ScopeDTO, 0, len(scopes))
	for _, s := range scopes {
		out = append(out, toScopeDTO(s))
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

// ----------------------------------------------------------------
// PATCH /api/v1/scopes/{scopeId}
// ----------------------------------------------------------------
func (c *ScopesController) RenameScopeHandler(w http.ResponseWriter, r *http.Request) {
	scopeID, ok := pathUUID(w, mux.Vars(r), "scopeId")
	if !ok {
		return
	}
	var req dtos.RenameScopeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	scope, err := c.scopeService.RenameScope(r.Context(), scopeID, req.Name)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toScopeDTO(scope))
}

// ----------------------------------------------------------------
// POST /api/v1/scopes/{scopeId}/archive
// ----------------------------------------------------------------
func (c *ScopesController) ArchiveScopeHandler(w http.ResponseWriter, r *http.Request) {
	scopeID, ok := pathUUID(w, mux.Vars(r), "scopeId")
	if !ok {
		return
	}
	scope, err := c.scopeService.ArchiveScope(r.Context(), scopeID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toScopeDTO(scope))
}

// ----------------------------------------------------------------
// DELETE /api/v1/scopes/{scopeId}
// ----------------------------------------------------------------
func (c *ScopesController) DeleteScopeHandler(w http.ResponseWriter, r *http.Request) {
	scopeID, ok := pathUUID(w, mux.Vars(r), "scopeId")
	if !ok {
		return
	}
	if err := c.scopeService.DeleteScope(r.Context(), scopeID); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ----------------------------------------------------------------
// POST /api/v1/scopes/{scopeId}/clone
// ----------------------------------------------------------------
func (c *ScopesController) CloneScopeHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	scopeID, ok := pathUUID(w, mux.Vars(r), "scopeId")
	if !ok {
		return
	}
	var req dtos.CloneScopeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	clone, err := c.scopeService.CloneScope(r.Context(), scopeID, req.Name, userID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, toScopeDTO(clone))
}

// ----------------------------------------------------------------
// POST /api/v1/scopes/{scopeId}/properties
// ----------------------------------------------------------------
func (c *ScopesController) AttachPropertyHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	scopeID, ok := pathUUID(w, mux.Vars(r), "scopeId")
	if !ok {
		return
	}
	var req dtos.AttachPropertyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	join, err := c.scopeService.AttachProperty(r.Context(), scopeID, req.PropertyID, userID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.ScopePropertyDTO{
		ID:            join.ID,
		ScopeOfWorkID: join.ScopeOfWorkID,
		PropertyID:    join.PropertyID,
		CreatedAt:     join.CreatedAt,
	})
}

// ----------------------------------------------------------------
// DELETE /api/v1/scopes/{scopeId}/properties/{propertyId}
// ----------------------------------------------------------------
func (c *ScopesController) DetachPropertyHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	scopeID, ok := pathUUID(w, vars, "scopeId")
	if !ok {
		return
	}
	propertyID, ok := pathUUID(w, vars, "propertyId")
	if !ok {
		return
	}
	if err := c.scopeService.DetachProperty(r.Context(), scopeID, propertyID); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ----------------------------------------------------------------
// POST /api/v1/scopes/draft
// ----------------------------------------------------------------
func (c *ScopesController) DraftScopeDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !c.draftsEnabled || !c.openaiService.Enabled() {
		utils.RespondErrorWithCode(
			w, http.StatusServiceUnavailable, utils.ErrCodeExternalServiceFailure,
			"Scope drafting is not enabled", nil,
		)
		return
	}

	var req dtos.DraftScopeDocumentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	markdown, err := c.openaiService.DraftScopeDocument(r.Context(), req.ServiceName, req.PropertyType, req.Requirements)
	if err != nil {
		utils.Logger.WithError(err).Error("Failed to draft scope document")
		utils.RespondErrorWithCode(
			w, http.StatusBadGateway, utils.ErrCodeExternalServiceFailure,
			"Failed to draft scope document", nil, err,
		)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.DraftScopeDocumentResponse{Markdown: markdown})
}

// ----------------------------------------------------------------
// GET /api/v1/scopes/{scopeId}/versions/export
// ----------------------------------------------------------------
func (c *ScopesController) ExportVersionHistoryHandler(w http.ResponseWriter, r *http.Request) {
	scopeID, ok := pathUUID(w, mux.Vars(r), "scopeId")
	if !ok {
		return
	}
	book, err := c.exportService.ExportVersionHistory(r.Context(), scopeID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="version-history.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(book)
}

func toScopeDTO(s *models.ScopeOfWork) dtos.ScopeDTO {
	return dtos.ScopeDTO{
		ID:            s.ID,
		Name:          s.Name,
		Status:        string(s.Status),
		ClientID:      s.ClientID,
		ServiceID:     s.ServiceID,
		SourceScopeID: s.SourceScopeID,
		CreatedBy:     s.CreatedBy,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}
