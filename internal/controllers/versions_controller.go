package controllers

import (
	"encoding/base64"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/procurehub/procurement-service/internal/dtos"
	"github.com/procurehub/procurement-service/internal/models"
	"github.com/procurehub/procurement-service/internal/repositories"
	"github.com/procurehub/procurement-service/internal/services"
	"github.com/procurehub/procurement-service/internal/utils"
)

type VersionsController struct {
	versionService *services.VersionService
}

func NewVersionsController(vs *services.VersionService) *VersionsController {
	return &VersionsController{versionService: vs}
}

// ----------------------------------------------------------------
// POST /api/v1/documents/save
//
// Editor callback. Always responds 200 with {error: 0|1} so the editor can
// show the outcome; transport-level errors would make it retry forever.
// ----------------------------------------------------------------
func (c *VersionsController) DocumentSaveHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		utils.RespondWithJSON(w, http.StatusOK, services.SaveResult{Error: 1, Message: "unauthorized"})
		return
	}

	var req dtos.DocumentSaveRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	buffer, err := base64.StdEncoding.DecodeString(req.Content)
	if err != nil {
		utils.RespondWithJSON(w, http.StatusOK, services.SaveResult{Error: 1, Message: "content is not valid base64"})
		return
	}

	result := c.versionService.HandleDocumentSave(r.Context(), services.DocumentSaveInput{
		ScopeOfWorkID:         req.ScopeOfWorkID,
		ScopeOfWorkPropertyID: req.ScopeOfWorkPropertyID,
		ScopeOfWorkVersionID:  req.ScopeOfWorkVersionID,
		FileName:              req.FileName,
		Buffer:                buffer,
		ContentType:           req.ContentType,
		UserID:                userID,
	})
	utils.RespondWithJSON(w, http.StatusOK, result)
}

// ----------------------------------------------------------------
// GET /api/v1/scopes/{scopeId}/versions
//
// Optional query params: property_id, status, current_only, search,
// uploaded_after, uploaded_before, page, size.
// ----------------------------------------------------------------
func (c *VersionsController) ListVersionsHandler(w http.ResponseWriter, r *http.Request) {
	scopeID, ok := pathUUID(w, mux.Vars(r), "scopeId")
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := repositories.VersionFilter{
		ScopeOfWorkID: scopeID,
		Status:        models.VersionStatusType(q.Get("status")),
		Search:        q.Get("search"),
	}
	filter.CurrentOnly, _ = strconv.ParseBool(q.Get("current_only"))

	if v := q.Get("property_id"); v != "" {
		propID, ok := pathUUID(w, map[string]string{"property_id": v}, "property_id")
		if !ok {
			return
		}
		filter.ScopeOfWorkPropertyID = &propID
	}
	if v := q.Get("uploaded_after"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid uploaded_after", nil, err)
			return
		}
		filter.UploadedAfter = &t
	}
	if v := q.Get("uploaded_before"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid uploaded_before", nil, err)
			return
		}
		filter.UploadedBefore = &t
	}

	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))
	if size <= 0 || size > 100 {
		size = 25
	}
	if page < 0 {
		page = 0
	}
	filter.Limit = size
	filter.Offset = page * size

	versions, err := c.versionService.ListVersions(r.Context(), filter)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	out := make([]dtos.VersionDTO, 0, len(versions))
	for _, v := range versions {
		out = append(out, toVersionDTO(v))
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

// ----------------------------------------------------------------
// GET /api/v1/versions/{versionId}
// ----------------------------------------------------------------
func (c *VersionsController) GetVersionHandler(w http.ResponseWriter, r *http.Request) {
	versionID, ok := pathUUID(w, mux.Vars(r), "versionId")
	if !ok {
		return
	}
	v, err := c.versionService.GetVersion(r.Context(), versionID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toVersionDTO(v))
}

// ----------------------------------------------------------------
// GET /api/v1/versions/{versionId}/download
// ----------------------------------------------------------------
func (c *VersionsController) DownloadVersionHandler(w http.ResponseWriter, r *http.Request) {
	versionID, ok := pathUUID(w, mux.Vars(r), "versionId")
	if !ok {
		return
	}
	url, err := c.versionService.GetDownloadURL(r.Context(), versionID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.DownloadURLResponse{
		URL:       url,
		ExpiresAt: time.Now().Add(services.DownloadTTL),
	})
}

func toVersionDTO(v *models.ScopeOfWorkVersion) dtos.VersionDTO {
	return dtos.VersionDTO{
		ID:                    v.ID,
		ScopeOfWorkID:         v.ScopeOfWorkID,
		ScopeOfWorkPropertyID: v.ScopeOfWorkPropertyID,
		VersionNumber:         v.VersionNumber,
		FileName:              v.FileName,
		Status:                string(v.Status),
		IsCurrent:             v.IsCurrent,
		ParentVersionID:       v.ParentVersionID,
		CreatedBy:             v.CreatedBy,
		ScopeName:             v.ScopeName,
		UploadedAt:            v.UploadedAt,
		UpdatedAt:             v.UpdatedAt,
	}
}
