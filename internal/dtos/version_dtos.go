package dtos

import (
	"time"

	"github.com/google/uuid"
)

/*
DocumentSaveRequest is the editor-callback payload. The editor posts the
edited document bytes (base64) along with the version being edited; the
engine decides whether to update in place or fork.
*/
type DocumentSaveRequest struct {
	ScopeOfWorkID         uuid.UUID  `json:"scope_of_work_id" validate:"required"`
	ScopeOfWorkPropertyID *uuid.UUID `json:"scope_of_work_property_id,omitempty"`
	ScopeOfWorkVersionID  uuid.UUID  `json:"scope_of_work_version_id" validate:"required"`
	FileName              string     `json:"file_name" validate:"required,min=1,max=255"`
	ContentType           string     `json:"content_type" validate:"required"`
	Content               string     `json:"content" validate:"required"` // base64
}

type ListVersionsQuery struct {
	Status         string
	CurrentOnly    bool
	Search         string
	UploadedAfter  *time.Time
	UploadedBefore *time.Time
	Page           int
	Size           int
}

type VersionDTO struct {
	ID                    uuid.UUID  `json:"id"`
	ScopeOfWorkID         uuid.UUID  `json:"scope_of_work_id"`
	ScopeOfWorkPropertyID *uuid.UUID `json:"scope_of_work_property_id,omitempty"`
	VersionNumber         int        `json:"version_number"`
	FileName              string     `json:"file_name"`
	Status                string     `json:"status"`
	IsCurrent             bool       `json:"is_current"`
	ParentVersionID       *uuid.UUID `json:"parent_version_id,omitempty"`
	CreatedBy             uuid.UUID  `json:"created_by"`
	ScopeName             string     `json:"scope_name,omitempty"`
	UploadedAt            time.Time  `json:"uploaded_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

type DownloadURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
