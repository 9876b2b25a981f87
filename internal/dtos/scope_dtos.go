package dtos

import (
	"time"

	"github.com/google/uuid"
)

type CreateScopeRequest struct {
	Name      string     `json:"name" validate:"required,min=1,max=255"`
	ClientID  *uuid.UUID `json:"client_id,omitempty"`
	ServiceID *uuid.UUID `json:"service_id,omitempty"`
}

type RenameScopeRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

type CloneScopeRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

type AttachPropertyRequest struct {
	PropertyID uuid.UUID `json:"property_id" validate:"required"`
}

type ScopeDTO struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Status        string     `json:"status"`
	ClientID      *uuid.UUID `json:"client_id,omitempty"`
	ServiceID     *uuid.UUID `json:"service_id,omitempty"`
	SourceScopeID *uuid.UUID `json:"source_scope_id,omitempty"`
	CreatedBy     uuid.UUID  `json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type ScopePropertyDTO struct {
	ID            uuid.UUID `json:"id"`
	ScopeOfWorkID uuid.UUID `json:"scope_of_work_id"`
	PropertyID    uuid.UUID `json:"property_id"`
	CreatedAt     time.Time `json:"created_at"`
}

type DraftScopeDocumentRequest struct {
	ServiceName  string `json:"service_name" validate:"required,min=1,max=255"`
	PropertyType string `json:"property_type" validate:"required,min=1,max=100"`
	Requirements string `json:"requirements" validate:"required,min=1,max=5000"`
}

type DraftScopeDocumentResponse struct {
	Markdown string `json:"markdown"`
}
