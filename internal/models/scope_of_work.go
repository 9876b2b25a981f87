package models

import (
	"time"

	"github.com/google/uuid"
)

// ScopeStatusType is the lifecycle state of a scope-of-work document container.
type ScopeStatusType string

const (
	ScopeStatusActive     ScopeStatusType = "ACTIVE"
	ScopeStatusProcessing ScopeStatusType = "PROCESSING"
	ScopeStatusArchived   ScopeStatusType = "ARCHIVED"
)

// ScopeOfWork is a named document container. Deletion is a tombstone
// (DeletedAt set); rows are never physically removed.
type ScopeOfWork struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Status        ScopeStatusType `json:"status"`
	ClientID      *uuid.UUID      `json:"client_id,omitempty"`
	ServiceID     *uuid.UUID      `json:"service_id,omitempty"`
	SourceScopeID *uuid.UUID      `json:"source_scope_id,omitempty"`
	CreatedBy     uuid.UUID       `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     *time.Time      `json:"deleted_at,omitempty"`
	Versioned
}

func (s *ScopeOfWork) GetID() string { return s.ID.String() }

// ScopeOfWorkProperty associates one scope with one property. Hard-deleted on
// detach; its versions cascade.
type ScopeOfWorkProperty struct {
	ID            uuid.UUID `json:"id"`
	ScopeOfWorkID uuid.UUID `json:"scope_of_work_id"`
	PropertyID    uuid.UUID `json:"property_id"`
	CreatedAt     time.Time `json:"created_at"`
	ModifiedAt    time.Time `json:"modified_at"`
}
