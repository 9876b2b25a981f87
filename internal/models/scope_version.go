package models

import (
	"time"

	"github.com/google/uuid"
)

// VersionStatusType tracks whether a revision's content has landed in object
// storage yet.
type VersionStatusType string

const (
	VersionStatusProcessing VersionStatusType = "PROCESSING"
	VersionStatusCompleted  VersionStatusType = "COMPLETED"
)

// ScopeOfWorkVersion is an immutable content revision of a scope-of-work.
//
// A lineage is the sequence of versions sharing (ScopeOfWorkID,
// ScopeOfWorkPropertyID) — property id nil means the library-level lineage.
// At most one version per lineage has IsCurrent set; ParentVersionID chains
// revisions for display only and carries no ownership semantics.
type ScopeOfWorkVersion struct {
	ID                    uuid.UUID         `json:"id"`
	ScopeOfWorkID         uuid.UUID         `json:"scope_of_work_id"`
	ScopeOfWorkPropertyID *uuid.UUID        `json:"scope_of_work_property_id,omitempty"`
	VersionNumber         int               `json:"version_number"`
	FileName              string            `json:"file_name"`
	ContentKey            *string           `json:"content_key,omitempty"`
	Status                VersionStatusType `json:"status"`
	IsCurrent             bool              `json:"is_current"`
	ParentVersionID       *uuid.UUID        `json:"parent_version_id,omitempty"`
	CreatedBy             uuid.UUID         `json:"created_by"`
	ModifiedBy            *uuid.UUID        `json:"modified_by,omitempty"`
	UploadedAt            time.Time         `json:"uploaded_at"`
	UpdatedAt             time.Time         `json:"updated_at"`

	// Joined for list views; not a column on the versions table.
	ScopeName string `json:"scope_name,omitempty"`
}

// ScopeOfWorkPropertyVersion binds a version to a property attachment. The
// join carries its own current pointer: a shared scope can have a per-property
// current version distinct from the library-level one.
type ScopeOfWorkPropertyVersion struct {
	ID                    uuid.UUID `json:"id"`
	ScopeOfWorkPropertyID uuid.UUID `json:"scope_of_work_property_id"`
	ScopeOfWorkVersionID  uuid.UUID `json:"scope_of_work_version_id"`
	IsCurrent             bool      `json:"is_current"`
	CreatedAt             time.Time `json:"created_at"`
	ModifiedAt            time.Time `json:"modified_at"`
}
