package models

import (
	"time"

	"github.com/google/uuid"
)

type RFPStatusType string

const (
	RFPStatusDraft     RFPStatusType = "DRAFT"
	RFPStatusPublished RFPStatusType = "PUBLISHED"
	RFPStatusClosed    RFPStatusType = "CLOSED"
)

// RFP is a request-for-proposal issued for a property, optionally referencing
// a scope-of-work that describes the requested service.
type RFP struct {
	ID            uuid.UUID     `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	PropertyID    uuid.UUID     `json:"property_id"`
	ScopeOfWorkID *uuid.UUID    `json:"scope_of_work_id,omitempty"`
	Status        RFPStatusType `json:"status"`
	BidDueAt      time.Time     `json:"bid_due_at"`
	CreatedBy     uuid.UUID     `json:"created_by"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	Versioned
}

func (r *RFP) GetID() string { return r.ID.String() }

// RFPVendor records a vendor invited to an RFP, with the coverage tier the
// matcher assigned at publish time.
type RFPVendor struct {
	ID        uuid.UUID `json:"id"`
	RFPID     uuid.UUID `json:"rfp_id"`
	VendorID  uuid.UUID `json:"vendor_id"`
	MatchType string    `json:"match_type"`
	InvitedAt time.Time `json:"invited_at"`
}
