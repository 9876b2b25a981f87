package dtos

import (
	"time"

	"github.com/google/uuid"
)

type CreateRFPRequest struct {
	Title         string     `json:"title" validate:"required,min=1,max=255"`
	Description   string     `json:"description" validate:"max=5000"`
	PropertyID    uuid.UUID  `json:"property_id" validate:"required"`
	ScopeOfWorkID *uuid.UUID `json:"scope_of_work_id,omitempty"`
	DueDate       string     `json:"due_date" validate:"required,datetime=2006-01-02"`
	DueTime       string     `json:"due_time" validate:"required,datetime=15:04"`
}

type RFPDTO struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	PropertyID    uuid.UUID  `json:"property_id"`
	ScopeOfWorkID *uuid.UUID `json:"scope_of_work_id,omitempty"`
	Status        string     `json:"status"`
	BidDueAt      time.Time  `json:"bid_due_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

type PublishRFPResponse struct {
	RFP            RFPDTO           `json:"rfp"`
	InvitedVendors []VendorMatchDTO `json:"invited_vendors"`
}
