package models

import (
	"time"

	"github.com/google/uuid"
)

type ContractStatusType string

const (
	ContractStatusActive     ContractStatusType = "ACTIVE"
	ContractStatusTerminated ContractStatusType = "TERMINATED"
	ContractStatusExpired    ContractStatusType = "EXPIRED"
)

// Contract captures the commercial terms under which a vendor services a
// property, optionally governed by a scope-of-work document.
type Contract struct {
	ID            uuid.UUID          `json:"id"`
	VendorID      uuid.UUID          `json:"vendor_id"`
	PropertyID    uuid.UUID          `json:"property_id"`
	ScopeOfWorkID *uuid.UUID         `json:"scope_of_work_id,omitempty"`
	Status        ContractStatusType `json:"status"`
	AnnualValue   float64            `json:"annual_value"`
	StartDate     time.Time          `json:"start_date"`
	EndDate       time.Time          `json:"end_date"`
	CreatedBy     uuid.UUID          `json:"created_by"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	Versioned
}

func (c *Contract) GetID() string { return c.ID.String() }
