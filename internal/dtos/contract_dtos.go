package dtos

import (
	"time"

	"github.com/google/uuid"
)

type CreateContractRequest struct {
	VendorID      uuid.UUID  `json:"vendor_id" validate:"required"`
	PropertyID    uuid.UUID  `json:"property_id" validate:"required"`
	ScopeOfWorkID *uuid.UUID `json:"scope_of_work_id,omitempty"`
	AnnualValue   float64    `json:"annual_value" validate:"gte=0"`
	StartDate     time.Time  `json:"start_date" validate:"required"`
	EndDate       time.Time  `json:"end_date" validate:"required"`
}

type ContractDTO struct {
	ID            uuid.UUID  `json:"id"`
	VendorID      uuid.UUID  `json:"vendor_id"`
	PropertyID    uuid.UUID  `json:"property_id"`
	ScopeOfWorkID *uuid.UUID `json:"scope_of_work_id,omitempty"`
	Status        string     `json:"status"`
	AnnualValue   float64    `json:"annual_value"`
	StartDate     time.Time  `json:"start_date"`
	EndDate       time.Time  `json:"end_date"`
}
