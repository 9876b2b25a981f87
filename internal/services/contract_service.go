package services

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/procurehub/procurement-service/internal/models"
	"github.com/procurehub/procurement-service/internal/repositories"
	"github.com/procurehub/procurement-service/internal/utils"
)

type ContractService struct {
	contracts repositories.ContractRepository
}

func NewContractService(contracts repositories.ContractRepository) *ContractService {
	return &ContractService{contracts: contracts}
}

func (s *ContractService) CreateContract(ctx context.Context, c *models.Contract) (*models.Contract, error) {
	if !c.EndDate.After(c.StartDate) {
		return nil, &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       utils.ErrCodeValidation,
			Message:    "Contract end date must be after start date",
		}
	}
	c.ID = uuid.New()
	c.Status = models.ContractStatusActive
	if err := s.contracts.Create(ctx, c); err != nil {
		return nil, err
	}
	return s.contracts.GetByID(ctx, c.ID)
}

func (s *ContractService) GetContract(ctx context.Context, id uuid.UUID) (*models.Contract, error) {
	c, err := s.contracts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, &utils.AppError{
			StatusCode: http.StatusNotFound,
			Code:       utils.ErrCodeNotFound,
			Message:    "Contract not found",
		}
	}
	return c, nil
}

func (s *ContractService) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]*models.Contract, error) {
	return s.contracts.ListByVendor(ctx, vendorID)
}

func (s *ContractService) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]*models.Contract, error) {
	return s.contracts.ListByProperty(ctx, propertyID)
}

// TerminateContract ends a contract early, effective now.
func (s *ContractService) TerminateContract(ctx context.Context, id uuid.UUID) (*models.Contract, error) {
	return s.contracts.UpdateWithRetry(ctx, id, func(c *models.Contract) error {
		if c.Status != models.ContractStatusActive {
			return &utils.AppError{
				StatusCode: http.StatusConflict,
				Code:       utils.ErrCodeConflict,
				Message:    "Only active contracts can be terminated",
			}
		}
		c.Status = models.ContractStatusTerminated
		c.EndDate = time.Now().UTC()
		return nil
	})
}
