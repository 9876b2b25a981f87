package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/procurehub/procurement-service/internal/models"
)

type ContractRepository interface {
	Create(ctx context.Context, c *models.Contract) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Contract, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]*models.Contract, error)
	ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]*models.Contract, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Contract) error) (*models.Contract, error)

	// ExpireEnded flips ACTIVE contracts whose end date has passed to EXPIRED
	// and returns how many rows changed. Run by the nightly sweep.
	ExpireEnded(ctx context.Context, asOf time.Time) (int64, error)
}

type contractRepo struct {
	db   DB
	base *BaseVersionedRepo[*models.Contract]
}

func NewContractRepository(db DB) ContractRepository {
	r := &contractRepo{db: db}
	r.base = NewBaseRepo(db, baseSelectContract()+" WHERE c.id=$1", scanContract)
	return r
}

func (r *contractRepo) Create(ctx context.Context, c *models.Contract) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO contracts (
            id, vendor_id, property_id, scope_of_work_id, status,
            annual_value, start_date, end_date, created_by,
            created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9, NOW(), NOW(), 1)
    `,
		c.ID, c.VendorID, c.PropertyID, c.ScopeOfWorkID, c.Status,
		c.AnnualValue, c.StartDate, c.EndDate, c.CreatedBy,
	)
	return err
}

func (r *contractRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Contract, error) {
	row := r.db.QueryRow(ctx, baseSelectContract()+" WHERE c.id=$1", id)
	return scanContract(row)
}

func (r *contractRepo) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]*models.Contract, error) {
	return r.list(ctx, baseSelectContract()+" WHERE c.vendor_id=$1 ORDER BY c.end_date DESC", vendorID)
}

func (r *contractRepo) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]*models.Contract, error) {
	return r.list(ctx, baseSelectContract()+" WHERE c.property_id=$1 ORDER BY c.end_date DESC", propertyID)
}

func (r *contractRepo) list(ctx context.Context, query string, args ...interface{}) ([]*models.Contract, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *contractRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Contract) error) (*models.Contract, error) {
	if err := r.base.UpdateWithRetry(ctx, id.String(), mutate, r.updateIfVersion); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *contractRepo) ExpireEnded(ctx context.Context, asOf time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
        UPDATE contracts
        SET status='EXPIRED', updated_at=NOW(), row_version=row_version+1
        WHERE status='ACTIVE' AND end_date < $1
    `, asOf)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *contractRepo) updateIfVersion(ctx context.Context, c *models.Contract, expectedVersion int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
        UPDATE contracts
        SET status=$1, annual_value=$2, start_date=$3, end_date=$4,
            updated_at=NOW(), row_version=row_version+1
        WHERE id=$5 AND row_version=$6
    `, c.Status, c.AnnualValue, c.StartDate, c.EndDate, c.ID, expectedVersion)
}

func baseSelectContract() string {
	return `
        SELECT
            c.id, c.vendor_id, c.property_id, c.scope_of_work_id, c.status,
            c.annual_value, c.start_date, c.end_date, c.created_by,
            c.created_at, c.updated_at, c.row_version
        FROM contracts c
    `
}

func scanContract(row pgx.Row) (*models.Contract, error) {
	var c models.Contract
	err := row.Scan(
		&c.ID, &c.VendorID, &c.PropertyID, &c.ScopeOfWorkID, &c.Status,
		&c.AnnualValue, &c.StartDate, &c.EndDate, &c.CreatedBy,
		&c.CreatedAt, &c.UpdatedAt, &c.RowVersion,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
