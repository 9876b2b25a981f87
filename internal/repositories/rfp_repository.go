package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/procurehub/procurement-service/internal/models"
)

type RFPRepository interface {
	Create(ctx context.Context, r *models.RFP) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.RFP, error)
	ListByStatus(ctx context.Context, status models.RFPStatusType, limit, offset int) ([]*models.RFP, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.RFP) error) (*models.RFP, error)

	AddVendor(ctx context.Context, rv *models.RFPVendor) error
	ListVendors(ctx context.Context, rfpID uuid.UUID) ([]*models.RFPVendor, error)
}

type rfpRepo struct {
	db   DB
	base *BaseVersionedRepo[*models.RFP]
}

func NewRFPRepository(db DB) RFPRepository {
	r := &rfpRepo{db: db}
	r.base = NewBaseRepo(db, baseSelectRFP()+" WHERE r.id=$1", scanRFP)
	return r
}

func (r *rfpRepo) Create(ctx context.Context, m *models.RFP) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO rfps (
            id, title, description, property_id, scope_of_work_id,
            status, bid_due_at, created_by, created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8, NOW(), NOW(), 1)
    `,
		m.ID, m.Title, m.Description, m.PropertyID, m.ScopeOfWorkID,
		m.Status, m.BidDueAt, m.CreatedBy,
	)
	return err
}

func (r *rfpRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.RFP, error) {
	row := r.db.QueryRow(ctx, baseSelectRFP()+" WHERE r.id=$1", id)
	return scanRFP(row)
}

func (r *rfpRepo) ListByStatus(ctx context.Context, status models.RFPStatusType, limit, offset int) ([]*models.RFP, error) {
	query := baseSelectRFP() + " WHERE r.status=$1 ORDER BY r.bid_due_at LIMIT $2 OFFSET $3"
	rows, err := r.db.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.RFP
	for rows.Next() {
		m, err := scanRFP(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *rfpRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.RFP) error) (*models.RFP, error) {
	if err := r.base.UpdateWithRetry(ctx, id.String(), mutate, r.updateIfVersion); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *rfpRepo) AddVendor(ctx context.Context, rv *models.RFPVendor) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO rfp_vendors (id, rfp_id, vendor_id, match_type, invited_at)
        VALUES ($1,$2,$3,$4, NOW())
        ON CONFLICT (rfp_id, vendor_id) DO NOTHING
    `, rv.ID, rv.RFPID, rv.VendorID, rv.MatchType)
	return err
}

func (r *rfpRepo) ListVendors(ctx context.Context, rfpID uuid.UUID) ([]*models.RFPVendor, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, rfp_id, vendor_id, match_type, invited_at
        FROM rfp_vendors
        WHERE rfp_id=$1
        ORDER BY invited_at
    `, rfpID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.RFPVendor
	for rows.Next() {
		var rv models.RFPVendor
		if err := rows.Scan(&rv.ID, &rv.RFPID, &rv.VendorID, &rv.MatchType, &rv.InvitedAt); err != nil {
			return nil, err
		}
		out = append(out, &rv)
	}
	return out, rows.Err()
}

func (r *rfpRepo) updateIfVersion(ctx context.Context, m *models.RFP, expectedVersion int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
        UPDATE rfps
        SET title=$1, description=$2, status=$3, bid_due_at=$4,
            updated_at=NOW(), row_version=row_version+1
        WHERE id=$5 AND row_version=$6
    `, m.Title, m.Description, m.Status, m.BidDueAt, m.ID, expectedVersion)
}

func baseSelectRFP() string {
	return `
        SELECT
            r.id, r.title, r.description, r.property_id, r.scope_of_work_id,
            r.status, r.bid_due_at, r.created_by, r.created_at, r.updated_at,
            r.row_version
        FROM rfps r
    `
}

func scanRFP(row pgx.Row) (*models.RFP, error) {
	var m models.RFP
	err := row.Scan(
		&m.ID, &m.Title, &m.Description, &m.PropertyID, &m.ScopeOfWorkID,
		&m.Status, &m.BidDueAt, &m.CreatedBy, &m.CreatedAt, &m.UpdatedAt,
		&m.RowVersion,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}
