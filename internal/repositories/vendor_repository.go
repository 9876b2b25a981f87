package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/procurehub/procurement-service/internal/models"
	"github.com/procurehub/procurement-service/internal/utils"
)

/* ------------------------------------------------------------------
   Public interface
------------------------------------------------------------------ */

type VendorRepository interface {
	Create(ctx context.Context, v *models.Vendor) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
	List(ctx context.Context) ([]*models.Vendor, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Vendor) error) (*models.Vendor, error)

	AddServiceableArea(ctx context.Context, a *models.ServiceableArea) error
	RemoveServiceableArea(ctx context.Context, vendorID, areaID uuid.UUID) error
	ListServiceableAreas(ctx context.Context, vendorID uuid.UUID) ([]*models.ServiceableArea, error)

	// ListCandidates returns vendors whose flags or serviceable areas satisfy
	// the given predicate. The predicate is built by the matcher; the repo
	// only knows how to run it against the vendors table.
	ListCandidates(ctx context.Context, pred sq.Sqlizer) ([]*models.Vendor, error)
}

/* ------------------------------------------------------------------
   Implementation
------------------------------------------------------------------ */

type vendorRepo struct {
	db   DB
	base *BaseVersionedRepo[*models.Vendor]
}

func NewVendorRepository(db DB) VendorRepository {
	r := &vendorRepo{db: db}
	r.base = NewBaseRepo(db, baseSelectVendor()+" WHERE v.id=$1", scanVendor)
	return r
}

func (r *vendorRepo) Create(ctx context.Context, v *models.Vendor) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO vendors (
            id, name, contact_email, contact_phone,
            covers_continental_us, interested_in_outside_rfps,
            office_latitude, office_longitude,
            created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8, NOW(), NOW(), 1)
    `,
		v.ID, v.Name, v.ContactEmail, v.ContactPhone,
		v.CoversContinentalUS, v.InterestedInOutsideRFPs,
		v.OfficeLatitude, v.OfficeLongitude,
	)
	return err
}

func (r *vendorRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	row := r.db.QueryRow(ctx, baseSelectVendor()+" WHERE v.id=$1", id)
	v, err := scanVendor(row)
	if err != nil || v == nil {
		return v, err
	}
	v.ServiceableAreas, err = r.ListServiceableAreas(ctx, v.ID)
	return v, err
}

func (r *vendorRepo) List(ctx context.Context) ([]*models.Vendor, error) {
	rows, err := r.db.Query(ctx, baseSelectVendor()+" ORDER BY v.name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectVendors(rows)
}

func (r *vendorRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Vendor) error) (*models.Vendor, error) {
	if err := r.base.UpdateWithRetry(ctx, id.String(), mutate, r.updateIfVersion); err != nil {
		if err == pgx.ErrNoRows {
			return nil, utils.ErrVendorNotFound
		}
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *vendorRepo) AddServiceableArea(ctx context.Context, a *models.ServiceableArea) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO serviceable_areas (id, vendor_id, state_id, city_id, county_id)
        VALUES ($1,$2,$3,$4,$5)
    `, a.ID, a.VendorID, a.StateID, a.CityID, a.CountyID)
	if isUniqueViolation(err) {
		return utils.ErrDuplicateArea
	}
	return err
}

func (r *vendorRepo) RemoveServiceableArea(ctx context.Context, vendorID, areaID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
        DELETE FROM serviceable_areas WHERE id=$1 AND vendor_id=$2
    `, areaID, vendorID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrVendorNotFound
	}
	return nil
}

func (r *vendorRepo) ListServiceableAreas(ctx context.Context, vendorID uuid.UUID) ([]*models.ServiceableArea, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, vendor_id, state_id, city_id, county_id
        FROM serviceable_areas
        WHERE vendor_id=$1
    `, vendorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ServiceableArea
	for rows.Next() {
		var a models.ServiceableArea
		if err := rows.Scan(&a.ID, &a.VendorID, &a.StateID, &a.CityID, &a.CountyID); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

func (r *vendorRepo) ListCandidates(ctx context.Context, pred sq.Sqlizer) ([]*models.Vendor, error) {
	b := sq.Select(
		"v.id", "v.name", "v.contact_email", "v.contact_phone",
		"v.covers_continental_us", "v.interested_in_outside_rfps",
		"v.office_latitude", "v.office_longitude",
		"v.created_at", "v.updated_at", "v.row_version",
	).
		From("vendors v").
		Where(pred).
		OrderBy("v.name").
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building vendor candidate query: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vendors, err := collectVendors(rows)
	if err != nil {
		return nil, err
	}
	for _, v := range vendors {
		v.ServiceableAreas, err = r.ListServiceableAreas(ctx, v.ID)
		if err != nil {
			return nil, err
		}
	}
	return vendors, nil
}

func (r *vendorRepo) updateIfVersion(ctx context.Context, v *models.Vendor, expectedVersion int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
        UPDATE vendors
        SET name=$1, contact_email=$2, contact_phone=$3,
            covers_continental_us=$4, interested_in_outside_rfps=$5,
            office_latitude=$6, office_longitude=$7,
            updated_at=NOW(), row_version=row_version+1
        WHERE id=$8 AND row_version=$9
    `,
		v.Name, v.ContactEmail, v.ContactPhone,
		v.CoversContinentalUS, v.InterestedInOutsideRFPs,
		v.OfficeLatitude, v.OfficeLongitude,
		v.ID, expectedVersion,
	)
}

/* ------------------------------------------------------------------
   Row helpers
------------------------------------------------------------------ */

func baseSelectVendor() string {
	return `
        SELECT
            v.id, v.name, v.contact_email, v.contact_phone,
            v.covers_continental_us, v.interested_in_outside_rfps,
            v.office_latitude, v.office_longitude,
            v.created_at, v.updated_at, v.row_version
        FROM vendors v
    `
}

func scanVendor(row pgx.Row) (*models.Vendor, error) {
	var v models.Vendor
	err := row.Scan(
		&v.ID, &v.Name, &v.ContactEmail, &v.ContactPhone,
		&v.CoversContinentalUS, &v.InterestedInOutsideRFPs,
		&v.OfficeLatitude, &v.OfficeLongitude,
		&v.CreatedAt, &v.UpdatedAt, &v.RowVersion,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func collectVendors(rows pgx.Rows) ([]*models.Vendor, error) {
	var out []*models.Vendor
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
