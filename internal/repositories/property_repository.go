package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/procurehub/procurement-service/internal/models"
	"github.com/procurehub/procurement-service/internal/utils"
)

type PropertyRepository interface {
	Create(ctx context.Context, p *models.Property) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
	ListByManager(ctx context.Context, managerID uuid.UUID) ([]*models.Property, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Property) error) (*models.Property, error)
}

type propertyRepo struct {
	db   DB
	base *BaseVersionedRepo[*models.Property]
}

func NewPropertyRepository(db DB) PropertyRepository {
	r := &propertyRepo{db: db}
	r.base = NewBaseRepo(db, baseSelectProperty()+" WHERE p.id=$1", scanProperty)
	return r
}

func (r *propertyRepo) Create(ctx context.Context, p *models.Property) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO properties (
            id, manager_id, property_name, address, zip_code,
            state_id, city_id, county_id, timezone, latitude, longitude,
            created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11, NOW(), NOW(), 1)
    `,
		p.ID, p.ManagerID, p.PropertyName, p.Address, p.ZipCode,
		p.StateID, p.CityID, p.CountyID, p.TimeZone, p.Latitude, p.Longitude,
	)
	return err
}

func (r *propertyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	row := r.db.QueryRow(ctx, baseSelectProperty()+" WHERE p.id=$1", id)
	return scanProperty(row)
}

func (r *propertyRepo) ListByManager(ctx context.Context, managerID uuid.UUID) ([]*models.Property, error) {
	rows, err := r.db.Query(ctx, baseSelectProperty()+`
        WHERE p.manager_id=$1 ORDER BY p.property_name
    `, managerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *propertyRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Property) error) (*models.Property, error) {
	if err := r.base.UpdateWithRetry(ctx, id.String(), mutate, r.updateIfVersion); err != nil {
		if err == pgx.ErrNoRows {
			return nil, utils.ErrPropertyNotFound
		}
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *propertyRepo) updateIfVersion(ctx context.Context, p *models.Property, expectedVersion int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
        UPDATE properties
        SET property_name=$1, address=$2, zip_code=$3,
            state_id=$4, city_id=$5, county_id=$6,
            timezone=$7, latitude=$8, longitude=$9,
            updated_at=NOW(), row_version=row_version+1
        WHERE id=$10 AND row_version=$11
    `,
		p.PropertyName, p.Address, p.ZipCode,
		p.StateID, p.CityID, p.CountyID,
		p.TimeZone, p.Latitude, p.Longitude,
		p.ID, expectedVersion,
	)
}

func baseSelectProperty() string {
	return `
        SELECT
            p.id, p.manager_id, p.property_name, p.address, p.zip_code,
            p.state_id, p.city_id, p.county_id, p.timezone,
            p.latitude, p.longitude, p.created_at, p.updated_at, p.row_version
        FROM properties p
    `
}

func scanProperty(row pgx.Row) (*models.Property, error) {
	var p models.Property
	err := row.Scan(
		&p.ID, &p.ManagerID, &p.PropertyName, &p.Address, &p.ZipCode,
		&p.StateID, &p.CityID, &p.CountyID, &p.TimeZone,
		&p.Latitude, &p.Longitude, &p.CreatedAt, &p.UpdatedAt, &p.RowVersion,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
