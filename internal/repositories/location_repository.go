package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/procurehub/procurement-service/internal/models"
)

// LocationRepository serves the state/city/county reference tables. These are
// seed data; the service only reads them.
type LocationRepository interface {
	GetStateByID(ctx context.Context, id uuid.UUID) (*models.State, error)
	GetStateByCode(ctx context.Context, code string) (*models.State, error)
	ListStates(ctx context.Context) ([]*models.State, error)
	GetCityByID(ctx context.Context, id uuid.UUID) (*models.City, error)
	GetCountyByID(ctx context.Context, id uuid.UUID) (*models.County, error)
	ListCitiesByState(ctx context.Context, stateID uuid.UUID) ([]*models.City, error)
	ListCountiesByState(ctx context.Context, stateID uuid.UUID) ([]*models.County, error)
}

type locationRepo struct{ db DB }

func NewLocationRepository(db DB) LocationRepository {
	return &locationRepo{db: db}
}

func (r *locationRepo) GetStateByID(ctx context.Context, id uuid.UUID) (*models.State, error) {
	row := r.db.QueryRow(ctx, `SELECT id, code, name FROM states WHERE id=$1`, id)
	return scanState(row)
}

func (r *locationRepo) GetStateByCode(ctx context.Context, code string) (*models.State, error) {
	row := r.db.QueryRow(ctx, `SELECT id, code, name FROM states WHERE code=$1`, code)
	return scanState(row)
}

func (r *locationRepo) ListStates(ctx context.Context) ([]*models.State, error) {
	rows, err := r.db.Query(ctx, `SELECT id, code, name FROM states ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.State
	for rows.Next() {
		s, err := scanState(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *locationRepo) GetCityByID(ctx context.Context, id uuid.UUID) (*models.City, error) {
	row := r.db.QueryRow(ctx, `SELECT id, state_id, name FROM cities WHERE id=$1`, id)
	var c models.City
	err := row.Scan(&c.ID, &c.StateID, &c.Name)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *locationRepo) GetCountyByID(ctx context.Context, id uuid.UUID) (*models.County, error) {
	row := r.db.QueryRow(ctx, `SELECT id, state_id, name FROM counties WHERE id=$1`, id)
	var c models.County
	err := row.Scan(&c.ID, &c.StateID, &c.Name)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *locationRepo) ListCitiesByState(ctx context.Context, stateID uuid.UUID) ([]*models.City, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, state_id, name FROM cities WHERE state_id=$1 ORDER BY name
    `, stateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.City
	for rows.Next() {
		var c models.City
		if err := rows.Scan(&c.ID, &c.StateID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (r *locationRepo) ListCountiesByState(ctx context.Context, stateID uuid.UUID) ([]*models.County, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, state_id, name FROM counties WHERE state_id=$1 ORDER BY name
    `, stateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.County
	for rows.Next() {
		var c models.County
		if err := rows.Scan(&c.ID, &c.StateID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func scanState(row pgx.Row) (*models.State, error) {
	var s models.State
	err := row.Scan(&s.ID, &s.Code, &s.Name)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}
