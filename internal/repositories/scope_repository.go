package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/procurehub/procurement-service/internal/models"
	"github.com/procurehub/procurement-service/internal/utils"
)

/* ------------------------------------------------------------------
   Public interface
------------------------------------------------------------------ */

type ScopeRepository interface {
	Create(ctx context.Context, s *models.ScopeOfWork) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ScopeOfWork, error)
	ListByClient(ctx context.Context, clientID uuid.UUID, includeArchived bool) ([]*models.ScopeOfWork, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.ScopeOfWork) error) (*models.ScopeOfWork, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error

	AttachProperty(ctx context.Context, sp *models.ScopeOfWorkProperty) error
	DetachProperty(ctx context.Context, scopeID, propertyID uuid.UUID) error
	GetPropertyJoin(ctx context.Context, id uuid.UUID) (*models.ScopeOfWorkProperty, error)
	FindPropertyJoin(ctx context.Context, scopeID, propertyID uuid.UUID) (*models.ScopeOfWorkProperty, error)
	ListPropertyJoins(ctx context.Context, scopeID uuid.UUID) ([]*models.ScopeOfWorkProperty, error)
}

/* ------------------------------------------------------------------
   Implementation
------------------------------------------------------------------ */

type scopeRepo struct {
	db   DB
	base *BaseVersionedRepo[*models.ScopeOfWork]
}

func NewScopeRepository(db DB) ScopeRepository {
	r := &scopeRepo{db: db}
	r.base = NewBaseRepo(db, baseSelectScope()+" WHERE s.id=$1 AND s.deleted_at IS NULL", scanScope)
	return r
}

func (r *scopeRepo) Create(ctx context.Context, s *models.ScopeOfWork) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO scope_of_works (
            id, name, status, client_id, service_id, source_scope_id,
            created_by, created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5,$6,$7, NOW(), NOW(), 1)
    `,
		s.ID, s.Name, s.Status, s.ClientID, s.ServiceID, s.SourceScopeID, s.CreatedBy,
	)
	if isUniqueViolation(err) {
		return utils.ErrDuplicateScopeName
	}
	return err
}

func (r *scopeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ScopeOfWork, error) {
	row := r.db.QueryRow(ctx, baseSelectScope()+" WHERE s.id=$1 AND s.deleted_at IS NULL", id)
	return scanScope(row)
}

func (r *scopeRepo) ListByClient(ctx context.Context, clientID uuid.UUID, includeArchived bool) ([]*models.ScopeOfWork, error) {
	query := baseSelectScope() + " WHERE s.client_id=$1 AND s.deleted_at IS NULL"
	if !includeArchived {
		query += " AND s.status <> 'ARCHIVED'"
	}
	query += " ORDER BY s.updated_at DESC"

	rows, err := r.db.Query(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ScopeOfWork
	for rows.Next() {
		s, err := scanScope(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *scopeRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.ScopeOfWork) error) (*models.ScopeOfWork, error) {
	if err := r.base.UpdateWithRetry(ctx, id.String(), mutate, r.updateIfVersion); err != nil {
		if err == pgx.ErrNoRows {
			return nil, utils.ErrScopeNotFound
		}
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *scopeRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE scope_of_works
        SET deleted_at=NOW(), updated_at=NOW()
        WHERE id=$1 AND deleted_at IS NULL
    `, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrScopeNotFound
	}
	return nil
}

func (r *scopeRepo) AttachProperty(ctx context.Context, sp *models.ScopeOfWorkProperty) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO scope_of_work_properties (
            id, scope_of_work_id, property_id, created_at, modified_at
        ) VALUES ($1,$2,$3, NOW(), NOW())
    `, sp.ID, sp.ScopeOfWorkID, sp.PropertyID)
	if isUniqueViolation(err) {
		return utils.ErrDuplicateArea
	}
	return err
}

func (r *scopeRepo) DetachProperty(ctx context.Context, scopeID, propertyID uuid.UUID) error {
	// Versions cascade through the FK; the blobs they point to are kept and
	// swept by the audit job.
	tag, err := r.db.Exec(ctx, `
        DELETE FROM scope_of_work_properties
        WHERE scope_of_work_id=$1 AND property_id=$2
    `, scopeID, propertyID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrPropertyNotFound
	}
	return nil
}

func (r *scopeRepo) GetPropertyJoin(ctx context.Context, id uuid.UUID) (*models.ScopeOfWorkProperty, error) {
	row := r.db.QueryRow(ctx, baseSelectPropertyJoin()+" WHERE sp.id=$1", id)
	return scanPropertyJoin(row)
}

func (r *scopeRepo) FindPropertyJoin(ctx context.Context, scopeID, propertyID uuid.UUID) (*models.ScopeOfWorkProperty, error) {
	row := r.db.QueryRow(ctx, baseSelectPropertyJoin()+`
        WHERE sp.scope_of_work_id=$1 AND sp.property_id=$2
    `, scopeID, propertyID)
	return scanPropertyJoin(row)
}

func (r *scopeRepo) ListPropertyJoins(ctx context.Context, scopeID uuid.UUID) ([]*models.ScopeOfWorkProperty, error) {
	rows, err := r.db.Query(ctx, baseSelectPropertyJoin()+`
        WHERE sp.scope_of_work_id=$1 ORDER BY sp.created_at
    `, scopeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ScopeOfWorkProperty
	for rows.Next() {
		sp, err := scanPropertyJoin(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

/* ------------------------------------------------------------------
   Optimistic-locking plumbing
------------------------------------------------------------------ */

func (r *scopeRepo) updateIfVersion(ctx context.Context, s *models.ScopeOfWork, expectedVersion int64) (pgconn.CommandTag, error) {
	tag, err := r.db.Exec(ctx, `
        UPDATE scope_of_works
        SET name=$1, status=$2, client_id=$3, service_id=$4,
            updated_at=NOW(), row_version=row_version+1
        WHERE id=$5 AND row_version=$6 AND deleted_at IS NULL
    `, s.Name, s.Status, s.ClientID, s.ServiceID, s.ID, expectedVersion)
	if isUniqueViolation(err) {
		return nil, utils.ErrDuplicateScopeName
	}
	return tag, err
}

/* ------------------------------------------------------------------
   Row helpers
------------------------------------------------------------------ */

func baseSelectScope() string {
	return `
        SELECT
            s.id, s.name, s.status, s.client_id, s.service_id,
            s.source_scope_id, s.created_by, s.created_at, s.updated_at,
            s.deleted_at, s.row_version
        FROM scope_of_works s
    `
}

func scanScope(row pgx.Row) (*models.ScopeOfWork, error) {
	var s models.ScopeOfWork
	err := row.Scan(
		&s.ID, &s.Name, &s.Status, &s.ClientID, &s.ServiceID,
		&s.SourceScopeID, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
		&s.DeletedAt, &s.RowVersion,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func baseSelectPropertyJoin() string {
	return `
        SELECT sp.id, sp.scope_of_work_id, sp.property_id, sp.created_at, sp.modified_at
        FROM scope_of_work_properties sp
    `
}

func scanPropertyJoin(row pgx.Row) (*models.ScopeOfWorkProperty, error) {
	var sp models.ScopeOfWorkProperty
	err := row.Scan(&sp.ID, &sp.ScopeOfWorkID, &sp.PropertyID, &sp.CreatedAt, &sp.ModifiedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &sp, nil
}

// isUniqueViolation reports whether err is a Postgres unique_violation.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
