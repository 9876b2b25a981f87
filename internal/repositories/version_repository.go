package repositories

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/procurehub/procurement-service/internal/models"
)

/* ------------------------------------------------------------------
   Public interface
------------------------------------------------------------------ */

// VersionFilter narrows ListVersions. Zero values mean "no constraint".
type VersionFilter struct {
	ScopeOfWorkID         uuid.UUID
	ScopeOfWorkPropertyID *uuid.UUID
	Status                models.VersionStatusType
	CurrentOnly           bool
	UploadedAfter         *time.Time
	UploadedBefore        *time.Time

	// Search matches file name, scope name, or creator name (ILIKE).
	Search string

	Limit  int
	Offset int
}

// ForkInput is everything ForkVersionAtomic needs to mint a new revision.
type ForkInput struct {
	NewVersionID          uuid.UUID
	ScopeOfWorkID         uuid.UUID
	ScopeOfWorkPropertyID *uuid.UUID
	ParentVersionID       uuid.UUID
	FileName              string
	ContentKey            string
	CreatedBy             uuid.UUID
}

type VersionRepository interface {
	Create(ctx context.Context, v *models.ScopeOfWorkVersion) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ScopeOfWorkVersion, error)
	List(ctx context.Context, f VersionFilter) ([]*models.ScopeOfWorkVersion, error)

	// MaxVersionNumber returns the highest version number in the lineage, or
	// zero when the lineage has no versions yet.
	MaxVersionNumber(ctx context.Context, scopeID uuid.UUID, propertyJoinID *uuid.UUID) (int, error)

	// FindCurrentDraftByUser returns the still-current version forked from
	// parentID by userID in the same lineage, if one exists.
	FindCurrentDraftByUser(ctx context.Context, scopeID uuid.UUID, propertyJoinID *uuid.UUID, parentID, userID uuid.UUID) (*models.ScopeOfWorkVersion, error)

	// ForkVersionAtomic demotes every current version in the lineage,
	// allocates the next version number, inserts the new row as current in
	// PROCESSING status, and (when property-scoped) inserts the
	// property-version join — all in one transaction. The object-storage
	// upload is the caller's business and happens after commit; the caller
	// flips the row to COMPLETED once the blob has landed.
	ForkVersionAtomic(ctx context.Context, in ForkInput) (*models.ScopeOfWorkVersion, error)

	// Touch updates the row's modifier and updated_at without touching
	// numbers or current flags (update-in-place saves).
	Touch(ctx context.Context, id uuid.UUID, modifiedBy uuid.UUID) error
	TouchPropertyJoin(ctx context.Context, versionID uuid.UUID) error

	SetStatus(ctx context.Context, id uuid.UUID, status models.VersionStatusType) error
	ListStalledProcessing(ctx context.Context, olderThan time.Time) ([]*models.ScopeOfWorkVersion, error)
}

/* ------------------------------------------------------------------
   Implementation
------------------------------------------------------------------ */

type versionRepo struct{ db DB }

func NewVersionRepository(db DB) VersionRepository {
	return &versionRepo{db: db}
}

func (r *versionRepo) Create(ctx context.Context, v *models.ScopeOfWorkVersion) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO scope_of_work_versions (
            id, scope_of_work_id, scope_of_work_property_id,
            version_number, file_name, content_key, status, is_current,
            parent_version_id, created_by, uploaded_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10, NOW(), NOW())
    `,
		v.ID,
		v.ScopeOfWorkID,
		v.ScopeOfWorkPropertyID,
		v.VersionNumber,
		v.FileName,
		v.ContentKey,
		v.Status,
		v.IsCurrent,
		v.ParentVersionID,
		v.CreatedBy,
	)
	return err
}

func (r *versionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ScopeOfWorkVersion, error) {
	row := r.db.QueryRow(ctx, baseSelectVersion()+" WHERE v.id=$1", id)
	return scanVersion(row)
}

func (r *versionRepo) List(ctx context.Context, f VersionFilter) ([]*models.ScopeOfWorkVersion, error) {
	b := sq.Select(
		"v.id", "v.scope_of_work_id", "v.scope_of_work_property_id",
		"v.version_number", "v.file_name", "v.content_key", "v.status",
		"v.is_current", "v.parent_version_id", "v.created_by", "v.modified_by",
		"v.uploaded_at", "v.updated_at", "s.name",
	).
		From("scope_of_work_versions v").
		Join("scope_of_works s ON s.id = v.scope_of_work_id").
		Where(sq.Eq{"v.scope_of_work_id": f.ScopeOfWorkID}).
		OrderBy("v.version_number DESC").
		PlaceholderFormat(sq.Dollar)

	if f.ScopeOfWorkPropertyID != nil {
		b = b.Where(sq.Eq{"v.scope_of_work_property_id": *f.ScopeOfWorkPropertyID})
	} else {
		b = b.Where("v.scope_of_work_property_id IS NULL")
	}
	if f.Status != "" {
		b = b.Where(sq.Eq{"v.status": f.Status})
	}
	if f.CurrentOnly {
		b = b.Where(sq.Eq{"v.is_current": true})
	}
	if f.UploadedAfter != nil {
		b = b.Where(sq.GtOrEq{"v.uploaded_at": *f.UploadedAfter})
	}
	if f.UploadedBefore != nil {
		b = b.Where(sq.LtOrEq{"v.uploaded_at": *f.UploadedBefore})
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		b = b.Where(sq.Or{
			sq.ILike{"v.file_name": pattern},
			sq.ILike{"s.name": pattern},
			sq.Expr("EXISTS (SELECT 1 FROM users u WHERE u.id = v.created_by AND u.full_name ILIKE ?)", pattern),
		})
	}
	if f.Limit > 0 {
		b = b.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		b = b.Offset(uint64(f.Offset))
	}

	sqlStr, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building version list query: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ScopeOfWorkVersion
	for rows.Next() {
		v, err := scanVersionWithScopeName(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *versionRepo) MaxVersionNumber(ctx context.Context, scopeID uuid.UUID, propertyJoinID *uuid.UUID) (int, error) {
	var max int
	err := r.db.QueryRow(ctx, `
        SELECT COALESCE(MAX(version_number), 0)
        FROM scope_of_work_versions
        WHERE scope_of_work_id=$1
          AND scope_of_work_property_id IS NOT DISTINCT FROM $2
    `, scopeID, propertyJoinID).Scan(&max)
	return max, err
}

func (r *versionRepo) FindCurrentDraftByUser(
	ctx context.Context,
	scopeID uuid.UUID,
	propertyJoinID *uuid.UUID,
	parentID, userID uuid.UUID,
) (*models.ScopeOfWorkVersion, error) {
	row := r.db.QueryRow(ctx, baseSelectVersion()+`
        WHERE v.scope_of_work_id=$1
          AND v.scope_of_work_property_id IS NOT DISTINCT FROM $2
          AND v.parent_version_id=$3
          AND v.created_by=$4
          AND v.is_current
    `, scopeID, propertyJoinID, parentID, userID)
	return scanVersion(row)
}

func (r *versionRepo) ForkVersionAtomic(ctx context.Context, in ForkInput) (*models.ScopeOfWorkVersion, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	// Lock the lineage so concurrent forks serialize on the demote+insert.
	_, err = tx.Exec(ctx, `
        SELECT id FROM scope_of_work_versions
        WHERE scope_of_work_id=$1
          AND scope_of_work_property_id IS NOT DISTINCT FROM $2
        FOR UPDATE
    `, in.ScopeOfWorkID, in.ScopeOfWorkPropertyID)
	if err != nil {
		return nil, err
	}

	// Demote whatever is current in this lineage.
	if in.ScopeOfWorkPropertyID != nil {
		_, err = tx.Exec(ctx, `
            UPDATE scope_of_work_property_versions
            SET is_current=false, modified_at=NOW()
            WHERE scope_of_work_property_id=$1 AND is_current
        `, *in.ScopeOfWorkPropertyID)
		if err != nil {
			return nil, err
		}
	}
	_, err = tx.Exec(ctx, `
        UPDATE scope_of_work_versions
        SET is_current=false, updated_at=NOW()
        WHERE scope_of_work_id=$1
          AND scope_of_work_property_id IS NOT DISTINCT FROM $2
          AND is_current
    `, in.ScopeOfWorkID, in.ScopeOfWorkPropertyID)
	if err != nil {
		return nil, err
	}

	var maxNum int
	err = tx.QueryRow(ctx, `
        SELECT COALESCE(MAX(version_number), 0)
        FROM scope_of_work_versions
        WHERE scope_of_work_id=$1
          AND scope_of_work_property_id IS NOT DISTINCT FROM $2
    `, in.ScopeOfWorkID, in.ScopeOfWorkPropertyID).Scan(&maxNum)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
        INSERT INTO scope_of_work_versions (
            id, scope_of_work_id, scope_of_work_property_id,
            version_number, file_name, content_key, status, is_current,
            parent_version_id, created_by, uploaded_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,'PROCESSING',true,$7,$8, NOW(), NOW())
    `,
		in.NewVersionID,
		in.ScopeOfWorkID,
		in.ScopeOfWorkPropertyID,
		maxNum+1,
		in.FileName,
		in.ContentKey,
		in.ParentVersionID,
		in.CreatedBy,
	)
	if err != nil {
		return nil, err
	}

	if in.ScopeOfWorkPropertyID != nil {
		_, err = tx.Exec(ctx, `
            INSERT INTO scope_of_work_property_versions (
                id, scope_of_work_property_id, scope_of_work_version_id,
                is_current, created_at, modified_at
            ) VALUES ($1,$2,$3,true, NOW(), NOW())
        `, uuid.New(), *in.ScopeOfWorkPropertyID, in.NewVersionID)
		if err != nil {
			return nil, err
		}
	}

	row := tx.QueryRow(ctx, baseSelectVersion()+" WHERE v.id=$1", in.NewVersionID)
	created, err := scanVersion(row)
	if err != nil {
		return nil, err
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *versionRepo) Touch(ctx context.Context, id uuid.UUID, modifiedBy uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE scope_of_work_versions
        SET modified_by=$1, updated_at=NOW()
        WHERE id=$2
    `, modifiedBy, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *versionRepo) TouchPropertyJoin(ctx context.Context, versionID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
        UPDATE scope_of_work_property_versions
        SET modified_at=NOW()
        WHERE scope_of_work_version_id=$1
    `, versionID)
	return err
}

func (r *versionRepo) SetStatus(ctx context.Context, id uuid.UUID, status models.VersionStatusType) error {
	_, err := r.db.Exec(ctx, `
        UPDATE scope_of_work_versions SET status=$1, updated_at=NOW() WHERE id=$2
    `, status, id)
	return err
}

func (r *versionRepo) ListStalledProcessing(ctx context.Context, olderThan time.Time) ([]*models.ScopeOfWorkVersion, error) {
	rows, err := r.db.Query(ctx, baseSelectVersion()+`
        WHERE v.status='PROCESSING' AND v.uploaded_at < $1
        ORDER BY v.uploaded_at
    `, olderThan)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ScopeOfWorkVersion
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func baseSelectVersion() string {
	return `
        SELECT
            v.id, v.scope_of_work_id, v.scope_of_work_property_id,
            v.version_number, v.file_name, v.content_key, v.status,
            v.is_current, v.parent_version_id, v.created_by, v.modified_by,
            v.uploaded_at, v.updated_at
        FROM scope_of_work_versions v
    `
}

func scanVersion(row pgx.Row) (*models.ScopeOfWorkVersion, error) {
	var v models.ScopeOfWorkVersion
	err := row.Scan(
		&v.ID,
		&v.ScopeOfWorkID,
		&v.ScopeOfWorkPropertyID,
		&v.VersionNumber,
		&v.FileName,
		&v.ContentKey,
		&v.Status,
		&v.IsCurrent,
		&v.ParentVersionID,
		&v.CreatedBy,
		&v.ModifiedBy,
		&v.UploadedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func scanVersionWithScopeName(row pgx.Row) (*models.ScopeOfWorkVersion, error) {
	var v models.ScopeOfWorkVersion
	err := row.Scan(
		&v.ID,
		&v.ScopeOfWorkID,
		&v.ScopeOfWorkPropertyID,
		&v.VersionNumber,
		&v.FileName,
		&v.ContentKey,
		&v.Status,
		&v.IsCurrent,
		&v.ParentVersionID,
		&v.CreatedBy,
		&v.ModifiedBy,
		&v.UploadedAt,
		&v.UpdatedAt,
		&v.ScopeName,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}
