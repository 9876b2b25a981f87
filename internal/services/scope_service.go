package services

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/procurehub/procurement-service/internal/models"
	"github.com/procurehub/procurement-service/internal/repositories"
	"github.com/procurehub/procurement-service/internal/storage"
	"github.com/procurehub/procurement-service/internal/utils"
)

type ScopeService struct {
	scopes   repositories.ScopeRepository
	versions repositories.VersionRepository
	store    storage.ObjectStore
}

func NewScopeService(
	scopes repositories.ScopeRepository,
	versions repositories.VersionRepository,
	store storage.ObjectStore,
) *ScopeService {
	return &ScopeService{scopes: scopes, versions: versions, store: store}
}

/* ------------------------------------------------------------------
   CRUD
------------------------------------------------------------------ */

func (s *ScopeService) CreateScope(ctx context.Context, scope *models.ScopeOfWork) (*models.ScopeOfWork, error) {
	scope.ID = uuid.New()
	scope.Status = models.ScopeStatusActive
	if err := s.scopes.Create(ctx, scope); err != nil {
		if err == utils.ErrDuplicateScopeName {
			return nil, &utils.AppError{
				StatusCode: http.StatusConflict,
				Code:       utils.ErrCodeDuplicateScopeName,
				Message:    "A scope of work with this name already exists",
				Err:        err,
			}
		}
		return nil, err
	}
	return s.scopes.GetByID(ctx, scope.ID)
}

func (s *ScopeService) GetScope(ctx context.Context, id uuid.UUID) (*models.ScopeOfWork, error) {
	scope, err := s.scopes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if scope == nil {
		return nil, scopeNotFound()
	}
	return scope, nil
}

func (s *ScopeService) ListScopes(ctx context.Context, clientID uuid.UUID, includeArchived bool) ([]*models.ScopeOfWork, error) {
	return s.scopes.ListByClient(ctx, clientID, includeArchived)
}

func (s *ScopeService) RenameScope(ctx context.Context, id uuid.UUID, name string) (*models.ScopeOfWork, error) {
	scope, err := s.scopes.UpdateWithRetry(ctx, id, func(scope *models.ScopeOfWork) error {
		scope.Name = name
		return nil
	})
	if err == utils.ErrDuplicateScopeName {
		return nil, &utils.AppError{
			StatusCode: http.StatusConflict,
			Code:       utils.ErrCodeDuplicateScopeName,
			Message:    "A scope of work with this name already exists",
			Err:        err,
		}
	}
	if err == utils.ErrScopeNotFound {
		return nil, scopeNotFound()
	}
	return scope, err
}

func (s *ScopeService) ArchiveScope(ctx context.Context, id uuid.UUID) (*models.ScopeOfWork, error) {
	scope, err := s.scopes.UpdateWithRetry(ctx, id, func(scope *models.ScopeOfWork) error {
		scope.Status = models.ScopeStatusArchived
		return nil
	})
	if err == utils.ErrScopeNotFound {
		return nil, scopeNotFound()
	}
	return scope, err
}

func (s *ScopeService) DeleteScope(ctx context.Context, id uuid.UUID) error {
	err := s.scopes.SoftDelete(ctx, id)
	if err == utils.ErrScopeNotFound {
		return scopeNotFound()
	}
	return err
}

/* ------------------------------------------------------------------
   Property attachment
------------------------------------------------------------------ */

// AttachProperty binds a scope to a property. If the scope has a current
// library-level version, its blob is copied to a fresh property-scoped
// version so edits for this property never touch the shared template.
func (s *ScopeService) AttachProperty(ctx context.Context, scopeID, propertyID, userID uuid.UUID) (*models.ScopeOfWorkProperty, error) {
	scope, err := s.GetScope(ctx, scopeID)
	if err != nil {
		return nil, err
	}

	existing, err := s.scopes.FindPropertyJoin(ctx, scopeID, propertyID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &utils.AppError{
			StatusCode: http.StatusConflict,
			Code:       utils.ErrCodeConflict,
			Message:    "Scope is already attached to this property",
			Err:        utils.ErrDuplicateArea,
		}
	}

	join := &models.ScopeOfWorkProperty{
		ID:            uuid.New(),
		ScopeOfWorkID: scopeID,
		PropertyID:    propertyID,
	}
	if err := s.scopes.AttachProperty(ctx, join); err != nil {
		return nil, err
	}

	template, err := s.currentLibraryVersion(ctx, scopeID)
	if err != nil {
		return nil, err
	}
	if template != nil && template.ContentKey != nil {
		if err := s.seedPropertyVersion(ctx, scope, join, template, userID); err != nil {
			return nil, err
		}
	}
	return join, nil
}

func (s *ScopeService) DetachProperty(ctx context.Context, scopeID, propertyID uuid.UUID) error {
	err := s.scopes.DetachProperty(ctx, scopeID, propertyID)
	if err == utils.ErrPropertyNotFound {
		return &utils.AppError{
			StatusCode: http.StatusNotFound,
			Code:       utils.ErrCodeNotFound,
			Message:    "Scope is not attached to this property",
			Err:        err,
		}
	}
	return err
}

func (s *ScopeService) ListAttachedProperties(ctx context.Context, scopeID uuid.UUID) ([]*models.ScopeOfWorkProperty, error) {
	return s.scopes.ListPropertyJoins(ctx, scopeID)
}

// seedPropertyVersion copies the template blob into the property lineage as
// its version 1. One key is computed per destination, so attaching the same
// template to many properties yields distinct objects.
func (s *ScopeService) seedPropertyVersion(
	ctx context.Context,
	scope *models.ScopeOfWork,
	join *models.ScopeOfWorkProperty,
	template *models.ScopeOfWorkVersion,
	userID uuid.UUID,
) error {
	newID := uuid.New()
	key := storage.BuildVersionKey(scope.ID, &join.ID, newID, template.FileName)

	if err := s.store.CopyObject(ctx, *template.ContentKey, key); err != nil {
		return &utils.AppError{
			StatusCode: http.StatusBadGateway,
			Code:       utils.ErrCodeExternalServiceFailure,
			Message:    "Failed to copy scope document",
			Err:        err,
		}
	}

	created, err := s.versions.ForkVersionAtomic(ctx, repositories.ForkInput{
		NewVersionID:          newID,
		ScopeOfWorkID:         scope.ID,
		ScopeOfWorkPropertyID: &join.ID,
		ParentVersionID:       template.ID,
		FileName:              template.FileName,
		ContentKey:            key,
		CreatedBy:             userID,
	})
	if err != nil {
		return err
	}
	// The blob was copied before the fork, so the row completes immediately.
	return s.versions.SetStatus(ctx, created.ID, models.VersionStatusCompleted)
}

/* ------------------------------------------------------------------
   Cloning
------------------------------------------------------------------ */

// CloneScope creates a new scope from an existing one, duplicating the
// current library-level document so the clone starts with its own blob.
func (s *ScopeService) CloneScope(ctx context.Context, sourceID uuid.UUID, name string, userID uuid.UUID) (*models.ScopeOfWork, error) {
	source, err := s.GetScope(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	clone := &models.ScopeOfWork{
		ID:            uuid.New(),
		Name:          name,
		Status:        models.ScopeStatusActive,
		ClientID:      source.ClientID,
		ServiceID:     source.ServiceID,
		SourceScopeID: &source.ID,
		CreatedBy:     userID,
	}
	if err := s.scopes.Create(ctx, clone); err != nil {
		if err == utils.ErrDuplicateScopeName {
			return nil, &utils.AppError{
				StatusCode: http.StatusConflict,
				Code:       utils.ErrCodeDuplicateScopeName,
				Message:    "A scope of work with this name already exists",
				Err:        err,
			}
		}
		return nil, err
	}

	template, err := s.currentLibraryVersion(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	if template != nil && template.ContentKey != nil {
		newID := uuid.New()
		key := storage.BuildVersionKey(clone.ID, nil, newID, template.FileName)
		if err := s.store.CopyObject(ctx, *template.ContentKey, key); err != nil {
			return nil, &utils.AppError{
				StatusCode: http.StatusBadGateway,
				Code:       utils.ErrCodeExternalServiceFailure,
				Message:    "Scope created but document copy failed",
				Err:        err,
			}
		}
		err = s.versions.Create(ctx, &models.ScopeOfWorkVersion{
			ID:            newID,
			ScopeOfWorkID: clone.ID,
			VersionNumber: 1,
			FileName:      template.FileName,
			ContentKey:    &key,
			Status:        models.VersionStatusCompleted,
			IsCurrent:     true,
			CreatedBy:     userID,
		})
		if err != nil {
			return nil, err
		}
	}
	return s.scopes.GetByID(ctx, clone.ID)
}

func (s *ScopeService) currentLibraryVersion(ctx context.Context, scopeID uuid.UUID) (*models.ScopeOfWorkVersion, error) {
	list, err := s.versions.List(ctx, repositories.VersionFilter{
		ScopeOfWorkID: scopeID,
		CurrentOnly:   true,
		Limit:         1,
	})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func scopeNotFound() error {
	return &utils.AppError{
		StatusCode: http.StatusNotFound,
		Code:       utils.ErrCodeNotFound,
		Message:    "Scope of work not found",
		Err:        utils.ErrScopeNotFound,
	}
}
