package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procurehub/procurement-service/internal/models"
	"github.com/procurehub/procurement-service/internal/utils"
)

/* ------------------------------------------------------------------
   Fakes
------------------------------------------------------------------ */

type fakeScopeRepo struct {
	scopes    map[uuid.UUID]*models.ScopeOfWork
	joins     map[uuid.UUID]*models.ScopeOfWorkProperty
	updateErr error
}

func newFakeScopeRepo() *fakeScopeRepo {
	return &fakeScopeRepo{
		scopes: map[uuid.UUID]*models.ScopeOfWork{},
		joins:  map[uuid.UUID]*models.ScopeOfWorkProperty{},
	}
}

func (f *fakeScopeRepo) Create(ctx context.Context, s *models.ScopeOfWork) error {
	for _, existing := range f.scopes {
		if existing.Name == s.Name {
			return utils.ErrDuplicateScopeName
		}
	}
	f.scopes[s.ID] = s
	return nil
}

func (f *fakeScopeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ScopeOfWork, error) {
	return f.scopes[id], nil
}

func (f *fakeScopeRepo) ListByClient(ctx context.Context, clientID uuid.UUID, includeArchived bool) ([]*models.ScopeOfWork, error) {
	return nil, nil
}

func (f *fakeScopeRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.ScopeOfWork) error) (*models.ScopeOfWork, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	scope, ok := f.scopes[id]
	if !ok {
		return nil, utils.ErrScopeNotFound
	}
	if err := mutate(scope); err != nil {
		return nil, err
	}
	return scope, nil
}

func (f *fakeScopeRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.scopes[id]; !ok {
		return utils.ErrScopeNotFound
	}
	delete(f.scopes, id)
	return nil
}

func (f *fakeScopeRepo) AttachProperty(ctx context.Context, sp *models.ScopeOfWorkProperty) error {
	f.joins[sp.ID] = sp
	return nil
}

func (f *fakeScopeRepo) DetachProperty(ctx context.Context, scopeID, propertyID uuid.UUID) error {
	for id, sp := range f.joins {
		if sp.ScopeOfWorkID == scopeID && sp.PropertyID == propertyID {
			delete(f.joins, id)
			return nil
		}
	}
	return utils.ErrPropertyNotFound
}

func (f *fakeScopeRepo) GetPropertyJoin(ctx context.Context, id uuid.UUID) (*models.ScopeOfWorkProperty, error) {
	return f.joins[id], nil
}

func (f *fakeScopeRepo) FindPropertyJoin(ctx context.Context, scopeID, propertyID uuid.UUID) (*models.ScopeOfWorkProperty, error) {
	for _, sp := range f.joins {
		if sp.ScopeOfWorkID == scopeID && sp.PropertyID == propertyID {
			return sp, nil
		}
	}
	return nil, nil
}

func (f *fakeScopeRepo) ListPropertyJoins(ctx context.Context, scopeID uuid.UUID) ([]*models.ScopeOfWorkProperty, error) {
	var out []*models.ScopeOfWorkProperty
	for _, sp := range f.joins {
		if sp.ScopeOfWorkID == scopeID {
			out = append(out, sp)
		}
	}
	return out, nil
}

/* ------------------------------------------------------------------
   Helpers
------------------------------------------------------------------ */

func newTestScopeService() (*ScopeService, *fakeScopeRepo, *fakeVersionRepo, *fakeObjectStore) {
	scopes := newFakeScopeRepo()
	versions := newFakeVersionRepo()
	store := newFakeObjectStore()
	return NewScopeService(scopes, versions, store), scopes, versions, store
}

func seedScope(scopes *fakeScopeRepo, name string) *models.ScopeOfWork {
	scope := &models.ScopeOfWork{
		ID:        uuid.New(),
		Name:      name,
		Status:    models.ScopeStatusActive,
		CreatedBy: uuid.New(),
	}
	scopes.scopes[scope.ID] = scope
	return scope
}

func requireConflict(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusConflict, appErr.StatusCode)
	assert.Equal(t, code, appErr.Code)
}

/* ------------------------------------------------------------------
   Renaming
------------------------------------------------------------------ */

func TestRenameScope(t *testing.T) {
	svc, scopes, _, _ := newTestScopeService()
	scope := seedScope(scopes, "Landscaping")

	renamed, err := svc.RenameScope(context.Background(), scope.ID, "Snow Removal")
	require.NoError(t, err)
	assert.Equal(t, "Snow Removal", renamed.Name)
}

func TestRenameScopeDuplicateNameIsConflict(t *testing.T) {
	svc, scopes, _, _ := newTestScopeService()
	scope := seedScope(scopes, "Landscaping")
	scopes.updateErr = utils.ErrDuplicateScopeName

	_, err := svc.RenameScope(context.Background(), scope.ID, "Janitorial")
	requireConflict(t, err, utils.ErrCodeDuplicateScopeName)
}

func TestRenameScopeNotFound(t *testing.T) {
	svc, _, _, _ := newTestScopeService()

	_, err := svc.RenameScope(context.Background(), uuid.New(), "Janitorial")

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.StatusCode)
}

func TestCreateScopeDuplicateNameIsConflict(t *testing.T) {
	svc, scopes, _, _ := newTestScopeService()
	seedScope(scopes, "Landscaping")

	_, err := svc.CreateScope(context.Background(), &models.ScopeOfWork{
		Name:      "Landscaping",
		CreatedBy: uuid.New(),
	})
	requireConflict(t, err, utils.ErrCodeDuplicateScopeName)
}

/* ------------------------------------------------------------------
   Property attachment
------------------------------------------------------------------ */

func TestAttachPropertySeedsCompletedVersion(t *testing.T) {
	svc, scopes, versions, store := newTestScopeService()
	scope := seedScope(scopes, "Landscaping")

	templateKey := "scopes/" + scope.ID.String() + "/versions/t/sow.docx"
	store.uploads[templateKey] = []byte("template")
	versions.add(&models.ScopeOfWorkVersion{
		ID:            uuid.New(),
		ScopeOfWorkID: scope.ID,
		VersionNumber: 2,
		FileName:      "sow.docx",
		ContentKey:    &templateKey,
		Status:        models.VersionStatusCompleted,
		IsCurrent:     true,
		CreatedBy:     scope.CreatedBy,
	})

	join, err := svc.AttachProperty(context.Background(), scope.ID, uuid.New(), scope.CreatedBy)
	require.NoError(t, err)
	require.NotNil(t, join)

	// The property lineage starts at version 1, current and completed, with
	// its own copy of the template blob.
	var seeded *models.ScopeOfWorkVersion
	for _, v := range versions.versions {
		if v.ScopeOfWorkPropertyID != nil && *v.ScopeOfWorkPropertyID == join.ID {
			seeded = v
		}
	}
	require.NotNil(t, seeded)
	assert.Equal(t, 1, seeded.VersionNumber)
	assert.True(t, seeded.IsCurrent)
	assert.Equal(t, models.VersionStatusCompleted, seeded.Status)
	require.NotNil(t, seeded.ContentKey)
	assert.NotEqual(t, templateKey, *seeded.ContentKey)
	assert.Equal(t, []byte("template"), store.uploads[*seeded.ContentKey])
}

func TestAttachPropertyTwiceIsConflict(t *testing.T) {
	svc, scopes, _, _ := newTestScopeService()
	scope := seedScope(scopes, "Landscaping")
	propertyID := uuid.New()

	_, err := svc.AttachProperty(context.Background(), scope.ID, propertyID, scope.CreatedBy)
	require.NoError(t, err)

	_, err = svc.AttachProperty(context.Background(), scope.ID, propertyID, scope.CreatedBy)
	requireConflict(t, err, utils.ErrCodeConflict)
}
