package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procurehub/procurement-service/internal/models"
	"github.com/procurehub/procurement-service/internal/queue"
	"github.com/procurehub/procurement-service/internal/repositories"
	"github.com/procurehub/procurement-service/internal/utils"
)

/* ------------------------------------------------------------------
   Fakes
------------------------------------------------------------------ */

// fakeVersionRepo keeps versions in memory and mimics the lineage semantics of
// the SQL implementation closely enough for save-mode testing.
type fakeVersionRepo struct {
	versions map[uuid.UUID]*models.ScopeOfWorkVersion
	forkErr  error
	touched  []uuid.UUID
}

func newFakeVersionRepo() *fakeVersionRepo {
	return &fakeVersionRepo{versions: map[uuid.UUID]*models.ScopeOfWorkVersion{}}
}

func (f *fakeVersionRepo) add(v *models.ScopeOfWorkVersion) *models.ScopeOfWorkVersion {
	f.versions[v.ID] = v
	return v
}

func sameLineage(v *models.ScopeOfWorkVersion, scopeID uuid.UUID, joinID *uuid.UUID) bool {
	if v.ScopeOfWorkID != scopeID {
		return false
	}
	if v.ScopeOfWorkPropertyID == nil || joinID == nil {
		return v.ScopeOfWorkPropertyID == nil && joinID == nil
	}
	return *v.ScopeOfWorkPropertyID == *joinID
}

func (f *fakeVersionRepo) Create(ctx context.Context, v *models.ScopeOfWorkVersion) error {
	f.add(v)
	return nil
}

func (f *fakeVersionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ScopeOfWorkVersion, error) {
	return f.versions[id], nil
}

func (f *fakeVersionRepo) List(ctx context.Context, fl repositories.VersionFilter) ([]*models.ScopeOfWorkVersion, error) {
	var out []*models.ScopeOfWorkVersion
	for _, v := range f.versions {
		if v.ScopeOfWorkID == fl.ScopeOfWorkID && (!fl.CurrentOnly || v.IsCurrent) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeVersionRepo) MaxVersionNumber(ctx context.Context, scopeID uuid.UUID, joinID *uuid.UUID) (int, error) {
	max := 0
	for _, v := range f.versions {
		if sameLineage(v, scopeID, joinID) && v.VersionNumber > max {
			max = v.VersionNumber
		}
	}
	return max, nil
}

func (f *fakeVersionRepo) FindCurrentDraftByUser(ctx context.Context, scopeID uuid.UUID, joinID *uuid.UUID, parentID, userID uuid.UUID) (*models.ScopeOfWorkVersion, error) {
	for _, v := range f.versions {
		if sameLineage(v, scopeID, joinID) && v.IsCurrent && v.CreatedBy == userID &&
			v.ParentVersionID != nil && *v.ParentVersionID == parentID {
			return v, nil
		}
	}
	return nil, nil
}

func (f *fakeVersionRepo) ForkVersionAtomic(ctx context.Context, in repositories.ForkInput) (*models.ScopeOfWorkVersion, error) {
	if f.forkErr != nil {
		return nil, f.forkErr
	}
	max, _ := f.MaxVersionNumber(ctx, in.ScopeOfWorkID, in.ScopeOfWorkPropertyID)
	for _, v := range f.versions {
		if sameLineage(v, in.ScopeOfWorkID, in.ScopeOfWorkPropertyID) {
			v.IsCurrent = false
		}
	}
	return f.add(&models.ScopeOfWorkVersion{
		ID:                    in.NewVersionID,
		ScopeOfWorkID:         in.ScopeOfWorkID,
		ScopeOfWorkPropertyID: in.ScopeOfWorkPropertyID,
		VersionNumber:         max + 1,
		FileName:              in.FileName,
		ContentKey:            &in.ContentKey,
		Status:                models.VersionStatusProcessing,
		IsCurrent:             true,
		ParentVersionID:       &in.ParentVersionID,
		CreatedBy:             in.CreatedBy,
		UploadedAt:            time.Now(),
	}), nil
}

func (f *fakeVersionRepo) Touch(ctx context.Context, id uuid.UUID, modifiedBy uuid.UUID) error {
	v, ok := f.versions[id]
	if !ok {
		return errors.New("no rows")
	}
	v.ModifiedBy = &modifiedBy
	f.touched = append(f.touched, id)
	return nil
}

func (f *fakeVersionRepo) TouchPropertyJoin(ctx context.Context, versionID uuid.UUID) error {
	return nil
}

func (f *fakeVersionRepo) SetStatus(ctx context.Context, id uuid.UUID, status models.VersionStatusType) error {
	f.versions[id].Status = status
	return nil
}

func (f *fakeVersionRepo) ListStalledProcessing(ctx context.Context, olderThan time.Time) ([]*models.ScopeOfWorkVersion, error) {
	var out []*models.ScopeOfWorkVersion
	for _, v := range f.versions {
		if v.Status == models.VersionStatusProcessing && v.UploadedAt.Before(olderThan) {
			out = append(out, v)
		}
	}
	return out, nil
}

// fakeObjectStore records uploads keyed by object key.
type fakeObjectStore struct {
	uploads   map[string][]byte
	uploadErr error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{uploads: map[string][]byte{}}
}

func (f *fakeObjectStore) UploadBytes(ctx context.Context, key string, body []byte, contentType string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.uploads[key] = body
	return nil
}

func (f *fakeObjectStore) CopyObject(ctx context.Context, sourceKey, destinationKey string) error {
	f.uploads[destinationKey] = f.uploads[sourceKey]
	return nil
}

func (f *fakeObjectStore) PresignDownloadURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return "https://example.test/" + key, nil
}

func (f *fakeObjectStore) ObjectExists(ctx context.Context, key string) (bool, error) {
	_, ok := f.uploads[key]
	return ok, nil
}

/* ------------------------------------------------------------------
   Helpers
------------------------------------------------------------------ */

func newTestVersionService() (*VersionService, *fakeVersionRepo, *fakeObjectStore) {
	repo := newFakeVersionRepo()
	store := newFakeObjectStore()
	return NewVersionService(repo, store, queue.NewPublisher(nil)), repo, store
}

func seedCurrentVersion(repo *fakeVersionRepo, scopeID uuid.UUID, creator uuid.UUID) *models.ScopeOfWorkVersion {
	key := "scopes/" + scopeID.String() + "/versions/seed/sow.docx"
	return repo.add(&models.ScopeOfWorkVersion{
		ID:            uuid.New(),
		ScopeOfWorkID: scopeID,
		VersionNumber: 3,
		FileName:      "sow.docx",
		ContentKey:    &key,
		Status:        models.VersionStatusCompleted,
		IsCurrent:     true,
		CreatedBy:     creator,
	})
}

/* ------------------------------------------------------------------
   Save-mode resolution
------------------------------------------------------------------ */

func TestResolveSaveModeCreatorUpdatesInPlace(t *testing.T) {
	svc, repo, _ := newTestVersionService()
	creator := uuid.New()
	v := seedCurrentVersion(repo, uuid.New(), creator)

	mode, target, err := svc.ResolveSaveMode(context.Background(), v, creator)
	require.NoError(t, err)
	assert.Equal(t, SaveModeUpdateInPlace, mode)
	assert.Equal(t, v.ID, target.ID)
}

func TestResolveSaveModeForeignUserForks(t *testing.T) {
	svc, repo, _ := newTestVersionService()
	v := seedCurrentVersion(repo, uuid.New(), uuid.New())

	mode, target, err := svc.ResolveSaveMode(context.Background(), v, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, SaveModeForkNew, mode)
	assert.Nil(t, target)
}

func TestResolveSaveModeReusesForeignUsersDraft(t *testing.T) {
	svc, repo, _ := newTestVersionService()
	scopeID := uuid.New()
	editor := uuid.New()
	parent := seedCurrentVersion(repo, scopeID, uuid.New())
	parent.IsCurrent = false

	draft := repo.add(&models.ScopeOfWorkVersion{
		ID:              uuid.New(),
		ScopeOfWorkID:   scopeID,
		VersionNumber:   4,
		FileName:        "sow.docx",
		ContentKey:      utils.Ptr("scopes/x/versions/y/sow.docx"),
		IsCurrent:       true,
		ParentVersionID: &parent.ID,
		CreatedBy:       editor,
	})

	mode, target, err := svc.ResolveSaveMode(context.Background(), parent, editor)
	require.NoError(t, err)
	assert.Equal(t, SaveModeUpdateDraft, mode)
	assert.Equal(t, draft.ID, target.ID)
}

/* ------------------------------------------------------------------
   Save orchestration
------------------------------------------------------------------ */

func TestHandleDocumentSaveSameUserKeepsVersionNumber(t *testing.T) {
	svc, repo, store := newTestVersionService()
	scopeID := uuid.New()
	creator := uuid.New()
	v := seedCurrentVersion(repo, scopeID, creator)

	// Two consecutive saves by the creator overwrite the same row and blob.
	for i := 0; i < 2; i++ {
		res := svc.HandleDocumentSave(context.Background(), DocumentSaveInput{
			ScopeOfWorkID:        scopeID,
			ScopeOfWorkVersionID: v.ID,
			FileName:             "sow.docx",
			Buffer:               []byte("rev"),
			UserID:               creator,
		})
		require.Equal(t, 0, res.Error, res.Message)
		assert.Equal(t, v.ID, res.VersionID)
		assert.Equal(t, 3, res.VersionNumber)
	}

	assert.Len(t, repo.versions, 1)
	assert.Equal(t, []byte("rev"), store.uploads[*v.ContentKey])
	assert.Len(t, repo.touched, 2)
}

func TestHandleDocumentSaveForeignUserForksNewCurrent(t *testing.T) {
	svc, repo, store := newTestVersionService()
	scopeID := uuid.New()
	v := seedCurrentVersion(repo, scopeID, uuid.New())
	editor := uuid.New()

	res := svc.HandleDocumentSave(context.Background(), DocumentSaveInput{
		ScopeOfWorkID:        scopeID,
		ScopeOfWorkVersionID: v.ID,
		FileName:             "sow.docx",
		Buffer:               []byte("forked"),
		UserID:               editor,
	})

	require.Equal(t, 0, res.Error, res.Message)
	assert.NotEqual(t, v.ID, res.VersionID)
	assert.Equal(t, 4, res.VersionNumber)

	// Original demoted, fork promoted and completed once the blob landed.
	assert.False(t, repo.versions[v.ID].IsCurrent)
	forked := repo.versions[res.VersionID]
	require.NotNil(t, forked)
	assert.True(t, forked.IsCurrent)
	assert.Equal(t, models.VersionStatusCompleted, forked.Status)
	require.NotNil(t, forked.ParentVersionID)
	assert.Equal(t, v.ID, *forked.ParentVersionID)
	assert.Equal(t, []byte("forked"), store.uploads[*forked.ContentKey])
}

func TestHandleDocumentSaveSecondForeignSaveReusesDraft(t *testing.T) {
	svc, repo, _ := newTestVersionService()
	scopeID := uuid.New()
	v := seedCurrentVersion(repo, scopeID, uuid.New())
	editor := uuid.New()

	in := DocumentSaveInput{
		ScopeOfWorkID:        scopeID,
		ScopeOfWorkVersionID: v.ID,
		FileName:             "sow.docx",
		Buffer:               []byte("one"),
		UserID:               editor,
	}
	first := svc.HandleDocumentSave(context.Background(), in)
	require.Equal(t, 0, first.Error, first.Message)

	in.Buffer = []byte("two")
	second := svc.HandleDocumentSave(context.Background(), in)
	require.Equal(t, 0, second.Error, second.Message)

	// The fork happened once; the second save updated the same draft.
	assert.Equal(t, first.VersionID, second.VersionID)
	assert.Equal(t, first.VersionNumber, second.VersionNumber)
	assert.Len(t, repo.versions, 2)
}

func TestHandleDocumentSaveUploadFailureAfterFork(t *testing.T) {
	svc, repo, store := newTestVersionService()
	scopeID := uuid.New()
	v := seedCurrentVersion(repo, scopeID, uuid.New())
	store.uploadErr = errors.New("s3 unavailable")

	res := svc.HandleDocumentSave(context.Background(), DocumentSaveInput{
		ScopeOfWorkID:        scopeID,
		ScopeOfWorkVersionID: v.ID,
		FileName:             "sow.docx",
		Buffer:               []byte("lost"),
		UserID:               uuid.New(),
	})

	// The metadata row committed before the upload failed; the save still
	// reports failure so the editor surfaces it.
	assert.Equal(t, 1, res.Error)
	assert.Contains(t, res.Message, "upload failed")
	require.Len(t, repo.versions, 2)

	// The dangling row stays PROCESSING so the audit sweep can find it.
	var dangling *models.ScopeOfWorkVersion
	for _, row := range repo.versions {
		if row.ID != v.ID {
			dangling = row
		}
	}
	require.NotNil(t, dangling)
	assert.Equal(t, models.VersionStatusProcessing, dangling.Status)

	stalled, err := repo.ListStalledProcessing(context.Background(), time.Now().Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, stalled, 1)
	assert.Equal(t, dangling.ID, stalled[0].ID)
}

func TestHandleDocumentSaveUnknownVersion(t *testing.T) {
	svc, _, _ := newTestVersionService()

	res := svc.HandleDocumentSave(context.Background(), DocumentSaveInput{
		ScopeOfWorkVersionID: uuid.New(),
		UserID:               uuid.New(),
	})
	assert.Equal(t, 1, res.Error)
	assert.Equal(t, "version not found", res.Message)
}

func TestGetDownloadURL(t *testing.T) {
	svc, repo, _ := newTestVersionService()
	v := seedCurrentVersion(repo, uuid.New(), uuid.New())

	url, err := svc.GetDownloadURL(context.Background(), v.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.test/"+*v.ContentKey, url)
}

func TestGetDownloadURLMissingVersion(t *testing.T) {
	svc, _, _ := newTestVersionService()

	_, err := svc.GetDownloadURL(context.Background(), uuid.New())
	require.Error(t, err)

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.StatusCode)
}
