package services

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/procurehub/procurement-service/internal/models"
	"github.com/procurehub/procurement-service/internal/queue"
	"github.com/procurehub/procurement-service/internal/repositories"
	"github.com/procurehub/procurement-service/internal/storage"
	"github.com/procurehub/procurement-service/internal/utils"
)

// SaveMode is how a document save persists: overwrite the row being edited,
// or fork a new version.
type SaveMode int

const (
	SaveModeUpdateInPlace SaveMode = iota
	SaveModeForkNew
	// SaveModeUpdateDraft is update-in-place against the editor's own
	// still-current draft rather than the version they opened.
	SaveModeUpdateDraft
)

// DocumentSaveInput is what the editor callback delivers on save.
type DocumentSaveInput struct {
	ScopeOfWorkID         uuid.UUID
	ScopeOfWorkPropertyID *uuid.UUID
	ScopeOfWorkVersionID  uuid.UUID
	FileName              string
	Buffer                []byte
	ContentType           string
	UserID                uuid.UUID
}

// SaveResult is the editor-callback contract: Error 0 on success, 1 on
// failure with a message.
type SaveResult struct {
	Error   int    `json:"error"`
	Message string `json:"message,omitempty"`

	VersionID     uuid.UUID `json:"version_id,omitempty"`
	VersionNumber int       `json:"version_number,omitempty"`
}

// DownloadTTL bounds presigned download links.
const DownloadTTL = 15 * time.Minute

type VersionService struct {
	versions  repositories.VersionRepository
	store     storage.ObjectStore
	publisher *queue.Publisher
}

func NewVersionService(
	versions repositories.VersionRepository,
	store storage.ObjectStore,
	publisher *queue.Publisher,
) *VersionService {
	return &VersionService{versions: versions, store: store, publisher: publisher}
}

/* ------------------------------------------------------------------
   Save orchestration
------------------------------------------------------------------ */

// HandleDocumentSave persists an edited document. The mode is computed here,
// never passed in: same-creator edits update in place, a foreign editor's
// existing draft is reused, and anything else forks a new version. The
// relational write commits before the object-storage upload; an upload
// failure afterwards leaves the row in place and is reported as an error.
func (s *VersionService) HandleDocumentSave(ctx context.Context, in DocumentSaveInput) SaveResult {
	original, err := s.versions.GetByID(ctx, in.ScopeOfWorkVersionID)
	if err != nil {
		utils.Logger.WithError(err).Error("Document save: failed to load version")
		return SaveResult{Error: 1, Message: "failed to load version"}
	}
	if original == nil {
		return SaveResult{Error: 1, Message: "version not found"}
	}

	mode, target, err := s.ResolveSaveMode(ctx, original, in.UserID)
	if err != nil {
		utils.Logger.WithError(err).Error("Document save: failed to resolve save mode")
		return SaveResult{Error: 1, Message: "failed to resolve save mode"}
	}

	switch mode {
	case SaveModeUpdateInPlace, SaveModeUpdateDraft:
		return s.updateInPlace(ctx, in, target)
	default:
		return s.forkNewVersion(ctx, in, original)
	}
}

// ResolveSaveMode decides how a save by userID against version v persists.
// Returns the target version for in-place updates (v itself, or the user's
// reusable draft).
func (s *VersionService) ResolveSaveMode(
	ctx context.Context,
	v *models.ScopeOfWorkVersion,
	userID uuid.UUID,
) (SaveMode, *models.ScopeOfWorkVersion, error) {
	if v.CreatedBy == userID {
		return SaveModeUpdateInPlace, v, nil
	}

	// A foreign editor may already hold a current draft forked from the same
	// parent; saving again reuses it instead of forking once per keystroke.
	draft, err := s.versions.FindCurrentDraftByUser(
		ctx, v.ScopeOfWorkID, v.ScopeOfWorkPropertyID, v.ID, userID,
	)
	if err != nil {
		return 0, nil, err
	}
	if draft != nil {
		return SaveModeUpdateDraft, draft, nil
	}
	return SaveModeForkNew, nil, nil
}

// updateInPlace overwrites the blob at the target's existing content key and
// touches the row. Version number and current flag never change here.
func (s *VersionService) updateInPlace(ctx context.Context, in DocumentSaveInput, target *models.ScopeOfWorkVersion) SaveResult {
	if target.ContentKey == nil {
		return SaveResult{Error: 1, Message: "version has no content key"}
	}

	if err := s.store.UploadBytes(ctx, *target.ContentKey, in.Buffer, in.ContentType); err != nil {
		utils.Logger.WithError(err).WithField("versionId", target.ID).Error("Document save: upload failed")
		return SaveResult{Error: 1, Message: "failed to store document"}
	}

	if err := s.versions.Touch(ctx, target.ID, in.UserID); err != nil {
		utils.Logger.WithError(err).WithField("versionId", target.ID).Error("Document save: failed to touch version")
		return SaveResult{Error: 1, Message: "failed to update version"}
	}
	if target.ScopeOfWorkPropertyID != nil {
		if err := s.versions.TouchPropertyJoin(ctx, target.ID); err != nil {
			utils.Logger.WithError(err).WithField("versionId", target.ID).Error("Document save: failed to touch property join")
		}
	}

	s.publisher.PublishConversion(ctx, queue.ConversionEvent{
		VersionID:  target.ID,
		ContentKey: *target.ContentKey,
		FileName:   in.FileName,
		SavedAt:    time.Now().UTC(),
	})

	return SaveResult{Error: 0, VersionID: target.ID, VersionNumber: target.VersionNumber}
}

// forkNewVersion mints the next version in the lineage. The demote + number
// allocation + insert happen in one transaction inside the repository; the
// upload runs after commit, so a crash in between leaves a PROCESSING row
// pointing at a missing blob for the audit sweep to flag. The row flips to
// COMPLETED only after the blob has landed.
func (s *VersionService) forkNewVersion(ctx context.Context, in DocumentSaveInput, original *models.ScopeOfWorkVersion) SaveResult {
	newID := uuid.New()
	key := storage.BuildVersionKey(in.ScopeOfWorkID, in.ScopeOfWorkPropertyID, newID, in.FileName)

	created, err := s.versions.ForkVersionAtomic(ctx, repositories.ForkInput{
		NewVersionID:          newID,
		ScopeOfWorkID:         in.ScopeOfWorkID,
		ScopeOfWorkPropertyID: in.ScopeOfWorkPropertyID,
		ParentVersionID:       original.ID,
		FileName:              in.FileName,
		ContentKey:            key,
		CreatedBy:             in.UserID,
	})
	if err != nil {
		utils.Logger.WithError(err).WithField("scopeId", in.ScopeOfWorkID).Error("Document save: fork failed")
		return SaveResult{Error: 1, Message: "failed to create version"}
	}

	if err := s.store.UploadBytes(ctx, key, in.Buffer, in.ContentType); err != nil {
		// The metadata row already committed and stays PROCESSING. Report the
		// failure; the audit sweep alerts on rows whose blob never landed.
		utils.Logger.WithError(err).WithField("versionId", created.ID).Error("Document save: upload after fork failed")
		return SaveResult{Error: 1, Message: "version created but document upload failed"}
	}

	if err := s.versions.SetStatus(ctx, created.ID, models.VersionStatusCompleted); err != nil {
		// The blob exists, so the sweep will not alert; only the status lags.
		utils.Logger.WithError(err).WithField("versionId", created.ID).Error("Document save: failed to mark version completed")
	}

	s.publisher.PublishConversion(ctx, queue.ConversionEvent{
		VersionID:  created.ID,
		ContentKey: key,
		FileName:   in.FileName,
		SavedAt:    time.Now().UTC(),
	})

	return SaveResult{Error: 0, VersionID: created.ID, VersionNumber: created.VersionNumber}
}

/* ------------------------------------------------------------------
   Reads
------------------------------------------------------------------ */

func (s *VersionService) GetVersion(ctx context.Context, id uuid.UUID) (*models.ScopeOfWorkVersion, error) {
	v, err := s.versions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, &utils.AppError{
			StatusCode: http.StatusNotFound,
			Code:       utils.ErrCodeNotFound,
			Message:    "Version not found",
			Err:        utils.ErrVersionNotFound,
		}
	}
	return v, nil
}

func (s *VersionService) ListVersions(ctx context.Context, f repositories.VersionFilter) ([]*models.ScopeOfWorkVersion, error) {
	return s.versions.List(ctx, f)
}

// GetDownloadURL presigns a time-limited link for the version's content.
func (s *VersionService) GetDownloadURL(ctx context.Context, id uuid.UUID) (string, error) {
	v, err := s.GetVersion(ctx, id)
	if err != nil {
		return "", err
	}
	if v.ContentKey == nil {
		return "", &utils.AppError{
			StatusCode: http.StatusNotFound,
			Code:       utils.ErrCodeNotFound,
			Message:    "Version has no stored content",
			Err:        utils.ErrVersionNotFound,
		}
	}
	url, err := s.store.PresignDownloadURL(ctx, *v.ContentKey, DownloadTTL)
	if err != nil {
		return "", &utils.AppError{
			StatusCode: http.StatusBadGateway,
			Code:       utils.ErrCodeExternalServiceFailure,
			Message:    "Failed to generate download link",
			Err:        err,
		}
	}
	return url, nil
}
