package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/procurehub/procurement-service/internal/repositories"
	"github.com/procurehub/procurement-service/internal/storage"
	"github.com/procurehub/procurement-service/internal/utils"
)

// stalledAfter is how long a version may sit in PROCESSING, or reference a
// missing blob, before the sweep flags it.
const stalledAfter = 30 * time.Minute

// AuditService runs the scheduled reconciliation sweeps. The metadata write
// and the object-storage upload are not one transaction, so a crash between
// them leaves a version row pointing at a blob that never landed; the sweep
// finds those rows and alerts operations instead of silently hiding them.
type AuditService struct {
	versions  repositories.VersionRepository
	contracts repositories.ContractRepository
	store     storage.ObjectStore
	notify    *NotifyService
	opsEmail  string
}

func NewAuditService(
	versions repositories.VersionRepository,
	contracts repositories.ContractRepository,
	store storage.ObjectStore,
	notify *NotifyService,
	opsEmail string,
) *AuditService {
	return &AuditService{
		versions:  versions,
		contracts: contracts,
		store:     store,
		notify:    notify,
		opsEmail:  opsEmail,
	}
}

// SweepDanglingVersions flags version rows whose content never reached object
// storage. No automatic repair happens here; the rows stay for operator
// review.
func (s *AuditService) SweepDanglingVersions(ctx context.Context) {
	cutoff := time.Now().Add(-stalledAfter)
	stalled, err := s.versions.ListStalledProcessing(ctx, cutoff)
	if err != nil {
		utils.Logger.WithError(err).Error("Audit sweep: failed to list stalled versions")
		return
	}

	var missing []string
	for _, v := range stalled {
		if v.ContentKey == nil {
			missing = append(missing, fmt.Sprintf("version %s (no content key)", v.ID))
			continue
		}
		exists, err := s.store.ObjectExists(ctx, *v.ContentKey)
		if err != nil {
			utils.Logger.WithError(err).Warnf("Audit sweep: head failed for %s", *v.ContentKey)
			continue
		}
		if !exists {
			missing = append(missing, fmt.Sprintf("version %s -> %s", v.ID, *v.ContentKey))
		}
	}

	if len(missing) == 0 {
		utils.Logger.Infof("Audit sweep: %d stalled version(s), none missing a blob", len(stalled))
		return
	}

	utils.Logger.Warnf("Audit sweep: %d version row(s) reference missing objects", len(missing))
	s.notify.SendOpsAlert(
		s.opsEmail,
		"Scope versions missing stored documents",
		fmt.Sprintf("The following version rows reference objects that never landed:\n\n%s", strings.Join(missing, "\n")),
	)
}

// SweepExpiredContracts flips ACTIVE contracts past their end date to EXPIRED.
func (s *AuditService) SweepExpiredContracts(ctx context.Context) {
	n, err := s.contracts.ExpireEnded(ctx, time.Now().UTC())
	if err != nil {
		utils.Logger.WithError(err).Error("Audit sweep: failed to expire contracts")
		return
	}
	if n > 0 {
		utils.Logger.Infof("Audit sweep: expired %d contract(s)", n)
	}
}
