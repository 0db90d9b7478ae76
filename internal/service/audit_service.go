package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/herevemarket/admin_console/internal/models"
)

// AuditPageSize is how many entries the audit page lists.
const AuditPageSize = 100

// AuditStore persists audit entries.
type AuditStore interface {
	Insert(ctx context.Context, entry *models.AuditEntry) error
	ListRecent(ctx context.Context, limit int) ([]models.AuditEntry, error)
}

// AuditService writes console activities to the audit log and reads them back.
type AuditService struct {
	store AuditStore
}

// NewAuditService constructs an AuditService. A nil store disables the log.
func NewAuditService(store AuditStore) *AuditService {
	return &AuditService{store: store}
}

// Enabled reports whether an audit store is configured.
func (s *AuditService) Enabled() bool {
	return s != nil && s.store != nil
}

// Record implements ActivityRecorder. Failures are logged only.
func (s *AuditService) Record(ctx context.Context, activity models.Activity) {
	if !s.Enabled() {
		return
	}
	if err := s.store.Insert(ctx, activity.AuditEntry()); err != nil {
		log.Error().Err(err).Str("action", activity.Action).Str("target_id", activity.TargetID).Msg("Failed to write audit entry")
	}
}

// Recent returns the latest entries, newest first.
func (s *AuditService) Recent(ctx context.Context) ([]models.AuditEntry, error) {
	if !s.Enabled() {
		return nil, nil
	}
	return s.store.ListRecent(ctx, AuditPageSize)
}
