package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/herevemarket/admin_console/internal/models"
)

type AuditRepository struct {
	db *sqlx.DB
}

func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Insert stores entry and fills its id and, when unset, its creation time.
func (r *AuditRepository) Insert(ctx context.Context, entry *models.AuditEntry) error {
	query := `
		INSERT INTO console_audit (action, target_id, actor, detail, created_at)
		VALUES ($1, $2, $3, $4, COALESCE($5::timestamptz, NOW()))
		RETURNING id, created_at
	`
	var createdAt any
	if !entry.CreatedAt.IsZero() {
		createdAt = entry.CreatedAt
	}
	return r.db.QueryRowxContext(ctx, query, entry.Action, entry.TargetID, entry.Actor, entry.Detail, createdAt).
		Scan(&entry.ID, &entry.CreatedAt)
}

// ListRecent returns up to limit entries, newest first.
func (r *AuditRepository) ListRecent(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	entries := []models.AuditEntry{}
	err := r.db.SelectContext(ctx, &entries, `
		SELECT id, action, target_id, actor, detail, created_at
		FROM console_audit
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	return entries, nil
}
