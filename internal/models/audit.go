package models

import "time"

// Activity names recorded for console mutations.
const (
	ActivityOrderDeleted    = "order.deleted"
	ActivityProductCreated  = "product.created"
	ActivityProductUpdated  = "product.updated"
	ActivityProductSaved    = "product.quick_saved"
	ActivityCampaignToggled = "product.campaign_toggled"
	ActivityProductDeleted  = "product.deleted"
)

// AuditEntry is a persisted console activity.
type AuditEntry struct {
	ID        int64     `db:"id" json:"id"`
	Action    string    `db:"action" json:"action"`
	TargetID  string    `db:"target_id" json:"targetId"`
	Actor     string    `db:"actor" json:"actor"`
	Detail    string    `db:"detail" json:"detail,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Activity is a successful console mutation.
type Activity struct {
	Action   string    `json:"action"`
	TargetID string    `json:"targetId"`
	Actor    string    `json:"actor"`
	Detail   string    `json:"detail,omitempty"`
	At       time.Time `json:"at"`
}

// AuditEntry returns the persisted form of a.
func (a Activity) AuditEntry() *AuditEntry {
	return &AuditEntry{
		Action:    a.Action,
		TargetID:  a.TargetID,
		Actor:     a.Actor,
		Detail:    a.Detail,
		CreatedAt: a.At,
	}
}
