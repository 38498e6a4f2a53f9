package models

import "time"

// AuditLogEntry is the persistence representation of an audit trail row.
// Rows are append only; there is no update path.
type AuditLogEntry struct {
	EntryID     string    `db:"entry_id"`
	ActorUserID *string   `db:"actor_user_id"`
	Action      string    `db:"action"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}
