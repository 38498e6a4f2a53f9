package domain

import "time"

// AuditFields are the common creation/modification fields embedded in every
// persisted domain entity.
type AuditFields struct {
	CreatedAt     time.Time
	CreatedBy     string
	LastUpdatedAt time.Time
	LastUpdatedBy string
}
