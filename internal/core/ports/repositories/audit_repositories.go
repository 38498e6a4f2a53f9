package repositories

import (
	"context"

	"github.com/Fridah34/bank-management-api/internal/core/domain"
)

// AuditRepository reads the append-only audit log. Appends happen only
// inside units of work (LedgerUnitOfWork, TransitionLoanWithAudit); the core
// never mutates or deletes entries.
type AuditRepository interface {
	// ListAuditEntries returns entries newest first, optionally filtered by
	// actor. A nil actorUserID lists all entries.
	ListAuditEntries(ctx context.Context, actorUserID *string, limit, offset int) ([]domain.AuditLogEntry, error)
}
