package domain

import "time"

// AuditAction identifies the kind of domain event an audit entry documents.
type AuditAction string

const (
	AuditDeposit     AuditAction = "deposit"
	AuditWithdraw    AuditAction = "withdraw"
	AuditTransfer    AuditAction = "transfer"
	AuditLoanApprove AuditAction = "loan_approve"
	AuditLoanReject  AuditAction = "loan_reject"
	AuditLoanRepay   AuditAction = "loan_repay"
)

// AuditLogEntry is one append-only record of a committed domain mutation.
// Entries are written in the same unit of work as the mutation they document
// and are never updated or deleted.
type AuditLogEntry struct {
	EntryID     string
	ActorUserID *string // nil for system-initiated actions
	Action      AuditAction
	Description string
	CreatedAt   time.Time
}
