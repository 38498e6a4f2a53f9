package domain

import "time"

// TransactionKind identifies the balance mutation a transaction performs.
type TransactionKind string

const (
	Deposit    TransactionKind = "DEPOSIT"
	Withdrawal TransactionKind = "WITHDRAWAL"
	Transfer   TransactionKind = "TRANSFER"
)

// IsValid reports whether k is a known transaction kind.
func (k TransactionKind) IsValid() bool {
	return k == Deposit || k == Withdrawal || k == Transfer
}

// Transaction is a ledger entry describing one balance mutation.
//
// A transaction is created unprocessed and handed to the ledger engine; once
// Processed is set it is a terminal, immutable historical record. Processed
// is monotonic and is never reset to false.
type Transaction struct {
	TransactionID        string
	Kind                 TransactionKind
	Amount               Money
	SourceAccountID      string
	DestinationAccountID *string // required iff Kind == Transfer
	Description          string
	Processed            bool
	OccurredAt           time.Time
	AuditFields
}

// RequiresDestination reports whether the transaction must reference a
// destination account.
func (t Transaction) RequiresDestination() bool {
	return t.Kind == Transfer
}
