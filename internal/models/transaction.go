package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the persistence representation of a ledger movement row.
type Transaction struct {
	TransactionID        string          `db:"transaction_id"`
	Kind                 string          `db:"kind"`
	Amount               decimal.Decimal `db:"amount"`
	SourceAccountID      string          `db:"source_account_id"`
	DestinationAccountID *string         `db:"destination_account_id"`
	Description          string          `db:"description"`
	Processed            bool            `db:"processed"`
	OccurredAt           time.Time       `db:"occurred_at"`
	AuditFields
}
