package models

import "github.com/shopspring/decimal"

// Account is the persistence representation of a customer account row.
type Account struct {
	AccountID     string          `db:"account_id"`
	OwnerUserID   string          `db:"owner_user_id"`
	AccountNumber string          `db:"account_number"`
	AccountType   string          `db:"account_type"`
	Balance       decimal.Decimal `db:"balance"`
	IsActive      bool            `db:"is_active"`
	AuditFields
}
