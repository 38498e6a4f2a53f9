package domain

// AccountType classifies a customer account.
type AccountType string

const (
	Savings  AccountType = "SAVINGS"
	Checking AccountType = "CHECKING"
)

// IsValid reports whether t is a known account classification.
func (t AccountType) IsValid() bool {
	return t == Savings || t == Checking
}

// Account represents a customer account holding a balance.
//
// Balance is never negative and changes only through ledger operations,
// never by direct field assignment outside an exclusive unit of work.
type Account struct {
	AccountID     string
	OwnerUserID   string
	AccountNumber string // human-facing, unique, immutable once assigned
	AccountType   AccountType
	Balance       Money
	IsActive      bool
	AuditFields
}
