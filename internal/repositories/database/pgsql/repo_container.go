package pgsql

import (
	"github.com/Fridah34/bank-management-api/internal/core/services"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositories builds the full set of PostgreSQL-backed stores over one
// shared connection pool.
func NewRepositories(pool *pgxpool.Pool) services.Repositories {
	return services.Repositories{
		Account: newPgxAccountRepository(pool),
		Ledger:  newPgxLedgerRepository(pool),
		Loan:    newPgxLoanRepository(pool),
		Audit:   newPgxAuditRepository(pool),
	}
}
