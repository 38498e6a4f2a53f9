package services

import (
	portsrepo "github.com/Fridah34/bank-management-api/internal/core/ports/repositories"
	portssvc "github.com/Fridah34/bank-management-api/internal/core/ports/services"
)

// Container bundles the application services for handler wiring.
type Container struct {
	Account portssvc.AccountSvcFacade
	Ledger  portssvc.LedgerSvcFacade
	Loan    portssvc.LoanSvcFacade
	Audit   portssvc.AuditSvcFacade
}

// Repositories is the set of stores the services are built on.
type Repositories struct {
	Account portsrepo.AccountRepository
	Ledger  portsrepo.LedgerRepository
	Loan    portsrepo.LoanRepository
	Audit   portsrepo.AuditRepository
}

// NewContainer wires the services over the given repositories.
func NewContainer(repos Repositories) *Container {
	return &Container{
		Account: NewAccountService(repos.Account),
		Ledger:  NewLedgerService(repos.Ledger, repos.Account),
		Loan:    NewLoanService(repos.Loan),
		Audit:   NewAuditService(repos.Audit),
	}
}
