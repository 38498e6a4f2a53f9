// Package mapping converts between persistence models and domain types.
package mapping

import (
	"github.com/Fridah34/bank-management-api/internal/core/domain"
	"github.com/Fridah34/bank-management-api/internal/models"
)

func ToAccountModel(a domain.Account) models.Account {
	return models.Account{
		AccountID:     a.AccountID,
		OwnerUserID:   a.OwnerUserID,
		AccountNumber: a.AccountNumber,
		AccountType:   string(a.AccountType),
		Balance:       a.Balance.Decimal(),
		IsActive:      a.IsActive,
		AuditFields:   toAuditFieldsModel(a.AuditFields),
	}
}

func ToAccountDomain(m models.Account) domain.Account {
	return domain.Account{
		AccountID:     m.AccountID,
		OwnerUserID:   m.OwnerUserID,
		AccountNumber: m.AccountNumber,
		AccountType:   domain.AccountType(m.AccountType),
		Balance:       domain.NewMoney(m.Balance),
		IsActive:      m.IsActive,
		AuditFields:   toAuditFieldsDomain(m.AuditFields),
	}
}

func ToTransactionModel(t domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:        t.TransactionID,
		Kind:                 string(t.Kind),
		Amount:               t.Amount.Decimal(),
		SourceAccountID:      t.SourceAccountID,
		DestinationAccountID: t.DestinationAccountID,
		Description:          t.Description,
		Processed:            t.Processed,
		OccurredAt:           t.OccurredAt,
		AuditFields:          toAuditFieldsModel(t.AuditFields),
	}
}

func ToTransactionDomain(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:        m.TransactionID,
		Kind:                 domain.TransactionKind(m.Kind),
		Amount:               domain.NewMoney(m.Amount),
		SourceAccountID:      m.SourceAccountID,
		DestinationAccountID: m.DestinationAccountID,
		Description:          m.Description,
		Processed:            m.Processed,
		OccurredAt:           m.OccurredAt,
		AuditFields:          toAuditFieldsDomain(m.AuditFields),
	}
}

func ToLoanModel(l domain.Loan) models.Loan {
	return models.Loan{
		LoanID:         l.LoanID,
		BorrowerUserID: l.BorrowerUserID,
		Principal:      l.Principal.Decimal(),
		InterestRate:   l.InterestRate,
		DurationMonths: l.DurationMonths,
		Status:         string(l.Status),
		ReviewerUserID: l.ReviewerUserID,
		ReviewedAt:     l.ReviewedAt,
		AmountDue:      l.AmountDue.Decimal(),
		AuditFields:    toAuditFieldsModel(l.AuditFields),
	}
}

func ToLoanDomain(m models.Loan) domain.Loan {
	return domain.Loan{
		LoanID:         m.LoanID,
		BorrowerUserID: m.BorrowerUserID,
		Principal:      domain.NewMoney(m.Principal),
		InterestRate:   m.InterestRate,
		DurationMonths: m.DurationMonths,
		Status:         domain.LoanStatus(m.Status),
		ReviewerUserID: m.ReviewerUserID,
		ReviewedAt:     m.ReviewedAt,
		AmountDue:      domain.NewMoney(m.AmountDue),
		AuditFields:    toAuditFieldsDomain(m.AuditFields),
	}
}

func ToAuditLogEntryModel(e domain.AuditLogEntry) models.AuditLogEntry {
	return models.AuditLogEntry{
		EntryID:     e.EntryID,
		ActorUserID: e.ActorUserID,
		Action:      string(e.Action),
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
	}
}

func ToAuditLogEntryDomain(m models.AuditLogEntry) domain.AuditLogEntry {
	return domain.AuditLogEntry{
		EntryID:     m.EntryID,
		ActorUserID: m.ActorUserID,
		Action:      domain.AuditAction(m.Action),
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
	}
}

func toAuditFieldsModel(f domain.AuditFields) models.AuditFields {
	return models.AuditFields{
		CreatedAt:     f.CreatedAt,
		CreatedBy:     f.CreatedBy,
		LastUpdatedAt: f.LastUpdatedAt,
		LastUpdatedBy: f.LastUpdatedBy,
	}
}

func toAuditFieldsDomain(f models.AuditFields) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     f.CreatedAt,
		CreatedBy:     f.CreatedBy,
		LastUpdatedAt: f.LastUpdatedAt,
		LastUpdatedBy: f.LastUpdatedBy,
	}
}
