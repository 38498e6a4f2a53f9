package dto

import (
	"time"

	"github.com/Fridah34/bank-management-api/internal/core/domain"
)

// DepositRequest defines the data needed to deposit into an account.
// Amount is a string so the engine can parse it exactly, without a float
// round trip.
type DepositRequest struct {
	AccountID   string `json:"accountID" binding:"required"`
	Amount      string `json:"amount" binding:"required,money"`
	Description string `json:"description"`
}

// WithdrawRequest defines the data needed to withdraw from an account.
type WithdrawRequest struct {
	AccountID   string `json:"accountID" binding:"required"`
	Amount      string `json:"amount" binding:"required,money"`
	Description string `json:"description"`
}

// TransferRequest defines the data needed to move funds between accounts.
// Destination accepts either an account id or a human-facing account number.
type TransferRequest struct {
	SourceAccountID string `json:"sourceAccountID" binding:"required"`
	Destination     string `json:"destination" binding:"required"`
	Amount          string `json:"amount" binding:"required,money"`
	Description     string `json:"description"`
}

// TransactionResponse defines the data returned for a processed ledger entry.
type TransactionResponse struct {
	TransactionID        string                 `json:"transactionID"`
	Kind                 domain.TransactionKind `json:"kind"`
	Amount               string                 `json:"amount"`
	SourceAccountID      string                 `json:"sourceAccountID"`
	DestinationAccountID *string                `json:"destinationAccountID,omitempty"`
	Description          string                 `json:"description"`
	Processed            bool                   `json:"processed"`
	OccurredAt           time.Time              `json:"occurredAt"`
	// NewBalance is the source account's balance after the operation.
	NewBalance string `json:"newBalance"`
	// DestinationBalance is set for transfers only.
	DestinationBalance *string `json:"destinationBalance,omitempty"`
}

// ToTransactionResponse converts a processed transaction plus resulting
// balances to its response DTO.
func ToTransactionResponse(txn *domain.Transaction, newBalance domain.Money, destBalance *domain.Money) TransactionResponse {
	resp := TransactionResponse{
		TransactionID:        txn.TransactionID,
		Kind:                 txn.Kind,
		Amount:               txn.Amount.String(),
		SourceAccountID:      txn.SourceAccountID,
		DestinationAccountID: txn.DestinationAccountID,
		Description:          txn.Description,
		Processed:            txn.Processed,
		OccurredAt:           txn.OccurredAt,
		NewBalance:           newBalance.String(),
	}
	if destBalance != nil {
		s := destBalance.String()
		resp.DestinationBalance = &s
	}
	return resp
}

// RecordTransactionRequest replays a transaction with a caller-chosen id.
// Submitting the same id twice is a successful no-op the second time.
type RecordTransactionRequest struct {
	TransactionID        string  `json:"transactionID" binding:"required,uuid"`
	Kind                 string  `json:"kind" binding:"required,oneof=DEPOSIT WITHDRAWAL TRANSFER"`
	Amount               string  `json:"amount" binding:"required,money"`
	SourceAccountID      string  `json:"sourceAccountID" binding:"required"`
	DestinationAccountID *string `json:"destinationAccountID,omitempty"`
	Description          string  `json:"description"`
}

// ListTransactionsParams defines query parameters for transaction history.
type ListTransactionsParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// TransactionHistoryItem is one entry in an account's history listing.
type TransactionHistoryItem struct {
	TransactionID        string                 `json:"transactionID"`
	Kind                 domain.TransactionKind `json:"kind"`
	Amount               string                 `json:"amount"`
	SourceAccountID      string                 `json:"sourceAccountID"`
	DestinationAccountID *string                `json:"destinationAccountID,omitempty"`
	Description          string                 `json:"description"`
	Processed            bool                   `json:"processed"`
	OccurredAt           time.Time              `json:"occurredAt"`
}

// ListTransactionsResponse wraps an account's transaction history.
type ListTransactionsResponse struct {
	Transactions []TransactionHistoryItem `json:"transactions"`
}

// ToTransactionHistoryItem converts one domain transaction to its listing
// form.
func ToTransactionHistoryItem(t *domain.Transaction) TransactionHistoryItem {
	return TransactionHistoryItem{
		TransactionID:        t.TransactionID,
		Kind:                 t.Kind,
		Amount:               t.Amount.String(),
		SourceAccountID:      t.SourceAccountID,
		DestinationAccountID: t.DestinationAccountID,
		Description:          t.Description,
		Processed:            t.Processed,
		OccurredAt:           t.OccurredAt,
	}
}

// ToListTransactionsResponse converts domain transactions to a history listing.
func ToListTransactionsResponse(txns []domain.Transaction) ListTransactionsResponse {
	items := make([]TransactionHistoryItem, len(txns))
	for i := range txns {
		items[i] = ToTransactionHistoryItem(&txns[i])
	}
	return ListTransactionsResponse{Transactions: items}
}
