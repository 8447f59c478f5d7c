// Package banking defines the contract with the external banking service
// that owns account truth for every moim. The backend treats each call as a
// fallible remote operation: a transition that needs fund movement calls the
// gateway before committing any local state and never retries on its own.
package banking

import (
	"context"
	"time"
)

// DefaultBankCode is the bank code used when opening moim accounts.
const DefaultBankCode = 108

// OpenedAccount is the banking service's answer to an account-open call.
type OpenedAccount struct {
	AccountID     int64
	AccountNumber string
}

// HistoryEntry is one transaction in a moim account's history.
type HistoryEntry struct {
	ID              int64     `json:"historyId"`
	TransactionType string    `json:"transactionType"`
	Amount          int64     `json:"amount"`
	Balance         int64     `json:"balance"`
	Content         string    `json:"content"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Gateway is the adapter over the external banking service.
type Gateway interface {
	// OpenOwner registers the moim as an account owner under its
	// identification number. Must succeed before OpenAccount.
	OpenOwner(ctx context.Context, identificationNumber, moimName string) error

	// OpenAccount opens the moim's shared account and returns its address.
	OpenAccount(ctx context.Context, moimName string, bankCode int, identificationNumber, password string) (*OpenedAccount, error)

	// Transfer moves amount from one account to another.
	Transfer(ctx context.Context, fromAccount, toAccount string, amount int64) error

	// History lists the transactions of the given account.
	History(ctx context.Context, identificationNumber, accountNumber string) ([]HistoryEntry, error)

	// HistoryDetail returns a single transaction of the given account.
	HistoryDetail(ctx context.Context, identificationNumber, accountNumber string, historyID int64) (*HistoryEntry, error)
}
