package mockbank

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/devdibi/dondoc/pkg/provider/banking"
)

// Transfer records one transfer the gateway was asked to perform.
type Transfer struct {
	FromAccount string
	ToAccount   string
	Amount      int64
}

// MockBank simulates the banking service for tests and local development.
//
// Usage:
// - OpenOwner/OpenAccount register owners and hand out sequential accounts.
// - Transfer appends to Transfers so tests can assert fund movement happened
//   exactly once with the expected arguments.
// - Set FailTransfers to make Transfer return an error, exercising rollback
//   paths in callers.
//
// This is NOT for production use.
type MockBank struct {
	mu            sync.Mutex
	owners        map[string]string
	nextAccountID int64
	transfers     []Transfer
	history       map[string][]banking.HistoryEntry

	// FailTransfers makes every Transfer call fail when set.
	FailTransfers bool
}

// New creates a new MockBank.
func New() *MockBank {
	return &MockBank{
		owners:  make(map[string]string),
		history: make(map[string][]banking.HistoryEntry),
	}
}

// OpenOwner registers an owner under its identification number.
func (m *MockBank) OpenOwner(ctx context.Context, identificationNumber, moimName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.owners[identificationNumber]; ok {
		return fmt.Errorf("owner %s already registered", identificationNumber)
	}
	m.owners[identificationNumber] = moimName
	return nil
}

// OpenAccount opens an account for a registered owner.
func (m *MockBank) OpenAccount(ctx context.Context, moimName string, bankCode int, identificationNumber, password string) (*banking.OpenedAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.owners[identificationNumber]; !ok {
		return nil, fmt.Errorf("owner %s not registered", identificationNumber)
	}
	m.nextAccountID++
	return &banking.OpenedAccount{
		AccountID:     m.nextAccountID,
		AccountNumber: fmt.Sprintf("%03d-%08d", bankCode, m.nextAccountID),
	}, nil
}

// Transfer records the transfer, or fails when FailTransfers is set.
func (m *MockBank) Transfer(ctx context.Context, fromAccount, toAccount string, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailTransfers {
		return fmt.Errorf("transfer from %s rejected", fromAccount)
	}
	m.transfers = append(m.transfers, Transfer{
		FromAccount: fromAccount,
		ToAccount:   toAccount,
		Amount:      amount,
	})
	m.history[fromAccount] = append(m.history[fromAccount], banking.HistoryEntry{
		ID:              int64(len(m.transfers)),
		TransactionType: "WITHDRAW",
		Amount:          amount,
		Content:         toAccount,
		CreatedAt:       time.Now(),
	})
	return nil
}

// History lists recorded transactions of an account.
func (m *MockBank) History(ctx context.Context, identificationNumber, accountNumber string) ([]banking.HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := make([]banking.HistoryEntry, len(m.history[accountNumber]))
	copy(entries, m.history[accountNumber])
	return entries, nil
}

// HistoryDetail returns one recorded transaction of an account.
func (m *MockBank) HistoryDetail(ctx context.Context, identificationNumber, accountNumber string, historyID int64) (*banking.HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.history[accountNumber] {
		if e.ID == historyID {
			entry := e
			return &entry, nil
		}
	}
	return nil, fmt.Errorf("history %d not found", historyID)
}

// Transfers returns a copy of every transfer performed so far.
func (m *MockBank) Transfers() []Transfer {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Transfer, len(m.transfers))
	copy(out, m.transfers)
	return out
}

// Ensure MockBank implements banking.Gateway.
var _ banking.Gateway = (*MockBank)(nil)
