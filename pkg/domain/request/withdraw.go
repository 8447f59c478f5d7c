package request

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrAmountMustBePositive is returned when a request is created with a non-positive amount.
	ErrAmountMustBePositive = errors.New("request amount must be positive")
	// ErrMissingTargetAccount is returned when a withdrawal request has no target account.
	ErrMissingTargetAccount = errors.New("target account is required")
)

// Withdraw is a member's request to move funds out of the moim account.
// It is owned by its moim and cascade-deleted with the requesting member.
type Withdraw struct {
	ID            uuid.UUID
	MoimID        uuid.UUID
	MemberID      uuid.UUID
	TargetAccount string
	Amount        int64
	Content       string
	Status        Status
	CreatedAt     time.Time
	ResolvedAt    *time.Time
	ResolvedBy    *uuid.UUID
}

// NewWithdraw creates a withdrawal request in REQUESTED state.
func NewWithdraw(moimID, memberID uuid.UUID, targetAccount string, amount int64, content string) (*Withdraw, error) {
	if amount <= 0 {
		return nil, ErrAmountMustBePositive
	}
	if targetAccount == "" {
		return nil, ErrMissingTargetAccount
	}
	return &Withdraw{
		ID:            uuid.New(),
		MoimID:        moimID,
		MemberID:      memberID,
		TargetAccount: targetAccount,
		Amount:        amount,
		Content:       content,
		Status:        StatusRequested,
		CreatedAt:     time.Now(),
	}, nil
}
