package request

import (
	"time"

	"github.com/google/uuid"
)

// Mission is a conditional task tied to a reward payout. The requesting
// member is the mission's target: an admin approves the terms first
// (REQUESTED to APPROVED, no fund movement), then grades the outcome.
// Only SUCCESS triggers the reward transfer.
type Mission struct {
	ID         uuid.UUID
	MoimID     uuid.UUID
	MemberID   uuid.UUID
	Title      string
	Content    string
	Amount     int64
	Status     Status
	CreatedAt  time.Time
	ResolvedAt *time.Time
	ResolvedBy *uuid.UUID
}

// NewMission creates a mission request in REQUESTED state.
func NewMission(moimID, memberID uuid.UUID, title, content string, amount int64) (*Mission, error) {
	if amount <= 0 {
		return nil, ErrAmountMustBePositive
	}
	return &Mission{
		ID:        uuid.New(),
		MoimID:    moimID,
		MemberID:  memberID,
		Title:     title,
		Content:   content,
		Amount:    amount,
		Status:    StatusRequested,
		CreatedAt: time.Now(),
	}, nil
}
