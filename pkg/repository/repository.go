// Package repository defines the data access contracts used by the service
// layer. Implementations live under infra/repository and return domain
// errors (domain.ErrNotFound and friends), never driver errors.
package repository

import (
	"context"
	"time"

	"github.com/devdibi/dondoc/pkg/domain/moim"
	"github.com/devdibi/dondoc/pkg/domain/request"
	"github.com/google/uuid"
)

// MoimRepository defines data access for moims.
type MoimRepository interface {
	Create(ctx context.Context, m *moim.Moim) error
	Get(ctx context.Context, id uuid.UUID) (*moim.Moim, error)
	// ExistsIdentification reports whether a moim already uses the given
	// identification number.
	ExistsIdentification(ctx context.Context, identificationNumber string) (bool, error)
	// ListByUser lists the moims the user has a membership in, regardless
	// of invite status.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*moim.Moim, error)
}

// MemberRepository defines data access for moim memberships.
type MemberRepository interface {
	Create(ctx context.Context, m *moim.Member) error
	Get(ctx context.Context, id uuid.UUID) (*moim.Member, error)
	// Find returns the membership linking the user to the moim.
	Find(ctx context.Context, userID, moimID uuid.UUID) (*moim.Member, error)
	ListByMoim(ctx context.Context, moimID uuid.UUID) ([]*moim.Member, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*moim.Member, error)
	// Approve flips a PENDING membership to APPROVED, attaching the
	// member's personal account and signing timestamp. Returns false when
	// the membership was not PENDING, so a second accept loses cleanly.
	Approve(ctx context.Context, id uuid.UUID, accountNumber string, signedAt time.Time) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// WithdrawRepository defines data access for withdrawal requests.
type WithdrawRepository interface {
	Create(ctx context.Context, w *request.Withdraw) error
	Get(ctx context.Context, id uuid.UUID) (*request.Withdraw, error)
	// ListByMoims lists requests across the given moims, newest first.
	// An empty status matches all statuses.
	ListByMoims(ctx context.Context, moimIDs []uuid.UUID, status request.Status) ([]*request.Withdraw, error)
	// UpdateStatus performs a compare-and-swap on the status column.
	// It returns false when the row was not in the expected from status,
	// which is how a lost transition race is detected.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to request.Status, resolvedBy *uuid.UUID, resolvedAt time.Time) (bool, error)
}

// MissionRepository defines data access for missions.
type MissionRepository interface {
	Create(ctx context.Context, m *request.Mission) error
	Get(ctx context.Context, id uuid.UUID) (*request.Mission, error)
	ListByMoims(ctx context.Context, moimIDs []uuid.UUID, status request.Status) ([]*request.Mission, error)
	// ListByMembers lists missions targeting any of the given memberships.
	ListByMembers(ctx context.Context, memberIDs []uuid.UUID) ([]*request.Mission, error)
	// UpdateStatus performs a compare-and-swap on the status column, as on
	// WithdrawRepository.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to request.Status, resolvedBy *uuid.UUID, resolvedAt time.Time) (bool, error)
}
