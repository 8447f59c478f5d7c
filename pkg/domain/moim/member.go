package moim

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrMissingIdentificationNumber is returned when building a moim without an identification number.
	ErrMissingIdentificationNumber = errors.New("identification number is required")
	// ErrMissingName is returned when building a moim without a name.
	ErrMissingName = errors.New("moim name is required")
)

// Role qualifies a membership. The value space mirrors the wire format:
// 0 is admin, 1 is a regular member.
type Role int

const (
	RoleAdmin Role = iota
	RoleMember
)

// String implements fmt.Stringer.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "ADMIN"
	case RoleMember:
		return "MEMBER"
	default:
		return "UNKNOWN"
	}
}

// MemberStatus tracks invite progress. 0 is pending, 1 is approved.
type MemberStatus int

const (
	MemberPending MemberStatus = iota
	MemberApproved
)

// String implements fmt.Stringer.
func (s MemberStatus) String() string {
	switch s {
	case MemberPending:
		return "PENDING"
	case MemberApproved:
		return "APPROVED"
	default:
		return "UNKNOWN"
	}
}

// Member links a user to a moim with a role and an approval status.
// A user has at most one membership per moim. AccountNumber is the member's
// personal account at the banking service, attached once the invite is
// accepted; reward and withdrawal payouts are sent there.
type Member struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	MoimID        uuid.UUID
	Role          Role
	Status        MemberStatus
	AccountNumber *string
	InvitedAt     time.Time
	SignedAt      *time.Time
}

// NewMember creates a PENDING membership for an invited user.
func NewMember(userID, moimID uuid.UUID, role Role) *Member {
	return &Member{
		ID:        uuid.New(),
		UserID:    userID,
		MoimID:    moimID,
		Role:      role,
		Status:    MemberPending,
		InvitedAt: time.Now(),
	}
}

// NewSignedMember creates an APPROVED membership with a linked personal
// account, used for the moim creator who joins at creation time.
func NewSignedMember(userID, moimID uuid.UUID, role Role, accountNumber string) *Member {
	now := time.Now()
	return &Member{
		ID:            uuid.New(),
		UserID:        userID,
		MoimID:        moimID,
		Role:          role,
		Status:        MemberApproved,
		AccountNumber: &accountNumber,
		InvitedAt:     now,
		SignedAt:      &now,
	}
}

// IsAdmin reports whether the membership carries the admin role.
func (m *Member) IsAdmin() bool {
	return m.Role == RoleAdmin
}

// IsApproved reports whether the invite has been accepted.
func (m *Member) IsApproved() bool {
	return m.Status == MemberApproved
}
