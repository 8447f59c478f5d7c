// Package moim holds the domain model for finance-sharing groups ("moims")
// and their memberships. A moim owns a dedicated account at the external
// banking service, addressed by its identification number; the backend never
// tracks a raw balance locally.
package moim

import (
	"time"

	"github.com/google/uuid"
)

// Moim represents a finance-sharing group backed by an external bank account.
//
// Invariants:
// - IdentificationNumber is unique and immutable after creation.
// - AccountID/AccountNumber address the group account at the banking service.
type Moim struct {
	ID                   uuid.UUID
	IdentificationNumber string
	Name                 string
	Introduce            string
	AccountID            int64
	AccountNumber        string
	MoimType             int
	MemberCount          int
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Builder provides a fluent API for constructing Moim instances.
type Builder struct {
	id                   uuid.UUID
	identificationNumber string
	name                 string
	introduce            string
	accountID            int64
	accountNumber        string
	moimType             int
	memberCount          int
	createdAt            time.Time
}

// New creates a new Builder with a fresh UUID and creation timestamp.
func New() *Builder {
	return &Builder{
		id:        uuid.New(),
		createdAt: time.Now(),
	}
}

// WithID sets the ID for the moim being built.
func (b *Builder) WithID(id uuid.UUID) *Builder {
	b.id = id
	return b
}

// WithIdentificationNumber sets the externally issued identification number.
// This is a mandatory field.
func (b *Builder) WithIdentificationNumber(n string) *Builder {
	b.identificationNumber = n
	return b
}

// WithName sets the moim name. This is a mandatory field.
func (b *Builder) WithName(name string) *Builder {
	b.name = name
	return b
}

// WithIntroduce sets the moim description.
func (b *Builder) WithIntroduce(introduce string) *Builder {
	b.introduce = introduce
	return b
}

// WithAccount sets the external account id and number returned by the
// banking service when the group account was opened.
func (b *Builder) WithAccount(accountID int64, accountNumber string) *Builder {
	b.accountID = accountID
	b.accountNumber = accountNumber
	return b
}

// WithMoimType sets the group type.
func (b *Builder) WithMoimType(t int) *Builder {
	b.moimType = t
	return b
}

// WithMemberCount sets the member count at creation time.
func (b *Builder) WithMemberCount(n int) *Builder {
	b.memberCount = n
	return b
}

// WithCreatedAt sets the creation timestamp. This is primarily for hydrating
// an existing moim from a data store.
func (b *Builder) WithCreatedAt(t time.Time) *Builder {
	b.createdAt = t
	return b
}

// Build finalizes the construction of the Moim, validating mandatory fields.
func (b *Builder) Build() (*Moim, error) {
	if b.identificationNumber == "" {
		return nil, ErrMissingIdentificationNumber
	}
	if b.name == "" {
		return nil, ErrMissingName
	}
	return &Moim{
		ID:                   b.id,
		IdentificationNumber: b.identificationNumber,
		Name:                 b.name,
		Introduce:            b.introduce,
		AccountID:            b.accountID,
		AccountNumber:        b.accountNumber,
		MoimType:             b.moimType,
		MemberCount:          b.memberCount,
		CreatedAt:            b.createdAt,
	}, nil
}
