// Package moim provides business logic for moim lifecycle and membership:
// creating a moim (including opening its account at the banking service),
// inviting members, accepting or declining invites, and reading the moim's
// account history through the gateway.
package moim

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/devdibi/dondoc/pkg/domain"
	moimdomain "github.com/devdibi/dondoc/pkg/domain/moim"
	"github.com/devdibi/dondoc/pkg/provider/banking"
	"github.com/devdibi/dondoc/pkg/repository"
	"github.com/google/uuid"
)

const identificationNumberLength = 8

// Service provides moim and membership operations.
type Service struct {
	uow     repository.UnitOfWork
	gateway banking.Gateway
	logger  *slog.Logger

	// newIdentificationNumber is swappable in tests to force collisions.
	newIdentificationNumber func() string
}

// New creates a new Service with the provided dependencies.
func New(uow repository.UnitOfWork, gateway banking.Gateway, logger *slog.Logger) *Service {
	return &Service{
		uow:                     uow,
		gateway:                 gateway,
		logger:                  logger,
		newIdentificationNumber: makeIdentificationNumber,
	}
}

// NewWithIdentificationSource creates a Service drawing identification
// numbers from source instead of the default random generator.
func NewWithIdentificationSource(uow repository.UnitOfWork, gateway banking.Gateway, logger *slog.Logger, source func() string) *Service {
	s := New(uow, gateway, logger)
	s.newIdentificationNumber = source
	return s
}

// makeIdentificationNumber draws a random numeric identifier for a new moim.
// Uniqueness is enforced against the store, not by the generator.
func makeIdentificationNumber() string {
	const digits = "0123456789"
	buf := make([]byte, identificationNumberLength)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("identification number entropy unavailable: %v", err))
	}
	for i, b := range buf {
		buf[i] = digits[int(b)%len(digits)]
	}
	return string(buf)
}

// CreateMoimInput carries the values needed to create a moim.
type CreateMoimInput struct {
	Name          string
	Introduce     string
	Password      string
	MoimType      int
	AccountNumber string      // creator's personal account
	Managers      []uuid.UUID // users invited as co-admins
}

// CreateMoim opens the moim's owner and account at the banking service and
// persists the moim with its initial memberships: the caller as a signed
// admin and each manager as a pending admin invite.
//
// The remote owner is not compensated when a later step fails; the gateway
// call order (owner first, then account) matches the banking service's
// contract.
func (s *Service) CreateMoim(ctx context.Context, callerID uuid.UUID, in CreateMoimInput) (*moimdomain.Moim, error) {
	logger := s.logger.With("userID", callerID, "moimName", in.Name)

	identificationNumber := s.newIdentificationNumber()
	exists, err := s.uow.Moims().ExistsIdentification(ctx, identificationNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		logger.Warn("identification number collision", "identificationNumber", identificationNumber)
		return nil, domain.ErrDuplicateIdentifier
	}

	if err := s.gateway.OpenOwner(ctx, identificationNumber, in.Name); err != nil {
		logger.Error("owner creation failed", "error", err)
		return nil, fmt.Errorf("%w: open owner: %v", domain.ErrBankingGateway, err)
	}
	opened, err := s.gateway.OpenAccount(ctx, in.Name, banking.DefaultBankCode, identificationNumber, in.Password)
	if err != nil {
		logger.Error("account creation failed", "error", err)
		return nil, fmt.Errorf("%w: open account: %v", domain.ErrBankingGateway, err)
	}

	m, err := moimdomain.New().
		WithIdentificationNumber(identificationNumber).
		WithName(in.Name).
		WithIntroduce(in.Introduce).
		WithAccount(opened.AccountID, opened.AccountNumber).
		WithMoimType(in.MoimType).
		WithMemberCount(1 + len(in.Managers)).
		Build()
	if err != nil {
		return nil, err
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if err := uow.Moims().Create(ctx, m); err != nil {
			return err
		}
		creator := moimdomain.NewSignedMember(callerID, m.ID, moimdomain.RoleAdmin, in.AccountNumber)
		if err := uow.Members().Create(ctx, creator); err != nil {
			return err
		}
		for _, managerID := range in.Managers {
			manager := moimdomain.NewMember(managerID, m.ID, moimdomain.RoleAdmin)
			if err := uow.Members().Create(ctx, manager); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("moim creation failed", "error", err)
		return nil, err
	}
	logger.Info("moim created",
		"moimID", m.ID, "identificationNumber", identificationNumber, "accountNumber", m.AccountNumber)
	return m, nil
}

// FindMembership returns the caller's membership in the moim. It is the
// authorization precondition for nearly every group operation.
func (s *Service) FindMembership(ctx context.Context, userID, moimID uuid.UUID) (*moimdomain.Member, error) {
	member, err := s.uow.Members().Find(ctx, userID, moimID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotMoimMember
		}
		return nil, err
	}
	return member, nil
}

// ListMoims lists the moims the user belongs to or is invited to.
func (s *Service) ListMoims(ctx context.Context, userID uuid.UUID) ([]*moimdomain.Moim, error) {
	return s.uow.Moims().ListByUser(ctx, userID)
}

// MoimDetail bundles a moim with its memberships.
type MoimDetail struct {
	Moim    *moimdomain.Moim
	Members []*moimdomain.Member
}

// GetMoimDetail returns the moim with its member list. The caller must be a
// member of the moim.
func (s *Service) GetMoimDetail(ctx context.Context, userID, moimID uuid.UUID) (*MoimDetail, error) {
	if _, err := s.FindMembership(ctx, userID, moimID); err != nil {
		return nil, err
	}
	m, err := s.uow.Moims().Get(ctx, moimID)
	if err != nil {
		return nil, err
	}
	members, err := s.uow.Members().ListByMoim(ctx, moimID)
	if err != nil {
		return nil, err
	}
	return &MoimDetail{Moim: m, Members: members}, nil
}

// Invite creates PENDING member invites for each user. The caller must
// already be a member of the moim; inviting a user who already has a
// membership fails the whole call.
func (s *Service) Invite(ctx context.Context, callerID, moimID uuid.UUID, invitees []uuid.UUID) (int, error) {
	logger := s.logger.With("userID", callerID, "moimID", moimID)
	if _, err := s.FindMembership(ctx, callerID, moimID); err != nil {
		return 0, err
	}
	if _, err := s.uow.Moims().Get(ctx, moimID); err != nil {
		return 0, err
	}

	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		for _, inviteeID := range invitees {
			_, err := uow.Members().Find(ctx, inviteeID, moimID)
			if err == nil {
				return fmt.Errorf("%w: user %s", domain.ErrAlreadyInvited, inviteeID)
			}
			if !errors.Is(err, domain.ErrNotFound) {
				return err
			}
			invite := moimdomain.NewMember(inviteeID, moimID, moimdomain.RoleMember)
			if err := uow.Members().Create(ctx, invite); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("invite failed", "error", err)
		return 0, err
	}
	logger.Info("members invited", "count", len(invitees))
	return len(invitees), nil
}

// AcceptInvite flips the caller's PENDING membership to APPROVED, attaching
// the personal account that payouts will be sent to. Accepting twice fails
// with ErrInvalidState.
func (s *Service) AcceptInvite(ctx context.Context, callerID, moimID uuid.UUID, accountNumber string) error {
	member, err := s.FindMembership(ctx, callerID, moimID)
	if err != nil {
		return err
	}
	ok, err := s.uow.Members().Approve(ctx, member.ID, accountNumber, time.Now())
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: invite already accepted", domain.ErrInvalidState)
	}
	s.logger.Info("invite accepted", "userID", callerID, "moimID", moimID)
	return nil
}

// DeclineInvite deletes the caller's PENDING membership.
func (s *Service) DeclineInvite(ctx context.Context, callerID, moimID uuid.UUID) error {
	member, err := s.FindMembership(ctx, callerID, moimID)
	if err != nil {
		return err
	}
	if member.Status != moimdomain.MemberPending {
		return fmt.Errorf("%w: invite already accepted", domain.ErrInvalidState)
	}
	if err := s.uow.Members().Delete(ctx, member.ID); err != nil {
		return err
	}
	s.logger.Info("invite declined", "userID", callerID, "moimID", moimID)
	return nil
}

// HistoryList fetches the moim account's transaction history from the
// banking service. The caller must be a member of the moim.
func (s *Service) HistoryList(ctx context.Context, callerID, moimID uuid.UUID) ([]banking.HistoryEntry, error) {
	m, err := s.memberMoim(ctx, callerID, moimID)
	if err != nil {
		return nil, err
	}
	entries, err := s.gateway.History(ctx, m.IdentificationNumber, m.AccountNumber)
	if err != nil {
		return nil, fmt.Errorf("%w: history: %v", domain.ErrBankingGateway, err)
	}
	return entries, nil
}

// HistoryDetail fetches one transaction of the moim account.
func (s *Service) HistoryDetail(ctx context.Context, callerID, moimID uuid.UUID, historyID int64) (*banking.HistoryEntry, error) {
	m, err := s.memberMoim(ctx, callerID, moimID)
	if err != nil {
		return nil, err
	}
	entry, err := s.gateway.HistoryDetail(ctx, m.IdentificationNumber, m.AccountNumber, historyID)
	if err != nil {
		return nil, fmt.Errorf("%w: history detail: %v", domain.ErrBankingGateway, err)
	}
	return entry, nil
}

func (s *Service) memberMoim(ctx context.Context, callerID, moimID uuid.UUID) (*moimdomain.Moim, error) {
	if _, err := s.FindMembership(ctx, callerID, moimID); err != nil {
		return nil, err
	}
	return s.uow.Moims().Get(ctx, moimID)
}
