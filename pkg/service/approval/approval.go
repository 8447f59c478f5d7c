// Package approval implements the request lifecycle state machine for
// withdrawal requests and missions. Two machines share one shape: a member
// submits a request, an admin approves or rejects it, and the requester may
// cancel while it is still pending. A withdrawal approval moves funds
// immediately; a mission approval only activates the mission, and the payout
// happens when an admin later grades it a success.
//
// Every transition runs inside a unit of work and flips the status with a
// compare-and-swap, so exactly one of two concurrent transitions wins and
// the loser fails with ErrInvalidState. Transitions that move funds call the
// banking gateway after the swap but before commit: a gateway failure rolls
// the whole transaction back, leaving the request in its prior state.
package approval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/devdibi/dondoc/pkg/domain"
	moimdomain "github.com/devdibi/dondoc/pkg/domain/moim"
	"github.com/devdibi/dondoc/pkg/domain/request"
	"github.com/devdibi/dondoc/pkg/provider/banking"
	"github.com/devdibi/dondoc/pkg/repository"
	"github.com/google/uuid"
)

// Service is the approval engine over the request ledger.
type Service struct {
	uow     repository.UnitOfWork
	gateway banking.Gateway
	logger  *slog.Logger
}

// New creates a new Service with the provided dependencies.
func New(uow repository.UnitOfWork, gateway banking.Gateway, logger *slog.Logger) *Service {
	return &Service{uow: uow, gateway: gateway, logger: logger}
}

// approvedMember resolves the caller's APPROVED membership in the moim.
func approvedMember(ctx context.Context, uow repository.UnitOfWork, callerID, moimID uuid.UUID) (*moimdomain.Member, error) {
	member, err := uow.Members().Find(ctx, callerID, moimID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotMoimMember
		}
		return nil, err
	}
	if !member.IsApproved() {
		return nil, fmt.Errorf("%w: membership not approved", domain.ErrNotAuthorized)
	}
	return member, nil
}

// adminMember resolves the caller's membership and requires the admin role.
func adminMember(ctx context.Context, uow repository.UnitOfWork, callerID, moimID uuid.UUID) (*moimdomain.Member, error) {
	member, err := approvedMember(ctx, uow, callerID, moimID)
	if err != nil {
		return nil, err
	}
	if !member.IsAdmin() {
		return nil, fmt.Errorf("%w: admin role required", domain.ErrNotAuthorized)
	}
	return member, nil
}

// SubmitWithdrawInput carries the values of a new withdrawal request.
type SubmitWithdrawInput struct {
	TargetAccount string
	Amount        int64
	Content       string
}

// SubmitWithdraw creates a withdrawal request in REQUESTED state. Any
// APPROVED member of the moim may submit.
func (s *Service) SubmitWithdraw(ctx context.Context, callerID, moimID uuid.UUID, in SubmitWithdrawInput) (*request.Withdraw, error) {
	member, err := approvedMember(ctx, s.uow, callerID, moimID)
	if err != nil {
		return nil, err
	}
	w, err := request.NewWithdraw(moimID, member.ID, in.TargetAccount, in.Amount, in.Content)
	if err != nil {
		return nil, err
	}
	if err := s.uow.Withdraws().Create(ctx, w); err != nil {
		return nil, err
	}
	s.logger.Info("withdrawal requested",
		"withdrawID", w.ID, "moimID", moimID, "userID", callerID, "amount", in.Amount)
	return w, nil
}

// CancelWithdraw cancels a pending withdrawal request. Only the original
// requester may cancel, and only from REQUESTED.
func (s *Service) CancelWithdraw(ctx context.Context, callerID, withdrawID uuid.UUID) (*request.Withdraw, error) {
	var w *request.Withdraw
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		w, err = uow.Withdraws().Get(ctx, withdrawID)
		if err != nil {
			return err
		}
		member, err := approvedMember(ctx, uow, callerID, w.MoimID)
		if err != nil {
			return err
		}
		if w.MemberID != member.ID {
			return fmt.Errorf("%w: only the requester can cancel", domain.ErrNotAuthorized)
		}
		return s.swapWithdraw(ctx, uow, w, request.StatusCancelled, nil)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("withdrawal cancelled", "withdrawID", withdrawID, "userID", callerID)
	return w, nil
}

// ApproveWithdraw approves a pending withdrawal request and moves the funds
// from the moim account to the request's target account. Admins only. When
// the gateway transfer fails the transaction rolls back and the request
// stays REQUESTED.
func (s *Service) ApproveWithdraw(ctx context.Context, callerID, withdrawID uuid.UUID) (*request.Withdraw, error) {
	var w *request.Withdraw
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		w, err = uow.Withdraws().Get(ctx, withdrawID)
		if err != nil {
			return err
		}
		admin, err := adminMember(ctx, uow, callerID, w.MoimID)
		if err != nil {
			return err
		}
		m, err := uow.Moims().Get(ctx, w.MoimID)
		if err != nil {
			return err
		}
		if err := s.swapWithdraw(ctx, uow, w, request.StatusApproved, &admin.ID); err != nil {
			return err
		}
		if err := s.gateway.Transfer(ctx, m.AccountNumber, w.TargetAccount, w.Amount); err != nil {
			return fmt.Errorf("%w: transfer: %v", domain.ErrBankingGateway, err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("withdrawal approval failed", "withdrawID", withdrawID, "error", err)
		return nil, err
	}
	s.logger.Info("withdrawal approved", "withdrawID", withdrawID, "adminUserID", callerID, "amount", w.Amount)
	return w, nil
}

// RejectWithdraw rejects a pending withdrawal request. Admins only; no funds
// move.
func (s *Service) RejectWithdraw(ctx context.Context, callerID, withdrawID uuid.UUID) (*request.Withdraw, error) {
	var w *request.Withdraw
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		w, err = uow.Withdraws().Get(ctx, withdrawID)
		if err != nil {
			return err
		}
		admin, err := adminMember(ctx, uow, callerID, w.MoimID)
		if err != nil {
			return err
		}
		return s.swapWithdraw(ctx, uow, w, request.StatusRejected, &admin.ID)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("withdrawal rejected", "withdrawID", withdrawID, "adminUserID", callerID)
	return w, nil
}

// swapWithdraw compare-and-swaps the withdraw status and mirrors the result
// onto the in-memory value.
func (s *Service) swapWithdraw(ctx context.Context, uow repository.UnitOfWork, w *request.Withdraw, to request.Status, resolvedBy *uuid.UUID) error {
	if !w.Status.CanTransition(to) {
		return fmt.Errorf("%w: %s cannot move to %s", domain.ErrInvalidState, w.Status, to)
	}
	now := time.Now()
	ok, err := uow.Withdraws().UpdateStatus(ctx, w.ID, w.Status, to, resolvedBy, now)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: concurrent transition won", domain.ErrInvalidState)
	}
	w.Status = to
	w.ResolvedAt = &now
	w.ResolvedBy = resolvedBy
	return nil
}

// SubmitMissionInput carries the values of a new mission request.
type SubmitMissionInput struct {
	Title   string
	Content string
	Amount  int64
}

// SubmitMission creates a mission request in REQUESTED state. The requester
// becomes the mission's target member.
func (s *Service) SubmitMission(ctx context.Context, callerID, moimID uuid.UUID, in SubmitMissionInput) (*request.Mission, error) {
	member, err := approvedMember(ctx, s.uow, callerID, moimID)
	if err != nil {
		return nil, err
	}
	m, err := request.NewMission(moimID, member.ID, in.Title, in.Content, in.Amount)
	if err != nil {
		return nil, err
	}
	if err := s.uow.Missions().Create(ctx, m); err != nil {
		return nil, err
	}
	s.logger.Info("mission requested",
		"missionID", m.ID, "moimID", moimID, "userID", callerID, "amount", in.Amount)
	return m, nil
}

// CancelMission cancels a pending mission request. Requester only, from
// REQUESTED.
func (s *Service) CancelMission(ctx context.Context, callerID, missionID uuid.UUID) (*request.Mission, error) {
	return s.transitionMission(ctx, callerID, missionID, request.StatusCancelled, actorRequester, false)
}

// ApproveMission activates a pending mission. Admins only; no funds move
// until the mission is graded a success.
func (s *Service) ApproveMission(ctx context.Context, callerID, missionID uuid.UUID) (*request.Mission, error) {
	return s.transitionMission(ctx, callerID, missionID, request.StatusApproved, actorAdmin, false)
}

// RejectMission rejects a pending mission. Admins only.
func (s *Service) RejectMission(ctx context.Context, callerID, missionID uuid.UUID) (*request.Mission, error) {
	return s.transitionMission(ctx, callerID, missionID, request.StatusRejected, actorAdmin, false)
}

// SuccessMission grades an active mission as achieved and pays the reward to
// the target member's personal account. Admins only. A gateway failure rolls
// the grade back.
func (s *Service) SuccessMission(ctx context.Context, callerID, missionID uuid.UUID) (*request.Mission, error) {
	return s.transitionMission(ctx, callerID, missionID, request.StatusSuccess, actorAdmin, true)
}

// FailMission grades an active mission as failed. Admins only; no funds
// move.
func (s *Service) FailMission(ctx context.Context, callerID, missionID uuid.UUID) (*request.Mission, error) {
	return s.transitionMission(ctx, callerID, missionID, request.StatusFail, actorAdmin, false)
}

// QuitMission abandons an active mission. Only the mission's target member
// may quit; no funds move.
func (s *Service) QuitMission(ctx context.Context, callerID, missionID uuid.UUID) (*request.Mission, error) {
	return s.transitionMission(ctx, callerID, missionID, request.StatusQuit, actorRequester, false)
}

type actorRule int

const (
	actorRequester actorRule = iota
	actorAdmin
)

func (s *Service) transitionMission(ctx context.Context, callerID, missionID uuid.UUID, to request.Status, rule actorRule, payReward bool) (*request.Mission, error) {
	var m *request.Mission
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		m, err = uow.Missions().Get(ctx, missionID)
		if err != nil {
			return err
		}

		var resolvedBy *uuid.UUID
		switch rule {
		case actorRequester:
			member, err := approvedMember(ctx, uow, callerID, m.MoimID)
			if err != nil {
				return err
			}
			if m.MemberID != member.ID {
				return fmt.Errorf("%w: only the mission's member may do this", domain.ErrNotAuthorized)
			}
		case actorAdmin:
			admin, err := adminMember(ctx, uow, callerID, m.MoimID)
			if err != nil {
				return err
			}
			resolvedBy = &admin.ID
		}

		if !m.Status.CanTransition(to) {
			return fmt.Errorf("%w: %s cannot move to %s", domain.ErrInvalidState, m.Status, to)
		}
		now := time.Now()
		ok, err := uow.Missions().UpdateStatus(ctx, m.ID, m.Status, to, resolvedBy, now)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: concurrent transition won", domain.ErrInvalidState)
		}

		if payReward {
			if err := s.payReward(ctx, uow, m); err != nil {
				return err
			}
		}

		m.Status = to
		m.ResolvedAt = &now
		m.ResolvedBy = resolvedBy
		return nil
	})
	if err != nil {
		s.logger.Error("mission transition failed",
			"missionID", missionID, "target", to, "userID", callerID, "error", err)
		return nil, err
	}
	s.logger.Info("mission transitioned", "missionID", missionID, "status", to, "userID", callerID)
	return m, nil
}

// payReward transfers the mission reward from the moim account to the target
// member's personal account.
func (s *Service) payReward(ctx context.Context, uow repository.UnitOfWork, m *request.Mission) error {
	mo, err := uow.Moims().Get(ctx, m.MoimID)
	if err != nil {
		return err
	}
	target, err := uow.Members().Get(ctx, m.MemberID)
	if err != nil {
		return err
	}
	if target.AccountNumber == nil {
		return fmt.Errorf("%w: mission member has no linked account", domain.ErrInvalidState)
	}
	if err := s.gateway.Transfer(ctx, mo.AccountNumber, *target.AccountNumber, m.Amount); err != nil {
		return fmt.Errorf("%w: reward transfer: %v", domain.ErrBankingGateway, err)
	}
	return nil
}

// ListFilter narrows ListRequests output. Zero values match everything.
type ListFilter struct {
	MoimID *uuid.UUID
	Type   request.Type
	Status request.Status
}

// RequestList bundles the two request kinds a caller can see.
type RequestList struct {
	Withdraws []*request.Withdraw
	Missions  []*request.Mission
}

// ListRequests lists the withdrawal and mission requests visible to the
// caller: those of every moim the caller is an approved member of,
// optionally narrowed to one moim, one kind, or one status.
func (s *Service) ListRequests(ctx context.Context, callerID uuid.UUID, filter ListFilter) (*RequestList, error) {
	moimIDs, _, err := s.callerScope(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if filter.MoimID != nil {
		found := false
		for _, id := range moimIDs {
			if id == *filter.MoimID {
				found = true
				break
			}
		}
		if !found {
			return nil, domain.ErrNotMoimMember
		}
		moimIDs = []uuid.UUID{*filter.MoimID}
	}

	list := &RequestList{}
	if filter.Type == "" || filter.Type == request.TypeWithdraw {
		list.Withdraws, err = s.uow.Withdraws().ListByMoims(ctx, moimIDs, filter.Status)
		if err != nil {
			return nil, err
		}
	}
	if filter.Type == "" || filter.Type == request.TypeMission {
		list.Missions, err = s.uow.Missions().ListByMoims(ctx, moimIDs, filter.Status)
		if err != nil {
			return nil, err
		}
	}
	return list, nil
}

// RequestDetail is the detail view of a single request of either kind.
type RequestDetail struct {
	Type     request.Type
	Withdraw *request.Withdraw
	Mission  *request.Mission
}

// GetRequestDetail returns one request. The caller must be the requester or
// an admin of the owning moim.
func (s *Service) GetRequestDetail(ctx context.Context, callerID uuid.UUID, typ request.Type, id uuid.UUID) (*RequestDetail, error) {
	var moimID, requesterID uuid.UUID
	detail := &RequestDetail{Type: typ}
	switch typ {
	case request.TypeWithdraw:
		w, err := s.uow.Withdraws().Get(ctx, id)
		if err != nil {
			return nil, err
		}
		detail.Withdraw = w
		moimID, requesterID = w.MoimID, w.MemberID
	case request.TypeMission:
		m, err := s.uow.Missions().Get(ctx, id)
		if err != nil {
			return nil, err
		}
		detail.Mission = m
		moimID, requesterID = m.MoimID, m.MemberID
	default:
		return nil, fmt.Errorf("%w: unknown request type %q", domain.ErrNotFound, typ)
	}

	member, err := approvedMember(ctx, s.uow, callerID, moimID)
	if err != nil {
		return nil, err
	}
	if member.ID != requesterID && !member.IsAdmin() {
		return nil, fmt.Errorf("%w: requester or admin only", domain.ErrNotAuthorized)
	}
	return detail, nil
}

// ListMyMissions lists every mission targeting the caller across all moims.
func (s *Service) ListMyMissions(ctx context.Context, callerID uuid.UUID) ([]*request.Mission, error) {
	_, memberIDs, err := s.callerScope(ctx, callerID)
	if err != nil {
		return nil, err
	}
	return s.uow.Missions().ListByMembers(ctx, memberIDs)
}

// callerScope collects the moim and membership ids of the caller's approved
// memberships.
func (s *Service) callerScope(ctx context.Context, callerID uuid.UUID) ([]uuid.UUID, []uuid.UUID, error) {
	memberships, err := s.uow.Members().ListByUser(ctx, callerID)
	if err != nil {
		return nil, nil, err
	}
	moimIDs := make([]uuid.UUID, 0, len(memberships))
	memberIDs := make([]uuid.UUID, 0, len(memberships))
	for _, m := range memberships {
		if !m.IsApproved() {
			continue
		}
		moimIDs = append(moimIDs, m.MoimID)
		memberIDs = append(memberIDs, m.ID)
	}
	return moimIDs, memberIDs, nil
}
