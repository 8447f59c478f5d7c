// Package memuow provides an in-memory repository.UnitOfWork for service and
// handler tests. It stores values, hands out copies, and restores a snapshot
// when a Do callback fails, matching the rollback behavior of the real
// transactional implementation.
package memuow

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/devdibi/dondoc/pkg/domain"
	"github.com/devdibi/dondoc/pkg/domain/moim"
	"github.com/devdibi/dondoc/pkg/domain/request"
	"github.com/devdibi/dondoc/pkg/repository"
	"github.com/google/uuid"
)

// UoW is the in-memory unit of work.
type UoW struct {
	mu        sync.Mutex
	moims     map[uuid.UUID]moim.Moim
	members   map[uuid.UUID]moim.Member
	withdraws map[uuid.UUID]request.Withdraw
	missions  map[uuid.UUID]request.Mission
}

// New creates an empty in-memory unit of work.
func New() *UoW {
	return &UoW{
		moims:     make(map[uuid.UUID]moim.Moim),
		members:   make(map[uuid.UUID]moim.Member),
		withdraws: make(map[uuid.UUID]request.Withdraw),
		missions:  make(map[uuid.UUID]request.Mission),
	}
}

// Do runs fn and restores the pre-call state when it fails. Callbacks are
// not isolated from each other; tests exercising lost races do so through
// the compare-and-swap results, not through parallel callbacks.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	u.mu.Lock()
	snapMoims := copyMap(u.moims)
	snapMembers := copyMap(u.members)
	snapWithdraws := copyMap(u.withdraws)
	snapMissions := copyMap(u.missions)
	u.mu.Unlock()

	if err := fn(u); err != nil {
		u.mu.Lock()
		u.moims = snapMoims
		u.members = snapMembers
		u.withdraws = snapWithdraws
		u.missions = snapMissions
		u.mu.Unlock()
		return err
	}
	return nil
}

func copyMap[V any](in map[uuid.UUID]V) map[uuid.UUID]V {
	out := make(map[uuid.UUID]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Moims implements repository.UnitOfWork.
func (u *UoW) Moims() repository.MoimRepository { return (*moimRepo)(u) }

// Members implements repository.UnitOfWork.
func (u *UoW) Members() repository.MemberRepository { return (*memberRepo)(u) }

// Withdraws implements repository.UnitOfWork.
func (u *UoW) Withdraws() repository.WithdrawRepository { return (*withdrawRepo)(u) }

// Missions implements repository.UnitOfWork.
func (u *UoW) Missions() repository.MissionRepository { return (*missionRepo)(u) }

// SeedMoim stores a moim directly, for test setup.
func (u *UoW) SeedMoim(m *moim.Moim) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.moims[m.ID] = *m
}

// SeedMember stores a membership directly, for test setup.
func (u *UoW) SeedMember(m *moim.Member) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.members[m.ID] = *m
}

type moimRepo UoW

func (r *moimRepo) Create(ctx context.Context, m *moim.Moim) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.moims {
		if existing.IdentificationNumber == m.IdentificationNumber {
			return domain.ErrDuplicateIdentifier
		}
	}
	r.moims[m.ID] = *m
	return nil
}

func (r *moimRepo) Get(ctx context.Context, id uuid.UUID) (*moim.Moim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.moims[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &m, nil
}

func (r *moimRepo) ExistsIdentification(ctx context.Context, identificationNumber string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.moims {
		if m.IdentificationNumber == identificationNumber {
			return true, nil
		}
	}
	return false, nil
}

func (r *moimRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*moim.Moim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*moim.Moim
	for _, member := range r.members {
		if member.UserID != userID {
			continue
		}
		if m, ok := r.moims[member.MoimID]; ok {
			m := m
			out = append(out, &m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type memberRepo UoW

func (r *memberRepo) Create(ctx context.Context, m *moim.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.members {
		if existing.UserID == m.UserID && existing.MoimID == m.MoimID {
			return domain.ErrAlreadyInvited
		}
	}
	r.members[m.ID] = *m
	return nil
}

func (r *memberRepo) Get(ctx context.Context, id uuid.UUID) (*moim.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &m, nil
}

func (r *memberRepo) Find(ctx context.Context, userID, moimID uuid.UUID) (*moim.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members {
		if m.UserID == userID && m.MoimID == moimID {
			m := m
			return &m, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memberRepo) ListByMoim(ctx context.Context, moimID uuid.UUID) ([]*moim.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*moim.Member
	for _, m := range r.members {
		if m.MoimID == moimID {
			m := m
			out = append(out, &m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InvitedAt.Before(out[j].InvitedAt) })
	return out, nil
}

func (r *memberRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*moim.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*moim.Member
	for _, m := range r.members {
		if m.UserID == userID {
			m := m
			out = append(out, &m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InvitedAt.Before(out[j].InvitedAt) })
	return out, nil
}

func (r *memberRepo) Approve(ctx context.Context, id uuid.UUID, accountNumber string, signedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[id]
	if !ok || m.Status != moim.MemberPending {
		return false, nil
	}
	m.Status = moim.MemberApproved
	m.AccountNumber = &accountNumber
	m.SignedAt = &signedAt
	r.members[id] = m
	return true, nil
}

func (r *memberRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.members, id)
	return nil
}

type withdrawRepo UoW

func (r *withdrawRepo) Create(ctx context.Context, w *request.Withdraw) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.withdraws[w.ID] = *w
	return nil
}

func (r *withdrawRepo) Get(ctx context.Context, id uuid.UUID) (*request.Withdraw, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.withdraws[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &w, nil
}

func (r *withdrawRepo) ListByMoims(ctx context.Context, moimIDs []uuid.UUID, status request.Status) ([]*request.Withdraw, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*request.Withdraw
	for _, w := range r.withdraws {
		if !containsID(moimIDs, w.MoimID) {
			continue
		}
		if status != "" && w.Status != status {
			continue
		}
		w := w
		out = append(out, &w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *withdrawRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to request.Status, resolvedBy *uuid.UUID, resolvedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.withdraws[id]
	if !ok || w.Status != from {
		return false, nil
	}
	w.Status = to
	w.ResolvedAt = &resolvedAt
	w.ResolvedBy = resolvedBy
	r.withdraws[id] = w
	return true, nil
}

type missionRepo UoW

func (r *missionRepo) Create(ctx context.Context, m *request.Mission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.missions[m.ID] = *m
	return nil
}

func (r *missionRepo) Get(ctx context.Context, id uuid.UUID) (*request.Mission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.missions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &m, nil
}

func (r *missionRepo) ListByMoims(ctx context.Context, moimIDs []uuid.UUID, status request.Status) ([]*request.Mission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*request.Mission
	for _, m := range r.missions {
		if !containsID(moimIDs, m.MoimID) {
			continue
		}
		if status != "" && m.Status != status {
			continue
		}
		m := m
		out = append(out, &m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *missionRepo) ListByMembers(ctx context.Context, memberIDs []uuid.UUID) ([]*request.Mission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*request.Mission
	for _, m := range r.missions {
		if !containsID(memberIDs, m.MemberID) {
			continue
		}
		m := m
		out = append(out, &m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *missionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to request.Status, resolvedBy *uuid.UUID, resolvedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.missions[id]
	if !ok || m.Status != from {
		return false, nil
	}
	m.Status = to
	m.ResolvedAt = &resolvedAt
	m.ResolvedBy = resolvedBy
	r.missions[id] = m
	return true, nil
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

// Ensure UoW implements repository.UnitOfWork.
var _ repository.UnitOfWork = (*UoW)(nil)
