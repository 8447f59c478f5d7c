package moim_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/devdibi/dondoc/infra/provider/mockbank"
	"github.com/devdibi/dondoc/internal/fixtures/memuow"
	"github.com/devdibi/dondoc/pkg/domain"
	"github.com/devdibi/dondoc/pkg/provider/banking"
	moimsvc "github.com/devdibi/dondoc/pkg/service/moim"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*moimsvc.Service, *memuow.UoW, *mockbank.MockBank) {
	t.Helper()
	uow := memuow.New()
	bank := mockbank.New()
	svc := moimsvc.New(uow, bank, slog.Default())
	return svc, uow, bank
}

func TestCreateMoim_Success(t *testing.T) {
	svc, uow, _ := newService(t)
	creatorID := uuid.New()
	managerID := uuid.New()

	m, err := svc.CreateMoim(context.Background(), creatorID, moimsvc.CreateMoimInput{
		Name:          "trip fund",
		Introduce:     "summer trip savings",
		Password:      "1234",
		AccountNumber: "110-111111",
		Managers:      []uuid.UUID{managerID},
	})
	require.NoError(t, err)
	assert.Len(t, m.IdentificationNumber, 8)
	assert.NotEmpty(t, m.AccountNumber)
	assert.Equal(t, 2, m.MemberCount)

	creator, err := uow.Members().Find(context.Background(), creatorID, m.ID)
	require.NoError(t, err)
	assert.True(t, creator.IsAdmin())
	assert.True(t, creator.IsApproved())
	require.NotNil(t, creator.AccountNumber)
	assert.Equal(t, "110-111111", *creator.AccountNumber)

	manager, err := uow.Members().Find(context.Background(), managerID, m.ID)
	require.NoError(t, err)
	assert.True(t, manager.IsAdmin())
	assert.False(t, manager.IsApproved())
}

func TestCreateMoim_DuplicateIdentifier(t *testing.T) {
	uow := memuow.New()
	bank := mockbank.New()
	svc := moimsvc.NewWithIdentificationSource(uow, bank, slog.Default(), func() string {
		return "00000001"
	})

	_, err := svc.CreateMoim(context.Background(), uuid.New(), moimsvc.CreateMoimInput{
		Name:          "first",
		Password:      "1234",
		AccountNumber: "110-1",
	})
	require.NoError(t, err)

	_, err = svc.CreateMoim(context.Background(), uuid.New(), moimsvc.CreateMoimInput{
		Name:          "second",
		Password:      "1234",
		AccountNumber: "110-2",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateIdentifier)
}

type failingAccountGateway struct {
	banking.Gateway
}

func (failingAccountGateway) OpenAccount(context.Context, string, int, string, string) (*banking.OpenedAccount, error) {
	return nil, errors.New("bank unreachable")
}

func TestCreateMoim_GatewayFailure(t *testing.T) {
	uow := memuow.New()
	svc := moimsvc.New(uow, failingAccountGateway{mockbank.New()}, slog.Default())
	creatorID := uuid.New()

	_, err := svc.CreateMoim(context.Background(), creatorID, moimsvc.CreateMoimInput{
		Name:          "doomed",
		Password:      "1234",
		AccountNumber: "110-1",
	})
	assert.ErrorIs(t, err, domain.ErrBankingGateway)

	moims, err := uow.Moims().ListByUser(context.Background(), creatorID)
	require.NoError(t, err)
	assert.Empty(t, moims)
}

func TestInvite_AlreadyInvited(t *testing.T) {
	svc, _, _ := newService(t)
	creatorID := uuid.New()
	inviteeID := uuid.New()

	m, err := svc.CreateMoim(context.Background(), creatorID, moimsvc.CreateMoimInput{
		Name:          "book club",
		Password:      "1234",
		AccountNumber: "110-1",
	})
	require.NoError(t, err)

	count, err := svc.Invite(context.Background(), creatorID, m.ID, []uuid.UUID{inviteeID})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = svc.Invite(context.Background(), creatorID, m.ID, []uuid.UUID{inviteeID})
	assert.ErrorIs(t, err, domain.ErrAlreadyInvited)
}

func TestInvite_CallerMustBeMember(t *testing.T) {
	svc, _, _ := newService(t)
	m, err := svc.CreateMoim(context.Background(), uuid.New(), moimsvc.CreateMoimInput{
		Name:          "book club",
		Password:      "1234",
		AccountNumber: "110-1",
	})
	require.NoError(t, err)

	_, err = svc.Invite(context.Background(), uuid.New(), m.ID, []uuid.UUID{uuid.New()})
	assert.ErrorIs(t, err, domain.ErrNotMoimMember)
}

func TestAcceptInvite_SecondAcceptFails(t *testing.T) {
	svc, uow, _ := newService(t)
	creatorID := uuid.New()
	inviteeID := uuid.New()

	m, err := svc.CreateMoim(context.Background(), creatorID, moimsvc.CreateMoimInput{
		Name:          "gym crew",
		Password:      "1234",
		AccountNumber: "110-1",
	})
	require.NoError(t, err)
	_, err = svc.Invite(context.Background(), creatorID, m.ID, []uuid.UUID{inviteeID})
	require.NoError(t, err)

	require.NoError(t, svc.AcceptInvite(context.Background(), inviteeID, m.ID, "110-2"))

	member, err := uow.Members().Find(context.Background(), inviteeID, m.ID)
	require.NoError(t, err)
	assert.True(t, member.IsApproved())
	require.NotNil(t, member.AccountNumber)
	assert.Equal(t, "110-2", *member.AccountNumber)
	assert.NotNil(t, member.SignedAt)

	err = svc.AcceptInvite(context.Background(), inviteeID, m.ID, "110-3")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestDeclineInvite(t *testing.T) {
	svc, _, _ := newService(t)
	creatorID := uuid.New()
	inviteeID := uuid.New()

	m, err := svc.CreateMoim(context.Background(), creatorID, moimsvc.CreateMoimInput{
		Name:          "gym crew",
		Password:      "1234",
		AccountNumber: "110-1",
	})
	require.NoError(t, err)
	_, err = svc.Invite(context.Background(), creatorID, m.ID, []uuid.UUID{inviteeID})
	require.NoError(t, err)

	require.NoError(t, svc.DeclineInvite(context.Background(), inviteeID, m.ID))

	_, err = svc.FindMembership(context.Background(), inviteeID, m.ID)
	assert.ErrorIs(t, err, domain.ErrNotMoimMember)

	// accepted invites cannot be declined
	err = svc.DeclineInvite(context.Background(), creatorID, m.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestGetMoimDetail_RequiresMembership(t *testing.T) {
	svc, _, _ := newService(t)
	creatorID := uuid.New()

	m, err := svc.CreateMoim(context.Background(), creatorID, moimsvc.CreateMoimInput{
		Name:          "dinner circle",
		Password:      "1234",
		AccountNumber: "110-1",
		Managers:      []uuid.UUID{uuid.New()},
	})
	require.NoError(t, err)

	detail, err := svc.GetMoimDetail(context.Background(), creatorID, m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.ID, detail.Moim.ID)
	assert.Len(t, detail.Members, 2)

	_, err = svc.GetMoimDetail(context.Background(), uuid.New(), m.ID)
	assert.ErrorIs(t, err, domain.ErrNotMoimMember)
}

func TestListMoims(t *testing.T) {
	svc, _, _ := newService(t)
	userID := uuid.New()

	for _, name := range []string{"one", "two"} {
		_, err := svc.CreateMoim(context.Background(), userID, moimsvc.CreateMoimInput{
			Name:          name,
			Password:      "1234",
			AccountNumber: "110-1",
		})
		require.NoError(t, err)
	}

	moims, err := svc.ListMoims(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, moims, 2)
}

func TestHistoryList_RequiresMembership(t *testing.T) {
	svc, _, bank := newService(t)
	creatorID := uuid.New()

	m, err := svc.CreateMoim(context.Background(), creatorID, moimsvc.CreateMoimInput{
		Name:          "trip fund",
		Password:      "1234",
		AccountNumber: "110-1",
	})
	require.NoError(t, err)

	require.NoError(t, bank.Transfer(context.Background(), m.AccountNumber, "110-9", 500))

	entries, err := svc.HistoryList(context.Background(), creatorID, m.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(500), entries[0].Amount)

	detail, err := svc.HistoryDetail(context.Background(), creatorID, m.ID, entries[0].ID)
	require.NoError(t, err)
	assert.Equal(t, entries[0].ID, detail.ID)

	_, err = svc.HistoryList(context.Background(), uuid.New(), m.ID)
	assert.ErrorIs(t, err, domain.ErrNotMoimMember)
}
