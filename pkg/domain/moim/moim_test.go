package moim_test

import (
	"testing"

	"github.com/devdibi/dondoc/pkg/domain/moim"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderValidatesMandatoryFields(t *testing.T) {
	_, err := moim.New().WithName("trip fund").Build()
	assert.ErrorIs(t, err, moim.ErrMissingIdentificationNumber)

	_, err = moim.New().WithIdentificationNumber("12345678").Build()
	assert.ErrorIs(t, err, moim.ErrMissingName)

	m, err := moim.New().
		WithIdentificationNumber("12345678").
		WithName("trip fund").
		WithAccount(42, "108-00000042").
		WithMemberCount(3).
		Build()
	require.NoError(t, err)
	assert.Equal(t, "12345678", m.IdentificationNumber)
	assert.Equal(t, int64(42), m.AccountID)
	assert.Equal(t, "108-00000042", m.AccountNumber)
	assert.Equal(t, 3, m.MemberCount)
	assert.NotEqual(t, uuid.Nil, m.ID)
	assert.False(t, m.CreatedAt.IsZero())
}

func TestNewMemberIsPending(t *testing.T) {
	m := moim.NewMember(uuid.New(), uuid.New(), moim.RoleMember)
	assert.Equal(t, moim.MemberPending, m.Status)
	assert.Nil(t, m.AccountNumber)
	assert.Nil(t, m.SignedAt)
	assert.False(t, m.IsApproved())
	assert.False(t, m.IsAdmin())
}

func TestNewSignedMemberIsApproved(t *testing.T) {
	m := moim.NewSignedMember(uuid.New(), uuid.New(), moim.RoleAdmin, "110-987654")
	assert.Equal(t, moim.MemberApproved, m.Status)
	require.NotNil(t, m.AccountNumber)
	assert.Equal(t, "110-987654", *m.AccountNumber)
	assert.NotNil(t, m.SignedAt)
	assert.True(t, m.IsApproved())
	assert.True(t, m.IsAdmin())
}

func TestRoleAndStatusStrings(t *testing.T) {
	assert.Equal(t, "ADMIN", moim.RoleAdmin.String())
	assert.Equal(t, "MEMBER", moim.RoleMember.String())
	assert.Equal(t, "PENDING", moim.MemberPending.String())
	assert.Equal(t, "APPROVED", moim.MemberApproved.String())
}
