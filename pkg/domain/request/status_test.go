package request_test

import (
	"testing"

	"github.com/devdibi/dondoc/pkg/domain/request"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestStatusCanTransition(t *testing.T) {
	cases := []struct {
		name string
		from request.Status
		to   request.Status
		want bool
	}{
		{"requested to approved", request.StatusRequested, request.StatusApproved, true},
		{"requested to rejected", request.StatusRequested, request.StatusRejected, true},
		{"requested to cancelled", request.StatusRequested, request.StatusCancelled, true},
		{"requested to success", request.StatusRequested, request.StatusSuccess, false},
		{"requested to fail", request.StatusRequested, request.StatusFail, false},
		{"requested to quit", request.StatusRequested, request.StatusQuit, false},
		{"approved to success", request.StatusApproved, request.StatusSuccess, true},
		{"approved to fail", request.StatusApproved, request.StatusFail, true},
		{"approved to quit", request.StatusApproved, request.StatusQuit, true},
		{"approved to rejected", request.StatusApproved, request.StatusRejected, false},
		{"approved to cancelled", request.StatusApproved, request.StatusCancelled, false},
		{"approved to requested", request.StatusApproved, request.StatusRequested, false},
		{"rejected is dead", request.StatusRejected, request.StatusApproved, false},
		{"cancelled is dead", request.StatusCancelled, request.StatusApproved, false},
		{"success is dead", request.StatusSuccess, request.StatusFail, false},
		{"fail is dead", request.StatusFail, request.StatusSuccess, false},
		{"quit is dead", request.StatusQuit, request.StatusApproved, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.from.CanTransition(tc.to))
		})
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, request.StatusRequested.Terminal())
	assert.False(t, request.StatusApproved.Terminal())
	for _, s := range []request.Status{
		request.StatusRejected,
		request.StatusCancelled,
		request.StatusSuccess,
		request.StatusFail,
		request.StatusQuit,
	} {
		assert.True(t, s.Terminal(), "status %s", s)
	}
}

func TestNewWithdrawValidation(t *testing.T) {
	w, err := request.NewWithdraw(uuid.New(), uuid.New(), "110-123456", 5000, "rent share")
	assert.NoError(t, err)
	assert.Equal(t, request.StatusRequested, w.Status)
	assert.NotEqual(t, "", w.ID.String())

	_, err = request.NewWithdraw(uuid.New(), uuid.New(), "110-123456", 0, "zero")
	assert.ErrorIs(t, err, request.ErrAmountMustBePositive)

	_, err = request.NewWithdraw(uuid.New(), uuid.New(), "", 100, "no target")
	assert.ErrorIs(t, err, request.ErrMissingTargetAccount)
}

func TestNewMissionValidation(t *testing.T) {
	m, err := request.NewMission(uuid.New(), uuid.New(), "10k steps", "walk every day", 3000)
	assert.NoError(t, err)
	assert.Equal(t, request.StatusRequested, m.Status)

	_, err = request.NewMission(uuid.New(), uuid.New(), "free lunch", "", -1)
	assert.ErrorIs(t, err, request.ErrAmountMustBePositive)
}
