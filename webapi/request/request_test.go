package request_test

import (
	"net/http"
	"testing"

	"github.com/devdibi/dondoc/webapi/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// env with one moim: creator admin plus one accepted member.
type webFixture struct {
	env         *testutils.TestEnv
	moimID      string
	adminToken  string
	memberToken string
}

func newWebFixture(t *testing.T) *webFixture {
	t.Helper()
	env := testutils.NewTestEnv(t)
	adminID := uuid.New()
	memberID := uuid.New()
	adminToken := testutils.BearerToken(t, adminID)
	memberToken := testutils.BearerToken(t, memberID)

	resp, envelope := env.DoJSON(t, fiber.MethodPost, "/api/moim/create", adminToken, fiber.Map{
		"name":          "trip fund",
		"password":      "1234",
		"accountNumber": "110-111111",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	moimID := envelope["data"].(map[string]any)["moimId"].(string)

	resp, _ = env.DoJSON(t, fiber.MethodPost, "/api/moim/invite", adminToken, fiber.Map{
		"moimId": moimID,
		"users":  []string{memberID.String()},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = env.DoJSON(t, fiber.MethodPatch, "/api/moim/invite/check", memberToken, fiber.Map{
		"moimId":        moimID,
		"accept":        true,
		"accountNumber": "110-222222",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	return &webFixture{
		env:         env,
		moimID:      moimID,
		adminToken:  adminToken,
		memberToken: memberToken,
	}
}

func (f *webFixture) submitWithdraw(t *testing.T) string {
	t.Helper()
	resp, envelope := f.env.DoJSON(t, fiber.MethodPost, "/api/moim/withdraw_req", f.memberToken, fiber.Map{
		"moimId":        f.moimID,
		"targetAccount": "110-999999",
		"amount":        5000,
		"content":       "rent share",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data := envelope["data"].(map[string]any)
	require.Equal(t, "REQUESTED", data["status"])
	return data["requestId"].(string)
}

func (f *webFixture) submitMission(t *testing.T) string {
	t.Helper()
	resp, envelope := f.env.DoJSON(t, fiber.MethodPost, "/api/moim/mission_req", f.memberToken, fiber.Map{
		"moimId":  f.moimID,
		"title":   "10k steps",
		"content": "walk every day",
		"amount":  3000,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return envelope["data"].(map[string]any)["missionId"].(string)
}

func TestWithdrawLifecycle(t *testing.T) {
	f := newWebFixture(t)
	requestID := f.submitWithdraw(t)

	// a regular member cannot approve
	resp, _ := f.env.DoJSON(t, fiber.MethodPost, "/api/moim/allow_req", f.memberToken, fiber.Map{
		"requestId": requestID,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, envelope := f.env.DoJSON(t, fiber.MethodPost, "/api/moim/allow_req", f.adminToken, fiber.Map{
		"requestId": requestID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "APPROVED", envelope["data"].(map[string]any)["status"])

	transfers := f.env.Bank.Transfers()
	require.Len(t, transfers, 1)
	assert.Equal(t, "110-999999", transfers[0].ToAccount)
	assert.Equal(t, int64(5000), transfers[0].Amount)

	// terminal: a second resolution conflicts
	resp, _ = f.env.DoJSON(t, fiber.MethodPost, "/api/moim/reject_req", f.adminToken, fiber.Map{
		"requestId": requestID,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestWithdraw_GatewayFailure(t *testing.T) {
	f := newWebFixture(t)
	requestID := f.submitWithdraw(t)
	f.env.Bank.FailTransfers = true

	resp, envelope := f.env.DoJSON(t, fiber.MethodPost, "/api/moim/allow_req", f.adminToken, fiber.Map{
		"requestId": requestID,
	})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, false, envelope["success"])

	// still pending, so the requester can cancel
	resp, _ = f.env.DoJSON(t, fiber.MethodPost, "/api/moim/cancel_req", f.memberToken, fiber.Map{
		"type":      "WITHDRAW",
		"requestId": requestID,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMissionLifecycle(t *testing.T) {
	f := newWebFixture(t)
	missionID := f.submitMission(t)

	resp, _ := f.env.DoJSON(t, fiber.MethodPost, "/api/moim/allow_mission", f.adminToken, fiber.Map{
		"missionId": missionID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, f.env.Bank.Transfers(), "approval must not move funds")

	resp, envelope := f.env.DoJSON(t, fiber.MethodPost, "/api/moim/success_mission", f.adminToken, fiber.Map{
		"missionId": missionID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "SUCCESS", envelope["data"].(map[string]any)["status"])

	transfers := f.env.Bank.Transfers()
	require.Len(t, transfers, 1)
	assert.Equal(t, "110-222222", transfers[0].ToAccount)
	assert.Equal(t, int64(3000), transfers[0].Amount)
}

func TestMission_QuitByMember(t *testing.T) {
	f := newWebFixture(t)
	missionID := f.submitMission(t)

	resp, _ := f.env.DoJSON(t, fiber.MethodPost, "/api/moim/allow_mission", f.adminToken, fiber.Map{
		"missionId": missionID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// admins cannot quit on the member's behalf
	resp, _ = f.env.DoJSON(t, fiber.MethodPost, "/api/moim/quit_mission", f.adminToken, fiber.Map{
		"missionId": missionID,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, envelope := f.env.DoJSON(t, fiber.MethodPost, "/api/moim/quit_mission", f.memberToken, fiber.Map{
		"missionId": missionID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "QUIT", envelope["data"].(map[string]any)["status"])
}

func TestListAndDetailEndpoints(t *testing.T) {
	f := newWebFixture(t)
	requestID := f.submitWithdraw(t)
	f.submitMission(t)

	resp, envelope := f.env.DoJSON(t, fiber.MethodPost, "/api/moim/list_req", f.memberToken, fiber.Map{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := envelope["data"].(map[string]any)
	assert.Len(t, data["withdraws"], 1)
	assert.Len(t, data["missions"], 1)

	resp, envelope = f.env.DoJSON(t, fiber.MethodPost, "/api/moim/list_req", f.memberToken, fiber.Map{
		"type": "MISSION",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data = envelope["data"].(map[string]any)
	assert.Empty(t, data["withdraws"])
	assert.Len(t, data["missions"], 1)

	resp, envelope = f.env.DoJSON(t, fiber.MethodPost, "/api/moim/detail_req", f.adminToken, fiber.Map{
		"type":      "WITHDRAW",
		"requestId": requestID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	detail := envelope["data"].(map[string]any)
	assert.Equal(t, "WITHDRAW", detail["type"])
	assert.NotNil(t, detail["withdraw"])

	// strangers see nothing
	stranger := testutils.BearerToken(t, uuid.New())
	resp, _ = f.env.DoJSON(t, fiber.MethodPost, "/api/moim/detail_req", stranger, fiber.Map{
		"type":      "WITHDRAW",
		"requestId": requestID,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestMyMissions(t *testing.T) {
	f := newWebFixture(t)
	f.submitMission(t)

	resp, envelope := f.env.DoJSON(t, fiber.MethodGet, "/api/moim/my_mission", f.memberToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, envelope["data"], 1)

	resp, envelope = f.env.DoJSON(t, fiber.MethodGet, "/api/moim/my_mission", f.adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, envelope["data"])
}
