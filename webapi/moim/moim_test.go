package moim_test

import (
	"net/http"
	"testing"

	"github.com/devdibi/dondoc/webapi/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createMoim(t *testing.T, env *testutils.TestEnv, token string) map[string]any {
	t.Helper()
	resp, envelope := env.DoJSON(t, fiber.MethodPost, "/api/moim/create", token, fiber.Map{
		"name":          "trip fund",
		"introduce":     "summer trip savings",
		"password":      "1234",
		"accountNumber": "110-111111",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, true, envelope["success"])
	return envelope["data"].(map[string]any)
}

func TestCreateMoim(t *testing.T) {
	env := testutils.NewTestEnv(t)
	token := testutils.BearerToken(t, uuid.New())

	data := createMoim(t, env, token)
	assert.Equal(t, "trip fund", data["name"])
	assert.Len(t, data["identificationNumber"], 8)
	assert.NotEmpty(t, data["accountNumber"])
}

func TestCreateMoim_RequiresToken(t *testing.T) {
	env := testutils.NewTestEnv(t)

	resp, envelope := env.DoJSON(t, fiber.MethodPost, "/api/moim/create", "", fiber.Map{
		"name": "no token",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, false, envelope["success"])
}

func TestCreateMoim_ValidatesBody(t *testing.T) {
	env := testutils.NewTestEnv(t)
	token := testutils.BearerToken(t, uuid.New())

	// missing password and account number
	resp, envelope := env.DoJSON(t, fiber.MethodPost, "/api/moim/create", token, fiber.Map{
		"name": "incomplete",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, envelope["success"])
}

func TestListAndDetail(t *testing.T) {
	env := testutils.NewTestEnv(t)
	userID := uuid.New()
	token := testutils.BearerToken(t, userID)
	created := createMoim(t, env, token)

	resp, envelope := env.DoJSON(t, fiber.MethodGet, "/api/moim/list", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, envelope["data"], 1)

	resp, envelope = env.DoJSON(t, fiber.MethodGet, "/api/moim/detail/"+created["moimId"].(string), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	detail := envelope["data"].(map[string]any)
	members := detail["members"].([]any)
	require.Len(t, members, 1)
	member := members[0].(map[string]any)
	assert.Equal(t, "ADMIN", member["role"])
	assert.Equal(t, "APPROVED", member["status"])

	// non-members get 403
	stranger := testutils.BearerToken(t, uuid.New())
	resp, _ = env.DoJSON(t, fiber.MethodGet, "/api/moim/detail/"+created["moimId"].(string), stranger, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestInviteFlow(t *testing.T) {
	env := testutils.NewTestEnv(t)
	creatorID := uuid.New()
	inviteeID := uuid.New()
	creatorToken := testutils.BearerToken(t, creatorID)
	inviteeToken := testutils.BearerToken(t, inviteeID)
	created := createMoim(t, env, creatorToken)
	moimID := created["moimId"].(string)

	resp, envelope := env.DoJSON(t, fiber.MethodPost, "/api/moim/invite", creatorToken, fiber.Map{
		"moimId": moimID,
		"users":  []string{inviteeID.String()},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), envelope["data"].(map[string]any)["invited"])

	// inviting the same user again conflicts
	resp, _ = env.DoJSON(t, fiber.MethodPost, "/api/moim/invite", creatorToken, fiber.Map{
		"moimId": moimID,
		"users":  []string{inviteeID.String()},
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = env.DoJSON(t, fiber.MethodPatch, "/api/moim/invite/check", inviteeToken, fiber.Map{
		"moimId":        moimID,
		"accept":        true,
		"accountNumber": "110-222222",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// a second accept conflicts
	resp, _ = env.DoJSON(t, fiber.MethodPatch, "/api/moim/invite/check", inviteeToken, fiber.Map{
		"moimId":        moimID,
		"accept":        true,
		"accountNumber": "110-333333",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestHistoryEndpoints(t *testing.T) {
	env := testutils.NewTestEnv(t)
	userID := uuid.New()
	token := testutils.BearerToken(t, userID)
	created := createMoim(t, env, token)
	moimID := created["moimId"].(string)

	resp, envelope := env.DoJSON(t, fiber.MethodPost, "/api/moim/history/list", token, fiber.Map{
		"moimId": moimID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, envelope["success"])
}
