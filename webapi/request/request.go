// Package request exposes the HTTP endpoints of the approval engine:
// submitting, listing, cancelling and resolving withdrawal requests and
// missions.
package request

import (
	"context"

	"github.com/devdibi/dondoc/pkg/config"
	requestdomain "github.com/devdibi/dondoc/pkg/domain/request"
	"github.com/devdibi/dondoc/pkg/middleware"
	approvalsvc "github.com/devdibi/dondoc/pkg/service/approval"
	"github.com/devdibi/dondoc/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// Routes registers the approval endpoints. All routes require a valid bearer
// token.
//
// Routes:
//   - POST /api/moim/withdraw_req    : Submit a withdrawal request.
//   - POST /api/moim/mission_req     : Submit a mission request.
//   - POST /api/moim/list_req        : List requests across the caller's moims.
//   - POST /api/moim/detail_req      : One request, requester or admin only.
//   - POST /api/moim/cancel_req      : Requester cancels a pending request.
//   - POST /api/moim/allow_req       : Admin approves a withdrawal, moving funds.
//   - POST /api/moim/reject_req      : Admin rejects a withdrawal.
//   - POST /api/moim/allow_mission   : Admin activates a mission.
//   - POST /api/moim/reject_mission  : Admin rejects a mission.
//   - POST /api/moim/success_mission : Admin grades a mission achieved, paying the reward.
//   - POST /api/moim/fail_mission    : Admin grades a mission failed.
//   - POST /api/moim/quit_mission    : The mission's member abandons it.
//   - GET  /api/moim/my_mission      : Missions targeting the caller.
func Routes(app *fiber.App, svc *approvalsvc.Service, cfg *config.App) {
	protected := middleware.JwtProtected(cfg.Jwt)
	app.Post("/api/moim/withdraw_req", protected, SubmitWithdraw(svc))
	app.Post("/api/moim/mission_req", protected, SubmitMission(svc))
	app.Post("/api/moim/list_req", protected, ListRequests(svc))
	app.Post("/api/moim/detail_req", protected, GetRequestDetail(svc))
	app.Post("/api/moim/cancel_req", protected, CancelRequest(svc))
	app.Post("/api/moim/allow_req", protected, ApproveWithdraw(svc))
	app.Post("/api/moim/reject_req", protected, RejectWithdraw(svc))
	app.Post("/api/moim/allow_mission", protected, missionTransition(svc.ApproveMission))
	app.Post("/api/moim/reject_mission", protected, missionTransition(svc.RejectMission))
	app.Post("/api/moim/success_mission", protected, missionTransition(svc.SuccessMission))
	app.Post("/api/moim/fail_mission", protected, missionTransition(svc.FailMission))
	app.Post("/api/moim/quit_mission", protected, missionTransition(svc.QuitMission))
	app.Get("/api/moim/my_mission", protected, ListMyMissions(svc))
}

func caller(c *fiber.Ctx) (uuid.UUID, error) {
	userID, ok := middleware.UserID(c)
	if !ok {
		return uuid.Nil, c.Status(fiber.StatusUnauthorized).JSON(common.Response{
			Success:      false,
			ErrorMessage: "missing user context",
			HTTPStatus:   fiber.StatusUnauthorized,
		})
	}
	return userID, nil
}

// SubmitWithdraw returns the handler creating a withdrawal request.
func SubmitWithdraw(svc *approvalsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := caller(c)
		if err != nil {
			return err
		}
		input, err := common.BindAndValidate[SubmitWithdrawRequest](c)
		if input == nil {
			return err
		}
		moimID, err := uuid.Parse(input.MoimID)
		if err != nil {
			return common.ErrorResponseJSON(c, err)
		}
		w, err := svc.SubmitWithdraw(c.UserContext(), userID, moimID, approvalsvc.SubmitWithdrawInput{
			TargetAccount: input.TargetAccount,
			Amount:        input.Amount,
			Content:       input.Content,
		})
		if err != nil {
			log.Errorf("Failed to submit withdrawal request: %v", err)
			return common.ErrorResponseJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, toWithdrawResponse(w))
	}
}

// SubmitMission returns the handler creating a mission request.
func SubmitMission(svc *approvalsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := caller(c)
		if err != nil {
			return err
		}
		input, err := common.BindAndValidate[SubmitMissionRequest](c)
		if input == nil {
			return err
		}
		moimID, err := uuid.Parse(input.MoimID)
		if err != nil {
			return common.ErrorResponseJSON(c, err)
		}
		m, err := svc.SubmitMission(c.UserContext(), userID, moimID, approvalsvc.SubmitMissionInput{
			Title:   input.Title,
			Content: input.Content,
			Amount:  input.Amount,
		})
		if err != nil {
			log.Errorf("Failed to submit mission request: %v", err)
			return common.ErrorResponseJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, toMissionResponse(m))
	}
}

// ListRequests returns the handler listing requests visible to the caller.
func ListRequests(svc *approvalsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := caller(c)
		if err != nil {
			return err
		}
		input, err := common.BindAndValidate[ListRequestsRequest](c)
		if input == nil {
			return err
		}
		filter := approvalsvc.ListFilter{
			Type:   requestdomain.Type(input.Type),
			Status: requestdomain.Status(input.Status),
		}
		if input.MoimID != "" {
			moimID, err := uuid.Parse(input.MoimID)
			if err != nil {
				return common.ErrorResponseJSON(c, err)
			}
			filter.MoimID = &moimID
		}
		list, err := svc.ListRequests(c.UserContext(), userID, filter)
		if err != nil {
			return common.ErrorResponseJSON(c, err)
		}
		resp := RequestListResponse{
			Withdraws: make([]WithdrawResponse, 0, len(list.Withdraws)),
			Missions:  make([]MissionResponse, 0, len(list.Missions)),
		}
		for _, w := range list.Withdraws {
			resp.Withdraws = append(resp.Withdraws, toWithdrawResponse(w))
		}
		for _, m := range list.Missions {
			resp.Missions = append(resp.Missions, toMissionResponse(m))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, resp)
	}
}

// GetRequestDetail returns the handler for one request's detail view.
func GetRequestDetail(svc *approvalsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := caller(c)
		if err != nil {
			return err
		}
		input, err := common.BindAndValidate[RequestRefRequest](c)
		if input == nil {
			return err
		}
		id, err := uuid.Parse(input.RequestID)
		if err != nil {
			return common.ErrorResponseJSON(c, err)
		}
		detail, err := svc.GetRequestDetail(c.UserContext(), userID, requestdomain.Type(input.Type), id)
		if err != nil {
			return common.ErrorResponseJSON(c, err)
		}
		resp := RequestDetailResponse{Type: string(detail.Type)}
		if detail.Withdraw != nil {
			w := toWithdrawResponse(detail.Withdraw)
			resp.Withdraw = &w
		}
		if detail.Mission != nil {
			m := toMissionResponse(detail.Mission)
			resp.Mission = &m
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, resp)
	}
}

// CancelRequest returns the handler cancelling a pending request of either
// kind. Requester only.
func CancelRequest(svc *approvalsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := caller(c)
		if err != nil {
			return err
		}
		input, err := common.BindAndValidate[RequestRefRequest](c)
		if input == nil {
			return err
		}
		id, err := uuid.Parse(input.RequestID)
		if err != nil {
			return common.ErrorResponseJSON(c, err)
		}
		switch requestdomain.Type(input.Type) {
		case requestdomain.TypeWithdraw:
			w, err := svc.CancelWithdraw(c.UserContext(), userID, id)
			if err != nil {
				return common.ErrorResponseJSON(c, err)
			}
			return common.SuccessResponseJSON(c, fiber.StatusOK, toWithdrawResponse(w))
		default:
			m, err := svc.CancelMission(c.UserContext(), userID, id)
			if err != nil {
				return common.ErrorResponseJSON(c, err)
			}
			return common.SuccessResponseJSON(c, fiber.StatusOK, toMissionResponse(m))
		}
	}
}

// ApproveWithdraw returns the handler approving a withdrawal request. Admins
// only; funds move on success.
func ApproveWithdraw(svc *approvalsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := caller(c)
		if err != nil {
			return err
		}
		input, err := common.BindAndValidate[WithdrawRefRequest](c)
		if input == nil {
			return err
		}
		id, err := uuid.Parse(input.RequestID)
		if err != nil {
			return common.ErrorResponseJSON(c, err)
		}
		w, err := svc.ApproveWithdraw(c.UserContext(), userID, id)
		if err != nil {
			log.Errorf("Failed to approve withdrawal request: %v", err)
			return common.ErrorResponseJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, toWithdrawResponse(w))
	}
}

// RejectWithdraw returns the handler rejecting a withdrawal request. Admins
// only.
func RejectWithdraw(svc *approvalsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := caller(c)
		if err != nil {
			return err
		}
		input, err := common.BindAndValidate[WithdrawRefRequest](c)
		if input == nil {
			return err
		}
		id, err := uuid.Parse(input.RequestID)
		if err != nil {
			return common.ErrorResponseJSON(c, err)
		}
		w, err := svc.RejectWithdraw(c.UserContext(), userID, id)
		if err != nil {
			return common.ErrorResponseJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, toWithdrawResponse(w))
	}
}

// missionTransition wraps one mission transition method as a handler.
func missionTransition(
	transition func(ctx context.Context, callerID, missionID uuid.UUID) (*requestdomain.Mission, error),
) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := caller(c)
		if err != nil {
			return err
		}
		input, err := common.BindAndValidate[MissionRefRequest](c)
		if input == nil {
			return err
		}
		id, err := uuid.Parse(input.MissionID)
		if err != nil {
			return common.ErrorResponseJSON(c, err)
		}
		m, err := transition(c.UserContext(), userID, id)
		if err != nil {
			log.Errorf("Mission transition failed: %v", err)
			return common.ErrorResponseJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, toMissionResponse(m))
	}
}

// ListMyMissions returns the handler listing missions targeting the caller.
func ListMyMissions(svc *approvalsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := caller(c)
		if err != nil {
			return err
		}
		missions, err := svc.ListMyMissions(c.UserContext(), userID)
		if err != nil {
			return common.ErrorResponseJSON(c, err)
		}
		out := make([]MissionResponse, 0, len(missions))
		for _, m := range missions {
			out = append(out, toMissionResponse(m))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, out)
	}
}
