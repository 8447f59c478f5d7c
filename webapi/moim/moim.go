// Package moim exposes the HTTP endpoints for moim lifecycle, membership and
// account history.
package moim

import (
	"github.com/devdibi/dondoc/pkg/config"
	"github.com/devdibi/dondoc/pkg/middleware"
	moimsvc "github.com/devdibi/dondoc/pkg/service/moim"
	"github.com/devdibi/dondoc/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// Routes registers the moim endpoints. All routes require a valid bearer
// token.
//
// Routes:
//   - POST  /api/moim/create         : Create a moim and open its bank account.
//   - GET   /api/moim/list           : List the caller's moims.
//   - GET   /api/moim/detail/:moimId : Moim with its member list.
//   - POST  /api/moim/invite         : Invite users as pending members.
//   - PATCH /api/moim/invite/check   : Accept or decline the caller's invite.
//   - POST  /api/moim/history/list   : Account transaction history.
//   - POST  /api/moim/history/detail : One account transaction.
func Routes(app *fiber.App, svc *moimsvc.Service, cfg *config.App) {
	protected := middleware.JwtProtected(cfg.Jwt)
	app.Post("/api/moim/create", protected, CreateMoim(svc))
	app.Get("/api/moim/list", protected, ListMoims(svc))
	app.Get("/api/moim/detail/:moimId", protected, GetMoimDetail(svc))
	app.Post("/api/moim/invite", protected, Invite(svc))
	app.Patch("/api/moim/invite/check", protected, CheckInvite(svc))
	app.Post("/api/moim/history/list", protected, HistoryList(svc))
	app.Post("/api/moim/history/detail", protected, HistoryDetail(svc))
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

// CreateMoim returns the handler creating a moim for the caller.
func CreateMoim(svc *moimsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := caller(c)
		if err != nil {
			return err
		}
		input, err := common.BindAndValidate[CreateMoimRequest](c)
		if input == nil {
			return err
		}
		managers := make([]uuid.UUID, 0, len(input.Managers))
		for _, raw := range input.Managers {
			id, err := uuid.Parse(raw)
			if err != nil {
				return common.ErrorResponseJSON(c, err)
			}
			managers = append(managers, id)
		}
		m, err := svc.CreateMoim(c.UserContext(), userID, moimsvc.CreateMoimInput{
			Name:          input.Name,
			Introduce:     input.Introduce,
			Password:      input.Password,
			MoimType:      input.MoimType,
			AccountNumber: input.AccountNumber,
			Managers:      managers,
		})
		if err != nil {
			log.Errorf("Failed to create moim: %v", err)
			return common.ErrorResponseJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, toMoimResponse(m))
	}
}

// ListMoims returns the handler listing the caller's moims.
func ListMoims(svc *moimsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := caller(c)
		if err != nil {
			return err
		}
		moims, err := svc.ListMoims(c.UserContext(), userID)
		if err != nil {
			return common.ErrorResponseJSON(c, err)
		}
		out := make([]MoimResponse, 0, len(moims))
		for _, m := range moims {
			out = append(out, toMoimResponse(m))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, out)
	}
}

// GetMoimDetail returns the handler for a moim with its member list.
func GetMoimDetail(svc *moimsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := caller(c)
		if err != nil {
			return err
		}
		moimID, err := uuid.Parse(c.Params("moimId"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(common.Response{
				Success:      false,
				ErrorMessage: "moim id must be a valid UUID",
				HTTPStatus:   fiber.StatusBadRequest,
			})
		}
		detail, err := svc.GetMoimDetail(c.UserContext(), userID, moimID)
		if err != nil {
			return common.ErrorResponseJSON(c, err)
		}
		resp := MoimDetailResponse{Moim: toMoimResponse(detail.Moim)}
		for _, member := range detail.Members {
			resp.Members = append(resp.Members, toMemberResponse(member))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, resp)
	}
}

// Invite returns the handler inviting users into a moim.
func Invite(svc *moimsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := caller(c)
		if err != nil {
			return err
		}
		input, err := common.BindAndValidate[InviteRequest](c)
		if input == nil {
			return err
		}
		moimID, err := uuid.Parse(input.MoimID)
		if err != nil {
			return common.ErrorResponseJSON(c, err)
		}
		invitees := make([]uuid.UUID, 0, len(input.Users))
		for _, raw := range input.Users {
			id, err := uuid.Parse(raw)
			if err != nil {
				return common.ErrorResponseJSON(c, err)
			}
			invitees = append(invitees, id)
		}
		count, err := svc.Invite(c.UserContext(), userID, moimID, invitees)
		if err != nil {
			log.Errorf("Failed to invite members: %v", err)
			return common.ErrorResponseJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, fiber.Map{"invited": count})
	}
}

// CheckInvite returns the handler accepting or declining the caller's own
// pending invite.
func CheckInvite(svc *moimsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := caller(c)
		if err != nil {
			return err
		}
		input, err := common.BindAndValidate[CheckInviteRequest](c)
		if input == nil {
			return err
		}
		moimID, err := uuid.Parse(input.MoimID)
		if err != nil {
			return common.ErrorResponseJSON(c, err)
		}
		if input.Accept {
			err = svc.AcceptInvite(c.UserContext(), userID, moimID, input.AccountNumber)
		} else {
			err = svc.DeclineInvite(c.UserContext(), userID, moimID)
		}
		if err != nil {
			return common.ErrorResponseJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, fiber.Map{"accepted": input.Accept})
	}
}

// HistoryList returns the handler for a moim account's transaction history.
func HistoryList(svc *moimsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := caller(c)
		if err != nil {
			return err
		}
		input, err := common.BindAndValidate[HistoryListRequest](c)
		if input == nil {
			return err
		}
		moimID, err := uuid.Parse(input.MoimID)
		if err != nil {
			return common.ErrorResponseJSON(c, err)
		}
		entries, err := svc.HistoryList(c.UserContext(), userID, moimID)
		if err != nil {
			return common.ErrorResponseJSON(c, err)
		}
		out := make([]HistoryResponse, 0, len(entries))
		for _, e := range entries {
			out = append(out, toHistoryResponse(e))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, out)
	}
}

// HistoryDetail returns the handler for one transaction of a moim account.
func HistoryDetail(svc *moimsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := caller(c)
		if err != nil {
			return err
		}
		input, err := common.BindAndValidate[HistoryDetailRequest](c)
		if input == nil {
			return err
		}
		moimID, err := uuid.Parse(input.MoimID)
		if err != nil {
			return common.ErrorResponseJSON(c, err)
		}
		entry, err := svc.HistoryDetail(c.UserContext(), userID, moimID, input.HistoryID)
		if err != nil {
			return common.ErrorResponseJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, toHistoryResponse(*entry))
	}
}
