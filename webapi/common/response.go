// Package common holds the response envelope and request binding helpers
// shared by every webapi area.
package common

import (
	"errors"

	"github.com/devdibi/dondoc/pkg/domain"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Response is the uniform envelope every endpoint returns.
type Response struct {
	Success      bool   `json:"success"`
	Data         any    `json:"data,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	HTTPStatus   int    `json:"httpStatus"`
}

// SuccessResponseJSON writes a success envelope with the given payload.
func SuccessResponseJSON(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(Response{
		Success:    true,
		Data:       data,
		HTTPStatus: status,
	})
}

// ErrorResponseJSON writes a failure envelope for the given error, mapping
// domain errors to HTTP status codes.
func ErrorResponseJSON(c *fiber.Ctx, err error) error {
	status := ErrorToStatusCode(err)
	return c.Status(status).JSON(Response{
		Success:      false,
		ErrorMessage: err.Error(),
		HTTPStatus:   status,
	})
}

// ErrorToStatusCode maps domain errors to appropriate HTTP status codes.
func ErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrNotMoimMember):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrNotAuthorized):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrInvalidState):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrDuplicateIdentifier):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrAlreadyInvited):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrBankingGateway):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// BindAndValidate parses the request body and validates it using
// go-playground/validator. Returns the populated struct, or writes an error
// response and returns nil.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(Response{
			Success:      false,
			ErrorMessage: "invalid request body: " + err.Error(),
			HTTPStatus:   fiber.StatusBadRequest,
		})
	}
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(Response{
			Success:      false,
			ErrorMessage: "validation failed: " + err.Error(),
			HTTPStatus:   fiber.StatusBadRequest,
		})
	}
	return &input, nil
}
