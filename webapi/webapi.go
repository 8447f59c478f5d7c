// Package webapi provides the HTTP surface of the backend. It is organized
// into sub-packages per area:
// - moim: moim lifecycle, membership and account history endpoints
// - request: withdrawal request and mission endpoints
package webapi

import (
	"strings"

	"github.com/devdibi/dondoc/pkg/app"
	"github.com/devdibi/dondoc/webapi/common"
	moimweb "github.com/devdibi/dondoc/webapi/moim"
	requestweb "github.com/devdibi/dondoc/webapi/request"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// SetupApp initializes Fiber with the shared middleware and every route.
func SetupApp(app *app.App) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return common.ErrorResponseJSON(c, err)
		},
	})

	// Uses X-Forwarded-For header when behind a proxy, falling back to
	// X-Real-IP or the direct IP.
	fiberApp.Use(limiter.New(limiter.Config{
		Max:        app.Config.RateLimit.MaxRequests,
		Expiration: app.Config.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
				if commaIndex := strings.Index(forwardedFor, ","); commaIndex != -1 {
					return strings.TrimSpace(forwardedFor[:commaIndex])
				}
				return strings.TrimSpace(forwardedFor)
			}
			if realIP := c.Get("X-Real-IP"); realIP != "" {
				return realIP
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(common.Response{
				Success:      false,
				ErrorMessage: "rate limit exceeded",
				HTTPStatus:   fiber.StatusTooManyRequests,
			})
		},
	}))
	fiberApp.Use(recover.New())
	fiberApp.Use(logger.New())

	// Health check endpoint
	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("dondoc API is running")
	})

	moimweb.Routes(fiberApp, app.MoimService, app.Config)
	requestweb.Routes(fiberApp, app.ApprovalService, app.Config)
	return fiberApp
}
