// Package webapi builds the HTTP application serving the transaction
// pipeline.
package webapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/bankx/transactions/pkg/app"
	"github.com/bankx/transactions/webapi/common"
	"github.com/bankx/transactions/webapi/transaction"
)

// New creates the Fiber application with rate limiting, panic recovery and
// the transaction routes.
func New(a *app.App) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		AppName: "transactions",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			}
			return common.ErrorResponseJSON(c, status, "Internal Server Error", err.Error())
		},
	})

	fiberApp.Use(limiter.New(limiter.Config{
		Max:        a.Config.RateLimit.MaxRequests,
		Expiration: a.Config.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ErrorResponseJSON(c, fiber.StatusTooManyRequests, "Too Many Requests", "Rate limit exceeded")
		},
	}))
	fiberApp.Use(recover.New())

	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Transactions service is up")
	})

	transaction.Routes(fiberApp, a.Processor)

	return fiberApp
}
