// Package webapi assembles the HTTP application: middleware stack, routes
// and the error envelope.
package webapi

import (
	"github.com/corebank/ledger/pkg/config"
	accountsvc "github.com/corebank/ledger/pkg/service/account"
	"github.com/corebank/ledger/webapi/account"
	"github.com/corebank/ledger/webapi/common"
	"github.com/corebank/ledger/webapi/transaction"
	"github.com/corebank/ledger/webapi/user"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// New builds the fiber application with all routes registered.
func New(deps config.Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "corebank-ledger",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			}
			return common.ProblemDetailsJSON(c, "Internal Server Error", err, status)
		},
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: deps.Config.Cors.Origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        deps.Config.RateLimit.Max,
		Expiration: deps.Config.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ProblemDetailsJSON(c, "Too Many Requests", nil,
				"Rate limit exceeded", fiber.StatusTooManyRequests)
		},
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	svc := accountsvc.NewService(deps)
	user.Routes(app, svc, deps.Config)
	account.Routes(app, svc, deps.Config)
	transaction.Routes(app, svc, deps.Config)

	return app
}
