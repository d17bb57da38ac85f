// Package user exposes the recipient directory endpoint.
package user

import (
	"github.com/corebank/ledger/pkg/config"
	"github.com/corebank/ledger/pkg/middleware"
	accountsvc "github.com/corebank/ledger/pkg/service/account"
	"github.com/corebank/ledger/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// Routes registers the directory endpoint. It must run before the account
// routes so /api/accounts/users is not captured by the /api/accounts/:id
// parameter.
//
// Routes:
//   - GET /api/accounts/users : List other users with active accounts, emails masked.
func Routes(app *fiber.App, svc *accountsvc.Service, cfg *config.AppConfig) {
	app.Get("/api/accounts/users", middleware.JwtProtected(cfg.Jwt), ListActiveUsers(svc))
}

// ListActiveUsers returns a handler listing potential transfer recipients.
func ListActiveUsers(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.UserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err, fiber.StatusUnauthorized)
		}
		users, err := svc.ListActiveUsers(c.UserContext(), userID)
		if err != nil {
			log.Errorf("Failed to list users: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to list users", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Users retrieved", users)
	}
}
