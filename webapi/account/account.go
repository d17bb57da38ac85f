// Package account exposes the account query and lifecycle endpoints.
package account

import (
	"github.com/corebank/ledger/pkg/config"
	"github.com/corebank/ledger/pkg/dto"
	"github.com/corebank/ledger/pkg/middleware"
	accountsvc "github.com/corebank/ledger/pkg/service/account"
	"github.com/corebank/ledger/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// Routes registers the account endpoints. All routes require a valid bearer
// token.
//
// Routes:
//   - GET    /api/accounts                        : List the caller's accounts.
//   - POST   /api/accounts                        : Open a new account.
//   - GET    /api/accounts/search/:accountNumber  : Find a recipient account by number.
//   - GET    /api/accounts/:id                    : Get one owned account.
//   - GET    /api/accounts/:id/transactions       : Page through an account's history.
func Routes(app *fiber.App, svc *accountsvc.Service, cfg *config.AppConfig) {
	app.Get("/api/accounts", middleware.JwtProtected(cfg.Jwt), ListAccounts(svc))
	app.Post("/api/accounts", middleware.JwtProtected(cfg.Jwt), CreateAccount(svc))
	app.Get("/api/accounts/search/:accountNumber", middleware.JwtProtected(cfg.Jwt), SearchAccount(svc))
	app.Get("/api/accounts/:id", middleware.JwtProtected(cfg.Jwt), GetAccount(svc))
	app.Get("/api/accounts/:id/transactions", middleware.JwtProtected(cfg.Jwt), GetTransactions(svc))
}

// ListAccounts returns a handler listing every account the caller owns.
func ListAccounts(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.UserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err, fiber.StatusUnauthorized)
		}
		accounts, err := svc.ListAccounts(c.UserContext(), userID)
		if err != nil {
			log.Errorf("Failed to list accounts: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to list accounts", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Accounts retrieved", accounts)
	}
}

// CreateAccount returns a handler opening a new account for the caller.
func CreateAccount(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.UserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err, fiber.StatusUnauthorized)
		}
		input, err := common.BindAndValidate[CreateAccountRequest](c)
		if input == nil {
			return err // error response already written
		}
		a, err := svc.CreateAccount(c.UserContext(), dto.AccountCreate{
			UserID:      userID,
			AccountType: input.AccountType,
			Currency:    input.Currency,
		})
		if err != nil {
			log.Errorf("Failed to create account: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to create account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Account created", a)
	}
}

// GetAccount returns a handler fetching one account the caller owns.
func GetAccount(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.UserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err, fiber.StatusUnauthorized)
		}
		accountID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account ID", err,
				"Account ID must be a valid UUID", fiber.StatusBadRequest)
		}
		a, err := svc.GetAccount(c.UserContext(), userID, accountID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Account not found", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account retrieved", a)
	}
}

// GetTransactions returns a handler paging through an owned account's
// history. Page and limit come from query parameters and fall back to
// defaults when absent or invalid.
func GetTransactions(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.UserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err, fiber.StatusUnauthorized)
		}
		accountID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account ID", err,
				"Account ID must be a valid UUID", fiber.StatusBadRequest)
		}
		page := c.QueryInt("page", 1)
		limit := c.QueryInt("limit", accountsvc.DefaultPageLimit)
		result, err := svc.GetTransactions(c.UserContext(), userID, accountID, page, limit)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list transactions", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions retrieved", result)
	}
}

// SearchAccount returns a handler resolving a recipient account by its
// number. The projection carries the owner's name and masked email only.
func SearchAccount(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.UserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err, fiber.StatusUnauthorized)
		}
		result, err := svc.SearchAccountByNumber(c.UserContext(), userID, c.Params("accountNumber"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Account search failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account found", result)
	}
}
