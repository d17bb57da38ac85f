// Package transaction exposes the money-movement endpoints.
package transaction

import (
	"fmt"

	"github.com/corebank/ledger/pkg/commands"
	"github.com/corebank/ledger/pkg/config"
	domaincommon "github.com/corebank/ledger/pkg/domain/common"
	"github.com/corebank/ledger/pkg/middleware"
	accountsvc "github.com/corebank/ledger/pkg/service/account"
	"github.com/corebank/ledger/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// Routes registers the money-movement endpoints. All routes require a valid
// bearer token.
//
// Routes:
//   - POST /api/transactions/deposit  : Credit an active account.
//   - POST /api/transactions/withdraw : Debit an owned account.
//   - POST /api/transactions/transfer : Move funds between two accounts.
func Routes(app *fiber.App, svc *accountsvc.Service, cfg *config.AppConfig) {
	app.Post("/api/transactions/deposit", middleware.JwtProtected(cfg.Jwt), Deposit(svc))
	app.Post("/api/transactions/withdraw", middleware.JwtProtected(cfg.Jwt), Withdraw(svc))
	app.Post("/api/transactions/transfer", middleware.JwtProtected(cfg.Jwt), Transfer(svc))
}

// Deposit returns a handler crediting an account. Any authenticated user may
// deposit into any active account.
func Deposit(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := middleware.UserID(c); err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err, fiber.StatusUnauthorized)
		}
		input, err := common.BindAndValidate[DepositRequest](c)
		if input == nil {
			return err // error response already written
		}
		accountID, err := uuid.Parse(input.AccountID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account ID", err,
				"accountId must be a valid UUID", fiber.StatusBadRequest)
		}
		tx, err := svc.Deposit(c.UserContext(), commands.Deposit{
			AccountID:   accountID,
			Amount:      input.Amount,
			Description: input.Description,
			Reference:   input.Reference,
		})
		if err != nil {
			log.Errorf("Deposit failed: %v", err)
			return common.ProblemDetailsJSON(c, "Deposit failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Deposit completed", tx)
	}
}

// Withdraw returns a handler debiting an account the caller owns.
func Withdraw(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.UserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err, fiber.StatusUnauthorized)
		}
		input, err := common.BindAndValidate[WithdrawRequest](c)
		if input == nil {
			return err // error response already written
		}
		accountID, err := uuid.Parse(input.AccountID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account ID", err,
				"accountId must be a valid UUID", fiber.StatusBadRequest)
		}
		tx, err := svc.Withdraw(c.UserContext(), commands.Withdraw{
			UserID:      userID,
			AccountID:   accountID,
			Amount:      input.Amount,
			Description: input.Description,
			Reference:   input.Reference,
		})
		if err != nil {
			log.Errorf("Withdrawal failed: %v", err)
			return common.ProblemDetailsJSON(c, "Withdrawal failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Withdrawal completed", tx)
	}
}

// Transfer returns a handler moving funds from an owned account to another
// account, addressed by id or by number.
func Transfer(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.UserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err, fiber.StatusUnauthorized)
		}
		input, err := common.BindAndValidate[TransferRequest](c)
		if input == nil {
			return err // error response already written
		}
		fromID, err := uuid.Parse(input.FromAccountID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account ID", err,
				"fromAccountId must be a valid UUID", fiber.StatusBadRequest)
		}
		toID, err := resolveDestination(c, svc, userID, input)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid transfer destination", err)
		}
		tx, err := svc.Transfer(c.UserContext(), commands.Transfer{
			UserID:        userID,
			FromAccountID: fromID,
			ToAccountID:   toID,
			Amount:        input.Amount,
			Description:   input.Description,
			Reference:     input.Reference,
		})
		if err != nil {
			log.Errorf("Transfer failed: %v", err)
			return common.ProblemDetailsJSON(c, "Transfer failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Transfer completed", tx)
	}
}

// resolveDestination turns the request's destination into an account id. A
// number lookup goes through the same search rules as the search endpoint,
// so hidden and self-owned accounts are rejected consistently.
func resolveDestination(
	c *fiber.Ctx,
	svc *accountsvc.Service,
	userID uuid.UUID,
	input *TransferRequest,
) (uuid.UUID, error) {
	switch {
	case input.ToAccountID != "" && input.ToAccountNumber != "":
		return uuid.Nil, fmt.Errorf("%w: set either toAccountId or toAccountNumber, not both",
			domaincommon.ErrInvalidInput)
	case input.ToAccountID != "":
		toID, err := uuid.Parse(input.ToAccountID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("%w: toAccountId must be a valid UUID",
				domaincommon.ErrInvalidInput)
		}
		return toID, nil
	case input.ToAccountNumber != "":
		found, err := svc.SearchAccountByNumber(c.UserContext(), userID, input.ToAccountNumber)
		if err != nil {
			return uuid.Nil, err
		}
		return found.ID, nil
	default:
		return uuid.Nil, fmt.Errorf("%w: a transfer destination is required",
			domaincommon.ErrInvalidInput)
	}
}
