// Package transaction exposes the transaction pipeline over HTTP.
package transaction

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/bankx/transactions/pkg/processor"
	"github.com/bankx/transactions/webapi/common"
)

// Routes registers the transaction endpoints.
//
//   - POST /transactions                      : Submit a DEBIT or CREDIT.
//   - GET  /accounts/:number/transactions     : List an account's transactions, newest first.
//   - GET  /transactions/stream               : Live SSE stream of committed transactions.
func Routes(app *fiber.App, svc *processor.Service) {
	app.Post("/transactions", CreateTransaction(svc))
	app.Get("/accounts/:number/transactions", ListTransactions(svc))
	app.Get("/transactions/stream", Stream(svc))
}

// CreateTransaction returns a Fiber handler that submits a transaction to
// the processor and renders the persisted record, or a problem-details
// response with the status code matching the rejection.
func CreateTransaction(svc *processor.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreateTransactionRequest](c)
		if input == nil {
			return err // error response already written
		}
		tx, err := svc.CreateTransaction(c.UserContext(), input.AccountNumber, input.Type, input.Amount)
		if err != nil {
			log.Errorf("Failed to create transaction: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to create transaction", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Transaction created", tx)
	}
}

// ListTransactions returns a Fiber handler that lists an account's
// committed transactions in reverse-chronological order.
func ListTransactions(svc *processor.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := svc.ListTransactions(c.UserContext(), c.Params("number"))
		if err != nil {
			log.Errorf("Failed to list transactions: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to list transactions", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions", list)
	}
}
