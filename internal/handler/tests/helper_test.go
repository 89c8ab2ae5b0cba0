package handler_test

import (
	"github.com/fazamuttaqien/lending/internal/domain"
	adminhandler "github.com/fazamuttaqien/lending/internal/handler/admin"
	authhandler "github.com/fazamuttaqien/lending/internal/handler/auth"
	customerhandler "github.com/fazamuttaqien/lending/internal/handler/customer"

	"github.com/gofiber/fiber/v2"
)

// principalMiddleware stands in for the auth middleware and plants a fixed
// principal in the request locals.
func principalMiddleware(principal domain.Principal) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("principal", principal)
		return c.Next()
	}
}

func setupCustomerApp(handler *customerhandler.CustomerHandler) *fiber.App {
	app := fiber.New()

	loans := app.Group("/api/v1/customers/loans",
		principalMiddleware(domain.Principal{ID: 2, Role: domain.CustomerRole}))
	loans.Post("/", handler.CreateLoan)
	loans.Patch("/:loanId", handler.PayLoan)
	loans.Get("/", handler.GetLoans)
	loans.Get("/:loanId", handler.GetLoans)

	return app
}

func setupAdminApp(handler *adminhandler.AdminHandler) *fiber.App {
	app := fiber.New()

	loans := app.Group("/api/v1/admin/loans",
		principalMiddleware(domain.Principal{ID: 1, Role: domain.AdminRole}))
	loans.Get("/", handler.GetLoans)
	loans.Get("/:loanId", handler.GetLoans)
	loans.Patch("/:loanId", handler.DecideLoan)

	return app
}

func setupAuthApp(handler *authhandler.AuthHandler) *fiber.App {
	app := fiber.New()
	app.Post("/api/v1/auth/login", handler.Login)
	return app
}
