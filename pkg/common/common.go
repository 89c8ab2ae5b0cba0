package common

import (
	"errors"
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrDuplicateReference   = errors.New("loan with reference ID already exists")
	ErrLoanNotFound         = errors.New("loan not found")
	ErrLoanNotPayable       = errors.New("no loan found for payment")
	ErrAmountExceedsBalance = errors.New("amount more than pending balance")
	ErrBelowDueInstallment  = errors.New("payment amount must not be less than the due amount")
	ErrNoPendingInstallment = errors.New("loan has no pending installments")
	ErrUnknownRole          = errors.New("unknown principal role")
)

// InvalidLoanIDsError reports the loan IDs of a batch decision that were
// either unknown or no longer pending. The whole batch is rejected.
type InvalidLoanIDsError struct {
	IDs []uint64
}

func (e *InvalidLoanIDsError) Error() string {
	return fmt.Sprintf("invalid loan IDs specified: %v", e.IDs)
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

func SuccessResponse(c *fiber.Ctx, statusCode int, data any) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status": "success",
		"data":   data,
	})
}

func ErrorResponse(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  "error",
		"message": message,
	})
}
