package customerhandler

import (
	"errors"
	"strconv"

	"github.com/fazamuttaqien/lending/internal/dto"
	"github.com/fazamuttaqien/lending/internal/service"
	"github.com/fazamuttaqien/lending/middleware"
	"github.com/fazamuttaqien/lending/pkg/common"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type CustomerHandler struct {
	loanService service.LoanServices
	validate    *validator.Validate

	meter  metric.Meter
	tracer trace.Tracer
	log    *zap.Logger
}

// CreateLoan submits a new loan application for the authenticated customer.
func (h *CustomerHandler) CreateLoan(c *fiber.Ctx) error {
	principal, err := middleware.GetPrincipalFromLocals(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not resolve request principal"})
	}

	var req dto.CreateLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse request body"})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": err.Error(),
		})
	}

	loan, err := h.loanService.Create(c.Context(), principal.ID, req)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateReference) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		h.log.Error("Internal server error on CreateLoan", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "An internal server error occurred"})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.LoanToResponse(loan))
}

// PayLoan applies a repayment to the given loan.
func (h *CustomerHandler) PayLoan(c *fiber.Ctx) error {
	loanID, err := strconv.ParseUint(c.Params("loanId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid loan ID"})
	}

	var req dto.PayLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse request body"})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": err.Error(),
		})
	}

	loan, err := h.loanService.Pay(c.Context(), loanID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrLoanNotPayable),
			errors.Is(err, common.ErrAmountExceedsBalance),
			errors.Is(err, common.ErrBelowDueInstallment),
			errors.Is(err, common.ErrNoPendingInstallment):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		default:
			h.log.Error("Internal server error on PayLoan", zap.Uint64("loan_id", loanID), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "An internal server error occurred"})
		}
	}

	return c.Status(fiber.StatusOK).JSON(dto.LoanToResponse(loan))
}

// GetLoans lists the customer's own loans, optionally narrowed to one id.
func (h *CustomerHandler) GetLoans(c *fiber.Ctx) error {
	principal, err := middleware.GetPrincipalFromLocals(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not resolve request principal"})
	}

	var loanIDs []uint64
	if param := c.Params("loanId"); param != "" {
		loanID, err := strconv.ParseUint(param, 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid loan ID"})
		}
		loanIDs = append(loanIDs, loanID)
	}

	loans, err := h.loanService.Get(c.Context(), principal, loanIDs)
	if err != nil {
		h.log.Error("Internal server error on GetLoans", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "An internal server error occurred"})
	}
	if len(loanIDs) > 0 && len(loans) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": common.ErrLoanNotFound.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(dto.LoansToResponse(loans))
}

func NewCustomerHandler(
	loanService service.LoanServices,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) *CustomerHandler {
	return &CustomerHandler{
		loanService: loanService,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		meter:       meter,
		tracer:      tracer,
		log:         log,
	}
}
