package adminhandler

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

type AdminHandler struct {
	loanService service.LoanServices
	validate    *validator.Validate

	meter  metric.Meter
	tracer trace.Tracer
	log    *zap.Logger
}

// GetLoans lists loans across all customers, optionally narrowed to one id.
func (h *AdminHandler) GetLoans(c *fiber.Ctx) error {
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

// DecideLoan approves or denies a pending loan application.
func (h *AdminHandler) DecideLoan(c *fiber.Ctx) error {
	loanID, err := strconv.ParseUint(c.Params("loanId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid loan ID"})
	}

	var req dto.DecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse request body"})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": err.Error(),
		})
	}

	if err := h.loanService.ApproveOrDeny(c.Context(), []uint64{loanID}, *req.Approval); err != nil {
		var invalidIDs *common.InvalidLoanIDsError
		if errors.As(err, &invalidIDs) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":            invalidIDs.Error(),
				"invalid_loan_ids": invalidIDs.IDs,
			})
		}
		h.log.Error("Internal server error on DecideLoan", zap.Uint64("loan_id", loanID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "An internal server error occurred"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Loan decision recorded"})
}

func NewAdminHandler(
	loanService service.LoanServices,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		loanService: loanService,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		meter:       meter,
		tracer:      tracer,
		log:         log,
	}
}
