package authhandler

import (
	"errors"

	"github.com/fazamuttaqien/lending/internal/dto"
	"github.com/fazamuttaqien/lending/internal/service"
	"github.com/fazamuttaqien/lending/pkg/common"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService service.AuthServices
	validate    *validator.Validate

	meter  metric.Meter
	tracer trace.Tracer
	log    *zap.Logger
}

// Login exchanges email/password credentials for a bearer token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse request body"})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": err.Error(),
		})
	}

	res, err := h.authService.Login(c.Context(), req)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		}
		h.log.Error("Internal server error on Login", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "An internal server error occurred"})
	}

	return c.Status(fiber.StatusOK).JSON(res)
}

func NewAuthHandler(
	authService service.AuthServices,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		meter:       meter,
		tracer:      tracer,
		log:         log,
	}
}
