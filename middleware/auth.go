package middleware

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/fazamuttaqien/lending/internal/domain"
	"github.com/fazamuttaqien/lending/internal/repository"
	"github.com/fazamuttaqien/lending/pkg/password"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const principalKey = "principal"

// NewAuthMiddleware authenticates the request from the Authorization header.
// Basic credentials are resolved against the users table; bearer tokens must
// be JWTs issued by the login endpoint. Either way the resolved principal
// lands in the request locals.
func NewAuthMiddleware(users repository.UserRepository, jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		scheme, credentials, found := strings.Cut(header, " ")
		if !found || credentials == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing or malformed Authorization header"})
		}

		switch strings.ToLower(scheme) {
		case "basic":
			principal, err := resolveBasic(c, users, credentials)
			if err != nil {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
			}
			c.Locals(principalKey, principal)
		case "bearer":
			principal, err := resolveBearer(credentials, jwtSecret)
			if err != nil {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired JWT"})
			}
			c.Locals(principalKey, principal)
		default:
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unsupported authorization scheme"})
		}

		return c.Next()
	}
}

func resolveBasic(c *fiber.Ctx, users repository.UserRepository, credentials string) (domain.Principal, error) {
	decoded, err := base64.StdEncoding.DecodeString(credentials)
	if err != nil {
		return domain.Principal{}, err
	}

	email, pass, found := strings.Cut(string(decoded), ":")
	if !found || email == "" || pass == "" {
		return domain.Principal{}, errors.New("malformed basic credentials")
	}

	user, err := users.FindByEmail(c.Context(), email)
	if err != nil {
		return domain.Principal{}, err
	}
	if user == nil || !password.CheckPasswordHash(pass, user.Password) {
		return domain.Principal{}, errors.New("unknown user or wrong password")
	}

	return domain.Principal{ID: user.ID, Role: user.Role}, nil
}

func resolveBearer(tokenStr, jwtSecret string) (domain.Principal, error) {
	claims := &domain.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return domain.Principal{}, errors.New("invalid token")
	}

	return domain.Principal{ID: claims.UserID, Role: claims.Role}, nil
}

func RequireRole(allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := c.Locals(principalKey).(domain.Principal)
		if !ok {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not resolve request principal"})
		}

		for _, role := range allowedRoles {
			if principal.Role == role {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Access denied: insufficient permissions"})
	}
}

func GetPrincipalFromLocals(c *fiber.Ctx) (domain.Principal, error) {
	principal, ok := c.Locals(principalKey).(domain.Principal)
	if !ok {
		return domain.Principal{}, errors.New("principal not found in context")
	}
	return principal, nil
}
