package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fazamuttaqien/lending/internal/dto"
	authhandler "github.com/fazamuttaqien/lending/internal/handler/auth"
	"github.com/fazamuttaqien/lending/pkg/common"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

func TestAuthHandler_Login(t *testing.T) {
	// Arrange
	mockService := &mockAuthService{}
	handler := authhandler.NewAuthHandler(
		mockService,
		otel.GetMeterProvider().Meter(""),
		otel.GetTracerProvider().Tracer(""),
		zap.NewNop(),
	)
	app := setupAuthApp(handler)

	t.Run("Success", func(t *testing.T) {
		mockService.MockError = nil
		mockService.MockLoginResult = &dto.LoginResponse{Token: "signed-jwt"}

		body := `{"email": "customer@test.local", "password": "s3cret"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		// Act
		resp, _ := app.Test(req)
		defer resp.Body.Close()

		// Assert
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var res dto.LoginResponse
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "signed-jwt", res.Token)
	})

	t.Run("Invalid Credentials", func(t *testing.T) {
		mockService.MockError = common.ErrInvalidCredentials

		body := `{"email": "customer@test.local", "password": "wrong"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		// Act
		resp, _ := app.Test(req)
		defer resp.Body.Close()

		// Assert
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Missing Email", func(t *testing.T) {
		mockService.MockError = nil

		body := `{"password": "s3cret"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		// Act
		resp, _ := app.Test(req)
		defer resp.Body.Close()

		// Assert
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
