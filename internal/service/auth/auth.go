package authsrv

import (
	"context"
	"time"

	"github.com/fazamuttaqien/lending/internal/domain"
	"github.com/fazamuttaqien/lending/internal/dto"
	"github.com/fazamuttaqien/lending/internal/repository"
	"github.com/fazamuttaqien/lending/internal/service"
	"github.com/fazamuttaqien/lending/pkg/common"
	"github.com/fazamuttaqien/lending/pkg/password"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type authService struct {
	userRepository repository.UserRepository

	jwtSecret string
	tokenTTL  time.Duration

	meter  metric.Meter
	tracer trace.Tracer
	log    *zap.Logger

	loginCount metric.Int64Counter
}

// Login implements service.AuthServices.
func (a *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	ctx, span := a.tracer.Start(ctx, "service.Login")
	defer span.End()

	user, err := a.userRepository.FindByEmail(ctx, req.Email)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if user == nil || !password.CheckPasswordHash(req.Password, user.Password) {
		a.log.Warn("Login rejected",
			zap.String("email", req.Email),
			zap.String("trace_id", span.SpanContext().TraceID().String()),
		)
		return nil, common.ErrInvalidCredentials
	}

	claims := &domain.JwtCustomClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(a.tokenTTL)),
			Issuer:    "lending",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(a.jwtSecret))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	a.loginCount.Add(ctx, 1)

	return &dto.LoginResponse{Token: signedToken}, nil
}

func NewAuthService(
	userRepository repository.UserRepository,
	jwtSecret string,
	tokenTTL time.Duration,

	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) service.AuthServices {
	loginCount, _ := meter.Int64Counter(
		"service.logins.count",
		metric.WithDescription("Number of successful logins"),
		metric.WithUnit("{login}"),
	)

	return &authService{
		userRepository: userRepository,
		jwtSecret:      jwtSecret,
		tokenTTL:       tokenTTL,
		meter:          meter,
		tracer:         tracer,
		log:            log,
		loginCount:     loginCount,
	}
}
