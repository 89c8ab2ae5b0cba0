package presenter

import (
	"time"

	"github.com/fazamuttaqien/lending/config"
	adminhandler "github.com/fazamuttaqien/lending/internal/handler/admin"
	authhandler "github.com/fazamuttaqien/lending/internal/handler/auth"
	customerhandler "github.com/fazamuttaqien/lending/internal/handler/customer"
	"github.com/fazamuttaqien/lending/internal/repository"
	loanrepo "github.com/fazamuttaqien/lending/internal/repository/loan"
	userrepo "github.com/fazamuttaqien/lending/internal/repository/user"
	authsrv "github.com/fazamuttaqien/lending/internal/service/auth"
	loansrv "github.com/fazamuttaqien/lending/internal/service/loan"
	"github.com/fazamuttaqien/lending/pkg/keyedmutex"
	"github.com/fazamuttaqien/lending/pkg/telemetry"

	"gorm.io/gorm"
)

type Presenter struct {
	CustomerPresenter *customerhandler.CustomerHandler
	AdminPresenter    *adminhandler.AdminHandler
	AuthPresenter     *authhandler.AuthHandler

	// UserRepository is shared with the auth middleware for resolving basic
	// credentials.
	UserRepository repository.UserRepository
}

func NewPresenter(
	db *gorm.DB,
	cfg *config.Config,
	tel *telemetry.OpenTelemetry,
) Presenter {
	// Repository
	loanRepositoryMeter := tel.MeterProvider.Meter("loan-repository-meter")
	loanRepositoryTracer := tel.TracerProvider.Tracer("loan-repository-tracer")
	loanRepository := loanrepo.NewLoanRepository(
		db,
		loanRepositoryMeter,
		loanRepositoryTracer,
		tel.Log,
	)

	userRepositoryMeter := tel.MeterProvider.Meter("user-repository-meter")
	userRepositoryTracer := tel.TracerProvider.Tracer("user-repository-tracer")
	userRepository := userrepo.NewUserRepository(
		db,
		userRepositoryMeter,
		userRepositoryTracer,
		tel.Log,
	)

	// Service
	loanServiceMeter := tel.MeterProvider.Meter("loan-service-meter")
	loanServiceTracer := tel.TracerProvider.Tracer("loan-service-trace")
	loanService := loansrv.NewLoanService(
		db,
		loanRepository,
		keyedmutex.New(),
		time.Now,
		loanServiceMeter,
		loanServiceTracer,
		tel.Log,
	)

	authServiceMeter := tel.MeterProvider.Meter("auth-service-meter")
	authServiceTracer := tel.TracerProvider.Tracer("auth-service-trace")
	authService := authsrv.NewAuthService(
		userRepository,
		cfg.JWT_SECRET_KEY,
		cfg.JWT_TOKEN_TTL,
		authServiceMeter,
		authServiceTracer,
		tel.Log,
	)

	// Handler
	customerHandlerMeter := tel.MeterProvider.Meter("customer-handler-meter")
	customerHandlerTracer := tel.TracerProvider.Tracer("customer-handler-trace")
	customerHandler := customerhandler.NewCustomerHandler(
		loanService,
		customerHandlerMeter,
		customerHandlerTracer,
		tel.Log,
	)

	adminHandlerMeter := tel.MeterProvider.Meter("admin-handler-meter")
	adminHandlerTracer := tel.TracerProvider.Tracer("admin-handler-trace")
	adminHandler := adminhandler.NewAdminHandler(
		loanService,
		adminHandlerMeter,
		adminHandlerTracer,
		tel.Log,
	)

	authHandlerMeter := tel.MeterProvider.Meter("auth-handler-meter")
	authHandlerTracer := tel.TracerProvider.Tracer("auth-handler-trace")
	authHandler := authhandler.NewAuthHandler(
		authService,
		authHandlerMeter,
		authHandlerTracer,
		tel.Log,
	)

	return Presenter{
		CustomerPresenter: customerHandler,
		AdminPresenter:    adminHandler,
		AuthPresenter:     authHandler,
		UserRepository:    userRepository,
	}
}
