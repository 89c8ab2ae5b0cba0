package telemetry

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fazamuttaqien/lending/config"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"

	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

type OpenTelemetry struct {
	Log            *zap.Logger
	TracerProvider *sdktrace.TracerProvider
	LoggerProvider *sdklog.LoggerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Meter          metric.Meter
	Shutdown       func(context.Context) error
}

// New initializes every telemetry component and registers the global
// providers, propagator and zap logger.
func New(ctx context.Context, cfg *config.Config) (*OpenTelemetry, error) {
	res, err := NewResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTel resource: %w", err)
	}

	// One gRPC connection shared by all exporters.
	// !! WARNING: Using insecure connection for example !!
	// !!          Configure TLS and auth for production !!
	conn, err := NewOTLPClient(cfg.OTEL_EXPORTER_OTLP_ENDPOINT)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP client: %w", err)
	}

	tracerProvider, err := NewTracerProvider(ctx, conn, res)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create tracer provider: %w", err)
	}
	otel.SetTracerProvider(tracerProvider)

	loggerProvider, err := NewLoggerProvider(ctx, conn, res)
	if err != nil {
		conn.Close()
		tracerProvider.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to create logger provider: %w", err)
	}
	// No global logger provider, use via otelzap

	meterProvider, err := NewMeterProvider(ctx, conn, res, cfg)
	if err != nil {
		conn.Close()
		tracerProvider.Shutdown(context.Background())
		loggerProvider.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to create meter provider: %w", err)
	}
	otel.SetMeterProvider(meterProvider)

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	log := NewZapLogger(cfg, loggerProvider)
	zap.ReplaceGlobals(log)

	if cfg.RUNTIME_METRICS {
		zap.L().Info("Starting runtime metrics collection")
		if err := runtime.Start(runtime.WithMeterProvider(meterProvider),
			runtime.WithMinimumReadMemStatsInterval(time.Second)); err != nil {
			zap.L().Warn("Failed to start runtime metrics collector", zap.Error(err))
			// Non-fatal, continue startup
		}
	}

	appMeter := meterProvider.Meter(cfg.SERVICE_NAME)

	shutdown := func(ctx context.Context) error {
		zap.L().Info("Shutting down telemetry components...")
		var firstErr error

		// 1. Flush logger
		if err := zap.L().Sync(); err != nil {
			fmt.Fprintf(os.Stderr, "Error syncing zap logger: %v\n", err)
			firstErr = fmt.Errorf("zap sync failed: %w", err)
		}

		// 2. Shutdown providers
		if err := meterProvider.Shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error shutting down meter provider: %v\n", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("meter shutdown failed: %w", err)
			}
		}
		// Logger provider shutdown is important for otelzap bridge
		if err := loggerProvider.Shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error shutting down logger provider: %v\n", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("logger shutdown failed: %w", err)
			}
		}
		if err := tracerProvider.Shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error shutting down tracer provider: %v\n", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("tracer shutdown failed: %w", err)
			}
		}

		// 3. Close connection (after providers using it are shutdown)
		if err := conn.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing OTLP gRPC connection: %v\n", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("grpc conn close failed: %w", err)
			}
		}

		zap.L().Info("Telemetry shutdown complete.")
		return firstErr
	}

	zap.L().Info("Telemetry initialized successfully", zap.String("otel_endpoint", cfg.OTEL_EXPORTER_OTLP_ENDPOINT))

	return &OpenTelemetry{
		Log:            log,
		TracerProvider: tracerProvider,
		LoggerProvider: loggerProvider,
		MeterProvider:  meterProvider,
		Meter:          appMeter,
		Shutdown:       shutdown,
	}, nil
}

func NewResource(cfg *config.Config) (*sdkresource.Resource, error) {
	hostName, _ := os.Hostname()
	instanceID := fmt.Sprintf("%s-%d", hostName, time.Now().UnixNano())

	return sdkresource.New(
		context.Background(),
		sdkresource.WithProcess(),
		sdkresource.WithOS(),
		sdkresource.WithContainer(),
		sdkresource.WithHost(),
		sdkresource.WithFromEnv(),
		sdkresource.WithAttributes(
			semconv.ServiceVersionKey.String(cfg.SERVICE_VERSION),
			semconv.ServiceInstanceIDKey.String(instanceID),
		),
	)
}

func NewTracerProvider(ctx context.Context, conn *grpc.ClientConn, res *sdkresource.Resource) (*sdktrace.TracerProvider, error) {
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}

	// Use BatchSpanProcessor for production
	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(0.1))), // 10% sampling rate
	)
	return tracerProvider, nil
}

func NewLoggerProvider(ctx context.Context, conn *grpc.ClientConn, res *sdkresource.Resource) (*sdklog.LoggerProvider, error) {
	logExporter, err := otlploggrpc.New(ctx, otlploggrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}

	blp := sdklog.NewBatchProcessor(logExporter)

	loggerProvider := sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(blp),
	)
	return loggerProvider, nil
}

func NewMeterProvider(ctx context.Context, conn *grpc.ClientConn, res *sdkresource.Resource, cfg *config.Config) (*sdkmetric.MeterProvider, error) {
	metricExporter, err := otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(
				metricExporter,
				sdkmetric.WithInterval(cfg.METRIC_INTERVAL),
			),
		),
	)
	return meterProvider, nil
}

func NewOTLPClient(endpoint string) (*grpc.ClientConn, error) {
	// !! PRODUCTION: Use secure credentials (TLS) and potentially auth !!
	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithConnectParams(grpc.ConnectParams{MinConnectTimeout: 5 * time.Second}),
	}

	conn, err := grpc.NewClient(endpoint, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection to %s: %w", endpoint, err)
	}
	return conn, nil
}

// NewZapLogger builds the application logger: stdout plus the OTel log
// pipeline via the otelzap bridge.
func NewZapLogger(cfg *config.Config, loggerProvider *sdklog.LoggerProvider) *zap.Logger {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.LOG_LEVEL)); err != nil {
		level = zapcore.InfoLevel // fallback
	}

	var encoderConfig zapcore.EncoderConfig
	if cfg.DEVELOPMENT_MODE {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	} else {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.LevelKey = "level"
		encoderConfig.NameKey = "logger"
		encoderConfig.CallerKey = "caller"
		encoderConfig.MessageKey = "message"
		encoderConfig.StacktraceKey = "stacktrace"
		encoderConfig.FunctionKey = zapcore.OmitKey
		encoderConfig.LineEnding = zapcore.DefaultLineEnding
		encoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoderConfig.EncodeDuration = zapcore.SecondsDurationEncoder
		encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	}

	var encoder zapcore.Encoder
	if cfg.DEVELOPMENT_MODE {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	stdoutSink := zapcore.AddSync(os.Stdout)
	stdoutCore := zapcore.NewCore(encoder, stdoutSink, level)

	otelCore := otelzap.NewCore(
		cfg.SERVICE_NAME,
		otelzap.WithLoggerProvider(loggerProvider),
	)

	core := zapcore.NewTee(stdoutCore, otelCore)

	opts := []zap.Option{
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel), // Stacktrace only for error level
		zap.Fields(
			zap.String("service.name", cfg.SERVICE_NAME),
			zap.String("service.version", cfg.SERVICE_VERSION),
			zap.String("deployment.environment", cfg.ENVIRONMENT),
		),
	}

	return zap.New(core, opts...)
}
