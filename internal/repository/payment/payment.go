package paymentrepo

import (
	"context"

	"github.com/fazamuttaqien/lending/internal/domain"
	"github.com/fazamuttaqien/lending/internal/model"
	"github.com/fazamuttaqien/lending/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type paymentRepository struct {
	db *gorm.DB

	meter  metric.Meter
	tracer trace.Tracer
	log    *zap.Logger
}

// FindByLoanID implements repository.PaymentRepository.
func (p *paymentRepository) FindByLoanID(ctx context.Context, loanID uint64) ([]domain.Payment, error) {
	ctx, span := p.tracer.Start(ctx, "repository.payment.FindByLoanID",
		trace.WithAttributes(attribute.Int64("loan.id", int64(loanID))))
	defer span.End()

	var payments []model.Payment
	err := p.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("payment_date ASC").
		Find(&payments).Error
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	return model.PaymentsToEntity(payments), nil
}

// Create implements repository.PaymentRepository.
func (p *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	ctx, span := p.tracer.Start(ctx, "repository.payment.Create",
		trace.WithAttributes(attribute.Int64("loan.id", int64(payment.LoanID))))
	defer span.End()

	data := model.PaymentFromEntity(payment)
	if err := p.db.WithContext(ctx).Create(&data).Error; err != nil {
		span.RecordError(err)
		return err
	}

	p.log.Debug("Payment recorded",
		zap.String("payment_id", data.ID),
		zap.Uint64("loan_id", data.LoanID),
		zap.Float64("amount", data.Amount),
	)

	return nil
}

func NewPaymentRepository(
	db *gorm.DB,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) repository.PaymentRepository {
	return &paymentRepository{
		db:     db,
		meter:  meter,
		tracer: tracer,
		log:    log,
	}
}
