package installmentrepo

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

type installmentRepository struct {
	db *gorm.DB

	meter  metric.Meter
	tracer trace.Tracer
	log    *zap.Logger
}

// FindByLoanID implements repository.InstallmentRepository.
func (i *installmentRepository) FindByLoanID(ctx context.Context, loanID uint64) ([]domain.Installment, error) {
	ctx, span := i.tracer.Start(ctx, "repository.installment.FindByLoanID",
		trace.WithAttributes(attribute.Int64("loan.id", int64(loanID))))
	defer span.End()

	var installments []model.Installment
	err := i.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("id ASC").
		Find(&installments).Error
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	return model.InstallmentsToEntity(installments), nil
}

// CreateBatch implements repository.InstallmentRepository.
func (i *installmentRepository) CreateBatch(ctx context.Context, installments []domain.Installment) ([]domain.Installment, error) {
	ctx, span := i.tracer.Start(ctx, "repository.installment.CreateBatch",
		trace.WithAttributes(attribute.Int("installment.count", len(installments))))
	defer span.End()

	records := model.InstallmentsFromEntity(installments)
	if err := i.db.WithContext(ctx).Create(&records).Error; err != nil {
		span.RecordError(err)
		return nil, err
	}

	i.log.Debug("Installments created", zap.Int("count", len(records)))

	return model.InstallmentsToEntity(records), nil
}

// Update implements repository.InstallmentRepository. Only the mutable
// payment fields are written; identity and due date never change.
func (i *installmentRepository) Update(ctx context.Context, installment *domain.Installment) error {
	ctx, span := i.tracer.Start(ctx, "repository.installment.Update",
		trace.WithAttributes(
			attribute.Int64("installment.id", int64(installment.ID)),
			attribute.String("installment.status", string(installment.Status)),
		))
	defer span.End()

	data := model.InstallmentFromEntity(installment)
	err := i.db.WithContext(ctx).Model(&model.Installment{}).
		Where("id = ?", installment.ID).
		Select("due_amount", "paid_amount", "payment_date", "status").
		Updates(&data).Error
	if err != nil {
		span.RecordError(err)
	}

	return err
}

func NewInstallmentRepository(
	db *gorm.DB,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) repository.InstallmentRepository {
	return &installmentRepository{
		db:     db,
		meter:  meter,
		tracer: tracer,
		log:    log,
	}
}
