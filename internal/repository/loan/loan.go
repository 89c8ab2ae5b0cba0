package loanrepo

import (
	"context"
	"errors"
	"time"

	"github.com/fazamuttaqien/lending/internal/domain"
	"github.com/fazamuttaqien/lending/internal/model"
	"github.com/fazamuttaqien/lending/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type loanRepository struct {
	db *gorm.DB

	meter  metric.Meter
	tracer trace.Tracer
	log    *zap.Logger
}

// preloadInstallments keeps the payment-application order stable: ascending
// installment id, which matches ascending due date.
func preloadInstallments(db *gorm.DB) *gorm.DB {
	return db.Order("installments.id ASC")
}

// FindByID implements repository.LoanRepository.
func (l *loanRepository) FindByID(ctx context.Context, id uint64) (*domain.Loan, error) {
	ctx, span := l.tracer.Start(ctx, "repository.loan.FindByID",
		trace.WithAttributes(attribute.Int64("loan.id", int64(id))))
	defer span.End()

	var loan model.Loan
	err := l.db.WithContext(ctx).
		Preload("Installments", preloadInstallments).
		First(&loan, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, err
	}

	return model.LoanToEntity(loan), nil
}

// FindByCustomerAndReference implements repository.LoanRepository.
func (l *loanRepository) FindByCustomerAndReference(ctx context.Context, customerID uint64, referenceID string) (*domain.Loan, error) {
	ctx, span := l.tracer.Start(ctx, "repository.loan.FindByCustomerAndReference")
	defer span.End()

	var loan model.Loan
	err := l.db.WithContext(ctx).
		Where("customer_id = ? AND reference_id = ?", customerID, referenceID).
		First(&loan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, err
	}

	return model.LoanToEntity(loan), nil
}

// FindAll implements repository.LoanRepository.
func (l *loanRepository) FindAll(ctx context.Context, filter repository.LoanFilter) ([]domain.Loan, error) {
	ctx, span := l.tracer.Start(ctx, "repository.loan.FindAll")
	defer span.End()

	query := l.db.WithContext(ctx).Model(&model.Loan{})
	if len(filter.IDs) > 0 {
		query = query.Where("id IN ?", filter.IDs)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}

	var loans []model.Loan
	err := query.
		Preload("Installments", preloadInstallments).
		Order("id ASC").
		Find(&loans).Error
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	l.log.Debug("Loans fetched",
		zap.Int("count", len(loans)),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)

	return model.LoansToEntity(loans), nil
}

// Create implements repository.LoanRepository.
func (l *loanRepository) Create(ctx context.Context, loan *domain.Loan) (*domain.Loan, error) {
	ctx, span := l.tracer.Start(ctx, "repository.loan.Create")
	defer span.End()

	data := model.LoanFromEntity(loan)
	if err := l.db.WithContext(ctx).Create(&data).Error; err != nil {
		span.RecordError(err)
		return nil, err
	}

	return model.LoanToEntity(data), nil
}

// UpdateDecision implements repository.LoanRepository.
func (l *loanRepository) UpdateDecision(ctx context.Context, ids []uint64, status domain.LoanStatus, decisionDate time.Time) error {
	ctx, span := l.tracer.Start(ctx, "repository.loan.UpdateDecision",
		trace.WithAttributes(attribute.String("loan.status", string(status))))
	defer span.End()

	err := l.db.WithContext(ctx).Model(&model.Loan{}).
		Where("id IN ?", ids).
		Updates(map[string]any{
			"status":        model.LoanStatus(status),
			"decision_date": decisionDate,
		}).Error
	if err != nil {
		span.RecordError(err)
	}

	return err
}

// UpdateBalanceAndStatus implements repository.LoanRepository.
func (l *loanRepository) UpdateBalanceAndStatus(ctx context.Context, id uint64, balance float64, status domain.LoanStatus) error {
	ctx, span := l.tracer.Start(ctx, "repository.loan.UpdateBalanceAndStatus",
		trace.WithAttributes(
			attribute.Int64("loan.id", int64(id)),
			attribute.Float64("loan.balance", balance),
			attribute.String("loan.status", string(status)),
		))
	defer span.End()

	err := l.db.WithContext(ctx).Model(&model.Loan{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"balance": balance,
			"status":  model.LoanStatus(status),
		}).Error
	if err != nil {
		span.RecordError(err)
	}

	return err
}

func NewLoanRepository(
	db *gorm.DB,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) repository.LoanRepository {
	return &loanRepository{
		db:     db,
		meter:  meter,
		tracer: tracer,
		log:    log,
	}
}
