package loansrv

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/fazamuttaqien/lending/internal/domain"
	"github.com/fazamuttaqien/lending/internal/dto"
	"github.com/fazamuttaqien/lending/internal/repository"
	installmentrepo "github.com/fazamuttaqien/lending/internal/repository/installment"
	loanrepo "github.com/fazamuttaqien/lending/internal/repository/loan"
	paymentrepo "github.com/fazamuttaqien/lending/internal/repository/payment"
	"github.com/fazamuttaqien/lending/internal/service"
	"github.com/fazamuttaqien/lending/internal/service/allocation"
	"github.com/fazamuttaqien/lending/pkg/common"
	"github.com/fazamuttaqien/lending/pkg/keyedmutex"
	"github.com/fazamuttaqien/lending/pkg/money"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type loanService struct {
	db             *gorm.DB
	loanRepository repository.LoanRepository

	// locks serializes payments and decisions per loan id. Balance and
	// installment writes are read-modify-write against the same rows.
	locks *keyedmutex.KeyedMutex
	now   func() time.Time

	meter  metric.Meter
	tracer trace.Tracer
	log    *zap.Logger

	operationDuration metric.Float64Histogram
	operationCount    metric.Int64Counter
	errorCount        metric.Int64Counter
	loansCreated      metric.Int64Counter
	loansDecided      metric.Int64Counter
	paymentsApplied   metric.Int64Counter
}

// Create implements service.LoanServices.
func (s *loanService) Create(ctx context.Context, customerID uint64, req dto.CreateLoanRequest) (*domain.Loan, error) {
	ctx, span := s.tracer.Start(ctx, "service.CreateLoan")
	defer span.End()

	done := s.instrument(ctx, "create_loan")

	span.SetAttributes(
		attribute.Int64("loan.customer_id", int64(customerID)),
		attribute.String("loan.reference_id", req.ReferenceID),
		attribute.Float64("loan.amount", req.Amount),
		attribute.Int("loan.terms", int(req.Terms)),
	)

	existing, err := s.loanRepository.FindByCustomerAndReference(ctx, customerID, req.ReferenceID)
	if err != nil {
		return nil, s.fail(ctx, span, done, "create_loan", "reference_lookup_error", err)
	}
	if existing != nil {
		return nil, s.fail(ctx, span, done, "create_loan", "duplicate_reference", common.ErrDuplicateReference)
	}

	loan := &domain.Loan{
		CustomerID:      customerID,
		ReferenceID:     req.ReferenceID,
		Amount:          req.Amount,
		Terms:           req.Terms,
		Balance:         req.Amount,
		Status:          domain.LoanPending,
		ApplicationDate: s.now(),
	}

	created, err := s.loanRepository.Create(ctx, loan)
	if err != nil {
		// The unique (customer_id, reference_id) index catches creates that
		// raced past the lookup above.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.fail(ctx, span, done, "create_loan", "duplicate_reference", common.ErrDuplicateReference)
		}
		return nil, s.fail(ctx, span, done, "create_loan", "create_record_failed", err)
	}

	s.loansCreated.Add(ctx, 1)
	done("success")
	s.log.Info("Loan application created",
		zap.Uint64("loan_id", created.ID),
		zap.Uint64("customer_id", customerID),
		zap.Float64("amount", created.Amount),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)
	span.SetStatus(codes.Ok, "Loan created")

	return created, nil
}

// ApproveOrDeny implements service.LoanServices.
func (s *loanService) ApproveOrDeny(ctx context.Context, loanIDs []uint64, approve bool) error {
	ctx, span := s.tracer.Start(ctx, "service.ApproveOrDeny",
		trace.WithAttributes(
			attribute.Int("loan.batch_size", len(loanIDs)),
			attribute.Bool("loan.approve", approve),
		))
	defer span.End()

	done := s.instrument(ctx, "approve_or_deny")

	for _, id := range sortedUnique(loanIDs) {
		s.locks.Lock(id)
		defer s.locks.Unlock(id)
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return s.fail(ctx, span, done, "approve_or_deny", "transaction_begin_error",
			fmt.Errorf("failed to begin transaction: %w", tx.Error))
	}
	defer tx.Rollback()

	loanTx := loanrepo.NewLoanRepository(tx, s.meter, s.tracer, s.log)
	loans, err := loanTx.FindAll(ctx, repository.LoanFilter{
		IDs:      loanIDs,
		Statuses: []domain.LoanStatus{domain.LoanPending},
	})
	if err != nil {
		return s.fail(ctx, span, done, "approve_or_deny", "loan_lookup_error", err)
	}

	// Either missing or already approved/denied: reject the whole batch and
	// report the offending ids.
	if len(loans) != len(loanIDs) {
		present := make(map[uint64]bool, len(loans))
		for _, loan := range loans {
			present[loan.ID] = true
		}
		var missing []uint64
		for _, id := range loanIDs {
			if !present[id] {
				missing = append(missing, id)
			}
		}
		return s.fail(ctx, span, done, "approve_or_deny", "invalid_loan_ids",
			&common.InvalidLoanIDsError{IDs: missing})
	}

	status := domain.LoanDenied
	if approve {
		status = domain.LoanApproved
	}
	if err := loanTx.UpdateDecision(ctx, loanIDs, status, s.now()); err != nil {
		return s.fail(ctx, span, done, "approve_or_deny", "decision_update_error", err)
	}

	if approve {
		installmentTx := installmentrepo.NewInstallmentRepository(tx, s.meter, s.tracer, s.log)
		for _, loan := range loans {
			if _, err := installmentTx.CreateBatch(ctx, s.buildSchedule(&loan)); err != nil {
				return s.fail(ctx, span, done, "approve_or_deny", "schedule_create_error", err)
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		return s.fail(ctx, span, done, "approve_or_deny", "transaction_commit_error",
			fmt.Errorf("failed to commit transaction: %w", err))
	}

	s.loansDecided.Add(ctx, int64(len(loanIDs)),
		metric.WithAttributes(attribute.String("decision", string(status))))
	done("success")
	s.log.Info("Loan batch decided",
		zap.Uint64s("loan_ids", loanIDs),
		zap.String("decision", string(status)),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)
	span.SetStatus(codes.Ok, "Batch decided")

	return nil
}

// buildSchedule divides the loan balance into equal weekly installments. The
// final installment absorbs the rounding remainder, so the schedule always
// sums back to the balance exactly.
func (s *loanService) buildSchedule(loan *domain.Loan) []domain.Installment {
	shares := money.Split(loan.Balance, int(loan.Terms))
	now := s.now()

	installments := make([]domain.Installment, len(shares))
	for i, share := range shares {
		installments[i] = domain.Installment{
			LoanID:    loan.ID,
			DueAmount: share,
			DueDate:   now.AddDate(0, 0, 7*(i+1)),
			Status:    domain.InstallmentPending,
		}
	}

	return installments
}

// Pay implements service.LoanServices.
func (s *loanService) Pay(ctx context.Context, loanID uint64, amount float64) (*domain.Loan, error) {
	ctx, span := s.tracer.Start(ctx, "service.PayLoan",
		trace.WithAttributes(
			attribute.Int64("loan.id", int64(loanID)),
			attribute.Float64("payment.amount", amount),
		))
	defer span.End()

	done := s.instrument(ctx, "pay_loan")

	s.locks.Lock(loanID)
	defer s.locks.Unlock(loanID)

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, s.fail(ctx, span, done, "pay_loan", "transaction_begin_error",
			fmt.Errorf("failed to begin transaction: %w", tx.Error))
	}
	defer tx.Rollback()

	loanTx := loanrepo.NewLoanRepository(tx, s.meter, s.tracer, s.log)
	loan, err := loanTx.FindByID(ctx, loanID)
	if err != nil {
		return nil, s.fail(ctx, span, done, "pay_loan", "loan_lookup_error", err)
	}
	if loan == nil || (loan.Status != domain.LoanApproved && loan.Status != domain.LoanInProgress) {
		return nil, s.fail(ctx, span, done, "pay_loan", "loan_not_payable", common.ErrLoanNotPayable)
	}
	if loan.Balance < amount {
		return nil, s.fail(ctx, span, done, "pay_loan", "amount_exceeds_balance", common.ErrAmountExceedsBalance)
	}

	// Re-read the schedule inside the transaction rather than trusting the
	// preloaded association.
	installmentTx := installmentrepo.NewInstallmentRepository(tx, s.meter, s.tracer, s.log)
	installments, err := installmentTx.FindByLoanID(ctx, loanID)
	if err != nil {
		return nil, s.fail(ctx, span, done, "pay_loan", "installment_lookup_error", err)
	}

	now := s.now()
	result, err := allocation.Allocate(installments, amount, now)
	if err != nil {
		return nil, s.fail(ctx, span, done, "pay_loan", "allocation_rejected", err)
	}

	for i := range result.Mutations {
		if err := installmentTx.Update(ctx, &result.Mutations[i]); err != nil {
			return nil, s.fail(ctx, span, done, "pay_loan", "installment_update_error", err)
		}
	}

	paymentTx := paymentrepo.NewPaymentRepository(tx, s.meter, s.tracer, s.log)
	payment := &domain.Payment{
		ID:          strings.ReplaceAll(uuid.NewString(), "-", ""),
		LoanID:      loanID,
		Amount:      amount,
		PaymentDate: now,
	}
	if err := paymentTx.Create(ctx, payment); err != nil {
		return nil, s.fail(ctx, span, done, "pay_loan", "payment_record_error", err)
	}

	newBalance := money.Sub(loan.Balance, amount)
	newStatus := domain.LoanInProgress
	if newBalance == 0 {
		newStatus = domain.LoanPaid
	}
	if err := loanTx.UpdateBalanceAndStatus(ctx, loanID, newBalance, newStatus); err != nil {
		return nil, s.fail(ctx, span, done, "pay_loan", "balance_update_error", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, s.fail(ctx, span, done, "pay_loan", "transaction_commit_error",
			fmt.Errorf("failed to commit transaction: %w", err))
	}

	s.paymentsApplied.Add(ctx, 1)
	done("success")
	s.log.Info("Payment applied",
		zap.Uint64("loan_id", loanID),
		zap.String("payment_id", payment.ID),
		zap.Float64("amount", amount),
		zap.Float64("new_balance", newBalance),
		zap.String("new_status", string(newStatus)),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)
	span.SetStatus(codes.Ok, "Payment applied")

	return s.loanRepository.FindByID(ctx, loanID)
}

// Get implements service.LoanServices.
func (s *loanService) Get(ctx context.Context, principal domain.Principal, loanIDs []uint64) ([]domain.Loan, error) {
	ctx, span := s.tracer.Start(ctx, "service.GetLoans",
		trace.WithAttributes(
			attribute.String("principal.role", string(principal.Role)),
			attribute.Int("loan.id_filter_size", len(loanIDs)),
		))
	defer span.End()

	done := s.instrument(ctx, "get_loans")

	filter := repository.LoanFilter{IDs: loanIDs}
	switch principal.Role {
	case domain.CustomerRole:
		filter.CustomerID = &principal.ID
	case domain.AdminRole:
		// Admins see every customer's loans.
	default:
		return nil, s.fail(ctx, span, done, "get_loans", "unknown_role", common.ErrUnknownRole)
	}

	loans, err := s.loanRepository.FindAll(ctx, filter)
	if err != nil {
		return nil, s.fail(ctx, span, done, "get_loans", "loan_lookup_error", err)
	}

	done("success")
	span.SetStatus(codes.Ok, "Loans fetched")

	return loans, nil
}

// instrument counts the operation and returns a closure recording its
// duration with the final status.
func (s *loanService) instrument(ctx context.Context, operation string) func(status string) {
	start := time.Now()
	s.operationCount.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))

	return func(status string) {
		duration := float64(time.Since(start).Milliseconds())
		s.operationDuration.Record(ctx, duration,
			metric.WithAttributes(
				attribute.String("operation", operation),
				attribute.String("status", status),
			),
		)
	}
}

func (s *loanService) fail(ctx context.Context, span trace.Span, done func(string), operation, errorType string, err error) error {
	span.SetStatus(codes.Error, errorType)
	span.RecordError(err)
	s.errorCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("error_type", errorType),
		),
	)
	done("error")
	s.log.Warn("Loan operation failed",
		zap.String("operation", operation),
		zap.String("error_type", errorType),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
		zap.Error(err),
	)

	return err
}

func sortedUnique(ids []uint64) []uint64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

func NewLoanService(
	db *gorm.DB,
	loanRepository repository.LoanRepository,
	locks *keyedmutex.KeyedMutex,
	now func() time.Time,

	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) service.LoanServices {
	operationDuration, _ := meter.Float64Histogram(
		"service.operation.duration",
		metric.WithDescription("Duration of service operations"),
		metric.WithUnit("ms"),
	)
	operationCount, _ := meter.Int64Counter(
		"service.operation.count",
		metric.WithDescription("Number of service operations"),
		metric.WithUnit("{operation}"),
	)
	errorCount, _ := meter.Int64Counter(
		"service.error.count",
		metric.WithDescription("Number of service errors"),
		metric.WithUnit("{error}"),
	)
	loansCreated, _ := meter.Int64Counter(
		"service.loans.created",
		metric.WithDescription("Number of loan applications created"),
		metric.WithUnit("{loan}"),
	)
	loansDecided, _ := meter.Int64Counter(
		"service.loans.decided",
		metric.WithDescription("Number of loans approved or denied"),
		metric.WithUnit("{loan}"),
	)
	paymentsApplied, _ := meter.Int64Counter(
		"service.payments.applied",
		metric.WithDescription("Number of payments applied"),
		metric.WithUnit("{payment}"),
	)

	return &loanService{
		db:             db,
		loanRepository: loanRepository,
		locks:          locks,
		now:            now,

		meter:  meter,
		tracer: tracer,
		log:    log,

		operationDuration: operationDuration,
		operationCount:    operationCount,
		errorCount:        errorCount,
		loansCreated:      loansCreated,
		loansDecided:      loansDecided,
		paymentsApplied:   paymentsApplied,
	}
}
