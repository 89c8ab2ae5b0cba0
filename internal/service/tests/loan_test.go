package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/fazamuttaqien/lending/internal/domain"
	"github.com/fazamuttaqien/lending/internal/dto"
	"github.com/fazamuttaqien/lending/internal/model"
	loanrepo "github.com/fazamuttaqien/lending/internal/repository/loan"
	paymentrepo "github.com/fazamuttaqien/lending/internal/repository/payment"
	"github.com/fazamuttaqien/lending/internal/service"
	loansrv "github.com/fazamuttaqien/lending/internal/service/loan"
	"github.com/fazamuttaqien/lending/pkg/common"
	"github.com/fazamuttaqien/lending/pkg/keyedmutex"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newLoanService(db *gorm.DB) service.LoanServices {
	meter := otel.GetMeterProvider().Meter("")
	tracer := otel.GetTracerProvider().Tracer("")
	log := zap.NewNop()

	loanRepository := loanrepo.NewLoanRepository(db, meter, tracer, log)
	return loansrv.NewLoanService(db, loanRepository, keyedmutex.New(), func() time.Time { return testNow }, meter, tracer, log)
}

func seedCustomer(t *testing.T, db *gorm.DB, id uint64) {
	t.Helper()
	user := model.User{ID: id, Email: "customer@test.local", Password: "x", Role: string(domain.CustomerRole)}
	if id != 1 {
		user.Email = "other@test.local"
	}
	assert.NoError(t, db.Create(&user).Error)
}

func TestCreateLoan(t *testing.T) {
	db := setupTestDB(t)
	svc := newLoanService(db)
	seedCustomer(t, db, 1)
	seedCustomer(t, db, 2)

	req := dto.CreateLoanRequest{ReferenceID: "ref-001", Amount: 1000, Terms: 4}

	t.Run("Success", func(t *testing.T) {
		loan, err := svc.Create(context.Background(), 1, req)

		assert.NoError(t, err)
		assert.NotNil(t, loan)
		assert.Equal(t, domain.LoanPending, loan.Status)
		assert.Equal(t, float64(1000), loan.Amount)
		assert.Equal(t, float64(1000), loan.Balance)
		assert.Nil(t, loan.DecisionDate)
		assert.Empty(t, loan.Installments)
	})

	t.Run("Duplicate reference for same customer", func(t *testing.T) {
		loan, err := svc.Create(context.Background(), 1, req)

		assert.Nil(t, loan)
		assert.ErrorIs(t, err, common.ErrDuplicateReference)
	})

	t.Run("Same reference for another customer", func(t *testing.T) {
		loan, err := svc.Create(context.Background(), 2, req)

		assert.NoError(t, err)
		assert.NotNil(t, loan)
		assert.Equal(t, uint64(2), loan.CustomerID)
	})
}

func TestApproveOrDeny(t *testing.T) {
	t.Run("Approve creates weekly schedule summing to balance", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newLoanService(db)
		seedCustomer(t, db, 1)

		loan, err := svc.Create(context.Background(), 1, dto.CreateLoanRequest{ReferenceID: "ref-a", Amount: 100, Terms: 3})
		assert.NoError(t, err)

		err = svc.ApproveOrDeny(context.Background(), []uint64{loan.ID}, true)
		assert.NoError(t, err)

		got, err := svc.Get(context.Background(), domain.Principal{Role: domain.AdminRole}, []uint64{loan.ID})
		assert.NoError(t, err)
		assert.Len(t, got, 1)
		assert.Equal(t, domain.LoanApproved, got[0].Status)
		assert.NotNil(t, got[0].DecisionDate)

		installments := got[0].Installments
		assert.Len(t, installments, 3)
		assert.Equal(t, 33.333, installments[0].DueAmount)
		assert.Equal(t, 33.333, installments[1].DueAmount)
		assert.Equal(t, 33.334, installments[2].DueAmount)
		for i, inst := range installments {
			assert.Equal(t, domain.InstallmentPending, inst.Status)
			assert.True(t, inst.DueDate.Equal(testNow.AddDate(0, 0, 7*(i+1))))
		}
	})

	t.Run("Deny leaves no schedule", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newLoanService(db)
		seedCustomer(t, db, 1)

		loan, err := svc.Create(context.Background(), 1, dto.CreateLoanRequest{ReferenceID: "ref-d", Amount: 100, Terms: 3})
		assert.NoError(t, err)

		err = svc.ApproveOrDeny(context.Background(), []uint64{loan.ID}, false)
		assert.NoError(t, err)

		got, err := svc.Get(context.Background(), domain.Principal{Role: domain.AdminRole}, []uint64{loan.ID})
		assert.NoError(t, err)
		assert.Equal(t, domain.LoanDenied, got[0].Status)
		assert.Empty(t, got[0].Installments)
	})

	t.Run("Unknown id rejects whole batch", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newLoanService(db)
		seedCustomer(t, db, 1)

		loan, err := svc.Create(context.Background(), 1, dto.CreateLoanRequest{ReferenceID: "ref-b", Amount: 100, Terms: 2})
		assert.NoError(t, err)

		err = svc.ApproveOrDeny(context.Background(), []uint64{loan.ID, 9999}, true)

		var invalidIDs *common.InvalidLoanIDsError
		assert.ErrorAs(t, err, &invalidIDs)
		assert.Equal(t, []uint64{9999}, invalidIDs.IDs)

		// The valid loan must remain untouched.
		got, err := svc.Get(context.Background(), domain.Principal{Role: domain.AdminRole}, []uint64{loan.ID})
		assert.NoError(t, err)
		assert.Equal(t, domain.LoanPending, got[0].Status)
		assert.Empty(t, got[0].Installments)
	})

	t.Run("Already decided loan rejects batch", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newLoanService(db)
		seedCustomer(t, db, 1)

		loan, err := svc.Create(context.Background(), 1, dto.CreateLoanRequest{ReferenceID: "ref-c", Amount: 100, Terms: 2})
		assert.NoError(t, err)
		assert.NoError(t, svc.ApproveOrDeny(context.Background(), []uint64{loan.ID}, true))

		err = svc.ApproveOrDeny(context.Background(), []uint64{loan.ID}, false)

		var invalidIDs *common.InvalidLoanIDsError
		assert.ErrorAs(t, err, &invalidIDs)
		assert.Equal(t, []uint64{loan.ID}, invalidIDs.IDs)
	})
}

func approvedLoan(t *testing.T, db *gorm.DB, svc service.LoanServices, amount float64, terms uint) *domain.Loan {
	t.Helper()
	loan, err := svc.Create(context.Background(), 1, dto.CreateLoanRequest{ReferenceID: "pay-ref", Amount: amount, Terms: terms})
	assert.NoError(t, err)
	assert.NoError(t, svc.ApproveOrDeny(context.Background(), []uint64{loan.ID}, true))
	return loan
}

func TestPayLoan(t *testing.T) {
	t.Run("Overflow pre-pays the tail of the schedule", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newLoanService(db)
		seedCustomer(t, db, 1)
		loan := approvedLoan(t, db, svc, 600, 3)

		got, err := svc.Pay(context.Background(), loan.ID, 500)

		assert.NoError(t, err)
		assert.NotNil(t, got)
		assert.Equal(t, domain.LoanInProgress, got.Status)
		assert.Equal(t, float64(100), got.Balance)

		installments := got.Installments
		assert.Len(t, installments, 3)

		// First slot settled with the full payment amount.
		assert.Equal(t, domain.InstallmentPaid, installments[0].Status)
		assert.NotNil(t, installments[0].PaidAmount)
		assert.Equal(t, float64(500), *installments[0].PaidAmount)
		assert.NotNil(t, installments[0].PaymentDate)

		// Middle slot partially reduced by what was left of the overflow.
		assert.Equal(t, domain.InstallmentPending, installments[1].Status)
		assert.Equal(t, float64(100), installments[1].DueAmount)
		assert.Nil(t, installments[1].PaidAmount)

		// Last slot zeroed out first.
		assert.Equal(t, domain.InstallmentAdvanced, installments[2].Status)
		assert.Equal(t, float64(0), installments[2].DueAmount)
		assert.NotNil(t, installments[2].PaidAmount)
		assert.Equal(t, float64(0), *installments[2].PaidAmount)

		// The repayment lands in the audit trail.
		paymentRepository := paymentrepo.NewPaymentRepository(db, otel.GetMeterProvider().Meter(""), otel.GetTracerProvider().Tracer(""), zap.NewNop())
		payments, err := paymentRepository.FindByLoanID(context.Background(), loan.ID)
		assert.NoError(t, err)
		assert.Len(t, payments, 1)
		assert.Equal(t, float64(500), payments[0].Amount)
		assert.NotEmpty(t, payments[0].ID)
	})

	t.Run("Paying down to zero settles the loan", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newLoanService(db)
		seedCustomer(t, db, 1)
		loan := approvedLoan(t, db, svc, 600, 3)

		_, err := svc.Pay(context.Background(), loan.ID, 500)
		assert.NoError(t, err)

		got, err := svc.Pay(context.Background(), loan.ID, 100)

		assert.NoError(t, err)
		assert.Equal(t, domain.LoanPaid, got.Status)
		assert.Equal(t, float64(0), got.Balance)
		assert.Equal(t, domain.InstallmentPaid, got.Installments[1].Status)
	})

	t.Run("Fractional schedule pays off exactly", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newLoanService(db)
		seedCustomer(t, db, 1)
		loan := approvedLoan(t, db, svc, 100, 3)

		got, err := svc.Pay(context.Background(), loan.ID, 100)

		assert.NoError(t, err)
		assert.Equal(t, domain.LoanPaid, got.Status)
		assert.Equal(t, float64(0), got.Balance)
	})

	t.Run("Pending loan is not payable", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newLoanService(db)
		seedCustomer(t, db, 1)

		loan, err := svc.Create(context.Background(), 1, dto.CreateLoanRequest{ReferenceID: "ref-p", Amount: 100, Terms: 2})
		assert.NoError(t, err)

		_, err = svc.Pay(context.Background(), loan.ID, 50)

		assert.ErrorIs(t, err, common.ErrLoanNotPayable)
	})

	t.Run("Settled loan is not payable", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newLoanService(db)
		seedCustomer(t, db, 1)
		loan := approvedLoan(t, db, svc, 600, 3)

		_, err := svc.Pay(context.Background(), loan.ID, 600)
		assert.NoError(t, err)

		_, err = svc.Pay(context.Background(), loan.ID, 100)

		assert.ErrorIs(t, err, common.ErrLoanNotPayable)
	})

	t.Run("Unknown loan is not payable", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newLoanService(db)

		_, err := svc.Pay(context.Background(), 42, 100)

		assert.ErrorIs(t, err, common.ErrLoanNotPayable)
	})

	t.Run("Amount above balance is rejected", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newLoanService(db)
		seedCustomer(t, db, 1)
		loan := approvedLoan(t, db, svc, 600, 3)

		_, err := svc.Pay(context.Background(), loan.ID, 700)

		assert.ErrorIs(t, err, common.ErrAmountExceedsBalance)
	})

	t.Run("Amount below the due installment is rejected", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newLoanService(db)
		seedCustomer(t, db, 1)
		loan := approvedLoan(t, db, svc, 600, 3)

		_, err := svc.Pay(context.Background(), loan.ID, 150)

		assert.ErrorIs(t, err, common.ErrBelowDueInstallment)

		// Rejection must not touch the loan.
		got, err := svc.Get(context.Background(), domain.Principal{Role: domain.AdminRole}, []uint64{loan.ID})
		assert.NoError(t, err)
		assert.Equal(t, float64(600), got[0].Balance)
		assert.Equal(t, domain.LoanApproved, got[0].Status)
	})
}

func TestGetLoans(t *testing.T) {
	db := setupTestDB(t)
	svc := newLoanService(db)
	seedCustomer(t, db, 1)
	seedCustomer(t, db, 2)

	first, err := svc.Create(context.Background(), 1, dto.CreateLoanRequest{ReferenceID: "ref-1", Amount: 100, Terms: 2})
	assert.NoError(t, err)
	second, err := svc.Create(context.Background(), 1, dto.CreateLoanRequest{ReferenceID: "ref-2", Amount: 200, Terms: 2})
	assert.NoError(t, err)
	other, err := svc.Create(context.Background(), 2, dto.CreateLoanRequest{ReferenceID: "ref-1", Amount: 300, Terms: 2})
	assert.NoError(t, err)

	t.Run("Customer sees only their own loans", func(t *testing.T) {
		loans, err := svc.Get(context.Background(), domain.Principal{ID: 1, Role: domain.CustomerRole}, nil)

		assert.NoError(t, err)
		assert.Len(t, loans, 2)
		assert.Equal(t, first.ID, loans[0].ID)
		assert.Equal(t, second.ID, loans[1].ID)
	})

	t.Run("Customer id filter cannot reach other customers", func(t *testing.T) {
		loans, err := svc.Get(context.Background(), domain.Principal{ID: 1, Role: domain.CustomerRole}, []uint64{other.ID})

		assert.NoError(t, err)
		assert.Empty(t, loans)
	})

	t.Run("Admin sees every loan", func(t *testing.T) {
		loans, err := svc.Get(context.Background(), domain.Principal{ID: 99, Role: domain.AdminRole}, nil)

		assert.NoError(t, err)
		assert.Len(t, loans, 3)
	})

	t.Run("Admin id filter narrows the result", func(t *testing.T) {
		loans, err := svc.Get(context.Background(), domain.Principal{ID: 99, Role: domain.AdminRole}, []uint64{other.ID})

		assert.NoError(t, err)
		assert.Len(t, loans, 1)
		assert.Equal(t, uint64(2), loans[0].CustomerID)
	})

	t.Run("Unknown role is rejected", func(t *testing.T) {
		_, err := svc.Get(context.Background(), domain.Principal{ID: 1, Role: "partner"}, nil)

		assert.ErrorIs(t, err, common.ErrUnknownRole)
	})
}
