package repository

import (
	"context"
	"time"

	"github.com/fazamuttaqien/lending/internal/domain"
)

// LoanFilter narrows loan lookups. A nil CustomerID means no customer
// scoping; an empty IDs slice means no id filter.
type LoanFilter struct {
	IDs        []uint64
	CustomerID *uint64
	Statuses   []domain.LoanStatus
}

type LoanRepository interface {
	FindByID(ctx context.Context, id uint64) (*domain.Loan, error)
	FindByCustomerAndReference(ctx context.Context, customerID uint64, referenceID string) (*domain.Loan, error)
	FindAll(ctx context.Context, filter LoanFilter) ([]domain.Loan, error)
	Create(ctx context.Context, loan *domain.Loan) (*domain.Loan, error)
	UpdateDecision(ctx context.Context, ids []uint64, status domain.LoanStatus, decisionDate time.Time) error
	UpdateBalanceAndStatus(ctx context.Context, id uint64, balance float64, status domain.LoanStatus) error
}

type InstallmentRepository interface {
	FindByLoanID(ctx context.Context, loanID uint64) ([]domain.Installment, error)
	CreateBatch(ctx context.Context, installments []domain.Installment) ([]domain.Installment, error)
	Update(ctx context.Context, installment *domain.Installment) error
}

type UserRepository interface {
	FindByID(ctx context.Context, id uint64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

type PaymentRepository interface {
	FindByLoanID(ctx context.Context, loanID uint64) ([]domain.Payment, error)
	Create(ctx context.Context, payment *domain.Payment) error
}
