package service

import (
	"context"

	"github.com/fazamuttaqien/lending/internal/domain"
	"github.com/fazamuttaqien/lending/internal/dto"
)

type LoanServices interface {
	// Create opens a PENDING loan application for the customer. The
	// reference ID is idempotency-scoped per customer.
	Create(ctx context.Context, customerID uint64, req dto.CreateLoanRequest) (*domain.Loan, error)

	// Pay applies a repayment to an APPROVED or IN_PROGRESS loan.
	Pay(ctx context.Context, loanID uint64, amount float64) (*domain.Loan, error)

	// Get lists loans visible to the principal, optionally filtered by id.
	Get(ctx context.Context, principal domain.Principal, loanIDs []uint64) ([]domain.Loan, error)

	// ApproveOrDeny decides a batch of PENDING loans. The batch is rejected
	// whole when any id is unknown or already decided.
	ApproveOrDeny(ctx context.Context, loanIDs []uint64, approve bool) error
}

type AuthServices interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}
