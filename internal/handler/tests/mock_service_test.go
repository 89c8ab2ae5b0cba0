package handler_test

import (
	"context"

	"github.com/fazamuttaqien/lending/internal/domain"
	"github.com/fazamuttaqien/lending/internal/dto"
)

type mockLoanService struct {
	MockCreateResult *domain.Loan
	MockPayResult    *domain.Loan
	MockGetResult    []domain.Loan
	MockError        error

	CreateCalledWithCustomerID uint64
	CreateCalledWithRequest    *dto.CreateLoanRequest
	PayCalledWithID            uint64
	PayCalledWithAmount        float64
	GetCalledWithPrincipal     domain.Principal
	GetCalledWithIDs           []uint64
	DecideCalledWithIDs        []uint64
	DecideCalledWithApprove    bool
}

func (m *mockLoanService) Create(ctx context.Context, customerID uint64, req dto.CreateLoanRequest) (*domain.Loan, error) {
	m.CreateCalledWithCustomerID = customerID
	m.CreateCalledWithRequest = &req
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockCreateResult, nil
}

func (m *mockLoanService) Pay(ctx context.Context, loanID uint64, amount float64) (*domain.Loan, error) {
	m.PayCalledWithID = loanID
	m.PayCalledWithAmount = amount
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockPayResult, nil
}

func (m *mockLoanService) Get(ctx context.Context, principal domain.Principal, loanIDs []uint64) ([]domain.Loan, error) {
	m.GetCalledWithPrincipal = principal
	m.GetCalledWithIDs = loanIDs
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockGetResult, nil
}

func (m *mockLoanService) ApproveOrDeny(ctx context.Context, loanIDs []uint64, approve bool) error {
	m.DecideCalledWithIDs = loanIDs
	m.DecideCalledWithApprove = approve
	return m.MockError
}

type mockAuthService struct {
	MockLoginResult *dto.LoginResponse
	MockError       error
}

func (m *mockAuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockLoginResult, nil
}
