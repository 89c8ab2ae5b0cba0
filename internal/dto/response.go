package dto

import (
	"time"

	"github.com/fazamuttaqien/lending/internal/domain"
)

type LoginResponse struct {
	Token string `json:"token"`
}

type InstallmentResponse struct {
	ID          uint64     `json:"id"`
	LoanID      uint64     `json:"loan_id"`
	DueAmount   float64    `json:"due_amount"`
	PaidAmount  *float64   `json:"paid_amount"`
	DueDate     time.Time  `json:"due_date"`
	PaymentDate *time.Time `json:"payment_date"`
	Status      string     `json:"status"`
}

type LoanResponse struct {
	ID              uint64                `json:"id"`
	CustomerID      uint64                `json:"customer_id"`
	ReferenceID     string                `json:"reference_id"`
	Amount          float64               `json:"amount"`
	Terms           uint                  `json:"terms"`
	Balance         float64               `json:"balance"`
	Status          string                `json:"status"`
	ApplicationDate time.Time             `json:"application_date"`
	DecisionDate    *time.Time            `json:"decision_date"`
	Installments    []InstallmentResponse `json:"installments"`
}

// --- Mapping --- //

func InstallmentToResponse(inst domain.Installment) InstallmentResponse {
	return InstallmentResponse{
		ID:          inst.ID,
		LoanID:      inst.LoanID,
		DueAmount:   inst.DueAmount,
		PaidAmount:  inst.PaidAmount,
		DueDate:     inst.DueDate,
		PaymentDate: inst.PaymentDate,
		Status:      string(inst.Status),
	}
}

func LoanToResponse(loan *domain.Loan) LoanResponse {
	installments := make([]InstallmentResponse, len(loan.Installments))
	for i, inst := range loan.Installments {
		installments[i] = InstallmentToResponse(inst)
	}

	return LoanResponse{
		ID:              loan.ID,
		CustomerID:      loan.CustomerID,
		ReferenceID:     loan.ReferenceID,
		Amount:          loan.Amount,
		Terms:           loan.Terms,
		Balance:         loan.Balance,
		Status:          string(loan.Status),
		ApplicationDate: loan.ApplicationDate,
		DecisionDate:    loan.DecisionDate,
		Installments:    installments,
	}
}

func LoansToResponse(loans []domain.Loan) []LoanResponse {
	responses := make([]LoanResponse, len(loans))
	for i := range loans {
		responses[i] = LoanToResponse(&loans[i])
	}

	return responses
}
