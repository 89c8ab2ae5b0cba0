package model

import (
	"github.com/fazamuttaqien/lending/internal/domain"
)

func LoanFromEntity(data *domain.Loan) Loan {
	return Loan{
		ID:              data.ID,
		CustomerID:      data.CustomerID,
		ReferenceID:     data.ReferenceID,
		Amount:          data.Amount,
		Terms:           data.Terms,
		Balance:         data.Balance,
		Status:          LoanStatus(data.Status),
		ApplicationDate: data.ApplicationDate,
		DecisionDate:    data.DecisionDate,
	}
}

func LoanToEntity(data Loan) *domain.Loan {
	return &domain.Loan{
		ID:              data.ID,
		CustomerID:      data.CustomerID,
		ReferenceID:     data.ReferenceID,
		Amount:          data.Amount,
		Terms:           data.Terms,
		Balance:         data.Balance,
		Status:          domain.LoanStatus(data.Status),
		ApplicationDate: data.ApplicationDate,
		DecisionDate:    data.DecisionDate,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
		Installments:    InstallmentsToEntity(data.Installments),
	}
}

func LoansToEntity(data []Loan) []domain.Loan {
	responses := make([]domain.Loan, len(data))
	for i, l := range data {
		responses[i] = *LoanToEntity(l)
	}

	return responses
}
