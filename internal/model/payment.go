package model

import (
	"github.com/fazamuttaqien/lending/internal/domain"
)

func PaymentFromEntity(data *domain.Payment) Payment {
	return Payment{
		ID:          data.ID,
		LoanID:      data.LoanID,
		Amount:      data.Amount,
		PaymentDate: data.PaymentDate,
	}
}

func PaymentToEntity(data Payment) *domain.Payment {
	return &domain.Payment{
		ID:          data.ID,
		LoanID:      data.LoanID,
		Amount:      data.Amount,
		PaymentDate: data.PaymentDate,
	}
}

func PaymentsToEntity(data []Payment) []domain.Payment {
	responses := make([]domain.Payment, len(data))
	for i, p := range data {
		responses[i] = *PaymentToEntity(p)
	}

	return responses
}
