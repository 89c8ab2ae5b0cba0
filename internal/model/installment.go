package model

import (
	"github.com/fazamuttaqien/lending/internal/domain"
)

func InstallmentFromEntity(data *domain.Installment) Installment {
	return Installment{
		ID:          data.ID,
		LoanID:      data.LoanID,
		DueAmount:   data.DueAmount,
		PaidAmount:  data.PaidAmount,
		DueDate:     data.DueDate,
		PaymentDate: data.PaymentDate,
		Status:      InstallmentStatus(data.Status),
	}
}

func InstallmentToEntity(data Installment) *domain.Installment {
	return &domain.Installment{
		ID:          data.ID,
		LoanID:      data.LoanID,
		DueAmount:   data.DueAmount,
		PaidAmount:  data.PaidAmount,
		DueDate:     data.DueDate,
		PaymentDate: data.PaymentDate,
		Status:      domain.InstallmentStatus(data.Status),
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

func InstallmentsToEntity(data []Installment) []domain.Installment {
	responses := make([]domain.Installment, len(data))
	for i, inst := range data {
		responses[i] = *InstallmentToEntity(inst)
	}

	return responses
}

func InstallmentsFromEntity(data []domain.Installment) []Installment {
	records := make([]Installment, len(data))
	for i, inst := range data {
		records[i] = InstallmentFromEntity(&inst)
	}

	return records
}
