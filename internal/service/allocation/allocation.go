// Package allocation applies a repayment across a loan's installment
// schedule. It is pure: callers load the schedule, allocate, then persist the
// returned mutations.
package allocation

import (
	"time"

	"github.com/fazamuttaqien/lending/internal/domain"
	"github.com/fazamuttaqien/lending/pkg/common"
	"github.com/fazamuttaqien/lending/pkg/money"
)

// Result holds the installments touched by a payment, in the order they were
// mutated: the settled current installment first, then any later slots the
// overflow reached, latest due first. Remainder is the overflow left after
// every reachable slot was visited.
type Result struct {
	Mutations []domain.Installment
	Remainder float64
}

// Allocate settles the earliest pending installment with the payment and
// spreads any overflow across the remaining pending installments in reverse
// due order, so lump-sum payments pre-pay the tail of the schedule first.
//
// The payment must cover the earliest pending installment in full; partial
// payments below its due amount are rejected with ErrBelowDueInstallment.
// The caller is responsible for checking the amount against the loan balance.
func Allocate(installments []domain.Installment, amount float64, now time.Time) (*Result, error) {
	pending := make([]domain.Installment, 0, len(installments))
	for _, inst := range installments {
		if inst.Status == domain.InstallmentPending {
			pending = append(pending, inst)
		}
	}
	if len(pending) == 0 {
		return nil, common.ErrNoPendingInstallment
	}

	current := pending[0]
	if current.DueAmount > amount {
		return nil, common.ErrBelowDueInstallment
	}

	paid := amount
	current.PaidAmount = &paid
	current.Status = domain.InstallmentPaid
	current.PaymentDate = &now
	mutations := []domain.Installment{current}

	overflow := money.Sub(amount, money.Round3(current.DueAmount))

	// Walk the pending slots back to front, never revisiting the current
	// installment. Overflow is decremented by each slot's pre-reduction due
	// amount even when only part of it was needed to zero the slot: a slot
	// the overflow reaches counts as consumed in full.
	for j := len(pending) - 1; overflow > 0 && j > 0; j-- {
		inst := pending[j]
		dueAmount := inst.DueAmount

		inst.DueAmount = max(0, money.Sub(dueAmount, overflow))
		if inst.DueAmount == 0 {
			inst.Status = domain.InstallmentAdvanced
			zero := 0.0
			inst.PaidAmount = &zero
		}
		mutations = append(mutations, inst)

		overflow = money.Sub(overflow, money.Round3(dueAmount))
	}

	return &Result{
		Mutations: mutations,
		Remainder: max(0, overflow),
	}, nil
}
