package dto

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CreateLoanRequest struct {
	ReferenceID string  `json:"reference_id" validate:"required,max=64"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Terms       uint    `json:"terms" validate:"required,gte=1,lte=52"`
}

type PayLoanRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// DecisionRequest approves or denies a pending loan. Approval is a pointer so
// an explicit `false` (deny) survives validation.
type DecisionRequest struct {
	Approval *bool `json:"approval" validate:"required"`
}
