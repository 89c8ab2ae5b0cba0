package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Role string

const (
	AdminRole    Role = "admin"
	CustomerRole Role = "customer"
)

// Principal is the authenticated caller, resolved by the auth middleware
// from either basic credentials or a bearer token.
type Principal struct {
	ID   uint64
	Role Role
}

type User struct {
	ID        uint64
	Email     string
	Password  string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

type LoanStatus string

const (
	LoanPending    LoanStatus = "pending"
	LoanApproved   LoanStatus = "approved"
	LoanDenied     LoanStatus = "denied"
	LoanInProgress LoanStatus = "inProgress"
	LoanPaid       LoanStatus = "paid"
)

type Loan struct {
	ID              uint64
	CustomerID      uint64
	ReferenceID     string
	Amount          float64
	Terms           uint
	Balance         float64
	Status          LoanStatus
	ApplicationDate time.Time
	DecisionDate    *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Installments []Installment
}

type InstallmentStatus string

const (
	InstallmentPending  InstallmentStatus = "pending"
	InstallmentPaid     InstallmentStatus = "paid"
	InstallmentAdvanced InstallmentStatus = "advanced"
	// InstallmentLate is reserved for late-payment handling.
	InstallmentLate InstallmentStatus = "late"
)

// Installment is one scheduled partial repayment of a loan. DueAmount is the
// remaining amount owed for the slot; payment application order is ascending
// ID, which matches ascending due date.
type Installment struct {
	ID          uint64
	LoanID      uint64
	DueAmount   float64
	PaidAmount  *float64
	DueDate     time.Time
	PaymentDate *time.Time
	Status      InstallmentStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Payment is the append-only record of a successful repayment.
type Payment struct {
	ID          string
	LoanID      uint64
	Amount      float64
	PaymentDate time.Time
}

type JwtCustomClaims struct {
	UserID uint64 `json:"user_id"`
	Role   Role   `json:"role"`
	jwt.RegisteredClaims
}
