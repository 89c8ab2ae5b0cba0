package model

import (
	"time"

	"gorm.io/gorm"
)

// User represents the users table. Passwords are stored as bcrypt hashes.
type User struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Email     string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"`
	Role      string    `gorm:"type:varchar(20);not null" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Loans []Loan `gorm:"foreignKey:CustomerID" json:"loans,omitempty"`
}

// LoanStatus enum for loan lifecycle state
type LoanStatus string

const (
	LoanPending    LoanStatus = "pending"
	LoanApproved   LoanStatus = "approved"
	LoanDenied     LoanStatus = "denied"
	LoanInProgress LoanStatus = "inProgress"
	LoanPaid       LoanStatus = "paid"
)

// Loan represents the loans table. ReferenceID is unique per customer.
type Loan struct {
	ID              uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID      uint64     `gorm:"not null;uniqueIndex:idx_loans_customer_reference" json:"customer_id"`
	ReferenceID     string     `gorm:"type:varchar(64);not null;uniqueIndex:idx_loans_customer_reference" json:"reference_id"`
	Amount          float64    `gorm:"type:decimal(15,3);not null" json:"amount"`
	Terms           uint       `gorm:"not null" json:"terms"`
	Balance         float64    `gorm:"type:decimal(15,3);not null" json:"balance"`
	Status          LoanStatus `gorm:"type:varchar(20);default:'pending';not null" json:"status"`
	ApplicationDate time.Time  `gorm:"not null" json:"application_date"`
	DecisionDate    *time.Time `json:"decision_date"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Installments []Installment `gorm:"foreignKey:LoanID" json:"installments,omitempty"`
	Payments     []Payment     `gorm:"foreignKey:LoanID" json:"payments,omitempty"`
}

// InstallmentStatus enum for installment state
type InstallmentStatus string

const (
	InstallmentPending  InstallmentStatus = "pending"
	InstallmentPaid     InstallmentStatus = "paid"
	InstallmentAdvanced InstallmentStatus = "advanced"
	InstallmentLate     InstallmentStatus = "late"
)

// Installment represents the installments table
type Installment struct {
	ID          uint64            `gorm:"primaryKey;autoIncrement" json:"id"`
	LoanID      uint64            `gorm:"not null;index" json:"loan_id"`
	DueAmount   float64           `gorm:"type:decimal(15,3);not null" json:"due_amount"`
	PaidAmount  *float64          `gorm:"type:decimal(15,3)" json:"paid_amount"`
	DueDate     time.Time         `gorm:"not null" json:"due_date"`
	PaymentDate *time.Time        `json:"payment_date"`
	Status      InstallmentStatus `gorm:"type:varchar(20);default:'pending';not null" json:"status"`
	CreatedAt   time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	Loan Loan `gorm:"foreignKey:LoanID;constraint:OnDelete:CASCADE" json:"-"`
}

// Payment represents the payments table, an append-only repayment audit trail
type Payment struct {
	ID          string    `gorm:"type:varchar(32);primaryKey" json:"id"`
	LoanID      uint64    `gorm:"not null;index" json:"loan_id"`
	Amount      float64   `gorm:"type:decimal(15,3);not null" json:"amount"`
	PaymentDate time.Time `gorm:"not null" json:"payment_date"`

	Loan Loan `gorm:"foreignKey:LoanID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (Loan) TableName() string {
	return "loans"
}

func (Installment) TableName() string {
	return "installments"
}

func (Payment) TableName() string {
	return "payments"
}

// Database migration function
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Loan{},
		&Installment{},
		&Payment{},
	)
}
