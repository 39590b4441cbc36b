package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeeStatus is the payment state of an obligation.
type FeeStatus string

const (
	FeeUnpaid FeeStatus = "unpaid"
	FeePaid   FeeStatus = "paid"
)

// Valid reports whether s is one of the known states.
func (s FeeStatus) Valid() bool {
	return s == FeeUnpaid || s == FeePaid
}

// FeeObligation is one student's fee for one calendar month. Month is always
// normalized to the first of the month (UTC, midnight); at most one obligation
// may exist per (student, month). Amount is captured at generation time so
// later rate changes never rewrite history. PaymentDate is set iff Status is
// paid.
type FeeObligation struct {
	ID          uint `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	StudentID   uint            `gorm:"index;not null;uniqueIndex:idx_student_month"`
	Month       time.Time       `gorm:"not null;uniqueIndex:idx_student_month"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status      FeeStatus       `gorm:"size:20;not null;default:unpaid"`
	PaymentDate *time.Time
}
