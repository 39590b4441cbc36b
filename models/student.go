package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Student is an enrolled member of the institution. SeatNumber is the
// human-facing business key and must stay unique.
type Student struct {
	ID          uint `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Name        string          `gorm:"size:100;not null"`
	SeatNumber  string          `gorm:"size:20;not null;unique"`
	Phone       string          `gorm:"size:20;not null"`
	JoiningDate time.Time       `gorm:"not null"`
	MonthlyFee  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// Fees is the set of obligations owned by this student. Deleting a
	// student deletes its obligations (enforced in the service layer and
	// mirrored by the FK constraint).
	Fees []FeeObligation `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
