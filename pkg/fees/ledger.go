package fees

import (
	"errors"
	"fmt"
	"time"

	"feetrack/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FindObligation looks up the obligation for (student, month). month is
// normalized before the lookup. Absence is not an error: it returns (nil, nil)
// so the generation path can treat "missing" as a normal outcome.
func (s *Service) FindObligation(studentID uint, month time.Time) (*models.FeeObligation, error) {
	return findObligation(s.db, studentID, MonthStart(month))
}

func findObligation(tx *gorm.DB, studentID uint, month time.Time) (*models.FeeObligation, error) {
	var ob models.FeeObligation
	err := tx.Where("student_id = ? AND month = ?", studentID, month).First(&ob).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ob, nil
}

// RecordGeneratedObligation creates an unpaid obligation for (student, month).
// The existence check and the insert run in one transaction so two concurrent
// generation runs cannot both insert.
func (s *Service) RecordGeneratedObligation(studentID uint, month time.Time, amount decimal.Decimal) (*models.FeeObligation, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	m := MonthStart(month)
	ob := &models.FeeObligation{
		StudentID: studentID,
		Month:     m,
		Amount:    amount,
		Status:    models.FeeUnpaid,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := findObligation(tx, studentID, m)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: obligation already exists for student %d in %s",
				ErrConflict, studentID, m.Format("2006-01"))
		}
		return tx.Create(ob).Error
	})
	if err != nil {
		return nil, err
	}
	return ob, nil
}

// UpsertManual creates or overwrites the obligation for (student, month) with
// an operator-supplied amount and state. A paid state requires a payment date;
// an unpaid state clears it.
func (s *Service) UpsertManual(studentID uint, month time.Time, amount decimal.Decimal, status models.FeeStatus, paymentDate *time.Time) (*models.FeeObligation, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if status == models.FeePaid && paymentDate == nil {
		return nil, fmt.Errorf("%w: payment date is required for a paid fee", ErrValidation)
	}
	if status == models.FeeUnpaid {
		paymentDate = nil
	}
	m := MonthStart(month)
	var out *models.FeeObligation
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var st models.Student
		if err := tx.First(&st, studentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: student %d", ErrNotFound, studentID)
			}
			return err
		}
		existing, err := findObligation(tx, studentID, m)
		if err != nil {
			return err
		}
		if existing != nil {
			existing.Amount = amount
			existing.Status = status
			existing.PaymentDate = paymentDate
			out = existing
			return tx.Save(existing).Error
		}
		out = &models.FeeObligation{
			StudentID:   studentID,
			Month:       m,
			Amount:      amount,
			Status:      status,
			PaymentDate: paymentDate,
		}
		return tx.Create(out).Error
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MarkPaid transitions an obligation to paid with the given payment date.
// Marking an already-paid obligation is a no-op apart from the date.
func (s *Service) MarkPaid(obligationID uint, paymentDate time.Time) (*models.FeeObligation, error) {
	return s.setStatus(obligationID, models.FeePaid, &paymentDate)
}

// MarkUnpaid transitions an obligation back to unpaid and clears the payment
// date. Safe to call on an already-unpaid obligation.
func (s *Service) MarkUnpaid(obligationID uint) (*models.FeeObligation, error) {
	return s.setStatus(obligationID, models.FeeUnpaid, nil)
}

func (s *Service) setStatus(obligationID uint, status models.FeeStatus, paymentDate *time.Time) (*models.FeeObligation, error) {
	var ob models.FeeObligation
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&ob, obligationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: obligation %d", ErrNotFound, obligationID)
			}
			return err
		}
		ob.Status = status
		ob.PaymentDate = paymentDate
		return tx.Save(&ob).Error
	})
	if err != nil {
		return nil, err
	}
	return &ob, nil
}

// ListUnpaid returns all unpaid obligations, most recent month first.
func (s *Service) ListUnpaid() ([]models.FeeObligation, error) {
	var obs []models.FeeObligation
	if err := s.db.Where("status = ?", models.FeeUnpaid).
		Order("month desc, student_id").Find(&obs).Error; err != nil {
		return nil, err
	}
	return obs, nil
}

// ListPaidSince returns obligations paid on or after t, oldest payment first.
func (s *Service) ListPaidSince(t time.Time) ([]models.FeeObligation, error) {
	var obs []models.FeeObligation
	if err := s.db.Where("status = ? AND payment_date >= ?", models.FeePaid, t).
		Order("payment_date").Find(&obs).Error; err != nil {
		return nil, err
	}
	return obs, nil
}

// ListByStudent returns a student's obligations in chronological order.
// Returns ErrNotFound for an unknown student id.
func (s *Service) ListByStudent(studentID uint) ([]models.FeeObligation, error) {
	if _, err := s.GetStudent(studentID); err != nil {
		return nil, err
	}
	var obs []models.FeeObligation
	if err := s.db.Where("student_id = ?", studentID).
		Order("month").Find(&obs).Error; err != nil {
		return nil, err
	}
	return obs, nil
}
