package fees

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"feetrack/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StudentInput carries the full set of editable student fields. Registration
// and update both take the whole struct, mirroring the enrollment form.
type StudentInput struct {
	Name        string
	SeatNumber  string
	Phone       string
	JoiningDate time.Time
	MonthlyFee  decimal.Decimal
}

func (in StudentInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if strings.TrimSpace(in.SeatNumber) == "" {
		return fmt.Errorf("%w: seat number is required", ErrValidation)
	}
	if strings.TrimSpace(in.Phone) == "" {
		return fmt.Errorf("%w: phone number is required", ErrValidation)
	}
	if in.JoiningDate.IsZero() {
		return fmt.Errorf("%w: joining date is required", ErrValidation)
	}
	if !in.MonthlyFee.IsPositive() {
		return fmt.Errorf("%w: monthly fee must be positive", ErrValidation)
	}
	return nil
}

// RegisterStudent enrolls a new student. The seat number must not be taken.
func (s *Service) RegisterStudent(in StudentInput) (*models.Student, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	st := &models.Student{
		Name:        in.Name,
		SeatNumber:  in.SeatNumber,
		Phone:       in.Phone,
		JoiningDate: in.JoiningDate,
		MonthlyFee:  in.MonthlyFee,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var cnt int64
		if err := tx.Model(&models.Student{}).Where("seat_number = ?", in.SeatNumber).Count(&cnt).Error; err != nil {
			return err
		}
		if cnt > 0 {
			return fmt.Errorf("%w: seat number %q already taken", ErrConflict, in.SeatNumber)
		}
		return tx.Create(st).Error
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

// UpdateStudent replaces the editable fields of an existing student. Changing
// the rate only affects obligations generated afterwards; existing amounts are
// never rewritten.
func (s *Service) UpdateStudent(studentID uint, in StudentInput) (*models.Student, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var st models.Student
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&st, studentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: student %d", ErrNotFound, studentID)
			}
			return err
		}
		var cnt int64
		if err := tx.Model(&models.Student{}).
			Where("seat_number = ? AND id <> ?", in.SeatNumber, studentID).
			Count(&cnt).Error; err != nil {
			return err
		}
		if cnt > 0 {
			return fmt.Errorf("%w: seat number %q already taken", ErrConflict, in.SeatNumber)
		}
		st.Name = in.Name
		st.SeatNumber = in.SeatNumber
		st.Phone = in.Phone
		st.JoiningDate = in.JoiningDate
		st.MonthlyFee = in.MonthlyFee
		return tx.Save(&st).Error
	})
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// RemoveStudent deletes a student together with all of its obligations. The
// cascade is explicit so the ownership rule holds on any backend.
func (s *Service) RemoveStudent(studentID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var st models.Student
		if err := tx.First(&st, studentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: student %d", ErrNotFound, studentID)
			}
			return err
		}
		if err := tx.Where("student_id = ?", studentID).Delete(&models.FeeObligation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&st).Error
	})
}

// GetStudent fetches one student by id.
func (s *Service) GetStudent(studentID uint) (*models.Student, error) {
	var st models.Student
	if err := s.db.First(&st, studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: student %d", ErrNotFound, studentID)
		}
		return nil, err
	}
	return &st, nil
}

// ListStudents returns all students in seat-number order.
func (s *Service) ListStudents() ([]models.Student, error) {
	var students []models.Student
	if err := s.db.Order("seat_number").Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}
