package fees

import (
	"time"

	"feetrack/models"

	"gorm.io/gorm"
)

// CatchUpCurrentPeriod makes sure every student has an obligation for the
// month containing now, generating missing ones at the student's current rate.
// The whole run commits as one transaction; on any failure nothing is written
// and the next triggering access retries the full batch. Calling it again in
// the same month against unchanged data generates zero records, which is what
// makes it safe to run on every read path instead of from a timer.
func (s *Service) CatchUpCurrentPeriod(now time.Time) (int, error) {
	month := MonthStart(now)
	generated := 0
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var students []models.Student
		if err := tx.Find(&students).Error; err != nil {
			return err
		}
		for _, st := range students {
			existing, err := findObligation(tx, st.ID, month)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}
			ob := models.FeeObligation{
				StudentID: st.ID,
				Month:     month,
				Amount:    st.MonthlyFee,
				Status:    models.FeeUnpaid,
			}
			if err := tx.Create(&ob).Error; err != nil {
				return err
			}
			generated++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return generated, nil
}
