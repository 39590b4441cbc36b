package fees

import (
	"sort"
	"time"

	"feetrack/models"

	"github.com/shopspring/decimal"
)

// DueEntry pairs an unpaid obligation with its student for dashboard listings.
type DueEntry struct {
	Student    models.Student
	Obligation models.FeeObligation
}

// StudentReport is everything the per-student report needs: the student, the
// chronological obligation history and the totals.
type StudentReport struct {
	Student     models.Student
	Obligations []models.FeeObligation
	TotalPaid   decimal.Decimal
	TotalUnpaid decimal.Decimal
	Total       decimal.Decimal
}

// MonthlyRow is one student's line in a monthly report. Obligation is nil when
// no record exists for that month (student enrolled later, or generation has
// not run yet for the month).
type MonthlyRow struct {
	Student    models.Student
	Obligation *models.FeeObligation
}

// MonthlyReport covers every student for one month, with aggregate totals.
type MonthlyReport struct {
	Month       time.Time
	Rows        []MonthlyRow
	TotalPaid   decimal.Decimal
	TotalUnpaid decimal.Decimal
	PaidCount   int
	UnpaidCount int
}

// MonthlyCollected sums the amounts of obligations paid within the calendar
// month of monthStart. Summation happens in Go over decimal values so the
// result is exact on every backend.
func (s *Service) MonthlyCollected(monthStart time.Time) (decimal.Decimal, error) {
	start := MonthStart(monthStart)
	end := NextMonth(start)
	var obs []models.FeeObligation
	if err := s.db.Where("status = ? AND payment_date >= ? AND payment_date < ?",
		models.FeePaid, start, end).Find(&obs).Error; err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, ob := range obs {
		total = total.Add(ob.Amount)
	}
	return total, nil
}

// DueToday lists the students whose obligation for the month containing today
// is still unpaid, in seat order. There is no per-obligation due date; "due"
// means unpaid for the current month.
func (s *Service) DueToday(today time.Time) ([]DueEntry, error) {
	month := MonthStart(today)
	var obs []models.FeeObligation
	if err := s.db.Where("month = ? AND status = ?", month, models.FeeUnpaid).
		Find(&obs).Error; err != nil {
		return nil, err
	}
	students, err := s.studentsByID()
	if err != nil {
		return nil, err
	}
	entries := make([]DueEntry, 0, len(obs))
	for _, ob := range obs {
		st, ok := students[ob.StudentID]
		if !ok {
			continue
		}
		entries = append(entries, DueEntry{Student: st, Obligation: ob})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Student.SeatNumber < entries[j].Student.SeatNumber
	})
	return entries, nil
}

// StudentReport assembles a student's full fee history with totals.
func (s *Service) StudentReport(studentID uint) (*StudentReport, error) {
	st, err := s.GetStudent(studentID)
	if err != nil {
		return nil, err
	}
	obs, err := s.ListByStudent(studentID)
	if err != nil {
		return nil, err
	}
	rep := &StudentReport{
		Student:     *st,
		Obligations: obs,
		TotalPaid:   decimal.Zero,
		TotalUnpaid: decimal.Zero,
	}
	for _, ob := range obs {
		if ob.Status == models.FeePaid {
			rep.TotalPaid = rep.TotalPaid.Add(ob.Amount)
		} else {
			rep.TotalUnpaid = rep.TotalUnpaid.Add(ob.Amount)
		}
	}
	rep.Total = rep.TotalPaid.Add(rep.TotalUnpaid)
	return rep, nil
}

// MonthlyReport builds the all-students view for one month: a row per student
// in seat order with the month's obligation (or none), plus totals and counts.
func (s *Service) MonthlyReport(monthStart time.Time) (*MonthlyReport, error) {
	month := MonthStart(monthStart)
	students, err := s.ListStudents()
	if err != nil {
		return nil, err
	}
	var obs []models.FeeObligation
	if err := s.db.Where("month = ?", month).Find(&obs).Error; err != nil {
		return nil, err
	}
	byStudent := make(map[uint]*models.FeeObligation, len(obs))
	for i := range obs {
		byStudent[obs[i].StudentID] = &obs[i]
	}
	rep := &MonthlyReport{
		Month:       month,
		Rows:        make([]MonthlyRow, 0, len(students)),
		TotalPaid:   decimal.Zero,
		TotalUnpaid: decimal.Zero,
	}
	for _, st := range students {
		ob := byStudent[st.ID]
		rep.Rows = append(rep.Rows, MonthlyRow{Student: st, Obligation: ob})
		if ob == nil {
			continue
		}
		if ob.Status == models.FeePaid {
			rep.TotalPaid = rep.TotalPaid.Add(ob.Amount)
			rep.PaidCount++
		} else {
			rep.TotalUnpaid = rep.TotalUnpaid.Add(ob.Amount)
			rep.UnpaidCount++
		}
	}
	return rep, nil
}

func (s *Service) studentsByID() (map[uint]models.Student, error) {
	students, err := s.ListStudents()
	if err != nil {
		return nil, err
	}
	m := make(map[uint]models.Student, len(students))
	for _, st := range students {
		m[st.ID] = st
	}
	return m, nil
}
