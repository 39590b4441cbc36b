package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"feetrack/models"
	"feetrack/pkg/fees"

	"github.com/shopspring/decimal"
)

func sampleStudent() models.Student {
	return models.Student{
		ID:          1,
		Name:        "Asha Verma",
		SeatNumber:  "A1",
		Phone:       "9876543210",
		JoiningDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		MonthlyFee:  decimal.NewFromInt(1000),
	}
}

func TestStudentReportPDF(t *testing.T) {
	pay := time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC)
	rep := &fees.StudentReport{
		Student: sampleStudent(),
		Obligations: []models.FeeObligation{
			{ID: 1, StudentID: 1, Month: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
				Amount: decimal.NewFromInt(1000), Status: models.FeePaid, PaymentDate: &pay},
			{ID: 2, StudentID: 1, Month: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
				Amount: decimal.NewFromInt(1000), Status: models.FeeUnpaid},
		},
		TotalPaid:   decimal.NewFromInt(1000),
		TotalUnpaid: decimal.NewFromInt(1000),
		Total:       decimal.NewFromInt(2000),
	}
	path := filepath.Join(t.TempDir(), "student.pdf")
	if err := Student(rep, path); err != nil {
		t.Fatalf("render: %v", err)
	}
	assertPDF(t, path)
}

func TestStudentReportPDFNoRecords(t *testing.T) {
	rep := &fees.StudentReport{
		Student:     sampleStudent(),
		TotalPaid:   decimal.Zero,
		TotalUnpaid: decimal.Zero,
		Total:       decimal.Zero,
	}
	path := filepath.Join(t.TempDir(), "student_empty.pdf")
	if err := Student(rep, path); err != nil {
		t.Fatalf("render: %v", err)
	}
	assertPDF(t, path)
}

func TestMonthlyReportPDF(t *testing.T) {
	month := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	pay := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	st := sampleStudent()
	ob := models.FeeObligation{ID: 1, StudentID: 1, Month: month,
		Amount: decimal.NewFromInt(1000), Status: models.FeePaid, PaymentDate: &pay}
	late := models.Student{ID: 2, Name: "New Joiner", SeatNumber: "B2",
		Phone: "9000000000", JoiningDate: pay, MonthlyFee: decimal.NewFromInt(600)}
	rep := &fees.MonthlyReport{
		Month: month,
		Rows: []fees.MonthlyRow{
			{Student: st, Obligation: &ob},
			{Student: late}, // no record for the month
		},
		TotalPaid:   decimal.NewFromInt(1000),
		TotalUnpaid: decimal.Zero,
		PaidCount:   1,
	}
	path := filepath.Join(t.TempDir(), "monthly.pdf")
	if err := Monthly(rep, path); err != nil {
		t.Fatalf("render: %v", err)
	}
	assertPDF(t, path)
}

func assertPDF(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() < 500 {
		t.Fatalf("suspiciously small pdf: %d bytes", info.Size())
	}
	head := make([]byte, 5)
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	if _, err := f.Read(head); err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(head) != "%PDF-" {
		t.Fatalf("not a pdf header: %q", head)
	}
}
