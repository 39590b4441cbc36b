// Package report renders fee summaries into PDF documents. It receives
// already-computed aggregates from the fees package and performs no domain
// logic of its own.
package report

import (
	"fmt"
	"time"

	"feetrack/models"
	"feetrack/pkg/fees"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

const (
	labelWidth = 50
	valueWidth = 100
	rowHeight  = 8
)

// Student writes a per-student fee report PDF to path: student details, the
// chronological fee table and the paid/unpaid/total summary.
func Student(rep *fees.StudentReport, path string) error {
	pdf := newDoc()
	title(pdf, "Student Fee Report")

	kvTable(pdf, "Student Details", [][2]string{
		{"Name:", rep.Student.Name},
		{"Seat Number:", rep.Student.SeatNumber},
		{"Phone Number:", rep.Student.Phone},
		{"Joining Date:", rep.Student.JoiningDate.Format("2006-01-02")},
		{"Monthly Fee:", money(rep.Student.MonthlyFee)},
	})
	pdf.Ln(8)

	title(pdf, "Fee Records")
	if len(rep.Obligations) == 0 {
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, rowHeight, "No fee records found.", "", 1, "L", false, 0, "")
	} else {
		widths := []float64{40, 40, 30, 40}
		tableHeader(pdf, widths, []string{"Month", "Amount", "Status", "Payment Date"})
		pdf.SetFont("Helvetica", "", 10)
		for _, ob := range rep.Obligations {
			cells := []string{
				ob.Month.Format("January 2006"),
				money(ob.Amount),
				statusLabel(ob.Status),
				paymentDateLabel(&ob),
			}
			for i, c := range cells {
				pdf.CellFormat(widths[i], rowHeight, c, "1", 0, "C", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}
	pdf.Ln(8)

	kvTable(pdf, "Summary", [][2]string{
		{"Total Paid:", money(rep.TotalPaid)},
		{"Total Unpaid:", money(rep.TotalUnpaid)},
		{"Total Amount:", money(rep.Total)},
	})
	footer(pdf)
	return pdf.OutputFileAndClose(path)
}

// Monthly writes the all-students report for one month to path. Students
// without a record for the month get an explicit "No Record" row.
func Monthly(rep *fees.MonthlyReport, path string) error {
	pdf := newDoc()
	title(pdf, fmt.Sprintf("Monthly Fee Report - %s", rep.Month.Format("January 2006")))

	if len(rep.Rows) == 0 {
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, rowHeight, "No students found.", "", 1, "L", false, 0, "")
	} else {
		widths := []float64{25, 55, 35, 30, 35}
		tableHeader(pdf, widths, []string{"Seat No.", "Name", "Monthly Fee", "Status", "Payment Date"})
		pdf.SetFont("Helvetica", "", 10)
		for _, row := range rep.Rows {
			status, payDate := "No Record", "-"
			if row.Obligation != nil {
				status = statusLabel(row.Obligation.Status)
				payDate = paymentDateLabel(row.Obligation)
			}
			cells := []string{
				row.Student.SeatNumber,
				row.Student.Name,
				money(row.Student.MonthlyFee),
				status,
				payDate,
			}
			for i, c := range cells {
				pdf.CellFormat(widths[i], rowHeight, c, "1", 0, "C", false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(8)

		kvTable(pdf, "Summary", [][2]string{
			{"Total Paid:", money(rep.TotalPaid)},
			{"Total Unpaid:", money(rep.TotalUnpaid)},
			{"Total Expected:", money(rep.TotalPaid.Add(rep.TotalUnpaid))},
		})
	}
	footer(pdf)
	return pdf.OutputFileAndClose(path)
}

func newDoc() *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.AddPage()
	return pdf
}

func title(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, text, "", 1, "L", false, 0, "")
	pdf.Ln(4)
}

// kvTable renders a grey header row followed by label/value rows, matching
// the detail and summary blocks of the report layout.
func kvTable(pdf *fpdf.Fpdf, header string, rows [][2]string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetFillColor(128, 128, 128)
	pdf.SetTextColor(245, 245, 245)
	pdf.CellFormat(labelWidth+valueWidth, rowHeight+2, header, "1", 1, "L", true, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetFillColor(245, 245, 220)
	pdf.SetTextColor(0, 0, 0)
	for _, row := range rows {
		pdf.CellFormat(labelWidth, rowHeight, row[0], "1", 0, "L", true, 0, "")
		pdf.CellFormat(valueWidth, rowHeight, row[1], "1", 1, "R", true, 0, "")
	}
}

func tableHeader(pdf *fpdf.Fpdf, widths []float64, headers []string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(128, 128, 128)
	pdf.SetTextColor(245, 245, 245)
	for i, h := range headers {
		pdf.CellFormat(widths[i], rowHeight+2, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetTextColor(0, 0, 0)
}

func footer(pdf *fpdf.Fpdf) {
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, rowHeight, "Generated on: "+time.Now().Format("2006-01-02 15:04:05"), "", 1, "L", false, 0, "")
}

func money(d decimal.Decimal) string {
	return "Rs " + d.StringFixed(2)
}

func statusLabel(s models.FeeStatus) string {
	if s == models.FeePaid {
		return "Paid"
	}
	return "Unpaid"
}

func paymentDateLabel(ob *models.FeeObligation) string {
	if ob.Status == models.FeePaid && ob.PaymentDate != nil {
		return ob.PaymentDate.Format("2006-01-02")
	}
	return "-"
}
