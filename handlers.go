package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"feetrack/models"
	"feetrack/pkg/fees"
	"feetrack/pkg/report"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// defaultMonthlyFee is applied when registration omits the rate.
var defaultMonthlyFee = decimal.NewFromInt(1000)

func setupRoutes(r *gin.Engine, svc *fees.Service) {
	h := &handlers{svc: svc}
	r.GET("/dashboard", h.dashboard)
	r.GET("/students", h.listStudents)
	r.POST("/students", h.registerStudent)
	r.GET("/students/:id", h.getStudent)
	r.PUT("/students/:id", h.updateStudent)
	r.DELETE("/students/:id", h.deleteStudent)
	r.POST("/students/:id/fees", h.upsertFee)
	r.GET("/students/:id/report", h.studentReportPDF)
	r.POST("/fees/:id/pay", h.payFee)
	r.POST("/fees/:id/unpay", h.unpayFee)
	r.GET("/fees/unpaid", h.listUnpaid)
	r.POST("/reports/monthly", h.monthlyReportPDF)
}

// requestIDMiddleware tags every request with a uuid and logs it on completion.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Header("X-Request-ID", id)
		start := time.Now()
		c.Next()
		slog.Info("request",
			"id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

type handlers struct {
	svc *fees.Service
}

// fail maps core sentinel errors onto HTTP status codes.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, fees.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, fees.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, fees.ErrConflict):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// dashboard runs the idempotent catch-up, then returns the students, the
// current due list and this month's collection.
func (h *handlers) dashboard(c *gin.Context) {
	now := time.Now().UTC()
	generated, err := h.svc.CatchUpCurrentPeriod(now)
	if err != nil {
		fail(c, err)
		return
	}
	students, err := h.svc.ListStudents()
	if err != nil {
		fail(c, err)
		return
	}
	due, err := h.svc.DueToday(now)
	if err != nil {
		fail(c, err)
		return
	}
	collected, err := h.svc.MonthlyCollected(now)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"students":           students,
		"due_today":          due,
		"monthly_collection": collected,
		"fees_generated":     generated,
	})
}

func (h *handlers) listStudents(c *gin.Context) {
	students, err := h.svc.ListStudents()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, students)
}

type studentRequest struct {
	Name        string          `json:"name" binding:"required"`
	SeatNumber  string          `json:"seat_number" binding:"required"`
	Phone       string          `json:"phone" binding:"required"`
	JoiningDate string          `json:"joining_date"` // optional YYYY-MM-DD, defaults to today
	MonthlyFee  decimal.Decimal `json:"monthly_fee"`  // optional, defaults to 1000.00
}

func (r studentRequest) toInput(now time.Time) (fees.StudentInput, error) {
	in := fees.StudentInput{
		Name:        r.Name,
		SeatNumber:  r.SeatNumber,
		Phone:       r.Phone,
		JoiningDate: now,
		MonthlyFee:  r.MonthlyFee,
	}
	if r.JoiningDate != "" {
		t, err := time.Parse("2006-01-02", r.JoiningDate)
		if err != nil {
			return in, fmt.Errorf("%w: joining date %q (want YYYY-MM-DD)", fees.ErrValidation, r.JoiningDate)
		}
		in.JoiningDate = t
	}
	if in.MonthlyFee.IsZero() {
		in.MonthlyFee = defaultMonthlyFee
	}
	return in, nil
}

// registerStudent enrolls a student and immediately generates the obligation
// for the joining month, so a mid-month arrival is billed without waiting for
// the next catch-up.
func (h *handlers) registerStudent(c *gin.Context) {
	var req studentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	now := time.Now().UTC()
	in, err := req.toInput(now)
	if err != nil {
		fail(c, err)
		return
	}
	st, err := h.svc.RegisterStudent(in)
	if err != nil {
		fail(c, err)
		return
	}
	if _, err := h.svc.RecordGeneratedObligation(st.ID, now, st.MonthlyFee); err != nil && !errors.Is(err, fees.ErrConflict) {
		slog.Warn("initial fee generation failed", "student_id", st.ID, "error", err)
	}
	c.JSON(http.StatusOK, gin.H{"id": st.ID})
}

func (h *handlers) getStudent(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	rep, err := h.svc.StudentReport(id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (h *handlers) updateStudent(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req studentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in, err := req.toInput(time.Now().UTC())
	if err != nil {
		fail(c, err)
		return
	}
	st, err := h.svc.UpdateStudent(id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *handlers) deleteStudent(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.svc.RemoveStudent(id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "student deleted"})
}

type upsertFeeRequest struct {
	Month       string          `json:"month" binding:"required"` // YYYY-MM
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Status      string          `json:"status"`       // paid|unpaid, defaults to unpaid
	PaymentDate string          `json:"payment_date"` // YYYY-MM-DD, required when paid
}

// upsertFee is the manual entry/correction path: it creates or overwrites the
// obligation for the given student and month.
func (h *handlers) upsertFee(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req upsertFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	month, err := fees.ParseMonth(req.Month)
	if err != nil {
		fail(c, err)
		return
	}
	status := models.FeeStatus(req.Status)
	if req.Status == "" {
		status = models.FeeUnpaid
	}
	var payDate *time.Time
	if req.PaymentDate != "" {
		t, err := time.Parse("2006-01-02", req.PaymentDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment_date (want YYYY-MM-DD)"})
			return
		}
		payDate = &t
	}
	ob, err := h.svc.UpsertManual(id, month, req.Amount, status, payDate)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ob)
}

func (h *handlers) payFee(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req struct {
		PaymentDate string `json:"payment_date"` // YYYY-MM-DD, defaults to today
	}
	// body is optional
	_ = c.ShouldBindJSON(&req)
	payDate := time.Now().UTC()
	if req.PaymentDate != "" {
		t, err := time.Parse("2006-01-02", req.PaymentDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment_date (want YYYY-MM-DD)"})
			return
		}
		payDate = t
	}
	ob, err := h.svc.MarkPaid(id, payDate)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ob)
}

func (h *handlers) unpayFee(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	ob, err := h.svc.MarkUnpaid(id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ob)
}

// listUnpaid runs catch-up first so fees for the current month show up even if
// nobody opened the dashboard yet this month.
func (h *handlers) listUnpaid(c *gin.Context) {
	if _, err := h.svc.CatchUpCurrentPeriod(time.Now().UTC()); err != nil {
		fail(c, err)
		return
	}
	obs, err := h.svc.ListUnpaid()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, obs)
}

func (h *handlers) studentReportPDF(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	rep, err := h.svc.StudentReport(id)
	if err != nil {
		fail(c, err)
		return
	}
	name := fmt.Sprintf("student_%s_%s.pdf", rep.Student.SeatNumber, time.Now().Format("20060102_150405"))
	path := filepath.Join(reportBaseDir(), name)
	if err := report.Student(rep, path); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "report generation failed"})
		return
	}
	c.FileAttachment(path, name)
}

func (h *handlers) monthlyReportPDF(c *gin.Context) {
	var req struct {
		Month string `json:"month" binding:"required"` // YYYY-MM
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	month, err := fees.ParseMonth(req.Month)
	if err != nil {
		fail(c, err)
		return
	}
	rep, err := h.svc.MonthlyReport(month)
	if err != nil {
		fail(c, err)
		return
	}
	name := fmt.Sprintf("monthly_report_%s.pdf", month.Format("200601"))
	path := filepath.Join(reportBaseDir(), name)
	if err := report.Monthly(rep, path); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "report generation failed"})
		return
	}
	c.FileAttachment(path, name)
}
