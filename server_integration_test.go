package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"feetrack/pkg/fees"

	"github.com/gin-gonic/gin"
)

// helper to perform JSON requests against the engine
func performRequest(r http.Handler, method, path string, body io.Reader) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func setupTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tmp := t.TempDir()
	t.Setenv("DB_DSN", "")
	t.Setenv("SQLITE_PATH", filepath.Join(tmp, "fees.db"))
	t.Setenv("REPORT_DIR", filepath.Join(tmp, "reports"))
	initDB()
	ensureReportBase()
	r := gin.New()
	setupRoutes(r, fees.New(db))
	return r
}

func TestFullFlow(t *testing.T) {
	r := setupTestServer(t)

	// 1. Register a student (rate defaults to 1000)
	regBody, _ := json.Marshal(map[string]any{
		"name": "Asha Verma", "seat_number": "A1", "phone": "9876543210",
	})
	resp := performRequest(r, http.MethodPost, "/students", bytes.NewBuffer(regBody))
	if resp.Code != 200 {
		t.Fatalf("register failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var reg struct {
		ID uint `json:"id"`
	}
	_ = json.Unmarshal(resp.Body.Bytes(), &reg)
	if reg.ID == 0 {
		t.Fatalf("empty id in register response: %s", resp.Body.String())
	}

	// 2. Duplicate seat number is rejected
	resp = performRequest(r, http.MethodPost, "/students", bytes.NewBuffer(regBody))
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate seat got %d", resp.Code)
	}

	// 3. Dashboard: registration already generated this month's fee, so the
	// catch-up run generates nothing and the student shows up as due
	resp = performRequest(r, http.MethodGet, "/dashboard", nil)
	if resp.Code != 200 {
		t.Fatalf("dashboard failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var dash struct {
		FeesGenerated int `json:"fees_generated"`
		DueToday      []struct {
			Obligation struct {
				ID     uint   `json:"ID"`
				Status string `json:"Status"`
			} `json:"Obligation"`
		} `json:"due_today"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &dash); err != nil {
		t.Fatalf("bad dashboard json: %v", err)
	}
	if dash.FeesGenerated != 0 {
		t.Fatalf("expected 0 generated on dashboard got %d", dash.FeesGenerated)
	}
	if len(dash.DueToday) != 1 {
		t.Fatalf("expected 1 due entry got %d body=%s", len(dash.DueToday), resp.Body.String())
	}
	obID := dash.DueToday[0].Obligation.ID

	// 4. Manual upsert with paid state but no date is rejected
	badBody, _ := json.Marshal(map[string]any{
		"month": time.Now().UTC().Format("2006-01"), "amount": "1000", "status": "paid",
	})
	resp = performRequest(r, http.MethodPost, "/students/"+itoa(reg.ID)+"/fees", bytes.NewBuffer(badBody))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for paid-without-date got %d body=%s", resp.Code, resp.Body.String())
	}

	// 5. Pay the obligation
	payBody, _ := json.Marshal(map[string]string{"payment_date": time.Now().UTC().Format("2006-01-02")})
	resp = performRequest(r, http.MethodPost, "/fees/"+itoa(obID)+"/pay", bytes.NewBuffer(payBody))
	if resp.Code != 200 {
		t.Fatalf("pay failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 6. Unpaid list is now empty
	resp = performRequest(r, http.MethodGet, "/fees/unpaid", nil)
	if resp.Code != 200 {
		t.Fatalf("unpaid list failed status=%d", resp.Code)
	}
	var unpaid []any
	_ = json.Unmarshal(resp.Body.Bytes(), &unpaid)
	if len(unpaid) != 0 {
		t.Fatalf("expected empty unpaid list got %s", resp.Body.String())
	}

	// 7. Student report JSON
	resp = performRequest(r, http.MethodGet, "/students/"+itoa(reg.ID), nil)
	if resp.Code != 200 {
		t.Fatalf("student report failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 8. Student report PDF download
	resp = performRequest(r, http.MethodGet, "/students/"+itoa(reg.ID)+"/report", nil)
	if resp.Code != 200 {
		t.Fatalf("student pdf failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	if !bytes.HasPrefix(resp.Body.Bytes(), []byte("%PDF-")) {
		t.Fatalf("student report is not a pdf")
	}

	// 9. Monthly report PDF
	monBody, _ := json.Marshal(map[string]string{"month": time.Now().UTC().Format("2006-01")})
	resp = performRequest(r, http.MethodPost, "/reports/monthly", bytes.NewBuffer(monBody))
	if resp.Code != 200 {
		t.Fatalf("monthly pdf failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	if !bytes.HasPrefix(resp.Body.Bytes(), []byte("%PDF-")) {
		t.Fatalf("monthly report is not a pdf")
	}

	// 10. Delete the student; its data is gone
	resp = performRequest(r, http.MethodDelete, "/students/"+itoa(reg.ID), nil)
	if resp.Code != 200 {
		t.Fatalf("delete failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	resp = performRequest(r, http.MethodGet, "/students/"+itoa(reg.ID), nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete got %d", resp.Code)
	}
}

func TestUnknownRecordsReturn404(t *testing.T) {
	r := setupTestServer(t)
	if resp := performRequest(r, http.MethodGet, "/students/999", nil); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
	if resp := performRequest(r, http.MethodPost, "/fees/999/pay", nil); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d body=%s", resp.Code, resp.Body.String())
	}
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
