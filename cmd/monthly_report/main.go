// Command monthly_report renders the monthly fee PDF straight from the
// database, without going through the HTTP server.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"feetrack/models"
	"feetrack/pkg/fees"
	"feetrack/pkg/report"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func mustDBFromEnv() *gorm.DB {
	var dial gorm.Dialector
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		dial = postgres.Open(dsn)
	} else {
		path := os.Getenv("SQLITE_PATH")
		if path == "" {
			path = filepath.Join("data", "fees.db")
		}
		dial = sqlite.Open(path)
	}
	gdb, err := gorm.Open(dial, &gorm.Config{})
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	return gdb
}

func main() {
	month := flag.String("month", time.Now().UTC().Format("2006-01"), "month to report (YYYY-MM)")
	out := flag.String("out", "", "output path (default reports/monthly_report_<YYYYMM>.pdf)")
	catchUp := flag.Bool("catch-up", false, "run fee generation for the current month first")
	flag.Parse()

	m, err := fees.ParseMonth(*month)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	gdb := mustDBFromEnv()
	if err := gdb.AutoMigrate(&models.Student{}, &models.FeeObligation{}); err != nil {
		log.Printf("migration warning: %v", err)
	}
	svc := fees.New(gdb)

	if *catchUp {
		n, err := svc.CatchUpCurrentPeriod(time.Now().UTC())
		if err != nil {
			log.Fatalf("catch-up failed: %v", err)
		}
		fmt.Printf("generated %d fee records\n", n)
	}

	rep, err := svc.MonthlyReport(m)
	if err != nil {
		log.Fatalf("build report: %v", err)
	}

	path := *out
	if path == "" {
		path = filepath.Join("reports", fmt.Sprintf("monthly_report_%s.pdf", m.Format("200601")))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		log.Fatalf("mkdir: %v", err)
	}
	if err := report.Monthly(rep, path); err != nil {
		log.Fatalf("render report: %v", err)
	}
	fmt.Printf("report for %s: %d students, paid=%s unpaid=%s -> %s\n",
		m.Format("January 2006"), len(rep.Rows), rep.TotalPaid.StringFixed(2), rep.TotalUnpaid.StringFixed(2), path)
}
