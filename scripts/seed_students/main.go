// Seeds a handful of students for local development. Safe to re-run: existing
// seat numbers are skipped.
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

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
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
	catchUp := flag.Bool("catch-up", true, "generate current-month fees after seeding")
	flag.Parse()

	gdb := mustDBFromEnv()
	if err := gdb.AutoMigrate(&models.Student{}, &models.FeeObligation{}); err != nil {
		log.Printf("migration warning: %v", err)
	}
	svc := fees.New(gdb)

	now := time.Now().UTC()
	seeds := []fees.StudentInput{
		{Name: "Asha Verma", SeatNumber: "A1", Phone: "9876543210", JoiningDate: now, MonthlyFee: decimal.NewFromInt(1000)},
		{Name: "Rohan Gupta", SeatNumber: "A2", Phone: "9876501234", JoiningDate: now, MonthlyFee: decimal.NewFromInt(1200)},
		{Name: "Priya Nair", SeatNumber: "B1", Phone: "9812345670", JoiningDate: now, MonthlyFee: decimal.NewFromInt(800)},
	}
	created := 0
	for _, in := range seeds {
		st, err := svc.RegisterStudent(in)
		if err != nil {
			log.Printf("skip %s (%s): %v", in.Name, in.SeatNumber, err)
			continue
		}
		fmt.Printf("created student %s seat=%s id=%d\n", st.Name, st.SeatNumber, st.ID)
		created++
	}

	if *catchUp {
		n, err := svc.CatchUpCurrentPeriod(now)
		if err != nil {
			log.Fatalf("catch-up failed: %v", err)
		}
		fmt.Printf("seeded %d students, generated %d fee records\n", created, n)
		return
	}
	fmt.Printf("seeded %d students\n", created)
}
