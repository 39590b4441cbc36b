package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"feetrack/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

// initDB opens the database and migrates the schema. DB_DSN selects Postgres;
// without it the app runs on a local sqlite file (SQLITE_PATH, default
// data/fees.db) so it works with no external services.
func initDB() {
	var (
		dial gorm.Dialector
		err  error
	)
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		dial = postgres.Open(dsn)
	} else {
		path := os.Getenv("SQLITE_PATH")
		if path == "" {
			path = filepath.Join("data", "fees.db")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			slog.Error("failed to create data dir", "path", path, "error", err)
			os.Exit(1)
		}
		dial = sqlite.Open(path)
	}
	db, err = gorm.Open(dial, &gorm.Config{})
	if err != nil {
		slog.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	// Control schema migrations with env DB_AUTO_MIGRATE (default true).
	shouldMigrate := true
	if v := strings.ToLower(os.Getenv("DB_AUTO_MIGRATE")); v == "false" || v == "0" || v == "no" {
		shouldMigrate = false
	}
	if shouldMigrate {
		migrateDB(db)
	}
}

// migrateDB migrates models individually so a failure on one doesn't block
// the others.
func migrateDB(gdb *gorm.DB) {
	if err := gdb.AutoMigrate(&models.Student{}); err != nil {
		slog.Warn("migration warning (students)", "error", err)
	}
	if err := gdb.AutoMigrate(&models.FeeObligation{}); err != nil {
		slog.Warn("migration warning (fee_obligations)", "error", err)
	}
}

// reportBaseDir returns the directory PDF reports are written to
// (configurable via REPORT_DIR env).
func reportBaseDir() string {
	if v := os.Getenv("REPORT_DIR"); v != "" {
		return v
	}
	return "reports"
}

// ensureReportBase creates the base reports directory.
func ensureReportBase() {
	base := reportBaseDir()
	if err := os.MkdirAll(base, 0755); err != nil {
		slog.Warn("failed to create report dir", "path", base, "error", err)
	}
}
