// Package fees is the fee lifecycle engine: student registry, fee ledger,
// idempotent monthly generation and read-side aggregation. It owns every
// invariant around fee obligations; HTTP handlers and report rendering sit on
// top of it and never touch storage directly.
package fees

import "gorm.io/gorm"

// Service exposes all registry, ledger, scheduler and aggregation operations
// over a single GORM handle. Multi-step mutations run inside one transaction
// so a failure never leaves a partial write behind.
type Service struct {
	db *gorm.DB
}

// New returns a Service backed by db. The db must have the Student and
// FeeObligation schemas migrated.
func New(db *gorm.DB) *Service {
	return &Service{db: db}
}
