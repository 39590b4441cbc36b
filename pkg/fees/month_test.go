package fees

import (
	"errors"
	"testing"
	"time"
)

func TestMonthStartNormalizes(t *testing.T) {
	in := time.Date(2024, 3, 15, 13, 45, 12, 999, time.UTC)
	got := MonthStart(in)
	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v got %v", want, got)
	}
	// already-normalized input is a fixed point
	if !MonthStart(got).Equal(got) {
		t.Fatalf("normalizing twice changed the value: %v", MonthStart(got))
	}
}

func TestNextMonthYearRollover(t *testing.T) {
	got := NextMonth(time.Date(2024, 12, 20, 8, 0, 0, 0, time.UTC))
	want := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v got %v", want, got)
	}
}

func TestParseMonth(t *testing.T) {
	got, err := ParseMonth("2024-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v got %v", want, got)
	}

	if _, err := ParseMonth("March 2024"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation got %v", err)
	}
}
