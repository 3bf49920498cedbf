package domain

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
)

func date(y, m, d int) civil.Date {
	return civil.Date{Year: y, Month: time.Month(m), Day: d}
}

func TestSortByDate_StableAscending(t *testing.T) {
	tb := Table{
		{Date: date(2024, 3, 5), Process: "Transfer", Details: "b", Amount: -1},
		{Date: date(2024, 1, 2), Process: "Transfer", Details: "a", Amount: -2},
		{Date: date(2024, 3, 5), Process: "Transfer", Details: "c", Amount: -3},
	}

	sorted := tb.SortByDate()

	if sorted[0].Details != "a" {
		t.Errorf("first row = %q, want %q", sorted[0].Details, "a")
	}
	// Equal dates keep their input order.
	if sorted[1].Details != "b" || sorted[2].Details != "c" {
		t.Errorf("equal-date rows reordered: %q, %q", sorted[1].Details, sorted[2].Details)
	}
	// Receiver untouched.
	if tb[0].Details != "b" {
		t.Error("SortByDate mutated its receiver")
	}
}

func TestDedupe_ExactDuplicatesCollapse(t *testing.T) {
	tx := Transaction{Date: date(2024, 2, 1), Process: "Transfer", Details: "rent", Amount: -900}
	tb := Table{tx, tx, {Date: date(2024, 2, 1), Process: "Transfer", Details: "rent", Amount: -900.01}}

	got := tb.Dedupe()

	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}
}

func TestDropIncomplete(t *testing.T) {
	tb := Table{
		{Date: date(2024, 2, 1), Process: "Transfer", Amount: 1},
		{Process: "Transfer", Amount: 1},           // null date
		{Date: date(2024, 2, 2), Amount: 1},        // null process
		{Date: date(2024, 2, 3), Process: "Buy"},   // zero amount is valid
	}

	got := tb.DropIncomplete()

	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}
}

func TestWeekdayMonthday(t *testing.T) {
	// 2024-03-03 was a Sunday.
	tx := Transaction{Date: date(2024, 3, 3)}
	if got := tx.Weekday(); got != 7 {
		t.Errorf("Weekday() = %d, want 7", got)
	}
	if got := tx.Monthday(); got != 3 {
		t.Errorf("Monthday() = %d, want 3", got)
	}

	// 2024-03-04 was a Monday.
	tx = Transaction{Date: date(2024, 3, 4)}
	if got := tx.Weekday(); got != 1 {
		t.Errorf("Weekday() = %d, want 1", got)
	}
}
