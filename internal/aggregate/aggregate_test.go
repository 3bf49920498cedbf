package aggregate

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"

	"github.com/hannesmoehring/finance-overview/internal/domain"
)

func date(y, m, d int) civil.Date {
	return civil.Date{Year: y, Month: time.Month(m), Day: d}
}

func tx(d civil.Date, process, details string, amount float64) domain.Transaction {
	return domain.Transaction{Date: d, Process: process, Details: details, Amount: amount}
}

func testTables() map[domain.Bank]domain.Table {
	return map[domain.Bank]domain.Table{
		domain.Comdirect: {
			tx(date(2024, 1, 5), "Transfer", "Miete", -900),
			tx(date(2024, 1, 10), "Direct Debit", "Strom", -80),
			tx(date(2024, 2, 1), "Transfer", "Gehalt", 2500),
		},
		domain.TradeRepublic: {
			tx(date(2024, 1, 7), "Buy", "MSCI World", -123.45),
			// Same booking as the comdirect side, present in both exports.
			tx(date(2024, 1, 5), "Transfer", "Miete", -900),
		},
		domain.OLB: {
			tx(date(2024, 3, 1), "Transfer", "Jemand", -42),
		},
	}
}

func TestCombine_AllBanks(t *testing.T) {
	sel := Selection{Banks: []domain.Bank{domain.Comdirect, domain.TradeRepublic, domain.OLB}}

	got := Combine(testTables(), sel)

	// Six input rows, one cross-bank duplicate.
	if len(got) != 5 {
		t.Fatalf("got %d rows, want 5", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Date.Before(got[i-1].Date) {
			t.Fatalf("rows not date-sorted: %s before %s", got[i].Date, got[i-1].Date)
		}
	}
}

func TestCombine_Deterministic(t *testing.T) {
	sel := Selection{Banks: []domain.Bank{domain.OLB, domain.Comdirect, domain.TradeRepublic}}

	a := Combine(testTables(), sel)
	b := Combine(testTables(), sel)

	if len(a) != len(b) {
		t.Fatalf("row counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("row %d differs across runs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestCombine_EmptySelection(t *testing.T) {
	got := Combine(testTables(), Selection{})
	if got == nil || len(got) != 0 {
		t.Fatalf("got %v, want empty table", got)
	}
}

func TestCombine_ProcessFilter(t *testing.T) {
	sel := Selection{
		Banks:     []domain.Bank{domain.Comdirect, domain.TradeRepublic},
		Processes: []string{"Buy"},
	}

	got := Combine(testTables(), sel)

	if len(got) != 1 {
		t.Fatalf("got %d rows, want 1", len(got))
	}
	if got[0].Details != "MSCI World" {
		t.Errorf("got %q, want the buy row", got[0].Details)
	}
}

func TestCombine_DateRangeInclusive(t *testing.T) {
	from := date(2024, 1, 5)
	to := date(2024, 1, 10)
	sel := Selection{
		Banks: []domain.Bank{domain.Comdirect, domain.TradeRepublic},
		From:  &from,
		To:    &to,
	}

	got := Combine(testTables(), sel)

	// Both boundary days are kept, February is not.
	if len(got) != 3 {
		t.Fatalf("got %d rows, want 3", len(got))
	}
	if got[0].Date != from || got[len(got)-1].Date != to {
		t.Errorf("boundary rows missing: first %s, last %s", got[0].Date, got[len(got)-1].Date)
	}
}

func TestCombine_InputsUntouched(t *testing.T) {
	tables := testTables()
	before := len(tables[domain.Comdirect])

	Combine(tables, Selection{Banks: []domain.Bank{domain.Comdirect, domain.OLB}})

	if len(tables[domain.Comdirect]) != before {
		t.Error("Combine mutated an input table")
	}
}

func TestMonthly(t *testing.T) {
	table := domain.Table{
		tx(date(2024, 3, 1), "Transfer", "a", -100),
		tx(date(2024, 3, 15), "Direct Debit", "b", -50),
		tx(date(2024, 4, 1), "Transfer", "c", 2500),
		tx(date(2024, 4, 2), "Card Payment", "d", -30),
	}

	got := Monthly(table)

	want := []MonthlyTotal{
		{Month: "2024-03", Type: Spending, Amount: 150},
		{Month: "2024-04", Type: Income, Amount: 2500},
		{Month: "2024-04", Type: Spending, Amount: 30},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d buckets %+v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("bucket %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestMonthly_Empty(t *testing.T) {
	if got := Monthly(domain.Table{}); len(got) != 0 {
		t.Fatalf("got %+v, want no buckets", got)
	}
}
