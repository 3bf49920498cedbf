package parser

import (
	"bytes"
	"testing"

	"github.com/hannesmoehring/finance-overview/internal/category"
	"github.com/hannesmoehring/finance-overview/internal/logger"
)

func newTradeRepublic(t *testing.T) *TradeRepublic {
	t.Helper()
	log := logger.NewWithWriter(&bytes.Buffer{})
	return NewTradeRepublic("", category.NewNormalizer(log), log)
}

// Statement text the way the extractor hands it over: one transaction spread
// across physical lines, surrounded by layout noise. Amounts carry the euro
// sign glued on with a non-breaking space, exactly as extracted.
var tradeRepublicPage1 = "KONTOAUSZUG\n" +
	"01 Jan. 2024 bis 31 Jan. 2024\n" +
	"DATUM TYP BESCHREIBUNG SALDO\n" +
	"02 Jan. 2024 Kauf Sparplan MSCI World UCITS ETF\n" +
	"123,45 € 10.000,00 €\n" +
	"02\n" +
	"Jan.\n" +
	"2024\n" +
	"Überweisung ausgehend an Max Mustermann 250,00 € 9.750,00 €\n" +
	"05 Jan. 2024\n" +
	"Überweisung Einzahlung akzeptiert: John Doe 500,00 € 10.250,00 €\n"

var tradeRepublicPage2 = "DATUM TYP BESCHREIBUNG SALDO\n" +
	"07 Jan. 2024\n" +
	"Kartentransaktion REWE Markt GmbH 27,10 € 10.222,90 €\n" +
	"10 Jan. 2024 Verkauf Sparplan MSCI World UCITS ETF\n" +
	"200,00 € 10.422,90 €\n"

func TestTradeRepublicParseText(t *testing.T) {
	p := newTradeRepublic(t)

	table, err := p.ParseText([]string{tradeRepublicPage1, tradeRepublicPage2})
	if err != nil {
		t.Fatalf("ParseText: %v", err)
	}
	if len(table) != 5 {
		t.Fatalf("got %d records, want 5", len(table))
	}

	tests := []struct {
		process string
		details string
		amount  float64
		date    string
	}{
		{category.Buy, "Sparplan MSCI World UCITS ETF", -123.45, "2024-01-02"},
		{category.Transfer, "an Max Mustermann", -250.00, "2024-01-02"},
		{category.Transfer, "akzeptiert: John Doe", 500.00, "2024-01-05"},
		{category.CardPayment, "REWE Markt GmbH", -27.10, "2024-01-07"},
		{category.Sell, "Sparplan MSCI World UCITS ETF", 200.00, "2024-01-10"},
	}
	for i, tt := range tests {
		got := table[i]
		if got.Process != tt.process {
			t.Errorf("record %d: process = %q, want %q", i, got.Process, tt.process)
		}
		if got.Details != tt.details {
			t.Errorf("record %d: details = %q, want %q", i, got.Details, tt.details)
		}
		if got.Amount != tt.amount {
			t.Errorf("record %d: amount = %v, want %v", i, got.Amount, tt.amount)
		}
		if got.Date.String() != tt.date {
			t.Errorf("record %d: date = %s, want %s", i, got.Date, tt.date)
		}
	}
}

func TestTradeRepublicParseText_BadDateFailsFile(t *testing.T) {
	p := newTradeRepublic(t)

	page := "xx Foo 2024 Kauf Irgendwas\n1,00 € 2,00 €\n"
	if _, err := p.ParseText([]string{page}); err == nil {
		t.Fatal("expected error for unparseable date")
	}
}

func TestReconstructLines(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []string
	}{
		{
			name:  "buy consumes exactly the following line",
			lines: []string{"02 Jan. 2024 Kauf MSCI World", "123,45 € 10.000,00 €", "Seite 1 von 2"},
			want:  []string{"02 Jan. 2024 Kauf MSCI World 123,45 € 10.000,00 €"},
		},
		{
			name:  "buy marker on the last line yields nothing",
			lines: []string{"02 Jan. 2024 Kauf MSCI World"},
			want:  nil,
		},
		{
			name:  "transfer takes one complete preceding date line",
			lines: []string{"05 Jan. 2024", "Überweisung Einzahlung 500,00 € 1.000,00 €"},
			want:  []string{"05 Jan. 2024 Überweisung Einzahlung 500,00 € 1.000,00 €"},
		},
		{
			name:  "transfer stitches a date split over three lines",
			lines: []string{"05", "Jan.", "2024", "Überweisung ausgehend 250,00 € 750,00 €"},
			want:  []string{"05 Jan. 2024 Überweisung ausgehend 250,00 € 750,00 €"},
		},
		{
			name:  "unrelated lines are dropped",
			lines: []string{"KONTOAUSZUG", "Seite 1 von 1", "--- PAGE ---"},
			want:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reconstructLines(tt.lines)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d logical lines %q, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTokenizeKeepsNonBreakingSpace(t *testing.T) {
	got := tokenize("Kartentransaktion REWE 27,10 € 973,40 €")
	want := []string{"Kartentransaktion", "REWE", "27,10 €", "973,40 €"}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %q, want %d", len(got), got, len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("token %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseRecord_ShortLine(t *testing.T) {
	p := newTradeRepublic(t)

	if _, err := p.parseRecord("02 Jan. 2024 Kauf"); err == nil {
		t.Fatal("expected error for record with too few tokens")
	}
}
