package domain

import (
	"sort"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
)

// Bank identifies the institution a statement export came from. Parsers are
// selected by explicit tag, never by sniffing the file format.
type Bank string

const (
	Comdirect     Bank = "comdirect"
	TradeRepublic Bank = "traderepublic"
	OLB           Bank = "olb"
)

// Transaction is the canonical record every institution-specific export is
// normalized into. Date is the booking date without a time component; Amount
// is signed, negative for outflows.
type Transaction struct {
	Date        civil.Date
	Process     string
	Details     string
	LongDetails string // untruncated description, only set when Details was cut
	Amount      float64
	BookingTime *time.Time // finer granularity when the source exposes one
}

// Weekday returns the ISO weekday of the booking date (Monday=1 .. Sunday=7).
func (t Transaction) Weekday() int {
	wd := t.Date.In(time.UTC).Weekday()
	if wd == time.Sunday {
		return 7
	}
	return int(wd)
}

// Monthday returns the day of the month of the booking date.
func (t Transaction) Monthday() int {
	return t.Date.Day
}

// Key is the identity used for exact-duplicate removal: two rows with the
// same date, process, details and amount collapse to one.
func (t Transaction) Key() string {
	return t.Date.String() + "|" + t.Process + "|" + t.Details + "|" +
		strconv.FormatFloat(t.Amount, 'f', -1, 64)
}

// Table is an ordered set of transactions. The slice index is the dense
// zero-based row index; helpers return new tables and never mutate their
// receiver's rows.
type Table []Transaction

// SortByDate orders rows by booking date ascending. The sort is stable so
// repeated invocations over the same input produce identical tables.
func (tb Table) SortByDate() Table {
	out := make(Table, len(tb))
	copy(out, tb)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// Dedupe removes exact duplicates, keeping the first occurrence.
func (tb Table) Dedupe() Table {
	seen := make(map[string]struct{}, len(tb))
	out := make(Table, 0, len(tb))
	for _, t := range tb {
		k := t.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, t)
	}
	return out
}

// DropIncomplete removes rows that violate the non-null invariants on date
// and process. Amount has no null state once parsed; parsers skip rows whose
// amount cannot be coerced.
func (tb Table) DropIncomplete() Table {
	out := make(Table, 0, len(tb))
	for _, t := range tb {
		if !t.Date.IsValid() || t.Process == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}
