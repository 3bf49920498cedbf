package aggregate

import (
	"fmt"
	"sort"

	"github.com/hannesmoehring/finance-overview/internal/domain"
)

// EntryType classifies a transaction by the sign of its amount.
type EntryType string

const (
	Income   EntryType = "Income"
	Spending EntryType = "Spending"
)

// MonthlyTotal is one (month, type) bucket. Amount is non-negative for both
// types; spending totals are sign-flipped for display.
type MonthlyTotal struct {
	Month  string // "YYYY-MM"
	Type   EntryType
	Amount float64
}

// Monthly buckets a table by calendar month and entry type. Only buckets
// with at least one transaction produce a row; there is no zero-fill.
// Output is ordered by month, Income before Spending.
func Monthly(t domain.Table) []MonthlyTotal {
	type bucket struct {
		month string
		typ   EntryType
	}
	sums := make(map[bucket]float64)
	for _, tx := range t {
		b := bucket{
			month: fmt.Sprintf("%04d-%02d", tx.Date.Year, int(tx.Date.Month)),
			typ:   Income,
		}
		if tx.Amount < 0 {
			b.typ = Spending
		}
		sums[b] += tx.Amount
	}

	out := make([]MonthlyTotal, 0, len(sums))
	for b, sum := range sums {
		if b.typ == Spending {
			sum = -sum
		}
		out = append(out, MonthlyTotal{Month: b.month, Type: b.typ, Amount: sum})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Month != out[j].Month {
			return out[i].Month < out[j].Month
		}
		return out[i].Type < out[j].Type
	})
	return out
}
