// Package aggregate merges per-institution tables into the combined views
// the dashboard layer consumes.
package aggregate

import (
	"cloud.google.com/go/civil"

	"github.com/hannesmoehring/finance-overview/internal/domain"
)

// Selection narrows the combined table. Banks is the institution subset and
// drives iteration order, so the same selection always yields the same
// combined table; an empty Banks slice selects nothing. An empty Processes
// slice keeps every category. From/To bound the booking date inclusively.
type Selection struct {
	Banks     []domain.Bank
	Processes []string
	From      *civil.Date
	To        *civil.Date
}

// Combine produces one filtered, deduplicated, date-sorted table with a
// dense index from the selected per-institution tables. Inputs are treated
// as read-only; a selection that matches nothing returns an empty table.
func Combine(tables map[domain.Bank]domain.Table, sel Selection) domain.Table {
	combined := domain.Table{}
	for _, bank := range sel.Banks {
		combined = append(combined, tables[bank]...)
	}

	combined = filterProcesses(combined, sel.Processes)
	combined = filterDateRange(combined, sel.From, sel.To)

	return combined.SortByDate().Dedupe().DropIncomplete()
}

func filterProcesses(t domain.Table, processes []string) domain.Table {
	if len(processes) == 0 {
		return t
	}
	keep := make(map[string]struct{}, len(processes))
	for _, p := range processes {
		keep[p] = struct{}{}
	}
	out := domain.Table{}
	for _, tx := range t {
		if _, ok := keep[tx.Process]; ok {
			out = append(out, tx)
		}
	}
	return out
}

func filterDateRange(t domain.Table, from, to *civil.Date) domain.Table {
	if from == nil && to == nil {
		return t
	}
	out := domain.Table{}
	for _, tx := range t {
		if from != nil && tx.Date.Before(*from) {
			continue
		}
		if to != nil && tx.Date.After(*to) {
			continue
		}
		out = append(out, tx)
	}
	return out
}
