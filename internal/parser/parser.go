// Package parser converts raw bank exports into canonical transaction
// tables. Each institution gets its own parser; the shared contract is
// "raw source → canonical table", selected by explicit bank tag.
package parser

import (
	"fmt"
	"path/filepath"

	"github.com/hannesmoehring/finance-overview/internal/category"
	"github.com/hannesmoehring/finance-overview/internal/domain"
	"github.com/rs/zerolog"
)

// Parser is the per-institution entry point. ParseAll accepts an explicit
// file list or, absent one, enumerates the institution's naming convention
// in its configured directory. Zero matching files produce an empty table.
type Parser interface {
	Bank() domain.Bank
	ParseAll(paths ...string) (domain.Table, error)
}

// ForBank returns the parser for an institution tag.
func ForBank(bank domain.Bank, dir string, norm *category.Normalizer, log zerolog.Logger) (Parser, error) {
	switch bank {
	case domain.Comdirect:
		return NewComdirect(dir, norm, log), nil
	case domain.TradeRepublic:
		return NewTradeRepublic(dir, norm, log), nil
	case domain.OLB:
		return NewOLB(dir, norm, log), nil
	default:
		return nil, fmt.Errorf("parser: unknown bank %q", bank)
	}
}

// finalize applies the cross-cutting parse-all contract: date-ascending
// order, exact duplicates removed, rows with a null process dropped.
func finalize(t domain.Table) domain.Table {
	return t.SortByDate().Dedupe().DropIncomplete()
}

func globFiles(dir, pattern string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("globbing %s/%s: %w", dir, pattern, err)
	}
	return paths, nil
}
