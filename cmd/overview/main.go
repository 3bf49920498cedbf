// Command overview parses every configured bank export, combines the tables
// and prints the transactions plus the per-month income/spending totals.
// It stands in for the dashboard layer during development.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/joho/godotenv"

	"github.com/hannesmoehring/finance-overview/internal/aggregate"
	"github.com/hannesmoehring/finance-overview/internal/category"
	"github.com/hannesmoehring/finance-overview/internal/config"
	"github.com/hannesmoehring/finance-overview/internal/domain"
	"github.com/hannesmoehring/finance-overview/internal/logger"
	"github.com/hannesmoehring/finance-overview/internal/memo"
	"github.com/hannesmoehring/finance-overview/internal/parser"
)

func main() {
	log := logger.New()
	_ = godotenv.Load()

	banksFlag := flag.String("banks", "comdirect,traderepublic,olb", "comma-separated institution subset")
	fromFlag := flag.String("from", "", "inclusive lower date bound (YYYY-MM-DD)")
	toFlag := flag.String("to", "", "inclusive upper date bound (YYYY-MM-DD)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}

	sel := aggregate.Selection{}
	for _, b := range strings.Split(*banksFlag, ",") {
		if b = strings.TrimSpace(b); b != "" {
			sel.Banks = append(sel.Banks, domain.Bank(b))
		}
	}
	if *fromFlag != "" {
		d, err := civil.ParseDate(*fromFlag)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid -from date")
		}
		sel.From = &d
	}
	if *toFlag != "" {
		d, err := civil.ParseDate(*toFlag)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid -to date")
		}
		sel.To = &d
	}

	norm := category.NewNormalizer(log)
	store := memo.NewStore()
	tables := make(map[domain.Bank]domain.Table)
	for _, bank := range sel.Banks {
		dir := cfg.DirFor(string(bank))
		// A bank listed more than once re-uses the cached parse.
		key := memo.Key(bank, []string{dir})
		if t, ok := store.Get(key); ok {
			tables[bank] = t
			continue
		}
		p, err := parser.ForBank(bank, dir, norm, log)
		if err != nil {
			log.Fatal().Err(err).Msg("selecting parser")
		}
		t, err := p.ParseAll()
		if err != nil {
			log.Fatal().Err(err).Str("bank", string(bank)).Msg("parsing exports")
		}
		log.Info().Str("bank", string(bank)).Int("rows", len(t)).Msg("parsed")
		store.Put(key, t)
		tables[bank] = t
	}

	combined := aggregate.Combine(tables, sel)

	w := os.Stdout
	fmt.Fprintln(w, "date\tprocess\tdetails\tamount")
	for _, tx := range combined {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\n", tx.Date, tx.Process, tx.Details, tx.Amount)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "month\ttype\tamount")
	for _, m := range aggregate.Monthly(combined) {
		fmt.Fprintf(w, "%s\t%s\t%.2f\n", m.Month, m.Type, m.Amount)
	}
}
