// Command cluster embeds and clusters the transaction descriptions of the
// combined table and prints the spending and income aggregates.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/hannesmoehring/finance-overview/internal/aggregate"
	"github.com/hannesmoehring/finance-overview/internal/category"
	"github.com/hannesmoehring/finance-overview/internal/cluster"
	"github.com/hannesmoehring/finance-overview/internal/config"
	"github.com/hannesmoehring/finance-overview/internal/domain"
	"github.com/hannesmoehring/finance-overview/internal/logger"
	"github.com/hannesmoehring/finance-overview/internal/parser"
)

func main() {
	log := logger.New()
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	banks := []domain.Bank{domain.Comdirect, domain.TradeRepublic, domain.OLB}
	norm := category.NewNormalizer(log)
	tables := make(map[domain.Bank]domain.Table)
	for _, bank := range banks {
		p, err := parser.ForBank(bank, cfg.DirFor(string(bank)), norm, log)
		if err != nil {
			log.Fatal().Err(err).Msg("selecting parser")
		}
		t, err := p.ParseAll()
		if err != nil {
			log.Fatal().Err(err).Str("bank", string(bank)).Msg("parsing exports")
		}
		tables[bank] = t
	}
	combined := aggregate.Combine(tables, aggregate.Selection{Banks: banks})

	emb, err := cluster.NewGeminiEmbedder(ctx, cfg.EmbedModel)
	if err != nil {
		log.Fatal().Err(err).Msg("creating embedder")
	}

	res, err := cluster.Run(ctx, combined, emb, cluster.Options{
		Clusters: cfg.Clusters,
		Seed:     cfg.Seed,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("clustering failed")
	}

	printAggregates("spending", res.Spending)
	printAggregates("income", res.Income)
}

func printAggregates(name string, aggs []cluster.Aggregate) {
	fmt.Fprintf(os.Stdout, "# %s\n", name)
	fmt.Fprintln(os.Stdout, "details\tcluster\ttotal_amount\tx\ty")
	for _, a := range aggs {
		fmt.Fprintf(os.Stdout, "%s\t%d\t%.2f\t%.4f\t%.4f\n", a.Details, a.Cluster, a.TotalAmount, a.X, a.Y)
	}
}
