// Command export pushes parsed tables into the optional sinks: the raw
// statement files into a GCS archive bucket, the combined table into a
// BigQuery transactions table. -fetch retrieves an archived statement
// instead.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/hannesmoehring/finance-overview/internal/aggregate"
	"github.com/hannesmoehring/finance-overview/internal/category"
	"github.com/hannesmoehring/finance-overview/internal/config"
	"github.com/hannesmoehring/finance-overview/internal/domain"
	"github.com/hannesmoehring/finance-overview/internal/export"
	"github.com/hannesmoehring/finance-overview/internal/logger"
	"github.com/hannesmoehring/finance-overview/internal/parser"
)

func main() {
	log := logger.New()
	_ = godotenv.Load()

	bankFlag := flag.String("bank", "", "institution tag (comdirect, traderepublic, olb)")
	archiveFlag := flag.String("archive", "", "statement file to archive to GCS before exporting")
	fetchFlag := flag.String("fetch", "", "gs:// URI of an archived statement to print and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	if *fetchFlag != "" {
		data, err := export.FetchStatement(ctx, *fetchFlag)
		if err != nil {
			log.Fatal().Err(err).Msg("fetching statement")
		}
		if _, err := os.Stdout.Write(data); err != nil {
			log.Fatal().Err(err).Msg("writing statement")
		}
		return
	}

	if *bankFlag == "" {
		log.Fatal().Msg("-bank is required")
	}
	bank := domain.Bank(*bankFlag)

	if *archiveFlag != "" {
		if cfg.GCSBucket == "" {
			log.Fatal().Msg("FINOV_GCS_BUCKET is required for -archive")
		}
		object := string(bank) + "/" + filepath.Base(*archiveFlag)
		if err := export.ArchiveStatement(ctx, cfg.GCSBucket, object, *archiveFlag); err != nil {
			log.Fatal().Err(err).Msg("archiving statement")
		}
		log.Info().Str("object", object).Msg("statement archived")
	}

	if cfg.BigQueryProject == "" {
		log.Info().Msg("FINOV_BQ_PROJECT not set, skipping BigQuery export")
		return
	}

	norm := category.NewNormalizer(log)
	p, err := parser.ForBank(bank, cfg.DirFor(string(bank)), norm, log)
	if err != nil {
		log.Fatal().Err(err).Msg("selecting parser")
	}
	table, err := p.ParseAll()
	if err != nil {
		log.Fatal().Err(err).Msg("parsing exports")
	}
	combined := aggregate.Combine(
		map[domain.Bank]domain.Table{bank: table},
		aggregate.Selection{Banks: []domain.Bank{bank}},
	)

	exporter, err := export.NewBigQueryExporter(ctx, cfg.BigQueryProject, cfg.BigQueryDataset, cfg.BigQueryTable)
	if err != nil {
		log.Fatal().Err(err).Msg("creating exporter")
	}
	defer exporter.Close()

	written, err := exporter.Export(ctx, bank, combined)
	if err != nil {
		log.Fatal().Err(err).Msg("exporting transactions")
	}
	log.Info().Int("rows", written).Str("bank", string(bank)).Msg("export complete")
}
