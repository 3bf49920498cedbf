// Package config loads runtime settings from the environment. The CLIs load
// a .env file first, so local runs configure themselves the same way as
// deployed ones.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	// DataDir is the root of the raw export tree; each bank reads from its
	// own subdirectory unless overridden.
	DataDir          string `env:"FINOV_DATA_DIR" envDefault:"finance_data"`
	ComdirectDir     string `env:"FINOV_COMDIRECT_DIR"`
	TradeRepublicDir string `env:"FINOV_TRADEREPUBLIC_DIR"`
	OLBDir           string `env:"FINOV_OLB_DIR"`

	EmbedModel string `env:"FINOV_EMBED_MODEL" envDefault:"gemini-embedding-001"`
	Clusters   int    `env:"FINOV_CLUSTERS" envDefault:"10"`
	Seed       int64  `env:"FINOV_SEED" envDefault:"42"`

	GCSBucket       string `env:"FINOV_GCS_BUCKET"`
	BigQueryProject string `env:"FINOV_BQ_PROJECT"`
	BigQueryDataset string `env:"FINOV_BQ_DATASET" envDefault:"finance"`
	BigQueryTable   string `env:"FINOV_BQ_TABLE" envDefault:"transactions"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.ComdirectDir == "" {
		cfg.ComdirectDir = filepath.Join(cfg.DataDir, "comdirect")
	}
	if cfg.TradeRepublicDir == "" {
		cfg.TradeRepublicDir = filepath.Join(cfg.DataDir, "traderepublic")
	}
	if cfg.OLBDir == "" {
		cfg.OLBDir = filepath.Join(cfg.DataDir, "olb")
	}
	return cfg, nil
}

// DirFor returns the configured raw-export directory for a bank tag.
func (c *Config) DirFor(bank string) string {
	switch bank {
	case "comdirect":
		return c.ComdirectDir
	case "traderepublic":
		return c.TradeRepublicDir
	case "olb":
		return c.OLBDir
	default:
		return c.DataDir
	}
}
