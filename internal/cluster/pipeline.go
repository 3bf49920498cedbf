// Package cluster discovers semantic groups among transaction descriptions:
// embed the free text, cluster the embeddings, project them to 2-D, and
// aggregate per (description, cluster). Spending and income are processed
// as independent partitions.
package cluster

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/hannesmoehring/finance-overview/internal/domain"
)

// Options control a pipeline run. Clusters is clamped to the partition's
// row count; Seed fixes the k-means assignment for reproducibility.
type Options struct {
	Clusters int
	Seed     int64
}

// DefaultOptions matches the dashboard's settings.
func DefaultOptions() Options {
	return Options{Clusters: 10, Seed: 42}
}

// Aggregate is one (description, cluster) pair: summed amount and the mean
// 2-D projection of all rows sharing that description and cluster.
type Aggregate struct {
	Details     string
	Cluster     int
	TotalAmount float64
	X, Y        float64
}

// Result holds one aggregate table per partition.
type Result struct {
	Spending []Aggregate
	Income   []Aggregate
}

// Run executes the full pipeline over a table. Spending rows (amount < 0)
// are converted to positive magnitudes before aggregation; income rows keep
// their sign. An empty partition short-circuits to an empty aggregate
// without touching the embedder.
func Run(ctx context.Context, t domain.Table, emb Embedder, opts Options) (*Result, error) {
	spending, income := partition(t)

	sp, err := runPartition(ctx, spending, emb, opts)
	if err != nil {
		return nil, fmt.Errorf("cluster: spending partition: %w", err)
	}
	inc, err := runPartition(ctx, income, emb, opts)
	if err != nil {
		return nil, fmt.Errorf("cluster: income partition: %w", err)
	}
	return &Result{Spending: sp, Income: inc}, nil
}

// partition splits a table by amount sign. Spending amounts become
// magnitudes so cluster totals read as positive spend.
func partition(t domain.Table) (spending, income domain.Table) {
	spending = domain.Table{}
	income = domain.Table{}
	for _, tx := range t {
		if tx.Amount < 0 {
			tx.Amount = math.Abs(tx.Amount)
			spending = append(spending, tx)
		} else {
			income = append(income, tx)
		}
	}
	return spending, income
}

func runPartition(ctx context.Context, t domain.Table, emb Embedder, opts Options) ([]Aggregate, error) {
	if len(t) == 0 {
		return []Aggregate{}, nil
	}

	texts := make([]string, len(t))
	for i, tx := range t {
		texts[i] = tx.Details
	}

	vecs, err := emb.Embed(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(t) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d rows", len(vecs), len(t))
	}
	normalizeUnit(vecs)

	assign := kMeans(vecs, opts.Clusters, opts.Seed)
	coords := projectTSNE(vecs)

	return aggregateClusters(t, assign, coords), nil
}

// aggregateClusters groups rows by (details, cluster id), summing amounts
// and averaging projection coordinates. Output order is cluster then
// details, so repeated runs compare cleanly.
func aggregateClusters(t domain.Table, assign []int, coords [][2]float64) []Aggregate {
	type key struct {
		details string
		cluster int
	}
	type acc struct {
		total float64
		x, y  float64
		count int
	}
	sums := make(map[key]*acc)
	for i, tx := range t {
		k := key{details: tx.Details, cluster: assign[i]}
		a, ok := sums[k]
		if !ok {
			a = &acc{}
			sums[k] = a
		}
		a.total += tx.Amount
		a.x += coords[i][0]
		a.y += coords[i][1]
		a.count++
	}

	out := make([]Aggregate, 0, len(sums))
	for k, a := range sums {
		out = append(out, Aggregate{
			Details:     k.details,
			Cluster:     k.cluster,
			TotalAmount: a.total,
			X:           a.x / float64(a.count),
			Y:           a.y / float64(a.count),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Cluster != out[j].Cluster {
			return out[i].Cluster < out[j].Cluster
		}
		return out[i].Details < out[j].Details
	})
	return out
}
