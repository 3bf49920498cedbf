package export

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/hannesmoehring/finance-overview/internal/domain"
)

// TransactionRow is the BigQuery shape of a canonical transaction. DedupeKey
// mirrors domain.Transaction.Key so repeated exports skip rows the table
// already holds.
type TransactionRow struct {
	TransactionID string     `bigquery:"transaction_id"`
	Bank          string     `bigquery:"bank"`
	BookingDate   civil.Date `bigquery:"booking_date"`
	Process       string     `bigquery:"process"`
	Details       string     `bigquery:"details"`
	LongDetails   string     `bigquery:"long_details"`
	Amount        float64    `bigquery:"amount"`
	DedupeKey     string     `bigquery:"dedupe_key"`
	CreatedTS     time.Time  `bigquery:"created_ts"`
}

// BigQueryExporter pushes combined tables into one transactions table.
type BigQueryExporter struct {
	client  *bigquery.Client
	dataset string
	table   string
}

func NewBigQueryExporter(ctx context.Context, projectID, dataset, table string) (*BigQueryExporter, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewBigQueryExporter: bigquery client: %w", err)
	}
	return &BigQueryExporter{client: client, dataset: dataset, table: table}, nil
}

func (e *BigQueryExporter) Close() error {
	return e.client.Close()
}

// Export inserts the table's rows, skipping any whose dedupe key is already
// present remotely. It returns the number of rows written.
func (e *BigQueryExporter) Export(ctx context.Context, bank domain.Bank, t domain.Table) (int, error) {
	existing, err := e.existingKeys(ctx)
	if err != nil {
		return 0, err
	}

	rows := make([]*TransactionRow, 0, len(t))
	for _, tx := range t {
		key := tx.Key()
		if _, ok := existing[key]; ok {
			continue
		}
		rows = append(rows, &TransactionRow{
			TransactionID: uuid.NewString(),
			Bank:          string(bank),
			BookingDate:   tx.Date,
			Process:       tx.Process,
			Details:       tx.Details,
			LongDetails:   tx.LongDetails,
			Amount:        tx.Amount,
			DedupeKey:     key,
			CreatedTS:     time.Now(),
		})
	}
	if len(rows) == 0 {
		return 0, nil
	}

	inserter := e.client.Dataset(e.dataset).Table(e.table).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return 0, fmt.Errorf("Export: inserting rows: %w", err)
	}
	return len(rows), nil
}

func (e *BigQueryExporter) existingKeys(ctx context.Context) (map[string]struct{}, error) {
	q := e.client.Query(fmt.Sprintf(
		"SELECT DISTINCT dedupe_key FROM `%s.%s`", e.dataset, e.table,
	))

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("existingKeys: running query: %w", err)
	}

	keys := make(map[string]struct{})
	for {
		var row struct {
			DedupeKey string `bigquery:"dedupe_key"`
		}
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("existingKeys: reading row: %w", err)
		}
		keys[row.DedupeKey] = struct{}{}
	}
	return keys, nil
}
