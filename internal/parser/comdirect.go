package parser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hannesmoehring/finance-overview/internal/category"
	"github.com/hannesmoehring/finance-overview/internal/domain"
	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/charmap"
)

const (
	comdirectGlob        = "umsaetze_*.csv"
	comdirectHeaderLines = 6
	comdirectNullMarker  = "--"

	// The export's description column is long enough that the dashboard
	// shows a shortened form; the full text is kept in LongDetails.
	comdirectDetailsLen = 30
)

// Comdirect parses the bank's semicolon-delimited account exports. The files
// are cp1252-encoded, start with six lines of preamble, and carry six
// columns of which the first and last are unused.
type Comdirect struct {
	Dir  string
	Norm *category.Normalizer
	Log  zerolog.Logger
}

func NewComdirect(dir string, norm *category.Normalizer, log zerolog.Logger) *Comdirect {
	return &Comdirect{Dir: dir, Norm: norm, Log: log}
}

func (p *Comdirect) Bank() domain.Bank { return domain.Comdirect }

// ParseAll parses the given files, or every file matching umsaetze_*.csv in
// p.Dir when none are given, and returns the combined, finalized table.
// Zero matching files yield an empty table, not an error.
func (p *Comdirect) ParseAll(paths ...string) (domain.Table, error) {
	if len(paths) == 0 {
		var err error
		paths, err = globFiles(p.Dir, comdirectGlob)
		if err != nil {
			return nil, fmt.Errorf("comdirect: %w", err)
		}
	}

	combined := domain.Table{}
	for _, path := range paths {
		t, err := p.ParseFile(path)
		if err != nil {
			return nil, err
		}
		combined = append(combined, t...)
	}
	return finalize(combined), nil
}

func (p *Comdirect) ParseFile(path string) (domain.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("comdirect: open %q: %w", path, err)
	}
	defer f.Close()

	t, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("comdirect: parse %q: %w", path, err)
	}
	return t, nil
}

// Parse reads one export. Malformed rows are logged and skipped; only I/O
// level failures are returned as errors.
func (p *Comdirect) Parse(r io.Reader) (domain.Table, error) {
	decoded := bufio.NewReader(charmap.Windows1252.NewDecoder().Reader(r))

	for i := 0; i < comdirectHeaderLines; i++ {
		if _, err := decoded.ReadString('\n'); err != nil {
			if err == io.EOF {
				return domain.Table{}, nil
			}
			return nil, fmt.Errorf("skipping header: %w", err)
		}
	}

	cr := csv.NewReader(decoded)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	table := domain.Table{}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			p.Log.Warn().Err(err).Msg("comdirect: skipping malformed line")
			continue
		}
		if isBlankRecord(rec) {
			continue
		}
		if len(rec) < 5 {
			p.Log.Warn().Strs("record", rec).Msg("comdirect: skipping short record")
			continue
		}

		// Layout: unused, booking date, process, description, amount, unused.
		dateRaw := strings.TrimSpace(rec[1])
		if dateRaw == "" || dateRaw == comdirectNullMarker {
			continue
		}
		date, err := ParseDayFirstDate(dateRaw)
		if err != nil {
			p.Log.Warn().Err(err).Strs("record", rec).Msg("comdirect: skipping row with bad date")
			continue
		}

		process := fixEncodingArtifacts(strings.TrimSpace(rec[2]))
		if process == "" || process == comdirectNullMarker {
			continue
		}

		amountRaw := strings.TrimSpace(rec[4])
		if amountRaw == "" || amountRaw == comdirectNullMarker {
			continue
		}
		amount, err := ParseAmount(amountRaw)
		if err != nil {
			p.Log.Warn().Err(err).Strs("record", rec).Msg("comdirect: skipping row with bad amount")
			continue
		}

		text := strings.TrimSpace(rec[3])

		table = append(table, domain.Transaction{
			Date:        date,
			Process:     p.Norm.Normalize(domain.Comdirect, process),
			Details:     truncateRunes(text, comdirectDetailsLen),
			LongDetails: text,
			Amount:      amount,
		})
	}
	return table, nil
}

func isBlankRecord(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
