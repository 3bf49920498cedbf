package parser

import (
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

const olbGlob = "umsatz*.csv"

// OLB parses the bank's semicolon-delimited exports. Unlike comdirect the
// file carries a proper header row, so columns are resolved by name; the
// encoding is ISO 8859-1. Every row is booked as a transfer.
type OLB struct {
	Dir  string
	Norm *category.Normalizer
	Log  zerolog.Logger
}

func NewOLB(dir string, norm *category.Normalizer, log zerolog.Logger) *OLB {
	return &OLB{Dir: dir, Norm: norm, Log: log}
}

func (p *OLB) Bank() domain.Bank { return domain.OLB }

func (p *OLB) ParseAll(paths ...string) (domain.Table, error) {
	if len(paths) == 0 {
		var err error
		paths, err = globFiles(p.Dir, olbGlob)
		if err != nil {
			return nil, fmt.Errorf("olb: %w", err)
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

func (p *OLB) ParseFile(path string) (domain.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("olb: open %q: %w", path, err)
	}
	defer f.Close()

	t, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("olb: parse %q: %w", path, err)
	}
	return t, nil
}

func (p *OLB) Parse(r io.Reader) (domain.Table, error) {
	cr := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(r))
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return domain.Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	cols := headerMap(header)

	dateIdx, ok := cols["buchungstag"]
	if !ok {
		return nil, fmt.Errorf("header has no Buchungstag column: %v", header)
	}
	nameIdx, ok := cols["name zahlungsbeteiligter"]
	if !ok {
		return nil, fmt.Errorf("header has no Name Zahlungsbeteiligter column: %v", header)
	}
	amountIdx, ok := cols["betrag"]
	if !ok {
		return nil, fmt.Errorf("header has no Betrag column: %v", header)
	}

	table := domain.Table{}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			p.Log.Warn().Err(err).Msg("olb: skipping malformed line")
			continue
		}
		if isBlankRecord(rec) {
			continue
		}
		if len(rec) <= dateIdx || len(rec) <= nameIdx || len(rec) <= amountIdx {
			p.Log.Warn().Strs("record", rec).Msg("olb: skipping short record")
			continue
		}

		date, err := ParseDayFirstDate(rec[dateIdx])
		if err != nil {
			p.Log.Warn().Err(err).Strs("record", rec).Msg("olb: skipping row with bad date")
			continue
		}
		amount, err := ParseAmount(rec[amountIdx])
		if err != nil {
			p.Log.Warn().Err(err).Strs("record", rec).Msg("olb: skipping row with bad amount")
			continue
		}

		table = append(table, domain.Transaction{
			Date:    date,
			Process: category.Transfer,
			Details: fixEncodingArtifacts(strings.TrimSpace(rec[nameIdx])),
			Amount:  amount,
		})
	}
	return table, nil
}

// headerMap indexes header names lower-cased so column lookup tolerates
// casing differences between export versions.
func headerMap(record []string) map[string]int {
	m := make(map[string]int)
	for i, r := range record {
		m[strings.ToLower(strings.TrimSpace(r))] = i
	}
	return m
}
