// Package category maps each institution's native process vocabulary onto
// the shared cross-institution category set. Labels missing from a mapping
// pass through verbatim so a new native category surfaces in the data
// instead of disappearing; the normalizer logs each such label once so
// vocabulary drift stays visible.
package category

import (
	"sync"

	"github.com/hannesmoehring/finance-overview/internal/domain"
	"github.com/rs/zerolog"
)

// Shared vocabulary. Every parser output uses these values for Process,
// except where a native label had no mapping and passed through.
const (
	Transfer       = "Transfer"
	CardPayment    = "Card Payment"
	DirectDebit    = "Direct Debit"
	CashWithdrawal = "Cash Withdrawal"
	Buy            = "Buy"
	Sell           = "Sell"
	Interest       = "Interest"
	Fee            = "Fee"
)

var comdirectLabels = map[string]string{
	"Übertrag / Überweisung":  Transfer,
	"Überweisung":             Transfer,
	"Lastschrift":             DirectDebit,
	"Lastschrift / Belastung": DirectDebit,
	"Kartenverfügung":         CardPayment,
	"Auszahlung GAA":          CashWithdrawal,
	"Kontoführungsentgelt":    Fee,
	"Zinsen":                  Interest,
	"Gutschrift":              Transfer,
}

var tradeRepublicLabels = map[string]string{
	"Kauf":              Buy,
	"Verkauf":           Sell,
	"Überweisung":       Transfer,
	"Kartentransaktion": CardPayment,
	"Zinsen":            Interest,
}

// OLB exports carry no process column; every row is booked as a transfer.
var olbLabels = map[string]string{
	"Überweisung": Transfer,
}

var labelsByBank = map[domain.Bank]map[string]string{
	domain.Comdirect:     comdirectLabels,
	domain.TradeRepublic: tradeRepublicLabels,
	domain.OLB:           olbLabels,
}

// Normalizer applies the per-bank label mappings. It is safe for concurrent
// use; the only internal state is the set of unmapped labels already logged.
type Normalizer struct {
	log zerolog.Logger

	mu   sync.Mutex
	seen map[string]struct{}
}

func NewNormalizer(log zerolog.Logger) *Normalizer {
	return &Normalizer{
		log:  log,
		seen: make(map[string]struct{}),
	}
}

// Normalize maps a native process label to the shared vocabulary. Unknown
// labels are returned unchanged, which makes Normalize idempotent: shared
// labels are fixed points of every mapping.
func (n *Normalizer) Normalize(bank domain.Bank, raw string) string {
	if mapped, ok := labelsByBank[bank][raw]; ok {
		return mapped
	}
	if raw != "" {
		n.warnOnce(bank, raw)
	}
	return raw
}

func (n *Normalizer) warnOnce(bank domain.Bank, raw string) {
	key := string(bank) + "\x00" + raw
	n.mu.Lock()
	_, logged := n.seen[key]
	if !logged {
		n.seen[key] = struct{}{}
	}
	n.mu.Unlock()
	if !logged {
		n.log.Warn().
			Str("bank", string(bank)).
			Str("label", raw).
			Msg("process label not in category mapping, passing through")
	}
}
