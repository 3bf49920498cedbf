// Package memo provides a keyed in-memory store for parsed tables. The
// dashboard layer injects one so repeated reads of an unchanged file set do
// not re-parse; the core never touches it implicitly.
package memo

import (
	"sort"
	"strings"
	"sync"

	"github.com/hannesmoehring/finance-overview/internal/domain"
)

// Store caches tables by logical key. It is safe for concurrent use and
// hands out copies, so cached tables cannot be mutated from outside.
// Contents are lost on process restart.
type Store struct {
	mu     sync.RWMutex
	tables map[string]domain.Table
}

func NewStore() *Store {
	return &Store{tables: make(map[string]domain.Table)}
}

// Key builds the logical cache key for a parse result: the bank tag plus
// the sorted input file set. A changed file list changes the key.
func Key(bank domain.Bank, paths []string) string {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)
	return string(bank) + "\x00" + strings.Join(sorted, "\x00")
}

func (s *Store) Get(key string) (domain.Table, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tables[key]
	if !ok {
		return nil, false
	}
	out := make(domain.Table, len(t))
	copy(out, t)
	return out, true
}

func (s *Store) Put(key string, t domain.Table) {
	cp := make(domain.Table, len(t))
	copy(cp, t)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[key] = cp
}

func (s *Store) Invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tables, key)
}
