package currency

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// RateTable is a TTL-stamped snapshot of rates for one base currency.
type RateTable struct {
	Base      string                     `json:"base"`
	Rates     map[string]decimal.Decimal `json:"rates"`
	ExpiresAt time.Time                  `json:"expires_at"`
}

// Rate looks up code case-insensitively.
func (t *RateTable) Rate(code string) (decimal.Decimal, bool) {
	r, ok := t.Rates[strings.ToUpper(code)]
	return r, ok
}

type CountryEntry struct {
	CountryCode  string    `json:"country_code"`
	CurrencyCode string    `json:"currency_code"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Store holds cache entries. Load returns (nil, nil) on a miss; expiry is
// checked by the RateCache, so a store may return stale entries.
// Saved values are treated as immutable by callers.
type Store interface {
	LoadRates(ctx context.Context, base string) (*RateTable, error)
	SaveRates(ctx context.Context, t *RateTable) error
	LoadCountry(ctx context.Context, countryCode string) (*CountryEntry, error)
	SaveCountry(ctx context.Context, e *CountryEntry) error
}

// MemoryStore is a process-local Store. Concurrent saves of the same key are last-writer-wins.
type MemoryStore struct {
	mu        sync.RWMutex
	rates     map[string]*RateTable
	countries map[string]*CountryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rates:     make(map[string]*RateTable),
		countries: make(map[string]*CountryEntry),
	}
}

func (m *MemoryStore) LoadRates(_ context.Context, base string) (*RateTable, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rates[base], nil
}

func (m *MemoryStore) SaveRates(_ context.Context, t *RateTable) error {
	m.mu.Lock()
	m.rates[t.Base] = t
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) LoadCountry(_ context.Context, countryCode string) (*CountryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.countries[countryCode], nil
}

func (m *MemoryStore) SaveCountry(_ context.Context, e *CountryEntry) error {
	m.mu.Lock()
	m.countries[e.CountryCode] = e
	m.mu.Unlock()
	return nil
}
