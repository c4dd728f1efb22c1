package currency

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RateCache serves rate tables and country currencies from a Store, falling
// back to the Source on a miss or an expired entry. Concurrent misses for the
// same key may each hit the Source.
type RateCache struct {
	source Source
	store  Store
	ttl    time.Duration
	now    func() time.Time
	log    *zap.Logger
}

type Option func(*RateCache)

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option { return func(c *RateCache) { c.now = now } }

func NewRateCache(source Source, store Store, ttl time.Duration, log *zap.Logger, opts ...Option) *RateCache {
	if log == nil {
		log = zap.NewNop()
	}
	if store == nil {
		store = NewMemoryStore()
	}
	c := &RateCache{source: source, store: store, ttl: ttl, now: time.Now, log: log}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Rates returns the table for base (case-insensitive).
func (c *RateCache) Rates(ctx context.Context, base string) (*RateTable, error) {
	base = strings.ToUpper(base)

	cached, err := c.store.LoadRates(ctx, base)
	if err != nil {
		c.log.Warn("rate cache load failed", zap.String("base", base), zap.Error(err))
	}
	if cached != nil && c.now().Before(cached.ExpiresAt) {
		return cached, nil
	}

	c.log.Debug("rate cache miss", zap.String("base", base))
	rates, err := c.source.LatestRates(ctx, base)
	if err != nil {
		c.log.Warn("rate source failed", zap.String("base", base), zap.Error(err))
		return nil, err
	}
	table := &RateTable{Base: base, Rates: normalise(rates), ExpiresAt: c.now().Add(c.ttl)}
	if err := c.store.SaveRates(ctx, table); err != nil {
		c.log.Warn("rate cache save failed", zap.String("base", base), zap.Error(err))
	}
	return table, nil
}

// CountryCurrency resolves an ISO 3166 alpha-2 code to its home currency.
func (c *RateCache) CountryCurrency(ctx context.Context, countryCode string) (string, error) {
	countryCode = strings.ToUpper(strings.TrimSpace(countryCode))

	cached, err := c.store.LoadCountry(ctx, countryCode)
	if err != nil {
		c.log.Warn("country cache load failed", zap.String("country", countryCode), zap.Error(err))
	}
	if cached != nil && c.now().Before(cached.ExpiresAt) {
		return cached.CurrencyCode, nil
	}

	c.log.Debug("country cache miss", zap.String("country", countryCode))
	all, err := c.source.CountryCurrencies(ctx)
	if err != nil {
		c.log.Warn("country source failed", zap.String("country", countryCode), zap.Error(err))
		return "", err
	}
	code, ok := all[countryCode]
	if !ok || code == "" {
		return "", fmt.Errorf("%w %s", ErrNoCountryCurrency, countryCode)
	}
	entry := &CountryEntry{CountryCode: countryCode, CurrencyCode: code, ExpiresAt: c.now().Add(c.ttl)}
	if err := c.store.SaveCountry(ctx, entry); err != nil {
		c.log.Warn("country cache save failed", zap.String("country", countryCode), zap.Error(err))
	}
	return code, nil
}

func normalise(rates map[string]decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(rates))
	for code, r := range rates {
		out[strings.ToUpper(code)] = r
	}
	return out
}
