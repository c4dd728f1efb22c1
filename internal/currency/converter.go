package currency

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RateProvider yields the rate table for a base currency.
type RateProvider interface {
	Rates(ctx context.Context, base string) (*RateTable, error)
}

type Converter struct{ rates RateProvider }

func NewConverter(rates RateProvider) *Converter { return &Converter{rates: rates} }

// Convert returns amount expressed in to, and the rate applied.
// Same-currency pairs (case-insensitive) return (amount, 1) without touching the cache.
func (c *Converter) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, decimal.Decimal, error) {
	if strings.EqualFold(from, to) {
		return amount, decimal.NewFromInt(1), nil
	}
	table, err := c.rates.Rates(ctx, from)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	rate, ok := table.Rate(to)
	if !ok {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: %s to %s", ErrRateUnavailable, strings.ToUpper(from), strings.ToUpper(to))
	}
	return amount.Mul(rate), rate, nil
}
