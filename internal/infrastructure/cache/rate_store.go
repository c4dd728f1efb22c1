package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"expense-workflow/internal/currency"

	"github.com/redis/go-redis/v9"
)

const (
	rateKeyPrefix    = "fx:rates:"
	countryKeyPrefix = "fx:country:"
)

// RedisRateStore shares rate snapshots between replicas. Keys expire
// server-side at the entry's ExpiresAt.
type RedisRateStore struct {
	rdb *redis.Client
	now func() time.Time
}

func NewRedisRateStore(rdb *redis.Client) *RedisRateStore {
	return &RedisRateStore{rdb: rdb, now: time.Now}
}

func (s *RedisRateStore) LoadRates(ctx context.Context, base string) (*currency.RateTable, error) {
	var t currency.RateTable
	ok, err := s.load(ctx, rateKeyPrefix+base, &t)
	if !ok || err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *RedisRateStore) SaveRates(ctx context.Context, t *currency.RateTable) error {
	return s.save(ctx, rateKeyPrefix+t.Base, t, t.ExpiresAt)
}

func (s *RedisRateStore) LoadCountry(ctx context.Context, countryCode string) (*currency.CountryEntry, error) {
	var e currency.CountryEntry
	ok, err := s.load(ctx, countryKeyPrefix+countryCode, &e)
	if !ok || err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *RedisRateStore) SaveCountry(ctx context.Context, e *currency.CountryEntry) error {
	return s.save(ctx, countryKeyPrefix+e.CountryCode, e, e.ExpiresAt)
}

func (s *RedisRateStore) load(ctx context.Context, key string, v any) (bool, error) {
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, err
	}
	return true, nil
}

func (s *RedisRateStore) save(ctx context.Context, key string, v any, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, raw, ttl).Err()
}
