package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"expense-workflow/pkg/id"

	"github.com/redis/go-redis/v9"
)

func bodyHash(b []byte) string { s := sha256.Sum256(b); return hex.EncodeToString(s[:]) }

func nowUTC() time.Time { return time.Now().UTC() }

// buildKey: idemp:ax:<method>:<route template>:<user id>:<request id>
func buildKey(method, route, userID, requestID string) string {
	return fmt.Sprintf("idemp:ax:%s:%s:%s:%s", strings.ToLower(method), route, userID, requestID)
}

func validReqID(v string) bool { return id.ValidRequestID(strings.TrimSpace(v)) }

var errRequestAt = errors.New(HeaderRequestAt + " must be epoch (s/ms) or RFC3339 with timezone")

// parseAxRequestAt accepts epoch seconds, epoch milliseconds, or RFC3339(Nano)
// carrying a zone. Values above 1e12 are read as milliseconds.
func parseAxRequestAt(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("missing " + HeaderRequestAt)
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n > 1e12 {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, errRequestAt
	}
	return t.UTC(), nil
}

// entryStore keeps idempotency entries in Redis as JSON.
type entryStore struct{ rdb *redis.Client }

// reserve writes a provisional entry unless key already exists.
func (s entryStore) reserve(ctx context.Context, key string, e idempEntry) (bool, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return false, err
	}
	return s.rdb.SetNX(ctx, key, payload, provisionalLockTTL).Result()
}

func (s entryStore) load(ctx context.Context, key string) (idempEntry, error) {
	var e idempEntry
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return e, err
	}
	return e, json.Unmarshal(raw, &e)
}

func (s entryStore) complete(ctx context.Context, key string, e idempEntry, ttl time.Duration) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, payload, ttl).Err()
}

func (s entryStore) release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
