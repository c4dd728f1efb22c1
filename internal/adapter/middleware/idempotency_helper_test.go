package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func Test_bodyHash(t *testing.T) {
	sum := sha256.Sum256([]byte(`{"amount":"10"}`))
	if got, want := bodyHash([]byte(`{"amount":"10"}`)), hex.EncodeToString(sum[:]); got != want {
		t.Fatalf("bodyHash mismatch: got %s want %s", got, want)
	}
}

func Test_buildKey(t *testing.T) {
	k := buildKey("PATCH", "/expenses/:expense_id", strings.Repeat("b", 32), strings.Repeat("a", 32))
	want := "idemp:ax:patch:/expenses/:expense_id:" + strings.Repeat("b", 32) + ":" + strings.Repeat("a", 32)
	if k != want {
		t.Fatalf("buildKey = %q, want %q", k, want)
	}
}

func Test_validReqID(t *testing.T) {
	cases := map[string]bool{
		strings.Repeat("a", 32):                  true,
		"3f9a6a1b-3d54-4fbe-8b3a-6b3e8d6b2c88":   true,
		"3F9A6A1B-3D54-4FBE-8B3A-6B3E8D6B2C88":   true,
		" 3f9a6a1b3d544fbe8b3a6b3e8d6b2c88 ":     true,
		"":                                       false,
		strings.Repeat("A", 32):                  false, // public ids are lowercase
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c8":        false,
		"zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz":       false,
		"{3f9a6a1b-3d54-4fbe-8b3a-6b3e8d6b2c88}": false,
		"urn:uuid:3f9a6a1b-3d54-4fbe-8b3a-6b3e8d6b2c88": false,
	}
	for in, want := range cases {
		if got := validReqID(in); got != want {
			t.Errorf("validReqID(%q) = %v, want %v", in, got, want)
		}
	}
}

func Test_parseAxRequestAt(t *testing.T) {
	sec := time.Now().UTC().Unix()
	ms := time.Now().UTC().UnixMilli()
	utc3 := time.Date(2025, 9, 5, 3, 0, 0, 0, time.UTC)

	ok := []struct {
		raw  string
		want time.Time
	}{
		{strconv.FormatInt(sec, 10), time.Unix(sec, 0).UTC()},
		{strconv.FormatInt(ms, 10), time.UnixMilli(ms).UTC()},
		{"2025-09-05T10:00:00+07:00", utc3},
		{"2025-09-05T03:00:00Z", utc3},
		{"2025-09-05T03:00:00.000Z", utc3},
	}
	for _, tc := range ok {
		got, err := parseAxRequestAt(tc.raw)
		if err != nil {
			t.Fatalf("parseAxRequestAt(%q): %v", tc.raw, err)
		}
		if !got.Equal(tc.want) || got.Location() != time.UTC {
			t.Fatalf("parseAxRequestAt(%q) = %v, want %v UTC", tc.raw, got, tc.want)
		}
	}

	for _, raw := range []string{"", "not-a-time", "2025-09-05T10:00:00", "1736123456abc"} {
		if _, err := parseAxRequestAt(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func Test_entryStore_Lifecycle(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	s := entryStore{rdb: rdb}
	ctx := context.Background()
	key := buildKey("POST", "/expenses", strings.Repeat("b", 32), strings.Repeat("a", 32))

	pending := idempEntry{InProgress: true, BodySHA256: bodyHash([]byte(`{}`)), RequestID: strings.Repeat("a", 32), CreatedAt: nowUTC()}
	if ok, err := s.reserve(ctx, key, pending); err != nil || !ok {
		t.Fatalf("first reserve: ok=%v err=%v", ok, err)
	}
	if ttl := mr.TTL(key); ttl <= 0 || ttl > provisionalLockTTL {
		t.Fatalf("provisional TTL = %v", ttl)
	}
	if ok, err := s.reserve(ctx, key, pending); err != nil || ok {
		t.Fatalf("second reserve must lose: ok=%v err=%v", ok, err)
	}

	got, err := s.load(ctx, key)
	if err != nil || !got.InProgress || got.BodySHA256 != pending.BodySHA256 {
		t.Fatalf("load pending: %+v err=%v", got, err)
	}

	done := pending
	done.InProgress, done.Code, done.Body = false, 201, []byte(`{"ok":true}`)
	if err := s.complete(ctx, key, done, 5*time.Second); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if ttl := mr.TTL(key); ttl <= 0 || ttl > 5*time.Second {
		t.Fatalf("final TTL = %v", ttl)
	}
	got, err = s.load(ctx, key)
	if err != nil || got.InProgress || got.Code != 201 || string(got.Body) != `{"ok":true}` {
		t.Fatalf("load final: %+v err=%v", got, err)
	}

	if err := s.release(ctx, key); err != nil {
		t.Fatalf("release: %v", err)
	}
	if _, err := s.load(ctx, key); err != redis.Nil {
		t.Fatalf("load after release: want redis.Nil, got %v", err)
	}
}
