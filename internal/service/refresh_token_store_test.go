package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestMemoryRefreshTokenStore(t *testing.T) {
	store := NewMemoryRefreshTokenStore()

	if err := store.Store("jti-1", "u1", time.Minute); err != nil {
		t.Fatalf("store: %v", err)
	}
	ok, err := store.Exists("jti-1")
	if err != nil || !ok {
		t.Fatalf("expected stored jti, got ok=%v err=%v", ok, err)
	}

	if err := store.Revoke("jti-1"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	ok, err = store.Exists("jti-1")
	if err != nil || ok {
		t.Fatalf("expected revoked jti, got ok=%v err=%v", ok, err)
	}
}

func TestMemoryRefreshTokenStore_Expiry(t *testing.T) {
	store := NewMemoryRefreshTokenStore()

	if err := store.Store("jti-ttl", "u1", 5*time.Millisecond); err != nil {
		t.Fatalf("store: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	ok, err := store.Exists("jti-ttl")
	if err != nil || ok {
		t.Fatalf("expected expired jti, got ok=%v err=%v", ok, err)
	}
}

func TestMemoryRefreshTokenStore_IgnoresBlankJTI(t *testing.T) {
	store := NewMemoryRefreshTokenStore()

	if err := store.Store("  ", "u1", time.Minute); err != nil {
		t.Fatalf("store: %v", err)
	}
	ok, err := store.Exists("  ")
	if err != nil || ok {
		t.Fatalf("blank jti should never exist, got ok=%v err=%v", ok, err)
	}
}

type fakeTokenKV struct {
	items map[string]string
	err   error
}

func newFakeTokenKV() *fakeTokenKV {
	return &fakeTokenKV{items: make(map[string]string)}
}

func (f *fakeTokenKV) Set(ctx context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	f.items[key] = fmt.Sprint(value)
	cmd.SetVal("OK")
	return cmd
}

func (f *fakeTokenKV) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	var n int64
	for _, key := range keys {
		if _, ok := f.items[key]; ok {
			n++
		}
	}
	cmd.SetVal(n)
	return cmd
}

func (f *fakeTokenKV) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	var n int64
	for _, key := range keys {
		if _, ok := f.items[key]; ok {
			delete(f.items, key)
			n++
		}
	}
	cmd.SetVal(n)
	return cmd
}

func TestRedisRefreshTokenStore_RoundTrip(t *testing.T) {
	kv := newFakeTokenKV()
	store := &redisRefreshTokenStore{kv: kv}

	if err := store.Store("jti-1", "u1", time.Minute); err != nil {
		t.Fatalf("store: %v", err)
	}
	if _, ok := kv.items[refreshKeyPrefix+"jti-1"]; !ok {
		t.Fatalf("expected prefixed key, got %v", kv.items)
	}
	ok, err := store.Exists("jti-1")
	if err != nil || !ok {
		t.Fatalf("expected stored jti, got ok=%v err=%v", ok, err)
	}

	if err := store.Revoke("jti-1"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	ok, err = store.Exists("jti-1")
	if err != nil || ok {
		t.Fatalf("expected revoked jti, got ok=%v err=%v", ok, err)
	}
}

func TestRedisRefreshTokenStore_PropagatesErrors(t *testing.T) {
	kv := newFakeTokenKV()
	kv.err = errors.New("connection refused")
	store := &redisRefreshTokenStore{kv: kv}

	if err := store.Store("jti-1", "u1", time.Minute); !errors.Is(err, kv.err) {
		t.Fatalf("store: expected kv error, got %v", err)
	}
	if _, err := store.Exists("jti-1"); !errors.Is(err, kv.err) {
		t.Fatalf("exists: expected kv error, got %v", err)
	}
	if err := store.Revoke("jti-1"); !errors.Is(err, kv.err) {
		t.Fatalf("revoke: expected kv error, got %v", err)
	}
}

func TestRedisRefreshTokenStore_IgnoresBlankJTI(t *testing.T) {
	kv := newFakeTokenKV()
	kv.err = errors.New("must not be called")
	store := &redisRefreshTokenStore{kv: kv}

	// Un jti en blanco nunca llega al kv.
	if err := store.Store("  ", "u1", time.Minute); err != nil {
		t.Fatalf("store: %v", err)
	}
	ok, err := store.Exists("  ")
	if err != nil || ok {
		t.Fatalf("blank jti should never exist, got ok=%v err=%v", ok, err)
	}
	if err := store.Revoke(""); err != nil {
		t.Fatalf("revoke: %v", err)
	}
}
