package cache

import (
	"context"
	"testing"
	"time"
)

func TestFileCache_RoundTrip(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	key := SizeKey("nav_core", "abc123")

	if _, ok, _ := c.Get(ctx, key); ok {
		t.Fatal("Get on empty cache reported a hit")
	}

	if err := c.Set(ctx, key, []byte("4096"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}

	data, ok, err := c.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("Get reported a miss after Set")
	}
	if string(data) != "4096" {
		t.Errorf("Get = %q, want %q", data, "4096")
	}
}

func TestFileCache_Expiration(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	ctx := context.Background()
	if err := c.Set(ctx, "expiring", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, ok, _ := c.Get(ctx, "expiring"); ok {
		t.Error("expired entry reported as hit")
	}

	// Zero TTL means the entry never expires.
	if err := c.Set(ctx, "forever", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "forever"); !ok {
		t.Error("entry without TTL reported as miss")
	}
}

func TestFileCache_Delete(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	ctx := context.Background()
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("Get after Delete reported a hit")
	}

	// Deleting a missing key is fine.
	if err := c.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete(missing) = %v, want nil", err)
	}
}

func TestNullCache(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("NullCache reported a hit")
	}
}

func TestSizeKey_Distinct(t *testing.T) {
	a := SizeKey("pkg", "hash1")
	b := SizeKey("pkg", "hash2")
	if a == b {
		t.Error("different manifest hashes produced the same key")
	}
	if a != SizeKey("pkg", "hash1") {
		t.Error("SizeKey is not stable")
	}
}

func TestHash_Stable(t *testing.T) {
	if Hash([]byte("x")) != Hash([]byte("x")) {
		t.Error("Hash is not stable")
	}
	if len(Hash([]byte("x"))) != 64 {
		t.Errorf("Hash length = %d, want 64", len(Hash([]byte("x"))))
	}
}
