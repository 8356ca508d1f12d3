package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestEngine(t *testing.T) *BadgerEngine {
	t.Helper()
	cfg := DefaultKVConfig("")
	cfg.InMemory = true

	engine, err := NewBadgerEngine(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { engine.Close() })
	return engine
}

func TestBadgerEngine_BasicOperations(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	t.Run("Set and Get", func(t *testing.T) {
		if err := engine.Set(ctx, []byte("test-key"), []byte("test-value")); err != nil {
			t.Fatal(err)
		}

		got, err := engine.Get(ctx, []byte("test-key"))
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != "test-value" {
			t.Errorf("expected test-value, got %s", got)
		}
	})

	t.Run("Get non-existent key", func(t *testing.T) {
		_, err := engine.Get(ctx, []byte("non-existent"))
		if !errors.Is(err, ErrKeyNotFound) {
			t.Errorf("expected ErrKeyNotFound, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		key := []byte("delete-key")
		if err := engine.Set(ctx, key, []byte("v")); err != nil {
			t.Fatal(err)
		}
		if err := engine.Delete(ctx, key); err != nil {
			t.Fatal(err)
		}
		if _, err := engine.Get(ctx, key); !errors.Is(err, ErrKeyNotFound) {
			t.Errorf("expected ErrKeyNotFound after delete, got %v", err)
		}
	})
}

func TestBadgerEngine_Apply(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	if err := engine.Set(ctx, []byte("a"), []byte("old")); err != nil {
		t.Fatal(err)
	}

	err := engine.Apply(ctx, []Op{
		DeleteOp([]byte("a")),
		SetOp([]byte("b"), []byte("1")),
		SetOp([]byte("c"), []byte("2")),
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := engine.Get(ctx, []byte("a")); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("a survived the batch: %v", err)
	}
	for key, want := range map[string]string{"b": "1", "c": "2"} {
		got, err := engine.Get(ctx, []byte(key))
		if err != nil || string(got) != want {
			t.Errorf("Get(%s) = %q, %v; want %q", key, got, err, want)
		}
	}

	t.Run("cancelled context applies nothing", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := engine.Apply(cctx, []Op{SetOp([]byte("d"), []byte("x"))})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Apply() error = %v, want context.Canceled", err)
		}
		if _, err := engine.Get(ctx, []byte("d")); !errors.Is(err, ErrKeyNotFound) {
			t.Errorf("d written despite failed batch: %v", err)
		}
	})

	t.Run("empty batch", func(t *testing.T) {
		if err := engine.Apply(ctx, nil); err != nil {
			t.Errorf("Apply(nil) error = %v", err)
		}
	})
}

func TestBadgerEngine_Scan(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_ = engine.Set(ctx, []byte(fmt.Sprintf("a/%d", i)), []byte{byte(i)})
	}
	_ = engine.Set(ctx, []byte("b/0"), []byte("other"))

	var keys []string
	err := engine.Scan(ctx, []byte("a/"), func(key, value []byte) bool {
		keys = append(keys, string(key))
		return true
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 5 || keys[0] != "a/0" || keys[4] != "a/4" {
		t.Errorf("Scan(a/) keys = %v", keys)
	}

	count := 0
	_ = engine.Scan(ctx, []byte("a/"), func(key, value []byte) bool {
		count++
		return count < 2
	})
	if count != 2 {
		t.Errorf("early stop visited %d keys, want 2", count)
	}
}

func TestBadgerEngine_Persistence(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")
	ctx := context.Background()

	engine, err := NewBadgerEngine(DefaultKVConfig(dir), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := engine.Set(ctx, []byte("k"), []byte("v")); err != nil {
		t.Fatal(err)
	}
	if _, err := engine.GC(ctx); err != nil {
		t.Errorf("GC() error = %v", err)
	}
	if err := engine.Close(); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o700 {
		t.Errorf("store dir mode = %o, want 700", perm)
	}

	reopened, err := NewBadgerEngine(DefaultKVConfig(dir), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, []byte("k"))
	if err != nil || string(got) != "v" {
		t.Errorf("Get after reopen = %q, %v", got, err)
	}
}

func TestBadgerEngine_Closed(t *testing.T) {
	engine := newTestEngine(t)
	if err := engine.Close(); err != nil {
		t.Fatal(err)
	}
	if err := engine.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	ctx := context.Background()
	if _, err := engine.Get(ctx, []byte("k")); !errors.Is(err, ErrClosed) {
		t.Errorf("Get after close = %v, want ErrClosed", err)
	}
	if err := engine.Set(ctx, []byte("k"), nil); !errors.Is(err, ErrClosed) {
		t.Errorf("Set after close = %v, want ErrClosed", err)
	}
}

func TestBadgerEngine_RequiresDir(t *testing.T) {
	if _, err := NewBadgerEngine(KVConfig{}, nil); err == nil {
		t.Error("NewBadgerEngine without dir should fail")
	}
}

func TestBadgerEngine_RegisterMetrics(t *testing.T) {
	engine := newTestEngine(t)
	reg := prometheus.NewRegistry()

	if err := engine.RegisterMetrics(reg); err != nil {
		t.Fatal(err)
	}
	if n, err := testutil.GatherAndCount(reg); err != nil || n != 2 {
		t.Errorf("GatherAndCount() = %d, %v; want 2 series", n, err)
	}
	if err := engine.RegisterMetrics(reg); err == nil {
		t.Error("registering twice should fail")
	}
}
