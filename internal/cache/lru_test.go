package cache

import (
	"context"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func newTestCache(size int, ttl time.Duration) (*LRUCache[string], *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}
	c := NewLRUCache[string](size, ttl)
	c.now = clock.now
	return c, clock
}

func TestLRUEviction(t *testing.T) {
	c, _ := newTestCache(3, time.Hour)

	c.Set("key1", "value1")
	c.Set("key2", "value2")
	c.Set("key3", "value3")
	c.Get("key1") // key2 becomes least recently used
	c.Set("key4", "value4")

	if _, found := c.Get("key2"); found {
		t.Error("key2 should have been evicted")
	}
	for _, k := range []string{"key1", "key3", "key4"} {
		if _, found := c.Get(k); !found {
			t.Errorf("%s should still be cached", k)
		}
	}
	if c.Size() != 3 {
		t.Errorf("Size() = %d, want 3", c.Size())
	}
}

func TestLRUExpiry(t *testing.T) {
	c, clock := newTestCache(10, time.Minute)
	c.Set("monthly:2024-06", "report")
	c.Set("daily:2024-06-01", "summary")

	clock.t = clock.t.Add(30 * time.Second)
	if v, found := c.Get("monthly:2024-06"); !found || v != "report" {
		t.Fatalf("entry should be live, got %q %v", v, found)
	}

	clock.t = clock.t.Add(2 * time.Minute)
	if _, found := c.Get("monthly:2024-06"); found {
		t.Error("expired entry should be missing")
	}
	if removed := c.CleanExpired(); removed != 1 {
		t.Errorf("CleanExpired() = %d, want 1", removed)
	}
	if c.Size() != 0 {
		t.Errorf("Size() = %d after cleaning", c.Size())
	}
}

func TestLRUOverwriteDeletePurge(t *testing.T) {
	c, _ := newTestCache(2, time.Hour)
	c.Set("a", "1")
	c.Set("a", "2")
	if v, _ := c.Get("a"); v != "2" || c.Size() != 1 {
		t.Fatalf("overwrite failed: %q size %d", v, c.Size())
	}

	c.Delete("a")
	c.Delete("missing")
	if _, found := c.Get("a"); found {
		t.Error("deleted key should be missing")
	}

	c.Set("b", "1")
	c.Set("c", "1")
	c.Purge()
	if c.Size() != 0 {
		t.Errorf("Purge left %d entries", c.Size())
	}
	c.Set("d", "1")
	if _, found := c.Get("d"); !found {
		t.Error("cache should be usable after Purge")
	}
}

func TestJanitorStopsOnCancel(t *testing.T) {
	c, clock := newTestCache(10, time.Millisecond)
	c.Set("x", "1")
	clock.t = clock.t.Add(time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	j := NewJanitor(c)
	sweeps := make(chan int, 16)
	go j.Run(ctx, time.Millisecond, func(n int) {
		select {
		case sweeps <- n:
		default:
		}
	})

	select {
	case n := <-sweeps:
		if n != 1 {
			t.Errorf("first sweep removed %d, want 1", n)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("janitor never swept")
	}

	cancel()
	select {
	case <-j.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("janitor did not stop")
	}
}
