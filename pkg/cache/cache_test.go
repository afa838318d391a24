package cache

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCache(max int) (*Cache, *fakeClock) {
	clk := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	c := New(max, 0)
	c.now = clk.Now
	return c, clk
}

func TestSetGetAndExpire(t *testing.T) {
	c, clk := newTestCache(0)

	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected no value initially")
	}

	c.Set("k", "hello", 50*time.Millisecond)
	if v, ok := c.Get("k"); !ok || v.(string) != "hello" {
		t.Fatalf("expected value 'hello', got %v ok=%v", v, ok)
	}

	clk.Advance(80 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected expired value to be gone")
	}
	if c.Len() != 0 {
		t.Fatalf("expected lazy delete to drop the entry, len=%d", c.Len())
	}
}

func TestDelete(t *testing.T) {
	c, _ := newTestCache(0)
	c.Set("k", 42, time.Second)
	if v, ok := c.Get("k"); !ok || v.(int) != 42 {
		t.Fatalf("expected 42 present before delete, got %v ok=%v", v, ok)
	}
	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected deleted value to be absent")
	}
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache(2)
	c.Set("a", 1, 0)
	c.Set("b", 2, 0)
	c.Get("a") // a becomes MRU
	c.Set("c", 3, 0)

	if _, ok := c.Get("b"); ok {
		t.Fatalf("expected b to be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("expected a to survive")
	}
	if _, ok := c.Get("c"); !ok {
		t.Fatalf("expected c to be present")
	}
}

func TestGetOrSetCreatesOnceAndSlides(t *testing.T) {
	c, clk := newTestCache(0)
	calls := 0
	create := func() any { calls++; return calls }

	if v := c.GetOrSet("k", time.Minute, create); v.(int) != 1 {
		t.Fatalf("expected first value 1, got %v", v)
	}
	clk.Advance(50 * time.Second)
	if v := c.GetOrSet("k", time.Minute, create); v.(int) != 1 {
		t.Fatalf("expected cached value 1, got %v", v)
	}
	// the hit above pushed expiry out another minute
	clk.Advance(50 * time.Second)
	if v := c.GetOrSet("k", time.Minute, create); v.(int) != 1 {
		t.Fatalf("expected sliding ttl to keep value, got %v", v)
	}
	clk.Advance(2 * time.Minute)
	if v := c.GetOrSet("k", time.Minute, create); v.(int) != 2 {
		t.Fatalf("expected recreated value 2, got %v", v)
	}
}

func TestPurgeExpired(t *testing.T) {
	c, clk := newTestCache(0)
	c.Set("short", 1, time.Second)
	c.Set("forever", 2, 0)
	clk.Advance(2 * time.Second)

	c.purgeExpired()
	if c.Len() != 1 {
		t.Fatalf("expected only the non-expiring entry to remain, len=%d", c.Len())
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	c := New(0, 10*time.Millisecond)
	c.Close()
	c.Close()
}
