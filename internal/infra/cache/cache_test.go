package cache_test

import (
	"testing"
	"time"

	"github.com/araguaina/iptu-portal-bfa/internal/infra/cache"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func TestCache_SetAndGet(t *testing.T) {
	c := cache.New[string]()

	c.SetUntil("key1", "value1", time.Now().Add(5*time.Minute))
	val, ok := c.Get("key1")
	if !ok {
		t.Fatal("expected key to exist")
	}
	if val != "value1" {
		t.Errorf("expected 'value1', got '%s'", val)
	}
}

func TestCache_GetMiss(t *testing.T) {
	c := cache.New[string]()

	_, ok := c.Get("nonexistent")
	if ok {
		t.Fatal("expected cache miss for nonexistent key")
	}
}

func TestCache_Expiration(t *testing.T) {
	clock := newClock()
	c := cache.New[string](cache.WithClock(clock.Now))

	c.SetUntil("key1", "value1", clock.Now().Add(time.Minute))
	clock.Advance(59 * time.Second)
	if _, ok := c.Get("key1"); !ok {
		t.Fatal("expected entry to be valid before its expiry")
	}

	clock.Advance(time.Second)
	if _, ok := c.Get("key1"); ok {
		t.Fatal("expected entry to be expired at its expiry")
	}
}

func TestCache_OverwriteResetsExpiry(t *testing.T) {
	clock := newClock()
	c := cache.New[string](cache.WithClock(clock.Now))

	c.SetUntil("token", "old", clock.Now().Add(10*time.Second))
	c.SetUntil("token", "new", clock.Now().Add(time.Minute))
	clock.Advance(10 * time.Second)

	val, ok := c.Get("token")
	if !ok || val != "new" {
		t.Fatalf("expected last write to win, got %q (ok=%v)", val, ok)
	}
}

func TestCache_NowUsesClock(t *testing.T) {
	clock := newClock()
	c := cache.New[int](cache.WithClock(clock.Now))

	if !c.Now().Equal(clock.Now()) {
		t.Fatalf("expected cache clock %v, got %v", clock.Now(), c.Now())
	}
}

func TestCache_Delete(t *testing.T) {
	c := cache.New[string]()

	c.SetUntil("key1", "value1", time.Now().Add(5*time.Minute))
	c.Delete("key1")

	_, ok := c.Get("key1")
	if ok {
		t.Fatal("expected key to be deleted")
	}
}
