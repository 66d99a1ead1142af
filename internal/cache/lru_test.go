package cache

import (
	"fmt"
	"testing"
	"time"
)

func TestLRUSetGet(t *testing.T) {
	c := NewLRU[string]("test", 4, time.Minute)

	c.Set("a", "alpha")
	got, ok := c.Get("a")
	if !ok {
		t.Fatal("expected hit for key a")
	}
	if got != "alpha" {
		t.Errorf("got %q, want %q", got, "alpha")
	}

	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestLRUEviction(t *testing.T) {
	c := NewLRU[int]("test", 3, time.Minute)

	for i := 0; i < 3; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}

	// Touch k0 so k1 becomes the oldest.
	if _, ok := c.Get("k0"); !ok {
		t.Fatal("expected hit for k0")
	}

	c.Set("k3", 3)

	if _, ok := c.Get("k1"); ok {
		t.Error("k1 should have been evicted")
	}
	for _, key := range []string{"k0", "k2", "k3"} {
		if _, ok := c.Get(key); !ok {
			t.Errorf("%s should still be cached", key)
		}
	}
	if got := c.Size(); got != 3 {
		t.Errorf("size = %d, want 3", got)
	}
}

func TestLRUExpiration(t *testing.T) {
	c := NewLRU[string]("test", 4, 10*time.Millisecond)

	c.Set("a", "alpha")
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Error("expected expired entry to miss")
	}
	if got := c.Size(); got != 0 {
		t.Errorf("size after expired get = %d, want 0", got)
	}
}

func TestLRUOverwrite(t *testing.T) {
	c := NewLRU[string]("test", 2, time.Minute)

	c.Set("a", "first")
	c.Set("a", "second")

	got, ok := c.Get("a")
	if !ok {
		t.Fatal("expected hit")
	}
	if got != "second" {
		t.Errorf("got %q, want %q", got, "second")
	}
	if c.Size() != 1 {
		t.Errorf("size = %d, want 1", c.Size())
	}
}

func TestLRUDelete(t *testing.T) {
	c := NewLRU[string]("test", 2, time.Minute)

	c.Set("a", "alpha")
	c.Delete("a")
	c.Delete("never-set")

	if _, ok := c.Get("a"); ok {
		t.Error("deleted key should miss")
	}
}

func TestLRUCleanExpired(t *testing.T) {
	c := NewLRU[int]("test", 8, 10*time.Millisecond)

	c.Set("a", 1)
	c.Set("b", 2)
	time.Sleep(20 * time.Millisecond)
	c.Set("c", 3)

	if got := c.CleanExpired(); got != 2 {
		t.Errorf("cleaned = %d, want 2", got)
	}
	if got := c.Size(); got != 1 {
		t.Errorf("size = %d, want 1", got)
	}
}
