package repository

import (
	"context"
	"sync"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStoreRepository()
	ctx := context.Background()

	if _, found, err := store.Get(ctx, "missing"); err != nil || found {
		t.Fatalf("missing key: found=%v err=%v", found, err)
	}

	if err := store.Set(ctx, "k", "v1"); err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, "k", "v2"); err != nil {
		t.Fatal(err)
	}

	value, found, err := store.Get(ctx, "k")
	if err != nil || !found || value != "v2" {
		t.Fatalf("got %q found=%v err=%v, want v2", value, found, err)
	}
}

func TestMemoryStoreRemove(t *testing.T) {
	store := NewMemoryStoreRepository()
	ctx := context.Background()

	store.Set(ctx, "a", "1")
	store.Set(ctx, "b", "2")

	if err := store.Remove(ctx, "a", "b", "absent"); err != nil {
		t.Fatalf("Remove with absent key: %v", err)
	}
	if _, found, _ := store.Get(ctx, "a"); found {
		t.Error("a should be gone")
	}
	if _, found, _ := store.Get(ctx, "b"); found {
		t.Error("b should be gone")
	}
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	store := NewMemoryStoreRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				store.Set(ctx, "shared", "value")
				store.Get(ctx, "shared")
			}
		}()
	}
	wg.Wait()

	if value, found, _ := store.Get(ctx, "shared"); !found || value != "value" {
		t.Fatalf("got %q found=%v", value, found)
	}
}
