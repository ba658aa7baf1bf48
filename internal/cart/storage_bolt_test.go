package cart_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/avignatattva/storefront/internal/cart"
	"github.com/avignatattva/storefront/internal/domain"
)

func TestBoltStorage_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	file := filepath.Join(t.TempDir(), "carts.db")

	storage, err := cart.OpenBoltStorage(file)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s := cart.NewStore("c1", storage)
	s.AddToCart(oil, oil.Variations[1], domain.ItemTypeProduct, 2)
	s.AddToCart(abhyanga, abhyanga.Variations[0], domain.ItemTypeService, 1)
	if err := storage.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	storage, err = cart.OpenBoltStorage(file)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer storage.Close()

	reg, _ := cart.NewRegistry(storage, 2)
	restored, ok := reg.Get(ctx, "c1")
	if !ok {
		t.Fatalf("cart not restored")
	}
	if restored.TotalQuantity() != 3 || restored.TotalPrice().String() != "200.5" {
		t.Fatalf("unexpected totals %d / %s", restored.TotalQuantity(), restored.TotalPrice())
	}
	if _, err := storage.Load(ctx, "nope"); err != cart.ErrCartNotFound {
		t.Fatalf("expected ErrCartNotFound, got %v", err)
	}
}

func TestBoltStorage_Purge(t *testing.T) {
	ctx := context.Background()
	storage, err := cart.OpenBoltStorage(filepath.Join(t.TempDir(), "carts.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer storage.Close()

	_ = storage.Save(ctx, "old", nil)
	n, err := storage.Purge(ctx, time.Now().Add(time.Minute), nil)
	if err != nil || n != 1 {
		t.Fatalf("purge: n=%d err=%v", n, err)
	}
	_ = storage.Save(ctx, "new", nil)
	if n, _ := storage.Purge(ctx, time.Now().Add(-time.Minute), nil); n != 0 {
		t.Fatalf("purged a fresh cart")
	}
	if n, _ := storage.Purge(ctx, time.Now().Add(time.Minute), []string{"new"}); n != 0 {
		t.Fatalf("purged a kept cart")
	}
	if _, err := storage.Load(ctx, "new"); err != nil {
		t.Fatalf("kept cart gone: %v", err)
	}
}
