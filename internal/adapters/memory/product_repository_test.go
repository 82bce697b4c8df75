package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/streamcart/product-catalog/internal/domain"
)

func sampleProduct() domain.Product {
	now := time.Now().UTC()
	return domain.Product{
		ProductID:   uuid.New(),
		Name:        "Laptop",
		Description: "Gaming laptop",
		Price:       999.99,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestCreateGetDelete(t *testing.T) {
	t.Parallel()
	repo := NewProductRepository()
	ctx := context.Background()

	p := sampleProduct()
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := repo.Get(ctx, p.ProductID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != p {
		t.Fatalf("expected stored copy equal to input, got %+v", got)
	}

	removed, err := repo.Delete(ctx, p.ProductID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed.ProductID != p.ProductID {
		t.Fatalf("expected removed product %s, got %s", p.ProductID, removed.ProductID)
	}
	if _, err := repo.Get(ctx, p.ProductID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestGetUnknownID(t *testing.T) {
	t.Parallel()
	repo := NewProductRepository()
	if _, err := repo.Get(context.Background(), uuid.New()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateUnknownID(t *testing.T) {
	t.Parallel()
	repo := NewProductRepository()
	_, err := repo.Update(context.Background(), uuid.New(), func(p domain.Product) domain.Product { return p })
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListSnapshotIsDetached(t *testing.T) {
	t.Parallel()
	repo := NewProductRepository()
	ctx := context.Background()

	p := sampleProduct()
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}
	snapshot, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(snapshot) != 1 {
		t.Fatalf("expected 1 product, got %d", len(snapshot))
	}

	// Later mutations must not retroactively alter the snapshot.
	_, err = repo.Update(ctx, p.ProductID, func(current domain.Product) domain.Product {
		current.Name = "Desktop"
		current.UpdatedAt = current.UpdatedAt.Add(time.Second)
		return current
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if snapshot[0].Name != "Laptop" {
		t.Fatalf("snapshot mutated after update: %+v", snapshot[0])
	}

	// And mutating the returned copy must not touch stored state.
	snapshot[0].Price = 1
	got, err := repo.Get(ctx, p.ProductID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Price != 999.99 {
		t.Fatalf("stored state mutated through returned copy: %+v", got)
	}
}

func TestConcurrentUpdatesDoNotLoseWrites(t *testing.T) {
	t.Parallel()
	repo := NewProductRepository()
	ctx := context.Background()

	p := sampleProduct()
	p.Price = 0
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}

	const writers = 8
	const perWriter = 50
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perWriter; j++ {
				_, err := repo.Update(ctx, p.ProductID, func(current domain.Product) domain.Product {
					current.Price++
					return current
				})
				if err != nil {
					t.Errorf("update: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	got, err := repo.Get(ctx, p.ProductID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Price != writers*perWriter {
		t.Fatalf("expected %d increments to survive, got %v", writers*perWriter, got.Price)
	}
}

func TestConcurrentReadsDuringWritesSeeConsistentState(t *testing.T) {
	t.Parallel()
	repo := NewProductRepository()
	ctx := context.Background()

	p := sampleProduct()
	p.Name = "rev-0"
	p.Price = 0
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}

	// The writer always commits matching name and price. A reader observing a
	// mismatched pair has seen a half-applied write.
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for rev := 1; ; rev++ {
			select {
			case <-stop:
				return
			default:
			}
			_, err := repo.Update(ctx, p.ProductID, func(current domain.Product) domain.Product {
				current.Name = fmt.Sprintf("rev-%d", rev)
				current.Price = float64(rev)
				return current
			})
			if err != nil {
				t.Errorf("update: %v", err)
				return
			}
		}
	}()

	const readers = 4
	wg.Add(readers)
	for i := 0; i < readers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				got, err := repo.Get(ctx, p.ProductID)
				if err != nil {
					t.Errorf("get: %v", err)
					return
				}
				if want := fmt.Sprintf("rev-%d", int(got.Price)); got.Name != want {
					t.Errorf("torn read: name %q with price %v", got.Name, got.Price)
					return
				}
			}
		}()
	}

	time.Sleep(10 * time.Millisecond)
	close(stop)
	wg.Wait()
}

func TestListReflectsNonRemovedEntities(t *testing.T) {
	t.Parallel()
	repo := NewProductRepository()
	ctx := context.Background()

	a, b, c := sampleProduct(), sampleProduct(), sampleProduct()
	for _, p := range []domain.Product{a, b, c} {
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if _, err := repo.Delete(ctx, b.ProductID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	snapshot, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	ids := map[uuid.UUID]bool{}
	for _, p := range snapshot {
		ids[p.ProductID] = true
	}
	if len(ids) != 2 || !ids[a.ProductID] || !ids[c.ProductID] || ids[b.ProductID] {
		t.Fatalf("expected exactly {a, c}, got %v", ids)
	}
}
