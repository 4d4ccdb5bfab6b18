package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"health-tracker/internal/domain/inventory"
)

type inventoryRepo struct {
	mu   sync.RWMutex
	byID map[string]inventory.Item
}

func NewInventoryRepo() inventory.Repository {
	return &inventoryRepo{
		byID: make(map[string]inventory.Item),
	}
}

func (r *inventoryRepo) Create(ctx context.Context, i inventory.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(i.ID) == "" {
		return errors.New("inventory item id required")
	}
	if _, exists := r.byID[i.ID]; exists {
		return errors.New("inventory item already exists")
	}

	r.byID[i.ID] = i
	return nil
}

func (r *inventoryRepo) Update(ctx context.Context, i inventory.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[i.ID]; !ok {
		return inventory.ErrNotFound
	}
	r.byID[i.ID] = i
	return nil
}

func (r *inventoryRepo) GetByID(ctx context.Context, id string) (inventory.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.byID[id]
	if !ok {
		return inventory.Item{}, inventory.ErrNotFound
	}
	return i, nil
}

func (r *inventoryRepo) ListByUser(ctx context.Context, userID string) ([]inventory.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]inventory.Item, 0)
	for _, i := range r.byID {
		if i.UserID == userID {
			out = append(out, i)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].AcquiredAt.Before(out[j].AcquiredAt)
	})

	return out, nil
}

func (r *inventoryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return inventory.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
