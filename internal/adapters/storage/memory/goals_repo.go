package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"health-tracker/internal/domain/goals"
)

type goalsRepo struct {
	mu   sync.RWMutex
	byID map[string]goals.Goal
}

func NewGoalsRepo() goals.Repository {
	return &goalsRepo{
		byID: make(map[string]goals.Goal),
	}
}

func (r *goalsRepo) Create(ctx context.Context, g goals.Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(g.ID) == "" {
		return errors.New("goal id required")
	}
	if _, exists := r.byID[g.ID]; exists {
		return errors.New("goal already exists")
	}

	r.byID[g.ID] = g
	return nil
}

func (r *goalsRepo) Update(ctx context.Context, g goals.Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[g.ID]; !ok {
		return goals.ErrNotFound
	}
	r.byID[g.ID] = g
	return nil
}

func (r *goalsRepo) GetByID(ctx context.Context, id string) (goals.Goal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.byID[id]
	if !ok {
		return goals.Goal{}, goals.ErrNotFound
	}
	return g, nil
}

func (r *goalsRepo) ListByUser(ctx context.Context, userID string) ([]goals.Goal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]goals.Goal, 0)
	for _, g := range r.byID {
		if g.UserID == userID {
			out = append(out, g)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *goalsRepo) GetActiveByUser(ctx context.Context, userID string) (goals.Goal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Si por data sucia hubiera más de uno activo, gana el más reciente.
	var winner goals.Goal
	has := false

	for _, g := range r.byID {
		if g.UserID != userID || g.Status != goals.StatusActive {
			continue
		}
		if !has || g.UpdatedAt.After(winner.UpdatedAt) {
			winner = g
			has = true
		}
	}

	if !has {
		return goals.Goal{}, goals.ErrNotFound
	}
	return winner, nil
}
