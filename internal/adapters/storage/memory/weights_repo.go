package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"health-tracker/internal/domain/weights"
)

type weightsRepo struct {
	mu   sync.RWMutex
	byID map[string]weights.Entry
}

func NewWeightsRepo() weights.Repository {
	return &weightsRepo{
		byID: make(map[string]weights.Entry),
	}
}

func (r *weightsRepo) Create(ctx context.Context, e weights.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(e.ID) == "" {
		return errors.New("weight entry id required")
	}
	if _, exists := r.byID[e.ID]; exists {
		return errors.New("weight entry already exists")
	}

	r.byID[e.ID] = e
	return nil
}

func (r *weightsRepo) GetByID(ctx context.Context, id string) (weights.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return weights.Entry{}, weights.ErrNotFound
	}
	return e, nil
}

func (r *weightsRepo) ListByUser(ctx context.Context, userID string, filter weights.ListFilter) ([]weights.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]weights.Entry, 0)

	for _, e := range r.byID {
		if e.UserID != userID {
			continue
		}
		if filter.From != nil && e.MeasuredAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && e.MeasuredAt.After(*filter.To) {
			continue
		}
		out = append(out, e)
	}

	// Ascendente: el consumidor (tendencia de peso) espera cronológico.
	sort.Slice(out, func(i, j int) bool {
		return out[i].MeasuredAt.Before(out[j].MeasuredAt)
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}

	return out, nil
}

func (r *weightsRepo) Latest(ctx context.Context, userID string) (weights.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var winner weights.Entry
	has := false

	for _, e := range r.byID {
		if e.UserID != userID {
			continue
		}
		if !has || e.MeasuredAt.After(winner.MeasuredAt) {
			winner = e
			has = true
		}
	}

	if !has {
		return weights.Entry{}, weights.ErrNotFound
	}
	return winner, nil
}

func (r *weightsRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return weights.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
