package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"health-tracker/internal/domain/injections"
)

type injectionsRepo struct {
	mu   sync.RWMutex
	byID map[string]injections.Log
}

func NewInjectionsRepo() injections.Repository {
	return &injectionsRepo{
		byID: make(map[string]injections.Log),
	}
}

func (r *injectionsRepo) Create(ctx context.Context, l injections.Log) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(l.ID) == "" {
		return errors.New("injection id required")
	}
	if _, exists := r.byID[l.ID]; exists {
		return errors.New("injection already exists")
	}

	r.byID[l.ID] = l
	return nil
}

func (r *injectionsRepo) GetByID(ctx context.Context, id string) (injections.Log, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.byID[id]
	if !ok {
		return injections.Log{}, injections.ErrNotFound
	}
	return l, nil
}

func (r *injectionsRepo) ListByUser(ctx context.Context, userID string, filter injections.ListFilter) ([]injections.Log, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]injections.Log, 0)

	for _, l := range r.byID {
		if l.UserID != userID {
			continue
		}
		if d := strings.TrimSpace(filter.Drug); d != "" && !strings.EqualFold(l.Drug, d) {
			continue
		}
		if filter.From != nil && l.InjectedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && l.InjectedAt.After(*filter.To) {
			continue
		}
		out = append(out, l)
	}

	// Más reciente primero
	sort.Slice(out, func(i, j int) bool {
		return out[i].InjectedAt.After(out[j].InjectedAt)
	})

	// Limit <= 0 = sin límite: el proyector necesita la historia completa
	// para contar dosis por fase; el tope para la API lo pone el handler.
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}

	return out, nil
}

func (r *injectionsRepo) LatestByDrug(ctx context.Context, userID, drug string) (injections.Log, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var winner injections.Log
	has := false

	for _, l := range r.byID {
		if l.UserID != userID || !strings.EqualFold(l.Drug, drug) {
			continue
		}
		if !has || l.InjectedAt.After(winner.InjectedAt) {
			winner = l
			has = true
		}
	}

	if !has {
		return injections.Log{}, injections.ErrNotFound
	}
	return winner, nil
}

func (r *injectionsRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return injections.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
