package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"health-tracker/internal/domain/schedules"
)

type schedulesRepo struct {
	mu   sync.RWMutex
	byID map[string]schedules.Schedule
}

func NewSchedulesRepo() schedules.Repository {
	return &schedulesRepo{
		byID: make(map[string]schedules.Schedule),
	}
}

func (r *schedulesRepo) Create(ctx context.Context, s schedules.Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(s.ID) == "" {
		return errors.New("schedule id required")
	}
	if _, exists := r.byID[s.ID]; exists {
		return errors.New("schedule already exists")
	}

	r.byID[s.ID] = cloneSchedule(s)
	return nil
}

func (r *schedulesRepo) Update(ctx context.Context, s schedules.Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[s.ID]
	if !ok {
		return schedules.ErrNotFound
	}
	// IsActive se maneja solo vía Activate/Deactivate.
	s.IsActive = cur.IsActive
	r.byID[s.ID] = cloneSchedule(s)
	return nil
}

func (r *schedulesRepo) GetByID(ctx context.Context, id string) (schedules.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return schedules.Schedule{}, schedules.ErrNotFound
	}
	return cloneSchedule(s), nil
}

func (r *schedulesRepo) ListByUser(ctx context.Context, userID string) ([]schedules.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]schedules.Schedule, 0)
	for _, s := range r.byID {
		if s.UserID == userID {
			out = append(out, cloneSchedule(s))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *schedulesRepo) GetActiveByUser(ctx context.Context, userID string) (schedules.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.byID {
		if s.UserID == userID && s.IsActive {
			return cloneSchedule(s), nil
		}
	}
	return schedules.Schedule{}, schedules.ErrNotFound
}

func (r *schedulesRepo) Activate(ctx context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	target, ok := r.byID[id]
	if !ok || target.UserID != userID {
		return schedules.ErrNotFound
	}

	// Invariante "a lo sumo uno activo": bajo el mismo lock.
	for k, s := range r.byID {
		if s.UserID == userID && s.IsActive && k != id {
			s.IsActive = false
			r.byID[k] = s
		}
	}

	target.IsActive = true
	r.byID[id] = target
	return nil
}

func (r *schedulesRepo) Deactivate(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[id]
	if !ok {
		return schedules.ErrNotFound
	}
	s.IsActive = false
	r.byID[id] = s
	return nil
}

func (r *schedulesRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return schedules.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// cloneSchedule copia fases para que el caller no comparta el slice
// guardado en el mapa.
func cloneSchedule(s schedules.Schedule) schedules.Schedule {
	phases := make([]schedules.Phase, len(s.Phases))
	copy(phases, s.Phases)
	for i, p := range phases {
		if p.DurationDays != nil {
			d := *p.DurationDays
			phases[i].DurationDays = &d
		}
	}
	s.Phases = phases
	return s
}
