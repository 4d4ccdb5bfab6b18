package weights

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Entry
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Entry{}}
}

func (r *testRepo) Create(ctx context.Context, e Entry) error {
	if e.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[e.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[e.ID] = e
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Entry, error) {
	e, ok := r.byID[id]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return e, nil
}

func (r *testRepo) ListByUser(ctx context.Context, userID string, filter ListFilter) ([]Entry, error) {
	out := make([]Entry, 0)
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
	sort.Slice(out, func(i, j int) bool { return out[i].MeasuredAt.Before(out[j].MeasuredAt) })
	return out, nil
}

func (r *testRepo) Latest(ctx context.Context, userID string) (Entry, error) {
	var winner Entry
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
		return Entry{}, ErrNotFound
	}
	return winner, nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_DefaultsMeasuredAt(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2024, 2, 1, 7, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	e, err := svc.Create(context.Background(), "u1", CreateInput{WeightKg: 92.4})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if e.MeasuredAt != now {
		t.Fatalf("expected MeasuredAt defaulted to now")
	}
}

func TestService_Create_RejectsImplausibleWeights(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	for _, kg := range []float64{0, -3, 755} {
		if _, err := svc.Create(ctx, "u1", CreateInput{WeightKg: kg}); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("kg=%v: expected ErrInvalidInput, got %v", kg, err)
		}
	}
}

func TestService_Latest_NilWithoutEntries(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	got, err := svc.Latest(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Latest error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil without entries")
	}
}

func TestService_Latest_ReturnsMostRecent(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	svc.now = func() time.Time { return time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC) }

	if _, err := svc.Create(ctx, "u1", CreateInput{WeightKg: 95, MeasuredAt: time.Date(2024, 2, 1, 7, 0, 0, 0, time.UTC)}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if _, err := svc.Create(ctx, "u1", CreateInput{WeightKg: 93.5, MeasuredAt: time.Date(2024, 2, 8, 7, 0, 0, 0, time.UTC)}); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	got, err := svc.Latest(ctx, "u1")
	if err != nil {
		t.Fatalf("Latest error: %v", err)
	}
	if got == nil || got.WeightKg != 93.5 {
		t.Fatalf("expected latest 93.5, got %+v", got)
	}
}

func TestService_Delete_OwnershipEnforced(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	e, err := svc.Create(ctx, "u1", CreateInput{WeightKg: 90})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := svc.Delete(ctx, e.ID, "otro"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, e.ID, "u1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}
