package injections

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
	byID map[string]Log
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Log{}}
}

func (r *testRepo) Create(ctx context.Context, l Log) error {
	if l.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[l.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[l.ID] = l
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Log, error) {
	l, ok := r.byID[id]
	if !ok {
		return Log{}, ErrNotFound
	}
	return l, nil
}

func (r *testRepo) ListByUser(ctx context.Context, userID string, filter ListFilter) ([]Log, error) {
	out := make([]Log, 0)
	for _, l := range r.byID {
		if l.UserID != userID {
			continue
		}
		if filter.Drug != "" && l.Drug != filter.Drug {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InjectedAt.After(out[j].InjectedAt) })
	return out, nil
}

func (r *testRepo) LatestByDrug(ctx context.Context, userID, drug string) (Log, error) {
	var winner Log
	has := false
	for _, l := range r.byID {
		if l.UserID != userID || l.Drug != drug {
			continue
		}
		if !has || l.InjectedAt.After(winner.InjectedAt) {
			winner = l
			has = true
		}
	}
	if !has {
		return Log{}, ErrNotFound
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

func TestService_Create_DefaultsInjectedAt(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2024, 1, 8, 9, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	l, err := svc.Create(context.Background(), "u1", CreateInput{
		Drug:   "tirzepatide",
		Dosage: "2.5mg",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if l.InjectedAt != now {
		t.Fatalf("expected InjectedAt defaulted to now, got %v", l.InjectedAt)
	}
}

func TestService_Create_RejectsFutureTimestamp(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2024, 1, 8, 9, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	// Más allá del margen de skew: rechazado
	_, err := svc.Create(ctx, "u1", CreateInput{
		Drug:       "tirzepatide",
		Dosage:     "2.5mg",
		InjectedAt: now.Add(10 * time.Minute),
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	// Dentro del margen: aceptado
	if _, err := svc.Create(ctx, "u1", CreateInput{
		Drug:       "tirzepatide",
		Dosage:     "2.5mg",
		InjectedAt: now.Add(2 * time.Minute),
	}); err != nil {
		t.Fatalf("Create within skew error: %v", err)
	}
}

func TestService_Create_ValidationErrors(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "u1", CreateInput{Drug: " ", Dosage: "2.5mg"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty drug: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Create(ctx, "u1", CreateInput{Drug: "tirzepatide", Dosage: ""}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty dosage: expected ErrInvalidInput, got %v", err)
	}
}

func TestService_LatestFor(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	// Sin historia: nil, sin error
	got, err := svc.LatestFor(ctx, "u1", "tirzepatide")
	if err != nil {
		t.Fatalf("LatestFor error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil without history, got %v", got)
	}

	older := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 1, 8, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return newer.Add(time.Hour) }

	if _, err := svc.Create(ctx, "u1", CreateInput{Drug: "tirzepatide", Dosage: "2.5mg", InjectedAt: older}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if _, err := svc.Create(ctx, "u1", CreateInput{Drug: "tirzepatide", Dosage: "2.5mg", InjectedAt: newer}); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	got, err = svc.LatestFor(ctx, "u1", "tirzepatide")
	if err != nil {
		t.Fatalf("LatestFor error: %v", err)
	}
	if got == nil || !got.Equal(newer) {
		t.Fatalf("expected latest %v, got %v", newer, got)
	}
}

func TestService_Delete_OwnershipEnforced(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	l, err := svc.Create(ctx, "u1", CreateInput{Drug: "tirzepatide", Dosage: "2.5mg"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := svc.Delete(ctx, l.ID, "otro"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, l.ID, "u1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := svc.GetByID(ctx, l.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
