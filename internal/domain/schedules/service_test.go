package schedules

import (
	"context"
	"errors"
	"testing"
	"time"

	"health-tracker/internal/ports/plans"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Schedule
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Schedule{}}
}

func (r *testRepo) Create(ctx context.Context, s Schedule) error {
	if s.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[s.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[s.ID] = s
	return nil
}

func (r *testRepo) Update(ctx context.Context, s Schedule) error {
	if _, ok := r.byID[s.ID]; !ok {
		return ErrNotFound
	}
	r.byID[s.ID] = s
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Schedule, error) {
	s, ok := r.byID[id]
	if !ok {
		return Schedule{}, ErrNotFound
	}
	return s, nil
}

func (r *testRepo) ListByUser(ctx context.Context, userID string) ([]Schedule, error) {
	out := make([]Schedule, 0)
	for _, s := range r.byID {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *testRepo) GetActiveByUser(ctx context.Context, userID string) (Schedule, error) {
	for _, s := range r.byID {
		if s.UserID == userID && s.IsActive {
			return s, nil
		}
	}
	return Schedule{}, ErrNotFound
}

func (r *testRepo) Activate(ctx context.Context, id, userID string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	for k, s := range r.byID {
		if s.UserID == userID && s.IsActive {
			s.IsActive = false
			r.byID[k] = s
		}
	}
	s := r.byID[id]
	s.IsActive = true
	r.byID[id] = s
	return nil
}

func (r *testRepo) Deactivate(ctx context.Context, id string) error {
	s, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	s.IsActive = false
	r.byID[id] = s
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// Resolver de topes fijo para tests.
type fixedLimits struct {
	limits plans.Limits
	err    error
}

func (f fixedLimits) LimitsFor(ctx context.Context, userID string) (plans.Limits, error) {
	return f.limits, f.err
}

func validCreateInput() CreateInput {
	return CreateInput{
		Drug:      "tirzepatide",
		StartDate: date(2024, 1, 1),
		Frequency: FrequencyWeekly,
		Phases: []PhaseInput{
			{Order: 1, DurationDays: d(28), Dosage: "2.5mg"},
			{Order: 2, DurationDays: d(28), Dosage: "5mg"},
			{Order: 3, DurationDays: nil, Dosage: "10mg"},
		},
	}
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_OK(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	sch, err := svc.Create(context.Background(), "u1", validCreateInput())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if sch.ID == "" {
		t.Fatalf("expected generated ID")
	}
	if sch.CreatedAt != now || sch.UpdatedAt != now {
		t.Fatalf("expected CreatedAt/UpdatedAt = now")
	}
	if len(sch.Phases) != 3 {
		t.Fatalf("expected 3 phases, got %d", len(sch.Phases))
	}
	for _, p := range sch.Phases {
		if p.ScheduleID != sch.ID || p.ID == "" {
			t.Fatalf("phase not linked to schedule: %+v", p)
		}
	}
	if sch.IsActive {
		t.Fatalf("schedule should not be active without activate=true")
	}
}

func TestService_Create_ValidationErrors(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"empty drug", func(in *CreateInput) { in.Drug = " " }},
		{"zero start date", func(in *CreateInput) { in.StartDate = time.Time{} }},
		{"unknown frequency", func(in *CreateInput) { in.Frequency = Frequency("fortnightly-ish") }},
		{"no phases", func(in *CreateInput) { in.Phases = nil }},
		{"open-ended non-last", func(in *CreateInput) {
			in.Phases = []PhaseInput{
				{Order: 1, DurationDays: nil, Dosage: "2.5mg"},
				{Order: 2, DurationDays: d(28), Dosage: "5mg"},
			}
		}},
		{"non-contiguous orders", func(in *CreateInput) {
			in.Phases = []PhaseInput{
				{Order: 1, DurationDays: d(28), Dosage: "2.5mg"},
				{Order: 3, DurationDays: d(28), Dosage: "5mg"},
			}
		}},
		{"duplicate order", func(in *CreateInput) {
			in.Phases = []PhaseInput{
				{Order: 1, DurationDays: d(28), Dosage: "2.5mg"},
				{Order: 1, DurationDays: d(28), Dosage: "5mg"},
			}
		}},
		{"zero duration", func(in *CreateInput) {
			in.Phases = []PhaseInput{{Order: 1, DurationDays: d(0), Dosage: "2.5mg"}}
		}},
		{"missing dosage", func(in *CreateInput) {
			in.Phases = []PhaseInput{{Order: 1, DurationDays: d(28), Dosage: "  "}}
		}},
	}

	for _, tc := range cases {
		in := validCreateInput()
		tc.mutate(&in)
		_, err := svc.Create(ctx, "u1", in)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", tc.name, err)
		}
	}
}

func TestService_Create_WithActivate_DeactivatesPrevious(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	in := validCreateInput()
	in.Activate = true

	first, err := svc.Create(ctx, "u1", in)
	if err != nil {
		t.Fatalf("Create #1 error: %v", err)
	}
	second, err := svc.Create(ctx, "u1", in)
	if err != nil {
		t.Fatalf("Create #2 error: %v", err)
	}

	if !second.IsActive {
		t.Fatalf("second schedule should be active")
	}
	got, err := repo.GetByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.IsActive {
		t.Fatalf("first schedule should have been deactivated")
	}

	// A lo sumo uno activo por usuario
	active := 0
	for _, s := range repo.byID {
		if s.UserID == "u1" && s.IsActive {
			active++
		}
	}
	if active != 1 {
		t.Fatalf("expected exactly 1 active schedule, got %d", active)
	}
}

func TestService_Create_LimitReached(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	svc.UseLimits(fixedLimits{limits: plans.Limits{MaxSchedules: 1}})
	ctx := context.Background()

	if _, err := svc.Create(ctx, "u1", validCreateInput()); err != nil {
		t.Fatalf("Create #1 error: %v", err)
	}
	_, err := svc.Create(ctx, "u1", validCreateInput())
	if !errors.Is(err, ErrLimitReached) {
		t.Fatalf("expected ErrLimitReached, got %v", err)
	}

	// Tope cero = sin tope
	svc.UseLimits(fixedLimits{limits: plans.Limits{}})
	if _, err := svc.Create(ctx, "u1", validCreateInput()); err != nil {
		t.Fatalf("Create with zero limit should pass: %v", err)
	}
}

func TestService_Update_PatchSemantics(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	created := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	updated := created.Add(48 * time.Hour)
	svc.now = func() time.Time { return created }

	sch, err := svc.Create(ctx, "u1", validCreateInput())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	svc.now = func() time.Time { return updated }
	freq := FrequencyEvery2Weeks
	got, err := svc.Update(ctx, sch.ID, "u1", UpdateInput{Frequency: &freq})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if got.Frequency != FrequencyEvery2Weeks {
		t.Fatalf("frequency not updated")
	}
	// Campos no tocados se preservan
	if got.Drug != "tirzepatide" || !got.StartDate.Equal(date(2024, 1, 1)) || len(got.Phases) != 3 {
		t.Fatalf("untouched fields changed: %+v", got)
	}
	if got.UpdatedAt != updated {
		t.Fatalf("UpdatedAt not bumped")
	}
}

func TestService_Update_ReplacesPhaseSet(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	sch, err := svc.Create(ctx, "u1", validCreateInput())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	got, err := svc.Update(ctx, sch.ID, "u1", UpdateInput{
		Phases: []PhaseInput{{Order: 1, DurationDays: nil, Dosage: "7.5mg"}},
	})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if len(got.Phases) != 1 || got.Phases[0].Dosage != "7.5mg" {
		t.Fatalf("phase set not replaced: %+v", got.Phases)
	}
}

func TestService_OwnershipIsEnforced(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	sch, err := svc.Create(ctx, "u1", validCreateInput())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if _, err := svc.Update(ctx, sch.ID, "intruso", UpdateInput{}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("Update: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Activate(ctx, sch.ID, "intruso"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("Activate: expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, sch.ID, "intruso"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("Delete: expected ErrForbidden, got %v", err)
	}
}

func TestService_Deactivate_Idempotent(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	in := validCreateInput()
	in.Activate = true
	sch, err := svc.Create(ctx, "u1", in)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	got, err := svc.Deactivate(ctx, sch.ID, "u1")
	if err != nil {
		t.Fatalf("Deactivate error: %v", err)
	}
	if got.IsActive {
		t.Fatalf("expected inactive")
	}

	// Segunda vez: no-op, sin error
	got, err = svc.Deactivate(ctx, sch.ID, "u1")
	if err != nil {
		t.Fatalf("Deactivate #2 error: %v", err)
	}
	if got.IsActive {
		t.Fatalf("expected inactive after idempotent deactivate")
	}
}

func TestService_GetActive_NotFoundWhenNoneActive(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "u1", validCreateInput()); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if _, err := svc.GetActive(ctx, "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
