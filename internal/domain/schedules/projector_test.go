package schedules

import (
	"testing"
	"time"

	"health-tracker/internal/domain/injections"
)

// -------------------------
// Helpers
// -------------------------

func d(days int) *int {
	v := days
	return &v
}

func date(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

// Schedule de referencia: 2.5mg x28d -> 5mg x28d -> 10mg indefinida, semanal.
func titrationPhases() []Phase {
	return []Phase{
		{ID: "p1", Order: 1, DurationDays: d(28), Dosage: "2.5mg"},
		{ID: "p2", Order: 2, DurationDays: d(28), Dosage: "5mg"},
		{ID: "p3", Order: 3, DurationDays: nil, Dosage: "10mg"},
	}
}

func logAt(id string, t time.Time) injections.Log {
	return injections.Log{ID: id, UserID: "u1", Drug: "tirzepatide", Dosage: "2.5mg", InjectedAt: t}
}

// -------------------------
// ProjectPhases
// -------------------------

func TestProjectPhases_DatesAndStatuses(t *testing.T) {
	start := date(2024, 1, 1)
	views, err := ProjectPhases(titrationPhases(), start, FrequencyWeekly, date(2024, 1, 15))
	if err != nil {
		t.Fatalf("ProjectPhases error: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("expected 3 views, got %d", len(views))
	}

	// Fase 1: 2024-01-01 .. 2024-01-28 (fin inclusivo)
	if !views[0].StartDate.Equal(date(2024, 1, 1)) {
		t.Fatalf("phase 1 start: got %v", views[0].StartDate)
	}
	if views[0].EndDate == nil || !views[0].EndDate.Equal(date(2024, 1, 28)) {
		t.Fatalf("phase 1 end: got %v", views[0].EndDate)
	}
	// Fase 2 arranca el día siguiente al fin de la fase 1 (sin huecos ni solapes)
	if !views[1].StartDate.Equal(date(2024, 1, 29)) {
		t.Fatalf("phase 2 start: got %v", views[1].StartDate)
	}
	if views[1].EndDate == nil || !views[1].EndDate.Equal(date(2024, 2, 25)) {
		t.Fatalf("phase 2 end: got %v", views[1].EndDate)
	}
	// Fase indefinida: sin fin, sin expected
	if !views[2].StartDate.Equal(date(2024, 2, 26)) {
		t.Fatalf("phase 3 start: got %v", views[2].StartDate)
	}
	if views[2].EndDate != nil || views[2].ExpectedCount != nil {
		t.Fatalf("phase 3 should have nil end/expected")
	}

	if views[0].Status != PhaseCurrent || views[1].Status != PhaseUpcoming || views[2].Status != PhaseUpcoming {
		t.Fatalf("statuses at 2024-01-15: got %s/%s/%s", views[0].Status, views[1].Status, views[2].Status)
	}
}

func TestProjectPhases_StatusProgression(t *testing.T) {
	start := date(2024, 1, 1)
	phases := titrationPhases()

	cases := []struct {
		now  time.Time
		want [3]PhaseStatus
	}{
		{date(2023, 12, 20), [3]PhaseStatus{PhaseUpcoming, PhaseUpcoming, PhaseUpcoming}},
		{date(2024, 1, 1), [3]PhaseStatus{PhaseCurrent, PhaseUpcoming, PhaseUpcoming}},
		{date(2024, 1, 28), [3]PhaseStatus{PhaseCurrent, PhaseUpcoming, PhaseUpcoming}}, // último día incluido
		{date(2024, 1, 29), [3]PhaseStatus{PhaseCompleted, PhaseCurrent, PhaseUpcoming}},
		{date(2024, 2, 10), [3]PhaseStatus{PhaseCompleted, PhaseCurrent, PhaseUpcoming}},
		{date(2024, 4, 1), [3]PhaseStatus{PhaseCompleted, PhaseCompleted, PhaseCurrent}},
		{date(2034, 4, 1), [3]PhaseStatus{PhaseCompleted, PhaseCompleted, PhaseCurrent}}, // indefinida nunca completa
	}

	for _, tc := range cases {
		views, err := ProjectPhases(phases, start, FrequencyWeekly, tc.now)
		if err != nil {
			t.Fatalf("ProjectPhases(%v) error: %v", tc.now, err)
		}
		for i := range views {
			if views[i].Status != tc.want[i] {
				t.Fatalf("at %v: phase %d status = %s, want %s", tc.now, i+1, views[i].Status, tc.want[i])
			}
		}

		// Dentro del plan hay exactamente una fase current; antes del
		// inicio, ninguna
		currents := 0
		for _, v := range views {
			if v.Status == PhaseCurrent {
				currents++
			}
		}
		wantCurrents := 1
		if tc.now.Before(start) {
			wantCurrents = 0
		}
		if currents != wantCurrents {
			t.Fatalf("at %v: %d current phases, want %d", tc.now, currents, wantCurrents)
		}
	}
}

func TestProjectPhases_ExpectedCountIsCeil(t *testing.T) {
	cases := []struct {
		days     int
		freq     Frequency
		expected int
	}{
		{28, FrequencyWeekly, 4},
		{30, FrequencyWeekly, 5}, // ceil(30/7), no floor
		{1, FrequencyWeekly, 1},
		{30, FrequencyMonthly, 1},
		{31, FrequencyMonthly, 2},
		{9, FrequencyEvery3Days, 3},
		{14, FrequencyEvery2Weeks, 1},
		{5, FrequencyDaily, 5},
	}

	for _, tc := range cases {
		phases := []Phase{{ID: "p1", Order: 1, DurationDays: d(tc.days), Dosage: "1mg"}}
		views, err := ProjectPhases(phases, date(2024, 1, 1), tc.freq, date(2024, 1, 1))
		if err != nil {
			t.Fatalf("ProjectPhases error: %v", err)
		}
		if views[0].ExpectedCount == nil || *views[0].ExpectedCount != tc.expected {
			t.Fatalf("days=%d freq=%s: expected count %d, got %v", tc.days, tc.freq, tc.expected, views[0].ExpectedCount)
		}
	}
}

func TestProjectPhases_SortsByOrder(t *testing.T) {
	phases := []Phase{
		{ID: "p2", Order: 2, DurationDays: d(10), Dosage: "5mg"},
		{ID: "p1", Order: 1, DurationDays: d(10), Dosage: "2.5mg"},
	}
	views, err := ProjectPhases(phases, date(2024, 1, 1), FrequencyWeekly, date(2024, 1, 1))
	if err != nil {
		t.Fatalf("ProjectPhases error: %v", err)
	}
	if views[0].Phase.ID != "p1" || views[1].Phase.ID != "p2" {
		t.Fatalf("expected views ordered by phase order, got %s then %s", views[0].Phase.ID, views[1].Phase.ID)
	}
	if !views[1].StartDate.Equal(date(2024, 1, 11)) {
		t.Fatalf("phase 2 start: got %v", views[1].StartDate)
	}
}

func TestProjectPhases_RejectsOpenEndedNonLast(t *testing.T) {
	phases := []Phase{
		{ID: "p1", Order: 1, DurationDays: nil, Dosage: "2.5mg"},
		{ID: "p2", Order: 2, DurationDays: d(28), Dosage: "5mg"},
	}
	if _, err := ProjectPhases(phases, date(2024, 1, 1), FrequencyWeekly, date(2024, 1, 1)); err == nil {
		t.Fatalf("expected error for open-ended non-last phase")
	}
}

func TestProjectPhases_RejectsNonPositiveDuration(t *testing.T) {
	phases := []Phase{{ID: "p1", Order: 1, DurationDays: d(0), Dosage: "2.5mg"}}
	if _, err := ProjectPhases(phases, date(2024, 1, 1), FrequencyWeekly, date(2024, 1, 1)); err == nil {
		t.Fatalf("expected error for zero duration")
	}
}

func TestProjectPhases_EmptyIsError(t *testing.T) {
	if _, err := ProjectPhases(nil, date(2024, 1, 1), FrequencyWeekly, date(2024, 1, 1)); err == nil {
		t.Fatalf("expected error for empty phases")
	}
}

func TestProjectPhases_IgnoresTimeOfDay(t *testing.T) {
	phases := []Phase{{ID: "p1", Order: 1, DurationDays: d(7), Dosage: "2.5mg"}}
	// start a las 23:59, now a las 00:01 del último día: sigue current
	start := time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC)
	now := time.Date(2024, 1, 7, 0, 1, 0, 0, time.UTC)

	views, err := ProjectPhases(phases, start, FrequencyWeekly, now)
	if err != nil {
		t.Fatalf("ProjectPhases error: %v", err)
	}
	if views[0].Status != PhaseCurrent {
		t.Fatalf("expected current, got %s", views[0].Status)
	}
	if views[0].EndDate == nil || !views[0].EndDate.Equal(date(2024, 1, 7)) {
		t.Fatalf("end date: got %v", views[0].EndDate)
	}
}

func TestCurrentPhase_NilWhenFiniteScheduleEnded(t *testing.T) {
	phases := []Phase{{ID: "p1", Order: 1, DurationDays: d(7), Dosage: "2.5mg"}}
	views, err := ProjectPhases(phases, date(2024, 1, 1), FrequencyWeekly, date(2024, 3, 1))
	if err != nil {
		t.Fatalf("ProjectPhases error: %v", err)
	}
	if cur := CurrentPhase(views); cur != nil {
		t.Fatalf("expected nil current phase, got order %d", cur.Phase.Order)
	}
}

// -------------------------
// AssignEvents
// -------------------------

func TestAssignEvents_AssignsByDateRange(t *testing.T) {
	views, err := ProjectPhases(titrationPhases(), date(2024, 1, 1), FrequencyWeekly, date(2024, 4, 1))
	if err != nil {
		t.Fatalf("ProjectPhases error: %v", err)
	}

	events := []injections.Log{
		logAt("e0", date(2023, 12, 30)), // antes del schedule: sin asignar
		logAt("e1", date(2024, 1, 1)),   // primer día fase 1
		logAt("e2", date(2024, 1, 28)),  // último día fase 1 (borde inclusivo)
		logAt("e3", date(2024, 1, 29)),  // primer día fase 2
		logAt("e4", date(2024, 3, 15)),  // fase indefinida
	}

	views = AssignEvents(views, events)

	if views[0].CompletedCount != 2 {
		t.Fatalf("phase 1 completed = %d, want 2", views[0].CompletedCount)
	}
	if views[1].CompletedCount != 1 {
		t.Fatalf("phase 2 completed = %d, want 1", views[1].CompletedCount)
	}
	if views[2].CompletedCount != 1 {
		t.Fatalf("phase 3 completed = %d, want 1", views[2].CompletedCount)
	}

	total := 0
	for _, v := range views {
		total += len(v.AssignedEvents)
	}
	if total != 4 {
		t.Fatalf("expected 4 assigned events (e0 dropped), got %d", total)
	}
}

func TestAssignEvents_Idempotent(t *testing.T) {
	views, err := ProjectPhases(titrationPhases(), date(2024, 1, 1), FrequencyWeekly, date(2024, 2, 10))
	if err != nil {
		t.Fatalf("ProjectPhases error: %v", err)
	}
	events := []injections.Log{logAt("e1", date(2024, 1, 5)), logAt("e2", date(2024, 2, 1))}

	views = AssignEvents(views, events)
	views = AssignEvents(views, events) // segunda pasada no duplica

	if views[0].CompletedCount != 1 || views[1].CompletedCount != 1 {
		t.Fatalf("counts after double assign: %d/%d, want 1/1", views[0].CompletedCount, views[1].CompletedCount)
	}
	if len(views[0].AssignedEvents) != 1 || len(views[1].AssignedEvents) != 1 {
		t.Fatalf("assigned events duplicated")
	}
}

// -------------------------
// Totals
// -------------------------

func TestTotals_NilExpectedWithOpenEndedPhase(t *testing.T) {
	views, err := ProjectPhases(titrationPhases(), date(2024, 1, 1), FrequencyWeekly, date(2024, 2, 10))
	if err != nil {
		t.Fatalf("ProjectPhases error: %v", err)
	}
	views = AssignEvents(views, []injections.Log{
		logAt("e1", date(2024, 1, 3)),
		logAt("e2", date(2024, 2, 1)),
	})

	completed, expected := Totals(views)
	if completed != 2 {
		t.Fatalf("total completed = %d, want 2", completed)
	}
	if expected != nil {
		t.Fatalf("expected nil total (open-ended phase), got %d", *expected)
	}
}

func TestTotals_BoundedSchedule(t *testing.T) {
	phases := []Phase{
		{ID: "p1", Order: 1, DurationDays: d(28), Dosage: "2.5mg"},
		{ID: "p2", Order: 2, DurationDays: d(30), Dosage: "5mg"},
	}
	views, err := ProjectPhases(phases, date(2024, 1, 1), FrequencyWeekly, date(2024, 1, 15))
	if err != nil {
		t.Fatalf("ProjectPhases error: %v", err)
	}
	_, expected := Totals(views)
	if expected == nil || *expected != 9 { // 4 + 5
		t.Fatalf("total expected = %v, want 9", expected)
	}
}

// -------------------------
// NextSuggestedDose
// -------------------------

func TestNextSuggestedDose_BeforeStartClampsToStart(t *testing.T) {
	sch := Schedule{
		ID:        "s1",
		StartDate: date(2024, 1, 1),
		Frequency: FrequencyWeekly,
		Phases:    titrationPhases(),
	}

	got, err := NextSuggestedDose(sch, nil, date(2023, 12, 20))
	if err != nil {
		t.Fatalf("NextSuggestedDose error: %v", err)
	}
	if got == nil {
		t.Fatalf("expected suggestion before start")
	}
	if !got.SuggestedDate.Equal(date(2024, 1, 1)) {
		t.Fatalf("suggested = %v, want start date", got.SuggestedDate)
	}
	if got.IsOverdue {
		t.Fatalf("should not be overdue before start")
	}
	if got.DaysUntilDue != 12 {
		t.Fatalf("days until due = %d, want 12", got.DaysUntilDue)
	}
	if got.CurrentPhase != nil {
		t.Fatalf("no current phase before start")
	}
}

func TestNextSuggestedDose_NoHistoryDueToday(t *testing.T) {
	sch := Schedule{
		ID:        "s1",
		StartDate: date(2024, 1, 1),
		Frequency: FrequencyWeekly,
		Phases:    titrationPhases(),
	}

	now := date(2024, 1, 10)
	got, err := NextSuggestedDose(sch, nil, now)
	if err != nil {
		t.Fatalf("NextSuggestedDose error: %v", err)
	}
	if got == nil {
		t.Fatalf("expected suggestion")
	}
	// Nunca se inyectó y el plan ya arrancó: debe hoy, no en el futuro.
	if !got.SuggestedDate.Equal(now) {
		t.Fatalf("suggested = %v, want now", got.SuggestedDate)
	}
	if got.DaysUntilDue != 0 || got.IsOverdue {
		t.Fatalf("want due today (0, not overdue), got %d overdue=%v", got.DaysUntilDue, got.IsOverdue)
	}
	if got.CurrentPhase == nil || got.CurrentPhase.Phase.Order != 1 {
		t.Fatalf("expected current phase 1")
	}
}

func TestNextSuggestedDose_FromLastInjection(t *testing.T) {
	sch := Schedule{
		ID:        "s1",
		StartDate: date(2024, 1, 1),
		Frequency: FrequencyWeekly,
		Phases:    titrationPhases(),
	}

	last := date(2024, 1, 8)

	// A tiempo: dentro del intervalo
	got, err := NextSuggestedDose(sch, &last, date(2024, 1, 10))
	if err != nil {
		t.Fatalf("NextSuggestedDose error: %v", err)
	}
	if got == nil || !got.SuggestedDate.Equal(date(2024, 1, 15)) {
		t.Fatalf("suggested = %v, want 2024-01-15", got)
	}
	if got.DaysUntilDue != 5 || got.IsOverdue {
		t.Fatalf("want 5 days, not overdue; got %d overdue=%v", got.DaysUntilDue, got.IsOverdue)
	}

	// Atrasado: la fecha sugerida ya pasó
	got, err = NextSuggestedDose(sch, &last, date(2024, 1, 20))
	if err != nil {
		t.Fatalf("NextSuggestedDose error: %v", err)
	}
	if got == nil || !got.IsOverdue || got.DaysUntilDue != -5 {
		t.Fatalf("want overdue by 5 days, got %+v", got)
	}
}

func TestNextSuggestedDose_NilWhenScheduleFinished(t *testing.T) {
	sch := Schedule{
		ID:        "s1",
		StartDate: date(2024, 1, 1),
		Frequency: FrequencyWeekly,
		Phases:    []Phase{{ID: "p1", Order: 1, DurationDays: d(28), Dosage: "2.5mg"}},
	}

	got, err := NextSuggestedDose(sch, nil, date(2024, 6, 1))
	if err != nil {
		t.Fatalf("NextSuggestedDose error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil suggestion for finished schedule, got %+v", got)
	}
}

func TestNextSuggestedDose_NilWithoutPhases(t *testing.T) {
	sch := Schedule{ID: "s1", StartDate: date(2024, 1, 1), Frequency: FrequencyWeekly}
	got, err := NextSuggestedDose(sch, nil, date(2024, 1, 10))
	if err != nil {
		t.Fatalf("NextSuggestedDose error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil suggestion without phases")
	}
}

// -------------------------
// BuildView
// -------------------------

func TestBuildView_AssemblesEverything(t *testing.T) {
	sch := Schedule{
		ID:        "s1",
		UserID:    "u1",
		Drug:      "tirzepatide",
		StartDate: date(2024, 1, 1),
		Frequency: FrequencyWeekly,
		Phases:    titrationPhases(),
	}
	logs := []injections.Log{
		logAt("e1", date(2024, 1, 1)),
		logAt("e2", date(2024, 1, 8)),
		logAt("e3", date(2024, 2, 1)),
	}

	view, err := BuildView(sch, logs, date(2024, 2, 10))
	if err != nil {
		t.Fatalf("BuildView error: %v", err)
	}
	if view.CurrentPhase == nil || view.CurrentPhase.Phase.Order != 2 {
		t.Fatalf("expected current phase 2")
	}
	if view.TotalCompleted != 3 {
		t.Fatalf("total completed = %d, want 3", view.TotalCompleted)
	}
	if view.TotalExpected != nil {
		t.Fatalf("open-ended plan must have nil total expected")
	}
	if view.Phases[0].CompletedCount != 2 || view.Phases[1].CompletedCount != 1 {
		t.Fatalf("per-phase counts: %d/%d, want 2/1", view.Phases[0].CompletedCount, view.Phases[1].CompletedCount)
	}
}
