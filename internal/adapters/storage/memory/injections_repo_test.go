package memory

import (
	"context"
	"strconv"
	"testing"
	"time"

	"health-tracker/internal/domain/injections"
)

func seedLogs(t *testing.T, repo injections.Repository, n int) {
	t.Helper()
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		err := repo.Create(context.Background(), injections.Log{
			ID:         "log-" + strconv.Itoa(i),
			UserID:     "u1",
			Drug:       "tirzepatide",
			Dosage:     "2.5mg",
			InjectedAt: start.AddDate(0, 0, i),
			CreatedAt:  start.AddDate(0, 0, i),
		})
		if err != nil {
			t.Fatalf("seed log %d: %v", i, err)
		}
	}
}

func TestInjectionsRepo_ListByUser_UnlimitedByDefault(t *testing.T) {
	repo := NewInjectionsRepo()
	seedLogs(t, repo, 120)

	// Limit cero = historia completa, no un default inventado
	got, err := repo.ListByUser(context.Background(), "u1", injections.ListFilter{Drug: "tirzepatide"})
	if err != nil {
		t.Fatalf("ListByUser error: %v", err)
	}
	if len(got) != 120 {
		t.Fatalf("expected all 120 logs, got %d", len(got))
	}
}

func TestInjectionsRepo_ListByUser_PositiveLimitTruncates(t *testing.T) {
	repo := NewInjectionsRepo()
	seedLogs(t, repo, 10)

	got, err := repo.ListByUser(context.Background(), "u1", injections.ListFilter{Limit: 3})
	if err != nil {
		t.Fatalf("ListByUser error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 logs, got %d", len(got))
	}
	// Más reciente primero
	if !got[0].InjectedAt.After(got[1].InjectedAt) || !got[1].InjectedAt.After(got[2].InjectedAt) {
		t.Fatalf("expected newest-first order: %v", []time.Time{got[0].InjectedAt, got[1].InjectedAt, got[2].InjectedAt})
	}
}
