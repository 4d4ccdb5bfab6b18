package stats

import (
	"context"
	"errors"
	"time"

	"health-tracker/internal/domain/injections"
	"health-tracker/internal/domain/schedules"
	"health-tracker/internal/domain/weights"
)

// stats no tiene repositorio propio: arma un resumen de solo-lectura
// sobre los otros módulos. La adherencia reutiliza el proyector de fases
// en vez de re-derivar la aritmética de fechas.

const defaultWindowDays = 30

type Service struct {
	schedulesSvc  *schedules.Service
	injectionsSvc *injections.Service
	weightsSvc    *weights.Service
	now           func() time.Time
}

func NewService(schedulesSvc *schedules.Service, injectionsSvc *injections.Service, weightsSvc *weights.Service) *Service {
	return &Service{
		schedulesSvc:  schedulesSvc,
		injectionsSvc: injectionsSvc,
		weightsSvc:    weightsSvc,
		now:           time.Now,
	}
}

// Summary es el resumen del dashboard. Weight y Adherence pueden ser nil:
// sin mediciones en la ventana, o sin schedule activo, no hay nada que
// resumir y eso no es un error.
type Summary struct {
	WindowDays int
	Weight     *WeightTrend
	Adherence  *Adherence
}

type WeightTrend struct {
	Entries int
	FirstKg float64
	LastKg  float64
	DeltaKg float64
	From    time.Time
	To      time.Time
}

// PhaseBadge es el estado de una fase para pintar en la UI.
type PhaseBadge struct {
	Order  int
	Dosage string
	Status schedules.PhaseStatus
}

type Adherence struct {
	ScheduleID string
	Drug       string

	TotalCompleted int
	TotalExpected  *int // nil si el plan tiene fase indefinida

	CurrentPhaseOrder *int
	PhaseBadges       []PhaseBadge
}

func (s *Service) Summary(ctx context.Context, userID string, windowDays int) (Summary, error) {
	if windowDays <= 0 {
		windowDays = defaultWindowDays
	}

	now := s.now()
	out := Summary{WindowDays: windowDays}

	trend, err := s.weightTrend(ctx, userID, windowDays, now)
	if err != nil {
		return Summary{}, err
	}
	out.Weight = trend

	adh, err := s.adherence(ctx, userID, now)
	if err != nil {
		return Summary{}, err
	}
	out.Adherence = adh

	return out, nil
}

func (s *Service) weightTrend(ctx context.Context, userID string, windowDays int, now time.Time) (*WeightTrend, error) {
	from := now.AddDate(0, 0, -windowDays)

	entries, err := s.weightsSvc.ListByUser(ctx, userID, weights.ListFilter{From: &from})
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	// El repo garantiza orden ascendente por measured_at.
	first := entries[0]
	last := entries[len(entries)-1]

	return &WeightTrend{
		Entries: len(entries),
		FirstKg: first.WeightKg,
		LastKg:  last.WeightKg,
		DeltaKg: last.WeightKg - first.WeightKg,
		From:    first.MeasuredAt,
		To:      last.MeasuredAt,
	}, nil
}

func (s *Service) adherence(ctx context.Context, userID string, now time.Time) (*Adherence, error) {
	sch, err := s.schedulesSvc.GetActive(ctx, userID)
	if err != nil {
		if errors.Is(err, schedules.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	logs, err := s.injectionsSvc.ListByUser(ctx, userID, injections.ListFilter{Drug: sch.Drug})
	if err != nil {
		return nil, err
	}

	view, err := schedules.BuildView(sch, logs, now)
	if err != nil {
		return nil, err
	}

	adh := &Adherence{
		ScheduleID:     sch.ID,
		Drug:           sch.Drug,
		TotalCompleted: view.TotalCompleted,
		TotalExpected:  view.TotalExpected,
		PhaseBadges:    make([]PhaseBadge, 0, len(view.Phases)),
	}

	for _, pv := range view.Phases {
		adh.PhaseBadges = append(adh.PhaseBadges, PhaseBadge{
			Order:  pv.Phase.Order,
			Dosage: pv.Phase.Dosage,
			Status: pv.Status,
		})
	}

	if view.CurrentPhase != nil {
		o := view.CurrentPhase.Phase.Order
		adh.CurrentPhaseOrder = &o
	}

	return adh, nil
}
