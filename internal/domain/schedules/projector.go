package schedules

import (
	"fmt"
	"math"
	"sort"
	"time"

	"health-tracker/internal/domain/injections"
)

// Este archivo es el único lugar donde vive la aritmética de fases.
// Antes estaba re-implementada (copy-paste) en el handler de next-dose,
// en el armado de la vista y en los badges del frontend; todos ahora
// dependen de estas funciones puras. Sin I/O, sin estado: todo es
// función de (fases, startDate, frecuencia, now) + eventos.

// PhaseView es la proyección derivada de una fase: fechas concretas,
// estado respecto a "now" y conteos de dosis. No se persiste.
type PhaseView struct {
	Phase Phase

	StartDate time.Time
	EndDate   *time.Time // nil si la fase es indefinida

	Status PhaseStatus

	// ExpectedCount = ceil(durationDays / intervalDays); nil si indefinida.
	ExpectedCount  *int
	CompletedCount int

	AssignedEvents []injections.Log
}

// DoseSuggestion es el resultado de NextSuggestedDose.
type DoseSuggestion struct {
	SuggestedDate time.Time
	IsOverdue     bool
	DaysUntilDue  int
	CurrentPhase  *PhaseView // nil si el schedule aún no empieza
}

// ProjectPhases calcula inicio/fin/estado de cada fase caminando en orden
// y acumulando días desde startDate. Semántica de fin inclusivo: una fase
// de 28 días cubre los días 0..27 desde su inicio.
//
// Falla con error de validación si una fase no-final tiene duración nil
// o si alguna duración no es positiva. Con input válido nunca falla:
// "ninguna fase current" es un resultado normal, no un error.
func ProjectPhases(phases []Phase, startDate time.Time, freq Frequency, now time.Time) ([]PhaseView, error) {
	if len(phases) == 0 {
		return nil, fmt.Errorf("schedule has no phases")
	}

	ordered := make([]Phase, len(phases))
	copy(ordered, phases)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Order < ordered[j].Order
	})

	for i, p := range ordered {
		if p.DurationDays == nil {
			if i != len(ordered)-1 {
				return nil, fmt.Errorf("phase %d: only the last phase may have an open-ended duration", p.Order)
			}
			continue
		}
		if *p.DurationDays <= 0 {
			return nil, fmt.Errorf("phase %d: duration must be a positive number of days", p.Order)
		}
	}

	start := dateOnly(startDate)
	today := dateOnly(now)
	interval := freq.IntervalDays()

	out := make([]PhaseView, 0, len(ordered))
	cumulativeDays := 0

	for _, p := range ordered {
		phaseStart := start.AddDate(0, 0, cumulativeDays)

		v := PhaseView{
			Phase:     p,
			StartDate: phaseStart,
		}

		if p.DurationDays == nil {
			// Fase indefinida: nunca termina, nunca se completa.
			if !today.Before(phaseStart) {
				v.Status = PhaseCurrent
			} else {
				v.Status = PhaseUpcoming
			}
		} else {
			d := *p.DurationDays
			phaseEnd := phaseStart.AddDate(0, 0, d-1)
			v.EndDate = &phaseEnd

			expected := (d + interval - 1) / interval // ceil(d/interval)
			v.ExpectedCount = &expected

			switch {
			case today.After(phaseEnd):
				v.Status = PhaseCompleted
			case !today.Before(phaseStart):
				v.Status = PhaseCurrent
			default:
				v.Status = PhaseUpcoming
			}

			cumulativeDays += d
		}

		out = append(out, v)
	}

	return out, nil
}

// CurrentPhase devuelve un puntero a la fase current dentro de views,
// o nil si no hay (antes del inicio, o schedule finito ya terminado).
// El caller debe tratar nil como resultado válido.
func CurrentPhase(views []PhaseView) *PhaseView {
	for i := range views {
		if views[i].Status == PhaseCurrent {
			return &views[i]
		}
	}
	return nil
}

// AssignEvents asigna cada evento a la única fase cuyo rango de fechas
// contiene su datetime (fase indefinida: datetime >= inicio). Eventos
// anteriores a la primera fase quedan sin asignar; se descartan, no es error.
// Es idempotente: resetea asignaciones previas antes de recalcular.
func AssignEvents(views []PhaseView, events []injections.Log) []PhaseView {
	for i := range views {
		views[i].AssignedEvents = nil
		views[i].CompletedCount = 0
	}

	for _, e := range events {
		day := dateOnly(e.InjectedAt)

		for i := range views {
			if day.Before(views[i].StartDate) {
				continue
			}
			if views[i].EndDate != nil && day.After(*views[i].EndDate) {
				continue
			}

			views[i].AssignedEvents = append(views[i].AssignedEvents, e)
			views[i].CompletedCount++
			break
		}
	}

	return views
}

// Totals suma conteos sobre todo el schedule. totalExpected es nil si
// alguna fase es indefinida: no se puede acotar un plan abierto.
func Totals(views []PhaseView) (totalCompleted int, totalExpected *int) {
	expected := 0
	bounded := true

	for _, v := range views {
		totalCompleted += v.CompletedCount
		if v.ExpectedCount == nil {
			bounded = false
			continue
		}
		expected += *v.ExpectedCount
	}

	if !bounded {
		return totalCompleted, nil
	}
	return totalCompleted, &expected
}

// NextSuggestedDose proyecta la próxima dosis esperada.
//   - sin inyección previa: max(now, startDate) — quien nunca se inyectó
//     debe dosis apenas arranca el schedule, nunca "en el futuro" vs hoy.
//   - con inyección previa: última inyección + intervalo.
//
// Devuelve nil (sin error) si no hay dosis que sugerir: schedule sin fases
// o completamente terminado sin cola indefinida. lastInjection viene
// pre-consultado por el caller; acá no hay I/O.
func NextSuggestedDose(s Schedule, lastInjection *time.Time, now time.Time) (*DoseSuggestion, error) {
	if len(s.Phases) == 0 {
		return nil, nil
	}

	views, err := ProjectPhases(s.Phases, s.StartDate, s.Frequency, now)
	if err != nil {
		return nil, err
	}

	cur := CurrentPhase(views)
	if cur == nil {
		// Antes del inicio igual sugerimos (clavada al startDate, abajo).
		// Después del final ya no hay nada que sugerir.
		if !dateOnly(now).Before(dateOnly(s.StartDate)) {
			return nil, nil
		}
	}

	var suggested time.Time
	if lastInjection == nil {
		suggested = s.StartDate
		if now.After(suggested) {
			suggested = now
		}
	} else {
		suggested = lastInjection.AddDate(0, 0, s.Frequency.IntervalDays())
	}

	// Convención única: round (no floor) para el corte due/overdue.
	days := int(math.Round(suggested.Sub(now).Hours() / 24))

	return &DoseSuggestion{
		SuggestedDate: suggested,
		IsOverdue:     days < 0,
		DaysUntilDue:  days,
		CurrentPhase:  cur,
	}, nil
}

// dateOnly trunca a medianoche conservando la zona. Toda la aritmética
// de fases es a granularidad de día calendario.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
