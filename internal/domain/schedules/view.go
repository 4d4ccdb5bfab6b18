package schedules

import (
	"time"

	"health-tracker/internal/domain/injections"
)

// View es el armado completo de un schedule para la UI: fases proyectadas
// con sus eventos asignados, fase actual y totales. Derivado, no persistido.
type View struct {
	Schedule Schedule

	Phases       []PhaseView
	CurrentPhase *PhaseView

	TotalCompleted int
	TotalExpected  *int // nil si hay fase indefinida
}

// BuildView proyecta las fases, asigna los logs de inyección (ya filtrados
// por el caller a este usuario/droga) y calcula los totales. Puro: el mismo
// input produce siempre la misma vista.
func BuildView(s Schedule, logs []injections.Log, now time.Time) (View, error) {
	views, err := ProjectPhases(s.Phases, s.StartDate, s.Frequency, now)
	if err != nil {
		return View{}, err
	}

	views = AssignEvents(views, logs)
	completed, expected := Totals(views)

	return View{
		Schedule:       s,
		Phases:         views,
		CurrentPhase:   CurrentPhase(views),
		TotalCompleted: completed,
		TotalExpected:  expected,
	}, nil
}
