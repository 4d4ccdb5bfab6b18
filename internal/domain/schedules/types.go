package schedules

// Frequency define la cadencia de dosis soportada.
// @Enum daily, every_3_days, weekly, every_2_weeks, monthly
type Frequency string

const (
	FrequencyDaily       Frequency = "daily"
	FrequencyEvery3Days  Frequency = "every_3_days"
	FrequencyWeekly      Frequency = "weekly"
	FrequencyEvery2Weeks Frequency = "every_2_weeks"
	FrequencyMonthly     Frequency = "monthly"
)

// IntervalDays mapea la frecuencia a días entre dosis.
// Valores no reconocidos caen a 7 (semanal) en vez de error:
// preservamos el default silencioso que espera el frontend.
func (f Frequency) IntervalDays() int {
	switch f {
	case FrequencyDaily:
		return 1
	case FrequencyEvery3Days:
		return 3
	case FrequencyWeekly:
		return 7
	case FrequencyEvery2Weeks:
		return 14
	case FrequencyMonthly:
		return 30
	default:
		return 7
	}
}

// IsKnown indica si la frecuencia es una de las enumeradas.
// Se usa solo para validación al crear/editar; la proyección nunca falla
// por frecuencia desconocida.
func (f Frequency) IsKnown() bool {
	switch f {
	case FrequencyDaily, FrequencyEvery3Days, FrequencyWeekly, FrequencyEvery2Weeks, FrequencyMonthly:
		return true
	}
	return false
}

// PhaseStatus es el estado derivado de una fase respecto a "now".
// Para fases finitas: upcoming -> current -> completed (monótono en el tiempo).
// La fase indefinida nunca pasa a completed.
// @Enum upcoming, current, completed
type PhaseStatus string

const (
	PhaseUpcoming  PhaseStatus = "upcoming"
	PhaseCurrent   PhaseStatus = "current"
	PhaseCompleted PhaseStatus = "completed"
)
