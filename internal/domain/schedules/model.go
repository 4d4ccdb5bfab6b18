package schedules

import "time"

// Schedule representa el plan de titulación de un usuario para una droga:
// fases ordenadas + cadencia. A lo sumo un schedule activo por usuario
// (invariante del repositorio, no del proyector).
type Schedule struct {
	ID     string
	UserID string

	Drug      string
	StartDate time.Time // fecha calendario; la hora se ignora
	Frequency Frequency
	IsActive  bool

	Phases []Phase

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Phase es una etapa de dosis del schedule.
// DurationDays nil significa indefinida (solo válida en la última fase).
type Phase struct {
	ID         string
	ScheduleID string

	Order        int // 1..n contiguo
	DurationDays *int
	Dosage       string // etiqueta opaca: "2.5mg", "0.5ml", etc.
}

// Indefinite indica si la fase corre para siempre.
func (p Phase) Indefinite() bool {
	return p.DurationDays == nil
}
