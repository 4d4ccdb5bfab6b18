package injections

import "time"

// Log representa una inyección registrada por el usuario.
type Log struct {
	ID     string
	UserID string

	Drug   string
	Dosage string // etiqueta: "2.5mg", "0.5ml"

	InjectionSite string // opcional: "abdomen", "thigh", texto libre
	Notes         string

	InjectedAt time.Time
	CreatedAt  time.Time
}
