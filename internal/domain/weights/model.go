package weights

import "time"

// Entry es una medición de peso del usuario.
type Entry struct {
	ID     string
	UserID string

	WeightKg float64
	Notes    string

	MeasuredAt time.Time
	CreatedAt  time.Time
}
