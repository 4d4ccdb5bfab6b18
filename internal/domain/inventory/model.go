package inventory

import "time"

// Item es una unidad de stock del usuario: un pen, vial o caja,
// con cuántas dosis trae y cuántas ya se usaron.
type Item struct {
	ID     string
	UserID string

	Drug  string
	Label string // "Pen 2.5mg", "Vial 10ml", texto libre

	TotalDoses int
	UsedDoses  int

	AcquiredAt time.Time
	ExpiresAt  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RemainingDoses es derivado, nunca persistido.
func (i Item) RemainingDoses() int {
	r := i.TotalDoses - i.UsedDoses
	if r < 0 {
		return 0
	}
	return r
}

// Depleted indica que no quedan dosis.
func (i Item) Depleted() bool {
	return i.RemainingDoses() == 0
}
