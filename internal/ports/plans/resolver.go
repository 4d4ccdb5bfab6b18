package plans

import "context"

// Limits son los topes del plan del usuario. Cero = sin tope.
type Limits struct {
	MaxSchedules      int
	MaxInventoryItems int
}

// Resolver consulta los topes del plan de un usuario.
type Resolver interface {
	LimitsFor(ctx context.Context, userID string) (Limits, error)
}
