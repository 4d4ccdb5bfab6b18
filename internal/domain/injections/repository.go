package injections

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, l Log) error
	GetByID(ctx context.Context, id string) (Log, error)
	ListByUser(ctx context.Context, userID string, filter ListFilter) ([]Log, error)

	// LatestByDrug devuelve la inyección más reciente de (userID, drug)
	// ordenada por injected_at descendente, limit 1.
	LatestByDrug(ctx context.Context, userID, drug string) (Log, error)

	Delete(ctx context.Context, id string) error
}

type ListFilter struct {
	Drug string
	From *time.Time
	To   *time.Time
	// Limit <= 0 = sin límite. El proyector de fases cuenta dosis sobre la
	// historia completa; truncar acá rompería los totales por fase.
	Limit int
}
