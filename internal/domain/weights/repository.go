package weights

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, e Entry) error
	GetByID(ctx context.Context, id string) (Entry, error)
	// ListByUser devuelve entradas ordenadas por measured_at ascendente.
	ListByUser(ctx context.Context, userID string, filter ListFilter) ([]Entry, error)
	Latest(ctx context.Context, userID string) (Entry, error)
	Delete(ctx context.Context, id string) error
}

type ListFilter struct {
	From  *time.Time
	To    *time.Time
	Limit int
}
