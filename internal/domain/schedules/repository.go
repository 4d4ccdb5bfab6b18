package schedules

import "context"

type Repository interface {
	Create(ctx context.Context, s Schedule) error
	// Update reemplaza el schedule completo, fases incluidas.
	Update(ctx context.Context, s Schedule) error
	GetByID(ctx context.Context, id string) (Schedule, error)
	ListByUser(ctx context.Context, userID string) ([]Schedule, error)
	GetActiveByUser(ctx context.Context, userID string) (Schedule, error)

	// Activate deja activo el schedule id y desactiva cualquier otro del
	// usuario, atómicamente. El invariante "a lo sumo uno activo" vive acá.
	Activate(ctx context.Context, id, userID string) error
	Deactivate(ctx context.Context, id string) error

	Delete(ctx context.Context, id string) error
}
