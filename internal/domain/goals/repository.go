package goals

import "context"

type Repository interface {
	Create(ctx context.Context, g Goal) error
	Update(ctx context.Context, g Goal) error
	GetByID(ctx context.Context, id string) (Goal, error)
	ListByUser(ctx context.Context, userID string) ([]Goal, error)
	GetActiveByUser(ctx context.Context, userID string) (Goal, error)
}
