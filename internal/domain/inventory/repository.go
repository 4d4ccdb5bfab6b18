package inventory

import "context"

type Repository interface {
	Create(ctx context.Context, i Item) error
	Update(ctx context.Context, i Item) error
	GetByID(ctx context.Context, id string) (Item, error)
	ListByUser(ctx context.Context, userID string) ([]Item, error)
	Delete(ctx context.Context, id string) error
}
