package places

import "context"

type Repository interface {
	Create(ctx context.Context, p Place) error
	GetByID(ctx context.Context, id string) (Place, error)
	List(ctx context.Context) ([]Place, error)
	// ListByType returns every place of the given type.
	ListByType(ctx context.Context, t Type) ([]Place, error)
}
