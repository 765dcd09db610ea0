package users

import "context"

type Repository interface {
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, id string) (User, error)
	// UpdateLocation overwrites the user's last known location.
	UpdateLocation(ctx context.Context, id string, loc Location) error
	// ListWithLocation returns every user that has a stored location.
	ListWithLocation(ctx context.Context) ([]User, error)
}
