package reviews

import "context"

type Repository interface {
	Create(ctx context.Context, r Review) error
	GetByID(ctx context.Context, id string) (Review, error)
	ListByPlace(ctx context.Context, placeID string) ([]Review, error)
	ListByAuthor(ctx context.Context, authorUserID string) ([]Review, error)

	// CountByAuthor is the author's total review count. The reward
	// engine's eligibility rules key off this at decision time.
	CountByAuthor(ctx context.Context, authorUserID string) (int, error)

	// ToggleHelpful flips a voter's helpful mark on a review and returns
	// the new state. One vote per (review, voter); toggling keeps votes
	// distinct by construction.
	ToggleHelpful(ctx context.Context, reviewID, voterUserID string) (bool, error)
}
