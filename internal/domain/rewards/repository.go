package rewards

import "context"

type Repository interface {
	Create(ctx context.Context, c RewardCard) error
	GetByID(ctx context.Context, id string) (RewardCard, error)
	GetByReview(ctx context.Context, reviewID string) (RewardCard, error)
	ListByUser(ctx context.Context, userID string) ([]RewardCard, error)

	// AdjustHelpfulByReview shifts the helpful counter of the card minted
	// for a review. The count never goes below zero. Missing card is not
	// an error; most reviews have no card.
	AdjustHelpfulByReview(ctx context.Context, reviewID string, delta int) error
}
