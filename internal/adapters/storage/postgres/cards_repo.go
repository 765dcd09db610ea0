package postgres

import (
	"context"
	"database/sql"
	"errors"

	"pet-community/internal/domain/rewards"
)

type CardsRepo struct {
	db *sql.DB
}

func NewCardsRepo(db *sql.DB) *CardsRepo {
	return &CardsRepo{db: db}
}

func (r *CardsRepo) Create(ctx context.Context, c rewards.RewardCard) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reward_cards (
			id, location_name, image_url, caption, helpful_count,
			earned_by, contribution_type, review_id, place_id,
			created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		c.ID, c.LocationName, c.ImageURL, c.Caption, c.HelpfulCount,
		c.EarnedBy, string(c.ContributionType), c.ReviewID, c.PlaceID,
		c.CreatedAt,
	)
	return err
}

func (r *CardsRepo) GetByID(ctx context.Context, id string) (rewards.RewardCard, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, location_name, image_url, caption, helpful_count,
		       earned_by, contribution_type, review_id, place_id, created_at
		FROM reward_cards
		WHERE id = $1
	`, id)

	c, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return rewards.RewardCard{}, rewards.ErrNotFound
	}
	return c, err
}

func (r *CardsRepo) GetByReview(ctx context.Context, reviewID string) (rewards.RewardCard, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, location_name, image_url, caption, helpful_count,
		       earned_by, contribution_type, review_id, place_id, created_at
		FROM reward_cards
		WHERE review_id = $1
	`, reviewID)

	c, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return rewards.RewardCard{}, rewards.ErrNotFound
	}
	return c, err
}

func (r *CardsRepo) ListByUser(ctx context.Context, userID string) ([]rewards.RewardCard, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, location_name, image_url, caption, helpful_count,
		       earned_by, contribution_type, review_id, place_id, created_at
		FROM reward_cards
		WHERE earned_by = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]rewards.RewardCard, 0)
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CardsRepo) AdjustHelpfulByReview(ctx context.Context, reviewID string, delta int) error {
	// GREATEST keeps the counter non-negative; missing card is a no-op.
	_, err := r.db.ExecContext(ctx, `
		UPDATE reward_cards
		SET helpful_count = GREATEST(helpful_count + $2, 0)
		WHERE review_id = $1
	`, reviewID, delta)
	return err
}

func scanCard(row rowScanner) (rewards.RewardCard, error) {
	var (
		c     rewards.RewardCard
		ctype string
	)
	err := row.Scan(
		&c.ID, &c.LocationName, &c.ImageURL, &c.Caption, &c.HelpfulCount,
		&c.EarnedBy, &ctype, &c.ReviewID, &c.PlaceID, &c.CreatedAt,
	)
	if err != nil {
		return rewards.RewardCard{}, err
	}
	c.ContributionType = rewards.ContributionType(ctype)
	return c, nil
}
