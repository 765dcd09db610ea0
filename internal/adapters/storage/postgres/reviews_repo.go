package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"pet-community/internal/domain/reviews"
	"pet-community/internal/domain/reviews/details"
)

type ReviewsRepo struct {
	db *sql.DB
}

func NewReviewsRepo(db *sql.DB) *ReviewsRepo {
	return &ReviewsRepo{db: db}
}

func (r *ReviewsRepo) Create(ctx context.Context, rev reviews.Review) error {
	tags, err := toJSONB(rev.Tags)
	if err != nil {
		return err
	}
	photos, err := toJSONB(rev.PhotoURLs)
	if err != nil {
		return err
	}

	var (
		placeType sql.NullString
		detail    []byte
	)
	if rev.Detail != nil {
		placeType = sql.NullString{String: rev.Detail.PlaceType(), Valid: true}
		if detail, err = json.Marshal(rev.Detail); err != nil {
			return err
		}
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO reviews (
			id, author_user_id, place_id,
			rating, comment, tags, photo_urls,
			detail_place_type, detail,
			created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		rev.ID, rev.AuthorUserID, rev.PlaceID,
		rev.Rating, rev.Comment, tags, photos,
		placeType, detail,
		rev.CreatedAt,
	)
	return err
}

func (r *ReviewsRepo) GetByID(ctx context.Context, id string) (reviews.Review, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, author_user_id, place_id, rating, comment, tags,
		       photo_urls, detail_place_type, detail, created_at
		FROM reviews
		WHERE id = $1
	`, id)

	rev, err := scanReview(row)
	if errors.Is(err, sql.ErrNoRows) {
		return reviews.Review{}, reviews.ErrNotFound
	}
	return rev, err
}

func (r *ReviewsRepo) ListByPlace(ctx context.Context, placeID string) ([]reviews.Review, error) {
	return r.list(ctx, `
		SELECT id, author_user_id, place_id, rating, comment, tags,
		       photo_urls, detail_place_type, detail, created_at
		FROM reviews
		WHERE place_id = $1
		ORDER BY created_at DESC
	`, placeID)
}

func (r *ReviewsRepo) ListByAuthor(ctx context.Context, authorUserID string) ([]reviews.Review, error) {
	return r.list(ctx, `
		SELECT id, author_user_id, place_id, rating, comment, tags,
		       photo_urls, detail_place_type, detail, created_at
		FROM reviews
		WHERE author_user_id = $1
		ORDER BY created_at DESC
	`, authorUserID)
}

func (r *ReviewsRepo) CountByAuthor(ctx context.Context, authorUserID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM reviews WHERE author_user_id = $1
	`, authorUserID).Scan(&n)
	return n, err
}

func (r *ReviewsRepo) ToggleHelpful(ctx context.Context, reviewID, voterUserID string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM reviews WHERE id = $1)
	`, reviewID).Scan(&exists); err != nil {
		return false, err
	}
	if !exists {
		return false, reviews.ErrNotFound
	}

	res, err := tx.ExecContext(ctx, `
		DELETE FROM review_helpful_votes
		WHERE review_id = $1 AND voter_user_id = $2
	`, reviewID, voterUserID)
	if err != nil {
		return false, err
	}

	nowHelpful := false
	if n, _ := res.RowsAffected(); n == 0 {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO review_helpful_votes (review_id, voter_user_id)
			VALUES ($1, $2)
		`, reviewID, voterUserID)
		if err != nil {
			return false, err
		}
		nowHelpful = true
	}

	return nowHelpful, tx.Commit()
}

func (r *ReviewsRepo) list(ctx context.Context, query string, args ...any) ([]reviews.Review, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]reviews.Review, 0)
	for rows.Next() {
		rev, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}

func scanReview(row rowScanner) (reviews.Review, error) {
	var (
		rev       reviews.Review
		tags      []byte
		photos    []byte
		placeType sql.NullString
		detail    []byte
	)
	err := row.Scan(
		&rev.ID, &rev.AuthorUserID, &rev.PlaceID, &rev.Rating, &rev.Comment,
		&tags, &photos, &placeType, &detail, &rev.CreatedAt,
	)
	if err != nil {
		return reviews.Review{}, err
	}

	if rev.Tags, err = fromJSONB[[]string](tags); err != nil {
		return reviews.Review{}, err
	}
	if rev.PhotoURLs, err = fromJSONB[[]string](photos); err != nil {
		return reviews.Review{}, err
	}
	if placeType.Valid && len(detail) > 0 {
		// stored blocks were validated on the way in
		d, err := details.Decode(placeType.String, detail)
		if err != nil {
			return reviews.Review{}, err
		}
		rev.Detail = d
	}
	return rev, nil
}
