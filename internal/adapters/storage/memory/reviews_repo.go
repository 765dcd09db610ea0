package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-community/internal/domain/reviews"
)

type reviewRepo struct {
	mu    sync.Mutex
	byID  map[string]reviews.Review
	votes map[string]map[string]bool // reviewID -> voterUserID -> helpful
}

func NewReviewRepo() reviews.Repository {
	return &reviewRepo{
		byID:  make(map[string]reviews.Review),
		votes: make(map[string]map[string]bool),
	}
}

func (r *reviewRepo) Create(ctx context.Context, rev reviews.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(rev.ID) == "" {
		return errors.New("review id required")
	}
	if _, exists := r.byID[rev.ID]; exists {
		return errors.New("review already exists")
	}
	r.byID[rev.ID] = rev
	return nil
}

func (r *reviewRepo) GetByID(ctx context.Context, id string) (reviews.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rev, ok := r.byID[id]
	if !ok {
		return reviews.Review{}, reviews.ErrNotFound
	}
	return rev, nil
}

func (r *reviewRepo) ListByPlace(ctx context.Context, placeID string) ([]reviews.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]reviews.Review, 0)
	for _, rev := range r.byID {
		if rev.PlaceID == placeID {
			out = append(out, rev)
		}
	}
	sortByCreated(out)
	return out, nil
}

func (r *reviewRepo) ListByAuthor(ctx context.Context, authorUserID string) ([]reviews.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]reviews.Review, 0)
	for _, rev := range r.byID {
		if rev.AuthorUserID == authorUserID {
			out = append(out, rev)
		}
	}
	sortByCreated(out)
	return out, nil
}

func (r *reviewRepo) CountByAuthor(ctx context.Context, authorUserID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, rev := range r.byID {
		if rev.AuthorUserID == authorUserID {
			n++
		}
	}
	return n, nil
}

func (r *reviewRepo) ToggleHelpful(ctx context.Context, reviewID, voterUserID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[reviewID]; !ok {
		return false, reviews.ErrNotFound
	}

	voters, ok := r.votes[reviewID]
	if !ok {
		voters = make(map[string]bool)
		r.votes[reviewID] = voters
	}

	if voters[voterUserID] {
		delete(voters, voterUserID)
		return false, nil
	}
	voters[voterUserID] = true
	return true, nil
}

func sortByCreated(out []reviews.Review) {
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
}
