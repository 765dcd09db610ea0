package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-community/internal/domain/rewards"
)

type cardRepo struct {
	mu       sync.Mutex
	byID     map[string]rewards.RewardCard
	byReview map[string]string // reviewID -> cardID
}

func NewCardRepo() rewards.Repository {
	return &cardRepo{
		byID:     make(map[string]rewards.RewardCard),
		byReview: make(map[string]string),
	}
}

func (r *cardRepo) Create(ctx context.Context, c rewards.RewardCard) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(c.ID) == "" {
		return errors.New("card id required")
	}
	if _, exists := r.byID[c.ID]; exists {
		return errors.New("card already exists")
	}
	if _, exists := r.byReview[c.ReviewID]; c.ReviewID != "" && exists {
		return errors.New("card already minted for review")
	}

	r.byID[c.ID] = c
	if c.ReviewID != "" {
		r.byReview[c.ReviewID] = c.ID
	}
	return nil
}

func (r *cardRepo) GetByID(ctx context.Context, id string) (rewards.RewardCard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byID[id]
	if !ok {
		return rewards.RewardCard{}, rewards.ErrNotFound
	}
	return c, nil
}

func (r *cardRepo) GetByReview(ctx context.Context, reviewID string) (rewards.RewardCard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byReview[reviewID]
	if !ok {
		return rewards.RewardCard{}, rewards.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *cardRepo) ListByUser(ctx context.Context, userID string) ([]rewards.RewardCard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]rewards.RewardCard, 0)
	for _, c := range r.byID {
		if c.EarnedBy == userID {
			out = append(out, c)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

func (r *cardRepo) AdjustHelpfulByReview(ctx context.Context, reviewID string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byReview[reviewID]
	if !ok {
		// most reviews have no card; nothing to mirror
		return nil
	}

	c := r.byID[id]
	c.HelpfulCount += delta
	if c.HelpfulCount < 0 {
		c.HelpfulCount = 0
	}
	r.byID[id] = c
	return nil
}
