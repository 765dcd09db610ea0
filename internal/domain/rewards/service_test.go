package rewards

import (
	"context"
	"strings"
	"testing"
	"time"

	"pet-community/internal/domain/pets"
)

type testCardRepo struct {
	byID     map[string]RewardCard
	byReview map[string]string
}

func newTestCardRepo() *testCardRepo {
	return &testCardRepo{byID: map[string]RewardCard{}, byReview: map[string]string{}}
}

func (r *testCardRepo) Create(ctx context.Context, c RewardCard) error {
	r.byID[c.ID] = c
	r.byReview[c.ReviewID] = c.ID
	return nil
}

func (r *testCardRepo) GetByID(ctx context.Context, id string) (RewardCard, error) {
	c, ok := r.byID[id]
	if !ok {
		return RewardCard{}, ErrNotFound
	}
	return c, nil
}

func (r *testCardRepo) GetByReview(ctx context.Context, reviewID string) (RewardCard, error) {
	id, ok := r.byReview[reviewID]
	if !ok {
		return RewardCard{}, ErrNotFound
	}
	return r.byID[id], nil
}

func (r *testCardRepo) ListByUser(ctx context.Context, userID string) ([]RewardCard, error) {
	out := make([]RewardCard, 0)
	for _, c := range r.byID {
		if c.EarnedBy == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *testCardRepo) AdjustHelpfulByReview(ctx context.Context, reviewID string, delta int) error {
	id, ok := r.byReview[reviewID]
	if !ok {
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

type fakePetSource struct {
	pets []pets.Pet
}

func (f *fakePetSource) ListByOwner(ctx context.Context, ownerUserID string) ([]pets.Pet, error) {
	return f.pets, nil
}

func newRewardService(repo *testCardRepo, petSrc *fakePetSource) *Service {
	if petSrc == nil {
		petSrc = &fakePetSource{}
	}
	composer := NewComposer(nil, func(int) int { return 0 })
	pipeline := NewPipeline(nil, nil, nil, nil) // everything falls back
	pipeline.randInt = func(int) int { return 0 }
	svc := NewService(repo, petSrc, composer, pipeline, nil)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func qualifyingContribution() Contribution {
	return Contribution{
		ReviewID:                 "rev-1",
		UserID:                   "u1",
		UserName:                 "Ana",
		PlaceID:                  "p1",
		PlaceName:                "Wiggly Field",
		PlaceType:                "dog_park",
		Comment:                  "Great park, plenty of shade and water for the dogs.",
		HasRating:                true,
		ReviewCountIncludingThis: 1,
	}
}

func TestEvaluate_FirstReviewMintsCard(t *testing.T) {
	repo := newTestCardRepo()
	svc := newRewardService(repo, nil)

	card, err := svc.Evaluate(context.Background(), qualifyingContribution())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if card == nil {
		t.Fatalf("expected a card")
	}
	if card.ContributionType != ContributionFirstReview {
		t.Fatalf("got type %s", card.ContributionType)
	}
	if card.ImageURL == "" {
		t.Fatalf("card minted without an image reference")
	}
	if card.LocationName != "Wiggly Field" || card.EarnedBy != "u1" || card.ReviewID != "rev-1" {
		t.Fatalf("card fields wrong: %+v", card)
	}
	if !strings.Contains(card.Caption, "Ana") || !strings.Contains(card.Caption, "Wiggly Field") {
		t.Fatalf("caption not personalized: %q", card.Caption)
	}
	if card.HelpfulCount != 0 {
		t.Fatalf("new card should start at zero helpful votes")
	}
}

func TestEvaluate_SecondReviewEarnsNothing(t *testing.T) {
	repo := newTestCardRepo()
	svc := newRewardService(repo, nil)

	c := qualifyingContribution()
	c.ReviewCountIncludingThis = 2

	card, err := svc.Evaluate(context.Background(), c)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if card != nil {
		t.Fatalf("second review should not mint, got %+v", card)
	}
	if len(repo.byID) != 0 {
		t.Fatalf("no card should be stored")
	}
}

func TestEvaluate_IsIdempotentPerReview(t *testing.T) {
	repo := newTestCardRepo()
	svc := newRewardService(repo, nil)
	ctx := context.Background()

	first, err := svc.Evaluate(ctx, qualifyingContribution())
	if err != nil || first == nil {
		t.Fatalf("first evaluate: card=%v err=%v", first, err)
	}

	second, err := svc.Evaluate(ctx, qualifyingContribution())
	if err != nil {
		t.Fatalf("second evaluate: %v", err)
	}
	if second == nil || second.ID != first.ID {
		t.Fatalf("re-evaluation must return the existing card, got %+v", second)
	}
	if len(repo.byID) != 1 {
		t.Fatalf("expected 1 stored card, got %d", len(repo.byID))
	}
}

func TestEvaluate_PipelineFallbackUsesPetPhoto(t *testing.T) {
	repo := newTestCardRepo()
	svc := newRewardService(repo, &fakePetSource{pets: []pets.Pet{
		{Name: "Milo", PhotoURL: "https://photos.example.com/milo.jpg"},
	}})

	card, err := svc.Evaluate(context.Background(), qualifyingContribution())
	if err != nil || card == nil {
		t.Fatalf("evaluate: card=%v err=%v", card, err)
	}
	if card.ImageURL != "https://photos.example.com/milo.jpg" {
		t.Fatalf("expected pet photo fallback, got %q", card.ImageURL)
	}
}

func TestEvaluate_InvalidContribution(t *testing.T) {
	svc := newRewardService(newTestCardRepo(), nil)

	c := qualifyingContribution()
	c.ReviewID = ""
	if _, err := svc.Evaluate(context.Background(), c); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAdjustHelpfulByReview(t *testing.T) {
	repo := newTestCardRepo()
	svc := newRewardService(repo, nil)
	ctx := context.Background()

	card, _ := svc.Evaluate(ctx, qualifyingContribution())
	if card == nil {
		t.Fatalf("setup: no card")
	}

	if err := svc.AdjustHelpfulByReview(ctx, "rev-1", 1); err != nil {
		t.Fatalf("adjust +1: %v", err)
	}
	if got, _ := svc.GetByID(ctx, card.ID); got.HelpfulCount != 1 {
		t.Fatalf("expected 1, got %d", got.HelpfulCount)
	}

	// Clamped at zero.
	for i := 0; i < 3; i++ {
		if err := svc.AdjustHelpfulByReview(ctx, "rev-1", -1); err != nil {
			t.Fatalf("adjust -1: %v", err)
		}
	}
	if got, _ := svc.GetByID(ctx, card.ID); got.HelpfulCount != 0 {
		t.Fatalf("count must clamp at zero, got %d", got.HelpfulCount)
	}

	// No card for the review: silent no-op.
	if err := svc.AdjustHelpfulByReview(ctx, "rev-without-card", 1); err != nil {
		t.Fatalf("no-op adjust: %v", err)
	}

	// Only unit deltas are legal.
	if err := svc.AdjustHelpfulByReview(ctx, "rev-1", 5); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for delta 5, got %v", err)
	}
}
