package rewards

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-community/internal/domain/pets"
	"pet-community/internal/platform/logger"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("card not found")
)

// PetSource is the slice of the pets service the composer and pipeline
// fallbacks need.
type PetSource interface {
	ListByOwner(ctx context.Context, ownerUserID string) ([]pets.Pet, error)
}

type Service struct {
	repo     Repository
	petSrc   PetSource
	composer *Composer
	pipeline *Pipeline
	log      logger.Logger

	now func() time.Time
}

func NewService(repo Repository, petSrc PetSource, composer *Composer, pipeline *Pipeline, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:     repo,
		petSrc:   petSrc,
		composer: composer,
		pipeline: pipeline,
		log:      log,
		now:      time.Now,
	}
}

// Contribution is a review evaluated for a reward. The review module owns
// its own counts, so it hands them over instead of being queried back.
type Contribution struct {
	ReviewID string
	UserID   string
	UserName string

	PlaceID   string
	PlaceName string
	PlaceType string

	Comment   string
	Tags      []string
	HasRating bool

	// ReviewCountIncludingThis is the author's total at decision time.
	ReviewCountIncludingThis int
}

// Evaluate runs the eligibility rules and, when a card is earned, the
// full generation pipeline. Returns (nil, nil) when no card is earned.
//
// Callers run this after the review write commits; an error here is
// logged and swallowed there and never fails the review.
func (s *Service) Evaluate(ctx context.Context, c Contribution) (*RewardCard, error) {
	if strings.TrimSpace(c.ReviewID) == "" || strings.TrimSpace(c.UserID) == "" {
		return nil, ErrInvalidInput
	}

	valid := ContentValid(ContentInput{
		Comment:   c.Comment,
		Tags:      c.Tags,
		HasRating: c.HasRating,
	})
	ctype, earned := Classify(valid, c.ReviewCountIncludingThis)
	if !earned {
		return nil, nil
	}

	// One card per qualifying review.
	if existing, err := s.repo.GetByReview(ctx, c.ReviewID); err == nil {
		return &existing, nil
	}

	ownedPets, err := s.petSrc.ListByOwner(ctx, c.UserID)
	if err != nil {
		// composer and fallbacks handle an empty list; don't abort
		s.log.Warn("reward: pet lookup failed", map[string]any{
			"user_id": c.UserID, "err": err.Error(),
		})
		ownedPets = nil
	}

	prompt := s.composer.Compose(ctx, ownedPets, c.PlaceType, c.PlaceName)
	imageURL := s.pipeline.ResolveImage(ctx, prompt, c.UserID, ctype, ownedPets)

	card := RewardCard{
		ID:               uuid.NewString(),
		LocationName:     c.PlaceName,
		ImageURL:         imageURL,
		Caption:          pickCaption(s.pipeline.randInt, ctype, c.UserName, c.PlaceName),
		HelpfulCount:     0,
		EarnedBy:         c.UserID,
		ContributionType: ctype,
		ReviewID:         c.ReviewID,
		PlaceID:          c.PlaceID,
		CreatedAt:        s.now(),
	}

	if err := s.repo.Create(ctx, card); err != nil {
		return nil, err
	}

	s.log.Info("reward card minted", map[string]any{
		"card_id": card.ID, "user_id": c.UserID, "contribution_type": string(ctype),
	})

	return &card, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (RewardCard, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return RewardCard{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]RewardCard, error) {
	return s.repo.ListByUser(ctx, userID)
}

// AdjustHelpfulByReview mirrors helpful votes on a review onto its card,
// if one exists. delta is +1 or -1 per distinct voter action.
func (s *Service) AdjustHelpfulByReview(ctx context.Context, reviewID string, delta int) error {
	if strings.TrimSpace(reviewID) == "" || (delta != 1 && delta != -1) {
		return ErrInvalidInput
	}
	return s.repo.AdjustHelpfulByReview(ctx, reviewID, delta)
}
