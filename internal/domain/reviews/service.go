package reviews

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"pet-community/internal/domain/places"
	"pet-community/internal/domain/reviews/details"
	"pet-community/internal/domain/rewards"
	"pet-community/internal/platform/logger"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("review not found")
)

const rewardDispatchTimeout = 60 * time.Second

// PlaceResolver is the slice of the places service review submission
// needs: load by id, or find-or-create from raw place data.
type PlaceResolver interface {
	GetByID(ctx context.Context, id string) (places.Place, error)
	Upsert(ctx context.Context, createdBy string, in places.CreateInput) (places.Place, error)
}

// RewardEngine mints cards for qualifying contributions and mirrors
// helpful votes. Both calls are best-effort from this module's point of
// view: their failures never fail a review write.
type RewardEngine interface {
	Evaluate(ctx context.Context, c rewards.Contribution) (*rewards.RewardCard, error)
	AdjustHelpfulByReview(ctx context.Context, reviewID string, delta int) error
}

// UserNames resolves display names for captions.
type UserNames interface {
	DisplayNameOf(ctx context.Context, userID string) (string, error)
}

type Service struct {
	repo    Repository
	placeRs PlaceResolver
	rewards RewardEngine
	names   UserNames
	log     logger.Logger

	now func() time.Time

	// dispatch runs post-commit work. Tests swap it for an inline call.
	dispatch func(fn func())
}

func NewService(repo Repository, placeRs PlaceResolver, rewards RewardEngine, names UserNames, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:     repo,
		placeRs:  placeRs,
		rewards:  rewards,
		names:    names,
		log:      log,
		now:      time.Now,
		dispatch: func(fn func()) { go fn() },
	}
}

// NewPlace is raw place data sent along with a review when the place is
// not registered yet. It goes through the idempotent place upsert.
type NewPlace struct {
	Name    string
	Type    string
	Lat     float64
	Lng     float64
	Address string
}

type CreateInput struct {
	// One of PlaceID or Place is required.
	PlaceID string
	Place   *NewPlace

	Rating    int
	Comment   string
	Tags      []string
	PhotoURLs []string

	// RawDetail is decoded against the place's type.
	RawDetail json.RawMessage
}

// Create validates and persists the review, then kicks off reward
// evaluation. The review is the primary entity: once its write commits,
// the caller sees success no matter what the reward engine does.
func (s *Service) Create(ctx context.Context, authorUserID string, in CreateInput) (Review, error) {
	if strings.TrimSpace(authorUserID) == "" {
		return Review{}, ErrInvalidInput
	}
	if in.Rating < 1 || in.Rating > 5 {
		return Review{}, ErrInvalidInput
	}

	place, err := s.resolvePlace(ctx, authorUserID, in)
	if err != nil {
		return Review{}, err
	}

	detail, err := details.Decode(string(place.Type), in.RawDetail)
	if err != nil {
		return Review{}, errors.Join(ErrInvalidInput, err)
	}

	tags := make([]string, 0, len(in.Tags))
	for _, t := range in.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}

	r := Review{
		ID:           uuid.NewString(),
		AuthorUserID: strings.TrimSpace(authorUserID),
		PlaceID:      place.ID,
		Rating:       in.Rating,
		Comment:      strings.TrimSpace(in.Comment),
		Tags:         tags,
		PhotoURLs:    in.PhotoURLs,
		Detail:       detail,
		CreatedAt:    s.now(),
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return Review{}, err
	}

	count, err := s.repo.CountByAuthor(ctx, r.AuthorUserID)
	if err != nil {
		// eligibility can't run without a count; the review stands
		s.log.Warn("review count failed, skipping reward evaluation", map[string]any{
			"review_id": r.ID, "err": err.Error(),
		})
		return r, nil
	}

	s.dispatch(func() { s.evaluateReward(r, place, count) })

	return r, nil
}

func (s *Service) resolvePlace(ctx context.Context, authorUserID string, in CreateInput) (places.Place, error) {
	if strings.TrimSpace(in.PlaceID) != "" {
		p, err := s.placeRs.GetByID(ctx, in.PlaceID)
		if err != nil {
			return places.Place{}, errors.Join(ErrInvalidInput, err)
		}
		return p, nil
	}
	if in.Place == nil {
		return places.Place{}, ErrInvalidInput
	}
	p, err := s.placeRs.Upsert(ctx, authorUserID, places.CreateInput{
		Name:    in.Place.Name,
		Type:    in.Place.Type,
		Lat:     in.Place.Lat,
		Lng:     in.Place.Lng,
		Address: in.Place.Address,
	})
	if err != nil {
		return places.Place{}, errors.Join(ErrInvalidInput, err)
	}
	return p, nil
}

// evaluateReward runs after the review committed. Log-and-swallow only.
func (s *Service) evaluateReward(r Review, place places.Place, countIncludingThis int) {
	if s.rewards == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), rewardDispatchTimeout)
	defer cancel()

	userName := ""
	if s.names != nil {
		if n, err := s.names.DisplayNameOf(ctx, r.AuthorUserID); err == nil {
			userName = n
		}
	}
	if userName == "" {
		userName = "A neighbor"
	}

	_, err := s.rewards.Evaluate(ctx, rewards.Contribution{
		ReviewID:                 r.ID,
		UserID:                   r.AuthorUserID,
		UserName:                 userName,
		PlaceID:                  place.ID,
		PlaceName:                place.Name,
		PlaceType:                string(place.Type),
		Comment:                  r.Comment,
		Tags:                     r.Tags,
		HasRating:                r.Rating > 0,
		ReviewCountIncludingThis: countIncludingThis,
	})
	if err != nil {
		s.log.Warn("reward evaluation failed", map[string]any{
			"review_id": r.ID, "err": err.Error(),
		})
	}
}

func (s *Service) GetByID(ctx context.Context, id string) (Review, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Review{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByPlace(ctx context.Context, placeID string) ([]Review, error) {
	return s.repo.ListByPlace(ctx, placeID)
}

func (s *Service) ListByAuthor(ctx context.Context, authorUserID string) ([]Review, error) {
	return s.repo.ListByAuthor(ctx, authorUserID)
}

// ToggleHelpful flips the voter's mark and mirrors the change onto the
// review's reward card, if any. The vote is the primary write; the card
// counter is best-effort.
func (s *Service) ToggleHelpful(ctx context.Context, reviewID, voterUserID string) (bool, error) {
	if strings.TrimSpace(reviewID) == "" || strings.TrimSpace(voterUserID) == "" {
		return false, ErrInvalidInput
	}

	nowHelpful, err := s.repo.ToggleHelpful(ctx, reviewID, voterUserID)
	if err != nil {
		return false, err
	}

	if s.rewards != nil {
		delta := -1
		if nowHelpful {
			delta = 1
		}
		if err := s.rewards.AdjustHelpfulByReview(ctx, reviewID, delta); err != nil {
			s.log.Warn("helpful mirror to card failed", map[string]any{
				"review_id": reviewID, "err": err.Error(),
			})
		}
	}

	return nowHelpful, nil
}
