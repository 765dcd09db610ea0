package places

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("place not found")
)

// upsertMatchDegrees is the match window for the find-or-create upsert,
// roughly 100 m on each axis.
const upsertMatchDegrees = 0.0009

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name    string
	Type    string
	Lat     float64
	Lng     float64
	Address string
}

func (s *Service) Create(ctx context.Context, createdBy string, in CreateInput) (Place, error) {
	p, err := s.build(createdBy, in)
	if err != nil {
		return Place{}, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return Place{}, err
	}
	return p, nil
}

// Upsert finds an existing place of the same type within ~100 m, else
// creates one. Idempotent; review submission calls this instead of
// creating places inline.
func (s *Service) Upsert(ctx context.Context, createdBy string, in CreateInput) (Place, error) {
	p, err := s.build(createdBy, in)
	if err != nil {
		return Place{}, err
	}

	existing, err := s.repo.ListByType(ctx, p.Type)
	if err != nil {
		return Place{}, err
	}
	for _, e := range existing {
		if abs(e.Lat-p.Lat) <= upsertMatchDegrees && abs(e.Lng-p.Lng) <= upsertMatchDegrees {
			return e, nil
		}
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Place{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Place, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Place{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Place, error) {
	return s.repo.List(ctx)
}

func (s *Service) build(createdBy string, in CreateInput) (Place, error) {
	if strings.TrimSpace(createdBy) == "" {
		return Place{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Place{}, ErrInvalidInput
	}
	t := Type(strings.TrimSpace(in.Type))
	if !ValidType(t) {
		return Place{}, ErrInvalidInput
	}
	if in.Lat < -90 || in.Lat > 90 || in.Lng < -180 || in.Lng > 180 {
		return Place{}, ErrInvalidInput
	}

	now := s.now()
	return Place{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Type:      t,
		Lat:       in.Lat,
		Lng:       in.Lng,
		Address:   strings.TrimSpace(in.Address),
		CreatedBy: strings.TrimSpace(createdBy),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
