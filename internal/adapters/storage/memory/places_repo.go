package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-community/internal/domain/places"
)

type placeRepo struct {
	mu   sync.RWMutex
	byID map[string]places.Place
}

func NewPlaceRepo() places.Repository {
	return &placeRepo{
		byID: make(map[string]places.Place),
	}
}

func (r *placeRepo) Create(ctx context.Context, p places.Place) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("place id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("place already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *placeRepo) GetByID(ctx context.Context, id string) (places.Place, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return places.Place{}, places.ErrNotFound
	}
	return p, nil
}

func (r *placeRepo) List(ctx context.Context) ([]places.Place, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]places.Place, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *placeRepo) ListByType(ctx context.Context, t places.Type) ([]places.Place, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]places.Place, 0)
	for _, p := range r.byID {
		if p.Type == t {
			out = append(out, p)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}
