package places

import (
	"context"
	"testing"
	"time"
)

type testRepo struct {
	byID map[string]Place
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Place{}}
}

func (r *testRepo) Create(ctx context.Context, p Place) error {
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Place, error) {
	p, ok := r.byID[id]
	if !ok {
		return Place{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) List(ctx context.Context) ([]Place, error) {
	out := make([]Place, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	return out, nil
}

func (r *testRepo) ListByType(ctx context.Context, t Type) ([]Place, error) {
	out := make([]Place, 0)
	for _, p := range r.byID {
		if p.Type == t {
			out = append(out, p)
		}
	}
	return out, nil
}

func newTestService() (*Service, *testRepo) {
	repo := newTestRepo()
	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc, repo
}

func TestUpsert_ReturnsExistingWithinMatchWindow(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	first, err := svc.Upsert(ctx, "u1", CreateInput{
		Name: "Wiggly Field", Type: "dog_park", Lat: 41.95, Lng: -87.66,
	})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	// Slightly different coordinates, still inside ~100 m.
	second, err := svc.Upsert(ctx, "u2", CreateInput{
		Name: "Wiggly Field Dog Park", Type: "dog_park",
		Lat: 41.95 + upsertMatchDegrees/2, Lng: -87.66 - upsertMatchDegrees/2,
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if second.ID != first.ID {
		t.Fatalf("expected match to existing place, got a new one")
	}
	if len(repo.byID) != 1 {
		t.Fatalf("expected 1 stored place, got %d", len(repo.byID))
	}
}

func TestUpsert_DifferentTypeAtSameSpotCreatesNew(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	if _, err := svc.Upsert(ctx, "u1", CreateInput{Name: "Corner Vet", Type: "vet", Lat: 41.95, Lng: -87.66}); err != nil {
		t.Fatalf("upsert vet: %v", err)
	}
	if _, err := svc.Upsert(ctx, "u1", CreateInput{Name: "Corner Store", Type: "pet_store", Lat: 41.95, Lng: -87.66}); err != nil {
		t.Fatalf("upsert store: %v", err)
	}

	if len(repo.byID) != 2 {
		t.Fatalf("expected 2 stored places, got %d", len(repo.byID))
	}
}

func TestUpsert_OutsideWindowCreatesNew(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	if _, err := svc.Upsert(ctx, "u1", CreateInput{Name: "Park A", Type: "dog_park", Lat: 41.95, Lng: -87.66}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := svc.Upsert(ctx, "u1", CreateInput{Name: "Park B", Type: "dog_park", Lat: 41.95 + 2*upsertMatchDegrees, Lng: -87.66}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if len(repo.byID) != 2 {
		t.Fatalf("expected 2 stored places, got %d", len(repo.byID))
	}
}

func TestCreate_Validation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	cases := []struct {
		name string
		in   CreateInput
	}{
		{"missing name", CreateInput{Type: "vet", Lat: 1, Lng: 1}},
		{"unknown type", CreateInput{Name: "X", Type: "aquarium", Lat: 1, Lng: 1}},
		{"bad lat", CreateInput{Name: "X", Type: "vet", Lat: 95, Lng: 1}},
		{"bad lng", CreateInput{Name: "X", Type: "vet", Lat: 1, Lng: 190}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, "u1", tc.in); err != ErrInvalidInput {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}
