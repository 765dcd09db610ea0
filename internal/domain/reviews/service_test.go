package reviews

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"pet-community/internal/domain/places"
	"pet-community/internal/domain/rewards"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	mu    sync.Mutex
	byID  map[string]Review
	votes map[string]map[string]bool
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Review{}, votes: map[string]map[string]bool{}}
}

func (r *testRepo) Create(ctx context.Context, rev Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[rev.ID] = rev
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rev, ok := r.byID[id]
	if !ok {
		return Review{}, ErrNotFound
	}
	return rev, nil
}

func (r *testRepo) ListByPlace(ctx context.Context, placeID string) ([]Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Review, 0)
	for _, rev := range r.byID {
		if rev.PlaceID == placeID {
			out = append(out, rev)
		}
	}
	return out, nil
}

func (r *testRepo) ListByAuthor(ctx context.Context, authorUserID string) ([]Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Review, 0)
	for _, rev := range r.byID {
		if rev.AuthorUserID == authorUserID {
			out = append(out, rev)
		}
	}
	return out, nil
}

func (r *testRepo) CountByAuthor(ctx context.Context, authorUserID string) (int, error) {
	list, _ := r.ListByAuthor(ctx, authorUserID)
	return len(list), nil
}

func (r *testRepo) ToggleHelpful(ctx context.Context, reviewID, voterUserID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[reviewID]; !ok {
		return false, ErrNotFound
	}
	if r.votes[reviewID] == nil {
		r.votes[reviewID] = map[string]bool{}
	}
	if r.votes[reviewID][voterUserID] {
		delete(r.votes[reviewID], voterUserID)
		return false, nil
	}
	r.votes[reviewID][voterUserID] = true
	return true, nil
}

// -------------------------
// Fakes for collaborators
// -------------------------

type fakePlaces struct {
	byID    map[string]places.Place
	upserts int
}

func newFakePlaces() *fakePlaces {
	return &fakePlaces{byID: map[string]places.Place{}}
}

func (f *fakePlaces) add(p places.Place) {
	f.byID[p.ID] = p
}

func (f *fakePlaces) GetByID(ctx context.Context, id string) (places.Place, error) {
	p, ok := f.byID[id]
	if !ok {
		return places.Place{}, places.ErrNotFound
	}
	return p, nil
}

func (f *fakePlaces) Upsert(ctx context.Context, createdBy string, in places.CreateInput) (places.Place, error) {
	f.upserts++
	p := places.Place{
		ID:   "upserted-1",
		Name: in.Name,
		Type: places.Type(in.Type),
		Lat:  in.Lat,
		Lng:  in.Lng,
	}
	f.byID[p.ID] = p
	return p, nil
}

type fakeRewards struct {
	mu            sync.Mutex
	contributions []rewards.Contribution
	adjustments   map[string]int
	evalErr       error
}

func newFakeRewards() *fakeRewards {
	return &fakeRewards{adjustments: map[string]int{}}
}

func (f *fakeRewards) Evaluate(ctx context.Context, c rewards.Contribution) (*rewards.RewardCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contributions = append(f.contributions, c)
	return nil, f.evalErr
}

func (f *fakeRewards) AdjustHelpfulByReview(ctx context.Context, reviewID string, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.adjustments[reviewID] += delta
	return nil
}

type fakeNames struct {
	names map[string]string
}

func (f *fakeNames) DisplayNameOf(ctx context.Context, userID string) (string, error) {
	n, ok := f.names[userID]
	if !ok {
		return "", errors.New("unknown user")
	}
	return n, nil
}

// -------------------------

func newTestService(pl *fakePlaces, rw *fakeRewards, names *fakeNames) (*Service, *testRepo) {
	repo := newTestRepo()
	if pl == nil {
		pl = newFakePlaces()
	}
	var engine RewardEngine
	if rw != nil {
		engine = rw
	}
	var un UserNames
	if names != nil {
		un = names
	}
	svc := NewService(repo, pl, engine, un, nil)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	svc.dispatch = func(fn func()) { fn() }
	return svc, repo
}

func parkPlace() places.Place {
	return places.Place{ID: "p1", Name: "Wiggly Field", Type: places.TypeDogPark, Lat: 41.95, Lng: -87.66}
}

func TestCreate_PersistsAndDispatchesReward(t *testing.T) {
	pl := newFakePlaces()
	pl.add(parkPlace())
	rw := newFakeRewards()
	names := &fakeNames{names: map[string]string{"u1": "Ana"}}
	svc, repo := newTestService(pl, rw, names)

	rev, err := svc.Create(context.Background(), "u1", CreateInput{
		PlaceID:   "p1",
		Rating:    5,
		Comment:   "Plenty of shade, water fountains, and friendly regulars.",
		Tags:      []string{" fenced ", ""},
		RawDetail: json.RawMessage(`{"off_leash": true, "fenced": true}`),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	stored, ok := repo.byID[rev.ID]
	if !ok {
		t.Fatalf("review not stored")
	}
	if stored.Detail == nil || stored.Detail.PlaceType() != "dog_park" {
		t.Fatalf("detail not decoded: %+v", stored.Detail)
	}
	if len(stored.Tags) != 1 || stored.Tags[0] != "fenced" {
		t.Fatalf("tags not normalized: %v", stored.Tags)
	}

	if len(rw.contributions) != 1 {
		t.Fatalf("expected 1 reward dispatch, got %d", len(rw.contributions))
	}
	c := rw.contributions[0]
	if c.ReviewID != rev.ID || c.UserID != "u1" || c.UserName != "Ana" {
		t.Fatalf("contribution wrong: %+v", c)
	}
	if c.ReviewCountIncludingThis != 1 {
		t.Fatalf("count should include the new review, got %d", c.ReviewCountIncludingThis)
	}
	if c.PlaceType != "dog_park" || c.PlaceName != "Wiggly Field" {
		t.Fatalf("place context wrong: %+v", c)
	}
}

func TestCreate_NewPlaceGoesThroughUpsert(t *testing.T) {
	pl := newFakePlaces()
	rw := newFakeRewards()
	svc, _ := newTestService(pl, rw, nil)

	rev, err := svc.Create(context.Background(), "u1", CreateInput{
		Place: &NewPlace{
			Name: "Corner Vet", Type: "vet", Lat: 41.95, Lng: -87.66,
		},
		Rating: 4,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if pl.upserts != 1 {
		t.Fatalf("expected 1 upsert, got %d", pl.upserts)
	}
	if rev.PlaceID != "upserted-1" {
		t.Fatalf("review bound to %q", rev.PlaceID)
	}
}

func TestCreate_RewardFailureDoesNotFailReview(t *testing.T) {
	pl := newFakePlaces()
	pl.add(parkPlace())
	rw := newFakeRewards()
	rw.evalErr = errors.New("pipeline exploded")
	svc, repo := newTestService(pl, rw, nil)

	rev, err := svc.Create(context.Background(), "u1", CreateInput{PlaceID: "p1", Rating: 3})
	if err != nil {
		t.Fatalf("review must survive a reward failure: %v", err)
	}
	if _, ok := repo.byID[rev.ID]; !ok {
		t.Fatalf("review not stored")
	}
}

func TestCreate_UnknownNameFallsBackToNeighbor(t *testing.T) {
	pl := newFakePlaces()
	pl.add(parkPlace())
	rw := newFakeRewards()
	svc, _ := newTestService(pl, rw, &fakeNames{names: map[string]string{}})

	if _, err := svc.Create(context.Background(), "ghost", CreateInput{PlaceID: "p1", Rating: 4}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := rw.contributions[0].UserName; got != "A neighbor" {
		t.Fatalf("expected fallback name, got %q", got)
	}
}

func TestCreate_Validation(t *testing.T) {
	pl := newFakePlaces()
	pl.add(parkPlace())
	svc, _ := newTestService(pl, nil, nil)
	ctx := context.Background()

	cases := []struct {
		name string
		in   CreateInput
	}{
		{"rating too low", CreateInput{PlaceID: "p1", Rating: 0}},
		{"rating too high", CreateInput{PlaceID: "p1", Rating: 6}},
		{"no place at all", CreateInput{Rating: 3}},
		{"unknown place id", CreateInput{PlaceID: "missing", Rating: 3}},
		{"detail mismatch", CreateInput{PlaceID: "p1", Rating: 3, RawDetail: json.RawMessage(`{"off_leash": "definitely"}`)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, "u1", tc.in); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestToggleHelpful_MirrorsOntoCard(t *testing.T) {
	pl := newFakePlaces()
	pl.add(parkPlace())
	rw := newFakeRewards()
	svc, _ := newTestService(pl, rw, nil)
	ctx := context.Background()

	rev, err := svc.Create(ctx, "author", CreateInput{PlaceID: "p1", Rating: 5})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// First toggle marks helpful.
	nowHelpful, err := svc.ToggleHelpful(ctx, rev.ID, "voter")
	if err != nil || !nowHelpful {
		t.Fatalf("first toggle: helpful=%v err=%v", nowHelpful, err)
	}
	if rw.adjustments[rev.ID] != 1 {
		t.Fatalf("card should have gained a vote, got %d", rw.adjustments[rev.ID])
	}

	// Second toggle removes it.
	nowHelpful, err = svc.ToggleHelpful(ctx, rev.ID, "voter")
	if err != nil || nowHelpful {
		t.Fatalf("second toggle: helpful=%v err=%v", nowHelpful, err)
	}
	if rw.adjustments[rev.ID] != 0 {
		t.Fatalf("card vote should have been taken back, got %d", rw.adjustments[rev.ID])
	}
}

func TestToggleHelpful_UnknownReview(t *testing.T) {
	svc, _ := newTestService(nil, nil, nil)

	if _, err := svc.ToggleHelpful(context.Background(), "missing", "voter"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
