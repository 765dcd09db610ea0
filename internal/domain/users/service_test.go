package users

import (
	"context"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]User
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]User{}}
}

func (r *testRepo) Create(ctx context.Context, u User) error {
	r.byID[u.ID] = u
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (User, error) {
	u, ok := r.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (r *testRepo) UpdateLocation(ctx context.Context, userID string, loc Location) error {
	u, ok := r.byID[userID]
	if !ok {
		return ErrNotFound
	}
	u.Location = &loc
	r.byID[userID] = u
	return nil
}

func (r *testRepo) ListWithLocation(ctx context.Context) ([]User, error) {
	out := make([]User, 0)
	for _, u := range r.byID {
		if u.Location != nil {
			out = append(out, u)
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

func seedUser(t *testing.T, svc *Service, id, name string, lat, lng float64) {
	t.Helper()
	ctx := context.Background()
	if _, err := svc.Register(ctx, id, RegisterInput{DisplayName: name, Email: id + "@example.com"}); err != nil {
		t.Fatalf("register %s: %v", id, err)
	}
	if _, err := svc.UpdateLocation(ctx, id, lat, lng); err != nil {
		t.Fatalf("update location %s: %v", id, err)
	}
}

func TestNearby_BoundingBoxAndExclusions(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	// Chicago downtown as the center.
	centerLat, centerLng := 41.88, -87.63

	seedUser(t, svc, "owner", "Owner", centerLat, centerLng)
	seedUser(t, svc, "close", "Close", centerLat+0.01, centerLng-0.01) // well inside 5 mi
	seedUser(t, svc, "edge", "Edge", centerLat+5.0/milesPerDegreeLat, centerLng) // exactly on the edge
	seedUser(t, svc, "far", "Far", centerLat+1.0, centerLng) // ~69 mi north

	// User registered but never placed.
	if _, err := svc.Register(ctx, "nowhere", RegisterInput{DisplayName: "Nowhere"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	got, err := svc.Nearby(ctx, centerLat, centerLng, 5, "owner")
	if err != nil {
		t.Fatalf("nearby: %v", err)
	}

	ids := map[string]bool{}
	for _, u := range got {
		ids[u.ID] = true
	}

	if ids["owner"] {
		t.Errorf("excluded user came back")
	}
	if ids["nowhere"] {
		t.Errorf("user with no location came back")
	}
	if ids["far"] {
		t.Errorf("user outside the box came back")
	}
	if !ids["close"] {
		t.Errorf("close user missing from result")
	}
	if !ids["edge"] {
		t.Errorf("edge-of-box user missing from result; box bounds must be inclusive")
	}
}

func TestNearby_MalformedInputYieldsEmptyNotError(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	seedUser(t, svc, "u1", "One", 10, 10)

	cases := []struct {
		name             string
		lat, lng, radius float64
	}{
		{"lat out of range", 91, 0, 5},
		{"lng out of range", 0, -181, 5},
		{"zero radius", 10, 10, 0},
		{"negative radius", 10, 10, -1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.Nearby(ctx, tc.lat, tc.lng, tc.radius, "")
			if err != nil {
				t.Fatalf("expected nil error, got %v", err)
			}
			if got == nil {
				t.Fatalf("expected empty slice, got nil")
			}
			if len(got) != 0 {
				t.Fatalf("expected no results, got %d", len(got))
			}
		})
	}
}

func TestUpdateLocation_OverwritesPreviousFix(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	seedUser(t, svc, "mover", "Mover", 10, 10)
	if _, err := svc.UpdateLocation(ctx, "mover", 20, 20); err != nil {
		t.Fatalf("second update: %v", err)
	}

	u := repo.byID["mover"]
	if u.Location == nil || u.Location.Lat != 20 || u.Location.Lng != 20 {
		t.Fatalf("location not overwritten: %+v", u.Location)
	}
}

func TestUpdateLocation_RejectsBadCoords(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	seedUser(t, svc, "u1", "One", 10, 10)

	if _, err := svc.UpdateLocation(ctx, "u1", 100, 10); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRegister_RequiresDisplayName(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.Register(context.Background(), "u1", RegisterInput{}); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
