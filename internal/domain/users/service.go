package users

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("user not found")
)

// Degrees-per-mile conversion for the proximity bounding box.
// 1 degree of latitude ≈ 69 miles; 1 degree of longitude ≈ 54.6 miles.
// The longitude figure is a flat approximation, uncorrected for latitude,
// so boxes get wider than the nominal radius away from the equator.
const (
	milesPerDegreeLat = 69.0
	milesPerDegreeLng = 54.6
)

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

type RegisterInput struct {
	DisplayName string
	Email       string
	AvatarURL   string
}

// Register creates the local profile for an externally verified identity.
// The id comes from the identity collaborator, not from us.
func (s *Service) Register(ctx context.Context, userID string, in RegisterInput) (User, error) {
	if strings.TrimSpace(userID) == "" {
		return User{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.DisplayName) == "" {
		return User{}, ErrInvalidInput
	}

	now := s.now()
	u := User{
		ID:          strings.TrimSpace(userID),
		DisplayName: strings.TrimSpace(in.DisplayName),
		Email:       strings.TrimSpace(in.Email),
		AvatarURL:   strings.TrimSpace(in.AvatarURL),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return User{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// UpdateLocation overwrites the caller's last known position. Only the
// user themselves can move their own pin.
func (s *Service) UpdateLocation(ctx context.Context, userID string, lat, lng float64) (Location, error) {
	if strings.TrimSpace(userID) == "" {
		return Location{}, ErrInvalidInput
	}
	if !validCoords(lat, lng) {
		return Location{}, ErrInvalidInput
	}

	loc := Location{Lat: lat, Lng: lng, UpdatedAt: s.now()}
	if err := s.repo.UpdateLocation(ctx, userID, loc); err != nil {
		return Location{}, err
	}
	return loc, nil
}

// Nearby returns minimal projections of every user whose last known
// location falls inside an axis-aligned bounding box approximating
// radiusMiles around the center. Users without a stored location are
// never returned. Malformed input yields an empty result, not an error.
func (s *Service) Nearby(ctx context.Context, lat, lng, radiusMiles float64, excludeUserID string) ([]NearbyUser, error) {
	if !validCoords(lat, lng) || radiusMiles <= 0 {
		return []NearbyUser{}, nil
	}

	latDelta := radiusMiles / milesPerDegreeLat
	lngDelta := radiusMiles / milesPerDegreeLng

	candidates, err := s.repo.ListWithLocation(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]NearbyUser, 0)
	for _, u := range candidates {
		if u.Location == nil {
			continue
		}
		if u.ID == excludeUserID {
			continue
		}
		if u.Location.Lat < lat-latDelta || u.Location.Lat > lat+latDelta {
			continue
		}
		if u.Location.Lng < lng-lngDelta || u.Location.Lng > lng+lngDelta {
			continue
		}
		out = append(out, NearbyUser{
			ID:          u.ID,
			DisplayName: u.DisplayName,
			AvatarURL:   u.AvatarURL,
			Location:    *u.Location,
		})
	}

	return out, nil
}

func validCoords(lat, lng float64) bool {
	if lat < -90 || lat > 90 {
		return false
	}
	if lng < -180 || lng > 180 {
		return false
	}
	return true
}
