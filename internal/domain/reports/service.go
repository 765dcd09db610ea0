package reports

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-community/internal/domain/users"
	"pet-community/internal/platform/logger"
	"pet-community/internal/ports/notify"
	"pet-community/internal/ports/realtime"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("report not found")
	ErrForbidden         = errors.New("only the reporting owner may do this")
	ErrInvalidTransition = errors.New("status may not move backwards")
)

// alertRadiusMiles is how far the nearby-user fan-out reaches.
const alertRadiusMiles = 10.0

// UserDirectory is the slice of the users service the fan-out needs:
// proximity lookup plus email resolution. Read-only.
type UserDirectory interface {
	Nearby(ctx context.Context, lat, lng, radiusMiles float64, excludeUserID string) ([]users.NearbyUser, error)
	EmailOf(ctx context.Context, userID string) (string, error)
}

type Service struct {
	repo   Repository
	users  UserDirectory
	rt     realtime.Publisher
	mailer notify.Notifier
	log    logger.Logger

	now func() time.Time

	// dispatch runs best-effort work after the primary write has been
	// committed and the response decided. Tests swap it for an inline call.
	dispatch func(fn func())
}

func NewService(repo Repository, users UserDirectory, rt realtime.Publisher, mailer notify.Notifier, log logger.Logger) *Service {
	if rt == nil {
		rt = realtime.NopPublisher{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:     repo,
		users:    users,
		rt:       rt,
		mailer:   mailer,
		log:      log,
		now:      time.Now,
		dispatch: func(fn func()) { go fn() },
	}
}

type CreateInput struct {
	PetName  string
	Species  string
	Breed    string
	Color    string
	Size     string
	Features string

	LastSeenLocation GeoPoint
	LastSeenTime     time.Time

	OwnerContact OwnerContact

	Microchip   string
	CollarDesc  string
	RewardOffer string
	PhotoURLs   []string
}

// Create files a new report. It always starts as missing. Once the
// report is durably stored, nearby users get alerted; alerting never
// affects the result the caller sees.
func (s *Service) Create(ctx context.Context, reportedBy string, in CreateInput) (LostPetReport, error) {
	if strings.TrimSpace(reportedBy) == "" {
		return LostPetReport{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.PetName) == "" || strings.TrimSpace(in.Species) == "" {
		return LostPetReport{}, ErrInvalidInput
	}
	if !validCoords(in.LastSeenLocation.Lat, in.LastSeenLocation.Lng) {
		return LostPetReport{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.OwnerContact.Name) == "" {
		return LostPetReport{}, ErrInvalidInput
	}

	lastSeen := in.LastSeenTime
	if lastSeen.IsZero() {
		lastSeen = s.now()
	}

	now := s.now()
	r := LostPetReport{
		ID:               uuid.NewString(),
		PetName:          strings.TrimSpace(in.PetName),
		Species:          strings.TrimSpace(in.Species),
		Breed:            strings.TrimSpace(in.Breed),
		Color:            strings.TrimSpace(in.Color),
		Size:             strings.TrimSpace(in.Size),
		Features:         strings.TrimSpace(in.Features),
		Status:           StatusMissing,
		LastSeenLocation: in.LastSeenLocation,
		LastSeenTime:     lastSeen,
		OwnerContact:     in.OwnerContact,
		Microchip:        strings.TrimSpace(in.Microchip),
		CollarDesc:       strings.TrimSpace(in.CollarDesc),
		RewardOffer:      strings.TrimSpace(in.RewardOffer),
		PhotoURLs:        in.PhotoURLs,
		ReportedBy:       strings.TrimSpace(reportedBy),
		Sightings:        []Sighting{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return LostPetReport{}, err
	}

	// Strictly after the durable create.
	s.dispatch(func() { s.alertNearby(r) })

	return r, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (LostPetReport, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return LostPetReport{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]LostPetReport, error) {
	if filter.Status != "" && !ValidStatus(filter.Status) {
		return nil, ErrInvalidInput
	}
	return s.repo.List(ctx, filter)
}

type SightingInput struct {
	Location  GeoPoint
	Note      string
	PhotoURL  string
	SightedAt time.Time
}

// AddSighting appends an observation from any verified user. A missing
// report becomes seen; seen and found stay put. The owner gets a
// best-effort email after the append lands.
func (s *Service) AddSighting(ctx context.Context, reportID, reporterUserID string, in SightingInput) (LostPetReport, error) {
	if strings.TrimSpace(reportID) == "" || strings.TrimSpace(reporterUserID) == "" {
		return LostPetReport{}, ErrInvalidInput
	}
	if !validCoords(in.Location.Lat, in.Location.Lng) {
		return LostPetReport{}, ErrInvalidInput
	}

	sightedAt := in.SightedAt
	if sightedAt.IsZero() {
		sightedAt = s.now()
	}

	sighting := Sighting{
		ID:             uuid.NewString(),
		ReporterUserID: strings.TrimSpace(reporterUserID),
		Location:       in.Location,
		Note:           strings.TrimSpace(in.Note),
		PhotoURL:       strings.TrimSpace(in.PhotoURL),
		SightedAt:      sightedAt,
		CreatedAt:      s.now(),
	}

	updated, err := s.repo.AppendSighting(ctx, reportID, sighting)
	if err != nil {
		return LostPetReport{}, err
	}

	s.dispatch(func() { s.notifySighting(updated, sighting) })

	return updated, nil
}

type StatusUpdateInput struct {
	Status Status

	// Reunion fields, honored only when Status is found.
	FoundAt       *time.Time
	FoundLocation *GeoPoint
	Story         string
}

// UpdateStatus applies an owner-requested transition. Non-owners are
// rejected without touching the report. Backward moves are rejected.
func (s *Service) UpdateStatus(ctx context.Context, reportID, callerUserID string, in StatusUpdateInput) (LostPetReport, error) {
	if strings.TrimSpace(reportID) == "" || strings.TrimSpace(callerUserID) == "" {
		return LostPetReport{}, ErrInvalidInput
	}
	if !ValidStatus(in.Status) {
		return LostPetReport{}, ErrInvalidInput
	}

	current, err := s.repo.GetByID(ctx, reportID)
	if err != nil {
		return LostPetReport{}, err
	}
	if current.ReportedBy != callerUserID {
		return LostPetReport{}, ErrForbidden
	}
	if rank(in.Status) < rank(current.Status) {
		return LostPetReport{}, ErrInvalidTransition
	}

	var reunion *ReunionInfo
	if in.Status == StatusFound {
		r := ReunionInfo{
			FoundAt:       s.now(),
			FoundLocation: current.LastSeenLocation,
			Story:         strings.TrimSpace(in.Story),
		}
		if in.FoundAt != nil {
			r.FoundAt = *in.FoundAt
		}
		if in.FoundLocation != nil {
			r.FoundLocation = *in.FoundLocation
		}
		reunion = &r
	}

	return s.repo.UpdateStatus(ctx, reportID, in.Status, reunion)
}

// Delete removes the report and its whole sighting log. Owner only.
func (s *Service) Delete(ctx context.Context, reportID, callerUserID string) error {
	if strings.TrimSpace(reportID) == "" || strings.TrimSpace(callerUserID) == "" {
		return ErrInvalidInput
	}

	current, err := s.repo.GetByID(ctx, reportID)
	if err != nil {
		return err
	}
	if current.ReportedBy != callerUserID {
		return ErrForbidden
	}

	return s.repo.Delete(ctx, reportID)
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
