package reports

import "time"

// Status is the lost-pet report lifecycle state.
// Forward-only: missing -> seen -> found (missing -> found is allowed,
// found is terminal). Sightings keep appending after found, for audit.
// @Enum missing, seen, found
type Status string

const (
	StatusMissing Status = "missing"
	StatusSeen    Status = "seen"
	StatusFound   Status = "found"
)

func ValidStatus(s Status) bool {
	switch s {
	case StatusMissing, StatusSeen, StatusFound:
		return true
	default:
		return false
	}
}

// rank orders statuses for the monotonic-transition check.
func rank(s Status) int {
	switch s {
	case StatusSeen:
		return 1
	case StatusFound:
		return 2
	default:
		return 0
	}
}

// GeoPoint is a coordinate pair with an optional human-readable address.
type GeoPoint struct {
	Lat     float64
	Lng     float64
	Address string
}

// OwnerContact is who to reach when the pet turns up.
type OwnerContact struct {
	Name  string
	Phone string
	Email string
}

// Sighting is a community-submitted observation. Append-only: once
// recorded it is never edited or deleted (report deletion removes all).
type Sighting struct {
	ID             string
	ReporterUserID string

	Location  GeoPoint
	Note      string
	PhotoURL  string
	SightedAt time.Time

	CreatedAt time.Time
}

// ReunionInfo is recorded when the owner marks the pet found.
type ReunionInfo struct {
	FoundAt       time.Time
	FoundLocation GeoPoint
	Story         string
}

// LostPetReport is the aggregate for one missing pet.
type LostPetReport struct {
	ID string

	PetName  string
	Species  string
	Breed    string
	Color    string
	Size     string
	Features string

	Status Status

	LastSeenLocation GeoPoint
	LastSeenTime     time.Time

	OwnerContact OwnerContact

	Microchip   string
	CollarDesc  string
	RewardOffer string
	PhotoURLs   []string

	ReportedBy string

	Sightings []Sighting

	ReunionInfo *ReunionInfo

	CreatedAt time.Time
	UpdatedAt time.Time
}
