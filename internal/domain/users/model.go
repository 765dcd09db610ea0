package users

import "time"

// Location is a user's last known position. Both coordinates are always
// present together; a user either has a full fix or none at all.
type Location struct {
	Lat       float64
	Lng       float64
	UpdatedAt time.Time
}

// User is a community member profile.
type User struct {
	ID          string
	DisplayName string
	Email       string
	AvatarURL   string

	// nil until the user's first location update; overwritten after that,
	// never deleted.
	Location *Location

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NearbyUser is the minimal projection returned by proximity queries.
// Full profiles never leave the users package through this path.
type NearbyUser struct {
	ID          string
	DisplayName string
	AvatarURL   string
	Location    Location
}
