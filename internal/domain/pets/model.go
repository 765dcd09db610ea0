package pets

import "time"

// Species covers the supported species.
// @Enum dog, cat
type Species string

const (
	SpeciesDog Species = "dog"
	SpeciesCat Species = "cat"
)

// Size buckets used in pet descriptions.
// @Enum small, medium, large
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// Pet is a community member's registered pet. The profile doubles as the
// source material for reward card art: photo first, then the structured
// attributes, in that order.
type Pet struct {
	ID          string
	OwnerUserID string

	Name    string
	Species Species
	Breed   string
	Size    Size
	Color   string

	// Accessories are short phrases like "red collar" or "blue bandana".
	Accessories []string

	// Features is free text ("one floppy ear", "white patch on chest").
	Features string

	PhotoURL  string
	Microchip string

	CreatedAt time.Time
	UpdatedAt time.Time
}
