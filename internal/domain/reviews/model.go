package reviews

import (
	"time"

	"pet-community/internal/domain/reviews/details"
)

// Review is a user's contribution about a place. Rating is mandatory;
// Detail is the optional place-type-specific block, already validated
// at construction.
type Review struct {
	ID string

	AuthorUserID string
	PlaceID      string

	Rating  int // 1..5
	Comment string
	Tags    []string

	PhotoURLs []string

	Detail details.Detail

	CreatedAt time.Time
}
