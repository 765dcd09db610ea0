// Package details holds the per-place-type review detail blocks.
// One variant per place type, each with its own typed field set.
// Validation happens once, here, when the union is constructed;
// nothing downstream re-checks fields.
package details

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrUnknownPlaceType = errors.New("no detail block for place type")

// Detail is the tagged union of place-type-specific review blocks.
type Detail interface {
	PlaceType() string
	validate() error
}

// Decode constructs the right variant for a place type from raw JSON.
// A nil/empty raw block is fine: reviews may omit details entirely.
func Decode(placeType string, raw json.RawMessage) (Detail, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var d Detail
	switch placeType {
	case "dog_park":
		d = &DogPark{}
	case "vet":
		d = &Vet{}
	case "pet_store":
		d = &PetStore{}
	case "shelter":
		d = &Shelter{}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlaceType, placeType)
	}

	if err := json.Unmarshal(raw, d); err != nil {
		return nil, fmt.Errorf("decode %s details: %w", placeType, err)
	}
	if err := d.validate(); err != nil {
		return nil, fmt.Errorf("invalid %s details: %w", placeType, err)
	}
	return d, nil
}
