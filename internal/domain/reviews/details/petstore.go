package details

import (
	"errors"
	"strings"
)

type PetStore struct {
	// Brands carried that the reviewer cares about.
	Brands   []string `json:"brands"`
	Grooming bool     `json:"grooming"`
}

func (*PetStore) PlaceType() string { return "pet_store" }

func (p *PetStore) validate() error {
	for i, b := range p.Brands {
		b = strings.TrimSpace(b)
		if b == "" {
			return errors.New("empty brand")
		}
		p.Brands[i] = b
	}
	return nil
}
