package details

import (
	"errors"
	"strings"
)

type Vet struct {
	Emergency bool `json:"emergency"`

	// Specialties like "exotics" or "dermatology".
	Specialties []string `json:"specialties"`
}

func (*Vet) PlaceType() string { return "vet" }

func (v *Vet) validate() error {
	for i, s := range v.Specialties {
		s = strings.TrimSpace(s)
		if s == "" {
			return errors.New("empty specialty")
		}
		v.Specialties[i] = s
	}
	return nil
}
