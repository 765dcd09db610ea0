package places

import "time"

// Type classifies a place. Review detail blocks are keyed by this.
// @Enum dog_park, vet, pet_store, shelter, other
type Type string

const (
	TypeDogPark  Type = "dog_park"
	TypeVet      Type = "vet"
	TypePetStore Type = "pet_store"
	TypeShelter  Type = "shelter"
	TypeOther    Type = "other"
)

func ValidType(t Type) bool {
	switch t {
	case TypeDogPark, TypeVet, TypePetStore, TypeShelter, TypeOther:
		return true
	default:
		return false
	}
}

// Place is a reviewable pet-service location.
type Place struct {
	ID   string
	Name string
	Type Type

	Lat     float64
	Lng     float64
	Address string

	CreatedBy string

	CreatedAt time.Time
	UpdatedAt time.Time
}
