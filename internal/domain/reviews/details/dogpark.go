package details

type DogPark struct {
	OffLeash    bool `json:"off_leash"`
	Fenced      bool `json:"fenced"`
	WaterAccess bool `json:"water_access"`
}

func (*DogPark) PlaceType() string { return "dog_park" }

func (*DogPark) validate() error { return nil }
