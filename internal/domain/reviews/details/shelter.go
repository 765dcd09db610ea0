package details

type Shelter struct {
	Adoption  bool `json:"adoption"`
	Volunteer bool `json:"volunteer"`
}

func (*Shelter) PlaceType() string { return "shelter" }

func (*Shelter) validate() error { return nil }
