package rewards

import (
	"context"
	"fmt"
	"strings"

	"pet-community/internal/domain/pets"
	"pet-community/internal/ports/vision"
)

// promptTemplate has two slots: pet description and place description.
const promptTemplate = "A cute cartoon illustration of %s at %s, warm colors, sticker style"

// genericPetDescription is what a failed or useless vision call collapses
// to. The composer treats it as "try the structured fallback instead".
const genericPetDescription = "an adorable pet"

// archetypePets stands in when the user has no pets at all.
var archetypePets = []string{
	"a golden retriever with a big friendly smile",
	"a small tabby cat with bright green eyes",
	"a fluffy white poodle with a bouncy trot",
	"a playful corgi wearing a red bandana",
}

// placePhrases maps place types to candidate phrasings. Unknown types
// fall back to the dog_park set.
var placePhrases = map[string][]string{
	"dog_park": {
		"a sunny dog park full of wagging tails",
		"a grassy dog park with agility tunnels",
		"a lively neighborhood dog park",
	},
	"vet": {
		"a friendly veterinary clinic",
		"a cozy vet's waiting room",
		"a bright animal hospital lobby",
	},
	"pet_store": {
		"a colorful pet supply store",
		"a pet store aisle stacked with toys",
		"a cheerful neighborhood pet shop",
	},
	"shelter": {
		"a warm animal shelter",
		"an adoption day at the local shelter",
		"a sunny shelter courtyard",
	},
}

// Composer builds image-generation prompts from pet and place context.
// It never fails outward: every sub-step has a deterministic fallback.
type Composer struct {
	describer vision.Describer

	// randInt picks from n candidates; swapped in tests.
	randInt func(n int) int
}

func NewComposer(describer vision.Describer, randInt func(n int) int) *Composer {
	if randInt == nil {
		randInt = defaultRandInt
	}
	return &Composer{
		describer: describer,
		randInt:   randInt,
	}
}

// Compose builds the full prompt for a user's card.
func (c *Composer) Compose(ctx context.Context, ownedPets []pets.Pet, placeType, placeName string) string {
	return fmt.Sprintf(promptTemplate, c.petDescription(ctx, ownedPets), c.placeDescription(placeType))
}

// petDescription resolution order:
//  1. vision description of the first pet photo, when it comes back
//     non-generic
//  2. structured attributes of the first pet
//  3. one of the fixed archetypes when the user has no pets
func (c *Composer) petDescription(ctx context.Context, ownedPets []pets.Pet) string {
	if len(ownedPets) == 0 {
		return archetypePets[c.randInt(len(archetypePets))]
	}

	if c.describer != nil {
		for _, p := range ownedPets {
			if strings.TrimSpace(p.PhotoURL) == "" {
				continue
			}
			desc, err := c.describer.Describe(ctx, p.PhotoURL)
			if err == nil && usableDescription(desc) {
				return strings.TrimSpace(desc)
			}
			// vision failure falls through silently
			break
		}
	}

	return describeFromAttributes(ownedPets[0])
}

func (c *Composer) placeDescription(placeType string) string {
	phrases, ok := placePhrases[strings.TrimSpace(placeType)]
	if !ok {
		phrases = placePhrases["dog_park"]
	}
	return phrases[c.randInt(len(phrases))]
}

func usableDescription(desc string) bool {
	desc = strings.TrimSpace(desc)
	if len(desc) < 10 {
		return false
	}
	return !strings.EqualFold(desc, genericPetDescription)
}

// describeFromAttributes synthesizes "a {size} {color} {breed}" plus
// accessories, tolerating any subset of missing fields.
func describeFromAttributes(p pets.Pet) string {
	parts := []string{}
	if p.Size != "" {
		parts = append(parts, string(p.Size))
	}
	if p.Color != "" {
		parts = append(parts, strings.ToLower(p.Color))
	}
	switch {
	case p.Breed != "" && p.Breed != "other":
		parts = append(parts, strings.ReplaceAll(p.Breed, "_", " "))
	case p.Species != "":
		parts = append(parts, string(p.Species))
	}

	if len(parts) == 0 {
		return genericPetDescription
	}

	desc := "a " + strings.Join(parts, " ")
	if len(p.Accessories) > 0 {
		desc += " wearing " + p.Accessories[0]
	}
	return desc
}
