package rewards

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"pet-community/internal/domain/pets"
)

type fakeDescriber struct {
	desc string
	err  error
}

func (f *fakeDescriber) Describe(ctx context.Context, imageURL string) (string, error) {
	return f.desc, f.err
}

// firstChoice makes every pseudo-random pick deterministic.
func firstChoice(int) int { return 0 }

func dogWithPhoto() pets.Pet {
	return pets.Pet{
		Name: "Milo", Species: pets.SpeciesDog, Breed: "corgi",
		Size: pets.SizeSmall, Color: "Tan",
		Accessories: []string{"red bandana"},
		PhotoURL:    "https://photos.example.com/milo.jpg",
	}
}

func TestCompose_UsesVisionDescriptionWhenUsable(t *testing.T) {
	c := NewComposer(&fakeDescriber{desc: "a tan corgi with one floppy ear"}, firstChoice)

	got := c.Compose(context.Background(), []pets.Pet{dogWithPhoto()}, "dog_park", "Wiggly Field")
	want := fmt.Sprintf(promptTemplate, "a tan corgi with one floppy ear", placePhrases["dog_park"][0])
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCompose_VisionFailureFallsBackToAttributes(t *testing.T) {
	c := NewComposer(&fakeDescriber{err: errors.New("model offline")}, firstChoice)

	got := c.Compose(context.Background(), []pets.Pet{dogWithPhoto()}, "dog_park", "Wiggly Field")
	if !strings.Contains(got, "a small tan corgi wearing red bandana") {
		t.Fatalf("expected attribute description, got %q", got)
	}
}

func TestCompose_GenericVisionAnswerIsRejected(t *testing.T) {
	cases := []string{
		genericPetDescription,
		"An Adorable Pet", // case-insensitive match
		"a dog",           // too short to be useful
	}

	for _, desc := range cases {
		c := NewComposer(&fakeDescriber{desc: desc}, firstChoice)
		got := c.Compose(context.Background(), []pets.Pet{dogWithPhoto()}, "vet", "Corner Vet")
		if !strings.Contains(got, "corgi") {
			t.Fatalf("vision answer %q should have been rejected, got %q", desc, got)
		}
	}
}

func TestCompose_NoDescriberUsesAttributes(t *testing.T) {
	c := NewComposer(nil, firstChoice)

	got := c.Compose(context.Background(), []pets.Pet{dogWithPhoto()}, "dog_park", "Wiggly Field")
	if !strings.Contains(got, "corgi") {
		t.Fatalf("expected attribute description, got %q", got)
	}
}

func TestCompose_NoPetsUsesArchetype(t *testing.T) {
	c := NewComposer(nil, firstChoice)

	got := c.Compose(context.Background(), nil, "shelter", "Happy Tails")
	if !strings.Contains(got, archetypePets[0]) {
		t.Fatalf("expected archetype pet, got %q", got)
	}
}

func TestCompose_UnknownPlaceTypeFallsBackToDogPark(t *testing.T) {
	c := NewComposer(nil, firstChoice)

	got := c.Compose(context.Background(), nil, "aquarium", "Fish World")
	if !strings.Contains(got, placePhrases["dog_park"][0]) {
		t.Fatalf("unknown place type should use the dog_park phrases, got %q", got)
	}
}

func TestDescribeFromAttributes_PartialFields(t *testing.T) {
	cases := []struct {
		name string
		pet  pets.Pet
		want string
	}{
		{"full", dogWithPhoto(), "a small tan corgi wearing red bandana"},
		{"species only", pets.Pet{Species: pets.SpeciesCat}, "a cat"},
		{"breed 'other' falls to species", pets.Pet{Species: pets.SpeciesDog, Breed: "other"}, "a dog"},
		{"underscored breed", pets.Pet{Breed: "golden_retriever"}, "a golden retriever"},
		{"empty pet", pets.Pet{}, genericPetDescription},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := describeFromAttributes(tc.pet); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}
