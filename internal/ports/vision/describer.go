package vision

import "context"

// Describer produces a one-sentence description of an image.
// Implementations should fail with an error; the prompt composer owns
// the generic fallback phrase, never this port.
type Describer interface {
	Describe(ctx context.Context, imageURL string) (string, error)
}
