package imagegen

import (
	"context"
	"errors"
)

// ErrNotConfigured aborts the synthesis stage immediately; the card
// pipeline treats it as a stage failure, not a system fault.
var ErrNotConfigured = errors.New("image generation not configured")

type Options struct {
	Size    string // e.g. "1024x1024"
	Quality string // e.g. "standard"
	Style   string // e.g. "vivid"
}

// Synthesizer turns a text prompt into a transient image URL.
type Synthesizer interface {
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
}
