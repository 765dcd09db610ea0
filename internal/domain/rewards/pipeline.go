package rewards

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"pet-community/internal/domain/pets"
	"pet-community/internal/platform/httpclient"
	"pet-community/internal/platform/logger"
	"pet-community/internal/ports/imagegen"
	"pet-community/internal/ports/objectstore"
)

// defaultCardImageURL is the last rung of the fallback ladder. A card is
// always minted with some image reference, this one if nothing better.
const defaultCardImageURL = "https://static.pet-community.app/cards/default-card.png"

func defaultRandInt(n int) int {
	if n <= 1 {
		return 0
	}
	return rand.Intn(n)
}

// Pipeline resolves a card's image reference through three fallible
// stages: synthesize, fetch, upload. Any stage failure drops to the
// fallback chain (owned pet photo, then the fixed placeholder), so the
// pipeline itself never fails.
type Pipeline struct {
	synth   imagegen.Synthesizer
	fetcher *httpclient.Client
	store   objectstore.Uploader
	log     logger.Logger

	now     func() time.Time
	randInt func(n int) int
}

func NewPipeline(synth imagegen.Synthesizer, fetcher *httpclient.Client, store objectstore.Uploader, log logger.Logger) *Pipeline {
	if fetcher == nil {
		fetcher = httpclient.New(httpclient.DefaultTimeout)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Pipeline{
		synth:   synth,
		fetcher: fetcher,
		store:   store,
		log:     log,
		now:     time.Now,
		randInt: defaultRandInt,
	}
}

// ResolveImage runs the stages and always returns a non-empty reference.
func (p *Pipeline) ResolveImage(ctx context.Context, prompt, userID string, ctype ContributionType, ownedPets []pets.Pet) string {
	url, err := p.generateAndStore(ctx, prompt, userID, ctype)
	if err != nil {
		p.log.Warn("card image pipeline fell back", map[string]any{
			"user_id": userID, "contribution_type": string(ctype), "err": err.Error(),
		})
		return p.fallbackImage(ownedPets)
	}
	return url
}

func (p *Pipeline) generateAndStore(ctx context.Context, prompt, userID string, ctype ContributionType) (string, error) {
	// Stage 1: synthesize. Unconfigured capability is an immediate stage
	// failure, not a fault.
	if p.synth == nil {
		return "", imagegen.ErrNotConfigured
	}
	transientURL, err := p.synth.Generate(ctx, prompt, imagegen.Options{
		Size:    "1024x1024",
		Quality: "standard",
		Style:   "vivid",
	})
	if err != nil {
		return "", fmt.Errorf("synthesize: %w", err)
	}

	// Stage 2: fetch the transient image. Bounded by the client timeout.
	data, contentType, err := p.fetcher.GetBytes(ctx, transientURL)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	if contentType == "" {
		contentType = "image/png"
	}

	// Stage 3: durable upload under a context-addressed key.
	if p.store == nil {
		return "", objectstore.ErrNotConfigured
	}
	key := fmt.Sprintf("cards/%s/%s-%d.png", userID, ctype, p.now().Unix())
	ref, err := p.store.Upload(ctx, key, contentType, data)
	if err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}

	return ref, nil
}

// fallbackImage prefers a pseudo-randomly chosen owned pet photo over the
// fixed placeholder.
func (p *Pipeline) fallbackImage(ownedPets []pets.Pet) string {
	photos := make([]string, 0, len(ownedPets))
	for _, pet := range ownedPets {
		if strings.TrimSpace(pet.PhotoURL) != "" {
			photos = append(photos, pet.PhotoURL)
		}
	}
	if len(photos) > 0 {
		return photos[p.randInt(len(photos))]
	}
	return defaultCardImageURL
}
