package rewards

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"pet-community/internal/domain/pets"
	"pet-community/internal/platform/httpclient"
	"pet-community/internal/ports/imagegen"
)

type fakeSynth struct {
	url string
	err error
}

func (f *fakeSynth) Generate(ctx context.Context, prompt string, opts imagegen.Options) (string, error) {
	return f.url, f.err
}

type fakeUploader struct {
	ref     string
	err     error
	lastKey string
}

func (f *fakeUploader) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	f.lastKey = key
	if f.err != nil {
		return "", f.err
	}
	return f.ref, nil
}

// roundTripFunc lets a test serve the transient image fetch.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func imageServer(status int, body string) *httpclient.Client {
	return httpclient.NewWithTransport(time.Second, roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Header:     http.Header{"Content-Type": []string{"image/png"}},
			Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		}, nil
	}))
}

func newTestPipeline(synth imagegen.Synthesizer, fetcher *httpclient.Client, store *fakeUploader) *Pipeline {
	p := NewPipeline(synth, fetcher, nil, nil)
	if store != nil {
		p.store = store
	}
	p.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	p.randInt = func(int) int { return 0 }
	return p
}

func TestResolveImage_HappyPath(t *testing.T) {
	store := &fakeUploader{ref: "https://cdn.example.com/cards/u1/card.png"}
	p := newTestPipeline(
		&fakeSynth{url: "https://transient.example.com/img.png"},
		imageServer(http.StatusOK, "png-bytes"),
		store,
	)

	got := p.ResolveImage(context.Background(), "prompt", "u1", ContributionFirstReview, nil)
	if got != store.ref {
		t.Fatalf("got %q, want the uploaded ref", got)
	}
	if !strings.HasPrefix(store.lastKey, "cards/u1/first_review-") {
		t.Fatalf("unexpected object key %q", store.lastKey)
	}
}

func TestResolveImage_SynthesisFailureFallsBackToPetPhoto(t *testing.T) {
	p := newTestPipeline(&fakeSynth{err: errors.New("model overloaded")}, nil, nil)

	owned := []pets.Pet{
		{Name: "NoPhoto"},
		{Name: "Milo", PhotoURL: "https://photos.example.com/milo.jpg"},
	}

	got := p.ResolveImage(context.Background(), "prompt", "u1", ContributionFirstReview, owned)
	if got != "https://photos.example.com/milo.jpg" {
		t.Fatalf("expected the owned pet photo, got %q", got)
	}
}

func TestResolveImage_NoSynthesizerFallsBack(t *testing.T) {
	p := newTestPipeline(nil, nil, nil)

	got := p.ResolveImage(context.Background(), "prompt", "u1", ContributionFirstReview, nil)
	if got != defaultCardImageURL {
		t.Fatalf("expected placeholder, got %q", got)
	}
}

func TestResolveImage_FetchFailureFallsBack(t *testing.T) {
	p := newTestPipeline(
		&fakeSynth{url: "https://transient.example.com/img.png"},
		imageServer(http.StatusNotFound, "gone"),
		nil,
	)

	got := p.ResolveImage(context.Background(), "prompt", "u1", ContributionMilestone, nil)
	if got != defaultCardImageURL {
		t.Fatalf("expected placeholder, got %q", got)
	}
}

func TestResolveImage_UploadFailureFallsBack(t *testing.T) {
	p := newTestPipeline(
		&fakeSynth{url: "https://transient.example.com/img.png"},
		imageServer(http.StatusOK, "png-bytes"),
		&fakeUploader{err: errors.New("bucket denied")},
	)

	got := p.ResolveImage(context.Background(), "prompt", "u1", ContributionMilestone, nil)
	if got != defaultCardImageURL {
		t.Fatalf("expected placeholder, got %q", got)
	}
}

func TestResolveImage_NoStoreConfiguredFallsBack(t *testing.T) {
	p := newTestPipeline(
		&fakeSynth{url: "https://transient.example.com/img.png"},
		imageServer(http.StatusOK, "png-bytes"),
		nil,
	)

	got := p.ResolveImage(context.Background(), "prompt", "u1", ContributionFirstReview, nil)
	if got != defaultCardImageURL {
		t.Fatalf("expected placeholder, got %q", got)
	}
}

// A card must always come out with some image, whatever breaks.
func TestResolveImage_NeverEmpty(t *testing.T) {
	p := newTestPipeline(nil, nil, nil)

	for _, owned := range [][]pets.Pet{nil, {{Name: "NoPhoto"}}} {
		if got := p.ResolveImage(context.Background(), "", "u1", ContributionFirstReview, owned); got == "" {
			t.Fatalf("empty image reference")
		}
	}
}
