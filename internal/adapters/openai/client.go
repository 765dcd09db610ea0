// Package openai talks to the OpenAI REST API directly. Only the two
// endpoints the reward pipeline needs are wrapped: chat completions
// with an image part (vision descriptions) and image generations.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"pet-community/internal/platform/httpclient"
	"pet-community/internal/ports/imagegen"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"

	defaultChatModel  = "gpt-4o-mini"
	defaultImageModel = "dall-e-3"

	requestTimeout = 45 * time.Second
)

type Config struct {
	APIKey     string
	BaseURL    string
	ChatModel  string
	ImageModel string
}

func ConfigFromEnv() Config {
	return Config{
		APIKey:     os.Getenv("OPENAI_API_KEY"),
		BaseURL:    os.Getenv("OPENAI_BASE_URL"),
		ChatModel:  os.Getenv("OPENAI_CHAT_MODEL"),
		ImageModel: os.Getenv("OPENAI_IMAGE_MODEL"),
	}
}

func (c Config) Enabled() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// Client implements vision.Describer and imagegen.Synthesizer.
type Client struct {
	cfg  Config
	http *httpclient.Client
}

func New(cfg Config) (*Client, error) {
	baseURL := cfg.BaseURL
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = defaultChatModel
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = defaultImageModel
	}

	hc, err := httpclient.NewWithBaseURL(baseURL, requestTimeout)
	if err != nil {
		return nil, err
	}
	return &Client{cfg: cfg, http: hc}, nil
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Describe asks the vision model for a one-sentence description of the
// pet in the image. The caller owns all fallback wording.
func (c *Client) Describe(ctx context.Context, photoURL string) (string, error) {
	if !c.cfg.Enabled() {
		return "", errors.New("openai: no api key")
	}

	req := chatRequest{
		Model: c.cfg.ChatModel,
		Messages: []chatMessage{{
			Role: "user",
			Content: []contentPart{
				{
					Type: "text",
					Text: "Describe the pet in this photo in one short sentence, mentioning species, color and anything distinctive. Answer with the description only.",
				},
				{
					Type:     "image_url",
					ImageURL: &imageURL{URL: photoURL},
				},
			},
		}},
		MaxTokens: 100,
	}

	var resp chatResponse
	if err := c.http.DoJSON(ctx, http.MethodPost, "/chat/completions", c.headers(), req, &resp); err != nil {
		return "", fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: no choices in response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

type imageRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	N       int    `json:"n"`
	Size    string `json:"size,omitempty"`
	Quality string `json:"quality,omitempty"`
	Style   string `json:"style,omitempty"`
}

type imageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

// Generate renders the prompt and returns a short-lived image URL.
func (c *Client) Generate(ctx context.Context, prompt string, opts imagegen.Options) (string, error) {
	if !c.cfg.Enabled() {
		return "", imagegen.ErrNotConfigured
	}

	req := imageRequest{
		Model:   c.cfg.ImageModel,
		Prompt:  prompt,
		N:       1,
		Size:    opts.Size,
		Quality: opts.Quality,
		Style:   opts.Style,
	}

	var resp imageResponse
	if err := c.http.DoJSON(ctx, http.MethodPost, "/images/generations", c.headers(), req, &resp); err != nil {
		return "", fmt.Errorf("openai: image generation: %w", err)
	}
	if len(resp.Data) == 0 || strings.TrimSpace(resp.Data[0].URL) == "" {
		return "", errors.New("openai: no image in response")
	}
	return resp.Data[0].URL, nil
}

func (c *Client) headers() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + c.cfg.APIKey,
	}
}
