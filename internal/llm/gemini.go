// Package llm adapts hosted language models to the interval parser.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash"

var (
	errNoAPIKey      = errors.New("gemini API key is required")
	errEmptyResponse = errors.New("gemini returned an empty response")
)

// Options configures a Gemini completer.
type Options struct {
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int32
}

// generator is the subset of the genai models service used by Gemini.
type generator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Gemini completes prompts with Google's Gemini API.
type Gemini struct {
	models generator
	opts   Options
}

// NewGemini creates a Gemini completer.
func NewGemini(ctx context.Context, opts Options) (*Gemini, error) {
	if opts.APIKey == "" {
		return nil, errNoAPIKey
	}

	if opts.Model == "" {
		opts.Model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Gemini{
		models: client.Models,
		opts:   opts,
	}, nil
}

func (g *Gemini) config() *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(g.opts.Temperature),
		ResponseMIMEType: "application/json",
	}

	if g.opts.MaxTokens > 0 {
		cfg.MaxOutputTokens = g.opts.MaxTokens
	}

	return cfg
}

// Complete sends prompt as a single user turn and returns the text of the
// reply.
func (g *Gemini) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.models.GenerateContent(
		ctx,
		g.opts.Model,
		genai.Text(prompt),
		g.config(),
	)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errEmptyResponse
	}

	return text, nil
}

// Name returns the completer name.
func (g *Gemini) Name() string {
	return fmt.Sprintf("genai:%s", g.opts.Model)
}
