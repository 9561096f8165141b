// Package llm holds the chat completion clients the conversation loop talks to.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"codecopilot/config"
	"codecopilot/schema"
)

// Client sends the full transcript and returns the raw text of the reply.
type Client interface {
	Send(ctx context.Context, messages []schema.Message) (string, error)
}

// ErrEmptyResponse is returned when the provider answers without any text.
var ErrEmptyResponse = errors.New("empty response from model")

// APIError is a non-success answer from the provider.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API request failed with status %d: %s", e.Provider, e.StatusCode, e.Message)
}

type options struct {
	baseURL     string
	temperature float64
	maxTokens   int64
	timeout     time.Duration
	httpClient  *http.Client
}

func defaultOptions() options {
	return options{
		temperature: 0.7,
		maxTokens:   1500,
		timeout:     5 * time.Minute,
	}
}

type Option func(*options)

func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.baseURL = baseURL
	}
}

func WithTemperature(t float64) Option {
	return func(o *options) {
		o.temperature = t
	}
}

func WithMaxTokens(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxTokens = n
		}
	}
}

// WithTimeout bounds a single request. Zero keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// New builds the client for cfg.Provider.
func New(cfg *config.Config, extra ...Option) (Client, error) {
	opts := []Option{
		WithBaseURL(cfg.BaseURL),
		WithTemperature(cfg.Temperature),
		WithMaxTokens(cfg.MaxTokens),
		WithTimeout(cfg.RequestTimeout),
	}
	opts = append(opts, extra...)

	var (
		client Client
		err    error
	)
	switch cfg.Provider {
	case config.ProviderOpenAI:
		client, err = NewOpenAI(cfg.APIKey, cfg.Model, opts...)
	case config.ProviderAnthropic:
		client, err = NewAnthropic(cfg.APIKey, cfg.Model, opts...)
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", config.ErrInvalid, cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalid, err)
	}
	return client, nil
}
