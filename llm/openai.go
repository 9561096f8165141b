package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"codecopilot/schema"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	chatCompletionsPath  = "chat/completions"
	maxErrorBody         = 512
)

// OpenAI talks to any OpenAI-compatible chat/completions endpoint.
type OpenAI struct {
	apiKey     string
	model      string
	endpoint   string
	opts       options
	httpClient *http.Client
}

func NewOpenAI(apiKey, model string, opts ...Option) (*OpenAI, error) {
	if apiKey == "" {
		return nil, errors.New("api key is required")
	}
	if model == "" {
		return nil, errors.New("model is required")
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	base := o.baseURL
	if base == "" {
		base = defaultOpenAIBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: o.timeout}
	}

	return &OpenAI{
		apiKey:     apiKey,
		model:      model,
		endpoint:   base + chatCompletionsPath,
		opts:       o,
		httpClient: httpClient,
	}, nil
}

// Send posts the transcript and returns choices[0].message.content.
func (c *OpenAI) Send(ctx context.Context, messages []schema.Message) (string, error) {
	body, err := c.requestBody(messages)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(data, "error.message").String()
		if msg == "" {
			msg = strings.TrimSpace(string(data))
			if len(msg) > maxErrorBody {
				msg = msg[:maxErrorBody] + "..."
			}
		}
		return "", &APIError{Provider: "openai", StatusCode: resp.StatusCode, Message: msg}
	}

	if !gjson.ValidBytes(data) {
		return "", errors.New("failed to decode response: invalid JSON")
	}
	if len(gjson.GetBytes(data, "choices").Array()) == 0 {
		return "", errors.New("no choices returned from API")
	}
	content := gjson.GetBytes(data, "choices.0.message.content")
	if content.Type != gjson.String || content.String() == "" {
		return "", ErrEmptyResponse
	}
	return content.String(), nil
}

func (c *OpenAI) requestBody(messages []schema.Message) ([]byte, error) {
	body := []byte(`{"messages":[]}`)
	var err error
	if body, err = sjson.SetBytes(body, "model", c.model); err != nil {
		return nil, err
	}
	if body, err = sjson.SetBytes(body, "temperature", c.opts.temperature); err != nil {
		return nil, err
	}
	if body, err = sjson.SetBytes(body, "max_tokens", c.opts.maxTokens); err != nil {
		return nil, err
	}

	for _, m := range messages {
		msg := []byte(`{}`)
		if msg, err = sjson.SetBytes(msg, "role", m.Role.String()); err != nil {
			return nil, err
		}
		if msg, err = sjson.SetBytes(msg, "content", m.Content); err != nil {
			return nil, err
		}
		if body, err = sjson.SetRawBytes(body, "messages.-1", msg); err != nil {
			return nil, err
		}
	}
	return body, nil
}
