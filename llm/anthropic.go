package llm

import (
	"context"
	"errors"
	"strings"

	"codecopilot/schema"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Anthropic sends the transcript to the Claude Messages API.
type Anthropic struct {
	client anthropic.Client
	model  anthropic.Model
	opts   options
}

func NewAnthropic(apiKey, model string, opts ...Option) (*Anthropic, error) {
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

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithRequestTimeout(o.timeout),
	}
	if o.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(o.baseURL))
	}
	if o.httpClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(o.httpClient))
	}

	return &Anthropic{
		client: anthropic.NewClient(reqOpts...),
		model:  anthropic.Model(model),
		opts:   o,
	}, nil
}

// Send returns the concatenated text blocks of the reply.
func (a *Anthropic) Send(ctx context.Context, history []schema.Message) (string, error) {
	system, messages := buildMessageHistory(history)

	params := anthropic.MessageNewParams{
		Model:       a.model,
		MaxTokens:   a.opts.maxTokens,
		Messages:    messages,
		Temperature: anthropic.Float(a.opts.temperature),
	}
	if len(system) > 0 {
		params.System = system
	}

	resp, err := a.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", &APIError{Provider: "anthropic", StatusCode: apiErr.StatusCode, Message: apiErr.Error()}
		}
		return "", err
	}

	var textParts []string
	for _, content := range resp.Content {
		if content.Type == "text" {
			textParts = append(textParts, content.Text)
		}
	}
	if len(textParts) == 0 {
		return "", ErrEmptyResponse
	}
	return strings.Join(textParts, ""), nil
}

// continuePrompt closes a history that would otherwise end on an assistant
// message, which the Messages API treats as a prefill to be extended.
const continuePrompt = "Continue."

// buildMessageHistory converts the transcript to Anthropic format. Leading
// system messages become the system prompt; system notes later in the
// conversation are sent as tagged user text since the API has no mid-thread
// system role. The result always ends on a user message.
func buildMessageHistory(history []schema.Message) ([]anthropic.TextBlockParam, []anthropic.MessageParam) {
	var system []anthropic.TextBlockParam
	var messages []anthropic.MessageParam

	for _, msg := range history {
		switch msg.Role {
		case schema.RoleSystem:
			if len(messages) == 0 {
				system = append(system, anthropic.TextBlockParam{Text: msg.Content})
				continue
			}
			messages = append(messages, anthropic.NewUserMessage(
				anthropic.NewTextBlock("[system] "+msg.Content),
			))
		case schema.RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(
				anthropic.NewTextBlock(msg.Content),
			))
		default:
			messages = append(messages, anthropic.NewUserMessage(
				anthropic.NewTextBlock(msg.Content),
			))
		}
	}

	if len(messages) == 0 || messages[len(messages)-1].Role == anthropic.MessageParamRoleAssistant {
		messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(continuePrompt)))
	}
	return system, messages
}
