package report

import (
	"context"
	"errors"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	openai "github.com/sashabaranov/go-openai"
)

const systemPrompt = "You are an AI strategy expert. Always respond with complete, valid JSON. Be concise but thorough."

// ChatCaller is the external completion collaborator. Implementations are
// treated as unreliable: any error or unusable content sends the synthesizer
// down the fallback path, with no retries.
type ChatCaller interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// CallerConfig selects and configures a completion backend. OpenAI-compatible
// endpoints take priority when both keys are set.
type CallerConfig struct {
	OpenAIKey      string
	OpenAIBaseURL  string
	OpenAIModel    string
	AnthropicKey   string
	AnthropicModel string
}

// NewCallerFromConfig returns a caller for whichever backend is configured,
// or an error when neither is. The synthesizer treats a missing caller as
// "source unavailable" and generates from templates.
func NewCallerFromConfig(cfg CallerConfig) (ChatCaller, error) {
	if strings.TrimSpace(cfg.OpenAIKey) != "" {
		return NewOpenAICaller(cfg), nil
	}
	if strings.TrimSpace(cfg.AnthropicKey) != "" {
		return NewAnthropicCaller(cfg), nil
	}
	return nil, errors.New("no completion backend configured")
}

// OpenAICaller talks to an OpenAI-compatible chat completion endpoint.
type OpenAICaller struct {
	client *openai.Client
	model  string
}

func NewOpenAICaller(cfg CallerConfig) *OpenAICaller {
	clientCfg := openai.DefaultConfig(cfg.OpenAIKey)
	if strings.TrimSpace(cfg.OpenAIBaseURL) != "" {
		clientCfg.BaseURL = cfg.OpenAIBaseURL
	}
	model := cfg.OpenAIModel
	if strings.TrimSpace(model) == "" {
		model = openai.GPT4oMini
	}
	return &OpenAICaller{client: openai.NewClientWithConfig(clientCfg), model: model}
}

func (c *OpenAICaller) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.1,
		MaxTokens:   3000,
		Stream:      false,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no content received from completion endpoint")
	}
	return resp.Choices[0].Message.Content, nil
}

// AnthropicMessager is the slice of the Anthropic client the caller needs,
// kept small so tests can fake it.
type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// AnthropicCaller adapts the Anthropic messages API to ChatCaller.
type AnthropicCaller struct {
	messages AnthropicMessager
	model    anthropic.Model
}

func NewAnthropicCaller(cfg CallerConfig) *AnthropicCaller {
	client := anthropic.NewClient(option.WithAPIKey(cfg.AnthropicKey))
	model := anthropic.Model(cfg.AnthropicModel)
	if strings.TrimSpace(cfg.AnthropicModel) == "" {
		model = anthropic.ModelClaudeSonnet4_20250514
	}
	return &AnthropicCaller{messages: &client.Messages, model: model}
}

func (c *AnthropicCaller) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.messages.New(ctx, anthropic.MessageNewParams{
		Model:       c.model,
		MaxTokens:   3000,
		System:      []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(prompt))},
		Temperature: anthropic.Float(0.1),
	})
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("no content received from completion endpoint")
	}
	return sb.String(), nil
}

// extractJSON locates the first top-level JSON object in a completion
// response. Responses may carry leading prose or markdown fences around the
// object; anything after the matching close brace is ignored.
func extractJSON(raw string) (string, error) {
	s := stripCodeFences(raw)
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", errors.New("no JSON object in response")
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("unterminated JSON object in response")
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		parts := strings.SplitN(s, "\n", 2)
		if len(parts) == 2 {
			s = parts[1]
		}
		s = strings.TrimPrefix(s, "json")
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}
