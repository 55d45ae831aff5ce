package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// openaiClient implements Completer for OpenAI chat models.
type openaiClient struct {
	client  *openai.Client
	profile Profile
	hasKey  bool
}

// NewOpenAI creates an OpenAI completer. If apiKey is empty,
// OPENAI_API_KEY is used.
func NewOpenAI(profile Profile, apiKey string) Completer {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	return &openaiClient{
		client:  openai.NewClient(apiKey),
		profile: profile,
		hasKey:  apiKey != "",
	}
}

func (o *openaiClient) Profile() Profile { return o.profile }

func (o *openaiClient) Complete(ctx context.Context, req Request) (string, error) {
	if !o.hasKey {
		return "", &RequestError{
			Provider: ProviderOpenAI,
			Model:    o.profile.Name,
			Err:      fmt.Errorf("OPENAI_API_KEY not set: %w", ErrAuthentication),
		}
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	var messages []openai.ChatCompletionMessage
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.User,
	})

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.profile.Name,
		Messages:  messages,
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", &RequestError{Provider: ProviderOpenAI, Model: o.profile.Name, Err: classifyOpenAI(err)}
	}
	if len(resp.Choices) == 0 {
		return "", &RequestError{Provider: ProviderOpenAI, Model: o.profile.Name, Err: errors.New("empty response")}
	}
	return resp.Choices[0].Message.Content, nil
}

// classifyOpenAI maps provider API errors onto the shared sentinels.
func classifyOpenAI(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", ErrRateLimited, err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", ErrAuthentication, err)
		}
	}
	return err
}
