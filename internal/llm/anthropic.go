package llm

import (
	"context"
	"errors"
	"fmt"
	"os"

	anthropic "github.com/liushuangls/go-anthropic/v2"
)

// anthropicClient implements Completer for Anthropic Claude models.
type anthropicClient struct {
	client  *anthropic.Client
	profile Profile
	hasKey  bool
}

// NewAnthropic creates a Claude completer. If apiKey is empty,
// ANTHROPIC_API_KEY is used.
func NewAnthropic(profile Profile, apiKey string) Completer {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	return &anthropicClient{
		client:  anthropic.NewClient(apiKey),
		profile: profile,
		hasKey:  apiKey != "",
	}
}

func (c *anthropicClient) Profile() Profile { return c.profile }

func (c *anthropicClient) Complete(ctx context.Context, req Request) (string, error) {
	if !c.hasKey {
		return "", &RequestError{
			Provider: ProviderAnthropic,
			Model:    c.profile.Name,
			Err:      fmt.Errorf("ANTHROPIC_API_KEY not set: %w", ErrAuthentication),
		}
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(c.profile.Name),
		System:    req.System,
		MaxTokens: maxTokens,
		Messages: []anthropic.Message{
			{
				Role:    anthropic.RoleUser,
				Content: []anthropic.MessageContent{anthropic.NewTextMessageContent(req.User)},
			},
		},
	})
	if err != nil {
		return "", &RequestError{Provider: ProviderAnthropic, Model: c.profile.Name, Err: classifyAnthropic(err)}
	}
	if len(resp.Content) == 0 {
		return "", &RequestError{Provider: ProviderAnthropic, Model: c.profile.Name, Err: errors.New("empty response")}
	}
	return resp.Content[0].GetText(), nil
}

// classifyAnthropic maps provider API errors onto the shared sentinels.
func classifyAnthropic(err error) error {
	var apiErr *anthropic.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.IsRateLimitErr(), apiErr.IsOverloadedErr():
			return fmt.Errorf("%w: %v", ErrRateLimited, err)
		case apiErr.IsAuthenticationErr(), apiErr.IsPermissionErr():
			return fmt.Errorf("%w: %v", ErrAuthentication, err)
		}
	}
	return err
}
