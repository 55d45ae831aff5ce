// Package llm wraps chat-completion providers behind a single
// Completer interface.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Provider name constants.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// MessageOverheadTokens is the fixed per-request overhead the chat
// message framing adds on top of the prompt text itself.
const MessageOverheadTokens = 8

// Request holds one completion call's inputs. The completer attaches
// both prompts to the request faithfully and performs no token
// budgeting of its own; staying within the model's context window is
// the caller's job.
type Request struct {
	System    string
	User      string
	MaxTokens int // maximum response tokens; 0 means a provider default
}

// Completer sends one completion request and returns the generated text.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
	Profile() Profile
}

// Sentinel errors for throttling and credential failures. Both arrive
// wrapped inside a *RequestError, so errors.Is sees them through the
// chain. A rate-limited request is recoverable; the caller may retry
// after backing off.
var (
	ErrRateLimited    = errors.New("rate limited")
	ErrAuthentication = errors.New("authentication failed")
)

// RequestError reports a failed provider request.
type RequestError struct {
	Provider string
	Model    string
	Err      error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s request (%s): %v", e.Provider, e.Model, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// New constructs the Completer for the profile's provider. If apiKey
// is empty the provider's environment variable is consulted; with no
// key at all, every Complete call fails with ErrAuthentication.
func New(profile Profile, apiKey string) (Completer, error) {
	switch profile.Provider {
	case ProviderOpenAI:
		return NewOpenAI(profile, apiKey), nil
	case ProviderAnthropic:
		return NewAnthropic(profile, apiKey), nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q; valid providers: openai, anthropic", profile.Provider)
	}
}
