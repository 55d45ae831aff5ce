package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	anthropic "github.com/liushuangls/go-anthropic/v2"
	openai "github.com/sashabaranov/go-openai"
)

func TestProfileFor(t *testing.T) {
	tests := []struct {
		provider  string
		quality   bool
		wantName  string
		wantLimit int
	}{
		{ProviderOpenAI, false, "gpt-3.5-turbo", 4097},
		{ProviderOpenAI, true, "gpt-4", 8192},
		{ProviderAnthropic, false, "claude-3-5-haiku-latest", 200000},
		{ProviderAnthropic, true, "claude-sonnet-4-0", 200000},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/quality=%v", tt.provider, tt.quality), func(t *testing.T) {
			p, err := ProfileFor(tt.provider, tt.quality)
			if err != nil {
				t.Fatalf("ProfileFor: %v", err)
			}
			if p.Name != tt.wantName {
				t.Errorf("name: got %q, want %q", p.Name, tt.wantName)
			}
			if p.MaxInputTokens != tt.wantLimit {
				t.Errorf("max input tokens: got %d, want %d", p.MaxInputTokens, tt.wantLimit)
			}
			if p.Provider != tt.provider {
				t.Errorf("provider: got %q, want %q", p.Provider, tt.provider)
			}
		})
	}
}

func TestProfileFor_UnknownProvider(t *testing.T) {
	if _, err := ProfileFor("gemini", false); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestNew_ValidProviders(t *testing.T) {
	for _, provider := range []string{ProviderOpenAI, ProviderAnthropic} {
		t.Run(provider, func(t *testing.T) {
			profile, err := ProfileFor(provider, false)
			if err != nil {
				t.Fatalf("ProfileFor: %v", err)
			}
			c, err := New(profile, "test-key")
			if err != nil {
				t.Fatalf("New(%q): %v", provider, err)
			}
			if c.Profile().Provider != provider {
				t.Errorf("Profile().Provider = %q, want %q", c.Profile().Provider, provider)
			}
		})
	}
}

func TestNew_UnknownProvider(t *testing.T) {
	if _, err := New(Profile{Provider: "invalid"}, "key"); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestComplete_MissingKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	for _, provider := range []string{ProviderOpenAI, ProviderAnthropic} {
		t.Run(provider, func(t *testing.T) {
			profile, _ := ProfileFor(provider, false)
			c, err := New(profile, "")
			if err != nil {
				t.Fatalf("New: %v", err)
			}

			_, err = c.Complete(context.Background(), Request{User: "hello"})
			if err == nil {
				t.Fatal("expected error with no API key")
			}
			if !errors.Is(err, ErrAuthentication) {
				t.Errorf("expected ErrAuthentication, got %v", err)
			}
			var reqErr *RequestError
			if !errors.As(err, &reqErr) {
				t.Errorf("expected *RequestError, got %T", err)
			}
		})
	}
}

func TestClassifyOpenAI(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{429, ErrRateLimited},
		{401, ErrAuthentication},
		{403, ErrAuthentication},
	}

	for _, tt := range tests {
		err := classifyOpenAI(&openai.APIError{HTTPStatusCode: tt.status})
		if !errors.Is(err, tt.want) {
			t.Errorf("status %d: got %v, want %v", tt.status, err, tt.want)
		}
	}

	// A plain transport error passes through unclassified.
	plain := errors.New("connection refused")
	if got := classifyOpenAI(plain); got != plain {
		t.Errorf("plain error should pass through, got %v", got)
	}
	if errors.Is(classifyOpenAI(&openai.APIError{HTTPStatusCode: 500}), ErrRateLimited) {
		t.Error("500 should not classify as rate limited")
	}
}

func TestClassifyAnthropic(t *testing.T) {
	rateLimited := classifyAnthropic(&anthropic.APIError{Type: "rate_limit_error"})
	if !errors.Is(rateLimited, ErrRateLimited) {
		t.Errorf("rate_limit_error: got %v, want ErrRateLimited", rateLimited)
	}

	auth := classifyAnthropic(&anthropic.APIError{Type: "authentication_error"})
	if !errors.Is(auth, ErrAuthentication) {
		t.Errorf("authentication_error: got %v, want ErrAuthentication", auth)
	}

	plain := errors.New("connection refused")
	if got := classifyAnthropic(plain); got != plain {
		t.Errorf("plain error should pass through, got %v", got)
	}
}

func TestRequestError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("throttled: %w", ErrRateLimited)
	err := &RequestError{Provider: ProviderOpenAI, Model: "gpt-4", Err: inner}

	if !errors.Is(err, ErrRateLimited) {
		t.Error("RequestError should unwrap to ErrRateLimited")
	}
	msg := err.Error()
	if !strings.Contains(msg, "openai") || !strings.Contains(msg, "gpt-4") {
		t.Errorf("error message should name provider and model: %q", msg)
	}
}
