// Package compose turns reduced diff text into the final commit
// message.
package compose

import (
	"context"
	"fmt"
	"strings"

	"github.com/rtwfroody/gpt-commit-msg/internal/llm"
)

// systemPrompt demands the two-part commit message shape: a summary
// line of at most 60 characters, a blank line, then a longer body.
// The shape is enforced through the prompt; the model's output is
// returned as-is.
const systemPrompt = "Write a git commit message for the following diff. " +
	"The message starts with a one-line summary of at most 60 characters, " +
	"followed by a blank line, followed by a longer but concise description " +
	"of the change."

// SystemPrompt returns the instructions sent with the composition
// request, exposed so the caller can measure their token overhead and
// reserve for it during reduction.
func SystemPrompt() string { return systemPrompt }

// Composer issues the single final completion request.
type Composer struct {
	Client            llm.Completer
	MaxResponseTokens int // 0 means the provider default
}

// Compose asks the model for a commit message describing reducedDiff.
// The caller is responsible for having reduced the diff to fit the
// model's context window minus this package's prompt overhead.
func (c *Composer) Compose(ctx context.Context, reducedDiff string) (string, error) {
	out, err := c.Client.Complete(ctx, llm.Request{
		System:    systemPrompt,
		User:      reducedDiff,
		MaxTokens: c.MaxResponseTokens,
	})
	if err != nil {
		return "", fmt.Errorf("compose commit message: %w", err)
	}
	return strings.TrimSpace(out), nil
}
