// Package token counts text length in model input tokens.
package token

import (
	"fmt"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// Estimator counts tokens using the encoding of a specific model.
// The reduction algorithm's budget accounting depends on these counts
// agreeing with what the provider enforces, so the encoding is looked
// up by model name rather than hardcoded.
type Estimator struct {
	enc *tiktoken.Tiktoken
}

// NewEstimator returns an Estimator for the named model. Models
// tiktoken does not know (Anthropic's, for instance) fall back to
// cl100k_base, which approximates their tokenization closely enough
// for budget accounting.
func NewEstimator(model string) (*Estimator, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, fmt.Errorf("token: get encoding: %w", err)
		}
	}
	return &Estimator{enc: enc}, nil
}

// Count returns the number of tokens in s. Empty input counts as zero.
func (e *Estimator) Count(s string) int {
	if s == "" {
		return 0
	}
	return len(e.enc.Encode(s, nil, nil))
}

// Truncate returns s cut down to at most maxTokens tokens.
func (e *Estimator) Truncate(s string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	tokens := e.enc.Encode(s, nil, nil)
	if len(tokens) <= maxTokens {
		return s
	}
	return e.enc.Decode(tokens[:maxTokens])
}
