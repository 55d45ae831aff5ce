package llm

import "fmt"

// Profile identifies a completion model and its context-window
// ceiling. Constructed once from the command line and passed around
// immutably.
type Profile struct {
	Provider       string
	Name           string
	MaxInputTokens int
}

// Each provider exposes two profiles: a cheap, fast default and a
// higher-quality model selected by the -4 flag.
var profiles = map[string]struct{ fast, quality Profile }{
	ProviderOpenAI: {
		fast:    Profile{Provider: ProviderOpenAI, Name: "gpt-3.5-turbo", MaxInputTokens: 4097},
		quality: Profile{Provider: ProviderOpenAI, Name: "gpt-4", MaxInputTokens: 8192},
	},
	ProviderAnthropic: {
		fast:    Profile{Provider: ProviderAnthropic, Name: "claude-3-5-haiku-latest", MaxInputTokens: 200000},
		quality: Profile{Provider: ProviderAnthropic, Name: "claude-sonnet-4-0", MaxInputTokens: 200000},
	},
}

// ProfileFor returns the model profile for a provider. quality selects
// the slower, more capable model.
func ProfileFor(provider string, quality bool) (Profile, error) {
	p, ok := profiles[provider]
	if !ok {
		return Profile{}, fmt.Errorf("llm: unknown provider %q; valid providers: openai, anthropic", provider)
	}
	if quality {
		return p.quality, nil
	}
	return p.fast, nil
}
