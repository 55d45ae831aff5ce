// Package cli defines the Cobra command tree for gpt-commit-msg.
package cli

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rtwfroody/gpt-commit-msg/internal/cache"
	"github.com/rtwfroody/gpt-commit-msg/internal/compose"
	"github.com/rtwfroody/gpt-commit-msg/internal/config"
	"github.com/rtwfroody/gpt-commit-msg/internal/llm"
	"github.com/rtwfroody/gpt-commit-msg/internal/reduce"
	"github.com/rtwfroody/gpt-commit-msg/internal/token"
)

var (
	// version, commit, date are set via -ldflags at build time.
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var flags struct {
	git      bool
	gpt4     bool
	provider string
	verbose  bool
	noCache  bool
}

var rootCmd = &cobra.Command{
	Use:   "gpt-commit-msg",
	Short: "Generate a commit message from a diff with an LLM",
	Long: `Use a language model to write source control commit messages.

Reads a unified diff from stdin (or the staged git changes with --git)
and asks the model for a commit message: a one-line summary, a blank
line, then a longer description. Diffs too large for the model's
context window are split along file and hunk boundaries and summarized
recursively until they fit.

The OpenAI provider needs OPENAI_API_KEY set; the Anthropic provider
needs ANTHROPIC_API_KEY.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

// Execute runs the root command.
func Execute(v, c, d string) {
	version, commit, date = v, c, d
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVarP(&flags.git, "git", "g", false, "use staged git changes instead of stdin")
	rootCmd.Flags().BoolVarP(&flags.gpt4, "gpt4", "4", false, "use the higher-quality model (slower, costs more)")
	rootCmd.Flags().StringVarP(&flags.provider, "provider", "p", "", "completion provider: openai, anthropic")
	rootCmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "report token accounting and requests on stderr")
	rootCmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "bypass the response cache")

	rootCmd.AddCommand(newVersionCmd())
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	providerName := cfg.Provider
	if flags.provider != "" {
		providerName = flags.provider
	}

	profile, err := llm.ProfileFor(providerName, flags.gpt4)
	if err != nil {
		return err
	}

	diffText, source, err := readDiff(flags.git)
	if err != nil {
		return err
	}
	verbosef("input: %s\n", source)
	verbosef("model: %s (window %d tokens)\n", profile.Name, profile.MaxInputTokens)

	est, err := token.NewEstimator(profile.Name)
	if err != nil {
		return err
	}

	client, err := llm.New(profile, cfg.Key(providerName))
	if err != nil {
		return err
	}

	var store *cache.Store
	if cfg.Cache.Enabled && !flags.noCache {
		path := cfg.Cache.Path
		if path == "" {
			path, err = cache.DefaultPath()
		}
		if err == nil {
			store, err = cache.Open(path)
		}
		if err != nil {
			// A broken cache must not block message generation.
			fmt.Fprintf(os.Stderr, "warning: cache disabled: %v\n", err)
		} else {
			defer store.Close()
			client = cache.Wrap(client, store)
		}
	}

	// Reserve room for the composition request's fixed prompt overhead
	// so the reduced diff and the final prompt fit the window together.
	reserved := est.Count(compose.SystemPrompt()) + llm.MessageOverheadTokens

	reducer := &reduce.Reducer{
		Client:    client,
		Estimator: est,
		Parallel:  cfg.Request.MaxParallel,
	}

	// Spinner on stderr while chunk requests are in flight; created
	// lazily so a diff that already fits shows nothing.
	var bar *progressbar.ProgressBar
	if term.IsTerminal(int(os.Stderr.Fd())) {
		reducer.OnRound = func(round, chunks int) {
			if bar == nil {
				bar = progressbar.NewOptions(-1,
					progressbar.OptionSetDescription("  Summarizing diff"),
					progressbar.OptionSpinnerType(14),
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionClearOnFinish(),
				)
			}
			bar.Describe(fmt.Sprintf("  Summarizing diff (round %d, %d chunks)", round, chunks))
		}
		reducer.OnChunk = func() {
			_ = bar.Add(1)
		}
	}

	res, err := reducer.Reduce(cmd.Context(), diffText, reserved)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return err
	}

	verbosef("diff: %d tokens; reduced to %d tokens in %d round(s), %d request(s)\n",
		est.Count(diffText), res.Tokens, res.Rounds, res.Requests)
	if res.Truncated {
		fmt.Fprintln(os.Stderr, "warning: some changes were truncated to fit the model's context window")
	}

	composer := &compose.Composer{
		Client:            client,
		MaxResponseTokens: cfg.Request.MaxResponseTokens,
	}
	msg, err := composer.Compose(cmd.Context(), res.Text)
	if err != nil {
		return err
	}

	fmt.Println(compose.Wrap(msg, cfg.WrapWidth))

	verbosef("(%s)\n", profile.Name)
	if store != nil {
		verbosef("cache: %d hit(s), %d miss(es)\n", store.Hits(), store.Misses())
	}
	return nil
}

func verbosef(format string, args ...any) {
	if flags.verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("gpt-commit-msg %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
