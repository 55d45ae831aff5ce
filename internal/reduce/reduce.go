// Package reduce shrinks an oversized diff until it fits a model's
// context window, by recursively splitting it into chunks and
// summarizing each chunk.
package reduce

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/rtwfroody/gpt-commit-msg/internal/diff"
	"github.com/rtwfroody/gpt-commit-msg/internal/llm"
)

// ErrNoBudget reports that the model's context window cannot fit even
// the caller's fixed prompt overhead, let alone any diff content.
var ErrNoBudget = errors.New("reduce: model context window too small for prompt overhead")

// Prompts for chunk summarization. The first round sees raw diff
// text; later rounds see concatenated summaries from the previous
// round.
const (
	summarizeDiffPrompt    = "Make an unordered list of every change in this diff."
	summarizeSummaryPrompt = "Make an unordered list that summarizes the changes described below."
)

// MaxRounds caps the summarize-and-recurse loop. Each round is
// expected to shrink the text, but nothing forces a model's summary to
// be shorter than its input; after this many rounds the remainder is
// truncated instead of looping forever.
const MaxRounds = 5

// DefaultParallel bounds concurrent chunk requests within one round.
const DefaultParallel = 4

// Summary response sizing. Each chunk's summary is asked to stay near
// budget/chunkCount so the concatenated round output lands under the
// budget, clamped to keep degenerate chunk counts from producing
// useless or enormous summaries.
const (
	minSummaryTokens = 64
	maxSummaryTokens = 512
)

// Estimator is the token accounting the reducer drives. Satisfied by
// *token.Estimator; tests substitute a deterministic fake.
type Estimator interface {
	Count(s string) int
	Truncate(s string, maxTokens int) string
}

// Result carries the reduced text and how it was produced.
type Result struct {
	Text      string
	Tokens    int  // measured token count of Text
	Rounds    int  // summarization rounds performed; 0 means identity
	Requests  int  // completion requests issued
	Truncated bool // set when the lossy truncation fallback fired
}

// Reducer shrinks text until it fits the client's context window minus
// the caller's reserved tokens.
type Reducer struct {
	Client    llm.Completer
	Estimator Estimator
	Parallel  int // max concurrent chunk requests; 0 means DefaultParallel

	// OnRound, if set, is called before each round with the number of
	// chunks about to be summarized. OnChunk, if set, is called as each
	// chunk summary completes (possibly from concurrent goroutines).
	// Both exist for progress reporting.
	OnRound func(round, chunks int)
	OnChunk func()
}

// Reduce returns text satisfying
//
//	Count(Text) + reserved <= profile.MaxInputTokens
//
// Text that already fits is returned unchanged without any requests.
// Oversized text is split along diff boundaries, each chunk summarized
// with one completion request, and the concatenated summaries fed back
// in until they fit. An indivisible piece that still exceeds the
// budget is truncated as a last resort, reported via Result.Truncated.
//
// Any chunk request failure aborts the whole reduction: a missing
// chunk summary would silently drop part of the change description.
func (r *Reducer) Reduce(ctx context.Context, text string, reserved int) (Result, error) {
	profile := r.Client.Profile()
	budget := profile.MaxInputTokens - reserved
	if budget <= 0 {
		return Result{}, fmt.Errorf("%w: window %d, reserved %d",
			ErrNoBudget, profile.MaxInputTokens, reserved)
	}

	res := Result{Text: text, Tokens: r.Estimator.Count(text)}

	for round := 1; round <= MaxRounds && res.Tokens > budget; round++ {
		prompt := summarizeDiffPrompt
		if round > 1 {
			prompt = summarizeSummaryPrompt
		}

		// Each chunk plus its summarization prompt must itself fit the
		// window, independent of the final budget.
		chunkLimit := profile.MaxInputTokens - r.Estimator.Count(prompt) - llm.MessageOverheadTokens
		chunks := diff.Split(res.Text, chunkLimit, r.Estimator.Count)

		if len(chunks) == 1 && chunks[0].Tokens > chunkLimit {
			// A single indivisible piece that cannot even be sent for
			// summarization. Cut it down to the budget and stop.
			return r.truncate(res, budget), nil
		}

		// An indivisible chunk among several is cut to the request
		// limit rather than aborting the round.
		for i := range chunks {
			if chunks[i].Tokens > chunkLimit {
				chunks[i].Content = r.Estimator.Truncate(chunks[i].Content, chunkLimit)
				chunks[i].Tokens = chunkLimit
				res.Truncated = true
			}
		}

		if r.OnRound != nil {
			r.OnRound(round, len(chunks))
		}

		perChunk := budget / len(chunks)
		if perChunk < minSummaryTokens {
			perChunk = minSummaryTokens
		}
		if perChunk > maxSummaryTokens {
			perChunk = maxSummaryTokens
		}

		// Chunks have no data dependency on each other, so their
		// requests run concurrently. Summaries land at their chunk's
		// index, preserving input order; later hunks depend on earlier
		// context, so order is semantically meaningful.
		summaries := make([]string, len(chunks))
		g, gctx := errgroup.WithContext(ctx)
		parallel := r.Parallel
		if parallel <= 0 {
			parallel = DefaultParallel
		}
		g.SetLimit(parallel)

		for i, c := range chunks {
			i, c := i, c
			g.Go(func() error {
				out, err := r.Client.Complete(gctx, llm.Request{
					System:    prompt,
					User:      c.Content,
					MaxTokens: perChunk,
				})
				if err != nil {
					return err
				}
				summaries[i] = strings.TrimSpace(out)
				if r.OnChunk != nil {
					r.OnChunk()
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return Result{}, err
		}

		res.Requests += len(chunks)
		res.Rounds = round
		res.Text = strings.Join(summaries, "\n\n")
		res.Tokens = r.Estimator.Count(res.Text)
	}

	if res.Tokens > budget {
		// The depth cap fired with the text still over budget.
		return r.truncate(res, budget), nil
	}
	return res, nil
}

// truncate is the lossy last resort: cut the candidate to the budget.
func (r *Reducer) truncate(res Result, budget int) Result {
	res.Text = r.Estimator.Truncate(res.Text, budget)
	res.Tokens = r.Estimator.Count(res.Text)
	res.Truncated = true
	return res
}
