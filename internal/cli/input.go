package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/rtwfroody/gpt-commit-msg/internal/git"
)

// errNoInput means neither stdin nor the staged changes yielded a diff.
var errNoInput = errors.New("no diff to describe")

// readDiff resolves the diff text: staged git changes when useGit is
// set, otherwise a pipe on stdin. Exactly one source is consulted per
// invocation.
func readDiff(useGit bool) (text, source string, err error) {
	if useGit {
		out, err := git.StagedDiff(".")
		if err != nil {
			return "", "", err
		}
		if strings.TrimSpace(out) == "" {
			return "", "", fmt.Errorf("%w: nothing staged (did you forget git add?)", errNoInput)
		}
		return out, "staged git changes", nil
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		return "", "", fmt.Errorf("%w: stdin is a terminal; pipe a diff in or pass --git", errNoInput)
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", "", fmt.Errorf("read stdin: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", "", fmt.Errorf("%w: empty diff on stdin", errNoInput)
	}
	return string(data), "diff from stdin", nil
}
