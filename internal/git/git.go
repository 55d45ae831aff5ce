// Package git obtains staged changes from a local repository.
package git

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// StagedDiff returns the unified diff of the staged changes in dir,
// the output of `git diff --cached`. An empty string with a nil error
// means there is nothing staged.
func StagedDiff(dir string) (string, error) {
	cmd := exec.Command("git", "diff", "--cached")
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("git diff --cached: %s", msg)
		}
		return "", fmt.Errorf("git diff --cached: %w", err)
	}
	return string(out), nil
}
