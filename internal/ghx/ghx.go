// Package ghx queries the GitHub hosting platform through the gh CLI.
// Queries are best effort: a missing gh binary or a repository without a
// GitHub remote surfaces as an error the caller is expected to downgrade.
package ghx

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/skaphos/branchsweep/internal/model"
)

// Runner executes gh commands in a given repo directory.
// This interface allows mocking in tests.
type Runner interface {
	// Run executes a gh command in the given directory and returns
	// stdout output.
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// GhRunner is the default Runner implementation that shells out to gh.
type GhRunner struct {
	// GhBin is the path to the gh binary. Defaults to "gh".
	GhBin string
}

// Run executes a gh command.
func (g *GhRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	bin := g.GhBin
	if bin == "" {
		bin = "gh"
	}
	if _, err := exec.LookPath(bin); err != nil {
		return "", fmt.Errorf("gh CLI not found: %w", err)
	}
	cmd := exec.CommandContext(ctx, bin, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	out, err := cmd.Output()
	return strings.TrimSpace(string(out)), err
}

// MergedRequest returns the most recent merged pull request authored by the
// current user whose source branch is exactly the given name, or nil when no
// such request exists.
func MergedRequest(ctx context.Context, r Runner, dir, branch string) (*model.MergedRequest, error) {
	out, err := r.Run(ctx, dir, "pr", "list",
		"--author", "@me",
		"--head", branch,
		"--state", "merged",
		"--json", "number,title,headRefName",
		"--limit", "1",
	)
	if err != nil {
		return nil, fmt.Errorf("gh pr list failed: %w", err)
	}

	var reqs []model.MergedRequest
	if err := json.Unmarshal([]byte(out), &reqs); err != nil {
		return nil, fmt.Errorf("failed to parse pr list output: %w", err)
	}
	if len(reqs) == 0 {
		return nil, nil
	}
	return &reqs[0], nil
}
