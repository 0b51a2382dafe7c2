// Package hosting defines the hosting-platform capability surface the engine
// depends on. GitHub via the gh CLI is the only provider; the tool assumes a
// single canonical hosting platform.
package hosting

import (
	"context"

	"github.com/skaphos/branchsweep/internal/ghx"
	"github.com/skaphos/branchsweep/internal/model"
)

// Host answers merged change-request queries for local branch names.
type Host interface {
	Name() string
	// MergedRequest returns the most recent merged request authored by the
	// current user with the given source branch, or nil when none exists.
	MergedRequest(ctx context.Context, dir, branch string) (*model.MergedRequest, error)
}

// GitHubHost implements Host using the gh CLI via ghx.
type GitHubHost struct {
	Runner ghx.Runner
}

func NewGitHubHost(runner ghx.Runner) *GitHubHost {
	if runner == nil {
		runner = &ghx.GhRunner{}
	}
	return &GitHubHost{Runner: runner}
}

func (h *GitHubHost) Name() string { return "github" }

func (h *GitHubHost) MergedRequest(ctx context.Context, dir, branch string) (*model.MergedRequest, error) {
	return ghx.MergedRequest(ctx, h.Runner, dir, branch)
}
