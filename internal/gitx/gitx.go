// Package gitx provides helpers for executing git commands and parsing
// their output. It shells out to the installed git binary.
package gitx

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/skaphos/branchsweep/internal/model"
)

// Runner executes git commands in a given repo directory.
// This interface allows mocking in tests.
type Runner interface {
	// Run executes a git command in the given directory and returns
	// combined stdout/stderr output.
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// GitRunner is the default Runner implementation that shells out to git.
type GitRunner struct {
	// GitBin is the path to the git binary. Defaults to "git".
	GitBin string
}

// Run executes a git command.
func (g *GitRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	bin := g.GitBin
	if bin == "" {
		bin = "git"
	}
	cmd := exec.CommandContext(ctx, bin, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	out, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(out)), err
}

// IsRepo checks whether the given path is inside a git working tree.
func IsRepo(ctx context.Context, r Runner, dir string) (bool, error) {
	out, err := r.Run(ctx, dir, "rev-parse", "--is-inside-work-tree")
	if err != nil {
		return false, nil
	}
	return strings.TrimSpace(out) == "true", nil
}

// WorktreeStatus returns the working tree dirty/staged/unstaged/untracked counts.
func WorktreeStatus(ctx context.Context, r Runner, dir string) (*model.Worktree, error) {
	out, err := r.Run(ctx, dir, "status", "--porcelain=v1")
	if err != nil {
		return nil, fmt.Errorf("git status: %w", err)
	}
	return ParsePorcelainStatus(out), nil
}

// DiffStat returns the stat summary of all staged and unstaged changes
// relative to HEAD. Best effort: an empty string is returned on error
// (for example, a repository with no commits yet).
func DiffStat(ctx context.Context, r Runner, dir string) string {
	out, err := r.Run(ctx, dir, "diff", "HEAD", "--stat")
	if err != nil {
		return ""
	}
	return out
}

// LocalBranches lists local branch names in git's own order. When mergedInto
// is non-empty the list is restricted to branches whose tips are ancestors
// of that ref.
func LocalBranches(ctx context.Context, r Runner, dir, mergedInto string) ([]string, error) {
	args := []string{"branch", "--list", "--format=%(refname:short)"}
	if mergedInto != "" {
		args = append(args, "--merged", mergedInto)
	}
	out, err := r.Run(ctx, dir, args...)
	if err != nil {
		return nil, fmt.Errorf("git branch: %w", err)
	}
	return ParseBranchList(out), nil
}

// BranchExists reports whether a local branch with the given name exists.
func BranchExists(ctx context.Context, r Runner, dir, name string) bool {
	_, err := r.Run(ctx, dir, "rev-parse", "--verify", "--quiet", "refs/heads/"+name)
	return err == nil
}

// CurrentBranch returns the checked-out branch name, or an error for a
// detached HEAD.
func CurrentBranch(ctx context.Context, r Runner, dir string) (string, error) {
	out, err := r.Run(ctx, dir, "symbolic-ref", "--quiet", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("git symbolic-ref: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// Checkout switches the working tree to the given branch.
func Checkout(ctx context.Context, r Runner, dir, name string) error {
	if _, err := r.Run(ctx, dir, "checkout", name); err != nil {
		return fmt.Errorf("git checkout %s: %w", name, err)
	}
	return nil
}

// ConfiguredRemote returns the remote the given branch tracks, or an empty
// string when none is configured. git exits non-zero for an unset key, which
// is not an error here.
func ConfiguredRemote(ctx context.Context, r Runner, dir, branch string) string {
	out, err := r.Run(ctx, dir, "config", "--get", "branch."+branch+".remote")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// Pull runs a plain fetch-and-merge using the current branch's configured
// upstream linkage.
func Pull(ctx context.Context, r Runner, dir string) error {
	if _, err := r.Run(ctx, dir, "pull"); err != nil {
		return fmt.Errorf("git pull: %w", err)
	}
	return nil
}

// PullFrom runs an explicit fetch-and-merge from the named remote into the
// given branch, for branches with no configured upstream.
func PullFrom(ctx context.Context, r Runner, dir, remote, branch string) error {
	if _, err := r.Run(ctx, dir, "pull", remote, branch); err != nil {
		return fmt.Errorf("git pull %s %s: %w", remote, branch, err)
	}
	return nil
}

// GC triggers repository storage optimization.
func GC(ctx context.Context, r Runner, dir string) error {
	if _, err := r.Run(ctx, dir, "gc"); err != nil {
		return fmt.Errorf("git gc: %w", err)
	}
	return nil
}

// DeleteBranch removes a local branch. With force set the delete succeeds
// even when git cannot prove the branch is merged into the current HEAD.
func DeleteBranch(ctx context.Context, r Runner, dir, name string, force bool) error {
	flag := "-d"
	if force {
		flag = "-D"
	}
	if _, err := r.Run(ctx, dir, "branch", flag, name); err != nil {
		return fmt.Errorf("git branch %s %s: %w", flag, name, err)
	}
	return nil
}

// Rebase replays the current branch onto the given ref.
func Rebase(ctx context.Context, r Runner, dir, onto string) error {
	if _, err := r.Run(ctx, dir, "rebase", onto); err != nil {
		return fmt.Errorf("git rebase %s: %w", onto, err)
	}
	return nil
}

// RebaseAbort restores the branch to its pre-rebase state after a failed
// rebase.
func RebaseAbort(ctx context.Context, r Runner, dir string) error {
	if _, err := r.Run(ctx, dir, "rebase", "--abort"); err != nil {
		return fmt.Errorf("git rebase --abort: %w", err)
	}
	return nil
}

// RevParse resolves a ref to its commit hash.
func RevParse(ctx context.Context, r Runner, dir, ref string) (string, error) {
	out, err := r.Run(ctx, dir, "rev-parse", ref)
	if err != nil {
		return "", fmt.Errorf("git rev-parse %s: %w", ref, err)
	}
	return strings.TrimSpace(out), nil
}
