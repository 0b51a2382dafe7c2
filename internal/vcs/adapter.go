// SPDX-License-Identifier: MIT

// Package vcs defines the version-control capability surface the engine
// depends on. Git via the gitx package is the only adapter; the tool assumes
// a single canonical VCS.
package vcs

import (
	"context"

	"github.com/skaphos/branchsweep/internal/gitx"
	"github.com/skaphos/branchsweep/internal/model"
)

// Adapter defines the VCS operations BranchSweep relies on.
// The interface exists so the engine can be exercised against a fake in tests.
type Adapter interface {
	Name() string
	IsRepo(ctx context.Context, dir string) (bool, error)
	WorktreeStatus(ctx context.Context, dir string) (*model.Worktree, error)
	DiffStat(ctx context.Context, dir string) string
	LocalBranches(ctx context.Context, dir, mergedInto string) ([]string, error)
	BranchExists(ctx context.Context, dir, name string) bool
	CurrentBranch(ctx context.Context, dir string) (string, error)
	Checkout(ctx context.Context, dir, name string) error
	ConfiguredRemote(ctx context.Context, dir, branch string) string
	Pull(ctx context.Context, dir string) error
	PullFrom(ctx context.Context, dir, remote, branch string) error
	GC(ctx context.Context, dir string) error
	DeleteBranch(ctx context.Context, dir, name string, force bool) error
	Rebase(ctx context.Context, dir, onto string) error
	RebaseAbort(ctx context.Context, dir string) error
	RevParse(ctx context.Context, dir, ref string) (string, error)
}

// GitAdapter implements Adapter using the git CLI via gitx.
type GitAdapter struct {
	Runner gitx.Runner
}

func NewGitAdapter(runner gitx.Runner) *GitAdapter {
	if runner == nil {
		runner = &gitx.GitRunner{}
	}
	return &GitAdapter{Runner: runner}
}

func (g *GitAdapter) Name() string { return "git" }

func (g *GitAdapter) IsRepo(ctx context.Context, dir string) (bool, error) {
	return gitx.IsRepo(ctx, g.Runner, dir)
}

func (g *GitAdapter) WorktreeStatus(ctx context.Context, dir string) (*model.Worktree, error) {
	return gitx.WorktreeStatus(ctx, g.Runner, dir)
}

func (g *GitAdapter) DiffStat(ctx context.Context, dir string) string {
	return gitx.DiffStat(ctx, g.Runner, dir)
}

func (g *GitAdapter) LocalBranches(ctx context.Context, dir, mergedInto string) ([]string, error) {
	return gitx.LocalBranches(ctx, g.Runner, dir, mergedInto)
}

func (g *GitAdapter) BranchExists(ctx context.Context, dir, name string) bool {
	return gitx.BranchExists(ctx, g.Runner, dir, name)
}

func (g *GitAdapter) CurrentBranch(ctx context.Context, dir string) (string, error) {
	return gitx.CurrentBranch(ctx, g.Runner, dir)
}

func (g *GitAdapter) Checkout(ctx context.Context, dir, name string) error {
	return gitx.Checkout(ctx, g.Runner, dir, name)
}

func (g *GitAdapter) ConfiguredRemote(ctx context.Context, dir, branch string) string {
	return gitx.ConfiguredRemote(ctx, g.Runner, dir, branch)
}

func (g *GitAdapter) Pull(ctx context.Context, dir string) error {
	return gitx.Pull(ctx, g.Runner, dir)
}

func (g *GitAdapter) PullFrom(ctx context.Context, dir, remote, branch string) error {
	return gitx.PullFrom(ctx, g.Runner, dir, remote, branch)
}

func (g *GitAdapter) GC(ctx context.Context, dir string) error {
	return gitx.GC(ctx, g.Runner, dir)
}

func (g *GitAdapter) DeleteBranch(ctx context.Context, dir, name string, force bool) error {
	return gitx.DeleteBranch(ctx, g.Runner, dir, name, force)
}

func (g *GitAdapter) Rebase(ctx context.Context, dir, onto string) error {
	return gitx.Rebase(ctx, g.Runner, dir, onto)
}

func (g *GitAdapter) RebaseAbort(ctx context.Context, dir string) error {
	return gitx.RebaseAbort(ctx, g.Runner, dir)
}

func (g *GitAdapter) RevParse(ctx context.Context, dir, ref string) (string, error) {
	return gitx.RevParse(ctx, g.Runner, dir, ref)
}
