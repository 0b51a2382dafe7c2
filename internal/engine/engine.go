// Package engine orchestrates a tidy run: gate, trunk resolution, sync,
// reclaim, the branch disposition sweeps, and the optional rebase-all loop.
// It coordinates between the gitx, vcs, hosting, and config packages.
package engine

import (
	"context"
	"time"

	"github.com/skaphos/branchsweep/internal/config"
	"github.com/skaphos/branchsweep/internal/gitx"
	"github.com/skaphos/branchsweep/internal/hosting"
	"github.com/skaphos/branchsweep/internal/model"
	"github.com/skaphos/branchsweep/internal/vcs"
)

// Prompter asks the user a yes/no question. Anything but an affirmative
// answer reads as no.
type Prompter func(prompt string) (bool, error)

// Engine is the core orchestrator for a BranchSweep run.
type Engine struct {
	cfg     *config.Config
	adapter vcs.Adapter
	host    hosting.Host

	// Notify emits user-visible status lines. Defaults to a no-op.
	Notify func(format string, args ...any)
}

// New creates a new Engine with the given configuration.
func New(cfg *config.Config, adapter vcs.Adapter, host hosting.Host) *Engine {
	if adapter == nil {
		adapter = vcs.NewGitAdapter(nil)
	}
	if host == nil {
		host = hosting.NewGitHubHost(nil)
	}
	return &Engine{
		cfg:     cfg,
		adapter: adapter,
		host:    host,
		Notify:  func(string, ...any) {},
	}
}

// Config returns the engine configuration reference.
func (e *Engine) Config() *config.Config { return e.cfg }

// Adapter returns the engine VCS adapter.
func (e *Engine) Adapter() vcs.Adapter { return e.adapter }

// Host returns the engine hosting platform.
func (e *Engine) Host() hosting.Host { return e.host }

// opCtx bounds a single external operation with the configured timeout.
// Prompts are never bounded; only capability calls are.
func (e *Engine) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	secs := 0
	if e.cfg != nil {
		secs = e.cfg.Defaults.TimeoutSeconds
	}
	if secs <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, time.Duration(secs)*time.Second)
}

// Gate verifies the working tree has no staged or unstaged changes against
// the last commit. A dirty tree aborts the whole run; the returned
// DirtyTreeError carries the stat summary for display. Untracked files are
// reported but never block the run.
func (e *Engine) Gate(ctx context.Context, dir string) error {
	opCtx, cancel := e.opCtx(ctx)
	defer cancel()

	ok, err := e.adapter.IsRepo(opCtx, dir)
	if err != nil {
		return err
	}
	if !ok {
		return &NotARepoError{Dir: dir}
	}

	wt, err := e.adapter.WorktreeStatus(opCtx, dir)
	if err != nil {
		return err
	}
	if wt.Dirty {
		return &DirtyTreeError{
			Worktree: wt,
			Stat:     e.adapter.DiffStat(opCtx, dir),
		}
	}
	if wt.Untracked > 0 {
		e.Notify("ignoring %d untracked files", wt.Untracked)
	}
	return nil
}

// ResolveTrunk picks the trunk branch: the override when it exists locally,
// else the configured candidates in order. A missing override warns and falls
// through; no resolvable trunk is fatal.
func (e *Engine) ResolveTrunk(ctx context.Context, dir, override string) (string, error) {
	opCtx, cancel := e.opCtx(ctx)
	defer cancel()

	if override != "" {
		if e.adapter.BranchExists(opCtx, dir, override) {
			return override, nil
		}
		e.Notify("warning: branch %q not found locally, falling back to default trunk resolution", override)
	}

	candidates := []string{"master", "main"}
	if e.cfg != nil && len(e.cfg.Defaults.TrunkCandidates) > 0 {
		candidates = e.cfg.Defaults.TrunkCandidates
	}
	for _, name := range candidates {
		if e.adapter.BranchExists(opCtx, dir, name) {
			return name, nil
		}
	}
	return "", &NoTrunkError{Candidates: candidates}
}

// SyncOptions configures the sync stage.
type SyncOptions struct {
	Dir string
	// Trunk is the resolved trunk branch, immutable for the run.
	Trunk string
	// Remote is the fallback remote when the trunk has no configured remote.
	Remote string
	// Skip suppresses all checkout/pull side effects (developer mode).
	Skip bool
	// DryRun reports the intended operation without executing it.
	DryRun bool
}

// Sync checks out the trunk, unless it is already checked out, and brings it
// up to date from its remote. Failures here are stage-fatal only; the caller
// downgrades them to warnings.
func (e *Engine) Sync(ctx context.Context, opts SyncOptions) error {
	if opts.Skip {
		e.Notify("developer mode: skipping checkout and pull of %s", opts.Trunk)
		return nil
	}
	if opts.DryRun {
		e.Notify("dry run: would check out %s and pull", opts.Trunk)
		return nil
	}

	opCtx, cancel := e.opCtx(ctx)
	defer cancel()

	if cur, err := e.adapter.CurrentBranch(opCtx, opts.Dir); err != nil || cur != opts.Trunk {
		if err := e.adapter.Checkout(opCtx, opts.Dir, opts.Trunk); err != nil {
			return err
		}
	}
	remote := e.adapter.ConfiguredRemote(opCtx, opts.Dir, opts.Trunk)
	if remote == "" {
		fallback := opts.Remote
		if fallback == "" && e.cfg != nil {
			fallback = e.cfg.Defaults.RemoteName
		}
		if fallback == "" {
			fallback = "origin"
		}
		e.Notify("%s has no configured remote, pulling from %s", opts.Trunk, fallback)
		return e.adapter.PullFrom(opCtx, opts.Dir, fallback, opts.Trunk)
	}
	return e.adapter.Pull(opCtx, opts.Dir)
}

// Reclaim triggers repository storage optimization. Non-fatal to the rest of
// the run.
func (e *Engine) Reclaim(ctx context.Context, dir string, dryRun bool) error {
	if dryRun {
		e.Notify("dry run: would run garbage collection")
		return nil
	}
	opCtx, cancel := e.opCtx(ctx)
	defer cancel()
	return e.adapter.GC(opCtx, dir)
}

// RunOptions configures a full tidy run.
type RunOptions struct {
	Dir           string
	TrunkOverride string
	Remote        string
	Protected     []string
	RebaseAll     bool
	SkipGC        bool
	SkipSync      bool
	DryRun        bool
	Prompt        Prompter
}

// Report is the aggregate outcome of a tidy run.
type Report struct {
	Trunk    string
	Ancestry []model.SweepResult
	Hosted   []model.SweepResult
	Rebase   []model.RebaseResult
	// Problems lists branches whose rebase failed, in loop order.
	Problems []string
}

// Run executes the full tidy sequence. Only the gate and trunk resolution are
// fatal; every later stage failure is reported and the run continues.
func (e *Engine) Run(ctx context.Context, opts RunOptions) (*Report, error) {
	if err := e.Gate(ctx, opts.Dir); err != nil {
		return nil, err
	}

	trunk, err := e.ResolveTrunk(ctx, opts.Dir, opts.TrunkOverride)
	if err != nil {
		return nil, err
	}
	report := &Report{Trunk: trunk}

	if err := e.Sync(ctx, SyncOptions{
		Dir:    opts.Dir,
		Trunk:  trunk,
		Remote: opts.Remote,
		Skip:   opts.SkipSync,
		DryRun: opts.DryRun,
	}); err != nil {
		e.Notify("warning: sync failed (%s): %v", gitx.ClassifyError(err), err)
	}

	skipGC := opts.SkipGC
	if !skipGC && e.cfg != nil {
		skipGC = e.cfg.SkipGC
	}
	if skipGC {
		e.Notify("skipping garbage collection")
	} else if err := e.Reclaim(ctx, opts.Dir, opts.DryRun); err != nil {
		e.Notify("warning: garbage collection failed: %v", err)
	}

	sweep := SweepOptions{
		Dir:       opts.Dir,
		Trunk:     trunk,
		Protected: e.protectedPatterns(opts.Protected),
		DryRun:    opts.DryRun,
		Prompt:    opts.Prompt,
	}
	report.Ancestry, err = e.SweepAncestry(ctx, sweep)
	if err != nil {
		e.Notify("warning: ancestry sweep failed: %v", err)
	}
	report.Hosted, err = e.SweepHosted(ctx, sweep)
	if err != nil {
		e.Notify("warning: hosted sweep failed: %v", err)
	}

	if opts.RebaseAll {
		report.Rebase, report.Problems, err = e.RebaseAll(ctx, opts.Dir, trunk, opts.DryRun)
		if err != nil {
			e.Notify("warning: rebase-all failed: %v", err)
		}
	}

	return report, nil
}

func (e *Engine) protectedPatterns(flagPatterns []string) []string {
	if len(flagPatterns) > 0 {
		return flagPatterns
	}
	if e.cfg != nil {
		return e.cfg.Defaults.Protected
	}
	return nil
}
