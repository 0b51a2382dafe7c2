// SPDX-License-Identifier: MIT
package engine

import (
	"context"

	"github.com/skaphos/branchsweep/internal/gitx"
	"github.com/skaphos/branchsweep/internal/model"
)

// RebaseAll replays every local branch onto the trunk, one at a time. The
// branch list is snapshotted once at loop start. A failed rebase is aborted
// so the branch keeps its pre-rebase state, the branch is recorded as a
// problem, and the loop continues. The working tree ends on the trunk.
func (e *Engine) RebaseAll(ctx context.Context, dir, trunk string, dryRun bool) ([]model.RebaseResult, []string, error) {
	opCtx, cancel := e.opCtx(ctx)
	branches, err := e.adapter.LocalBranches(opCtx, dir, "")
	cancel()
	if err != nil {
		return nil, nil, err
	}

	if dryRun {
		e.Notify("dry run: would rebase %d branches onto %s", len(branches), trunk)
		return nil, nil, nil
	}

	var results []model.RebaseResult
	var problems []string
	for _, branch := range branches {
		if err := e.rebaseOne(ctx, dir, branch, trunk); err != nil {
			e.Notify("warning: rebase of %q onto %s failed (%s): %v", branch, trunk, gitx.ClassifyError(err), err)
			results = append(results, model.RebaseResult{Branch: branch, Error: err.Error()})
			problems = append(problems, branch)
			continue
		}
		e.Notify("rebased %q onto %s", branch, trunk)
		results = append(results, model.RebaseResult{Branch: branch, OK: true})
	}

	opCtx, cancel = e.opCtx(ctx)
	defer cancel()
	if err := e.adapter.Checkout(opCtx, dir, trunk); err != nil {
		return results, problems, err
	}
	return results, problems, nil
}

func (e *Engine) rebaseOne(ctx context.Context, dir, branch, trunk string) error {
	opCtx, cancel := e.opCtx(ctx)
	err := e.adapter.Checkout(opCtx, dir, branch)
	cancel()
	if err != nil {
		return err
	}

	opCtx, cancel = e.opCtx(ctx)
	err = e.adapter.Rebase(opCtx, dir, trunk)
	cancel()
	if err == nil {
		return nil
	}

	// Restore the branch before moving on. The abort runs under its own
	// deadline: the rebase may have failed by exhausting its timeout, and
	// the cleanup must still run. An abort failure is secondary to the
	// rebase error and only logged.
	abortCtx, abortCancel := e.opCtx(ctx)
	defer abortCancel()
	if abortErr := e.adapter.RebaseAbort(abortCtx, dir); abortErr != nil {
		e.Notify("warning: rebase abort for %q failed: %v", branch, abortErr)
	}
	return err
}
