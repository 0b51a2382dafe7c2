// SPDX-License-Identifier: MIT
package engine

import (
	"context"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/skaphos/branchsweep/internal/model"
)

// SweepOptions configures one disposition pass.
type SweepOptions struct {
	Dir string
	// Trunk is the resolved trunk branch; never offered for deletion.
	Trunk string
	// Protected holds branch glob patterns that are never offered for
	// deletion.
	Protected []string
	// DryRun records verdicts without prompting or deleting.
	DryRun bool
	// Prompt confirms each deletion. Nil reads as decline-everything.
	Prompt Prompter
}

// SweepAncestry is the first disposition pass. It enumerates local branches
// whose tips are graph ancestors of the trunk and offers each for deletion.
// This catches fast-forward and true merges; squash merges are invisible to
// it and left for SweepHosted.
func (e *Engine) SweepAncestry(ctx context.Context, opts SweepOptions) ([]model.SweepResult, error) {
	opCtx, cancel := e.opCtx(ctx)
	candidates, err := e.adapter.LocalBranches(opCtx, opts.Dir, opts.Trunk)
	cancel()
	if err != nil {
		return nil, err
	}

	var results []model.SweepResult
	for _, branch := range candidates {
		res := e.disposition(ctx, opts, branch, model.VerdictMergedAncestry,
			fmt.Sprintf("Branch %q is merged into %s. Delete it? [y/N]: ", branch, opts.Trunk))
		results = append(results, res)
	}
	return results, nil
}

// SweepHosted is the second disposition pass. It enumerates ALL remaining
// local branches and checks the hosting platform for a merged change request
// whose source branch name equals the local branch name. This catches squash
// and rebase merges whose resulting commit is not a graph ancestor of any
// local ref.
//
// Both passes can offer the same still-undeleted branch; the detectors
// measure genuinely different conditions so neither is deduplicated away.
func (e *Engine) SweepHosted(ctx context.Context, opts SweepOptions) ([]model.SweepResult, error) {
	opCtx, cancel := e.opCtx(ctx)
	branches, err := e.adapter.LocalBranches(opCtx, opts.Dir, "")
	cancel()
	if err != nil {
		return nil, err
	}

	var results []model.SweepResult
	for _, branch := range branches {
		if res, skipped := e.skipVerdict(ctx, opts, branch); skipped {
			results = append(results, res)
			continue
		}

		opCtx, cancel := e.opCtx(ctx)
		req, err := e.host.MergedRequest(opCtx, opts.Dir, branch)
		cancel()
		if err != nil {
			e.Notify("warning: merged request lookup for %q failed: %v", branch, err)
			results = append(results, model.SweepResult{
				Branch: branch, Verdict: model.VerdictNoSignal, Action: model.ActionNone,
			})
			continue
		}
		// Guard against query noise: the record must name this exact branch.
		if req == nil || req.HeadRef != branch {
			results = append(results, model.SweepResult{
				Branch: branch, Verdict: model.VerdictNoSignal, Action: model.ActionNone,
			})
			continue
		}

		res := e.offer(ctx, opts, branch, model.VerdictMergedRequest,
			fmt.Sprintf("Branch %q was merged via #%d (%s). Delete it? [y/N]: ", branch, req.Number, req.Title))
		results = append(results, res)
	}
	return results, nil
}

// disposition applies the skip rules, then offers the branch for deletion
// under the given verdict.
func (e *Engine) disposition(ctx context.Context, opts SweepOptions, branch string, verdict model.Verdict, prompt string) model.SweepResult {
	if res, skipped := e.skipVerdict(ctx, opts, branch); skipped {
		return res
	}
	return e.offer(ctx, opts, branch, verdict, prompt)
}

// skipVerdict applies the shared skip rules: the trunk itself, branches gone
// since enumeration, and protected patterns. Skips are silent; no prompt.
func (e *Engine) skipVerdict(ctx context.Context, opts SweepOptions, branch string) (model.SweepResult, bool) {
	if branch == opts.Trunk {
		return model.SweepResult{Branch: branch, Verdict: model.VerdictSkipTrunk, Action: model.ActionSkipped}, true
	}

	opCtx, cancel := e.opCtx(ctx)
	exists := e.adapter.BranchExists(opCtx, opts.Dir, branch)
	cancel()
	if !exists {
		return model.SweepResult{Branch: branch, Verdict: model.VerdictSkipGone, Action: model.ActionSkipped}, true
	}

	for _, pattern := range opts.Protected {
		if ok, err := doublestar.Match(pattern, branch); err == nil && ok {
			return model.SweepResult{Branch: branch, Verdict: model.VerdictSkipProtected, Action: model.ActionSkipped}, true
		}
	}
	return model.SweepResult{}, false
}

// offer prompts for confirmation and force-deletes on an affirmative answer.
// Delete failures are swallowed into the result; the sweep continues.
func (e *Engine) offer(ctx context.Context, opts SweepOptions, branch string, verdict model.Verdict, prompt string) model.SweepResult {
	res := model.SweepResult{Branch: branch, Verdict: verdict}

	if opts.DryRun {
		res.Action = model.ActionNone
		return res
	}
	if opts.Prompt == nil {
		res.Action = model.ActionDeclined
		return res
	}

	ok, err := opts.Prompt(prompt)
	if err != nil || !ok {
		res.Action = model.ActionDeclined
		return res
	}

	opCtx, cancel := e.opCtx(ctx)
	defer cancel()
	// Force delete: the branch is already known merged, but its tip may not
	// be reachable from the current HEAD.
	if err := e.adapter.DeleteBranch(opCtx, opts.Dir, branch, true); err != nil {
		e.Notify("warning: failed to delete %q: %v", branch, err)
		res.Action = model.ActionFailed
		res.Error = err.Error()
		return res
	}
	res.Action = model.ActionDeleted
	return res
}
