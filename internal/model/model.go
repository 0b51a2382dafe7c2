// Package model defines the core data types used throughout BranchSweep.
package model

// Worktree represents the working tree status of the repository.
type Worktree struct {
	// Dirty indicates staged or unstaged changes against the last commit.
	// Untracked files alone do not make the worktree dirty.
	Dirty bool `json:"dirty" yaml:"dirty"`
	// Staged is the count of staged file changes.
	Staged int `json:"staged" yaml:"staged"`
	// Unstaged is the count of unstaged file changes.
	Unstaged int `json:"unstaged" yaml:"unstaged"`
	// Untracked is the count of untracked files.
	Untracked int `json:"untracked" yaml:"untracked"`
}

// Verdict classifies a local branch during a sweep pass.
type Verdict string

const (
	// VerdictSkipTrunk marks the trunk branch itself; never offered for deletion.
	VerdictSkipTrunk Verdict = "skip-trunk"
	// VerdictSkipGone marks a branch that disappeared between enumeration and inspection.
	VerdictSkipGone Verdict = "skip-gone"
	// VerdictSkipProtected marks a branch matched by a protected pattern.
	VerdictSkipProtected Verdict = "skip-protected"
	// VerdictMergedAncestry marks a branch whose tip is a graph ancestor of trunk.
	VerdictMergedAncestry Verdict = "merged-ancestry"
	// VerdictMergedRequest marks a branch with a merged hosted pull request of the same name.
	VerdictMergedRequest Verdict = "merged-request"
	// VerdictNoSignal marks a branch neither detector matched.
	VerdictNoSignal Verdict = "no-signal"
)

// MergedRequest is a hosted pull request recorded as merged.
type MergedRequest struct {
	// Number is the platform-assigned request number.
	Number int `json:"number"`
	// Title is the request title.
	Title string `json:"title"`
	// HeadRef is the source branch name of the request.
	HeadRef string `json:"headRefName"`
}

// SweepAction records what happened to a branch after its verdict.
type SweepAction string

const (
	ActionSkipped  SweepAction = "skipped"
	ActionDeclined SweepAction = "declined"
	ActionDeleted  SweepAction = "deleted"
	ActionFailed   SweepAction = "delete-failed"
	ActionNone     SweepAction = "-"
)

// SweepResult is the outcome for one branch in one sweep pass.
type SweepResult struct {
	// Branch is the local branch name.
	Branch string `json:"branch" yaml:"branch"`
	// Verdict is the disposition the pass assigned.
	Verdict Verdict `json:"verdict" yaml:"verdict"`
	// Action is what was done with the branch.
	Action SweepAction `json:"action" yaml:"action"`
	// Error holds the delete failure text when Action is delete-failed.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// RebaseResult is the outcome for one branch in the rebase-all loop.
type RebaseResult struct {
	// Branch is the local branch name.
	Branch string `json:"branch" yaml:"branch"`
	// OK is true when the rebase onto trunk completed.
	OK bool `json:"ok" yaml:"ok"`
	// Error holds the rebase failure text when OK is false.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}
