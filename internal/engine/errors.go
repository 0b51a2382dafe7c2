// SPDX-License-Identifier: MIT
package engine

import (
	"fmt"
	"strings"

	"github.com/skaphos/branchsweep/internal/model"
)

// DirtyTreeError aborts the run when the working tree has uncommitted
// modifications. Stat carries the diff stat summary for display.
type DirtyTreeError struct {
	Worktree *model.Worktree
	Stat     string
}

func (e *DirtyTreeError) Error() string {
	wt := e.Worktree
	if wt == nil {
		return "working tree is dirty"
	}
	return fmt.Sprintf("working tree is dirty (%d staged, %d unstaged, %d untracked)",
		wt.Staged, wt.Unstaged, wt.Untracked)
}

// NoTrunkError aborts the run when no trunk branch can be resolved.
type NoTrunkError struct {
	Candidates []string
}

func (e *NoTrunkError) Error() string {
	return fmt.Sprintf("no trunk branch found (tried %s)", strings.Join(e.Candidates, ", "))
}

// NotARepoError aborts the run when the directory is not a git working tree.
type NotARepoError struct {
	Dir string
}

func (e *NotARepoError) Error() string {
	return fmt.Sprintf("%s is not inside a git working tree", e.Dir)
}
