package gitx

import (
	"strings"

	"github.com/skaphos/branchsweep/internal/model"
)

// ParsePorcelainStatus parses the output of `git status --porcelain=v1`
// into a Worktree struct.
func ParsePorcelainStatus(output string) *model.Worktree {
	wt := &model.Worktree{}
	lines := strings.Split(output, "\n")
	for _, line := range lines {
		if len(line) < 2 {
			continue
		}
		x := line[0]
		y := line[1]

		if x == '?' && y == '?' {
			wt.Untracked++
			continue
		}
		if x != ' ' && x != '?' {
			wt.Staged++
		}
		if y != ' ' && y != '?' {
			wt.Unstaged++
		}
	}
	// Untracked files carry no changes against the last commit and do not
	// make the tree dirty; they are counted for reporting only.
	wt.Dirty = wt.Staged > 0 || wt.Unstaged > 0
	return wt
}

// ParseBranchList parses `git branch --format=%(refname:short)` output,
// preserving git's ordering. Worktree markers ("+ name") and the current
// marker ("* name") are stripped defensively in case a caller ran the
// command without --format.
func ParseBranchList(output string) []string {
	if strings.TrimSpace(output) == "" {
		return nil
	}
	var names []string
	for _, line := range strings.Split(output, "\n") {
		name := strings.TrimSpace(line)
		name = strings.TrimPrefix(name, "* ")
		name = strings.TrimPrefix(name, "+ ")
		if name == "" || strings.HasPrefix(name, "(") {
			// "(HEAD detached at ...)" lines carry no branch name.
			continue
		}
		names = append(names, name)
	}
	return names
}
