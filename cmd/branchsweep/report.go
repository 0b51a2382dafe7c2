package branchsweep

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skaphos/branchsweep/internal/cliio"
	"github.com/skaphos/branchsweep/internal/engine"
	"github.com/skaphos/branchsweep/internal/model"
	"github.com/skaphos/branchsweep/internal/termstyle"
)

// writeSweepReport renders the summary table for both sweep passes. Skipped
// branches are noise for the common case and only appear at higher verbosity.
func writeSweepReport(cmd *cobra.Command, report *engine.Report) {
	rows := make([][]string, 0, len(report.Ancestry)+len(report.Hosted))
	var deleted, declined, failed int
	for _, res := range append(append([]model.SweepResult{}, report.Ancestry...), report.Hosted...) {
		switch res.Action {
		case model.ActionSkipped:
			debugf(cmd, "skipped %s (%s)", res.Branch, res.Verdict)
			continue
		case model.ActionDeleted:
			deleted++
		case model.ActionDeclined:
			declined++
		case model.ActionFailed:
			failed++
		}
		rows = append(rows, []string{
			res.Branch,
			string(res.Verdict),
			colorizeAction(res.Action),
			orDash(res.Error),
		})
	}

	if len(rows) == 0 {
		infof(cmd, "no branches to tidy on %s", report.Trunk)
		return
	}

	headers := []string{"BRANCH", "VERDICT", "ACTION", "ERROR"}
	if err := cliio.WriteTable(cmd.OutOrStdout(), true, false, headers, rows); err != nil {
		debugf(cmd, "ignored output write failure (sweep table): %v", err)
	}
	infof(cmd, "tidy completed: %d deleted, %d declined, %d failed", deleted, declined, failed)
}

// writeRebaseProblems lists branches whose rebase onto the trunk failed and
// was aborted. Conflicts need a human; the list is the handoff.
func writeRebaseProblems(cmd *cobra.Command, report *engine.Report) {
	rebased := 0
	for _, res := range report.Rebase {
		if res.OK {
			rebased++
		}
	}
	if rebased > 0 {
		infof(cmd, "rebased %d branches onto %s", rebased, report.Trunk)
	}
	if len(report.Problems) == 0 {
		return
	}
	_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Branches that could not be rebased:")
	for _, branch := range report.Problems {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", branch)
	}
}

func colorizeAction(action model.SweepAction) string {
	switch action {
	case model.ActionDeleted:
		return termstyle.Colorize(colorOutputEnabled, string(action), termstyle.Healthy)
	case model.ActionDeclined:
		return termstyle.Colorize(colorOutputEnabled, string(action), termstyle.Warn)
	case model.ActionFailed:
		return termstyle.Colorize(colorOutputEnabled, string(action), termstyle.Error)
	default:
		return string(action)
	}
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
