// SPDX-License-Identifier: MIT
package branchsweep

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skaphos/branchsweep/internal/cliio"
	"github.com/skaphos/branchsweep/internal/config"
	"github.com/skaphos/branchsweep/internal/engine"
	"github.com/skaphos/branchsweep/internal/hosting"
	"github.com/skaphos/branchsweep/internal/update"
	"github.com/skaphos/branchsweep/internal/vcs"
)

// Overridable in tests.
var (
	newAdapter = func() vcs.Adapter { return vcs.NewGitAdapter(nil) }
	newHost    = func() hosting.Host { return hosting.NewGitHubHost(nil) }
	getwd      = os.Getwd
)

func runTidy(cmd *cobra.Command, _ []string) error {
	cwd, err := getwd()
	if err != nil {
		return err
	}
	cfgPath, err := config.ResolveConfigPath(flagConfig, cwd)
	if err != nil {
		return err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	debugf(cmd, "using config %s", cfgPath)

	var updateCh <-chan update.Status
	if !flagSkipUpdateCheck && cfg.UpdateCheckEnabled() {
		updateCh = update.Start(Version)
	}

	eng := engine.New(cfg, newAdapter(), newHost())
	eng.Notify = func(format string, args ...any) {
		infof(cmd, format, args...)
	}

	report, err := eng.Run(cmd.Context(), engine.RunOptions{
		Dir:           cwd,
		TrunkOverride: flagTrunk,
		Remote:        flagRemote,
		Protected:     protectedPatterns(),
		RebaseAll:     flagRebaseAll,
		SkipGC:        flagSkipGC,
		SkipSync:      devModeEnabled(),
		DryRun:        flagDryRun,
		Prompt:        promptFor(cmd),
	})
	if err != nil {
		return err
	}

	setColorOutputMode(cmd)
	writeSweepReport(cmd, report)
	writeRebaseProblems(cmd, report)

	if notice := update.Notice(Version, update.Collect(updateCh)); notice != "" {
		infof(cmd, "\n%s", notice)
	}
	return nil
}

// devModeEnabled reports whether the trunk sync should be skipped so a run
// can be exercised against a throwaway repo without network access.
func devModeEnabled() bool {
	return strings.TrimSpace(os.Getenv(devModeEnv)) != ""
}

// promptFor builds the confirmation prompter. Prompts go to stderr so stdout
// stays clean for the summary table.
func promptFor(cmd *cobra.Command) engine.Prompter {
	if flagYes {
		return func(string) (bool, error) { return true, nil }
	}
	return func(prompt string) (bool, error) {
		return cliio.PromptYesNo(cmd.ErrOrStderr(), cmd.InOrStdin(), prompt)
	}
}
