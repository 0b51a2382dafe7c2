// Package branchsweep contains the Cobra command tree for the BranchSweep CLI.
package branchsweep

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/skaphos/branchsweep/internal/strutil"
)

var (
	// Global flags
	flagVerbose         int
	flagQuiet           bool
	flagConfig          string
	flagNoColor         bool
	flagTrunk           string
	flagRemote          string
	flagProtected       string
	flagRebaseAll       bool
	flagSkipGC          bool
	flagDryRun          bool
	flagYes             bool
	flagSkipUpdateCheck bool
	// colorOutputEnabled is set per command execution based on TTY detection.
	colorOutputEnabled bool
	// isTerminalFD is overridable in tests.
	isTerminalFD = term.IsTerminal
	// exitFunc is overridable in tests.
	exitFunc = os.Exit
)

// devModeEnv switches on developer mode: the trunk checkout and pull are
// skipped so a tidy run can be exercised against a throwaway repo offline.
const devModeEnv = "BRANCHSWEEP_TEST"

var rootCmd = &cobra.Command{
	Use:   "branchsweep",
	Short: "Tidy a git repository's local branches",
	Long: "BranchSweep verifies the working tree is clean, syncs the trunk, reclaims storage, " +
		"and interactively deletes local branches whose work already landed on the trunk, " +
		"whether by a regular merge or a squash-merged change request.",
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		// `NO_COLOR` is a standard opt-out and should behave like --no-color.
		if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
			flagNoColor = true
		}
	},
	RunE: runTidy,
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&flagVerbose, "verbose", "v", "increase output verbosity (repeatable)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "override config file path")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colored output")

	rootCmd.Flags().StringVar(&flagTrunk, "trunk", "", "trunk branch override (default: master, then main)")
	rootCmd.Flags().StringVar(&flagRemote, "remote", "", "fallback remote when the trunk has no configured remote")
	rootCmd.Flags().StringVar(&flagProtected, "protected", "", "comma-separated branch patterns never offered for deletion")
	rootCmd.Flags().BoolVar(&flagRebaseAll, "rebase-all", false, "after sweeping, rebase every remaining branch onto the trunk")
	rootCmd.Flags().BoolVar(&flagSkipGC, "skip-gc", false, "skip repository garbage collection")
	rootCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "report intended deletions without prompting or deleting")
	rootCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "delete without confirmation prompts")
	rootCmd.Flags().BoolVar(&flagSkipUpdateCheck, "skip-update-check", false, "skip the new-release check")
}

// Execute runs the root command.
func Execute() {
	exitFunc(ExecuteWithExitCode())
}

// ExecuteWithExitCode runs the root command and returns a shell-friendly exit
// code: 0 on a completed run, 3 on a fatal error. Declined deletions and
// rebase problems are reported but never change the exit code.
func ExecuteWithExitCode() int {
	colorOutputEnabled = false
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 3
	}
	return 0
}

func infof(cmd *cobra.Command, format string, args ...any) {
	if flagQuiet {
		return
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
}

func debugf(cmd *cobra.Command, format string, args ...any) {
	if flagQuiet || flagVerbose <= 0 {
		return
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
}

func setColorOutputMode(cmd *cobra.Command) {
	colorOutputEnabled = shouldUseColorOutput(cmd)
}

func shouldUseColorOutput(cmd *cobra.Command) bool {
	if flagNoColor {
		return false
	}
	file, ok := cmd.OutOrStdout().(*os.File)
	if !ok {
		return false
	}
	return isTerminalFD(int(file.Fd()))
}

func protectedPatterns() []string {
	return strutil.SplitCSV(flagProtected)
}
