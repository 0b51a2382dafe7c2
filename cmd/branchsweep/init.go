// SPDX-License-Identifier: MIT
package branchsweep

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skaphos/branchsweep/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a BranchSweep config file seeded with the defaults",
	Long: "Creates a config file at the resolved config path (or --config) seeded with the " +
		"default remote, trunk candidates, and timeout so it can be edited by hand.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")

		cfgPath, err := config.ConfigPath(flagConfig)
		if err != nil {
			return err
		}
		if _, err := os.Stat(cfgPath); err == nil && !force {
			return fmt.Errorf("config already exists at %q (use --force to overwrite)", cfgPath)
		}

		cfg := config.DefaultConfig()
		if err := config.Save(&cfg, cfgPath); err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wrote config to %s\n", cfgPath)
		return err
	},
}

func init() {
	initCmd.Flags().Bool("force", false, "overwrite existing config without prompting")

	rootCmd.AddCommand(initCmd)
}
