package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Dicklesworthstone/deck_viewer/pkg/updater"
	"github.com/Dicklesworthstone/deck_viewer/pkg/version"
)

var checkUpdates bool

// versionCmd prints the build version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the dv version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "dv %s\n", version.Version)
		if !checkUpdates {
			return nil
		}

		rel, err := updater.NewChecker().Check(cmd.Context())
		if err != nil {
			logger.Warn("update check failed", zap.Error(err))
			return fmt.Errorf("update check: %w", err)
		}
		if rel == nil {
			fmt.Fprintln(out, "dv is up to date")
			return nil
		}
		fmt.Fprintf(out, "update available: %s %s\n", rel.TagName, rel.HTMLURL)
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&checkUpdates, "check", false, "Check GitHub for a newer release")
}
