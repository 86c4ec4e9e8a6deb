package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var saveConfig bool

// configCmd prints the effective configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Config prints the settings dv would use: defaults, then the config file,
then DV_* environment variables. With --save the result is written to the
config file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if saveConfig {
			if err := cfg.Save(configPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", configPath)
			return nil
		}
		data, err := cfg.YAML()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	configCmd.Flags().BoolVar(&saveConfig, "save", false, "Write the effective config to the config file")
}
