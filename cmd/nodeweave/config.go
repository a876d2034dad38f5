package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ingyamilmolinar/nodeweave/internal/config"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file path",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), targetConfigPath())
			},
		},
		&cobra.Command{
			Use:   "init",
			Short: "Write the default configuration if none exists",
			RunE: func(cmd *cobra.Command, args []string) error {
				path := targetConfigPath()
				if _, err := os.Stat(path); err == nil {
					fmt.Fprintln(cmd.OutOrStdout(), subtleStyle.Sprintf("%s already exists", path))
					return nil
				}
				if err := config.Save(config.Default(), path); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), headerStyle.Sprintf("wrote %s", path))
				return nil
			},
		},
		&cobra.Command{
			Use:   "check",
			Short: "Validate the config file",
			RunE: func(cmd *cobra.Command, args []string) error {
				if _, err := config.Load(configPath); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), headerStyle.Sprint("config ok"))
				return nil
			},
		},
	)
	return cmd
}

func targetConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultPath()
}
