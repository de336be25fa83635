package commands

import (
	"fmt"

	"github.com/ncobase/gqltable/config"
	"github.com/ncobase/gqltable/validator"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gqltable",
		Short:         "Query state engine for filterable, sortable, paginated tables",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("conf", "", "configuration file, e.g. ./config.yaml")

	rootCmd.AddCommand(
		newSerializeCommand(),
		newDecodeCommand(),
		newServeCommand(),
		newBackCommand(),
		newIndexCommand(),
		newVersionCommand(),
	)
	return rootCmd
}

// loadConfig reads the configuration named by --conf and validates it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("conf")
	config.SetPath(path)
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if err := validator.Validate(cfg.Table); err != nil {
		return nil, fmt.Errorf("table config: %w", err)
	}
	if err := validator.Validate(cfg.Snapshot); err != nil {
		return nil, fmt.Errorf("snapshot config: %w", err)
	}
	return cfg, nil
}
