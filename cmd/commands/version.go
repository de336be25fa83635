package commands

import (
	"github.com/ncobase/gqltable/version"
	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			return version.Print(cmd.OutOrStdout(), asJSON)
		},
	}
	cmd.Flags().Bool("json", false, "print as JSON")
	return cmd
}
