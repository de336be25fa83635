package commands

import (
	"fmt"

	"github.com/ncobase/gqltable/paging"
	"github.com/ncobase/gqltable/route"
	"github.com/ncobase/gqltable/snapshot"
	"github.com/spf13/cobra"
)

func newBackCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "back <table id>",
		Short: "Print the location saved by the last page change of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			store, err := snapshot.Open(ctx, cfg.Snapshot)
			if err != nil {
				return err
			}
			defer store.Close()

			loc := route.NewMemoryLocation("/", "")
			ok, err := paging.GoBack(ctx, store, loc, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no snapshot for table %q", args[0])
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), loc.Read().Encode())
			return err
		},
	}
}
