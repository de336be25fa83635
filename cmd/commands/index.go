package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ncobase/gqltable/search"
	"github.com/spf13/cobra"
)

func newIndexCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index <table id>",
		Short: "Load JSON documents into the search index of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			file, _ := cmd.Flags().GetString("file")
			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			var docs []map[string]any
			if err := json.Unmarshal(data, &docs); err != nil {
				return fmt.Errorf("%s must hold a JSON array of objects: %w", file, err)
			}

			ctx := cmd.Context()
			adapters, err := search.OpenAdapters(cfg.Search)
			if err != nil {
				return err
			}
			client := search.NewClient(ctx, cfg.Search, adapters)
			if err := client.Index(ctx, args[0], docs); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "indexed %d documents into %s on %s\n",
				len(docs), client.IndexName(args[0]), client.Engine())
			return err
		},
	}
	cmd.Flags().StringP("file", "f", "", "JSON file holding an array of documents")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
