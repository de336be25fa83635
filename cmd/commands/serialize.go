package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ncobase/gqltable/query"
	"github.com/spf13/cobra"
)

func newSerializeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serialize",
		Short: "Serialize filters, free text and sort into fetch variables",
		Example: `  gqltable serialize --filter '{"status":["open"],"amount":[">100"]}' --text acme --sort "created DESC"
  gqltable serialize --filter '{"created":[["2024-01-01","2024-01-31"]]}' --tz UTC`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rawFilter, _ := cmd.Flags().GetString("filter")
			text, _ := cmd.Flags().GetString("text")
			sort, _ := cmd.Flags().GetString("sort")
			tz, _ := cmd.Flags().GetString("tz")
			first, _ := cmd.Flags().GetInt("first")

			filters := query.NewFilters()
			if rawFilter != "" {
				if err := json.Unmarshal([]byte(rawFilter), &filters); err != nil {
					return fmt.Errorf("invalid --filter: %w", err)
				}
			}

			opts := []query.Option{}
			if tz != "" {
				loc, err := time.LoadLocation(tz)
				if err != nil {
					return fmt.Errorf("invalid --tz: %w", err)
				}
				opts = append(opts, query.WithLocation(loc))
			}

			vars := query.NewSerializer(opts...).Variables(query.Variables{First: first}, filters, text, sort)
			return writeJSON(cmd, vars)
		},
	}
	cmd.Flags().String("filter", "", "filter state as JSON: column key to list of values")
	cmd.Flags().String("text", "", "free text")
	cmd.Flags().String("sort", "", `sort selector, "field ASC" or "field DESC"`)
	cmd.Flags().String("tz", "", "timezone for date range boundaries (default local)")
	cmd.Flags().Int("first", 0, "page size to include in the variables")
	return cmd
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
