package commands

import (
	"errors"

	"github.com/ncobase/gqltable/query"
	"github.com/ncobase/gqltable/route"
	"github.com/spf13/cobra"
)

type decodedLocation struct {
	Query     string          `json:"query,omitempty"`
	Filters   query.Filters   `json:"filters"`
	Sort      string          `json:"sort,omitempty"`
	After     string          `json:"after,omitempty"`
	Before    string          `json:"before,omitempty"`
	Variables query.Variables `json:"variables"`
	Warning   string          `json:"warning,omitempty"`
}

func newDecodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "decode <location>",
		Short:   "Decode a location query string into table state and variables",
		Example: `  gqltable decode 'query=acme&sort=created&direction=DESC&filter=%7B%22status%22%3A%5B%22open%22%5D%7D'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := route.Decode(args[0])
			out := decodedLocation{}
			if err != nil {
				if !errors.Is(err, route.ErrMalformedFilter) {
					return err
				}
				out.Warning = err.Error()
			}
			out.Query = state.Query
			out.Filters = state.Filters
			out.Sort = state.SortSelector()
			out.After = state.After
			out.Before = state.Before
			out.Variables = query.NewSerializer().Variables(query.Variables{After: state.After, Before: state.Before},
				state.Filters, state.Query, out.Sort)
			return writeJSON(cmd, out)
		},
	}
}
