// Package table coordinates the query state of one data table.
//
// A Table owns the committed filters, the bind values shown by the filter
// widgets, the per-column comparison operators, the sort selector and the
// free text. Every committed change is mirrored into a route.Location and
// re-serialized into query.Variables for the fetch collaborator.
//
// Text and input edits are debounced; date ranges, checkboxes, radios, tag
// toggles and sort changes commit at once. Any change to filters, text or sort
// returns the table to its first page.
//
//	t, err := table.New(cfg, loc, func(ctx context.Context, v query.Variables) {
//		records.Refetch(ctx, v)
//	})
//	if err != nil {
//		return err
//	}
//	if err := t.Mount(ctx); err != nil {
//		return err
//	}
//	_, _ = t.ToggleTag(ctx, "status", "open")
package table
