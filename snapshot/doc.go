// Package snapshot persists the last location parameters of a table so a
// user returning to it lands on the same filters and page.
//
// Drivers register themselves by name, following database/sql:
//
//	store, err := snapshot.Open(ctx, cfg.Snapshot) // "memory", "redis" or "badger"
//	defer store.Close()
//
//	_ = store.Save(ctx, "orders", loc.Read())
//	values, err := store.Load(ctx, "orders")
//
// Keys are "graphql-table-query-params:" followed by the slugged identifier.
package snapshot
