// Package route mirrors table state into a location query string so a view can
// be bookmarked and restored after reload.
//
// Only the keys in AllowList are read or written. The filter map is stored as
// URL-encoded JSON under "filter":
//
//	s := route.State{Query: "hello", Sort: "createdAt", Direction: "DESC", Filters: f}
//	raw, _ := route.Encode(s)
//	back, err := route.Decode(raw) // back.Equal(s)
//
// Writes go through a Location, which merges deltas instead of replacing the
// whole query, so keys a change does not mention are preserved.
package route
