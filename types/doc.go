// Package types holds the small value types shared between the query
// serializer, the location codec and the search backends.
//
// A sort selector is the string "field DIRECTION" where DIRECTION is ASC or
// DESC:
//
//	spec, ok := types.ParseSort("created DESC")
//	// spec.Field == "created", spec.Direction == types.Descending
//
//	types.JoinSort("created", "DESC") // "created DESC"
package types
