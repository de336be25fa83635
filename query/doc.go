// Package query holds the filter state model and the serializer that turns it
// into the backend query grammar.
//
// # Grammar
//
// Clauses are space separated:
//
//	tags:"red"                  quoted string
//	age:42                      numeric, unquoted
//	age:>=18                    comparison
//	(createdAt:>="2024-01-01T00:00:00.000Z" createdAt:<="2024-01-03T23:59:59.999Z")
//
// Free text, when present, leads the query.
//
// # Usage
//
//	filters := query.NewFilters()
//	filters.Set("tags", query.String("red"), query.String("blue"))
//	filters.Set("age", query.Compare(query.OpGte, "18"))
//
//	s := query.NewSerializer(query.WithLocation(time.UTC))
//	q, orderBy := s.Serialize(filters, "", "createdAt DESC")
//	// q: tags:"red" tags:"blue" age:>=18
//
// Raw widget and JSON values enter through FromRaw, which decides once
// whether a value is a scalar, a comparison or a date range.
package query
