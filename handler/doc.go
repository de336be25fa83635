// Package handler exposes tables over HTTP with gin.
//
//	GET  /tables/:id/records?<location>  fetch one page for a location
//	POST /tables/:id/next                move past the end cursor
//	POST /tables/:id/prev                move before the start cursor
//	GET  /tables/:id/back                location saved by the last page change
//	GET  /metrics                        prometheus metrics
//
// Page changes run the cursor controller over a request-scoped location and
// persist the resulting location in the snapshot store.
package handler
