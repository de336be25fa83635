// Package ecode defines the business error codes returned by the HTTP API and
// their messages.
//
// Codes follow a numbering scheme:
//   - 0: Success (OK)
//   - -400 to -599: request, resource and server errors, mirroring HTTP
//   - -1000 and below: table errors
//
// # Common Error Codes
//
//	ecode.RequestErr         // -400: Invalid request
//	ecode.ParamErr           // -401: Invalid parameters
//	ecode.NothingFound       // -404: Resource not found
//	ecode.ServerErr          // -500: Internal server error
//	ecode.ServiceUnavailable // -503: Service unavailable
//
// # Table Error Codes
//
//	ecode.MalformedFilter    // -1001: filter parameter is not URL-encoded JSON
//	ecode.InvalidCursor      // -1002: after/before cursor cannot be decoded
//	ecode.NoSearchEngine     // -1003: no search backend is reachable
//	ecode.SnapshotErr        // -1004: snapshot store failure
//
// # Usage
//
//	message := ecode.Text(ecode.ParamErr)    // "Invalid parameters"
//	status := ecode.ToHTTPStatus(ecode.ParamErr) // 400
//
//	ecode.Register(-2001, "Order has expired")
package ecode
