package ecode

import (
	"net/http"
	"sync"
)

// Common codes
const (
	OK                 = 0
	RequestErr         = -400
	ParamErr           = -401
	AccessDenied       = -403
	NothingFound       = -404
	MethodNotAllowed   = -405
	Conflict           = -409
	ServerErr          = -500
	ServiceUnavailable = -503
	Deadline           = -504
)

// Table codes
const (
	MalformedFilter = -1001
	InvalidCursor   = -1002
	NoSearchEngine  = -1003
	SnapshotErr     = -1004
	InvalidQuery    = -1005
)

var (
	mu    sync.RWMutex
	texts = map[int]string{
		OK:                 "ok",
		RequestErr:         "Invalid request",
		ParamErr:           "Invalid parameters",
		AccessDenied:       "Access denied",
		NothingFound:       "Resource not found",
		MethodNotAllowed:   "Method not allowed",
		Conflict:           "Resource conflict",
		ServerErr:          "Internal server error",
		ServiceUnavailable: "Service unavailable",
		Deadline:           "Deadline exceeded",
		MalformedFilter:    "Malformed filter payload",
		InvalidCursor:      "Invalid cursor",
		NoSearchEngine:     "No search engine available",
		SnapshotErr:        "Snapshot store error",
		InvalidQuery:       "Invalid query",
	}
	statuses = map[int]int{
		OK:                 http.StatusOK,
		RequestErr:         http.StatusBadRequest,
		ParamErr:           http.StatusBadRequest,
		AccessDenied:       http.StatusForbidden,
		NothingFound:       http.StatusNotFound,
		MethodNotAllowed:   http.StatusMethodNotAllowed,
		Conflict:           http.StatusConflict,
		ServerErr:          http.StatusInternalServerError,
		ServiceUnavailable: http.StatusServiceUnavailable,
		Deadline:           http.StatusGatewayTimeout,
		MalformedFilter:    http.StatusBadRequest,
		InvalidCursor:      http.StatusBadRequest,
		NoSearchEngine:     http.StatusServiceUnavailable,
		SnapshotErr:        http.StatusInternalServerError,
		InvalidQuery:       http.StatusBadRequest,
	}
)

// Text returns the message of a code, or an empty string if unknown.
func Text(code int) string {
	mu.RLock()
	defer mu.RUnlock()
	return texts[code]
}

// Register adds or replaces the message of a code.
func Register(code int, text string) {
	mu.Lock()
	defer mu.Unlock()
	texts[code] = text
}

// ToHTTPStatus maps a code to an HTTP status, defaulting to 500.
func ToHTTPStatus(code int) int {
	mu.RLock()
	defer mu.RUnlock()
	if s, ok := statuses[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}
