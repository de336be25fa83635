// Package debounce delays a call until input has been quiet for a window.
//
// A Task moves from Pending to either Fired or Cancelled, never both. A
// Debouncer keeps one pending Task per key; Flush cancels it so an immediate
// commit cannot be overwritten by a late debounced one.
package debounce
