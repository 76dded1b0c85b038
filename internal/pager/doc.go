// Package pager provides client-side pagination over an in-memory result set.
//
// A Pager holds the full, unpaginated list of items matching the active
// filter and exposes one page of it at a time, along with the page-number
// labels (with ellipsis compression) shown in navigation controls. It keeps
// pagination consistent across the three ways the list changes:
//   - Filter change: ResetPage then SetFullResult with the new result set
//   - Page-size change: SetPageSize restarts at page 1
//   - Single-record change: UpdateItem keeps the page, RemoveItem steps back
//     one page when the current page empties
//
// Pager never returns errors and never panics. Out-of-range navigation is
// ignored and every mutation leaves the current page within
// [1, TotalPages]. It performs no I/O; callers fetch the result set and feed
// it in. A Pager is not safe for concurrent use and is meant to be owned by
// a single goroutine, such as a bubbletea Update loop.
package pager
