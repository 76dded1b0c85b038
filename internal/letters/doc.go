// Package letters drives the paged letter listing.
//
// A Browser owns the active filter and a pager over the full result set.
// Changing the filter is an explicit event: SetFilter returns a Ticket,
// cancels whatever fetch was still running and resets to page 1. The ticket
// is handed to Fetch, which may run on any goroutine, and the Result comes
// back through Apply on the goroutine that owns the Browser. Apply drops
// results whose ticket has been superseded, so the last filter wins even
// when responses arrive out of order.
//
// Edits and deletions touch the pager only after the server confirms them.
package letters
