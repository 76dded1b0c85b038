// Package detail shows one letter with its reference number broken into
// parts.
//
// The view opens immediately with the copy already held by the list and
// refreshes it from the server in the background. A failed refresh is shown
// inline and can be retried with 'r'; it never closes the view.
package detail
