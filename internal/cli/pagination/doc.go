// Package pagination holds the paging and sorting flags shared by list
// commands.
//
// Listings are fetched whole and paged client-side, so --page never fails:
// a page past the end shows the last page and a page below 1 shows the
// first. --sort orders the full result before it is paged.
package pagination
