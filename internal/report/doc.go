// Package report renders letter reports and dashboard statistics.
//
// Reports are built as markdown. On a terminal the markdown is rendered with
// glamour; anywhere else the same content is written as aligned plain-text
// tables. Counts use Indonesian digit grouping (1.234) unless another locale
// is configured.
package report
