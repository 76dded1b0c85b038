// Package numbering holds the text transforms behind letter reference numbers.
//
// A reference number (nomor surat) is generated by the server from the
// system's nomor_format setting, by default
//
//	{nomor}/{kode_surat}/{kode_perusahaan}/{bulan}/{tahun}
//
// which renders as e.g. "13/SP/AOS/X/2025". This package converts months to
// and from their Roman codes, splits a reference number back into its
// fields for display, renders and parses custom number templates, and
// formats letter dates in the day-month-year convention used on screen.
//
// Everything here is pure: no I/O, no shared mutable state, and no function
// panics on bad input. Malformed reference numbers are reported with a false
// second return value, never with a partially filled struct.
package numbering
