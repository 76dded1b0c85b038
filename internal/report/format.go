package report

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/suratku/suratku/internal/api"
)

// exportDateLayout stamps export file names.
const exportDateLayout = "2006-01-02"

// NewPrinter returns a number printer for locale, defaulting to Indonesian.
func NewPrinter(locale string) *message.Printer {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Indonesian
	}
	return message.NewPrinter(tag)
}

// ExportFileName returns the download name for a report exported on day,
// e.g. laporan-surat-2025-08-17.pdf.
func ExportFileName(format api.ExportFormat, day time.Time) string {
	return fmt.Sprintf("laporan-surat-%s.%s", day.Format(exportDateLayout), format.Extension())
}

// share returns n as a percentage of total, or 0 when total is 0.
func share(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) * 100 / float64(total)
}
