package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/glamour"
	"golang.org/x/text/message"

	"github.com/suratku/suratku/internal/api"
	"github.com/suratku/suratku/internal/numbering"
)

// Layout of the plain-text tables.
const (
	tabMinWidth = 0
	tabWidth    = 8
	tabPadding  = 2
	defaultWrap = 100
)

// Options configure a Renderer.
type Options struct {
	// Styled renders markdown through glamour.
	Styled bool
	// Style is a glamour style name; empty picks one from the terminal.
	Style string
	// Width wraps styled output. Zero uses 100 columns.
	Width    int
	Locale   string
	Location *time.Location
}

// Renderer writes reports to an output stream.
type Renderer struct {
	opts    Options
	printer *message.Printer
	dates   numbering.DateFormatter
}

// NewRenderer returns a Renderer for opts.
func NewRenderer(opts Options) *Renderer {
	if opts.Width <= 0 {
		opts.Width = defaultWrap
	}
	return &Renderer{
		opts:    opts,
		printer: NewPrinter(opts.Locale),
		dates:   numbering.NewDateFormatter(opts.Locale, opts.Location),
	}
}

// Count formats n with locale digit grouping.
func (r *Renderer) Count(n int) string {
	return r.printer.Sprintf("%d", n)
}

func (r *Renderer) percent(n, total int) string {
	return r.printer.Sprintf("%.1f%%", share(n, total))
}

// Report writes rep with an optional title line describing its filter.
func (r *Renderer) Report(w io.Writer, rep api.Report, scope string) error {
	if r.opts.Styled {
		return r.styled(w, r.reportMarkdown(rep, scope))
	}

	fmt.Fprintln(w, "LAPORAN SURAT")
	if scope != "" {
		fmt.Fprintln(w, scope)
	}
	fmt.Fprintf(w, "Total: %s surat\n\n", r.Count(rep.Summary.Total))

	if err := r.countTable(w, "PERUSAHAAN", rep.Summary.ByCompany, rep.Summary.Total); err != nil {
		return err
	}
	fmt.Fprintln(w)
	if err := r.countTable(w, "KATEGORI", rep.Summary.ByCategory, rep.Summary.Total); err != nil {
		return err
	}
	if len(rep.Letters) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	return r.letterTable(w, rep.Letters)
}

// Dashboard writes the dashboard statistics.
func (r *Renderer) Dashboard(w io.Writer, st api.DashboardStats) error {
	if r.opts.Styled {
		return r.styled(w, r.dashboardMarkdown(st))
	}

	tw := tabwriter.NewWriter(w, tabMinWidth, tabWidth, tabPadding, ' ', 0)
	fmt.Fprintf(tw, "Total surat\t%s\n", r.Count(st.TotalLetters))
	fmt.Fprintf(tw, "Surat bulan ini\t%s\n", r.Count(st.LettersThisMonth))
	fmt.Fprintf(tw, "Total perusahaan\t%s\n", r.Count(st.TotalCompanies))
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(st.Monthly) > 0 {
		fmt.Fprintln(w)
		tw = tabwriter.NewWriter(w, tabMinWidth, tabWidth, tabPadding, ' ', 0)
		fmt.Fprintln(tw, "BULAN\tJUMLAH")
		for _, m := range st.Monthly {
			fmt.Fprintf(tw, "%s\t%s\n", m.Name, r.Count(m.Count))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	if len(st.PerCompany) > 0 {
		fmt.Fprintln(w)
		if err := r.countTable(w, "PERUSAHAAN", st.PerCompany, st.TotalLetters); err != nil {
			return err
		}
	}
	if len(st.Recent) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Surat terbaru:")
		return r.letterTable(w, st.Recent)
	}
	return nil
}

func (r *Renderer) countTable(w io.Writer, heading string, rows []api.NamedCount, total int) error {
	tw := tabwriter.NewWriter(w, tabMinWidth, tabWidth, tabPadding, ' ', 0)
	fmt.Fprintf(tw, "%s\tJUMLAH\tPERSENTASE\n", heading)
	for _, c := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Name, r.Count(c.Count), r.percent(c.Count, total))
	}
	return tw.Flush()
}

func (r *Renderer) letterTable(w io.Writer, letters []api.Letter) error {
	tw := tabwriter.NewWriter(w, tabMinWidth, tabWidth, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "NO\tNOMOR SURAT\tPERIHAL\tPERUSAHAAN\tKATEGORI\tTANGGAL")
	for i, l := range letters {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			i+1, l.ReferenceNumber, l.Subject, l.CompanyName, l.CategoryName, r.dates.Short(l.Date))
	}
	return tw.Flush()
}

func (r *Renderer) reportMarkdown(rep api.Report, scope string) string {
	var b strings.Builder
	b.WriteString("# Laporan Surat\n\n")
	if scope != "" {
		fmt.Fprintf(&b, "_%s_\n\n", escape(scope))
	}
	fmt.Fprintf(&b, "**Total:** %s surat\n\n", r.Count(rep.Summary.Total))
	r.countMarkdown(&b, "Per Perusahaan", "Perusahaan", rep.Summary.ByCompany, rep.Summary.Total)
	r.countMarkdown(&b, "Per Kategori", "Kategori", rep.Summary.ByCategory, rep.Summary.Total)
	if len(rep.Letters) > 0 {
		b.WriteString("## Daftar Surat\n\n")
		r.letterMarkdown(&b, rep.Letters)
	}
	return b.String()
}

func (r *Renderer) dashboardMarkdown(st api.DashboardStats) string {
	var b strings.Builder
	b.WriteString("# Dashboard\n\n")
	fmt.Fprintf(&b, "- **Total surat:** %s\n", r.Count(st.TotalLetters))
	fmt.Fprintf(&b, "- **Surat bulan ini:** %s\n", r.Count(st.LettersThisMonth))
	fmt.Fprintf(&b, "- **Total perusahaan:** %s\n\n", r.Count(st.TotalCompanies))
	if len(st.Monthly) > 0 {
		b.WriteString("## 12 Bulan Terakhir\n\n| Bulan | Jumlah |\n|---|---:|\n")
		for _, m := range st.Monthly {
			fmt.Fprintf(&b, "| %s | %s |\n", escape(m.Name), r.Count(m.Count))
		}
		b.WriteString("\n")
	}
	r.countMarkdown(&b, "Per Perusahaan", "Perusahaan", st.PerCompany, st.TotalLetters)
	if len(st.Recent) > 0 {
		b.WriteString("## Surat Terbaru\n\n")
		r.letterMarkdown(&b, st.Recent)
	}
	return b.String()
}

func (r *Renderer) countMarkdown(b *strings.Builder, title, column string, rows []api.NamedCount, total int) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n| %s | Jumlah | Persentase |\n|---|---:|---:|\n", title, column)
	for _, c := range rows {
		fmt.Fprintf(b, "| %s | %s | %s |\n", escape(c.Name), r.Count(c.Count), r.percent(c.Count, total))
	}
	b.WriteString("\n")
}

func (r *Renderer) letterMarkdown(b *strings.Builder, letters []api.Letter) {
	b.WriteString("| No | Nomor Surat | Perihal | Perusahaan | Tanggal |\n|---:|---|---|---|---|\n")
	for i, l := range letters {
		fmt.Fprintf(b, "| %d | %s | %s | %s | %s |\n",
			i+1, escape(l.ReferenceNumber), escape(l.Subject), escape(l.CompanyName), r.dates.Short(l.Date))
	}
	b.WriteString("\n")
}

func (r *Renderer) styled(w io.Writer, md string) error {
	style := glamour.WithAutoStyle()
	if r.opts.Style != "" {
		style = glamour.WithStandardStyle(r.opts.Style)
	}
	tr, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(r.opts.Width))
	if err != nil {
		return fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := tr.Render(md)
	if err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

// escape keeps user text from breaking markdown tables.
func escape(s string) string {
	return strings.NewReplacer("|", `\|`, "\n", " ").Replace(s)
}
