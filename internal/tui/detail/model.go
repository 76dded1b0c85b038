package detail

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/suratku/suratku/internal/api"
	"github.com/suratku/suratku/internal/numbering"
)

const (
	keyRetry  = "r"
	labelSize = 16
)

//nolint:gochecknoglobals // Shared lipgloss styles.
var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(labelSize)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Fetcher loads the current copy of a letter.
type Fetcher func(ctx context.Context, id int64) (api.Letter, error)

// LoadedMsg carries the result of a refresh.
type LoadedMsg struct {
	ID     int64
	Letter api.Letter
	Err    error
}

// Model is the letter detail view.
type Model struct {
	ctx     context.Context //nolint:containedctx // Bubble Tea commands need the caller's context.
	fetch   Fetcher
	letter  api.Letter
	dates   numbering.DateFormatter
	loading bool
	err     error
}

// New returns a detail view of l. Refresh starts the background reload.
func New(ctx context.Context, l api.Letter, fetch Fetcher, dates numbering.DateFormatter) Model {
	return Model{ctx: ctx, fetch: fetch, letter: l, dates: dates}
}

// Letter returns the letter shown.
func (m Model) Letter() api.Letter {
	return m.letter
}

// Loading reports whether a refresh is running.
func (m Model) Loading() bool {
	return m.loading
}

// Err returns the error of the last refresh.
func (m Model) Err() error {
	return m.err
}

// Refresh starts reloading the letter. A model without a fetcher does
// nothing.
func (m Model) Refresh() (Model, tea.Cmd) {
	if m.fetch == nil {
		return m, nil
	}
	m.loading = true
	m.err = nil
	ctx, fetch, id := m.ctx, m.fetch, m.letter.ID
	return m, func() tea.Msg {
		l, err := fetch(ctx, id)
		return LoadedMsg{ID: id, Letter: l, Err: err}
	}
}

// Update handles refresh results and the retry key.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		if msg.ID != m.letter.ID {
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.letter = msg.Letter
		return m, nil
	case tea.KeyMsg:
		if msg.String() == keyRetry && !m.loading && m.err != nil {
			return m.Refresh()
		}
	}
	return m, nil
}

// View renders the letter in a box width columns wide.
func (m Model) View(width int) string {
	l := m.letter
	var b strings.Builder

	b.WriteString(headerStyle.Render("DETAIL SURAT"))
	b.WriteString("\n\n")
	row(&b, "Nomor Surat", l.ReferenceNumber)
	row(&b, "Perihal", l.Subject)
	row(&b, "Tujuan", l.Recipient)
	row(&b, "Perusahaan", joinNonEmpty(l.CompanyName, l.CompanyCode))
	row(&b, "Kategori", joinNonEmpty(l.CategoryName, l.CategoryCode))
	row(&b, "Tanggal", m.dates.Long(l.Date))
	if l.CreatedByName != "" {
		row(&b, "Dibuat oleh", l.CreatedByName)
	}
	if l.CreatedAt != "" {
		row(&b, "Dibuat", m.dates.Long(l.CreatedAt))
	}
	if l.EvidenceFile != "" {
		row(&b, "Bukti", l.EvidenceFile)
	}

	b.WriteString("\n")
	b.WriteString(headerStyle.Render("NOMOR SURAT"))
	b.WriteString("\n")
	writeReference(&b, l.ReferenceNumber)

	switch {
	case m.loading:
		b.WriteString("\n" + subtleStyle.Render("Memuat ulang..."))
	case m.err != nil:
		b.WriteString("\n" + errorStyle.Render("Gagal memuat: "+api.UserMessage(m.err)))
		b.WriteString("\n" + subtleStyle.Render("Tekan 'r' untuk mencoba lagi"))
	}

	if width > 2 { //nolint:mnd // Border width.
		return boxStyle.Width(width - 2).Render(b.String()) //nolint:mnd // Border width.
	}
	return boxStyle.Render(b.String())
}

func writeReference(b *strings.Builder, s string) {
	ref, ok := numbering.ParseReferenceNumber(s)
	if !ok {
		b.WriteString(errorStyle.Render("Format nomor tidak dikenali"))
		b.WriteString("\n")
		return
	}
	row(b, "Urutan", ref.Sequence.String())
	row(b, "Kode kategori", ref.CategoryCode)
	row(b, "Kode perusahaan", ref.CompanyCode)
	month := ref.MonthRoman
	if n, valid := ref.Month(); valid {
		month = fmt.Sprintf("%s (%d)", ref.MonthRoman, n)
	}
	row(b, "Bulan", month)
	row(b, "Tahun", ref.Year.String())
	if !ref.WellFormed() {
		b.WriteString(subtleStyle.Render("Nomor tidak sesuai format baku"))
		b.WriteString("\n")
	}
}

func row(b *strings.Builder, label, value string) {
	if value == "" {
		value = "-"
	}
	b.WriteString(labelStyle.Render(label))
	b.WriteString(value)
	b.WriteString("\n")
}

func joinNonEmpty(name, code string) string {
	switch {
	case name == "":
		return code
	case code == "":
		return name
	default:
		return fmt.Sprintf("%s (%s)", name, code)
	}
}
