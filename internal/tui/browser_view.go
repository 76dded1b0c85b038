package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/suratku/suratku/internal/pager"
)

// View renders the current screen (Bubble Tea interface).
func (m BrowserModel) View() string {
	switch m.state {
	case ViewStateQuitting:
		return ""
	case ViewStateLoading:
		return "\n " + m.loading.View() + "\n"
	case ViewStateError:
		return lipgloss.JoinVertical(lipgloss.Left,
			CriticalStyle.Render(m.status),
			SubtleStyle.Render("Tekan 'r' untuk mencoba lagi, 'q' untuk keluar"),
		)
	case ViewStateDetail:
		return lipgloss.JoinVertical(lipgloss.Left,
			m.detail.View(m.width),
			SubtleStyle.Render("esc kembali | r coba lagi | q keluar"),
		)
	case ViewStateList, ViewStateConfirmDelete:
		return m.renderList()
	default:
		return ""
	}
}

func (m BrowserModel) renderList() string {
	sections := []string{m.renderTitle(), m.table.View(), m.renderFooter()}

	switch {
	case m.state == ViewStateConfirmDelete && m.pending != nil:
		sections = append(sections, CriticalStyle.Render(
			fmt.Sprintf("Hapus surat %s? (y/n)", m.pending.ReferenceNumber)))
	case m.showSearch:
		sections = append(sections, LabelStyle.Render("Cari: ")+m.search.View())
	case m.browser.Loading():
		sections = append(sections, m.loading.View())
	case m.status != "":
		sections = append(sections, InfoStyle.Render(m.status))
	}

	sections = append(sections, SubtleStyle.Render(
		"h/l halaman | home/end awal/akhir | +/- per halaman | / cari | enter detail | d hapus | r muat ulang | q keluar"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m BrowserModel) renderTitle() string {
	title := HeaderStyle.Render("DATA SURAT")
	if q := m.browser.Filter().Search; q != "" {
		title += LabelStyle.Render(fmt.Sprintf("  pencarian: %q", q))
	}
	return title
}

// renderFooter shows the page labels and the range of letters on screen.
func (m BrowserModel) renderFooter() string {
	p := m.browser.Pager()
	if p.Len() == 0 {
		return SubtleStyle.Render("Tidak ada surat")
	}
	from, to := p.Range()
	parts := []string{
		pager.FormatLabels(p.PageNumberLabels(), p.Page()),
		fmt.Sprintf("Menampilkan %d-%d dari %d surat", from, to, p.Len()),
		fmt.Sprintf("%d per halaman", p.PageSize()),
	}
	return ValueStyle.Render(strings.Join(parts, "  |  "))
}
