package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/suratku/suratku/internal/api"
	"github.com/suratku/suratku/internal/letters"
	"github.com/suratku/suratku/internal/numbering"
	"github.com/suratku/suratku/internal/pager"
	"github.com/suratku/suratku/internal/tui/detail"
)

const (
	searchCharLimit  = 100
	searchInputWidth = 40
	// chromeHeight is the space taken by everything but the table rows.
	chromeHeight = 6
)

// LetterSource is the API surface the browser view needs.
type LetterSource interface {
	letters.Source
	GetLetter(ctx context.Context, id int64) (api.Letter, error)
}

type lettersFetchedMsg struct {
	result letters.Result
}

type letterDeletedMsg struct {
	id  int64
	err error
}

// BrowserModel is the interactive letter browser.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View.
type BrowserModel struct {
	ctx     context.Context //nolint:containedctx // Bubble Tea commands need the caller's context.
	src     LetterSource
	browser *letters.Browser
	initial api.LetterFilter
	dates   numbering.DateFormatter

	state      ViewState
	table      table.Model
	search     textinput.Model
	showSearch bool
	detail     detail.Model
	pending    *api.Letter

	loading *LoadingState
	status  string
	err     error

	width  int
	height int
}

// NewBrowserModel returns a browser over src that starts by listing
// letters matching initial.
func NewBrowserModel(
	ctx context.Context,
	src LetterSource,
	browser *letters.Browser,
	initial api.LetterFilter,
	dates numbering.DateFormatter,
) BrowserModel {
	m := BrowserModel{
		ctx:     ctx,
		src:     src,
		browser: browser,
		initial: initial,
		dates:   dates,
		state:   ViewStateLoading,
		search:  newSearchInput(initial.Search),
		loading: NewLoadingState("Memuat surat..."),
		width:   defaultWidth,
		height:  defaultHeight,
	}
	m.table = m.buildTable()
	return m
}

func newSearchInput(value string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "Cari nomor, perihal atau tujuan..."
	ti.CharLimit = searchCharLimit
	ti.Width = searchInputWidth
	ti.SetValue(value)
	return ti
}

// Err returns the error that ended the session, if any.
func (m BrowserModel) Err() error {
	return m.err
}

// Init starts the first fetch.
func (m BrowserModel) Init() tea.Cmd {
	ticket := m.browser.SetFilter(m.initial)
	return tea.Batch(m.loading.Init(), m.fetch(ticket))
}

func (m BrowserModel) fetch(t letters.Ticket) tea.Cmd {
	ctx, b := m.ctx, m.browser
	return func() tea.Msg {
		return lettersFetchedMsg{result: b.Fetch(ctx, t)}
	}
}

// Update handles messages (Bubble Tea interface).
func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table = m.buildTable()
		return m, nil
	case lettersFetchedMsg:
		return m.handleFetched(msg)
	case letterDeletedMsg:
		return m.handleDeleted(msg)
	case detail.LoadedMsg:
		if m.state == ViewStateDetail {
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.browser.Loading() {
		return m, m.loading.Update(msg)
	}
	return m, nil
}

func (m BrowserModel) handleFetched(msg lettersFetchedMsg) (tea.Model, tea.Cmd) {
	applied, err := m.browser.Apply(msg.result)
	if !applied {
		return m, nil
	}
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			m.err = err
			m.state = ViewStateQuitting
			return m, tea.Quit
		}
		m.status = "Gagal memuat surat: " + api.UserMessage(err)
		if m.state == ViewStateLoading {
			m.state = ViewStateError
		}
		return m, nil
	}
	m.status = ""
	if m.state == ViewStateLoading || m.state == ViewStateError {
		m.state = ViewStateList
	}
	m.table = m.buildTable()
	return m, nil
}

func (m BrowserModel) handleDeleted(msg letterDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.status = "Gagal menghapus surat: " + api.UserMessage(msg.err)
		return m, nil
	}
	m.browser.Deleted(msg.id)
	m.status = "Surat berhasil dihapus"
	m.table = m.buildTable()
	return m, nil
}

func (m BrowserModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == keyCtrlC {
		return m.quit()
	}
	if m.showSearch {
		return m.handleSearchKey(msg)
	}

	switch m.state {
	case ViewStateList:
		return m.handleListKey(msg)
	case ViewStateDetail:
		return m.handleDetailKey(msg)
	case ViewStateConfirmDelete:
		return m.handleConfirmKey(msg)
	case ViewStateLoading, ViewStateError:
		switch msg.String() {
		case keyQuit:
			return m.quit()
		case keyReload:
			return m.reload()
		}
	case ViewStateQuitting:
	}
	return m, nil
}

func (m BrowserModel) quit() (tea.Model, tea.Cmd) {
	m.browser.Close()
	m.state = ViewStateQuitting
	return m, tea.Quit
}

func (m BrowserModel) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.browser.Pager()
	switch msg.String() {
	case keyQuit:
		return m.quit()
	case keyPgDown, keyNextPage:
		p.Next()
	case keyPgUp, keyPrevPage:
		p.Prev()
	case keyHome:
		p.First()
	case keyEnd:
		p.Last()
	case keyGrow:
		p.SetPageSize(nextPageSize(p.PageSize(), 1))
	case keyShrink:
		p.SetPageSize(nextPageSize(p.PageSize(), -1))
	case keySlash:
		m.showSearch = true
		m.search.Focus()
		return m, textinput.Blink
	case keyEsc:
		if m.browser.Filter().Search != "" {
			m.search.SetValue("")
			return m.applySearch("")
		}
		return m, nil
	case keyReload:
		return m.reload()
	case keyEnter:
		l, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.state = ViewStateDetail
		var cmd tea.Cmd
		m.detail, cmd = detail.New(m.ctx, l, m.src.GetLetter, m.dates).Refresh()
		return m, cmd
	case keyDelete:
		if l, ok := m.selected(); ok {
			m.pending = &l
			m.state = ViewStateConfirmDelete
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	m.status = ""
	m.table = m.buildTable()
	return m, nil
}

func (m BrowserModel) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEnter:
		m.showSearch = false
		m.search.Blur()
		return m.applySearch(m.search.Value())
	case keyEsc:
		m.showSearch = false
		m.search.Blur()
		m.search.SetValue(m.browser.Filter().Search)
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

// applySearch is a filter change: the listing is refetched and replaced.
func (m BrowserModel) applySearch(query string) (tea.Model, tea.Cmd) {
	f := m.browser.Filter()
	if f.Search == query && m.browser.Generation() > 0 {
		return m, nil
	}
	f.Search = query
	ticket := m.browser.SetFilter(f)
	m.loading.SetMessage("Mencari surat...")
	m.table = m.buildTable()
	return m, tea.Batch(m.loading.Init(), m.fetch(ticket))
}

func (m BrowserModel) reload() (tea.Model, tea.Cmd) {
	ticket, err := m.browser.Refresh()
	if err != nil {
		ticket = m.browser.SetFilter(m.initial)
	}
	m.loading.SetMessage("Memuat ulang...")
	return m, tea.Batch(m.loading.Init(), m.fetch(ticket))
}

func (m BrowserModel) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyQuit:
		return m.quit()
	case keyEsc, keyBackspace:
		m.state = ViewStateList
		if l := m.detail.Letter(); l.ID != 0 && m.detail.Err() == nil {
			m.browser.Edited(l, api.LetterPatch{})
			m.table = m.buildTable()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m BrowserModel) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyYes:
		target := *m.pending
		m.pending = nil
		m.state = ViewStateList
		m.status = "Menghapus " + target.ReferenceNumber + "..."
		ctx, src := m.ctx, m.src
		return m, func() tea.Msg {
			return letterDeletedMsg{id: target.ID, err: src.DeleteLetter(ctx, target.ID)}
		}
	case keyNo, keyEsc, keyQuit:
		m.pending = nil
		m.state = ViewStateList
	}
	return m, nil
}

// selected returns the letter under the table cursor.
func (m BrowserModel) selected() (api.Letter, bool) {
	visible := m.browser.Pager().Visible()
	i := m.table.Cursor()
	if i < 0 || i >= len(visible) {
		return api.Letter{}, false
	}
	return visible[i], true
}

// nextPageSize steps through pager.PageSizeChoices. A size that is not one
// of the choices moves to the nearest choice in the given direction.
func nextPageSize(current, step int) int {
	choices := pager.PageSizeChoices
	if i := slices.Index(choices, current); i >= 0 {
		return choices[(i+step+len(choices))%len(choices)]
	}
	if step > 0 {
		for _, c := range choices {
			if c > current {
				return c
			}
		}
		return choices[0]
	}
	for i := len(choices) - 1; i >= 0; i-- {
		if choices[i] < current {
			return choices[i]
		}
	}
	return choices[len(choices)-1]
}

func (m BrowserModel) buildTable() table.Model {
	columns := []table.Column{
		{Title: "No", Width: 4},           //nolint:mnd // Column width.
		{Title: "Nomor Surat", Width: 22}, //nolint:mnd // Column width.
		{Title: "Perihal", Width: 28},     //nolint:mnd // Column width.
		{Title: "Tujuan", Width: 18},      //nolint:mnd // Column width.
		{Title: "Perusahaan", Width: 10},  //nolint:mnd // Column width.
		{Title: "Tanggal", Width: 12},     //nolint:mnd // Column width.
	}

	p := m.browser.Pager()
	from, _ := p.Range()
	visible := p.Visible()
	rows := make([]table.Row, 0, len(visible))
	for i, l := range visible {
		company := l.CompanyCode
		if company == "" {
			company = l.CompanyName
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", from+i),
			l.ReferenceNumber,
			l.Subject,
			l.Recipient,
			company,
			m.dates.Short(l.Date),
		})
	}

	height := max(1, min(p.PageSize(), m.height-chromeHeight))
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)
	t.SetCursor(min(m.table.Cursor(), max(0, len(rows)-1)))
	return t
}
