package detail

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suratku/suratku/internal/api"
	"github.com/suratku/suratku/internal/numbering"
)

func sample() api.Letter {
	return api.Letter{
		ID:              7,
		ReferenceNumber: "007/SP/EP/VIII/2025",
		Subject:         "Undangan rapat",
		Recipient:       "PT Mitra",
		CompanyName:     "PT Eka Prima",
		CompanyCode:     "EP",
		Date:            "2025-08-17",
	}
}

func dates() numbering.DateFormatter {
	return numbering.NewDateFormatter("id-ID", time.UTC)
}

func TestView_ParsesReferenceNumber(t *testing.T) {
	m := New(context.Background(), sample(), nil, dates())
	out := m.View(80)

	assert.Contains(t, out, "007/SP/EP/VIII/2025")
	assert.Contains(t, out, "VIII (8)")
	assert.Contains(t, out, "2025")
	assert.Contains(t, out, "PT Eka Prima (EP)")
	assert.Contains(t, out, "17 Agustus 2025")
	assert.NotContains(t, out, "tidak sesuai")
}

func TestView_UnparseableReference(t *testing.T) {
	l := sample()
	l.ReferenceNumber = "draft"
	out := New(context.Background(), l, nil, dates()).View(80)
	assert.Contains(t, out, "Format nomor tidak dikenali")

	l.ReferenceNumber = "x/SP/EP/XIII/25"
	out = New(context.Background(), l, nil, dates()).View(80)
	assert.Contains(t, out, "NaN")
	assert.Contains(t, out, "Nomor tidak sesuai format baku")
}

func TestRefresh(t *testing.T) {
	fresh := sample()
	fresh.Subject = "Undangan rapat (revisi)"
	fetch := func(_ context.Context, id int64) (api.Letter, error) {
		assert.Equal(t, int64(7), id)
		return fresh, nil
	}

	m, cmd := New(context.Background(), sample(), fetch, dates()).Refresh()
	require.NotNil(t, cmd)
	assert.True(t, m.Loading())
	assert.Contains(t, m.View(80), "Memuat ulang")

	m, _ = m.Update(cmd())
	assert.False(t, m.Loading())
	assert.Equal(t, "Undangan rapat (revisi)", m.Letter().Subject)
}

func TestRefresh_ErrorAndRetry(t *testing.T) {
	calls := 0
	fetch := func(context.Context, int64) (api.Letter, error) {
		calls++
		if calls == 1 {
			return api.Letter{}, &api.APIError{StatusCode: 500, Message: "Database error"}
		}
		return sample(), nil
	}

	m, cmd := New(context.Background(), sample(), fetch, dates()).Refresh()
	m, _ = m.Update(cmd())
	require.Error(t, m.Err())
	assert.Contains(t, m.View(80), "Database error")
	assert.Equal(t, "Undangan rapat", m.Letter().Subject, "keeps the list copy")

	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	require.NotNil(t, cmd)
	m, _ = m.Update(cmd())
	require.NoError(t, m.Err())
	assert.Equal(t, 2, calls)
}

func TestUpdate_IgnoresOtherLetters(t *testing.T) {
	m := New(context.Background(), sample(), nil, dates())
	m, _ = m.Update(LoadedMsg{ID: 99, Err: errors.New("boom")})
	assert.NoError(t, m.Err())
}

func TestRefresh_WithoutFetcher(t *testing.T) {
	m, cmd := New(context.Background(), sample(), nil, dates()).Refresh()
	assert.Nil(t, cmd)
	assert.False(t, m.Loading())
}
