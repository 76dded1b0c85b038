package numbering_test

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suratku/suratku/internal/numbering"
)

func TestParseTemplate_Errors(t *testing.T) {
	tests := []struct {
		format  string
		wantErr error
	}{
		{"", numbering.ErrEmptyTemplate},
		{"   ", numbering.ErrEmptyTemplate},
		{"{kode_surat}/{tahun}", numbering.ErrMissingSequence},
		{"{nomor}/{hari}", numbering.ErrUnknownPlaceholder},
		{"{nomor}/{nomor}", numbering.ErrRepeatedPlaceholder},
	}

	for _, tt := range tests {
		_, err := numbering.ParseTemplate(tt.format)
		assert.ErrorIs(t, err, tt.wantErr, tt.format)
	}
}

func TestTemplate_DefaultFormat(t *testing.T) {
	tmpl := numbering.MustParseTemplate(numbering.DefaultFormat)
	fields := numbering.Fields{
		Sequence:     13,
		CategoryCode: "SP",
		CompanyCode:  "AOS",
		Month:        10,
		Year:         2025,
	}

	rendered := tmpl.Render(fields)
	assert.Equal(t, "13/SP/AOS/X/2025", rendered)
	assert.Equal(t, numbering.FormatReferenceNumber(13, "SP", "AOS", 10, 2025), rendered)

	parsed, ok := tmpl.Parse(rendered)
	require.True(t, ok)
	assert.Equal(t, fields, parsed)

	_, ok = tmpl.Parse("13/SP/AOS/XIII/2025")
	assert.False(t, ok)
	_, ok = tmpl.Parse("bad-format")
	assert.False(t, ok)
}

func TestTemplate_CustomFormat(t *testing.T) {
	tmpl, err := numbering.ParseTemplate("{kode_perusahaan}-{nomor}.{tahun} ({bulan})")
	require.NoError(t, err)

	rendered := tmpl.Render(numbering.Fields{Sequence: 4, CompanyCode: "EP", Month: 3, Year: 2024})
	assert.Equal(t, "EP-4.2024 (III)", rendered)

	parsed, ok := tmpl.Parse(rendered)
	require.True(t, ok)
	assert.Equal(t, numbering.Fields{Sequence: 4, CompanyCode: "EP", Month: 3, Year: 2024}, parsed)
	assert.Equal(t, "{kode_perusahaan}-{nomor}.{tahun} ({bulan})", tmpl.String())
}

func TestTemplate_ParseRejectsOverflow(t *testing.T) {
	tmpl, err := numbering.ParseTemplate(numbering.DefaultFormat)
	require.NoError(t, err)

	_, ok := tmpl.Parse("99999999999999999999/SP/AOS/X/2025")
	assert.False(t, ok)

	parsed, ok := tmpl.Parse(strconv.Itoa(math.MaxInt) + "/SP/AOS/X/2025")
	require.True(t, ok)
	assert.Equal(t, math.MaxInt, parsed.Sequence)
}

func TestTemplate_ZeroValue(t *testing.T) {
	var tmpl numbering.Template
	_, ok := tmpl.Parse("13/SP/AOS/X/2025")
	assert.False(t, ok)
}
