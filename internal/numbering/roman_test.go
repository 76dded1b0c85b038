package numbering_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/suratku/suratku/internal/numbering"
)

func TestMonthToRoman(t *testing.T) {
	tests := []struct {
		month int
		want  string
	}{
		{1, "I"},
		{2, "II"},
		{4, "IV"},
		{9, "IX"},
		{10, "X"},
		{11, "XI"},
		{12, "XII"},
		// Out of range falls back to "I".
		{0, "I"},
		{13, "I"},
		{-5, "I"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, numbering.MonthToRoman(tt.month), "month %d", tt.month)
	}

	assert.NotEqual(t, "XII", numbering.MonthToRoman(10))
}

func TestRomanToMonth(t *testing.T) {
	for month := 1; month <= 12; month++ {
		got, ok := numbering.RomanToMonth(numbering.MonthToRoman(month))
		assert.True(t, ok)
		assert.Equal(t, month, got)
	}

	got, ok := numbering.RomanToMonth(" x ")
	assert.True(t, ok)
	assert.Equal(t, 10, got)

	for _, bad := range []string{"", "XIII", "IIII", "10", "MMXXV"} {
		_, ok = numbering.RomanToMonth(bad)
		assert.False(t, ok, bad)
	}
}
