package lang

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumn(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"fr", "name_fr"},
		{"zh", "name_zh"},
		{"zht", "name_zht"},
		{"en", "name_en"},
		{"xx", DefaultColumn},
		{"", DefaultColumn},
		{"FR", DefaultColumn}, // codes are lowercase only
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Column(tt.code), "code %q", tt.code)
	}
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("de"))
	assert.True(t, IsSupported("zht"))
	assert.False(t, IsSupported("tlh"))
	assert.False(t, IsSupported(""))
}

func TestSupported_SortedAndComplete(t *testing.T) {
	codes := Supported()
	assert.True(t, sort.StringsAreSorted(codes))
	assert.Len(t, codes, 26)
	assert.Contains(t, codes, "ja")
	assert.Contains(t, codes, "ur")
}

func TestColumns_MatchSupported(t *testing.T) {
	codes := Supported()
	cols := Columns()
	require.Equal(t, len(codes), len(cols))
	for i, code := range codes {
		assert.Equal(t, Column(code), cols[i])
	}
}

func TestName(t *testing.T) {
	assert.Equal(t, "French", Name("fr"))
	assert.Equal(t, "German", Name("de"))
	assert.Contains(t, Name("zht"), "Chinese")
	assert.Equal(t, "Unknown", Name("xx"))
}

func TestDisplayInfo(t *testing.T) {
	infos := DisplayInfo()
	require.Len(t, infos, len(Supported()))

	for _, info := range infos {
		assert.NotEmpty(t, info.Code)
		assert.NotEqual(t, "Unknown", info.Name, "code %q", info.Code)
		assert.False(t, strings.Contains(info.Name, "_"))
	}
}
