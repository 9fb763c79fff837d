// Package lang maps label language codes to the localized name columns of
// the Natural Earth countries table.
package lang

import (
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// DefaultColumn is the column used when no language is requested or the
// requested language is not supported.
const DefaultColumn = "name"

// columns maps supported language codes to their database column. The set
// is fixed by the columns Natural Earth actually ships.
var columns = map[string]string{
	"en":  "name_en",
	"ar":  "name_ar",
	"bn":  "name_bn",
	"de":  "name_de",
	"es":  "name_es",
	"fa":  "name_fa",
	"fr":  "name_fr",
	"el":  "name_el",
	"he":  "name_he",
	"hi":  "name_hi",
	"hu":  "name_hu",
	"id":  "name_id",
	"it":  "name_it",
	"ja":  "name_ja",
	"ko":  "name_ko",
	"nl":  "name_nl",
	"pl":  "name_pl",
	"pt":  "name_pt",
	"ru":  "name_ru",
	"sv":  "name_sv",
	"tr":  "name_tr",
	"uk":  "name_uk",
	"ur":  "name_ur",
	"vi":  "name_vi",
	"zh":  "name_zh",
	"zht": "name_zht",
}

// Supported returns the sorted list of supported language codes.
func Supported() []string {
	codes := make([]string, 0, len(columns))
	for code := range columns {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Columns returns the localized name columns for every supported language,
// sorted by language code.
func Columns() []string {
	codes := Supported()
	cols := make([]string, 0, len(codes))
	for _, code := range codes {
		cols = append(cols, columns[code])
	}
	return cols
}

// IsSupported reports whether a language code has a name column.
func IsSupported(code string) bool {
	_, ok := columns[code]
	return ok
}

// Column returns the database column for a language code, or DefaultColumn
// when the code is not supported. The returned value is always drawn from
// the fixed column set, so it is safe to interpolate into SQL.
func Column(code string) string {
	if col, ok := columns[code]; ok {
		return col
	}
	return DefaultColumn
}

// Name returns the English display name of a supported language code, or
// "Unknown" when the code cannot be resolved.
func Name(code string) string {
	tag, ok := tagFor(code)
	if !ok {
		return "Unknown"
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return "Unknown"
}

// tagFor resolves a supported code to a BCP 47 tag. Natural Earth uses
// "zht" for Traditional Chinese, which is not a valid BCP 47 code.
func tagFor(code string) (language.Tag, bool) {
	if !IsSupported(code) {
		return language.Und, false
	}
	if code == "zht" {
		return language.TraditionalChinese, true
	}
	tag, err := language.Parse(code)
	if err != nil {
		return language.Und, false
	}
	return tag, true
}

// Info pairs a language code with its English display name.
type Info struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// DisplayInfo returns code/name pairs for every supported language, sorted
// by code.
func DisplayInfo() []Info {
	codes := Supported()
	infos := make([]Info, 0, len(codes))
	for _, code := range codes {
		infos = append(infos, Info{Code: code, Name: Name(code)})
	}
	return infos
}
