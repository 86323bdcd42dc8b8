// Package passport provides best-effort MRZ parsing, passport masking and
// country display helpers for identity documents.
package passport

import (
	"strings"
	"unicode"
)

// countryNames maps ICAO issuing-country codes to their display names
var countryNames = map[string]string{
	"RUS": "RUSSIA",
	"USA": "USA",
	"ARE": "UAE",
	"GBR": "UK",
}

// IssuingCountryFromMRZ extracts the 3-letter issuing country code from a
// passport MRZ. Line 1 normally starts with "P<" followed by the code.
// Returns "" when nothing recognizable is found.
func IssuingCountryFromMRZ(mrz string) string {
	raw := strings.TrimSpace(mrz)
	if raw == "" {
		return ""
	}

	var line1 string
	for _, ln := range strings.Split(raw, "\n") {
		ln = strings.TrimSpace(ln)
		if ln != "" {
			line1 = ln
			break
		}
	}
	if line1 == "" {
		return ""
	}

	if len(line1) >= 5 && strings.HasPrefix(line1, "P<") {
		if code := line1[2:5]; isAlpha(code) {
			return strings.ToUpper(code)
		}
	}

	// Fallback: "P<" anywhere in the line
	if idx := strings.Index(line1, "P<"); idx >= 0 && len(line1) >= idx+5 {
		if code := line1[idx+2 : idx+5]; isAlpha(code) {
			return strings.ToUpper(code)
		}
	}
	return ""
}

// CountryDisplay renders an issuing country code as the display string used
// in rendered documents. Unknown codes pass through uppercased; an empty
// code falls back to the default Russian display.
func CountryDisplay(code string) string {
	if code == "" {
		return "RUSSIA, Moscow"
	}
	upper := strings.ToUpper(code)
	name, ok := countryNames[upper]
	if !ok {
		return upper
	}
	if name == "RUSSIA" {
		return "RUSSIA, Moscow"
	}
	return name
}

// Mask hides a passport number, keeping only the last two alphanumeric
// characters. Separators are preserved.
func Mask(passport string) string {
	runes := []rune(passport)
	var alnum []int
	for i, r := range runes {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			alnum = append(alnum, i)
		}
	}
	if len(alnum) <= 2 {
		return strings.Repeat("*", len(runes))
	}

	keep := map[int]bool{
		alnum[len(alnum)-2]: true,
		alnum[len(alnum)-1]: true,
	}
	var b strings.Builder
	for i, r := range runes {
		switch {
		case keep[i]:
			b.WriteRune(r)
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune('*')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}
