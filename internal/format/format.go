// Package format holds the pure string transformations applied to form
// input before it is stored or used for ID generation. Nothing here
// performs I/O or returns an error; malformed input degrades to the
// stripped digits or a partially formatted string.
package format

import (
	"strings"
)

// schoolAbbreviations is applied in order. Longer patterns must come
// before their generic parents (SMKA before SMK, SJKC/SJKT before SJK)
// or the shorter replacement fires first and corrupts the name.
var schoolAbbreviations = []struct {
	phrase string
	abbr   string
}{
	{"SEKOLAH KEBANGSAAN", "SK"},
	{"SEKOLAH MENENGAH KEBANGSAAN AGAMA", "SMKA"},
	{"SEKOLAH MENENGAH KEBANGSAAN", "SMK"},
	{"SEKOLAH JENIS KEBANGSAAN (CINA)", "SJKC"},
	{"SEKOLAH JENIS KEBANGSAAN (TAMIL)", "SJKT"},
	{"SEKOLAH JENIS KEBANGSAAN", "SJK"},
}

// SchoolName uppercases the input and abbreviates the standard Malaysian
// school-type phrases.
func SchoolName(raw string) string {
	formatted := strings.ToUpper(raw)
	for _, a := range schoolAbbreviations {
		formatted = strings.ReplaceAll(formatted, a.phrase, a.abbr)
	}
	return formatted
}

// Digits strips everything that is not an ASCII digit.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PhoneNumber formats a Malaysian phone number as 3-3-5 (11+ digits) or
// 3-3-4 (10 digits). Shorter input is returned stripped and ungrouped.
func PhoneNumber(raw string) string {
	cleaned := Digits(raw)
	switch {
	case len(cleaned) >= 11:
		return cleaned[:3] + "-" + cleaned[3:6] + " " + cleaned[6:11]
	case len(cleaned) == 10:
		return cleaned[:3] + "-" + cleaned[3:6] + " " + cleaned[6:10]
	}
	return cleaned
}

// IC formats a Malaysian IC number as birthdate-birthplace-serial
// (6-2-4). Input below 12 digits is returned stripped and ungrouped.
func IC(raw string) string {
	cleaned := Digits(raw)
	if len(cleaned) >= 12 {
		return cleaned[:6] + "-" + cleaned[6:8] + "-" + cleaned[8:12]
	}
	return cleaned
}

// IsValidEmail checks for a single @ separating a non-empty local part
// from a domain that contains at least one dot.
func IsValidEmail(s string) bool {
	at := strings.Index(s, "@")
	if at <= 0 || at != strings.LastIndex(s, "@") {
		return false
	}
	domain := s[at+1:]
	if domain == "" {
		return false
	}
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}

// IsValidMalaysianPhone accepts local mobile numbers (01 prefix, 10-11
// digits) and international form (601 prefix, 11-12 digits).
func IsValidMalaysianPhone(s string) bool {
	cleaned := Digits(s)
	if strings.HasPrefix(cleaned, "01") {
		return len(cleaned) == 10 || len(cleaned) == 11
	}
	if strings.HasPrefix(cleaned, "601") {
		return len(cleaned) == 11 || len(cleaned) == 12
	}
	return false
}

// GenderFromIC infers gender from a fully entered 12-digit IC: the last
// digit's parity encodes it, even for Perempuan and odd for Lelaki.
// ok is false while the IC is incomplete.
func GenderFromIC(ic string) (gender string, ok bool) {
	cleaned := Digits(ic)
	if len(cleaned) < 12 {
		return "", false
	}
	last := cleaned[11] - '0'
	if last%2 == 0 {
		return "Perempuan", true
	}
	return "Lelaki", true
}
