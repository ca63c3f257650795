// Package phone turns user-typed phone numbers into one canonical form and
// builds patterns that match stored numbers written in any digit script.
package phone

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

const (
	persianZero = '۰'
	arabicZero  = '٠'
)

// separators are removed before the digits are inspected. Format characters
// (ZWNJ, bidi marks) routinely leak in from RTL keyboards.
var separators = runes.Predicate(func(r rune) bool {
	switch r {
	case '-', '(', ')', '.':
		return true
	}
	return unicode.IsSpace(r) || unicode.Is(unicode.Cf, r)
})

// foldDigits maps Persian and Arabic-Indic digits onto ASCII.
var foldDigits = runes.Map(func(r rune) rune {
	switch {
	case r >= persianZero && r <= persianZero+9:
		return '0' + (r - persianZero)
	case r >= arabicZero && r <= arabicZero+9:
		return '0' + (r - arabicZero)
	}
	return r
})

// Normalize returns the canonical local form of raw (e.g. 09123456789).
// Input that is empty or contains anything other than digits, separators and
// a leading plus yields "".
func Normalize(raw string) string {
	cleaned, _, err := transform.String(transform.Chain(runes.Remove(separators), foldDigits), raw)
	if err != nil {
		return ""
	}
	cleaned = strings.TrimPrefix(cleaned, "+")
	if cleaned == "" || !allDigits(cleaned) {
		return ""
	}

	switch {
	case strings.HasPrefix(cleaned, "0098") && len(cleaned) == 14:
		return "0" + cleaned[4:]
	case strings.HasPrefix(cleaned, "98") && len(cleaned) == 12:
		return "0" + cleaned[2:]
	case strings.HasPrefix(cleaned, "9") && len(cleaned) == 10:
		return "0" + cleaned
	}
	return cleaned
}

// MatchAny returns an anchored pattern accepting the normalized form of raw
// with every digit written in Latin, Persian or Arabic-Indic numerals.
// The syntax is valid for both RE2 and PostgreSQL's "~" operator.
// It returns "" when raw does not normalize; callers must treat that as
// "no match possible".
func MatchAny(raw string) string {
	canonical := Normalize(raw)
	if canonical == "" {
		return ""
	}

	var b strings.Builder
	b.WriteByte('^')
	for _, r := range canonical {
		if r >= '0' && r <= '9' {
			d := r - '0'
			b.WriteByte('[')
			b.WriteRune(r)
			b.WriteRune(persianZero + d)
			b.WriteRune(arabicZero + d)
			b.WriteByte(']')
			continue
		}
		b.WriteString(regexp.QuoteMeta(string(r)))
	}
	b.WriteByte('$')
	return b.String()
}

// Matcher compiles MatchAny(raw). It returns nil when raw does not normalize.
func Matcher(raw string) *regexp.Regexp {
	pattern := MatchAny(raw)
	if pattern == "" {
		return nil
	}
	return regexp.MustCompile(pattern)
}

// Equal reports whether a and b are the same number once normalized.
// Two unparseable values are never equal.
func Equal(a, b string) bool {
	na := Normalize(a)
	return na != "" && na == Normalize(b)
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
