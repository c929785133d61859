package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// NormalizeText applies NFKC, drops carriage returns, collapses runs of
// whitespace to a single space, and trims the result.
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}
	text = norm.NFKC.String(text)
	return strings.Join(strings.Fields(text), " ")
}

// NormalizeTitle returns the comparison form of a title: normalized text,
// lowercased with Unicode case folding rules.
func NormalizeTitle(title string) string {
	title = NormalizeText(title)
	if title == "" {
		return ""
	}
	return cases.Lower(language.Und).String(title)
}
