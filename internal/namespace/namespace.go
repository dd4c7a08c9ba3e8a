// Package namespace derives the vector-store namespace that holds one
// document's chunks.
package namespace

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	companyPrefix = "company-"
	docInfix      = "-doc-"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s, folds accents to ASCII and collapses every run of
// other characters into a single hyphen. Leading and trailing hyphens are
// trimmed, so the result may be empty.
func Slugify(s string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		s,
	)
	if err != nil {
		folded = s
	}

	slug := nonAlphanumeric.ReplaceAllString(strings.ToLower(folded), "-")

	return strings.Trim(slug, "-")
}

// For returns the namespace of document docName owned by tenant tenantName.
func For(tenantName, docName string) string {
	return companyPrefix + Slugify(tenantName) + docInfix + Slugify(docName)
}
