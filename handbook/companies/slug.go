package companies

import (
	"strconv"
	"strings"

	"codeberg.org/handbookqa/server/internal/namespace"
)

const fallbackSlug = "company"

// baseSlug is the slug a company name gets before collision suffixing
func baseSlug(name string) string {
	slug := namespace.Slugify(name)
	if slug == "" {
		return fallbackSlug
	}

	return slug
}

// nextSlug returns base when it is free, otherwise the first free base-N with
// N counting up from 1.
func nextSlug(base string, taken map[string]bool) string {
	if !taken[base] {
		return base
	}

	for n := 1; ; n++ {
		candidate := base + "-" + strconv.Itoa(n)
		if !taken[candidate] {
			return candidate
		}
	}
}

// escapes LIKE wildcards so a slug prefix matches literally
func likePrefix(base string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(base) + "-%"
}
