package models

import "strings"

// Slugify derives a URL slug from a post title: lowercase, strip everything
// but letters, digits, spaces and hyphens, collapse whitespace to single
// hyphens and truncate to maxWords words. Uniqueness is not enforced.
func Slugify(title string, maxWords int) string {
	if maxWords < 1 {
		maxWords = 1
	}

	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == ' ', r == '\t', r == '\n':
			b.WriteRune(r)
		}
	}

	words := strings.Fields(b.String())
	if len(words) > maxWords {
		words = words[:maxWords]
	}

	slug := strings.Join(words, "-")
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	return strings.Trim(slug, "-")
}
