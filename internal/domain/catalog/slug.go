package catalog

import (
	"strings"
	"unicode"

	"github.com/mbvogue/storefront/internal/domain/shared"
)

// Slugify lower-cases s and joins its alphanumeric runs with hyphens
func Slugify(s string) string {
	var b strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			hyphen = false
		case b.Len() > 0 && !hyphen:
			b.WriteByte('-')
			hyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func validateSlug(slug string) error {
	if slug == "" {
		return shared.NewDomainError("INVALID_SLUG", "Slug cannot be empty")
	}
	if len(slug) > 220 {
		return shared.NewDomainError("INVALID_SLUG", "Slug cannot exceed 220 characters")
	}
	if Slugify(slug) != slug {
		return shared.NewDomainError("INVALID_SLUG", "Slug can only contain lowercase letters, numbers and hyphens")
	}
	return nil
}
