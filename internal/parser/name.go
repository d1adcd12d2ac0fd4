package parser

import (
	"regexp"
	"strings"

	"github.com/chrisdamba/nutriparse/internal/models"
)

const maxSlugLength = 30

type nameMatcher struct {
	marker   *regexp.Regexp
	quantity *regexp.Regexp
	trailing *regexp.Regexp
}

func newNameMatcher(v models.Vocabulary) *nameMatcher {
	quantity := `^\d+\s*`
	if alt := unitAlternation(v.NameUnits); alt != "" {
		quantity += `(?:` + alt + `)?`
	}
	quantity += `\s+`
	if v.Connector != "" {
		quantity += `(?:` + regexp.QuoteMeta(v.Connector) + `\s+)?`
	}
	return &nameMatcher{
		marker:   regexp.MustCompile(`^` + regexp.QuoteMeta(v.OptionMarker) + `\s*`),
		quantity: regexp.MustCompile(`(?i)` + quantity),
		trailing: regexp.MustCompile(`\([^)]+\)$`),
	}
}

// extract strips the option marker, the leading quantity phrase and a trailing
// parenthetical note. The result is trimmed and may be empty.
func (m *nameMatcher) extract(line string) string {
	name := m.marker.ReplaceAllString(line, "")
	name = m.quantity.ReplaceAllString(name, "")
	name = m.trailing.ReplaceAllString(name, "")
	return strings.TrimSpace(name)
}

// Slug lowercases name, replaces every character outside [a-z0-9] with an
// underscore and keeps at most 30 characters.
func Slug(name string) string {
	var b strings.Builder
	n := 0
	for _, r := range strings.ToLower(name) {
		if n == maxSlugLength {
			break
		}
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
		n++
	}
	return b.String()
}
