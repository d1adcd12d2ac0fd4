package parser

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/chrisdamba/nutriparse/internal/models"
)

type quantityMatcher struct {
	re          *regexp.Regexp
	synonyms    map[string]string
	defaultUnit string
}

// unitAlternation builds a case-insensitive alternation with longer tokens first so
// "grammi" is never read as "g" and "cucchiaini" never as "cucchiai". Tokens match
// as prefixes: "cucchiaio" reads as "cucchiai".
func unitAlternation(units []string) string {
	sorted := make([]string, 0, len(units))
	for _, u := range units {
		if u = strings.TrimSpace(u); u != "" {
			sorted = append(sorted, regexp.QuoteMeta(u))
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
	return strings.Join(sorted, "|")
}

func newQuantityMatcher(v models.Vocabulary) *quantityMatcher {
	pattern := `(\d+)`
	if alt := unitAlternation(v.Units); alt != "" {
		pattern += `\s*(` + alt + `)?`
	}
	synonyms := make(map[string]string, len(v.UnitSynonyms))
	for from, to := range v.UnitSynonyms {
		synonyms[strings.ToLower(from)] = to
	}
	return &quantityMatcher{
		re:          regexp.MustCompile(`(?i)` + pattern),
		synonyms:    synonyms,
		defaultUnit: v.DefaultUnit,
	}
}

// extract returns the first quantity in line and its normalized unit. ok is false
// when the line holds no digits at all.
func (m *quantityMatcher) extract(line string) (qty int, unit models.Unit, ok bool) {
	match := m.re.FindStringSubmatch(line)
	if match == nil {
		return 0, "", false
	}
	qty, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, "", false
	}
	if len(match) < 3 || match[2] == "" {
		return qty, models.Unit(m.defaultUnit), true
	}
	token := strings.ToLower(match[2])
	if canonical, found := m.synonyms[token]; found {
		return qty, models.Unit(canonical), true
	}
	return qty, models.Unit(token), true
}
