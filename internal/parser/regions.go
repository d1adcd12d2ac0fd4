package parser

import (
	"regexp"
	"strings"

	"github.com/chrisdamba/nutriparse/internal/models"
)

// Span is a half-open byte range [Start, End) of the document text.
type Span struct {
	Start int
	End   int
}

// RegionFinder locates a single named meal region. Finders are independent: each
// one searches the full text on its own.
type RegionFinder struct {
	Meal       string
	start      *regexp.Regexp
	end        *regexp.Regexp
	followedBy string
}

func caseInsensitiveAny(keywords []string) *regexp.Regexp {
	quoted := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k != "" {
			quoted = append(quoted, regexp.QuoteMeta(k))
		}
	}
	if len(quoted) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)(?:` + strings.Join(quoted, "|") + `)`)
}

func NewRegionFinder(rule models.RegionRule) RegionFinder {
	return RegionFinder{
		Meal:       rule.Meal,
		start:      caseInsensitiveAny([]string{rule.Start}),
		end:        caseInsensitiveAny(rule.End),
		followedBy: rule.EndFollowedBy,
	}
}

// Find returns the region from the first start keyword up to, but excluding, the
// first acceptable end keyword after it. Without an end keyword the region runs
// to the end of text.
func (f RegionFinder) Find(text string) (Span, bool) {
	if f.start == nil {
		return Span{}, false
	}
	loc := f.start.FindStringIndex(text)
	if loc == nil {
		return Span{}, false
	}
	span := Span{Start: loc[0], End: len(text)}
	if f.end == nil {
		return span, true
	}

	rest := text[loc[1]:]
	for _, m := range f.end.FindAllStringIndex(rest, -1) {
		if f.followedBy != "" && !strings.Contains(rest[m[1]:], f.followedBy) {
			continue
		}
		span.End = loc[1] + m[0]
		break
	}
	return span, true
}

// Slice returns the text of the region, if found.
func (f RegionFinder) Slice(text string) (string, bool) {
	span, ok := f.Find(text)
	if !ok {
		return "", false
	}
	return text[span.Start:span.End], true
}
