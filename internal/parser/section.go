package parser

import (
	"regexp"
	"strings"

	"github.com/chrisdamba/nutriparse/internal/models"
)

var visualHelpPattern = regexp.MustCompile(`\((.*?)\)`)

type sectionMatcher struct {
	header *regexp.Regexp
	label  *regexp.Regexp
}

func newSectionMatcher(v models.Vocabulary) *sectionMatcher {
	labels := make([]string, len(v.SlotLabels))
	for i, l := range v.SlotLabels {
		labels[i] = regexp.QuoteMeta(l)
	}
	alt := strings.Join(labels, "|")

	header := `(?i)(` + alt + `):`
	if v.SlotSelector != "" {
		header += `\s*` + regexp.QuoteMeta(v.SlotSelector)
	}
	return &sectionMatcher{
		header: regexp.MustCompile(header),
		label:  regexp.MustCompile(`(?i)(?:` + alt + `):`),
	}
}

// slotSpan is one labeled slot inside a meal block.
type slotSpan struct {
	name    string
	content string
}

// slots walks block left to right. Each slot's content starts after its selector
// phrase and stops at the next slot label or the end of the block, so slots never
// overlap.
func (m *sectionMatcher) slots(block string) []slotSpan {
	var spans []slotSpan
	pos := 0
	for pos <= len(block) {
		loc := m.header.FindStringSubmatchIndex(block[pos:])
		if loc == nil {
			break
		}
		name := strings.ToLower(block[pos+loc[2] : pos+loc[3]])
		start := pos + loc[1]
		end := len(block)
		if next := m.label.FindStringIndex(block[start:]); next != nil {
			end = start + next[0]
		}
		spans = append(spans, slotSpan{name: name, content: block[start:end]})
		pos = end
	}
	return spans
}

// ParseMealSection turns the text of one meal into its slots. Slots that yield no
// options are left out.
func (p *Parser) ParseMealSection(block, meal string) models.Meal {
	slots := make(models.Meal)
	for _, span := range p.sections.slots(block) {
		options := p.parseOptions(span.content)
		if len(options) == 0 {
			continue
		}
		slots[span.name] = models.Slot{Options: options}
	}
	return slots
}

func (p *Parser) parseOptions(content string) []models.Option {
	var options []models.Option
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, p.vocab.OptionMarker) {
			continue
		}
		if opt, ok := p.ParseOption(line); ok {
			options = append(options, opt)
		}
	}
	return options
}

// ParseOption converts a single option line. ok is false when no usable name is
// left once the marker, quantity and trailing note are removed.
func (p *Parser) ParseOption(line string) (models.Option, bool) {
	name := p.names.extract(line)
	if name == "" {
		return models.Option{}, false
	}

	opt := models.Option{
		ID:     Slug(name),
		Name:   name,
		InPlan: true,
		Qty:    p.vocab.FallbackQty,
		Unit:   models.Unit(p.vocab.FallbackUnit),
	}
	if qty, unit, ok := p.quantities.extract(line); ok && qty != 0 {
		opt.Qty = qty
		opt.Unit = unit
	}
	if m := visualHelpPattern.FindStringSubmatch(line); m != nil {
		opt.VisualHelp = m[1]
	}
	return opt, true
}
