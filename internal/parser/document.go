// Package parser turns the plain text of a diet-plan document into a models.Plan.
//
// Parsing is best effort. Regions, slots and option lines that do not match the
// template are left out of the result instead of failing the parse.
package parser

import (
	"strings"
	"time"

	"github.com/chrisdamba/nutriparse/internal/models"
)

// CreatedDateLayout matches an ISO-8601 local timestamp with microseconds.
const CreatedDateLayout = "2006-01-02T15:04:05.000000"

// Parser is immutable once built and safe for concurrent use.
type Parser struct {
	vocab      models.Vocabulary
	quantities *quantityMatcher
	names      *nameMatcher
	sections   *sectionMatcher
	regions    []RegionFinder
	now        func() time.Time
}

type ConfigOption func(*Parser)

// WithClock replaces the clock used for the createdDate field.
func WithClock(now func() time.Time) ConfigOption {
	return func(p *Parser) { p.now = now }
}

func New(vocab models.Vocabulary, opts ...ConfigOption) (*Parser, error) {
	if err := vocab.Validate(); err != nil {
		return nil, err
	}
	p := &Parser{
		vocab:      vocab,
		quantities: newQuantityMatcher(vocab),
		names:      newNameMatcher(vocab),
		sections:   newSectionMatcher(vocab),
		now:        time.Now,
	}
	for _, rule := range vocab.Regions {
		p.regions = append(p.regions, NewRegionFinder(rule))
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

var defaultParser = mustNew(models.DefaultVocabulary())

func mustNew(vocab models.Vocabulary) *Parser {
	p, err := New(vocab)
	if err != nil {
		panic(err)
	}
	return p
}

// Default returns a parser for the built-in template vocabulary.
func Default() *Parser { return defaultParser }

// Regions exposes the ordered region finders.
func (p *Parser) Regions() []RegionFinder { return p.regions }

// ExtractQuantity finds the first quantity and its normalized unit in line.
func (p *Parser) ExtractQuantity(line string) (int, models.Unit, bool) {
	return p.quantities.extract(line)
}

// ExtractFoodName returns the display name of an option line.
func (p *Parser) ExtractFoodName(line string) string {
	return p.names.extract(line)
}

// Parse builds the plan for the full text of one document.
func (p *Parser) Parse(text, userEmail string) *models.Plan {
	notes := p.extractNotes(text)

	meals := make(map[string]models.Meal)
	for _, finder := range p.regions {
		block, ok := finder.Slice(text)
		if !ok {
			continue
		}
		meals[finder.Meal] = p.ParseMealSection(block, finder.Meal)
	}

	p.applyCarbCycling(text, meals)

	for _, m := range p.vocab.Mirrors {
		meals[m.Target] = meals[m.Source].Clone()
	}

	if len(notes) == 0 {
		notes = append([]string(nil), p.vocab.FallbackNotes...)
	}

	return &models.Plan{
		UserEmail:   userEmail,
		PlanName:    p.vocab.PlanName,
		CreatedDate: p.now().Format(CreatedDateLayout),
		Meals:       meals,
		Notes:       notes,
	}
}

func (p *Parser) applyCarbCycling(text string, meals map[string]models.Meal) {
	rule := p.vocab.CarbCycling
	if rule.Marker == "" || rule.Trigger == "" {
		return
	}
	if !strings.Contains(text, rule.Marker) || !strings.Contains(strings.ToLower(text), strings.ToLower(rule.Trigger)) {
		return
	}
	meal, ok := meals[rule.Meal]
	if !ok {
		return
	}
	slot, ok := meal[rule.Slot]
	if !ok {
		return
	}
	rules := rule.Rules
	slot.CarbCycling = true
	slot.Rules = &rules
	meal[rule.Slot] = slot
}

// ParseDocument parses text with the default vocabulary.
func ParseDocument(text, userEmail string) *models.Plan {
	return defaultParser.Parse(text, userEmail)
}

// ExtractQuantity uses the default vocabulary.
func ExtractQuantity(line string) (int, models.Unit, bool) {
	return defaultParser.ExtractQuantity(line)
}

// ExtractFoodName uses the default vocabulary.
func ExtractFoodName(line string) string {
	return defaultParser.ExtractFoodName(line)
}
