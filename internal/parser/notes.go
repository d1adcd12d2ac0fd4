package parser

import (
	"strings"
	"unicode/utf8"
)

// extractNotes collects the free-text notes written before the first meal. The
// raw-weight advisory, when triggered, goes first and counts towards the limit.
func (p *Parser) extractNotes(text string) []string {
	v := p.vocab
	var notes []string

	intro := text
	if v.NotesBoundary != "" {
		intro, _, _ = strings.Cut(text, v.NotesBoundary)
	}
	if v.NotesMarker != "" {
		if _, after, found := strings.Cut(intro, v.NotesMarker); found {
			for _, line := range strings.Split(after, "\n") {
				line = strings.TrimSpace(line)
				if line == "" || utf8.RuneCountInString(line) <= v.NoteMinLength {
					continue
				}
				if v.NoteSkipPrefix != "" && strings.HasPrefix(line, v.NoteSkipPrefix) {
					continue
				}
				notes = append(notes, line)
			}
		}
	}

	if v.RawWeightKeyword != "" && strings.Contains(strings.ToUpper(text), strings.ToUpper(v.RawWeightKeyword)) {
		notes = append([]string{v.RawWeightNote}, notes...)
	}

	if v.MaxNotes > 0 && len(notes) > v.MaxNotes {
		notes = notes[:v.MaxNotes]
	}
	return notes
}
