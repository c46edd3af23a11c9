package entities

import "strings"

// TemplateSegment mirrors the catalog's parsed segment: literal text or a
// typed blank (Tag != "").
type TemplateSegment struct {
	Literal    string
	Tag        string
	BlankIndex int
}

func (s TemplateSegment) IsBlank() bool {
	return s.Tag != ""
}

// TemplateSnapshot is the engine's read model of a catalog template, frozen
// at session creation so later catalog edits cannot shift a running game.
type TemplateSnapshot struct {
	TemplateID string
	Title      string
	Genre      string
	Segments   []TemplateSegment
}

func (t TemplateSnapshot) BlankCount() int {
	count := 0
	for _, segment := range t.Segments {
		if segment.IsBlank() {
			count++
		}
	}
	return count
}

func (t TemplateSnapshot) BlankTag(index int) string {
	for _, segment := range t.Segments {
		if segment.IsBlank() && segment.BlankIndex == index {
			return strings.ToUpper(segment.Tag)
		}
	}
	return ""
}
