package entities

import (
	"strings"
	"time"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Segment is one ordered piece of a template: either literal text or a typed
// blank awaiting a contributor's word. A segment is a blank iff Tag != "";
// BlankIndex is dense 0..n-1 across the template's blanks in segment order.
type Segment struct {
	Literal    string
	Tag        string
	BlankIndex int
}

func (s Segment) IsBlank() bool {
	return s.Tag != ""
}

type Template struct {
	TemplateID string
	Title      string
	Genre      string
	Difficulty Difficulty
	Segments   []Segment
	Tags       []string
	CreatedAt  time.Time
}

// BlankCount is derived from segments rather than stored so it can never
// drift from the parsed content.
func (t Template) BlankCount() int {
	count := 0
	for _, segment := range t.Segments {
		if segment.IsBlank() {
			count++
		}
	}
	return count
}

// BlankTag returns the semantic tag of blank i, or "" when out of range.
func (t Template) BlankTag(index int) string {
	for _, segment := range t.Segments {
		if segment.IsBlank() && segment.BlankIndex == index {
			return segment.Tag
		}
	}
	return ""
}

// Text renders the template back to bracket syntax.
func (t Template) Text() string {
	var b strings.Builder
	for _, segment := range t.Segments {
		if segment.IsBlank() {
			b.WriteString("[")
			b.WriteString(segment.Tag)
			b.WriteString("]")
			continue
		}
		b.WriteString(segment.Literal)
	}
	return b.String()
}

var supportedGenres = map[string]struct{}{
	"fantasy":   {},
	"comedy":    {},
	"action":    {},
	"sci-fi":    {},
	"horror":    {},
	"romance":   {},
	"adventure": {},
	"mystery":   {},
}

func IsSupportedGenre(value string) bool {
	_, ok := supportedGenres[strings.ToLower(strings.TrimSpace(value))]
	return ok
}

func IsSupportedDifficulty(value Difficulty) bool {
	switch value {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

// ParseSegments splits bracket-syntax template text ("It was a [ADJECTIVE]
// night at the [PLACE].") into ordered literal and blank segments. Tags are
// upper-cased and trimmed; empty brackets are treated as literal text.
func ParseSegments(text string) []Segment {
	segments := make([]Segment, 0)
	blankIndex := 0
	remaining := text
	for {
		open := strings.Index(remaining, "[")
		if open < 0 {
			break
		}
		close := strings.Index(remaining[open:], "]")
		if close < 0 {
			break
		}
		close += open

		tag := strings.ToUpper(strings.TrimSpace(remaining[open+1 : close]))
		if tag == "" {
			if open+1 <= len(remaining) {
				segments = appendLiteral(segments, remaining[:close+1])
				remaining = remaining[close+1:]
			}
			continue
		}
		if open > 0 {
			segments = appendLiteral(segments, remaining[:open])
		}
		segments = append(segments, Segment{Tag: tag, BlankIndex: blankIndex})
		blankIndex++
		remaining = remaining[close+1:]
	}
	if remaining != "" {
		segments = appendLiteral(segments, remaining)
	}
	return segments
}

func appendLiteral(segments []Segment, literal string) []Segment {
	if literal == "" {
		return segments
	}
	if n := len(segments); n > 0 && !segments[n-1].IsBlank() {
		segments[n-1].Literal += literal
		return segments
	}
	return append(segments, Segment{Literal: literal})
}
