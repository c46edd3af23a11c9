package services

import (
	"strings"

	"taleforge/contexts/story-core/session-engine/domain/entities"
	domainerrors "taleforge/contexts/story-core/session-engine/domain/errors"
)

// AssembleStory renders the finished story by walking the template segments
// in order and substituting blank i with the i-th response. It is pure: the
// same template and session always produce byte-identical output.
func AssembleStory(template entities.TemplateSnapshot, session entities.Session) (string, error) {
	if session.Status != entities.SessionStatusCompleted {
		return "", domainerrors.ErrStoryNotReady
	}

	var b strings.Builder
	for _, segment := range template.Segments {
		if !segment.IsBlank() {
			b.WriteString(segment.Literal)
			continue
		}
		if segment.BlankIndex >= len(session.Responses) {
			return "", domainerrors.ErrStoryNotReady
		}
		b.WriteString(session.Responses[segment.BlankIndex].Text)
	}
	return b.String(), nil
}
