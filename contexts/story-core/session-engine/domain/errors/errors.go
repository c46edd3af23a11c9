package errors

import "errors"

var (
	ErrSessionNotFound        = errors.New("session not found")
	ErrTemplateNotFound       = errors.New("template not found")
	ErrInvalidStateTransition = errors.New("invalid session state transition")
	ErrEmptyResponseText      = errors.New("response text must not be empty")
	ErrContributorRequired    = errors.New("contributor id is required")
	ErrTitleRequired          = errors.New("session title is required")
	ErrUnsupportedTurnSeconds = errors.New("unsupported turn duration")
	ErrAlreadySubmitted       = errors.New("turn already submitted")
	ErrOutOfTurnSequence      = errors.New("submission targets a turn that is not current")
	ErrStoryNotReady          = errors.New("story is not ready until the session completes")
	ErrAssistFailed           = errors.New("assist generation failed")
)
