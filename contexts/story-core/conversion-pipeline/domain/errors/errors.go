package errors

import "errors"

var (
	ErrTransformerNotFound = errors.New("transformer not found")
	ErrSessionNotFound     = errors.New("session not found")
	ErrStoryNotReady       = errors.New("story is not ready for conversion")
	ErrConversionFailed    = errors.New("conversion failed")
)
