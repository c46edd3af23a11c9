package errors

import "errors"

var (
	ErrTemplateNotFound      = errors.New("template not found")
	ErrTitleRequired         = errors.New("template title is required")
	ErrTextRequired          = errors.New("template text is required")
	ErrNoBlanks              = errors.New("template text contains no blanks")
	ErrUnsupportedGenre      = errors.New("unsupported genre")
	ErrUnsupportedDifficulty = errors.New("unsupported difficulty")
	ErrTemplateAlreadyExists = errors.New("template already exists")
)
