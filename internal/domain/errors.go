package domain

import "errors"

var (
	ErrTextEmpty           = errors.New("text must not be empty")
	ErrTextTooLong         = errors.New("text must be at most 1000 characters")
	ErrAnalyzerUnavailable = errors.New("sentiment analyzer failed to initialize")
)
