package apperr

import "errors"

var (
	ErrNotFound  = errors.New("not found")
	ErrExhausted = errors.New("name candidates exhausted")
)
