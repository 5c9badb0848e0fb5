package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrStoreUnavailable  = errors.New("store unavailable")
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrTaggerUnavailable = errors.New("annotation engine unavailable")
	ErrAnalysis          = errors.New("analysis failed")
)
