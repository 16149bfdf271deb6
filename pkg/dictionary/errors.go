package dictionary

import "errors"

// Sentinel errors returned by providers and dictionary constructors.
var (
	ErrUnknownDictionary = errors.New("unknown dictionary")
	ErrNotSearchable     = errors.New("dictionary is not searchable")
	ErrInvalidConfig     = errors.New("invalid dictionary config")
)
