package service

import "errors"

// ErrValidation indicates a request failed domain validation beyond what the
// struct tags cover, such as a field that is blank once sanitized.
var ErrValidation = errors.New("validation failed")
