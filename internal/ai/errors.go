// Package ai provides the Gemini-backed bid advisor.
package ai

import "errors"

// ErrEmptyResponse is returned when the model returns no candidates.
var ErrEmptyResponse = errors.New("ai: empty model response")
