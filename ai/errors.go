package ai

import "errors"

var (
	// ErrParseFailure indicates the prompt parser could not produce filters.
	ErrParseFailure = errors.New("prompt parsing failed")

	// ErrUnavailable indicates the AI backend is not configured or not
	// reachable. Offline collaborators return it for every call.
	ErrUnavailable = errors.New("ai service unavailable")
)
