// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import "errors"

// Validation errors. These are caught before any engine call.
var (
	ErrEmptyQuery = errors.New("artist name is empty")
	ErrEmptyTrack = errors.New("reference track title is empty")
)

// State errors.
var (
	// ErrNoAnalysis means there is no active analysis to operate on.
	ErrNoAnalysis = errors.New("no active analysis")

	// ErrIndexOutOfRange means a mood prompt index does not exist in the
	// active analysis. Out-of-range edits are a caller bug; the controller
	// reports them and leaves state unchanged.
	ErrIndexOutOfRange = errors.New("mood prompt index out of range")

	// ErrBusy means a call for the same slot is already outstanding. The
	// new request is rejected, not queued.
	ErrBusy = errors.New("request already in progress")

	// ErrStale means the response arrived after the active analysis was
	// replaced. The response was discarded.
	ErrStale = errors.New("response discarded: analysis changed")
)

// Engine errors. The underlying cause is wrapped alongside.
var (
	ErrAnalysisFailed = errors.New("analysis failed")
	ErrRefineFailed   = errors.New("refinement failed")
)

// IsValidation reports whether err is an input validation error that the
// caller should treat as a disabled action rather than a failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyQuery) || errors.Is(err, ErrEmptyTrack)
}

// UserMessage returns a short, non-technical message for err.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAnalysisFailed):
		return "Could not analyze that artist. Check the name or try again in a moment."
	case errors.Is(err, ErrRefineFailed):
		return "Refinement failed. Your prompt was not changed; try again."
	case errors.Is(err, ErrBusy):
		return "Still working on that one."
	case errors.Is(err, ErrStale):
		return "That result arrived after you switched artists and was ignored."
	case errors.Is(err, ErrNoAnalysis):
		return "Analyze an artist first."
	default:
		return err.Error()
	}
}
