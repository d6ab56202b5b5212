package search

import (
	"errors"
	"fmt"
)

// ErrUnavailable is returned once every retry attempt failed with a
// retryable outcome (transient HTTP status or network failure).
var ErrUnavailable = errors.New("flight search service unavailable")

// StatusError reports a non-retryable HTTP status from the search service.
// Client errors other than 429 mean retrying would only hammer a downstream
// that has already rejected the request, so the call fails immediately.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("search service returned HTTP %d: %s", e.Status, e.Body)
}

// UnexpectedError covers failures outside the retry classification, such as
// a malformed response body. These surface immediately instead of silently
// consuming the retry budget.
type UnexpectedError struct {
	Err error
}

func (e *UnexpectedError) Error() string {
	return "unexpected search failure: " + e.Err.Error()
}

func (e *UnexpectedError) Unwrap() error {
	return e.Err
}
