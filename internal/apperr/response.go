package apperr

import (
	"errors"
)

// Response is the JSON error body every failed request gets. No stack traces,
// only the stable code and a human-readable message.
type Response struct {
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

// ResponseFor is the single translation point from an error to an HTTP status
// and body. Anything that is not a domain error collapses to INTERNAL_ERROR.
func ResponseFor(err error) (int, Response) {
	var e *Error
	if errors.As(err, &e) {
		return e.Status, Response{ErrorCode: e.Code, ErrorMessage: e.Message}
	}
	return Internal.Status, Response{ErrorCode: Internal.Code, ErrorMessage: Internal.Message}
}
