package app

import (
	"errors"
	"fmt"
)

// HTTPError is returned when remote api responds with status >= 400.
type HTTPError struct {
	StatusCode        int
	URL               string
	RateLimitExceeded bool
}

// Error implements error interface
func (e *HTTPError) Error() string {
	if e.RateLimitExceeded {
		return fmt.Sprintf("rate limit exceeded: status %d for %s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("got invalid http status code %d for %s", e.StatusCode, e.URL)
}

// HTTPStatus returns status code of HTTPError found in err chain.
func HTTPStatus(err error) (int, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode, true
	}
	return 0, false
}

// InvalidRequestError is special error type returned when any request params are invalid
type InvalidRequestError string

// Error implements error interface
func (e InvalidRequestError) Error() string {
	return string(e)
}

// IsInvalidRequest tells that this error is 'invalid request'.
// Returns always true.
func (InvalidRequestError) IsInvalidRequest() bool {
	return true
}

// IsInvalidRequestError checks if given error is caused by invalid request
func IsInvalidRequestError(err error) bool {
	type invalidReqErr interface {
		IsInvalidRequest() bool
	}

	var ire invalidReqErr
	if errors.As(err, &ire) {
		return ire.IsInvalidRequest()
	}

	return false
}

// TooManyRequestsError is returned when local rate limit doesn't allow the call.
type TooManyRequestsError string

// Error implements error interface
func (e TooManyRequestsError) Error() string {
	return string(e)
}

// IsTooManyRequestsError checks if given error is caused by exceeded rate limit.
func IsTooManyRequestsError(err error) bool {
	var tmr TooManyRequestsError
	return errors.As(err, &tmr)
}

// AssetNotFoundError is returned when asset was never materialized.
type AssetNotFoundError string

// Error implements error interface
func (e AssetNotFoundError) Error() string {
	return "asset not found: " + string(e)
}

// IsAssetNotFoundError checks if given error is caused by missing asset.
func IsAssetNotFoundError(err error) bool {
	var anf AssetNotFoundError
	return errors.As(err, &anf)
}

// MalformedRecordError is returned when raw api record can't be validated.
type MalformedRecordError struct {
	Index  int
	Reason string
}

// Error implements error interface
func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record at index %d: %s", e.Index, e.Reason)
}
