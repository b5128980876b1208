package app

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsInvalidRequestError(t *testing.T) {
	stdErr := errors.New("simple error")
	assert.False(t, IsInvalidRequestError(stdErr))

	irErr := InvalidRequestError("invalid request")
	assert.True(t, IsInvalidRequestError(irErr))

	wrapperErr := fmt.Errorf("wrapping message: %w", irErr)
	assert.True(t, IsInvalidRequestError(wrapperErr))
}

func TestHTTPStatus(t *testing.T) {
	_, ok := HTTPStatus(errors.New("simple error"))
	assert.False(t, ok)

	err := fmt.Errorf("fetching metadata: %w", &HTTPError{StatusCode: 404, URL: "https://fake/repos/o/r"})
	status, ok := HTTPStatus(err)
	assert.True(t, ok)
	assert.Equal(t, 404, status)
	assert.Contains(t, err.Error(), "https://fake/repos/o/r")
}

func TestIsAssetNotFoundError(t *testing.T) {
	assert.False(t, IsAssetNotFoundError(errors.New("simple error")))
	assert.True(t, IsAssetNotFoundError(fmt.Errorf("loading: %w", AssetNotFoundError("dm/reports/repo_report.md"))))
}

func TestIsTooManyRequestsError(t *testing.T) {
	assert.False(t, IsTooManyRequestsError(errors.New("simple error")))
	assert.True(t, IsTooManyRequestsError(fmt.Errorf("doing request: %w", TooManyRequestsError("limit"))))
}
