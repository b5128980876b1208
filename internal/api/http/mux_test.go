package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/m-zajac/repometrics/internal/api/http/mock"
	"github.com/m-zajac/repometrics/internal/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMux(t *testing.T) {
	t.Parallel()

	serviceDelay := time.Millisecond

	tests := []struct {
		name           string
		method         string
		path           string
		muxTimeout     time.Duration
		wantOwner      string
		wantRepo       string
		wantStatusCode int
	}{
		{
			name:           "valid report request",
			method:         http.MethodGet,
			path:           "/report",
			muxTimeout:     time.Second,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "valid repository request",
			method:         http.MethodGet,
			path:           "/repos/delta-io/delta-rs",
			muxTimeout:     time.Second,
			wantOwner:      "delta-io",
			wantRepo:       "delta-rs",
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "service exceeding handler timeout",
			method:         http.MethodGet,
			path:           "/repos/delta-io/delta-rs",
			muxTimeout:     time.Microsecond,
			wantOwner:      "delta-io",
			wantRepo:       "delta-rs",
			wantStatusCode: http.StatusInternalServerError,
		},
		{
			name:           "invalid method",
			method:         http.MethodPost,
			path:           "/report",
			muxTimeout:     time.Second,
			wantStatusCode: http.StatusMethodNotAllowed,
		},
		{
			name:           "repository path too long",
			method:         http.MethodGet,
			path:           "/repos/delta-io/delta-rs/issues",
			muxTimeout:     time.Second,
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:           "invalid path",
			method:         http.MethodGet,
			path:           "/invalid_path",
			muxTimeout:     time.Second,
			wantStatusCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := mock.NewMockService(ctrl)
			service.EXPECT().
				LatestReport(gomock.Any()).
				Return("report", nil).
				MaxTimes(1)
			service.EXPECT().
				RepositoryDetails(gomock.Any(), tt.wantOwner, tt.wantRepo).
				DoAndReturn(func(ctx context.Context, owner string, repo string) (app.RepositorySummary, error) {
					time.Sleep(serviceDelay)

					select {
					case <-ctx.Done():
						return app.RepositorySummary{}, errors.New("context timeout")
					default:
						return app.RepositorySummary{}, nil
					}
				}).
				MaxTimes(1)

			mux := NewMux(service, tt.muxTimeout, discardLogger())

			server := httptest.NewServer(mux)
			defer server.Close()

			req, err := http.NewRequest(tt.method, server.URL+tt.path, nil)
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.wantStatusCode, resp.StatusCode)
		})
	}
}
