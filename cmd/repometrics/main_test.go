package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/m-zajac/repometrics/internal/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFakeGithub serves every repository with the same activity, stars depend on owner name length.
func newFakeGithub(t *testing.T) (*httptest.Server, *int64) {
	var calls int64

	m := http.NewServeMux()
	m.HandleFunc("GET /repos/{owner}/{repo}", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		fmt.Fprintf(w, `{"html_url":"https://github.com/%s/%s","stargazers_count":%d,"forks_count":20,"subscribers_count":5}`,
			r.PathValue("owner"), r.PathValue("repo"), 10*len(r.PathValue("owner")))
	})
	m.HandleFunc("GET /repos/{owner}/{repo}/issues", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"state":"open","created_at":"2023-01-01T00:00:00Z","closed_at":null},
			{"state":"closed","created_at":"2023-01-01T00:00:00Z","closed_at":"2023-01-05T00:00:00Z","pull_request":{}},
			{"state":"open","created_at":"2023-01-01T00:00:00Z","closed_at":null,"pull_request":{}},
			{"state":"closed","created_at":"2023-01-01T00:00:00Z","closed_at":"2023-01-03T00:00:00Z"}
		]`)
	})
	m.HandleFunc("GET /repos/{owner}/{repo}/releases", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id":1},{"id":2},{"id":3}]`)
	})

	srv := httptest.NewServer(m)
	t.Cleanup(srv.Close)

	return srv, &calls
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func summaryFor(owner string, repo string) app.RepositorySummary {
	return app.RepositorySummary{
		HTMLURL:                    "https://github.com/" + owner + "/" + repo,
		Stars:                      10 * len(owner),
		Forks:                      20,
		Watchers:                   5,
		Releases:                   3,
		OpenIssues:                 1,
		ClosedIssues:               1,
		AvgDaysUntilIssueWasClosed: 2.0,
		OpenPRs:                    1,
		ClosedPRs:                  1,
		AvgDaysUntilPRWasClosed:    4.0,
	}
}

func TestRefreshAndReportCommands(t *testing.T) {
	srv, calls := newFakeGithub(t)
	t.Setenv("REPOMETRICS_GITHUBAPIADDRESS", srv.URL)
	t.Setenv("REPOMETRICS_REPOSITORIES", "delta-io/delta-rs,apache/hudi-rs")
	t.Setenv("REPOMETRICS_BOLTPATH", filepath.Join(t.TempDir(), "repometrics.data"))
	t.Setenv("REPOMETRICS_STORAGEBACKEND", storageBackendBolt)

	wantReport, err := app.RenderReport([]app.ReportEntry{
		{Name: "delta-rs", Summary: summaryFor("delta-io", "delta-rs")},
		{Name: "hudi-rs", Summary: summaryFor("apache", "hudi-rs")},
	})
	require.NoError(t, err)

	_, err = runCmd(t, "report")
	require.Error(t, err)
	assert.True(t, app.IsAssetNotFoundError(err))

	out, err := runCmd(t, "refresh")
	require.NoError(t, err)
	assert.Equal(t, wantReport, out)
	assert.EqualValues(t, 2, atomic.LoadInt64(calls))

	// Summaries are fresh, github is not called again.
	out, err = runCmd(t, "refresh")
	require.NoError(t, err)
	assert.Equal(t, wantReport, out)
	assert.EqualValues(t, 2, atomic.LoadInt64(calls))

	out, err = runCmd(t, "refresh", "--force")
	require.NoError(t, err)
	assert.Equal(t, wantReport, out)
	assert.EqualValues(t, 4, atomic.LoadInt64(calls))

	out, err = runCmd(t, "report")
	require.NoError(t, err)
	assert.Equal(t, wantReport, out)

	out, err = runCmd(t, "report", "--rebuild")
	require.NoError(t, err)
	assert.Equal(t, wantReport, out)
	assert.EqualValues(t, 4, atomic.LoadInt64(calls))
}

func TestRefreshCommandFailure(t *testing.T) {
	srv, _ := newFakeGithub(t)
	t.Setenv("REPOMETRICS_GITHUBAPIADDRESS", srv.URL+"/missing")
	t.Setenv("REPOMETRICS_REPOSITORIES", "delta-io/delta-rs")
	t.Setenv("REPOMETRICS_BOLTPATH", filepath.Join(t.TempDir(), "repometrics.data"))
	t.Setenv("REPOMETRICS_STORAGEBACKEND", storageBackendBolt)

	out, err := runCmd(t, "refresh")
	require.Error(t, err)
	assert.Empty(t, out)
	status, ok := app.HTTPStatus(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCommandInvalidConfig(t *testing.T) {
	t.Setenv("REPOMETRICS_STORAGEBACKEND", "s3")

	_, err := runCmd(t, "report")
	assert.Error(t, err)
}
