package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/m-zajac/repometrics/internal/app"
)

const pageSize = "100"

// RepositoryDetails returns summary of repository metadata, issues, pull requests and releases.
//
// Requests are made one by one: metadata, issues (with pull requests), releases.
// First failure is returned, no partial summary is ever built.
func (c *Client) RepositoryDetails(ctx context.Context, owner string, repo string) (app.RepositorySummary, error) {
	if owner == "" {
		return app.RepositorySummary{}, app.InvalidRequestError("repository owner cannot be empty")
	}
	if repo == "" {
		return app.RepositorySummary{}, app.InvalidRequestError("repository name cannot be empty")
	}

	repoPath := fmt.Sprintf("/repos/%s/%s", url.PathEscape(owner), url.PathEscape(repo))

	resp, err := c.Execute(ctx, http.MethodGet, repoPath, nil, nil)
	if err != nil {
		return app.RepositorySummary{}, fmt.Errorf("fetching repository metadata: %w", err)
	}
	var meta repositoryResponse
	if err := json.Unmarshal(resp.Body, &meta); err != nil {
		return app.RepositorySummary{}, fmt.Errorf("unmarshalling repository metadata: %w", err)
	}

	issues, err := c.FetchAll(ctx, repoPath+"/issues", url.Values{
		"state":    {"all"},
		"per_page": {pageSize},
	})
	if err != nil {
		return app.RepositorySummary{}, fmt.Errorf("fetching issues: %w", err)
	}
	activity, err := toActivities(issues)
	if err != nil {
		return app.RepositorySummary{}, fmt.Errorf("parsing issues: %w", err)
	}

	releases, err := c.FetchAll(ctx, repoPath+"/releases", url.Values{
		"per_page": {pageSize},
	})
	if err != nil {
		return app.RepositorySummary{}, fmt.Errorf("fetching releases: %w", err)
	}

	return app.NewRepositorySummary(meta.ToMetadata(), activity, len(releases)), nil
}
