package github

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/m-zajac/repometrics/internal/app"
)

type repositoryResponse struct {
	HTMLURL          string `json:"html_url"`
	StargazersCount  int    `json:"stargazers_count"`
	ForksCount       int    `json:"forks_count"`
	SubscribersCount int    `json:"subscribers_count"`
}

func (r repositoryResponse) ToMetadata() app.RepositoryMetadata {
	return app.RepositoryMetadata{
		HTMLURL:  r.HTMLURL,
		Stars:    r.StargazersCount,
		Forks:    r.ForksCount,
		Watchers: r.SubscribersCount,
	}
}

// issueResponse is a record of the issues endpoint, which lists both issues and pull requests.
type issueResponse struct {
	State     string     `json:"state"`
	CreatedAt *time.Time `json:"created_at"`
	ClosedAt  *time.Time `json:"closed_at"`

	// Only pull requests carry this field. Presence is what matters, even a null value counts.
	PullRequest json.RawMessage `json:"pull_request"`
}

func (r issueResponse) ToActivity() (app.Activity, error) {
	a := app.Activity{
		State:         app.ActivityState(r.State),
		IsPullRequest: len(r.PullRequest) > 0,
		ClosedAt:      r.ClosedAt,
	}
	if a.State != app.StateOpen && a.State != app.StateClosed {
		return app.Activity{}, fmt.Errorf("unknown state %q", r.State)
	}
	if r.CreatedAt != nil {
		a.CreatedAt = *r.CreatedAt
	}

	return a, nil
}

func toActivities(records []json.RawMessage) ([]app.Activity, error) {
	activities := make([]app.Activity, 0, len(records))
	for i, rec := range records {
		var r issueResponse
		if err := json.Unmarshal(rec, &r); err != nil {
			return nil, &app.MalformedRecordError{Index: i, Reason: err.Error()}
		}
		a, err := r.ToActivity()
		if err != nil {
			return nil, &app.MalformedRecordError{Index: i, Reason: err.Error()}
		}
		activities = append(activities, a)
	}

	return activities, nil
}
