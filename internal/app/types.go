package app

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// RepositorySummary is the flat set of aggregated metrics for one repository.
type RepositorySummary struct {
	HTMLURL                    string  `json:"html_url"`
	Stars                      int     `json:"stars"`
	Forks                      int     `json:"forks"`
	Watchers                   int     `json:"watchers"`
	Releases                   int     `json:"releases"`
	OpenIssues                 int     `json:"open_issues"`
	ClosedIssues               int     `json:"closed_issues"`
	AvgDaysUntilIssueWasClosed float64 `json:"avg_days_until_issue_was_closed"`
	OpenPRs                    int     `json:"open_prs"`
	ClosedPRs                  int     `json:"closed_prs"`
	AvgDaysUntilPRWasClosed    float64 `json:"avg_days_until_pr_was_closed"`
}

// Metric field names in report order. html_url is not a metric.
const (
	MetricStars                      = "stars"
	MetricForks                      = "forks"
	MetricWatchers                   = "watchers"
	MetricReleases                   = "releases"
	MetricOpenIssues                 = "open_issues"
	MetricClosedIssues               = "closed_issues"
	MetricAvgDaysUntilIssueWasClosed = "avg_days_until_issue_was_closed"
	MetricOpenPRs                    = "open_prs"
	MetricClosedPRs                  = "closed_prs"
	MetricAvgDaysUntilPRWasClosed    = "avg_days_until_pr_was_closed"

	summaryFieldHTMLURL = "html_url"
)

// MetricNames lists report rows in their fixed order.
var MetricNames = []string{
	MetricStars,
	MetricForks,
	MetricWatchers,
	MetricReleases,
	MetricOpenIssues,
	MetricClosedIssues,
	MetricAvgDaysUntilIssueWasClosed,
	MetricOpenPRs,
	MetricClosedPRs,
	MetricAvgDaysUntilPRWasClosed,
}

// Metric is a single named value of a summary. Value is either int or float64.
type Metric struct {
	Name  string
	Value interface{}
}

// Metrics returns summary values in report order.
func (s RepositorySummary) Metrics() []Metric {
	return []Metric{
		{Name: MetricStars, Value: s.Stars},
		{Name: MetricForks, Value: s.Forks},
		{Name: MetricWatchers, Value: s.Watchers},
		{Name: MetricReleases, Value: s.Releases},
		{Name: MetricOpenIssues, Value: s.OpenIssues},
		{Name: MetricClosedIssues, Value: s.ClosedIssues},
		{Name: MetricAvgDaysUntilIssueWasClosed, Value: s.AvgDaysUntilIssueWasClosed},
		{Name: MetricOpenPRs, Value: s.OpenPRs},
		{Name: MetricClosedPRs, Value: s.ClosedPRs},
		{Name: MetricAvgDaysUntilPRWasClosed, Value: s.AvgDaysUntilPRWasClosed},
	}
}

// RepositoryMetadata holds counts read from the repository endpoint.
type RepositoryMetadata struct {
	HTMLURL  string
	Stars    int
	Forks    int
	Watchers int
}

// ActivityState is the state of an issue or pull request.
type ActivityState string

// Possible activity states.
const (
	StateOpen   ActivityState = "open"
	StateClosed ActivityState = "closed"
)

// Activity is a single issue or pull request.
type Activity struct {
	State         ActivityState
	IsPullRequest bool
	CreatedAt     time.Time
	ClosedAt      *time.Time
}

// ReportEntry is one report column.
type ReportEntry struct {
	Name    string
	Summary RepositorySummary
}

// AssetKey identifies a stored asset, e.g. ["dm", "reports", "repo_report"].
type AssetKey []string

// String returns slash separated key path.
func (k AssetKey) String() string {
	return strings.Join(k, "/")
}

// Name returns the last key segment.
func (k AssetKey) Name() string {
	if len(k) == 0 {
		return ""
	}
	return k[len(k)-1]
}

// RepoAsset describes a repository whose summary is materialized into storage.
type RepoAsset struct {
	Owner           string
	Repo            string
	KeyPrefix       []string
	Name            string
	FreshnessMaxLag time.Duration
}

// NewRepoAsset creates RepoAsset with default key layout.
func NewRepoAsset(owner string, repo string, freshnessMaxLag time.Duration) RepoAsset {
	return RepoAsset{
		Owner:           owner,
		Repo:            repo,
		KeyPrefix:       []string{"stage", "github", "repositories", owner, repo},
		Name:            repo + "_repo_metadata",
		FreshnessMaxLag: freshnessMaxLag,
	}
}

// Key returns asset storage key.
func (a RepoAsset) Key() AssetKey {
	key := make(AssetKey, 0, len(a.KeyPrefix)+1)
	key = append(key, a.KeyPrefix...)
	return append(key, a.Name)
}

// Validate checks if asset can be materialized.
func (a RepoAsset) Validate() error {
	if a.Owner == "" {
		return InvalidRequestError("repository owner cannot be empty")
	}
	if a.Repo == "" {
		return InvalidRequestError("repository name cannot be empty")
	}
	if a.Name == "" {
		return InvalidRequestError("asset name cannot be empty")
	}
	return nil
}

// ParseRepoAsset parses "owner/repo" string into RepoAsset.
func ParseRepoAsset(s string, freshnessMaxLag time.Duration) (RepoAsset, error) {
	owner, repo, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return RepoAsset{}, InvalidRequestError("repository must be in owner/repo format: " + s)
	}
	return NewRepoAsset(owner, repo, freshnessMaxLag), nil
}

// Metadata is a set of values describing a materialization.
type Metadata map[string]interface{}

// UnmarshalRepositorySummary decodes stored summary.
// Returns error if any summary field is missing.
func UnmarshalRepositorySummary(data []byte) (RepositorySummary, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return RepositorySummary{}, fmt.Errorf("unmarshalling json: %w", err)
	}
	if _, ok := fields[summaryFieldHTMLURL]; !ok {
		return RepositorySummary{}, fmt.Errorf("missing field %q", summaryFieldHTMLURL)
	}
	for _, name := range MetricNames {
		if _, ok := fields[name]; !ok {
			return RepositorySummary{}, fmt.Errorf("missing field %q", name)
		}
	}

	var s RepositorySummary
	if err := json.Unmarshal(data, &s); err != nil {
		return RepositorySummary{}, fmt.Errorf("unmarshalling json: %w", err)
	}

	return s, nil
}
