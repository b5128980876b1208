package app

import (
	"time"

	"github.com/montanaflynn/stats"
)

// Bucket is one of four mutually exclusive activity classifications.
type Bucket int

// Activity buckets.
const (
	BucketOpenIssue Bucket = iota
	BucketClosedIssue
	BucketOpenPR
	BucketClosedPR
)

// Bucket returns classification of the activity.
// Membership is fully determined by (IsPullRequest, State).
func (a Activity) Bucket() Bucket {
	closed := a.State == StateClosed
	switch {
	case a.IsPullRequest && closed:
		return BucketClosedPR
	case a.IsPullRequest:
		return BucketOpenPR
	case closed:
		return BucketClosedIssue
	default:
		return BucketOpenIssue
	}
}

// DaysToClose returns whole days between creation and closure, truncated toward zero.
// Returns false if any of the timestamps is missing.
func (a Activity) DaysToClose() (int, bool) {
	if a.ClosedAt == nil || a.CreatedAt.IsZero() {
		return 0, false
	}
	return int(a.ClosedAt.Sub(a.CreatedAt) / (24 * time.Hour)), true
}

// ActivityBuckets is a partitioned list of issues and pull requests.
type ActivityBuckets struct {
	OpenIssues   []Activity
	ClosedIssues []Activity
	OpenPRs      []Activity
	ClosedPRs    []Activity
}

// Len returns total number of classified items.
func (b ActivityBuckets) Len() int {
	return len(b.OpenIssues) + len(b.ClosedIssues) + len(b.OpenPRs) + len(b.ClosedPRs)
}

// ClassifyActivity partitions items into four buckets in a single pass.
func ClassifyActivity(items []Activity) ActivityBuckets {
	var b ActivityBuckets
	for _, item := range items {
		switch item.Bucket() {
		case BucketOpenIssue:
			b.OpenIssues = append(b.OpenIssues, item)
		case BucketClosedIssue:
			b.ClosedIssues = append(b.ClosedIssues, item)
		case BucketOpenPR:
			b.OpenPRs = append(b.OpenPRs, item)
		case BucketClosedPR:
			b.ClosedPRs = append(b.ClosedPRs, item)
		}
	}

	return b
}

// AverageDaysToClose returns mean closure latency in days, rounded half away from zero
// to one decimal place. Items without closure timestamp are skipped.
// Returns 0 if no item can be measured.
func AverageDaysToClose(items []Activity) float64 {
	days := make(stats.Float64Data, 0, len(items))
	for _, item := range items {
		if d, ok := item.DaysToClose(); ok {
			days = append(days, float64(d))
		}
	}
	if len(days) == 0 {
		return 0
	}

	mean, err := days.Mean()
	if err != nil {
		return 0
	}
	rounded, err := stats.Round(mean, 1)
	if err != nil {
		return 0
	}

	return rounded
}

// NewRepositorySummary assembles summary from fetched repository data.
func NewRepositorySummary(meta RepositoryMetadata, activity []Activity, releases int) RepositorySummary {
	b := ClassifyActivity(activity)

	return RepositorySummary{
		HTMLURL:                    meta.HTMLURL,
		Stars:                      meta.Stars,
		Forks:                      meta.Forks,
		Watchers:                   meta.Watchers,
		Releases:                   releases,
		OpenIssues:                 len(b.OpenIssues),
		ClosedIssues:               len(b.ClosedIssues),
		AvgDaysUntilIssueWasClosed: AverageDaysToClose(b.ClosedIssues),
		OpenPRs:                    len(b.OpenPRs),
		ClosedPRs:                  len(b.ClosedPRs),
		AvgDaysUntilPRWasClosed:    AverageDaysToClose(b.ClosedPRs),
	}
}
