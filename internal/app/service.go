package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// GithubClient returns aggregated details about github repositories.
//go:generate mockgen -destination mock/githubcli.go -package mock github.com/m-zajac/repometrics/internal/app GithubClient
type GithubClient interface {
	RepositoryDetails(ctx context.Context, owner string, repo string) (RepositorySummary, error)
}

// AssetFormat is a stored asset file format.
type AssetFormat string

// Supported asset formats.
const (
	FormatJSON     AssetFormat = ".json"
	FormatMarkdown AssetFormat = ".md"
)

// AssetStore persists materialized assets.
type AssetStore interface {
	Save(key AssetKey, format AssetFormat, data []byte) error
	Load(key AssetKey, format AssetFormat) ([]byte, error)
	// MaterializedAt returns time of last Save, zero time if asset was never saved.
	MaterializedAt(key AssetKey) (time.Time, error)
}

// MetadataRecorder receives metadata describing materialized assets.
type MetadataRecorder interface {
	RecordMetadata(key AssetKey, md Metadata) error
}

// DefaultReportKey is a storage key of the comparison report.
var DefaultReportKey = AssetKey{"dm", "reports", "repo_report"}

// ServiceConfig configures Service.
type ServiceConfig struct {
	// Assets - repositories included in the report, in column order.
	Assets []RepoAsset

	// ReportKey - storage key of the rendered report. DefaultReportKey if empty.
	ReportKey AssetKey

	// ContinueOnError - if true, a failed repository is logged and reported with an empty summary.
	// The empty summary is not stored.
	ContinueOnError bool

	// Timeout - timeout for live RepositoryDetails calls. No timeout if 0.
	Timeout time.Duration
}

// Service is main apps entry point. Provides all app functionality
type Service struct {
	githubClient GithubClient
	store        AssetStore
	recorder     MetadataRecorder
	conf         ServiceConfig
	l            logrus.FieldLogger
	now          func() time.Time
}

// NewService creates new Service instance
func NewService(
	githubClient GithubClient,
	store AssetStore,
	recorder MetadataRecorder,
	conf ServiceConfig,
	l logrus.FieldLogger,
) (*Service, error) {
	for _, a := range conf.Assets {
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("invalid asset %s/%s: %w", a.Owner, a.Repo, err)
		}
	}
	if len(conf.ReportKey) == 0 {
		conf.ReportKey = DefaultReportKey
	}

	return &Service{
		githubClient: githubClient,
		store:        store,
		recorder:     recorder,
		conf:         conf,
		l:            l,
		now:          time.Now,
	}, nil
}

// RepositoryDetails fetches live repository summary.
func (s *Service) RepositoryDetails(ctx context.Context, owner string, repo string) (RepositorySummary, error) {
	if owner == "" {
		return RepositorySummary{}, InvalidRequestError("repository owner cannot be empty")
	}
	if repo == "" {
		return RepositorySummary{}, InvalidRequestError("repository name cannot be empty")
	}

	if s.conf.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.conf.Timeout)
		defer cancel()
	}

	return s.githubClient.RepositoryDetails(ctx, owner, repo)
}

// Refresh materializes every configured repository, then the report.
// Returns rendered report.
func (s *Service) Refresh(ctx context.Context, force bool) (string, error) {
	entries := make([]ReportEntry, 0, len(s.conf.Assets))
	for _, a := range s.conf.Assets {
		summary, err := s.MaterializeRepository(ctx, a, force)
		if err != nil {
			if !s.conf.ContinueOnError {
				return "", err
			}
			s.l.Errorf("failed to fetch metadata for %s/%s: %v", a.Owner, a.Repo, err)
			summary = RepositorySummary{}
		}
		entries = append(entries, ReportEntry{
			Name:    a.Repo,
			Summary: summary,
		})
	}

	return s.materializeReport(entries)
}

// MaterializeRepository fetches and stores repository summary.
// If asset is still fresh and force is false, stored summary is returned instead.
func (s *Service) MaterializeRepository(ctx context.Context, a RepoAsset, force bool) (RepositorySummary, error) {
	if err := a.Validate(); err != nil {
		return RepositorySummary{}, err
	}
	key := a.Key()

	if !force && a.FreshnessMaxLag > 0 {
		if summary, ok := s.freshSummary(key, a.FreshnessMaxLag); ok {
			s.l.Debugf("asset %s is fresh, skipping fetch", key)
			return summary, nil
		}
	}

	summary, err := s.githubClient.RepositoryDetails(ctx, a.Owner, a.Repo)
	if err != nil {
		return RepositorySummary{}, fmt.Errorf("fetching repository %s/%s details: %w", a.Owner, a.Repo, err)
	}
	if err := s.saveSummary(key, summary); err != nil {
		return RepositorySummary{}, err
	}

	s.record(key, Metadata{
		"repo link":    summary.HTMLURL,
		"data preview": summary,
	})
	s.l.Infof("materialized %s", key)

	return summary, nil
}

// MaterializeReport renders stored repository summaries and stores the report.
func (s *Service) MaterializeReport(ctx context.Context) (string, error) {
	entries := make([]ReportEntry, 0, len(s.conf.Assets))
	for _, a := range s.conf.Assets {
		summary, err := s.loadSummary(a.Key())
		if err != nil {
			return "", fmt.Errorf("loading %s/%s summary: %w", a.Owner, a.Repo, err)
		}
		entries = append(entries, ReportEntry{
			Name:    a.Repo,
			Summary: summary,
		})
	}

	return s.materializeReport(entries)
}

func (s *Service) materializeReport(entries []ReportEntry) (string, error) {
	report, err := RenderReport(entries)
	if err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}
	if err := s.store.Save(s.conf.ReportKey, FormatMarkdown, []byte(report)); err != nil {
		return "", fmt.Errorf("saving report: %w", err)
	}

	s.record(s.conf.ReportKey, Metadata{
		"report": report,
	})
	s.l.Infof("materialized %s", s.conf.ReportKey)

	return report, nil
}

// LatestReport returns last materialized report.
func (s *Service) LatestReport(ctx context.Context) (string, error) {
	data, err := s.store.Load(s.conf.ReportKey, FormatMarkdown)
	if err != nil {
		return "", fmt.Errorf("loading report: %w", err)
	}

	return string(data), nil
}

func (s *Service) freshSummary(key AssetKey, maxLag time.Duration) (RepositorySummary, bool) {
	materializedAt, err := s.store.MaterializedAt(key)
	if err != nil {
		s.l.Warnf("reading %s materialization time: %v", key, err)
		return RepositorySummary{}, false
	}
	if materializedAt.IsZero() || materializedAt.Add(maxLag).Before(s.now()) {
		return RepositorySummary{}, false
	}

	summary, err := s.loadSummary(key)
	if err != nil {
		s.l.Warnf("loading fresh asset %s: %v", key, err)
		return RepositorySummary{}, false
	}

	return summary, true
}

func (s *Service) saveSummary(key AssetKey, summary RepositorySummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshalling summary: %w", err)
	}
	if err := s.store.Save(key, FormatJSON, data); err != nil {
		return fmt.Errorf("saving summary: %w", err)
	}

	return nil
}

func (s *Service) loadSummary(key AssetKey) (RepositorySummary, error) {
	data, err := s.store.Load(key, FormatJSON)
	if err != nil {
		return RepositorySummary{}, err
	}

	return UnmarshalRepositorySummary(data)
}

// record never fails materialization, metadata is a side channel.
func (s *Service) record(key AssetKey, md Metadata) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.RecordMetadata(key, md); err != nil {
		s.l.Warnf("recording metadata for %s: %v", key, err)
	}
}
