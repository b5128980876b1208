package storage

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/m-zajac/repometrics/internal/app"
	"github.com/m-zajac/repometrics/internal/storage/mock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAssetStore(kv KVStore, versioning bool, now time.Time) *AssetStore {
	l := logrus.New()
	l.Out = io.Discard

	s := NewAssetStore(kv, versioning, l)
	s.now = func() time.Time { return now }
	return s
}

func TestAssetPath(t *testing.T) {
	key := app.AssetKey{"stage", "github", "repositories", "delta-io", "delta-rs", "delta-rs_repo_metadata"}
	assert.Equal(t, "stage/github/repositories/delta-io/delta-rs/delta-rs_repo_metadata.json", AssetPath(key, app.FormatJSON))
	assert.Equal(t, "dm/reports/repo_report.md", AssetPath(app.DefaultReportKey, app.FormatMarkdown))
}

func TestBackupPath(t *testing.T) {
	ts := time.Date(2024, 3, 5, 7, 8, 9, 0, time.UTC)
	assert.Equal(t, "dm/reports/2024-03-05-07-08-09_repo_report.md", BackupPath("dm/reports/repo_report.md", ts))
	assert.Equal(t, "2024-03-05-07-08-09_report.md", BackupPath("report.md", ts))
}

func TestAssetStoreSaveLoad(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 5, 7, 8, 9, 0, time.UTC)

	tests := []struct {
		name       string
		versioning bool
		wantKeys   []string
	}{
		{
			name:       "without versioning",
			versioning: false,
			wantKeys: []string{
				"_materializations/dm/reports/repo_report",
				"dm/reports/repo_report.md",
			},
		},
		{
			name:       "with versioning",
			versioning: true,
			wantKeys: []string{
				"_materializations/dm/reports/repo_report",
				"dm/reports/2024-03-05-07-08-09_repo_report.md",
				"dm/reports/repo_report.md",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := mock.NewKVStore(nil)
			s := newTestAssetStore(kv, tt.versioning, now)

			require.NoError(t, s.Save(app.DefaultReportKey, app.FormatMarkdown, []byte("| report |")))
			assert.Equal(t, tt.wantKeys, kv.Keys())

			data, err := s.Load(app.DefaultReportKey, app.FormatMarkdown)
			require.NoError(t, err)
			assert.Equal(t, "| report |", string(data))

			materializedAt, err := s.MaterializedAt(app.DefaultReportKey)
			require.NoError(t, err)
			assert.True(t, now.Equal(materializedAt))
		})
	}
}

func TestAssetStoreLoadMissing(t *testing.T) {
	s := newTestAssetStore(mock.NewKVStore(nil), false, time.Now())

	_, err := s.Load(app.DefaultReportKey, app.FormatMarkdown)
	assert.True(t, app.IsAssetNotFoundError(err))

	materializedAt, err := s.MaterializedAt(app.DefaultReportKey)
	require.NoError(t, err)
	assert.True(t, materializedAt.IsZero())
}

func TestAssetStoreSaveOverwrites(t *testing.T) {
	first := time.Date(2024, 3, 5, 7, 8, 9, 0, time.UTC)
	kv := mock.NewKVStore(nil)
	s := newTestAssetStore(kv, false, first)

	key := app.AssetKey{"a", "b"}
	require.NoError(t, s.Save(key, app.FormatJSON, []byte(`{"v":1}`)))
	require.NoError(t, s.RecordMetadata(key, app.Metadata{"k": "v"}))

	second := first.Add(time.Hour)
	s.now = func() time.Time { return second }
	require.NoError(t, s.Save(key, app.FormatJSON, []byte(`{"v":2}`)))

	data, err := s.Load(key, app.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, `{"v":2}`, string(data))

	m, err := s.Materialization(key)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, second.Unix(), m.Created)
	assert.Equal(t, "a/b.json", m.Path)
	assert.Empty(t, m.Metadata, "new materialization starts without metadata")
}

func TestAssetStoreRecordMetadata(t *testing.T) {
	s := newTestAssetStore(mock.NewKVStore(nil), false, time.Now())
	key := app.AssetKey{"stage", "o", "r_repo_metadata"}

	err := s.RecordMetadata(key, app.Metadata{"repo link": "https://github.com/o/r"})
	assert.True(t, app.IsAssetNotFoundError(err), "recording metadata of unsaved asset")

	require.NoError(t, s.Save(key, app.FormatJSON, []byte(`{}`)))
	require.NoError(t, s.RecordMetadata(key, app.Metadata{"repo link": "https://github.com/o/r"}))
	require.NoError(t, s.RecordMetadata(key, app.Metadata{"data preview": app.RepositorySummary{Stars: 3}}))

	m, err := s.Materialization(key)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "https://github.com/o/r", m.Metadata["repo link"])
	assert.Equal(t, map[string]interface{}{
		"html_url":                        "",
		"stars":                           float64(3),
		"forks":                           float64(0),
		"watchers":                        float64(0),
		"releases":                        float64(0),
		"open_issues":                     float64(0),
		"closed_issues":                   float64(0),
		"avg_days_until_issue_was_closed": float64(0),
		"open_prs":                        float64(0),
		"closed_prs":                      float64(0),
		"avg_days_until_pr_was_closed":    float64(0),
	}, m.Metadata["data preview"])
}

func TestAssetStoreErrors(t *testing.T) {
	kv := mock.NewKVStore(nil)
	s := newTestAssetStore(kv, false, time.Now())

	assert.True(t, app.IsInvalidRequestError(s.Save(nil, app.FormatJSON, []byte(`{}`))))

	kv.UpdateErr = errors.New("disk full")
	assert.Error(t, s.Save(app.AssetKey{"a"}, app.FormatJSON, []byte(`{}`)))

	kv.ReadErr = errors.New("io error")
	_, err := s.Load(app.AssetKey{"a"}, app.FormatJSON)
	assert.Error(t, err)
	assert.False(t, app.IsAssetNotFoundError(err))
	_, err = s.MaterializedAt(app.AssetKey{"a"})
	assert.Error(t, err)
}
