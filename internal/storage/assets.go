package storage

import (
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/m-zajac/repometrics/internal/app"
	"github.com/sirupsen/logrus"
)

// KVStore provides simple kv data storage
type KVStore interface {
	ReadKey(key []byte) ([]byte, error)
	UpdateKey(key []byte, data []byte) error
}

const (
	materializationsPrefix = "_materializations/"
	backupTimeLayout       = "2006-01-02-15-04-05"
)

// AssetStore saves materialized assets in KVStore under paths derived from asset keys.
//
// Asset ["dm", "reports", "repo_report"] in markdown format is stored under "dm/reports/repo_report.md".
// Every save overwrites previous content. With versioning enabled, additional timestamped copy
// is saved next to it, e.g. "dm/reports/2024-01-02-15-04-05_repo_report.md".
//
// Each asset also has a materialization record holding its last save time and recorded metadata.
type AssetStore struct {
	store      KVStore
	versioning bool
	l          logrus.FieldLogger
	now        func() time.Time
}

var (
	_ app.AssetStore       = &AssetStore{}
	_ app.MetadataRecorder = &AssetStore{}
)

// NewAssetStore creates new AssetStore instance.
func NewAssetStore(store KVStore, versioning bool, l logrus.FieldLogger) *AssetStore {
	return &AssetStore{
		store:      store,
		versioning: versioning,
		l:          l,
		now:        time.Now,
	}
}

// Materialization describes last save of an asset.
type Materialization struct {
	Created  int64
	Path     string
	Metadata map[string]interface{} `json:",omitempty"`
}

// AssetPath returns storage path for given asset.
func AssetPath(key app.AssetKey, format app.AssetFormat) string {
	return key.String() + string(format)
}

// BackupPath returns path of timestamped asset copy.
func BackupPath(assetPath string, t time.Time) string {
	dir, file := path.Split(assetPath)
	return dir + t.UTC().Format(backupTimeLayout) + "_" + file
}

// Save stores asset data.
func (s *AssetStore) Save(key app.AssetKey, format app.AssetFormat, data []byte) error {
	if len(key) == 0 {
		return app.InvalidRequestError("asset key cannot be empty")
	}

	now := s.now()
	p := AssetPath(key, format)
	if err := s.store.UpdateKey([]byte(p), data); err != nil {
		return fmt.Errorf("writing %s: %w", p, err)
	}
	if s.versioning {
		bp := BackupPath(p, now)
		if err := s.store.UpdateKey([]byte(bp), data); err != nil {
			return fmt.Errorf("writing backup %s: %w", bp, err)
		}
		s.l.Debugf("saved backup %s", bp)
	}

	if err := s.writeMaterialization(key, Materialization{
		Created: now.Unix(),
		Path:    p,
	}); err != nil {
		return err
	}
	s.l.Debugf("saved %s (%d bytes)", p, len(data))

	return nil
}

// Load returns stored asset data.
func (s *AssetStore) Load(key app.AssetKey, format app.AssetFormat) ([]byte, error) {
	p := AssetPath(key, format)
	data, err := s.store.ReadKey([]byte(p))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", p, err)
	}
	if data == nil {
		return nil, app.AssetNotFoundError(p)
	}

	return data, nil
}

// MaterializedAt returns time of last Save. Returns zero time if asset was never saved.
func (s *AssetStore) MaterializedAt(key app.AssetKey) (time.Time, error) {
	m, err := s.Materialization(key)
	if err != nil {
		return time.Time{}, err
	}
	if m == nil {
		return time.Time{}, nil
	}

	return time.Unix(m.Created, 0), nil
}

// Materialization returns materialization record of an asset, nil if asset was never saved.
func (s *AssetStore) Materialization(key app.AssetKey) (*Materialization, error) {
	data, err := s.store.ReadKey(materializationKey(key))
	if err != nil {
		return nil, fmt.Errorf("reading materialization of %s: %w", key, err)
	}
	if data == nil {
		return nil, nil
	}

	var m Materialization
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshalling materialization of %s: %w", key, err)
	}

	return &m, nil
}

// RecordMetadata merges md into asset's materialization record.
func (s *AssetStore) RecordMetadata(key app.AssetKey, md app.Metadata) error {
	m, err := s.Materialization(key)
	if err != nil {
		return err
	}
	if m == nil {
		return app.AssetNotFoundError(key.String())
	}

	if m.Metadata == nil {
		m.Metadata = make(map[string]interface{}, len(md))
	}
	for k, v := range md {
		m.Metadata[k] = v
	}

	return s.writeMaterialization(key, *m)
}

func (s *AssetStore) writeMaterialization(key app.AssetKey, m Materialization) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshalling materialization of %s: %w", key, err)
	}
	if err := s.store.UpdateKey(materializationKey(key), data); err != nil {
		return fmt.Errorf("writing materialization of %s: %w", key, err)
	}

	return nil
}

func materializationKey(key app.AssetKey) []byte {
	return []byte(materializationsPrefix + key.String())
}
