package main

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/m-zajac/repometrics/internal/app"
)

const (
	envPrefix = "repometrics"

	storageBackendBolt     = "bolt"
	storageBackendPostgres = "postgres"
)

// Config is the container for app configuration
type Config struct {
	// Repositories - repositories in owner/repo format, in report column order
	Repositories []string `default:"delta-io/delta-rs,apache/iceberg-python,apache/hudi-rs"`

	// FreshnessMaxLag - stored repository summary younger than this is not fetched again. 0 disables freshness check
	FreshnessMaxLag time.Duration `default:"24h"`

	// ContinueOnError - if true, failed repository is reported with empty summary instead of failing the refresh
	ContinueOnError bool `default:"false"`

	// HTTPServerAddress - listen address for http server
	HTTPServerAddress string `default:"0.0.0.0:8080"`

	// HTTPProfileServerAddress - listen address for profiler http server. If empty, profiler server is disabled
	HTTPProfileServerAddress string `default:""`

	// HTTPHandlerTimeout - timeout for http api handlers
	HTTPHandlerTimeout time.Duration `default:"60s"`

	// ServiceResponseTimeout - timeout for live repository details
	ServiceResponseTimeout time.Duration `default:"30s"`

	// HTTPClientTimeout - timeout for single github api call
	HTTPClientTimeout time.Duration `default:"30s"`

	// GithubAPIAddress - address for rest api with protocol
	GithubAPIAddress string `default:"https://api.github.com"`

	// GithubAPIToken - auth token for rest github api (optional, rate limit is lower without this token)
	GithubAPIToken string `default:""`

	// GithubAPIRateLimit - max frequency for github rest api calls. 0 means unlimited
	GithubAPIRateLimit float64 `default:"0"`

	// GithubAPIRateBurst - number of github rest api calls allowed at once
	GithubAPIRateBurst int `default:"1"`

	// GithubClientCacheSize - maximum number of repositories in live details cache
	GithubClientCacheSize int `default:"1000"`

	// GithubClientCacheTTL - maximum lifetime for live details cache entries
	GithubClientCacheTTL time.Duration `default:"10m"`

	// StorageBackend - asset storage: bolt or postgres
	StorageBackend string `default:"bolt"`

	// AssetVersioning - if true, timestamped copy is stored next to every asset
	AssetVersioning bool `default:"false"`

	// BoltPath - filepath for bolt db data
	BoltPath string `default:"./repometrics.data"`

	// BoltBucket - bolt db bucket name
	BoltBucket string `default:"assets"`

	// PostgresDSN - postgres connection string, required for postgres backend
	PostgresDSN string `default:""`

	// PostgresTable - postgres table name
	PostgresTable string `default:"assets"`
}

// loadConfig reads config from environment. Variables from envFiles are loaded first,
// without overriding already set ones. Missing env files are ignored.
func loadConfig(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading env file %s: %w", f, err)
		}
	}

	var conf Config
	if err := envconfig.Process(envPrefix, &conf); err != nil {
		return Config{}, fmt.Errorf("processing env config: %w", err)
	}
	if err := conf.Validate(); err != nil {
		return Config{}, err
	}

	return conf, nil
}

// Validate checks config consistency.
func (c Config) Validate() error {
	switch c.StorageBackend {
	case storageBackendBolt:
		if c.BoltPath == "" {
			return errors.New("bolt path cannot be empty")
		}
	case storageBackendPostgres:
		if c.PostgresDSN == "" {
			return errors.New("postgres dsn is required for postgres storage backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}

	if _, err := c.Assets(); err != nil {
		return err
	}

	return nil
}

// Assets returns configured repositories as assets.
func (c Config) Assets() ([]app.RepoAsset, error) {
	if len(c.Repositories) == 0 {
		return nil, errors.New("no repositories configured")
	}

	assets := make([]app.RepoAsset, 0, len(c.Repositories))
	names := make(map[string]bool, len(c.Repositories))
	for _, r := range c.Repositories {
		a, err := app.ParseRepoAsset(r, c.FreshnessMaxLag)
		if err != nil {
			return nil, err
		}
		// Repository name is the report column name.
		if names[a.Repo] {
			return nil, fmt.Errorf("duplicate repository name %q", a.Repo)
		}
		names[a.Repo] = true
		assets = append(assets, a)
	}

	return assets, nil
}
