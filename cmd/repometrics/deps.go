package main

import (
	"context"
	"fmt"
	netHttp "net/http"

	"github.com/m-zajac/repometrics/internal/adapter/github"
	"github.com/m-zajac/repometrics/internal/app"
	"github.com/m-zajac/repometrics/internal/database"
	"github.com/m-zajac/repometrics/internal/limiter"
	"github.com/m-zajac/repometrics/internal/storage"
	"github.com/sirupsen/logrus"
)

type kvStore interface {
	storage.KVStore
	Close() error
}

func newKVStore(ctx context.Context, conf Config) (kvStore, error) {
	switch conf.StorageBackend {
	case storageBackendPostgres:
		s, err := database.NewPostgresKVStore(ctx, conf.PostgresDSN, conf.PostgresTable)
		if err != nil {
			return nil, fmt.Errorf("couldn't create postgres kv store: %w", err)
		}
		return s, nil
	default:
		s, err := database.NewBoltKVStore(conf.BoltPath, conf.BoltBucket)
		if err != nil {
			return nil, fmt.Errorf("couldn't create bolt kv store: %w", err)
		}
		return s, nil
	}
}

func newGithubClient(conf Config, l logrus.FieldLogger) *github.Client {
	httpClient := &netHttp.Client{
		Timeout: conf.HTTPClientTimeout,
	}
	limitedHTTPClient := limiter.NewHTTPDoer(
		httpClient,
		conf.GithubAPIRateLimit,
		conf.GithubAPIRateBurst,
		l,
	)

	return github.NewClient(
		limitedHTTPClient,
		conf.GithubAPIAddress,
		conf.GithubAPIToken,
		l.WithField("component", "githubClient"),
	)
}

// environment holds dependencies shared by all commands.
type environment struct {
	conf    Config
	l       *logrus.Logger
	kv      kvStore
	store   *storage.AssetStore
	service *app.Service
}

func newEnvironment(ctx context.Context, conf Config, githubClient app.GithubClient, l *logrus.Logger) (*environment, error) {
	assets, err := conf.Assets()
	if err != nil {
		return nil, err
	}

	kv, err := newKVStore(ctx, conf)
	if err != nil {
		return nil, err
	}
	store := storage.NewAssetStore(kv, conf.AssetVersioning, l.WithField("component", "storage"))

	service, err := app.NewService(
		githubClient,
		store,
		store,
		app.ServiceConfig{
			Assets:          assets,
			ContinueOnError: conf.ContinueOnError,
			Timeout:         conf.ServiceResponseTimeout,
		},
		l.WithField("component", "service"),
	)
	if err != nil {
		kv.Close()
		return nil, fmt.Errorf("couldn't create service: %w", err)
	}

	return &environment{
		conf:    conf,
		l:       l,
		kv:      kv,
		store:   store,
		service: service,
	}, nil
}

func (e *environment) Close() {
	if err := e.kv.Close(); err != nil {
		e.l.Errorf("closing kv store: %v", err)
	}
}
