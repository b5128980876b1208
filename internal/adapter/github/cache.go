package github

import (
	"context"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/m-zajac/repometrics/internal/app"
)

// CachedClient wraps github client with caching layer.
// Only successful responses are cached.
type CachedClient struct {
	client       app.GithubClient
	detailsCache *lru.Cache
	ttl          time.Duration
	now          func() time.Time
}

var _ app.GithubClient = &CachedClient{}

// NewCachedClient creates new CachedClient instance.
func NewCachedClient(client app.GithubClient, size int, ttl time.Duration) (*CachedClient, error) {
	if size <= 0 {
		return nil, errors.New("cache size must be greater than 0")
	}
	detailsCache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("creating lru cache for repository details: %w", err)
	}

	return &CachedClient{
		client:       client,
		detailsCache: detailsCache,
		ttl:          ttl,
		now:          time.Now,
	}, nil
}

// RepositoryDetails returns repository summary, from cache if entry is younger than ttl.
func (c *CachedClient) RepositoryDetails(ctx context.Context, owner string, repo string) (app.RepositorySummary, error) {
	key := c.detailsCacheKey(owner, repo)
	val, ok := c.detailsCache.Get(key)
	if ok {
		entry := val.(detailsCacheEntry)
		if entry.created.Add(c.ttl).After(c.now()) {
			return entry.data, nil
		}
	}

	summary, err := c.client.RepositoryDetails(ctx, owner, repo)
	if err != nil {
		return summary, err
	}

	c.detailsCache.Add(key, detailsCacheEntry{
		created: c.now(),
		data:    summary,
	})

	return summary, nil
}

func (c *CachedClient) detailsCacheKey(owner string, repo string) string {
	return owner + "/" + repo
}

type detailsCacheEntry struct {
	created time.Time
	data    app.RepositorySummary
}
