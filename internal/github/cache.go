package github

import (
	"context"
	"fmt"

	"github.com/reez/ackamoto/internal/models"
	"github.com/reez/ackamoto/internal/store"
)

// CachingClient wraps a Client with the raw-data cache. Successful fetches
// are upserted; fetch failures fall back to previously cached rows. Only
// raw PRs and comments are cached, never verdicts, so every run still
// recomputes review state from scratch.
type CachingClient struct {
	inner Client
	store store.Store
	repo  string

	// Offline skips the network entirely and serves from the cache.
	Offline bool
}

// NewCachingClient wraps inner with cache reads/writes for repo.
func NewCachingClient(inner Client, s store.Store, repo string) *CachingClient {
	return &CachingClient{inner: inner, store: s, repo: repo}
}

func (c *CachingClient) ListPullRequests(ctx context.Context) ([]models.PRMeta, error) {
	if c.Offline {
		prs, err := c.store.ListPullRequests(ctx, c.repo)
		if err != nil {
			return nil, err
		}
		if len(prs) == 0 {
			return nil, fmt.Errorf("no cached pull requests for %s (run a scan online first)", c.repo)
		}
		return prs, nil
	}

	prs, err := c.inner.ListPullRequests(ctx)
	if err != nil {
		// Fall back to the cache when the API is unavailable.
		if cached, cerr := c.store.ListPullRequests(ctx, c.repo); cerr == nil && len(cached) > 0 {
			return cached, nil
		}
		return nil, err
	}

	if err := c.store.UpsertPullRequests(ctx, c.repo, prs); err != nil {
		return nil, fmt.Errorf("cache pull requests: %w", err)
	}
	return prs, nil
}

func (c *CachingClient) ListComments(ctx context.Context, prNumber int) ([]models.RawComment, error) {
	if c.Offline {
		return c.store.ListComments(ctx, c.repo, prNumber)
	}

	comments, err := c.inner.ListComments(ctx, prNumber)
	if err != nil {
		if cached, cerr := c.store.ListComments(ctx, c.repo, prNumber); cerr == nil && len(cached) > 0 {
			return cached, nil
		}
		return nil, err
	}

	if err := c.store.UpsertComments(ctx, c.repo, comments); err != nil {
		return nil, fmt.Errorf("cache comments: %w", err)
	}
	return comments, nil
}
