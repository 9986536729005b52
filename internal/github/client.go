// Package github fetches pull requests and issue comments from the GitHub
// REST API. It is a thin collaborator: pagination, tokens, and politeness
// delays live here, never in the verdict engine.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/reez/ackamoto/internal/models"
)

// Client retrieves PR metadata and comments for one repository.
type Client interface {
	ListPullRequests(ctx context.Context) ([]models.PRMeta, error)
	ListComments(ctx context.Context, prNumber int) ([]models.RawComment, error)
}

const (
	defaultBaseURL = "https://api.github.com"
	userAgent      = "ackamoto-bot"
	perPage        = 100

	// DefaultMaxPages keeps a full scan well under the API rate limit:
	// 5 PR pages plus one comment fetch per PR.
	DefaultMaxPages = 5
)

// RESTClient implements Client against the GitHub REST v3 API.
type RESTClient struct {
	Repo     string // "owner/name"
	Token    string
	MaxPages int

	// BaseURL and PageDelay are overridable for tests.
	BaseURL   string
	PageDelay time.Duration

	HTTPClient *http.Client
}

// NewRESTClient returns a RESTClient for the given repo. An empty token is
// allowed; unauthenticated requests just hit lower rate limits.
func NewRESTClient(repo, token string) *RESTClient {
	return &RESTClient{
		Repo:       repo,
		Token:      token,
		MaxPages:   DefaultMaxPages,
		BaseURL:    defaultBaseURL,
		PageDelay:  500 * time.Millisecond,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type userJSON struct {
	Login   string `json:"login"`
	HTMLURL string `json:"html_url"`
}

type prJSON struct {
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	HTMLURL   string     `json:"html_url"`
	State     string     `json:"state"`
	MergedAt  *time.Time `json:"merged_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	User      userJSON   `json:"user"`
}

type commentJSON struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	HTMLURL   string    `json:"html_url"`
	CreatedAt time.Time `json:"created_at"`
	User      userJSON  `json:"user"`
}

func (c *RESTClient) get(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %s", url, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// ListPullRequests fetches up to MaxPages pages of PRs (all states, newest
// first), sleeping PageDelay between pages.
func (c *RESTClient) ListPullRequests(ctx context.Context) ([]models.PRMeta, error) {
	var all []models.PRMeta
	maxPages := c.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	for page := 1; page <= maxPages; page++ {
		url := fmt.Sprintf("%s/repos/%s/pulls?state=all&per_page=%d&page=%d", c.BaseURL, c.Repo, perPage, page)

		var prs []prJSON
		if err := c.get(ctx, url, &prs); err != nil {
			return nil, fmt.Errorf("fetch PRs page %d: %w", page, err)
		}
		if len(prs) == 0 {
			break
		}

		for _, pr := range prs {
			state := models.PRState(pr.State)
			if pr.MergedAt != nil {
				state = models.PRStateMerged
			}
			all = append(all, models.PRMeta{
				Number:    pr.Number,
				Title:     pr.Title,
				URL:       pr.HTMLURL,
				Author:    pr.User.Login,
				State:     state,
				UpdatedAt: pr.UpdatedAt,
			})
		}

		if len(prs) < perPage {
			break
		}
		if c.PageDelay > 0 && page < maxPages {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.PageDelay):
			}
		}
	}

	return all, nil
}

// ListComments fetches the issue comments for one PR.
func (c *RESTClient) ListComments(ctx context.Context, prNumber int) ([]models.RawComment, error) {
	url := fmt.Sprintf("%s/repos/%s/issues/%d/comments?per_page=%d", c.BaseURL, c.Repo, prNumber, perPage)

	var comments []commentJSON
	if err := c.get(ctx, url, &comments); err != nil {
		return nil, fmt.Errorf("fetch comments for PR %d: %w", prNumber, err)
	}

	out := make([]models.RawComment, 0, len(comments))
	for _, cm := range comments {
		out = append(out, models.RawComment{
			ID:        cm.ID,
			PRNumber:  prNumber,
			Author:    cm.User.Login,
			AuthorURL: cm.User.HTMLURL,
			Body:      cm.Body,
			URL:       cm.HTMLURL,
			CreatedAt: cm.CreatedAt,
		})
	}
	return out, nil
}

// ScanLimit returns how many PRs a scan should process: 250 with a token,
// 50 without, unless an explicit override is configured.
func ScanLimit(override int, hasToken bool) int {
	if override > 0 {
		return override
	}
	if hasToken {
		return 250
	}
	return 50
}
