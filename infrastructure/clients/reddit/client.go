package reddit

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/go-querystring/query"
	"golang.org/x/time/rate"

	"nhl-fan-insights/domain/dto"
	"nhl-fan-insights/domain/model"
	"nhl-fan-insights/domain/repository"
	"nhl-fan-insights/infrastructure/resilience"
)

const DefaultBaseURL = "https://www.reddit.com"

type Config struct {
	BaseURL   string
	UserAgent string
	Subreddit string
	Timeout   time.Duration
}

// Client reads game threads from the team subreddit via the public JSON endpoints.
type Client struct {
	baseURL    string
	userAgent  string
	subreddit  string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *resilience.Breaker
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "NHL-Fan-Insights/1.0"
	}
	if cfg.Subreddit == "" {
		cfg.Subreddit = "SanJoseSharks"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		subreddit:  cfg.Subreddit,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		// unauthenticated clients are held to roughly one request per second
		limiter: resilience.NewLimiter(1),
		breaker: resilience.NewBreaker("reddit", time.Minute),
	}
}

// IsGameThread reports whether title names a game thread involving either team.
func IsGameThread(title, awayTeam, homeTeam string) bool {
	t := strings.ToLower(title)
	if !strings.Contains(t, "game thread") && !strings.Contains(t, "gdt") {
		return false
	}
	return strings.Contains(t, strings.ToLower(awayTeam)) || strings.Contains(t, strings.ToLower(homeTeam))
}

// FindGameThread returns the first matching thread, or nil when none matches.
func (c *Client) FindGameThread(ctx context.Context, awayTeam, homeTeam string, gameDate time.Time) (*dto.RedditThing, error) {
	params := dto.RedditSearchParams{
		Query:      fmt.Sprintf("%s %s %s", awayTeam, homeTeam, gameDate.Format("01/02/2006")),
		RestrictSR: "on",
		Sort:       "relevance",
		Limit:      5,
	}
	var listing dto.RedditListing
	if err := c.get(ctx, fmt.Sprintf("/r/%s/search.json", c.subreddit), params, &listing); err != nil {
		return nil, err
	}
	for i := range listing.Data.Children {
		post := listing.Data.Children[i]
		if IsGameThread(post.Data.Title, awayTeam, homeTeam) {
			return &post, nil
		}
	}
	return nil, nil
}

// ThreadComments returns up to limit readable comments of a thread.
func (c *Client) ThreadComments(ctx context.Context, threadID string, limit int) ([]dto.RedditComment, error) {
	var listings []dto.RedditListing
	path := fmt.Sprintf("/r/%s/comments/%s.json", c.subreddit, threadID)
	if err := c.get(ctx, path, dto.RedditCommentParams{Sort: "top", Limit: limit}, &listings); err != nil {
		return nil, err
	}
	comments := make([]dto.RedditComment, 0)
	if len(listings) < 2 {
		return comments, nil
	}
	for _, child := range listings[1].Data.Children {
		d := child.Data
		if d.Body == nil {
			continue
		}
		switch body := strings.TrimSpace(*d.Body); body {
		case "", "[deleted]", "[removed]":
			continue
		}
		author := d.Author
		if author == "" {
			author = "Anonymous"
		}
		comments = append(comments, dto.RedditComment{
			Author:     author,
			Body:       *d.Body,
			Score:      d.Score,
			CreatedUTC: time.Unix(int64(d.CreatedUTC), 0).UTC(),
			Permalink:  DefaultBaseURL + d.Permalink,
		})
		if limit > 0 && len(comments) >= limit {
			break
		}
	}
	return comments, nil
}

// GetGameDiscussion wraps model.ErrNotFound when no game thread exists.
func (c *Client) GetGameDiscussion(ctx context.Context, awayTeam, homeTeam string, gameDate time.Time, limit int) (*dto.RedditGameDiscussion, error) {
	thread, err := c.FindGameThread(ctx, awayTeam, homeTeam, gameDate)
	if err != nil {
		return nil, err
	}
	if thread == nil {
		return nil, fmt.Errorf("reddit game thread %s @ %s: %w", awayTeam, homeTeam, model.ErrNotFound)
	}
	comments, err := c.ThreadComments(ctx, thread.Data.ID, limit)
	if err != nil {
		return nil, err
	}
	return &dto.RedditGameDiscussion{
		ThreadID:     thread.Data.ID,
		ThreadURL:    fmt.Sprintf("%s/r/%s/comments/%s", DefaultBaseURL, c.subreddit, thread.Data.ID),
		Comments:     comments,
		CommentCount: len(comments),
	}, nil
}

func (c *Client) get(ctx context.Context, path string, params interface{}, dest interface{}) error {
	values, err := query.Values(params)
	if err != nil {
		return fmt.Errorf("encoding query: %w", err)
	}
	if err := resilience.Wait(ctx, c.limiter); err != nil {
		return err
	}
	body, err := resilience.Execute(c.breaker, func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+values.Encode(), nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("reddit %s: %w: %v", path, model.ErrUpstream, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("reddit %s: status=%d: %w", path, resp.StatusCode, model.ErrUpstream)
		}
		return io.ReadAll(resp.Body)
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

var _ repository.IReddit = (*Client)(nil)
