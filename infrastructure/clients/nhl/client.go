package nhl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"nhl-fan-insights/domain/dto"
	"nhl-fan-insights/domain/model"
	"nhl-fan-insights/domain/repository"
	"nhl-fan-insights/infrastructure/resilience"
)

const DefaultBaseURL = "https://api-web.nhle.com"

// Client reads the public NHL web API.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	breaker    *resilience.Breaker
}

type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    resilience.NewBreaker("nhl", 30*time.Second),
	}
}

// Season returns the season id containing date, e.g. "20242025". Seasons start in October.
func Season(date time.Time) string {
	year := date.Year()
	if date.Month() < time.October {
		year--
	}
	return fmt.Sprintf("%d%d", year, year+1)
}

// FetchTeamSchedule returns the team's games of the season containing from, dated on or after from.
func (c *Client) FetchTeamSchedule(ctx context.Context, team string, from time.Time) ([]dto.NHLScheduleGame, error) {
	var schedule dto.NHLSchedule
	path := fmt.Sprintf("/v1/club-schedule-season/%s/%s", team, Season(from))
	if _, err := c.getJSON(ctx, path, &schedule); err != nil {
		return nil, err
	}
	day := from.Format("2006-01-02")
	games := make([]dto.NHLScheduleGame, 0, len(schedule.Games))
	for _, g := range schedule.Games {
		date, err := dto.ParseNHLDate(g.GameDate)
		if err != nil {
			continue
		}
		if date.Format("2006-01-02") >= day {
			games = append(games, g)
		}
	}
	return games, nil
}

func (c *Client) FetchBoxscore(ctx context.Context, gameID int64) (*dto.NHLBoxscore, json.RawMessage, error) {
	var box dto.NHLBoxscore
	raw, err := c.getJSON(ctx, fmt.Sprintf("/v1/gamecenter/%d/boxscore", gameID), &box)
	if err != nil {
		return nil, nil, err
	}
	return &box, raw, nil
}

func (c *Client) FetchPlayByPlay(ctx context.Context, gameID int64) (*dto.NHLPlayByPlay, error) {
	var pbp dto.NHLPlayByPlay
	if _, err := c.getJSON(ctx, fmt.Sprintf("/v1/gamecenter/%d/play-by-play", gameID), &pbp); err != nil {
		return nil, err
	}
	return &pbp, nil
}

func (c *Client) FetchRoster(ctx context.Context, team string) (*dto.NHLRoster, error) {
	var roster dto.NHLRoster
	if _, err := c.getJSON(ctx, fmt.Sprintf("/v1/roster/%s/current", team), &roster); err != nil {
		return nil, err
	}
	return &roster, nil
}

func (c *Client) FetchStandings(ctx context.Context) (*dto.NHLStandings, error) {
	var standings dto.NHLStandings
	if _, err := c.getJSON(ctx, "/v1/standings/now", &standings); err != nil {
		return nil, err
	}
	return &standings, nil
}

func (c *Client) FetchPlayerLanding(ctx context.Context, playerID int64) (json.RawMessage, error) {
	return c.getJSON(ctx, fmt.Sprintf("/v1/player/%d/landing", playerID), nil)
}

// getJSON fetches path, decodes into dest when non-nil and returns the body.
func (c *Client) getJSON(ctx context.Context, path string, dest interface{}) (json.RawMessage, error) {
	body, err := resilience.Execute(c.breaker, func() ([]byte, error) {
		return c.fetch(ctx, path)
	})
	if err != nil {
		return nil, err
	}
	if dest != nil {
		if err := json.Unmarshal(body, dest); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
	}
	return json.RawMessage(body), nil
}

func (c *Client) fetch(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nhl %s: %w: %v", path, model.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		upstreamErr := fmt.Errorf("nhl %s: status=%d: %w", path, resp.StatusCode, model.ErrUpstream)
		if resp.StatusCode == http.StatusNotFound {
			return nil, resilience.Permanent(fmt.Errorf("%w: %w", upstreamErr, model.ErrNotFound))
		}
		return nil, upstreamErr
	}
	return body, nil
}

var _ repository.INHL = (*Client)(nil)
