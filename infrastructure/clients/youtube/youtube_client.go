package youtube

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"nhl-fan-insights/domain/dto"
	"nhl-fan-insights/domain/model"
	"nhl-fan-insights/domain/repository"
	"nhl-fan-insights/infrastructure/logger"
	"nhl-fan-insights/infrastructure/resilience"
)

const DefaultOfficialChannelID = "UCqFMzb-4AUf6WAIbl132QKA"

// Client searches YouTube for game highlights.
type Client struct {
	service           *youtube.Service
	officialChannelID string
	teamName          string
	seasonLabel       string
	limiter           *rate.Limiter
	breaker           *resilience.Breaker
}

// Config represents YouTube API configuration
type Config struct {
	ClientID          string `json:"client_id"`
	ClientSecret      string `json:"client_secret"`
	RedirectURL       string `json:"redirect_url"`
	AccessToken       string `json:"access_token"`
	RefreshToken      string `json:"refresh_token"`
	APIKey            string `json:"api_key"`
	OfficialChannelID string `json:"official_channel_id"`
	TeamName          string `json:"team_name"`
	SeasonLabel       string `json:"season_label"`
	RequestsPerSecond int    `json:"requests_per_second"`
}

// NewYouTubeClient creates a client in API-key mode when no OAuth tokens are present.
func NewYouTubeClient(ctx context.Context, config *Config) (*Client, error) {
	if (config.AccessToken == "" || config.RefreshToken == "") && config.APIKey != "" {
		service, err := youtube.NewService(ctx, option.WithAPIKey(config.APIKey))
		if err != nil {
			return nil, fmt.Errorf("failed to create YouTube service with API key: %w", err)
		}
		return NewWithService(service, config), nil
	}

	oauth2Config := &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		RedirectURL:  config.RedirectURL,
		Scopes:       []string{youtube.YoutubeReadonlyScope},
		Endpoint:     google.Endpoint,
	}
	token := &oauth2.Token{
		AccessToken:  config.AccessToken,
		RefreshToken: config.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(-1 * time.Minute), // Force refresh on first use
	}
	service, err := youtube.NewService(ctx, option.WithHTTPClient(oauth2Config.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return NewWithService(service, config), nil
}

// NewWithService wraps an already built service.
func NewWithService(service *youtube.Service, config *Config) *Client {
	channel := config.OfficialChannelID
	if channel == "" {
		channel = DefaultOfficialChannelID
	}
	team := config.TeamName
	if team == "" {
		team = "San Jose Sharks"
	}
	return &Client{
		service:           service,
		officialChannelID: channel,
		teamName:          team,
		seasonLabel:       config.SeasonLabel,
		limiter:           resilience.NewLimiter(config.RequestsPerSecond),
		breaker:           resilience.NewBreaker("youtube", time.Minute),
	}
}

func highlightQuery(away, home string, date time.Time) string {
	return fmt.Sprintf("%s vs %s highlights %s", away, home, date.Format("January 02 2006"))
}

// FanRecapQuery builds the season review query, falling back to a date query without a game number.
func (c *Client) FanRecapQuery(gameNumber int, date time.Time) string {
	if gameNumber > 0 {
		return fmt.Sprintf("%s %s Regular Season Review Game %d", c.teamName, c.seasonLabel, gameNumber)
	}
	return fmt.Sprintf("%s %s professor hockey", c.teamName, date.Format("January 02 2006"))
}

type searchParams struct {
	query     string
	channelID string
	order     string
	max       int64
	after     time.Time
}

func (c *Client) search(ctx context.Context, p searchParams) ([]dto.YouTubeVideo, error) {
	if err := resilience.Wait(ctx, c.limiter); err != nil {
		return nil, err
	}
	return resilience.Execute(c.breaker, func() ([]dto.YouTubeVideo, error) {
		call := c.service.Search.List([]string{"id", "snippet"}).
			Q(p.query).
			Type("video").
			Order(p.order).
			MaxResults(p.max).
			PublishedAfter(p.after.UTC().Format(time.RFC3339)).
			Context(ctx)
		if p.channelID != "" {
			call = call.ChannelId(p.channelID)
		}
		response, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("youtube search %q: %w: %v", p.query, model.ErrUpstream, err)
		}
		videos := make([]dto.YouTubeVideo, 0, len(response.Items))
		for _, item := range response.Items {
			if item.Id == nil || item.Id.VideoId == "" {
				continue
			}
			videos = append(videos, fromSearchResult(item))
		}
		return videos, nil
	})
}

// SearchGameHighlights runs the official, fan recap and overflow searches. A failed sub-search is
// logged and leaves its slot empty.
func (c *Client) SearchGameHighlights(ctx context.Context, req dto.HighlightSearchRequest) (*dto.HighlightSearchResult, error) {
	result := &dto.HighlightSearchResult{Other: []dto.YouTubeVideo{}}
	query := highlightQuery(req.AwayTeam, req.HomeTeam, req.GameDate)
	log := logger.GetLogger().WithField("query", query)

	official, err := c.search(ctx, searchParams{query: query, channelID: c.officialChannelID, order: "date", max: 1, after: req.GameDate})
	if err != nil {
		log.WithField("error", err).Warn("Official highlight search failed")
	} else if len(official) > 0 {
		result.NHLOfficial = &official[0]
	}

	fan, err := c.search(ctx, searchParams{query: c.FanRecapQuery(req.GameNumber, req.GameDate), order: "relevance", max: 3, after: req.GameDate})
	if err != nil {
		log.WithField("error", err).Warn("Fan recap search failed")
	}
	for i := range fan {
		if strings.Contains(strings.ToLower(fan[i].ChannelName), "professor") &&
			strings.Contains(strings.ToLower(fan[i].Title), "sharks") {
			result.ProfessorHockey = &fan[i]
			break
		}
	}

	limit := req.MaxResults
	if limit <= 0 {
		limit = 5
	}
	others, err := c.search(ctx, searchParams{query: query, order: "relevance", max: limit, after: req.GameDate})
	if err != nil {
		log.WithField("error", err).Warn("Other highlight search failed")
	}
	for _, v := range others {
		if (result.NHLOfficial != nil && v.YouTubeID == result.NHLOfficial.YouTubeID) ||
			(result.ProfessorHockey != nil && v.YouTubeID == result.ProfessorHockey.YouTubeID) {
			continue
		}
		result.Other = append(result.Other, v)
	}
	return result, nil
}

func (c *Client) SearchGoalClip(ctx context.Context, req dto.GoalClipRequest) ([]dto.YouTubeVideo, error) {
	limit := req.MaxResults
	if limit <= 0 {
		limit = 3
	}
	query := fmt.Sprintf("%s goal %s %s", req.ScorerName, req.TeamName, req.GameDate.Format("January 02 2006"))
	return c.search(ctx, searchParams{query: query, order: "relevance", max: limit, after: req.GameDate})
}

func thumbnail(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, th := range []*youtube.Thumbnail{t.High, t.Medium, t.Default} {
		if th != nil && th.Url != "" {
			return th.Url
		}
	}
	return ""
}

func publishedAt(value string) *time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}

func fromSearchResult(item *youtube.SearchResult) dto.YouTubeVideo {
	v := dto.YouTubeVideo{YouTubeID: item.Id.VideoId}
	if s := item.Snippet; s != nil {
		v.Title = s.Title
		v.Description = s.Description
		v.ChannelName = s.ChannelTitle
		v.ChannelID = s.ChannelId
		v.ThumbnailURL = thumbnail(s.Thumbnails)
		v.PublishedAt = publishedAt(s.PublishedAt)
	}
	return v
}

var _ repository.IHighlightSearch = (*Client)(nil)
