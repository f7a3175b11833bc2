package claude

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"nhl-fan-insights/domain/dto"
	"nhl-fan-insights/domain/model"
	"nhl-fan-insights/domain/repository"
	"nhl-fan-insights/infrastructure/resilience"
)

const (
	DefaultBaseURL   = "https://api.anthropic.com"
	DefaultModel     = "claude-3-5-sonnet-20241022"
	anthropicVersion = "2023-06-01"
	maxSummaryLength = 200
)

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
	TeamName    string
}

// Client generates written recaps through the Anthropic Messages API.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *resilience.Breaker
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1500
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.TeamName == "" {
		cfg.TeamName = "San Jose Sharks"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    resilience.NewLimiter(1),
		breaker:    resilience.NewBreaker("claude", 2*time.Minute),
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	Messages    []message `json:"messages"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// GenerateRecap returns model.ErrNotConfigured without an API key.
func (c *Client) GenerateRecap(ctx context.Context, req dto.RecapRequest) (*dto.RecapResult, error) {
	if c.cfg.APIKey == "" {
		return nil, fmt.Errorf("claude: %w", model.ErrNotConfigured)
	}
	if err := resilience.Wait(ctx, c.limiter); err != nil {
		return nil, err
	}
	text, err := resilience.Execute(c.breaker, func() (string, error) {
		return c.complete(ctx, BuildPrompt(c.cfg.TeamName, req))
	})
	if err != nil {
		return nil, err
	}
	return ParseRecap(text)
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(messagesRequest{
		Model:       c.cfg.Model,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
		Messages:    []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.cfg.APIKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("claude: %w: %v", model.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("claude: status=%d body=%s: %w", resp.StatusCode, string(msg), model.ErrUpstream)
	}
	var out messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	for _, block := range out.Content {
		if block.Type == "text" || block.Type == "" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("claude: empty response: %w", model.ErrUpstream)
}

// ParseRecap decodes the JSON reply, which may be wrapped in a ```json or ``` fence.
func ParseRecap(text string) (*dto.RecapResult, error) {
	payload := strings.TrimSpace(text)
	if i := strings.Index(payload, "```json"); i >= 0 {
		payload = fenced(payload, i+len("```json"))
	} else if i := strings.Index(payload, "```"); i >= 0 {
		payload = fenced(payload, i+len("```"))
	}
	var result struct {
		SummaryLine       string  `json:"summary_line"`
		RecapText         string  `json:"recap_text"`
		NextGameStoryline *string `json:"next_game_storyline"`
	}
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("parsing recap json: %w", err)
	}
	summary := result.SummaryLine
	if r := []rune(summary); len(r) > maxSummaryLength {
		summary = string(r[:maxSummaryLength])
	}
	if result.NextGameStoryline != nil && strings.TrimSpace(*result.NextGameStoryline) == "" {
		result.NextGameStoryline = nil
	}
	return &dto.RecapResult{
		SummaryLine:       summary,
		RecapText:         result.RecapText,
		NextGameStoryline: result.NextGameStoryline,
	}, nil
}

func fenced(s string, start int) string {
	rest := s[start:]
	if end := strings.Index(rest, "```"); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}

var _ repository.IRecapGenerator = (*Client)(nil)
