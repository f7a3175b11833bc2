package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"nhl-fan-insights/domain/dto"
	"nhl-fan-insights/domain/model"
	"nhl-fan-insights/domain/repository"
)

const (
	DefaultRedditLimit = 50
	MaxRedditLimit     = 200
)

type IRedditUsecase interface {
	GetGameDiscussion(ctx context.Context, awayTeam, homeTeam, gameDate string, limit int) (*dto.RedditGameDiscussion, error)
}

type redditUsecase struct {
	reddit repository.IReddit
}

func NewRedditUsecase(reddit repository.IReddit) IRedditUsecase {
	return &redditUsecase{reddit: reddit}
}

func (u *redditUsecase) GetGameDiscussion(ctx context.Context, awayTeam, homeTeam, gameDate string, limit int) (*dto.RedditGameDiscussion, error) {
	if strings.TrimSpace(awayTeam) == "" || strings.TrimSpace(homeTeam) == "" {
		return nil, fmt.Errorf("away_team and home_team are required: %w", model.ErrInvalidInput)
	}
	if limit < 1 || limit > MaxRedditLimit {
		return nil, fmt.Errorf("limit must be between 1 and %d: %w", MaxRedditLimit, model.ErrInvalidInput)
	}
	date, err := parseISODate(gameDate)
	if err != nil {
		return nil, fmt.Errorf("invalid date format, use ISO format (YYYY-MM-DD): %w", model.ErrInvalidInput)
	}
	if u.reddit == nil {
		return nil, fmt.Errorf("reddit: %w", model.ErrNotConfigured)
	}
	return u.reddit.GetGameDiscussion(ctx, strings.ToUpper(awayTeam), strings.ToUpper(homeTeam), date, limit)
}

func parseISODate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", v)
}
