package usecase

import (
	"context"

	"nhl-fan-insights/domain/repository"
	"nhl-fan-insights/infrastructure/cache"
)

// invalidateGame drops the detail entry and every games list.
func invalidateGame(ctx context.Context, c repository.ICache, gameID int64) {
	if c == nil {
		return
	}
	c.Invalidate(ctx, cache.GameKey(gameID))
	c.InvalidatePattern(ctx, cache.GamesPattern)
}
