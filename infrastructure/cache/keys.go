package cache

import "fmt"

const (
	DefaultTTL = 300

	GamesPattern = "games:*"
)

func RecentGamesKey(limit int, team string) string {
	return fmt.Sprintf("games:recent:limit=%d:team=%s", limit, team)
}

func GameKey(gameID int64) string {
	return fmt.Sprintf("game:%d", gameID)
}

func StandingsKey(division string) string {
	return fmt.Sprintf("standings:%s", division)
}

func PlayerStatsKey(playerID int64) string {
	return fmt.Sprintf("player:%d:landing", playerID)
}
