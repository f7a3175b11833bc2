package nhl

import (
	"sort"

	"nhl-fan-insights/domain/dto"
	"nhl-fan-insights/domain/model"
)

func eachLine(box *dto.NHLBoxscore, fn func(team string, line dto.NHLSkaterLine, goalie bool)) {
	sides := []struct {
		abbrev string
		stats  dto.NHLTeamPlayerStats
	}{
		{box.AwayTeam.Abbrev, box.PlayerByGameStats.AwayTeam},
		{box.HomeTeam.Abbrev, box.PlayerByGameStats.HomeTeam},
	}
	for _, side := range sides {
		for _, l := range side.stats.Forwards {
			fn(side.abbrev, l, false)
		}
		for _, l := range side.stats.Defense {
			fn(side.abbrev, l, false)
		}
		for _, l := range side.stats.Goalies {
			fn(side.abbrev, l, true)
		}
	}
}

// Scorers lists every player with at least one goal, away side first.
func Scorers(box *dto.NHLBoxscore) []string {
	scorers := make([]string, 0)
	eachLine(box, func(_ string, line dto.NHLSkaterLine, _ bool) {
		if line.Goals > 0 && line.Name.Default != "" {
			scorers = append(scorers, line.Name.Default)
		}
	})
	return scorers
}

// TopPerformers returns up to three skaters by points then goals, plus the goalie with the most saves.
func TopPerformers(box *dto.NHLBoxscore) []model.Performer {
	var (
		skaters []model.Performer
		goalie  *model.Performer
	)
	eachLine(box, func(team string, line dto.NHLSkaterLine, isGoalie bool) {
		p := model.Performer{
			PlayerID: line.PlayerID,
			Name:     line.Name.Default,
			Team:     team,
			Position: line.Position,
			Goals:    line.Goals,
			Assists:  line.Assists,
			Points:   line.Points,
			Saves:    line.Saves,
		}
		if p.Points == 0 {
			p.Points = p.Goals + p.Assists
		}
		if isGoalie {
			if goalie == nil || p.Saves > goalie.Saves {
				goalie = &p
			}
			return
		}
		if p.Points > 0 {
			skaters = append(skaters, p)
		}
	})
	sort.SliceStable(skaters, func(i, j int) bool {
		if skaters[i].Points != skaters[j].Points {
			return skaters[i].Points > skaters[j].Points
		}
		return skaters[i].Goals > skaters[j].Goals
	})
	if len(skaters) > 3 {
		skaters = skaters[:3]
	}
	if goalie != nil && goalie.Saves > 0 {
		skaters = append(skaters, *goalie)
	}
	return skaters
}

// Goals extracts scoring plays in game order.
func Goals(pbp *dto.NHLPlayByPlay) []model.Goal {
	goals := make([]model.Goal, 0)
	for _, play := range pbp.Plays {
		if play.TypeDescKey != "goal" {
			continue
		}
		d := play.Details
		assists := make([]string, 0, 2)
		for _, a := range []string{d.Assist1PlayerName, d.Assist2PlayerName} {
			if a != "" {
				assists = append(assists, a)
			}
		}
		goals = append(goals, model.Goal{
			Period:     play.PeriodDescriptor.Number,
			Time:       play.TimeInPeriod,
			Scorer:     d.ScoringPlayerName,
			ScorerID:   d.ScoringPlayerID,
			Assists:    assists,
			Team:       play.TeamAbbrev,
			Strength:   d.Strength,
			IsEmptyNet: d.EmptyNet,
		})
	}
	return goals
}

// Recap is the compact boxscore view served by the recap endpoint.
func Recap(box *dto.NHLBoxscore, gameID int64) dto.BoxscoreRecap {
	return dto.BoxscoreRecap{
		GameID:    gameID,
		AwayTeam:  box.AwayTeam.CommonName.Default,
		HomeTeam:  box.HomeTeam.CommonName.Default,
		AwayScore: box.AwayTeam.Score,
		HomeScore: box.HomeTeam.Score,
		Scorers:   Scorers(box),
	}
}
