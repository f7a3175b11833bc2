package claude

import (
	"fmt"
	"strings"

	"nhl-fan-insights/domain/dto"
	"nhl-fan-insights/domain/model"
)

// BuildPrompt renders the journalist prompt for one game.
func BuildPrompt(teamName string, req dto.RecapRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a sports journalist writing a compelling game recap for %s fans.\n\n", teamName)
	b.WriteString("**GAME DETAILS:**\n")
	fmt.Fprintf(&b, "- Teams: %s @ %s\n", req.AwayTeam, req.HomeTeam)
	fmt.Fprintf(&b, "- Final Score: %d - %d\n", req.AwayScore, req.HomeScore)
	date := "Recent game"
	if !req.GameDate.IsZero() {
		date = req.GameDate.Format("January 02, 2006")
	}
	fmt.Fprintf(&b, "- Date: %s\n\n", date)

	b.WriteString("**GOALS:**\n")
	b.WriteString(formatGoals(req.Goals))
	b.WriteString("\n\n**TOP PERFORMERS:**\n")
	b.WriteString(formatPerformers(req.TopPerformers))
	b.WriteString("\n\n**FAN SENTIMENT:**\n")
	if req.Sentiment != "" {
		b.WriteString(req.Sentiment)
	} else {
		b.WriteString("Not available")
	}
	b.WriteString("\n\n**STANDINGS:**\n")
	b.WriteString(formatStandings(req.Standings))
	if req.NextOpponent != "" {
		b.WriteString("\n\n**NEXT GAME:**\n")
		fmt.Fprintf(&b, "vs %s", req.NextOpponent)
		if req.NextGameDate != nil {
			fmt.Fprintf(&b, " on %s", req.NextGameDate.Format("January 02, 2006"))
		}
	}
	b.WriteString(`

**TASK:**
Generate a magazine-style game recap with:

1. **summary_line**: A single compelling sentence that captures the key moment or narrative (max 100 chars)
2. **recap_text**: A 3-4 paragraph recap (250-350 words) that starts with the outcome, details turning
   points, highlights standout performances, includes fan perspective when available, and ends with
   forward-looking context such as standings and momentum
3. **next_game_storyline**: One sentence preview for the next game (null if no next opponent)

**OUTPUT FORMAT:**
Return a JSON object with these three keys.`)
	return b.String()
}

func formatGoals(goals []model.Goal) string {
	if len(goals) == 0 {
		return "No goals scored"
	}
	lines := make([]string, 0, len(goals))
	for i, g := range goals {
		strength := strings.ToUpper(g.Strength)
		if strength == "" {
			strength = "EV"
		}
		line := fmt.Sprintf("%d. Period %d, %s - %s (%s) [%s]", i+1, g.Period, g.Time, g.Scorer, g.Team, strength)
		if len(g.Assists) > 0 {
			line += fmt.Sprintf(" (Assists: %s)", strings.Join(g.Assists, ", "))
		}
		if g.IsEmptyNet {
			line += " [EN]"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func formatPerformers(performers []model.Performer) string {
	if len(performers) == 0 {
		return "No standout performances"
	}
	if len(performers) > 5 {
		performers = performers[:5]
	}
	lines := make([]string, 0, len(performers))
	for _, p := range performers {
		var stats []string
		if p.Goals > 0 {
			stats = append(stats, fmt.Sprintf("%dG", p.Goals))
		}
		if p.Assists > 0 {
			stats = append(stats, fmt.Sprintf("%dA", p.Assists))
		}
		if p.Saves > 0 {
			stats = append(stats, fmt.Sprintf("%d saves", p.Saves))
		}
		position := p.Position
		if position == "" {
			position = "F"
		}
		lines = append(lines, fmt.Sprintf("- %s (%s): %s", p.Name, position, strings.Join(stats, ", ")))
	}
	return strings.Join(lines, "\n")
}

func formatStandings(s *model.StandingsSnapshot) string {
	if s == nil || s.Team == nil {
		return "Not available"
	}
	t := s.Team
	return fmt.Sprintf("%s sit %s in the %s division with %d points (%d-%d-%d) through %d games",
		t.TeamName, ordinal(t.DivisionSequence), s.Division, t.Points, t.Wins, t.Losses, t.OTLosses, t.GamesPlayed)
}

func ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
