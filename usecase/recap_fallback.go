package usecase

import (
	"fmt"
	"strings"

	"nhl-fan-insights/domain/dto"
)

// FallbackRecap builds the templated recap used when the generator is unavailable.
func FallbackRecap(req dto.RecapRequest) dto.RecapResult {
	winner, loser := req.AwayTeam, req.HomeTeam
	if req.HomeScore > req.AwayScore {
		winner, loser = req.HomeTeam, req.AwayTeam
	}
	high, low := req.HomeScore, req.AwayScore
	if low > high {
		high, low = low, high
	}

	var b strings.Builder
	fmt.Fprintf(&b, "The %s defeated the %s %d-%d. ", winner, loser, high, low)
	if len(req.Goals) > 0 {
		first := req.Goals[0]
		fmt.Fprintf(&b, "%s opened the scoring in the %s period. ", first.Scorer, periodName(first.Period))
	}
	if len(req.TopPerformers) > 0 {
		top := req.TopPerformers[0]
		switch {
		case top.Goals > 0:
			fmt.Fprintf(&b, "%s led the way with %d goals. ", top.Name, top.Goals)
		case top.Saves > 0:
			fmt.Fprintf(&b, "%s was solid in net with %d saves. ", top.Name, top.Saves)
		}
	}

	return dto.RecapResult{
		SummaryLine: fmt.Sprintf("%s defeats %s %d-%d", req.HomeTeam, req.AwayTeam, req.HomeScore, req.AwayScore),
		RecapText:   b.String(),
	}
}

func periodName(n int) string {
	switch n {
	case 1:
		return "1st"
	case 2:
		return "2nd"
	case 3:
		return "3rd"
	case 4:
		return "overtime"
	}
	if n > 4 {
		return fmt.Sprintf("%dOT", n-3)
	}
	return fmt.Sprintf("%d", n)
}
