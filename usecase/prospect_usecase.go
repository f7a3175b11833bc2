package usecase

import (
	"context"
	"net/url"
	"strings"

	"nhl-fan-insights/domain/model"
)

type IProspectUsecase interface {
	List(ctx context.Context, position string, draftYear *int) []model.Prospect
	// Search returns the first prospect whose name contains the query, or an Elite Prospects
	// search link when none does.
	Search(ctx context.Context, name string) model.Prospect
}

func intPtr(v int) *int { return &v }

var sharksProspects = []model.Prospect{
	{
		Name:           "Quentin Musty",
		Position:       "LW",
		DraftYear:      intPtr(2023),
		EliteProspects: "https://www.eliteprospects.com/player/586930/quentin-musty",
		Description:    "2023 1st round pick (26th overall). Dynamic winger with scoring ability.",
	},
	{
		Name:           "Kasper Halttunen",
		Position:       "RW",
		DraftYear:      intPtr(2022),
		EliteProspects: "https://www.eliteprospects.com/player/534856/kasper-halttunen",
		Description:    "2022 2nd round pick (52nd overall). Finnish sharpshooter.",
	},
	{
		Name:           "David Edstrom",
		Position:       "C",
		DraftYear:      intPtr(2023),
		EliteProspects: "https://www.eliteprospects.com/player/623249/david-edstrom",
		Description:    "2023 2nd round pick (32nd overall). Two-way center from Sweden.",
	},
	{
		Name:           "Filip Bystedt",
		Position:       "C",
		DraftYear:      intPtr(2022),
		EliteProspects: "https://www.eliteprospects.com/player/534859/filip-bystedt",
		Description:    "2022 2nd round pick (34th overall). Skilled Swedish center.",
	},
	{
		Name:           "Luca Cagnoni",
		Position:       "D",
		DraftYear:      intPtr(2023),
		EliteProspects: "https://www.eliteprospects.com/player/586924/luca-cagnoni",
		Description:    "2023 4th round pick (118th overall). Offensive defenseman.",
	},
	{
		Name:           "Brandon Svoboda",
		Position:       "C",
		DraftYear:      intPtr(2023),
		EliteProspects: "https://www.eliteprospects.com/player/586938/brandon-svoboda",
		Description:    "2023 5th round pick (139th overall). Two-way forward.",
	},
}

type prospectUsecase struct {
	prospects []model.Prospect
}

func NewProspectUsecase() IProspectUsecase {
	return &prospectUsecase{prospects: sharksProspects}
}

func (u *prospectUsecase) List(_ context.Context, position string, draftYear *int) []model.Prospect {
	position = strings.ToUpper(strings.TrimSpace(position))
	out := make([]model.Prospect, 0, len(u.prospects))
	for _, p := range u.prospects {
		if position != "" && p.Position != position {
			continue
		}
		if draftYear != nil && (p.DraftYear == nil || *p.DraftYear != *draftYear) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (u *prospectUsecase) Search(_ context.Context, name string) model.Prospect {
	needle := strings.ToLower(name)
	for _, p := range u.prospects {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			return p
		}
	}
	return model.Prospect{
		Name:           name,
		Position:       "Unknown",
		EliteProspects: "https://www.eliteprospects.com/search/player?q=" + url.QueryEscape(name),
		Description:    "Search results on Elite Prospects",
	}
}
