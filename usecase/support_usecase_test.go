package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"nhl-fan-insights/domain/dto"
	"nhl-fan-insights/domain/model"
	"nhl-fan-insights/usecase"
)

func pacificStandings() *dto.NHLStandings {
	row := func(abbrev string, seq, pts int) dto.NHLStandingsRow {
		return dto.NHLStandingsRow{DivisionName: "Pacific", DivisionSequence: seq, TeamAbbrev: dto.LocalizedName{Default: abbrev}, Points: pts}
	}
	return &dto.NHLStandings{Standings: []dto.NHLStandingsRow{
		row("SJS", 8, 30),
		{DivisionName: "Central", DivisionSequence: 1, TeamAbbrev: dto.LocalizedName{Default: "WPG"}},
		row("VGK", 1, 60),
		row("LAK", 2, 55),
	}}
}

func TestStandings_RefreshFiltersDivision(t *testing.T) {
	nhl := new(MockNHL)
	nhl.On("FetchStandings", mock.Anything).Return(pacificStandings(), nil)
	uc := usecase.NewStandingsUsecase(nhl, newMemCache(), nil, "SJS", "Pacific")

	snap, err := uc.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Rows, 3)
	assert.Equal(t, "VGK", snap.Rows[0].TeamAbbrev)
	require.NotNil(t, snap.Team)
	assert.Equal(t, 8, snap.Team.DivisionSequence)
}

func TestStandings_SnapshotUsesCache(t *testing.T) {
	nhl := new(MockNHL)
	nhl.On("FetchStandings", mock.Anything).Return(pacificStandings(), nil).Once()
	uc := usecase.NewStandingsUsecase(nhl, newMemCache(), nil, "SJS", "Pacific")

	_, err := uc.Snapshot(context.Background())
	require.NoError(t, err)
	snap, err := uc.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Pacific", snap.Division)
	nhl.AssertNumberOfCalls(t, "FetchStandings", 1)
}

func TestStandings_SnapshotWithoutCacheKeepsLatest(t *testing.T) {
	nhl := new(MockNHL)
	nhl.On("FetchStandings", mock.Anything).Return(pacificStandings(), nil)
	clock := clockwork.NewFakeClock()
	uc := usecase.NewStandingsUsecase(nhl, nil, clock, "SJS", "Pacific")

	_, err := uc.Snapshot(context.Background())
	require.NoError(t, err)
	_, err = uc.Snapshot(context.Background())
	require.NoError(t, err)
	nhl.AssertNumberOfCalls(t, "FetchStandings", 1)

	clock.Advance(25 * time.Hour)
	_, err = uc.Snapshot(context.Background())
	require.NoError(t, err)
	nhl.AssertNumberOfCalls(t, "FetchStandings", 2)
}

func TestStandings_UnknownDivision(t *testing.T) {
	nhl := new(MockNHL)
	nhl.On("FetchStandings", mock.Anything).Return(pacificStandings(), nil)
	uc := usecase.NewStandingsUsecase(nhl, nil, nil, "SJS", "Atlantic")

	_, err := uc.Refresh(context.Background())
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestProspects_Filter(t *testing.T) {
	uc := usecase.NewProspectUsecase()
	ctx := context.Background()

	assert.Len(t, uc.List(ctx, "", nil), 6)
	centers := uc.List(ctx, "c", nil)
	assert.Len(t, centers, 3)
	year := 2022
	assert.Len(t, uc.List(ctx, "", &year), 2)
	assert.Len(t, uc.List(ctx, "C", &year), 1)
	assert.Empty(t, uc.List(ctx, "G", nil))
}

func TestProspects_Search(t *testing.T) {
	uc := usecase.NewProspectUsecase()

	found := uc.Search(context.Background(), "musty")
	assert.Equal(t, "Quentin Musty", found.Name)

	missing := uc.Search(context.Background(), "Will Smith")
	assert.Equal(t, "Unknown", missing.Position)
	assert.Equal(t, "https://www.eliteprospects.com/search/player?q=Will+Smith", missing.EliteProspects)
}

func TestReddit_Validation(t *testing.T) {
	reddit := new(MockReddit)
	uc := usecase.NewRedditUsecase(reddit)
	ctx := context.Background()

	tests := []struct {
		name             string
		away, home, date string
		limit            int
	}{
		{name: "missing team", away: "", home: "SJS", date: "2025-01-17", limit: 50},
		{name: "limit too high", away: "LAK", home: "SJS", date: "2025-01-17", limit: 201},
		{name: "limit zero", away: "LAK", home: "SJS", date: "2025-01-17", limit: 0},
		{name: "bad date", away: "LAK", home: "SJS", date: "01/17/2025", limit: 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.GetGameDiscussion(ctx, tt.away, tt.home, tt.date, tt.limit)
			assert.ErrorIs(t, err, model.ErrInvalidInput)
		})
	}
	reddit.AssertNotCalled(t, "GetGameDiscussion", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReddit_NormalizesTeams(t *testing.T) {
	reddit := new(MockReddit)
	want := &dto.RedditGameDiscussion{}
	reddit.On("GetGameDiscussion", mock.Anything, "LAK", "SJS", time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC), 25).Return(want, nil)
	uc := usecase.NewRedditUsecase(reddit)

	got, err := uc.GetGameDiscussion(context.Background(), "lak", "sjs", "2025-01-17", 25)
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestReddit_NotConfigured(t *testing.T) {
	uc := usecase.NewRedditUsecase(nil)
	_, err := uc.GetGameDiscussion(context.Background(), "LAK", "SJS", "2025-01-17", 25)
	assert.ErrorIs(t, err, model.ErrNotConfigured)
}

type MockJobRunner struct {
	mock.Mock
}

func (m *MockJobRunner) Jobs() []dto.ScheduledJob {
	args := m.Called()
	jobs, _ := args.Get(0).([]dto.ScheduledJob)
	return jobs
}

func (m *MockJobRunner) RunNow(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func TestJobs_Run(t *testing.T) {
	runner := new(MockJobRunner)
	runner.On("RunNow", mock.Anything, usecase.JobRosterSync).Return(nil)
	uc := usecase.NewJobUsecase(runner)

	require.NoError(t, uc.Run(context.Background(), usecase.JobRosterSync))
	assert.ErrorIs(t, uc.Run(context.Background(), "game:1:archive"), model.ErrNotFound)
	runner.AssertNumberOfCalls(t, "RunNow", 1)
}

func TestJobs_WithoutScheduler(t *testing.T) {
	uc := usecase.NewJobUsecase(nil)
	assert.Empty(t, uc.List())
	assert.ErrorIs(t, uc.Run(context.Background(), usecase.JobStandings), model.ErrNotConfigured)
}

type MockUser struct {
	mock.Mock
}

func (m *MockUser) GetByClerkID(ctx context.Context, clerkID string) (*model.User, error) {
	args := m.Called(ctx, clerkID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUser) Upsert(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	if fn, ok := args.Get(1).(func(*model.User)); ok {
		fn(user)
	}
	return args.Error(0)
}

func TestUser_SyncPromotesAdminRole(t *testing.T) {
	users := new(MockUser)
	users.On("Upsert", mock.Anything, mock.Anything).Return(nil, func(u *model.User) { u.Role = model.UserRoleAdmin })
	uc := usecase.NewUserUsecase(users)
	email := "fan@example.com"
	identity := &model.Identity{UserID: "user_1", Username: "Teal Fan", Email: &email}

	user, err := uc.Sync(context.Background(), identity)
	require.NoError(t, err)
	assert.Equal(t, "fan@example.com", user.Email)
	assert.Equal(t, "Teal", *user.FirstName)
	assert.True(t, identity.IsAdmin)
}

func TestUser_SyncRejectsBanned(t *testing.T) {
	users := new(MockUser)
	users.On("Upsert", mock.Anything, mock.Anything).Return(nil, func(u *model.User) { u.IsBanned = true })
	uc := usecase.NewUserUsecase(users)

	_, err := uc.Sync(context.Background(), &model.Identity{UserID: "user_2"})
	assert.ErrorIs(t, err, model.ErrForbidden)
}

func TestRecap_GetStoresUnknownGame(t *testing.T) {
	games := newMemGames()
	nhl := new(MockNHL)
	box, raw := sampleBoxscore()
	box.GameState = "OFF"
	box.StartTimeUTC = testKickoff.Format(time.RFC3339)
	box.AwayTeam.CommonName.Default = "Kings"
	box.HomeTeam.CommonName.Default = "Sharks"
	nhl.On("FetchBoxscore", mock.Anything, testGameID).Return(box, raw, nil).Once()
	uc := usecase.NewRecapUsecase(games, nhl, newMemCache(), nil)

	recap, err := uc.Get(context.Background(), testGameID)
	require.NoError(t, err)
	assert.Equal(t, "Sharks", recap.HomeTeam)
	assert.Equal(t, 4, recap.HomeScore)

	stored := games.get(testGameID)
	assert.Equal(t, model.GameStatusOff, stored.Status)
	assert.True(t, stored.BasicStatsFetched)
	assert.Equal(t, testKickoff, stored.GameDateUTC)

	again, err := uc.Get(context.Background(), testGameID)
	require.NoError(t, err)
	assert.Equal(t, "SJS", again.HomeTeam)
	nhl.AssertNumberOfCalls(t, "FetchBoxscore", 1)

	all, err := uc.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRecap_UpstreamError(t *testing.T) {
	nhl := new(MockNHL)
	nhl.On("FetchBoxscore", mock.Anything, int64(9)).Return(nil, nil, model.ErrUpstream)
	uc := usecase.NewRecapUsecase(newMemGames(), nhl, nil, nil)

	_, err := uc.Get(context.Background(), 9)
	assert.ErrorIs(t, err, model.ErrUpstream)
}

type pingGames struct {
	*memGames
	err error
}

func (p pingGames) Ping(context.Context) error { return p.err }

func TestMonitoring_DetailedHealth(t *testing.T) {
	healthy := usecase.NewMonitoringUsecase(pingGames{memGames: newMemGames()}, newMemCache(), nil)
	h := healthy.DetailedHealth(context.Background())
	assert.Equal(t, "healthy", h.Status)
	assert.Equal(t, "healthy", h.Components["database"].Status)

	noCache := usecase.NewMonitoringUsecase(pingGames{memGames: newMemGames()}, nil, nil)
	h = noCache.DetailedHealth(context.Background())
	assert.Equal(t, "healthy", h.Status)
	assert.Equal(t, "disabled", h.Components["cache"].Status)

	down := usecase.NewMonitoringUsecase(pingGames{memGames: newMemGames(), err: errors.New("connection refused")}, nil, nil)
	h = down.DetailedHealth(context.Background())
	assert.Equal(t, "unhealthy", h.Status)
	assert.Equal(t, "connection refused", h.Components["database"].Message)
	assert.Error(t, down.Ready(context.Background()))
}

func TestMonitoring_MetricsIdentifyService(t *testing.T) {
	uc := usecase.NewMonitoringUsecase(newMemGames(), newMemCache(), nil)
	m := uc.Metrics(context.Background())
	assert.Equal(t, usecase.ServiceName, m.Service)
	assert.True(t, m.Cache.Enabled)
	assert.Positive(t, m.System.Goroutines)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"hit_rate_percent"`)
}
