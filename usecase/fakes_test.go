package usecase_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/mock"

	"nhl-fan-insights/domain/dto"
	"nhl-fan-insights/domain/model"
	"nhl-fan-insights/domain/repository"
)

// memGames is an in-memory IGame. Reads return deep copies so callers cannot alias stored rows.
type memGames struct {
	mu   sync.Mutex
	rows map[int64]model.Game
}

func newMemGames(games ...model.Game) *memGames {
	m := &memGames{rows: map[int64]model.Game{}}
	for _, g := range games {
		m.rows[g.GameID] = clone(g)
	}
	return m
}

func clone(g model.Game) model.Game {
	data, err := json.Marshal(g)
	if err != nil {
		panic(err)
	}
	var out model.Game
	if err := json.Unmarshal(data, &out); err != nil {
		panic(err)
	}
	return out
}

func (m *memGames) get(id int64) model.Game {
	m.mu.Lock()
	defer m.mu.Unlock()
	return clone(m.rows[id])
}

func (m *memGames) GetByID(_ context.Context, id int64) (*model.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.rows[id]
	if !ok {
		return nil, fmt.Errorf("game %d: %w", id, model.ErrNotFound)
	}
	c := clone(g)
	return &c, nil
}

func (m *memGames) Create(_ context.Context, g *model.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[g.GameID]; ok {
		return fmt.Errorf("game %d: %w", g.GameID, model.ErrAlreadyExists)
	}
	m.rows[g.GameID] = clone(*g)
	return nil
}

func (m *memGames) Save(_ context.Context, g *model.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[g.GameID]; !ok {
		return fmt.Errorf("game %d: %w", g.GameID, model.ErrNotFound)
	}
	m.rows[g.GameID] = clone(*g)
	return nil
}

func (m *memGames) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return fmt.Errorf("game %d: %w", id, model.ErrNotFound)
	}
	delete(m.rows, id)
	return nil
}

func (m *memGames) filter(keep func(g model.Game) bool) []model.Game {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Game
	for _, g := range m.rows {
		if keep(g) {
			out = append(out, clone(g))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GameDateUTC.Before(out[j].GameDateUTC) })
	return out
}

func hasStatus(s model.GameStatus, statuses []model.GameStatus) bool {
	for _, v := range statuses {
		if v == s {
			return true
		}
	}
	return false
}

func (m *memGames) ListRecent(_ context.Context, limit int, team string, statuses []model.GameStatus) ([]model.Game, error) {
	out := m.filter(func(g model.Game) bool {
		return hasStatus(g.Status, statuses) && (team == "" || g.Involves(team))
	})
	sort.Slice(out, func(i, j int) bool { return out[i].GameDateUTC.After(out[j].GameDateUTC) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memGames) ListWithStats(context.Context) ([]model.Game, error) {
	return m.filter(func(g model.Game) bool { return g.BasicStatsFetched }), nil
}

func (m *memGames) ListMissingVideos(_ context.Context, statuses []model.GameStatus) ([]model.Game, error) {
	return m.filter(func(g model.Game) bool { return !g.VideosFetched && hasStatus(g.Status, statuses) }), nil
}

func (m *memGames) CountTeamGamesThrough(_ context.Context, team string, kickoff time.Time, gameID int64) (int, error) {
	return len(m.filter(func(g model.Game) bool {
		return g.Involves(team) && (g.GameDateUTC.Before(kickoff) || (g.GameDateUTC.Equal(kickoff) && g.GameID <= gameID))
	})), nil
}

func (m *memGames) NextScheduled(_ context.Context, team string, after time.Time) (*model.Game, error) {
	out := m.filter(func(g model.Game) bool {
		return g.Status == model.GameStatusScheduled && g.Involves(team) && g.GameDateUTC.After(after)
	})
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

func (m *memGames) Stats(context.Context) (*dto.DatabaseStats, error) {
	all := m.filter(func(model.Game) bool { return true })
	return &dto.DatabaseStats{Games: dto.GameCounts{Total: int64(len(all))}}, nil
}

func (m *memGames) Ping(context.Context) error { return nil }

type memVideos struct {
	mu      sync.Mutex
	rows    map[int64][]model.Video
	nextID  int64
	creates int
}

func newMemVideos() *memVideos { return &memVideos{rows: map[int64][]model.Video{}} }

func (m *memVideos) Exists(_ context.Context, gameID int64, youtubeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.rows[gameID] {
		if v.YouTubeID == youtubeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memVideos) Create(_ context.Context, v *model.Video) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	for _, existing := range m.rows[v.GameID] {
		if existing.YouTubeID == v.YouTubeID {
			return false, nil
		}
	}
	m.nextID++
	v.ID = m.nextID
	m.rows[v.GameID] = append(m.rows[v.GameID], *v)
	return true, nil
}

func (m *memVideos) ListByGame(_ context.Context, gameID int64) ([]model.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Video(nil), m.rows[gameID]...), nil
}

func (m *memVideos) GameIDsWithVideos(_ context.Context, ids []int64) (map[int64]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[int64]bool{}
	for _, id := range ids {
		if len(m.rows[id]) > 0 {
			out[id] = true
		}
	}
	return out, nil
}

func (m *memVideos) count(gameID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows[gameID])
}

// memCache is a map-backed ICache that records invalidations.
type memCache struct {
	mu          sync.Mutex
	data        map[string][]byte
	invalidated []string
	patternsHit []string
	sets        int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string, dest interface{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (c *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) bool {
	data, err := json.Marshal(value)
	if err != nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return true
}

func (c *memCache) Invalidate(_ context.Context, key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, key)
	_, ok := c.data[key]
	delete(c.data, key)
	return ok
}

func (c *memCache) InvalidatePattern(_ context.Context, pattern string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.patternsHit = append(c.patternsHit, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	n := 0
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
			n++
		}
	}
	return n
}

func (c *memCache) Metrics() dto.CacheMetrics { return dto.CacheMetrics{Enabled: true} }
func (c *memCache) ResetMetrics()             {}
func (c *memCache) HealthCheck(context.Context) dto.CacheHealth {
	return dto.CacheHealth{Status: "healthy"}
}

type scheduledCall struct {
	id   string
	name string
	at   time.Time
	fn   func(ctx context.Context) error
}

type recordingScheduler struct {
	mu    sync.Mutex
	calls []scheduledCall
}

func (s *recordingScheduler) ScheduleOnce(id, name string, at time.Time, fn func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, scheduledCall{id: id, name: name, at: at, fn: fn})
}

type recordingEvents struct {
	mu     sync.Mutex
	events []model.GameStatusEvent
}

func (r *recordingEvents) PublishGameEvent(_ context.Context, e model.GameStatusEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

type MockNHL struct {
	mock.Mock
}

func (m *MockNHL) FetchTeamSchedule(ctx context.Context, team string, from time.Time) ([]dto.NHLScheduleGame, error) {
	args := m.Called(ctx, team, from)
	games, _ := args.Get(0).([]dto.NHLScheduleGame)
	return games, args.Error(1)
}

func (m *MockNHL) FetchBoxscore(ctx context.Context, gameID int64) (*dto.NHLBoxscore, json.RawMessage, error) {
	args := m.Called(ctx, gameID)
	box, _ := args.Get(0).(*dto.NHLBoxscore)
	raw, _ := args.Get(1).(json.RawMessage)
	return box, raw, args.Error(2)
}

func (m *MockNHL) FetchPlayByPlay(ctx context.Context, gameID int64) (*dto.NHLPlayByPlay, error) {
	args := m.Called(ctx, gameID)
	pbp, _ := args.Get(0).(*dto.NHLPlayByPlay)
	return pbp, args.Error(1)
}

func (m *MockNHL) FetchRoster(ctx context.Context, team string) (*dto.NHLRoster, error) {
	args := m.Called(ctx, team)
	roster, _ := args.Get(0).(*dto.NHLRoster)
	return roster, args.Error(1)
}

func (m *MockNHL) FetchStandings(ctx context.Context) (*dto.NHLStandings, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(*dto.NHLStandings)
	return s, args.Error(1)
}

func (m *MockNHL) FetchPlayerLanding(ctx context.Context, playerID int64) (json.RawMessage, error) {
	args := m.Called(ctx, playerID)
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}

type MockHighlights struct {
	mock.Mock
}

func (m *MockHighlights) SearchGameHighlights(ctx context.Context, req dto.HighlightSearchRequest) (*dto.HighlightSearchResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*dto.HighlightSearchResult)
	return res, args.Error(1)
}

func (m *MockHighlights) SearchGoalClip(ctx context.Context, req dto.GoalClipRequest) ([]dto.YouTubeVideo, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).([]dto.YouTubeVideo)
	return res, args.Error(1)
}

type MockRecap struct {
	mock.Mock
}

func (m *MockRecap) GenerateRecap(ctx context.Context, req dto.RecapRequest) (*dto.RecapResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*dto.RecapResult)
	return res, args.Error(1)
}

type MockReddit struct {
	mock.Mock
}

func (m *MockReddit) FindGameThread(ctx context.Context, away, home string, date time.Time) (*dto.RedditThing, error) {
	args := m.Called(ctx, away, home, date)
	res, _ := args.Get(0).(*dto.RedditThing)
	return res, args.Error(1)
}

func (m *MockReddit) GetGameDiscussion(ctx context.Context, away, home string, date time.Time, limit int) (*dto.RedditGameDiscussion, error) {
	args := m.Called(ctx, away, home, date, limit)
	res, _ := args.Get(0).(*dto.RedditGameDiscussion)
	return res, args.Error(1)
}

var (
	_ repository.IGame               = (*memGames)(nil)
	_ repository.IVideo              = (*memVideos)(nil)
	_ repository.ICache              = (*memCache)(nil)
	_ repository.INHL                = (*MockNHL)(nil)
	_ repository.IHighlightSearch    = (*MockHighlights)(nil)
	_ repository.IRecapGenerator     = (*MockRecap)(nil)
	_ repository.IReddit             = (*MockReddit)(nil)
	_ repository.IGameEventPublisher = (*recordingEvents)(nil)
)
