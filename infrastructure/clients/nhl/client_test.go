package nhl

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nhl-fan-insights/domain/model"
	"nhl-fan-insights/infrastructure/resilience"
)

func TestSeason(t *testing.T) {
	tests := []struct {
		date time.Time
		want string
	}{
		{time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC), "20242025"},
		{time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), "20242025"},
		{time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC), "20242025"},
		{time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), "20252026"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Season(tt.date), tt.date.String())
	}
}

func newTestServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "NHL-Fan-Insights/1.0", r.Header.Get("User-Agent"))
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_FetchTeamScheduleFiltersByDate(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/v1/club-schedule-season/SJS/20242025": `{"games":[
			{"id":2024020400,"gameDate":"2025-01-02","gameState":"OFF","awayTeam":{"abbrev":"SJS"},"homeTeam":{"abbrev":"EDM"}},
			{"id":2024020500,"gameDate":"2025-01-14","startTimeUTC":"2025-01-15T03:30:00Z","gameState":"FINAL","awayTeam":{"abbrev":"LAK"},"homeTeam":{"abbrev":"SJS"}},
			{"id":2024020600,"gameDate":"2025-01-20","gameState":"FUT","awayTeam":{"abbrev":"SJS"},"homeTeam":{"abbrev":"VAN"}}
		]}`,
	})
	c := NewClient(Config{BaseURL: srv.URL, UserAgent: "NHL-Fan-Insights/1.0"})

	games, err := c.FetchTeamSchedule(context.Background(), "SJS", time.Date(2025, 1, 14, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, int64(2024020500), games[0].ID)

	kickoff, err := games[0].Kickoff()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 15, 3, 30, 0, 0, time.UTC), kickoff)
}

func TestClient_FetchBoxscoreKeepsRawBody(t *testing.T) {
	body := `{"id":2024020500,"gameState":"FINAL","awayTeam":{"abbrev":"LAK","score":2,"commonName":{"default":"Kings"}},"homeTeam":{"abbrev":"SJS","score":4,"commonName":{"default":"Sharks"}}}`
	srv := newTestServer(t, map[string]string{"/v1/gamecenter/2024020500/boxscore": body})
	c := NewClient(Config{BaseURL: srv.URL, UserAgent: "NHL-Fan-Insights/1.0"})

	box, raw, err := c.FetchBoxscore(context.Background(), 2024020500)
	require.NoError(t, err)
	assert.Equal(t, 4, box.HomeTeam.Score)
	assert.Equal(t, "Kings", box.AwayTeam.CommonName.Default)
	assert.JSONEq(t, body, string(raw))
}

func TestClient_NotFoundIsPermanent(t *testing.T) {
	srv := newTestServer(t, map[string]string{})
	c := NewClient(Config{BaseURL: srv.URL, UserAgent: "NHL-Fan-Insights/1.0"})

	_, err := c.FetchPlayByPlay(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrUpstream))
	assert.True(t, errors.Is(err, model.ErrNotFound))
	assert.True(t, errors.Is(err, resilience.ErrPermanent))
}

func TestClient_ServerErrorIsUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	c := NewClient(Config{BaseURL: srv.URL})

	_, err := c.FetchStandings(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrUpstream))
	assert.False(t, errors.Is(err, resilience.ErrPermanent))
}
