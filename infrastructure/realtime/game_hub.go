package realtime

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"nhl-fan-insights/domain/model"
	"nhl-fan-insights/domain/repository"
)

const keepAliveInterval = 25 * time.Second

type subscriber struct {
	gameID int64 // 0 receives every game
	ch     chan model.GameStatusEvent
}

// GameHub fans game status events out to SSE subscribers.
type GameHub struct {
	mu   sync.RWMutex
	subs map[*subscriber]struct{}
}

func NewGameHub() *GameHub {
	return &GameHub{subs: make(map[*subscriber]struct{})}
}

// Serve streams events until the client goes away. ?game_id= narrows the stream to one game.
func (h *GameHub) Serve(c *gin.Context) {
	var gameID int64
	if raw := c.Query("game_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game_id"})
			return
		}
		gameID = id
	}
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // disable nginx buffering

	sub := &subscriber{gameID: gameID, ch: make(chan model.GameStatusEvent, 8)}
	h.add(sub)
	defer h.remove(sub)

	_, _ = c.Writer.Write([]byte(":ok\n\n"))
	c.Writer.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-ticker.C:
			_, _ = c.Writer.Write([]byte(":ping\n\n"))
			c.Writer.Flush()
		case evt := <-sub.ch:
			data, _ := json.Marshal(evt)
			_, _ = c.Writer.Write([]byte("event: game_status\n"))
			_, _ = c.Writer.Write([]byte("data: "))
			_, _ = c.Writer.Write(data)
			_, _ = c.Writer.Write([]byte("\n\n"))
			c.Writer.Flush()
		}
	}
}

func (h *GameHub) add(s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs[s] = struct{}{}
}

func (h *GameHub) remove(s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, s)
}

// Subscribers returns the number of open streams.
func (h *GameHub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// PublishGameEvent never blocks; slow subscribers drop events.
func (h *GameHub) PublishGameEvent(_ context.Context, event model.GameStatusEvent) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.subs {
		if s.gameID != 0 && s.gameID != event.GameID {
			continue
		}
		select {
		case s.ch <- event:
		default:
		}
	}
	return nil
}

var _ repository.IGameEventPublisher = (*GameHub)(nil)
