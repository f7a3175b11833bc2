package logger

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const recentCapacity = 200

// RecentEntry is one buffered log line served by the monitoring endpoint.
type RecentEntry struct {
	Time    time.Time              `json:"time"`
	Level   string                 `json:"level"`
	Message string                 `json:"message"`
	Fields  map[string]interface{} `json:"fields,omitempty"`
}

// ringHook keeps the last recentCapacity entries in memory.
type ringHook struct {
	mu      sync.Mutex
	entries []RecentEntry
	next    int
	full    bool
}

var recent = &ringHook{entries: make([]RecentEntry, recentCapacity)}

func (h *ringHook) Levels() []log.Level {
	return []log.Level{log.PanicLevel, log.FatalLevel, log.ErrorLevel, log.WarnLevel, log.InfoLevel}
}

func (h *ringHook) Fire(e *log.Entry) error {
	fields := make(map[string]interface{}, len(e.Data))
	for k, v := range e.Data {
		if k == "file" || k == "function" || k == "line" {
			continue
		}
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		fields[k] = v
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[h.next] = RecentEntry{Time: e.Time, Level: e.Level.String(), Message: e.Message, Fields: fields}
	h.next = (h.next + 1) % len(h.entries)
	if h.next == 0 {
		h.full = true
	}
	return nil
}

func (h *ringHook) last(n int) []RecentEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	size := h.next
	if h.full {
		size = len(h.entries)
	}
	if n <= 0 || n > size {
		n = size
	}
	out := make([]RecentEntry, 0, n)
	for i := n; i > 0; i-- {
		idx := (h.next - i + len(h.entries)) % len(h.entries)
		out = append(out, h.entries[idx])
	}
	return out
}

// Recent returns up to n of the latest info-or-higher entries, oldest first.
func Recent(n int) []RecentEntry {
	return recent.last(n)
}
