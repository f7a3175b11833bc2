package dto

import "time"

type CacheMetrics struct {
	Enabled         bool      `json:"enabled"`
	Connected       bool      `json:"connected"`
	TotalRequests   int64     `json:"total_requests"`
	Hits            int64     `json:"hits"`
	Misses          int64     `json:"misses"`
	HitRatePercent  float64   `json:"hit_rate_percent"`
	MissRatePercent float64   `json:"miss_rate_percent"`
	Invalidations   int64     `json:"invalidations"`
	Errors          int64     `json:"errors"`
	LastReset       time.Time `json:"last_reset"`
}

type CacheHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Host    string `json:"host,omitempty"`
	Port    string `json:"port,omitempty"`
	DB      int    `json:"db"`
	Error   string `json:"error,omitempty"`
}

type GameCounts struct {
	Total         int64 `json:"total"`
	Completed     int64 `json:"completed"`
	WithVideos    int64 `json:"with_videos"`
	PendingVideos int64 `json:"pending_videos"`
}

type DatabaseStats struct {
	Games          GameCounts `json:"games"`
	VideosTotal    int64      `json:"videos_total"`
	DatabaseSizeMB float64    `json:"database_size_mb"`
}

type SystemStats struct {
	Goroutines    int     `json:"goroutines"`
	HeapAllocMB   float64 `json:"heap_alloc_mb"`
	SysMB         float64 `json:"sys_mb"`
	NumGC         uint32  `json:"num_gc"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	NumCPU        int     `json:"num_cpu"`
}

type ServiceMetrics struct {
	Timestamp time.Time    `json:"timestamp"`
	Cache     CacheMetrics `json:"cache"`
	System    SystemStats  `json:"system"`
	Service   string       `json:"service"`
	Version   string       `json:"version"`
}

type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type DetailedHealth struct {
	Status     string                     `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Components map[string]ComponentHealth `json:"components"`
	System     SystemStats                `json:"system"`
}

type ScheduledJob struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	NextRun time.Time `json:"next_run"`
	Kind    string    `json:"kind"`
}
