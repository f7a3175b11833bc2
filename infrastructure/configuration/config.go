package configuration

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"nhl-fan-insights/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App         App         `json:"app"`
	Database    Database    `json:"database"`
	RedisClient RedisClient `json:"redisClient"`
	Logger      Logger      `json:"logger"`
	Team        Team        `json:"team"`
	NHL         NHL         `json:"nhl"`
	YouTube     YouTube     `json:"youtube"`
	Claude      Claude      `json:"claude"`
	Reddit      Reddit      `json:"reddit"`
	Clerk       Clerk       `json:"clerk"`
	Scheduler   Scheduler   `json:"scheduler"`
	Pipeline    Pipeline    `json:"pipeline"`
	Pubsub      Pubsub      `json:"pubsub"`
	ServiceBus  ServiceBus  `json:"serviceBus"`
}

type App struct {
	Port        int    `json:"port"`
	Environment string `json:"environment"`
	FrontendURL string `json:"frontendURL"`
	TLSEnabled  bool   `json:"tlsEnabled"`
	TLSCertFile string `json:"tlsCertFile"`
	TLSKeyFile  string `json:"tlsKeyFile"`
}

type Database struct {
	Psql Db `json:"psql"`
}

type Db struct {
	URL      string `json:"url"`
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	SSLMode  string `json:"sslMode"`
	MaxOpen  int    `json:"maxOpen"`
	MaxIdle  int    `json:"maxIdle"`
}

type RedisClient struct {
	Enabled  bool   `json:"enabled"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	DB       int    `json:"db"`
	Password string `json:"password"`
	Username string `json:"username"`
	TTL      int    `json:"ttl"`
}

type Logger struct {
	Format string `json:"format"`
	Level  string `json:"level"`
}

type Team struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	AffiliateID      string `json:"affiliateId"`
	Division         string `json:"division"`
	Timezone         string `json:"timezone"`
	SeasonLabel      string `json:"seasonLabel"`
	Subreddit        string `json:"subreddit"`
	FanRecapTemplate string `json:"fanRecapTemplate"`
}

type NHL struct {
	BaseURL        string `json:"baseURL"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
	UserAgent      string `json:"userAgent"`
}

type YouTube struct {
	APIKey            string `json:"apiKey"`
	ClientID          string `json:"clientId"`
	ClientSecret      string `json:"clientSecret"`
	RedirectURI       string `json:"redirectURI"`
	OfficialChannelID string `json:"officialChannelId"`
	RequestsPerSecond int    `json:"requestsPerSecond"`
}

type Claude struct {
	APIKey         string  `json:"apiKey"`
	BaseURL        string  `json:"baseURL"`
	Model          string  `json:"model"`
	MaxTokens      int     `json:"maxTokens"`
	Temperature    float64 `json:"temperature"`
	TimeoutSeconds int     `json:"timeoutSeconds"`
}

type Reddit struct {
	BaseURL   string `json:"baseURL"`
	UserAgent string `json:"userAgent"`
}

type Clerk struct {
	SecretKey     string   `json:"secretKey"`
	WebhookSecret string   `json:"webhookSecret"`
	JWTKey        string   `json:"jwtKey"`
	APIBaseURL    string   `json:"apiBaseURL"`
	AdminUserIDs  []string `json:"adminUserIds"`
}

type Scheduler struct {
	Enabled           bool `json:"enabled"`
	ScheduleCheckHour int  `json:"scheduleCheckHour"`
	RosterSyncHour    int  `json:"rosterSyncHour"`
	StandingsHour     int  `json:"standingsHour"`
}

type Pipeline struct {
	MaxAttempts       int `json:"maxAttempts"`
	BackoffSeconds    int `json:"backoffSeconds"`
	MaxBackoffSeconds int `json:"maxBackoffSeconds"`
	OtherVideoResults int `json:"otherVideoResults"`
}

type Pubsub struct {
	ProjectID string `json:"projectID"`
	Topic     string `json:"topic"`
}

type ServiceBus struct {
	Namespace string `json:"namespace"`
	Queue     string `json:"queue"`
}

var C Config

func init() {
	LoadEnvFromFile("config.env", ".env")
	LoadConfig()
	initApp(&C)
	initDatabase(&C)
	initRedis(&C)
	initTeam(&C)
	initClients(&C)
	initScheduler(&C)
	logger.Configure(C.Logger.Level, C.Logger.Format)
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initApp(C *Config) {
	C.App.Environment = getConfigValue(C.App.Environment, "ENVIRONMENT", "development")
	C.App.FrontendURL = getConfigValue(C.App.FrontendURL, "FRONTEND_URL", "http://localhost:3000")
	// Port resolution order (env overrides config): APP_PORT -> PORT -> config -> default 8000
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 8000
	}
	if v := os.Getenv("TLS_ENABLED"); v != "" {
		C.App.TLSEnabled = parseBool(v, C.App.TLSEnabled)
	}
	C.App.TLSCertFile = getConfigValue(C.App.TLSCertFile, "TLS_CERT_FILE", "")
	C.App.TLSKeyFile = getConfigValue(C.App.TLSKeyFile, "TLS_KEY_FILE", "")
	C.Logger.Level = getConfigValue(C.Logger.Level, "LOG_LEVEL", "info")
	C.Logger.Format = getConfigValue(C.Logger.Format, "LOG_FORMAT", "json")
}

func initDatabase(C *Config) {
	db := &C.Database.Psql
	db.URL = getConfigValue(db.URL, "DATABASE_URL", "")
	db.Name = getConfigValue(db.Name, "DB_NAME", "nhl_fan_insights")
	db.Host = getConfigValue(db.Host, "DB_HOST", "localhost")
	db.Port = getConfigValue(db.Port, "DB_PORT", "5432")
	db.User = getConfigValue(db.User, "DB_USER", "postgres")
	db.Password = getConfigValue(db.Password, "DB_PASSWORD", "")
	db.SSLMode = getConfigValue(db.SSLMode, "DB_SSLMODE", "disable")
	if db.MaxOpen == 0 {
		db.MaxOpen = 10
	}
	if db.MaxIdle == 0 {
		db.MaxIdle = 5
	}
	logger.GetLogger().WithFields(map[string]interface{}{
		"host":   db.Host,
		"port":   db.Port,
		"name":   db.Name,
		"hasURL": db.URL != "",
	}).Info("Database configuration")
}

func initRedis(C *Config) {
	r := &C.RedisClient
	if v := os.Getenv("REDIS_ENABLED"); v != "" {
		r.Enabled = parseBool(v, r.Enabled)
	} else if !viper.IsSet("redisClient.enabled") {
		r.Enabled = true
	}
	r.Host = getConfigValue(r.Host, "REDIS_HOST", "localhost")
	r.Port = getConfigValue(r.Port, "REDIS_PORT", "6379")
	r.Password = getConfigValue(r.Password, "REDIS_PASSWORD", "")
	r.Username = getConfigValue(r.Username, "REDIS_USERNAME", "")
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			r.DB = n
		}
	}
	if r.TTL == 0 {
		r.TTL = 300
	}
}

func initTeam(C *Config) {
	t := &C.Team
	t.ID = getConfigValue(t.ID, "SHARKS_TEAM_ID", "SJS")
	t.Name = getConfigValue(t.Name, "TEAM_NAME", "San Jose Sharks")
	t.AffiliateID = getConfigValue(t.AffiliateID, "BARRACUDA_TEAM_ID", "SJB")
	t.Division = getConfigValue(t.Division, "TEAM_DIVISION", "Pacific")
	t.Timezone = getConfigValue(t.Timezone, "TIMEZONE", "America/Los_Angeles")
	t.SeasonLabel = getConfigValue(t.SeasonLabel, "SEASON_LABEL", "25-26")
	t.Subreddit = getConfigValue(t.Subreddit, "REDDIT_SUBREDDIT", "SanJoseSharks")
}

func initClients(C *Config) {
	C.NHL.BaseURL = getConfigValue(C.NHL.BaseURL, "NHL_API_BASE_URL", "https://api-web.nhle.com")
	C.NHL.UserAgent = getConfigValue(C.NHL.UserAgent, "NHL_USER_AGENT", "NHL-Fan-Insights/1.0")
	if C.NHL.TimeoutSeconds == 0 {
		C.NHL.TimeoutSeconds = 15
	}

	C.Claude.APIKey = getConfigValue(C.Claude.APIKey, "CLAUDE_API_KEY", "")
	C.Claude.BaseURL = getConfigValue(C.Claude.BaseURL, "CLAUDE_BASE_URL", "https://api.anthropic.com")
	C.Claude.Model = getConfigValue(C.Claude.Model, "CLAUDE_MODEL", "claude-3-5-sonnet-20241022")
	if C.Claude.MaxTokens == 0 {
		C.Claude.MaxTokens = 1500
	}
	if C.Claude.Temperature == 0 {
		C.Claude.Temperature = 0.7
	}
	if C.Claude.TimeoutSeconds == 0 {
		C.Claude.TimeoutSeconds = 60
	}

	C.Reddit.BaseURL = getConfigValue(C.Reddit.BaseURL, "REDDIT_BASE_URL", "https://www.reddit.com")
	C.Reddit.UserAgent = getConfigValue(C.Reddit.UserAgent, "REDDIT_USER_AGENT", "NHL-Fan-Insights/1.0")

	C.Clerk.SecretKey = getConfigValue(C.Clerk.SecretKey, "CLERK_SECRET_KEY", "")
	C.Clerk.WebhookSecret = getConfigValue(C.Clerk.WebhookSecret, "CLERK_WEBHOOK_SECRET", "")
	C.Clerk.JWTKey = getConfigValue(C.Clerk.JWTKey, "CLERK_JWT_KEY", "")
	C.Clerk.APIBaseURL = getConfigValue(C.Clerk.APIBaseURL, "CLERK_API_BASE_URL", "https://api.clerk.com")
	if v := os.Getenv("ADMIN_USER_IDS"); v != "" {
		C.Clerk.AdminUserIDs = splitList(v)
	}

	C.Pubsub.ProjectID = getConfigValue(C.Pubsub.ProjectID, "PUBSUB_PROJECT_ID", "")
	C.Pubsub.Topic = getConfigValue(C.Pubsub.Topic, "PUBSUB_TOPIC", "game-status")
	C.ServiceBus.Namespace = getConfigValue(C.ServiceBus.Namespace, "SERVICEBUS_NAMESPACE", "")
	C.ServiceBus.Queue = getConfigValue(C.ServiceBus.Queue, "SERVICEBUS_QUEUE", "game-status")
}

func initScheduler(C *Config) {
	s := &C.Scheduler
	if v := os.Getenv("SCHEDULER_ENABLED"); v != "" {
		s.Enabled = parseBool(v, s.Enabled)
	} else if !viper.IsSet("scheduler.enabled") {
		s.Enabled = true
	}
	if !viper.IsSet("scheduler.scheduleCheckHour") {
		s.ScheduleCheckHour = 8
	}
	if !viper.IsSet("scheduler.rosterSyncHour") {
		s.RosterSyncHour = 4
	}
	if !viper.IsSet("scheduler.standingsHour") {
		s.StandingsHour = 5
	}

	p := &C.Pipeline
	if p.MaxAttempts == 0 {
		p.MaxAttempts = 3
	}
	if p.BackoffSeconds == 0 {
		p.BackoffSeconds = 30
	}
	if p.MaxBackoffSeconds == 0 {
		p.MaxBackoffSeconds = 300
	}
	if p.OtherVideoResults == 0 {
		p.OtherVideoResults = 5
	}
}

// Location resolves the team timezone, falling back to UTC when the zone database lacks it.
func (t Team) Location() *time.Location {
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		logger.GetLogger().WithField("timezone", t.Timezone).Warn("Unknown timezone, using UTC")
		return time.UTC
	}
	return loc
}

// DSN builds the lib/pq connection string. DATABASE_URL wins when set.
func (d Db) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

func (r RedisClient) Addr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

func parseBool(v string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
