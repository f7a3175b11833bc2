package configuration

import (
	"os"
	"strings"

	"github.com/goccy/go-json"
)

// YouTubeConfig is the resolved credential set for the YouTube client.
type YouTubeConfig struct {
	ClientID          string
	ClientSecret      string
	RedirectURL       string
	AccessToken       string
	RefreshToken      string
	APIKey            string
	OfficialChannelID string
	SeasonLabel       string
	TeamName          string
	RequestsPerSecond int
}

// Configured reports whether either API-key or OAuth mode can be used.
func (c *YouTubeConfig) Configured() bool {
	return c.APIKey != "" || (c.AccessToken != "" && c.RefreshToken != "")
}

// GetYouTubeConfig returns YouTube configuration from JSON config with environment variable fallback
func GetYouTubeConfig() *YouTubeConfig {
	config := &YouTubeConfig{
		ClientID:          getConfigValue(C.YouTube.ClientID, "YOUTUBE_CLIENT_ID", ""),
		ClientSecret:      getConfigValue(C.YouTube.ClientSecret, "YOUTUBE_CLIENT_SECRET", ""),
		RedirectURL:       getConfigValue(C.YouTube.RedirectURI, "YOUTUBE_REDIRECT_URL", ""),
		AccessToken:       getEnv("YOUTUBE_ACCESS_TOKEN", ""),
		RefreshToken:      getEnv("YOUTUBE_REFRESH_TOKEN", ""),
		APIKey:            getConfigValue(C.YouTube.APIKey, "YOUTUBE_API_KEY", ""),
		OfficialChannelID: getConfigValue(C.YouTube.OfficialChannelID, "YOUTUBE_NHL_CHANNEL_ID", "UCqFMzb-4AUf6WAIbl132QKA"),
		SeasonLabel:       C.Team.SeasonLabel,
		TeamName:          C.Team.Name,
		RequestsPerSecond: C.YouTube.RequestsPerSecond,
	}
	if config.RequestsPerSecond == 0 {
		config.RequestsPerSecond = 5
	}

	// Fallback: tokens persisted by an earlier OAuth consent land in token.json
	if config.AccessToken == "" || config.RefreshToken == "" {
		if data, err := os.ReadFile("token.json"); err == nil {
			var tokenFile struct {
				AccessToken  string `json:"access_token"`
				RefreshToken string `json:"refresh_token"`
			}
			if jsonErr := json.Unmarshal(data, &tokenFile); jsonErr == nil {
				if config.AccessToken == "" {
					config.AccessToken = tokenFile.AccessToken
				}
				if config.RefreshToken == "" {
					config.RefreshToken = tokenFile.RefreshToken
				}
			}
		}
	}
	return config
}

// getConfigValue gets value from environment first, then config, then default
func getConfigValue(configValue, envKey, defaultValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if configValue != "" && !strings.HasPrefix(configValue, "YOUR_") {
		return configValue
	}
	return defaultValue
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
