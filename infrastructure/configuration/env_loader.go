package configuration

import (
	"os"

	"github.com/joho/godotenv"

	"nhl-fan-insights/infrastructure/logger"
)

// LoadEnvFromFile loads KEY=VALUE files such as config.env and .env. Variables already present
// in the process environment are kept. Missing files are skipped.
func LoadEnvFromFile(paths ...string) []string {
	var loaded []string
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			logger.GetLogger().WithField("file", p).WithField("error", err).Warn("Failed to load env file")
			continue
		}
		loaded = append(loaded, p)
	}
	return loaded
}
