package configuration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfiguration_Defaults(t *testing.T) {
	require.NotNil(t, &C, "Configuration should not be nil")

	assert.NotZero(t, C.App.Port)
	assert.Equal(t, 300, C.RedisClient.TTL)
	assert.NotEmpty(t, C.Team.ID)
	assert.NotEmpty(t, C.NHL.BaseURL)
	assert.Equal(t, 1500, C.Claude.MaxTokens)
	assert.GreaterOrEqual(t, C.Pipeline.MaxAttempts, 1)
}

func TestGetConfigValue(t *testing.T) {
	t.Setenv("NHL_TEST_VALUE", "from-env")
	assert.Equal(t, "from-env", getConfigValue("from-config", "NHL_TEST_VALUE", "default"))
	assert.Equal(t, "from-config", getConfigValue("from-config", "NHL_TEST_UNSET", "default"))
	assert.Equal(t, "default", getConfigValue("YOUR_API_KEY", "NHL_TEST_UNSET", "default"))
	assert.Equal(t, "default", getConfigValue("", "NHL_TEST_UNSET", "default"))
}

func TestParseBoolAndSplitList(t *testing.T) {
	assert.True(t, parseBool("TRUE", false))
	assert.True(t, parseBool("1", false))
	assert.False(t, parseBool("off", true))
	assert.True(t, parseBool("maybe", true))

	assert.Equal(t, []string{"user_a", "user_b"}, splitList(" user_a, ,user_b "))
	assert.Nil(t, splitList(""))
}

func TestDbDSN(t *testing.T) {
	db := Db{Host: "db", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", db.DSN())

	db.URL = "postgres://u:p@db/n"
	assert.Equal(t, "postgres://u:p@db/n", db.DSN())
}

func TestTeamLocation(t *testing.T) {
	assert.Equal(t, time.UTC, Team{Timezone: "Not/AZone"}.Location())
	loc := Team{Timezone: "America/Los_Angeles"}.Location()
	assert.Equal(t, "America/Los_Angeles", loc.String())
}

func TestLoadEnvFromFile_DoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("NHL_ENV_KEEP=file\nNHL_ENV_NEW=\"file\"\n"), 0o600))

	t.Setenv("NHL_ENV_KEEP", "process")
	t.Cleanup(func() { _ = os.Unsetenv("NHL_ENV_NEW") })

	loaded := LoadEnvFromFile(path, filepath.Join(dir, "missing.env"))
	assert.Equal(t, []string{path}, loaded)
	assert.Equal(t, "process", os.Getenv("NHL_ENV_KEEP"))
	assert.Equal(t, "file", os.Getenv("NHL_ENV_NEW"))
}

func TestYouTubeConfigConfigured(t *testing.T) {
	assert.False(t, (&YouTubeConfig{}).Configured())
	assert.True(t, (&YouTubeConfig{APIKey: "k"}).Configured())
	assert.False(t, (&YouTubeConfig{AccessToken: "a"}).Configured())
	assert.True(t, (&YouTubeConfig{AccessToken: "a", RefreshToken: "r"}).Configured())
}
