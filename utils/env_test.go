package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvInt(t *testing.T) {
	t.Setenv("TEST_INT", " 7 ")
	assert.Equal(t, 7, GetEnvInt("TEST_INT", 3, 1))

	t.Setenv("TEST_INT", "0")
	assert.Equal(t, 3, GetEnvInt("TEST_INT", 3, 1))
	assert.Equal(t, 0, GetEnvInt("TEST_INT", 3, 0))

	t.Setenv("TEST_INT", "many")
	assert.Equal(t, 3, GetEnvInt("TEST_INT", 3, 1))

	t.Setenv("TEST_INT", "")
	assert.Equal(t, 3, GetEnvInt("TEST_INT", 3, 1))
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("TEST_BOOL", "true")
	assert.True(t, GetEnvBool("TEST_BOOL"))

	t.Setenv("TEST_BOOL", "1")
	assert.True(t, GetEnvBool("TEST_BOOL"))

	t.Setenv("TEST_BOOL", "nope")
	assert.False(t, GetEnvBool("TEST_BOOL"))

	t.Setenv("TEST_BOOL", "")
	assert.False(t, GetEnvBool("TEST_BOOL"))
}

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"a:1", "b:2"}, SplitCSV(" a:1 ,, b:2 ,"))
	assert.Empty(t, SplitCSV(""))
}

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"APP_PORT", "GIN_MODE", "CORS_ALLOW_ORIGINS", "DEFAULT_NUM_TOPICS", "TOPIC_KEYWORDS",
		"MAX_TEXT_BYTES", "ANALYSIS_TIMEOUT_SECONDS", "POSTGRES_HOST", "VALKEY_HOST",
		"VALKEY_USE_SENTINEL", "VALKEY_SENTINEL_ADDRESS", "S3_ACCESS_KEY_ID", "S3_SECRET_ACCESS_KEY",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "release", cfg.GinMode)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowOrigins)
	assert.Equal(t, 3, cfg.DefaultNumTopics)
	assert.Equal(t, 5, cfg.TopicKeywords)
	assert.Equal(t, int64(1<<20), cfg.MaxTextBytes)
	assert.Equal(t, 30*time.Second, cfg.AnalysisTimeout)
	assert.False(t, cfg.Postgres.Enabled())
	assert.False(t, cfg.Valkey.Enabled())
	assert.False(t, cfg.S3.Enabled())
}

func TestLoadConfigIntegrations(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("VALKEY_HOST", "")
	t.Setenv("VALKEY_USE_SENTINEL", "true")
	t.Setenv("VALKEY_SENTINEL_ADDRESS", "s1:26379,s2:26379")
	t.Setenv("S3_ACCESS_KEY_ID", "key")
	t.Setenv("S3_SECRET_ACCESS_KEY", "secret")
	t.Setenv("S3_RETRY_DELAY_SECONDS", "0")

	cfg := LoadConfig()

	assert.True(t, cfg.Postgres.Enabled())
	assert.True(t, cfg.Valkey.Enabled())
	assert.Equal(t, []string{"s1:26379", "s2:26379"}, cfg.Valkey.SentinelAddresses)
	assert.True(t, cfg.S3.Enabled())
	assert.Equal(t, 0, cfg.S3.RetryDelaySeconds)
}
