package utils

import (
	"os"
	"time"
)

// Config holds the service settings read from the environment
type Config struct {
	Port             string
	GinMode          string
	CORSAllowOrigins []string
	DefaultNumTopics int
	TopicKeywords    int
	MaxTextBytes     int64
	AnalysisTimeout  time.Duration

	Postgres PostgresConfig
	Valkey   ValkeyConfig
	S3       S3Config
}

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string

	// LexiconSeed holds "phrase=LABEL" entries upserted at startup
	LexiconSeed []string
}

// Enabled reports whether a lexicon database was configured
func (c PostgresConfig) Enabled() bool {
	return c.Host != ""
}

type ValkeyConfig struct {
	Host               string
	Port               string
	UseSentinel        bool
	SentinelAddresses  []string
	SentinelMasterName string
}

func (c ValkeyConfig) Enabled() bool {
	return c.Host != "" || (c.UseSentinel && len(c.SentinelAddresses) > 0)
}

type S3Config struct {
	Endpoint          string
	AccessKeyID       string
	SecretAccessKey   string
	Region            string
	RetryMaxAttempts  int
	RetryDelaySeconds int
}

func (c S3Config) Enabled() bool {
	return c.AccessKeyID != "" && c.SecretAccessKey != ""
}

// LoadConfig reads the configuration. Integrations without their host or credentials are disabled.
func LoadConfig() Config {
	return Config{
		Port:             GetEnvOrDefault("APP_PORT", "8000"),
		GinMode:          GetEnvOrDefault("GIN_MODE", "release"),
		CORSAllowOrigins: SplitCSV(GetEnvOrDefault("CORS_ALLOW_ORIGINS", "*")),
		DefaultNumTopics: GetEnvInt("DEFAULT_NUM_TOPICS", 3, 1),
		TopicKeywords:    GetEnvInt("TOPIC_KEYWORDS", 5, 1),
		MaxTextBytes:     int64(GetEnvInt("MAX_TEXT_BYTES", 1<<20, 1)),
		AnalysisTimeout:  time.Duration(GetEnvInt("ANALYSIS_TIMEOUT_SECONDS", 30, 1)) * time.Second,
		Postgres: PostgresConfig{
			Host:        os.Getenv("POSTGRES_HOST"),
			Port:        GetEnvOrDefault("POSTGRES_PORT", "5432"),
			User:        os.Getenv("POSTGRES_USER"),
			Password:    os.Getenv("POSTGRES_PASSWORD"),
			DBName:      os.Getenv("POSTGRES_DB"),
			SSLMode:     GetEnvOrDefault("POSTGRES_SSLMODE", "disable"),
			LexiconSeed: SplitCSV(os.Getenv("LEXICON_SEED")),
		},
		Valkey: ValkeyConfig{
			Host:               os.Getenv("VALKEY_HOST"),
			Port:               GetEnvOrDefault("VALKEY_PORT", "6379"),
			UseSentinel:        GetEnvBool("VALKEY_USE_SENTINEL"),
			SentinelAddresses:  SplitCSV(os.Getenv("VALKEY_SENTINEL_ADDRESS")),
			SentinelMasterName: GetEnvOrDefault("VALKEY_SENTINEL_MASTER_NAME", "mymaster"),
		},
		S3: S3Config{
			Endpoint:          os.Getenv("S3_ENDPOINT_URL"),
			AccessKeyID:       os.Getenv("S3_ACCESS_KEY_ID"),
			SecretAccessKey:   os.Getenv("S3_SECRET_ACCESS_KEY"),
			Region:            GetEnvOrDefault("S3_REGION", "us-east-1"),
			RetryMaxAttempts:  GetEnvInt("S3_RETRY_MAX_ATTEMPTS", 3, 1),
			RetryDelaySeconds: GetEnvInt("S3_RETRY_DELAY_SECONDS", 20, 0),
		},
	}
}
