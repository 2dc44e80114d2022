package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr    string
	PostgresDSN string
	LogLevel    string
	LogFormat   string

	AuthMode    string
	AdminAPIKey string

	// Decision thresholds are configuration, not constants, so that
	// organizations can tune the auto-approval band.
	DecisionHighThreshold float64
	DecisionLowThreshold  float64

	WorkerPollIntervalMS int
	WorkerDisabled       bool

	// AutoIssue makes verified certificates produce a credential without a
	// separate issuance call.
	AutoIssue bool

	OCRServiceURL      string
	OCRServiceToken    string
	NormalizerURL      string
	NormalizerToken    string
	NormalizerTimeoutS int

	IssuerDID                string
	SigningPrivateKeyBase64  string
	SigningPrivateKeySeedHex string
	IssuancePolicyBundlePath string
	IssuancePolicyBundleID   string

	IssuerCacheTTLSeconds int

	RateLimitRequests      int
	RateLimitWindowSeconds int
	RateLimitFailClosed    bool
	RateLimitMaxKeys       int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SMTPAddr     string
	SMTPFrom     string
	SMTPPassword string

	ReviewDigestCron string
	ReviewDigestTo   string
}

func FromEnv() Config {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		HTTPAddr:                 addr,
		PostgresDSN:              os.Getenv("POSTGRES_DSN"),
		LogLevel:                 envDefault("LOG_LEVEL", "info"),
		LogFormat:                envDefault("LOG_FORMAT", "text"),
		AuthMode:                 envDefault("AUTH_MODE", "none"),
		AdminAPIKey:              os.Getenv("ADMIN_API_KEY"),
		DecisionHighThreshold:    envFloatDefault("DECISION_HIGH_THRESHOLD", 0.8),
		DecisionLowThreshold:     envFloatDefault("DECISION_LOW_THRESHOLD", 0.5),
		WorkerPollIntervalMS:     envIntDefault("WORKER_POLL_INTERVAL_MS", 2000),
		WorkerDisabled:           envBoolDefault("WORKER_DISABLED", false),
		AutoIssue:                envBoolDefault("AUTO_ISSUE", true),
		OCRServiceURL:            os.Getenv("OCR_SERVICE_URL"),
		OCRServiceToken:          os.Getenv("OCR_SERVICE_TOKEN"),
		NormalizerURL:            os.Getenv("NORMALIZER_URL"),
		NormalizerToken:          os.Getenv("NORMALIZER_TOKEN"),
		NormalizerTimeoutS:       envIntDefault("NORMALIZER_TIMEOUT_SECONDS", 10),
		IssuerDID:                envDefault("ISSUER_DID", "did:campus:issuer"),
		SigningPrivateKeyBase64:  os.Getenv("SIGNING_PRIVATE_KEY_BASE64"),
		SigningPrivateKeySeedHex: os.Getenv("SIGNING_PRIVATE_KEY_SEED_HEX"),
		IssuancePolicyBundlePath: os.Getenv("ISSUANCE_POLICY_BUNDLE_PATH"),
		IssuancePolicyBundleID:   os.Getenv("ISSUANCE_POLICY_BUNDLE_ID"),
		IssuerCacheTTLSeconds:    envIntDefault("ISSUER_CACHE_TTL_SECONDS", 60),
		RateLimitRequests:        envIntDefault("RATE_LIMIT_REQUESTS", 0),
		RateLimitWindowSeconds:   envIntDefault("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitFailClosed:      envBoolDefault("RATE_LIMIT_FAIL_CLOSED", false),
		RateLimitMaxKeys:         envIntDefault("RATE_LIMIT_MAX_KEYS", 10000),
		RedisAddr:                os.Getenv("REDIS_ADDR"),
		RedisPassword:            os.Getenv("REDIS_PASSWORD"),
		RedisDB:                  envIntDefault("REDIS_DB", 0),
		SMTPAddr:                 os.Getenv("SMTP_ADDR"),
		SMTPFrom:                 os.Getenv("SMTP_FROM"),
		SMTPPassword:             os.Getenv("SMTP_PASSWORD"),
		ReviewDigestCron:         os.Getenv("REVIEW_DIGEST_CRON"),
		ReviewDigestTo:           os.Getenv("REVIEW_DIGEST_TO"),
	}
}

func (c Config) WorkerPollInterval() time.Duration {
	if c.WorkerPollIntervalMS <= 0 {
		return 2 * time.Second
	}
	return time.Duration(c.WorkerPollIntervalMS) * time.Millisecond
}

func (c Config) NormalizerTimeout() time.Duration {
	if c.NormalizerTimeoutS <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.NormalizerTimeoutS) * time.Second
}

func (c Config) IssuerCacheTTL() time.Duration {
	if c.IssuerCacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.IssuerCacheTTLSeconds) * time.Second
}

func (c Config) RateLimitWindow() time.Duration {
	if c.RateLimitWindowSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.RateLimitWindowSeconds) * time.Second
}

func envDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func envIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.Atoi(v)
	if err != nil || parsed < 0 {
		return def
	}
	return parsed
}

func envFloatDefault(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil || parsed < 0 || parsed > 1 {
		return def
	}
	return parsed
}

func envBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "Yes":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "No":
		return false
	default:
		return def
	}
}
