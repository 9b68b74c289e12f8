package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nsommier/hoard/internal/domain"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// URL normalization
	StripTracking  bool     // strip known tracking query parameters
	TrackingParams []string // injectable tracking-parameter set ('*' suffix = prefix match)

	// Enrichment
	EnrichWorkers    int           // number of enrichment workers
	EnrichQueueSize  int           // buffered queue capacity
	EnrichDepth      int           // default insight depth (>= 1)
	ProviderTimeout  time.Duration // per-provider call timeout
	EmbedModel       string        // embedding model name
	ChatModel        string        // chat/completions model name
	AIEndpoint       string        // OpenAI-compatible base URL (empty = enrichment disabled)
	AIAPIKey         string        // bearer token for the AI endpoint
	ExtractTimeout   time.Duration // page metadata fetch timeout
	ExtractMaxBytes  int64         // cap on fetched page body
	AutoEnrichImport bool          // enrich bookmarks created by bulk import

	// Bulk import
	ImportFile     string        // path to bookmarks import YAML (empty = import disabled)
	ImportInterval time.Duration // periodic import interval
	ImportWorkers  int           // parallelism for bulk import

	// Redis
	RedisAddr           string        // ex: "localhost:6379" (empty = in-memory catalog)
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // dial timeout
	RedisRT             time.Duration // read timeout
	RedisWT             time.Duration // write timeout
	RedisPoolSize       int           // connection pool size
	RedisConnectTimeout time.Duration // total time to retry connecting
	RedisRetryInterval  time.Duration // initial wait between retries (grows exponentially)
	RedisMaxWait        time.Duration // max wait between retries
	RedisPingTimeout    time.Duration // timeout for each ping attempt
	RedisWarnThreshold  int           // warn after this many attempts
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("HOARD_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("HOARD_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("HOARD_LOG_LEVEL", "info"),
		PrettyLog: mustBool("HOARD_PRETTY_LOG", false),

		// Normalization
		StripTracking:  mustBool("HOARD_STRIP_TRACKING", true),
		TrackingParams: getenvSlice("HOARD_TRACKING_PARAMS", domain.DefaultTrackingParams),

		// Enrichment
		EnrichWorkers:    getenvInt("HOARD_ENRICH_WORKERS", 4),
		EnrichQueueSize:  getenvInt("HOARD_ENRICH_QUEUE_SIZE", 256),
		EnrichDepth:      getenvInt("HOARD_ENRICH_DEPTH", 1),
		ProviderTimeout:  mustDuration("HOARD_PROVIDER_TIMEOUT", 45*time.Second),
		EmbedModel:       getenv("HOARD_EMBED_MODEL", "text-embedding-3-small"),
		ChatModel:        getenv("HOARD_CHAT_MODEL", "gpt-4o-mini"),
		AIEndpoint:       getenv("HOARD_AI_ENDPOINT", ""),
		AIAPIKey:         getenv("HOARD_AI_API_KEY", ""),
		ExtractTimeout:   mustDuration("HOARD_EXTRACT_TIMEOUT", 15*time.Second),
		ExtractMaxBytes:  int64(getenvInt("HOARD_EXTRACT_MAX_BYTES", 2<<20)),
		AutoEnrichImport: mustBool("HOARD_AUTO_ENRICH_IMPORT", false),

		// Bulk import
		ImportFile:     getenv("HOARD_IMPORT_FILE", ""),
		ImportInterval: mustDuration("HOARD_IMPORT_INTERVAL", 24*time.Hour),
		ImportWorkers:  getenvInt("HOARD_IMPORT_WORKERS", 4),

		// Redis settings
		RedisAddr:           getenv("HOARD_REDIS_ADDR", ""),
		RedisUser:           getenv("HOARD_REDIS_USERNAME", "default"),
		RedisPassword:       getenv("HOARD_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("HOARD_REDIS_DB", 0),
		RedisDT:             mustDuration("HOARD_REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("HOARD_REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("HOARD_REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisPoolSize:       getenvInt("HOARD_REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("HOARD_REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("HOARD_REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisMaxWait:        mustDuration("HOARD_REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("HOARD_REDIS_PING_TIMEOUT", 5*time.Second),
		RedisWarnThreshold:  getenvInt("HOARD_REDIS_WARN_THRESHOLD", 3),
	}

	if cfg.EnrichDepth < 1 {
		cfg.EnrichDepth = 1
	}
	if cfg.EnrichWorkers < 1 {
		cfg.EnrichWorkers = 1
	}
	if cfg.AIEndpoint != "" && cfg.AIAPIKey == "" {
		panic(fmt.Sprintf("❌ FATAL: HOARD_AI_API_KEY is required when HOARD_AI_ENDPOINT is set (%s)", cfg.AIEndpoint))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfgCopy.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		if cfgCopy.AIAPIKey != "" {
			cfgCopy.AIAPIKey = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvSlice(key string, def []string) []string {
	if v := os.Getenv(key); v != "" {
		if parts := splitAndTrim(v); len(parts) > 0 {
			return parts
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
