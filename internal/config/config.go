package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// MinJWTSecretLength is the shortest HS256 secret accepted.
const MinJWTSecretLength = 32

type Config struct {
	// HTTP Server
	Port               string
	RateLimitPerMinute int
	BlockSuspicious    bool
	TrustedProxies     []string

	// Backend selection
	DataBackend string

	// Database
	SQLiteDBPath string
	DatabaseURL  string

	// Hosted auth service tokens
	AuthJWTSecret   string
	AuthJWTAudience string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets journal
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// Background work
	ReportCacheTTL  time.Duration
	OverdueInterval time.Duration

	LogLevel string
}

var validBackends = []string{"memory", "sqlite", "postgres"}

func Load() *Config {
	cfg := &Config{
		Port:               getEnv("PORT", "8081"),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		BlockSuspicious:    getEnvBool("SECURITY_BLOCK_SUSPICIOUS", false),
		TrustedProxies:     getEnvList("TRUSTED_PROXIES"),

		DataBackend: getEnv("DATA_BACKEND", "memory"),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/financas.db"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),

		AuthJWTSecret:   getEnv("AUTH_JWT_SECRET", ""),
		AuthJWTAudience: getEnv("AUTH_JWT_AUDIENCE", "authenticated"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "financas"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "transacoes_journal"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:          getEnv("GOOGLE_SHEET_NAME", "Lancamentos"),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),

		ReportCacheTTL:  getEnvDuration("REPORT_CACHE_TTL", 5*time.Minute),
		OverdueInterval: getEnvDuration("OVERDUE_INTERVAL", 0),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg
}

// Validate checks what the HTTP server and the admin CLI need and returns
// every problem at once.
func (c *Config) Validate() error {
	return joinProblems(c.serverProblems())
}

// ValidateWorker checks what the journal worker needs: a broker and a
// spreadsheet to append to.
func (c *Config) ValidateWorker() error {
	var problems []string
	if c.AMQPURL == "" {
		problems = append(problems, "AMQP_URL is required for the journal worker")
	}
	if c.GoogleSpreadsheetID == "" {
		problems = append(problems, "GOOGLE_SPREADSHEET_ID is required for the journal worker")
	}
	problems = append(problems, c.amqpProblems()...)
	problems = append(problems, c.sheetsProblems()...)
	return joinProblems(problems)
}

// ValidateStore checks only the storage settings, for binaries that never
// serve HTTP.
func (c *Config) ValidateStore() error {
	return joinProblems(c.storeProblems())
}

func (c *Config) serverProblems() []string {
	var problems []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	problems = append(problems, c.storeProblems()...)

	if c.AuthJWTSecret == "" {
		problems = append(problems, "AUTH_JWT_SECRET is required")
	} else if len(c.AuthJWTSecret) < MinJWTSecretLength {
		problems = append(problems, fmt.Sprintf("AUTH_JWT_SECRET too short: must be at least %d bytes", MinJWTSecretLength))
	}

	problems = append(problems, c.amqpProblems()...)
	problems = append(problems, c.sheetsProblems()...)

	if c.RateLimitPerMinute < 1 || c.RateLimitPerMinute > 10000 {
		problems = append(problems, fmt.Sprintf("invalid rate limit %d: must be between 1 and 10000 per minute", c.RateLimitPerMinute))
	}

	if c.ReportCacheTTL < 0 {
		problems = append(problems, fmt.Sprintf("invalid report cache TTL %v: must not be negative", c.ReportCacheTTL))
	} else if c.ReportCacheTTL > 24*time.Hour {
		problems = append(problems, fmt.Sprintf("invalid report cache TTL %v: must be at most 24 hours", c.ReportCacheTTL))
	}

	if c.OverdueInterval != 0 && c.OverdueInterval < time.Minute {
		problems = append(problems, fmt.Sprintf("invalid overdue interval %v: must be 0 (disabled) or at least 1 minute", c.OverdueInterval))
	}

	return problems
}

func (c *Config) storeProblems() []string {
	var problems []string

	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		problems = append(problems, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	switch c.DataBackend {
	case "sqlite":
		if c.SQLiteDBPath == "" {
			problems = append(problems, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						problems = append(problems, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	case "postgres":
		if c.DatabaseURL == "" {
			problems = append(problems, "DATABASE_URL is required when using postgres backend")
		} else if u, err := url.Parse(c.DatabaseURL); err != nil || (u.Scheme != "postgres" && u.Scheme != "postgresql") {
			problems = append(problems, "invalid DATABASE_URL: must be a postgres:// or postgresql:// URL")
		}
	}

	return problems
}

func (c *Config) amqpProblems() []string {
	if c.AMQPURL == "" {
		return nil
	}
	var problems []string
	if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
		problems = append(problems, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
	} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
		problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
	}
	if c.AMQPExchange == "" {
		problems = append(problems, "AMQP exchange name cannot be empty when AMQP URL is provided")
	}
	if c.AMQPQueue == "" {
		problems = append(problems, "AMQP queue name cannot be empty when AMQP URL is provided")
	}
	return problems
}

func (c *Config) sheetsProblems() []string {
	if c.GoogleSpreadsheetID == "" {
		return nil
	}
	var problems []string
	if c.GoogleSheetName == "" {
		problems = append(problems, "GOOGLE_SHEET_NAME is required when GOOGLE_SPREADSHEET_ID is set")
	}
	hasFile := c.GoogleServiceAccountFile != ""
	if !hasFile && c.GoogleServiceAccountJSON == "" {
		problems = append(problems, "either GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_SERVICE_ACCOUNT_JSON must be provided with GOOGLE_SPREADSHEET_ID")
	}
	if hasFile {
		if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
			problems = append(problems, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
		}
	}
	return problems
}

func joinProblems(problems []string) error {
	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvList splits a comma separated variable, dropping empty items.
func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
