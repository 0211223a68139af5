package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	DB         DBConfig
	S3         S3Config
	Log        LogConfig
	Parser     ParserConfig
	Extraction ExtractionConfig
	Upload     UploadConfig
	Session    SessionConfig
	RateLimit  RateLimitConfig
	CORS       CORSConfig
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ParserConfig selects and configures the LLM extraction backend.
type ParserConfig struct {
	Provider        string `mapstructure:"provider"`
	APIKey          string `mapstructure:"api_key"`
	DefaultModel    string `mapstructure:"default_model"`
	Endpoint        string `mapstructure:"endpoint"`
	TimeoutSecs     int    `mapstructure:"timeout_secs"`
	MaxOutputTokens int    `mapstructure:"max_output_tokens"`
}

// ExtractionConfig bounds a single extraction run.
type ExtractionConfig struct {
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxRetries    int           `mapstructure:"max_retries"`
	RetryDelay    time.Duration `mapstructure:"retry_delay"`
	MaxRetryDelay time.Duration `mapstructure:"max_retry_delay"`
	MaxPages      int           `mapstructure:"max_pages"`
}

// UploadConfig limits request payloads.
type UploadConfig struct {
	MaxFileSizeMB  int64 `mapstructure:"max_file_size_mb"`
	MaxImageSizeKB int64 `mapstructure:"max_image_size_kb"`
}

// MaxFileSize returns the document size limit in bytes.
func (u *UploadConfig) MaxFileSize() int64 {
	return u.MaxFileSizeMB * 1024 * 1024
}

// MaxImageSize returns the pictogram image size limit in bytes.
func (u *UploadConfig) MaxImageSize() int64 {
	return u.MaxImageSizeKB * 1024
}

// SessionConfig controls how long an extracted record stays available.
type SessionConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RateLimitConfig throttles extraction requests per client IP.
type RateLimitConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	Burst             int           `mapstructure:"burst"`
	IdleTTL           time.Duration `mapstructure:"idle_ttl"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds the bucket for custom pictogram images.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	KeyPrefix     string `mapstructure:"key_prefix"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Debug reports whether verbose logging is enabled.
func (l *LogConfig) Debug() bool {
	return strings.EqualFold(l.Level, "debug")
}

// Load reads configuration from environment variables with the SDSPOSTER_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SDSPOSTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults; write timeout must outlast extraction.timeout
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "200s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "sdsposter")
	v.SetDefault("db.password", "sdsposter_secret")
	v.SetDefault("db.name", "sdsposter_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 10)
	v.SetDefault("db.max_idle", 5)

	// S3 defaults
	v.SetDefault("s3.region", "ap-northeast-1")
	v.SetDefault("s3.bucket", "sdsposter-pictograms")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.key_prefix", "pictograms")
	v.SetDefault("s3.presign_expiry", 3600)

	v.SetDefault("log.level", "info")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173,http://127.0.0.1:5173")

	// Parser defaults
	v.SetDefault("parser.provider", "gemini")
	v.SetDefault("parser.api_key", "")
	v.SetDefault("parser.default_model", "")
	v.SetDefault("parser.endpoint", "")
	v.SetDefault("parser.timeout_secs", 120)
	v.SetDefault("parser.max_output_tokens", 8192)

	// Extraction defaults
	v.SetDefault("extraction.timeout", "180s")
	v.SetDefault("extraction.max_retries", 2)
	v.SetDefault("extraction.retry_delay", "2s")
	v.SetDefault("extraction.max_retry_delay", "30s")
	v.SetDefault("extraction.max_pages", 40)

	v.SetDefault("upload.max_file_size_mb", 20)
	v.SetDefault("upload.max_image_size_kb", 1024)

	v.SetDefault("session.ttl", "2h")
	v.SetDefault("session.cleanup_interval", "10m")

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.requests_per_minute", 10)
	v.SetDefault("ratelimit.burst", 3)
	v.SetDefault("ratelimit.idle_ttl", "10m")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                   "SDSPOSTER_SERVER_PORT",
		"server.read_timeout":           "SDSPOSTER_SERVER_READ_TIMEOUT",
		"server.write_timeout":          "SDSPOSTER_SERVER_WRITE_TIMEOUT",
		"server.environment":            "SDSPOSTER_SERVER_ENVIRONMENT",
		"db.host":                       "SDSPOSTER_DB_HOST",
		"db.port":                       "SDSPOSTER_DB_PORT",
		"db.user":                       "SDSPOSTER_DB_USER",
		"db.password":                   "SDSPOSTER_DB_PASSWORD",
		"db.name":                       "SDSPOSTER_DB_NAME",
		"db.sslmode":                    "SDSPOSTER_DB_SSLMODE",
		"db.max_open":                   "SDSPOSTER_DB_MAX_OPEN",
		"db.max_idle":                   "SDSPOSTER_DB_MAX_IDLE",
		"s3.region":                     "SDSPOSTER_S3_REGION",
		"s3.bucket":                     "SDSPOSTER_S3_BUCKET",
		"s3.endpoint":                   "SDSPOSTER_S3_ENDPOINT",
		"s3.access_key":                 "SDSPOSTER_S3_ACCESS_KEY",
		"s3.secret_key":                 "SDSPOSTER_S3_SECRET_KEY",
		"s3.key_prefix":                 "SDSPOSTER_S3_KEY_PREFIX",
		"s3.presign_expiry":             "SDSPOSTER_S3_PRESIGN_EXPIRY",
		"log.level":                     "SDSPOSTER_LOG_LEVEL",
		"cors.allowed_origins":          "SDSPOSTER_CORS_ALLOWED_ORIGINS",
		"parser.provider":               "SDSPOSTER_PARSER_PROVIDER",
		"parser.api_key":                "SDSPOSTER_PARSER_API_KEY",
		"parser.default_model":          "SDSPOSTER_PARSER_DEFAULT_MODEL",
		"parser.endpoint":               "SDSPOSTER_PARSER_ENDPOINT",
		"parser.timeout_secs":           "SDSPOSTER_PARSER_TIMEOUT_SECS",
		"parser.max_output_tokens":      "SDSPOSTER_PARSER_MAX_OUTPUT_TOKENS",
		"extraction.timeout":            "SDSPOSTER_EXTRACTION_TIMEOUT",
		"extraction.max_retries":        "SDSPOSTER_EXTRACTION_MAX_RETRIES",
		"extraction.retry_delay":        "SDSPOSTER_EXTRACTION_RETRY_DELAY",
		"extraction.max_retry_delay":    "SDSPOSTER_EXTRACTION_MAX_RETRY_DELAY",
		"extraction.max_pages":          "SDSPOSTER_EXTRACTION_MAX_PAGES",
		"upload.max_file_size_mb":       "SDSPOSTER_UPLOAD_MAX_FILE_SIZE_MB",
		"upload.max_image_size_kb":      "SDSPOSTER_UPLOAD_MAX_IMAGE_SIZE_KB",
		"session.ttl":                   "SDSPOSTER_SESSION_TTL",
		"session.cleanup_interval":      "SDSPOSTER_SESSION_CLEANUP_INTERVAL",
		"ratelimit.enabled":             "SDSPOSTER_RATELIMIT_ENABLED",
		"ratelimit.requests_per_minute": "SDSPOSTER_RATELIMIT_REQUESTS_PER_MINUTE",
		"ratelimit.burst":               "SDSPOSTER_RATELIMIT_BURST",
		"ratelimit.idle_ttl":            "SDSPOSTER_RATELIMIT_IDLE_TTL",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	// Older deployments set the key as API_KEY; honour it as a fallback.
	if key := os.Getenv("API_KEY"); key != "" && os.Getenv("SDSPOSTER_PARSER_API_KEY") == "" {
		v.Set("parser.api_key", key)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if SDSPOSTER_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("SDSPOSTER_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		KeyPrefix:     strings.Trim(v.GetString("s3.key_prefix"), "/"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level: v.GetString("log.level"),
	}
	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Parser = ParserConfig{
		Provider:        v.GetString("parser.provider"),
		APIKey:          v.GetString("parser.api_key"),
		DefaultModel:    v.GetString("parser.default_model"),
		Endpoint:        v.GetString("parser.endpoint"),
		TimeoutSecs:     v.GetInt("parser.timeout_secs"),
		MaxOutputTokens: v.GetInt("parser.max_output_tokens"),
	}
	cfg.Extraction = ExtractionConfig{
		Timeout:       v.GetDuration("extraction.timeout"),
		MaxRetries:    v.GetInt("extraction.max_retries"),
		RetryDelay:    v.GetDuration("extraction.retry_delay"),
		MaxRetryDelay: v.GetDuration("extraction.max_retry_delay"),
		MaxPages:      v.GetInt("extraction.max_pages"),
	}
	cfg.Upload = UploadConfig{
		MaxFileSizeMB:  v.GetInt64("upload.max_file_size_mb"),
		MaxImageSizeKB: v.GetInt64("upload.max_image_size_kb"),
	}
	cfg.Session = SessionConfig{
		TTL:             v.GetDuration("session.ttl"),
		CleanupInterval: v.GetDuration("session.cleanup_interval"),
	}
	cfg.RateLimit = RateLimitConfig{
		Enabled:           v.GetBool("ratelimit.enabled"),
		RequestsPerMinute: v.GetInt("ratelimit.requests_per_minute"),
		Burst:             v.GetInt("ratelimit.burst"),
		IdleTTL:           v.GetDuration("ratelimit.idle_ttl"),
	}

	if cfg.Extraction.MaxRetries < 0 {
		return nil, fmt.Errorf("extraction.max_retries must not be negative, got %d", cfg.Extraction.MaxRetries)
	}

	return cfg, nil
}
