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
	Server   ServerConfig
	DB       DBConfig
	S3       S3Config
	Log      LogConfig
	CORS     CORSConfig
	Analyzer AnalyzerConfig
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

// S3Config holds AWS S3 settings for the manuscript store.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// AnalyzerProviderConfig holds settings for a single LLM analyzer provider.
type AnalyzerProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// AnalyzerConfig holds LLM analyzer settings with fallback support.
type AnalyzerConfig struct {
	// MaxChars caps the manuscript text placed into the prompt.
	MaxChars  int                    `mapstructure:"max_chars"`
	Primary   AnalyzerProviderConfig `mapstructure:"primary"`
	Secondary AnalyzerProviderConfig `mapstructure:"secondary"`
}

// SecondaryConfig returns the secondary provider config, or nil if not
// configured.
func (a *AnalyzerConfig) SecondaryConfig() *AnalyzerProviderConfig {
	if a.Secondary.Provider != "" {
		return &a.Secondary
	}
	return nil
}

// Load reads configuration from environment variables with the ARGUS_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ARGUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8000")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "argus")
	v.SetDefault("db.password", "argus_secret")
	v.SetDefault("db.name", "argus_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "argus-papers")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 50)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (the Next.js dev origin)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Analyzer defaults
	v.SetDefault("analyzer.max_chars", 20000)
	v.SetDefault("analyzer.primary.provider", "gemini")
	v.SetDefault("analyzer.primary.api_key", "")
	v.SetDefault("analyzer.primary.default_model", "gemini-2.5-flash")
	v.SetDefault("analyzer.primary.timeout_secs", 120)
	v.SetDefault("analyzer.secondary.provider", "")
	v.SetDefault("analyzer.secondary.api_key", "")
	v.SetDefault("analyzer.secondary.default_model", "")
	v.SetDefault("analyzer.secondary.timeout_secs", 120)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                      "ARGUS_SERVER_PORT",
		"server.read_timeout":              "ARGUS_SERVER_READ_TIMEOUT",
		"server.write_timeout":             "ARGUS_SERVER_WRITE_TIMEOUT",
		"server.environment":               "ARGUS_SERVER_ENVIRONMENT",
		"db.host":                          "ARGUS_DB_HOST",
		"db.port":                          "ARGUS_DB_PORT",
		"db.user":                          "ARGUS_DB_USER",
		"db.password":                      "ARGUS_DB_PASSWORD",
		"db.name":                          "ARGUS_DB_NAME",
		"db.sslmode":                       "ARGUS_DB_SSLMODE",
		"db.max_open":                      "ARGUS_DB_MAX_OPEN",
		"db.max_idle":                      "ARGUS_DB_MAX_IDLE",
		"s3.region":                        "ARGUS_S3_REGION",
		"s3.bucket":                        "ARGUS_S3_BUCKET",
		"s3.endpoint":                      "ARGUS_S3_ENDPOINT",
		"s3.access_key":                    "ARGUS_S3_ACCESS_KEY",
		"s3.secret_key":                    "ARGUS_S3_SECRET_KEY",
		"s3.max_file_size_mb":              "ARGUS_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":                "ARGUS_S3_PRESIGN_EXPIRY",
		"log.level":                        "ARGUS_LOG_LEVEL",
		"log.format":                       "ARGUS_LOG_FORMAT",
		"cors.allowed_origins":             "ARGUS_CORS_ALLOWED_ORIGINS",
		"analyzer.max_chars":               "ARGUS_ANALYZER_MAX_CHARS",
		"analyzer.primary.provider":        "ARGUS_ANALYZER_PRIMARY_PROVIDER",
		"analyzer.primary.api_key":         "ARGUS_ANALYZER_PRIMARY_API_KEY",
		"analyzer.primary.default_model":   "ARGUS_ANALYZER_PRIMARY_DEFAULT_MODEL",
		"analyzer.primary.timeout_secs":    "ARGUS_ANALYZER_PRIMARY_TIMEOUT_SECS",
		"analyzer.secondary.provider":      "ARGUS_ANALYZER_SECONDARY_PROVIDER",
		"analyzer.secondary.api_key":       "ARGUS_ANALYZER_SECONDARY_API_KEY",
		"analyzer.secondary.default_model": "ARGUS_ANALYZER_SECONDARY_DEFAULT_MODEL",
		"analyzer.secondary.timeout_secs":  "ARGUS_ANALYZER_SECONDARY_TIMEOUT_SECS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if ARGUS_SERVER_PORT
	// is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("ARGUS_SERVER_PORT") == "" {
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
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

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

	cfg.Analyzer = AnalyzerConfig{
		MaxChars: v.GetInt("analyzer.max_chars"),
		Primary: AnalyzerProviderConfig{
			Provider:     v.GetString("analyzer.primary.provider"),
			APIKey:       v.GetString("analyzer.primary.api_key"),
			DefaultModel: v.GetString("analyzer.primary.default_model"),
			TimeoutSecs:  v.GetInt("analyzer.primary.timeout_secs"),
		},
		Secondary: AnalyzerProviderConfig{
			Provider:     v.GetString("analyzer.secondary.provider"),
			APIKey:       v.GetString("analyzer.secondary.api_key"),
			DefaultModel: v.GetString("analyzer.secondary.default_model"),
			TimeoutSecs:  v.GetInt("analyzer.secondary.timeout_secs"),
		},
	}

	return cfg, nil
}
