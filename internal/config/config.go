package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Extractor ExtractorConfig
	Session   SessionConfig
	Storage   StorageConfig
	Email     EmailConfig
	Registry  RegistryConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ExtractorProviderConfig holds settings for a single LLM extraction provider.
type ExtractorProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// ExtractorConfig holds LLM document extraction settings. When a secondary
// provider is configured the extractors run as an ordered fallback chain.
type ExtractorConfig struct {
	Primary   ExtractorProviderConfig `mapstructure:"primary"`
	Secondary ExtractorProviderConfig `mapstructure:"secondary"`
}

// SecondaryConfig returns the secondary provider config, or nil if unset.
func (e *ExtractorConfig) SecondaryConfig() *ExtractorProviderConfig {
	if e.Secondary.Provider != "" {
		return &e.Secondary
	}
	return nil
}

// SessionConfig holds intake session settings.
type SessionConfig struct {
	// InputTimeout is how long a session may sit idle awaiting user input
	// before it expires; an expired wait never advances the step.
	InputTimeout time.Duration `mapstructure:"input_timeout"`
	// ExtractTimeoutSecs bounds a single model extraction call.
	ExtractTimeoutSecs int `mapstructure:"extract_timeout_secs"`
	// Concurrency bounds the number of in-flight extraction calls across
	// all sessions.
	Concurrency int `mapstructure:"concurrency"`
}

// StorageConfig holds uploaded-document storage settings.
type StorageConfig struct {
	Provider      string `mapstructure:"provider"` // "s3" or "memory"
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"` // "ses" or "noop"
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// RegistryConfig holds external license-registry lookup settings.
type RegistryConfig struct {
	Provider    string `mapstructure:"provider"` // "dmv" or "noop"
	BaseURL     string `mapstructure:"base_url"`
	APIKey      string `mapstructure:"api_key"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// Load reads configuration from environment variables with the INTAKE_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("INTAKE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Extractor defaults
	v.SetDefault("extractor.primary.provider", "openai")
	v.SetDefault("extractor.primary.api_key", "")
	v.SetDefault("extractor.primary.default_model", "gpt-4o-mini")
	v.SetDefault("extractor.primary.timeout_secs", 120)
	v.SetDefault("extractor.secondary.provider", "")
	v.SetDefault("extractor.secondary.api_key", "")
	v.SetDefault("extractor.secondary.default_model", "")
	v.SetDefault("extractor.secondary.timeout_secs", 120)

	// Session defaults
	v.SetDefault("session.input_timeout", "30m")
	v.SetDefault("session.extract_timeout_secs", 120)
	v.SetDefault("session.concurrency", 4)

	// Storage defaults
	v.SetDefault("storage.provider", "memory")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.bucket", "tlcintake-uploads")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.max_file_size_mb", 5)
	v.SetDefault("storage.presign_expiry", 3600)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "noreply@tlcintake.local")
	v.SetDefault("email.from_name", "TLC Intake")

	// Registry defaults
	v.SetDefault("registry.provider", "noop")
	v.SetDefault("registry.base_url", "")
	v.SetDefault("registry.api_key", "")
	v.SetDefault("registry.timeout_secs", 15)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                       "INTAKE_SERVER_PORT",
		"server.read_timeout":               "INTAKE_SERVER_READ_TIMEOUT",
		"server.write_timeout":              "INTAKE_SERVER_WRITE_TIMEOUT",
		"server.environment":                "INTAKE_SERVER_ENVIRONMENT",
		"log.level":                         "INTAKE_LOG_LEVEL",
		"log.format":                        "INTAKE_LOG_FORMAT",
		"extractor.primary.provider":        "INTAKE_EXTRACTOR_PRIMARY_PROVIDER",
		"extractor.primary.api_key":         "INTAKE_EXTRACTOR_PRIMARY_API_KEY",
		"extractor.primary.default_model":   "INTAKE_EXTRACTOR_PRIMARY_DEFAULT_MODEL",
		"extractor.primary.timeout_secs":    "INTAKE_EXTRACTOR_PRIMARY_TIMEOUT_SECS",
		"extractor.secondary.provider":      "INTAKE_EXTRACTOR_SECONDARY_PROVIDER",
		"extractor.secondary.api_key":       "INTAKE_EXTRACTOR_SECONDARY_API_KEY",
		"extractor.secondary.default_model": "INTAKE_EXTRACTOR_SECONDARY_DEFAULT_MODEL",
		"extractor.secondary.timeout_secs":  "INTAKE_EXTRACTOR_SECONDARY_TIMEOUT_SECS",
		"session.input_timeout":             "INTAKE_SESSION_INPUT_TIMEOUT",
		"session.extract_timeout_secs":      "INTAKE_SESSION_EXTRACT_TIMEOUT_SECS",
		"session.concurrency":               "INTAKE_SESSION_CONCURRENCY",
		"storage.provider":                  "INTAKE_STORAGE_PROVIDER",
		"storage.region":                    "INTAKE_STORAGE_REGION",
		"storage.bucket":                    "INTAKE_STORAGE_BUCKET",
		"storage.endpoint":                  "INTAKE_STORAGE_ENDPOINT",
		"storage.access_key":                "INTAKE_STORAGE_ACCESS_KEY",
		"storage.secret_key":                "INTAKE_STORAGE_SECRET_KEY",
		"storage.max_file_size_mb":          "INTAKE_STORAGE_MAX_FILE_SIZE_MB",
		"storage.presign_expiry":            "INTAKE_STORAGE_PRESIGN_EXPIRY",
		"email.provider":                    "INTAKE_EMAIL_PROVIDER",
		"email.region":                      "INTAKE_EMAIL_REGION",
		"email.from_address":                "INTAKE_EMAIL_FROM_ADDRESS",
		"email.from_name":                   "INTAKE_EMAIL_FROM_NAME",
		"registry.provider":                 "INTAKE_REGISTRY_PROVIDER",
		"registry.base_url":                 "INTAKE_REGISTRY_BASE_URL",
		"registry.api_key":                  "INTAKE_REGISTRY_API_KEY",
		"registry.timeout_secs":             "INTAKE_REGISTRY_TIMEOUT_SECS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	cfg.Server = ServerConfig{
		Port:         v.GetString("server.port"),
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Extractor = ExtractorConfig{
		Primary: ExtractorProviderConfig{
			Provider:     v.GetString("extractor.primary.provider"),
			APIKey:       v.GetString("extractor.primary.api_key"),
			DefaultModel: v.GetString("extractor.primary.default_model"),
			TimeoutSecs:  v.GetInt("extractor.primary.timeout_secs"),
		},
		Secondary: ExtractorProviderConfig{
			Provider:     v.GetString("extractor.secondary.provider"),
			APIKey:       v.GetString("extractor.secondary.api_key"),
			DefaultModel: v.GetString("extractor.secondary.default_model"),
			TimeoutSecs:  v.GetInt("extractor.secondary.timeout_secs"),
		},
	}
	cfg.Session = SessionConfig{
		InputTimeout:       v.GetDuration("session.input_timeout"),
		ExtractTimeoutSecs: v.GetInt("session.extract_timeout_secs"),
		Concurrency:        v.GetInt("session.concurrency"),
	}
	cfg.Storage = StorageConfig{
		Provider:      v.GetString("storage.provider"),
		Region:        v.GetString("storage.region"),
		Bucket:        v.GetString("storage.bucket"),
		Endpoint:      v.GetString("storage.endpoint"),
		AccessKey:     v.GetString("storage.access_key"),
		SecretKey:     v.GetString("storage.secret_key"),
		MaxFileSizeMB: v.GetInt64("storage.max_file_size_mb"),
		PresignExpiry: v.GetInt64("storage.presign_expiry"),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
	}
	cfg.Registry = RegistryConfig{
		Provider:    v.GetString("registry.provider"),
		BaseURL:     v.GetString("registry.base_url"),
		APIKey:      v.GetString("registry.api_key"),
		TimeoutSecs: v.GetInt("registry.timeout_secs"),
	}

	return cfg, nil
}
