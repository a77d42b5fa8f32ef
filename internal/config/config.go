package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env            string        `mapstructure:"ENV"`
	Port           string        `mapstructure:"PORT"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	AdminKey       string        `mapstructure:"ADMIN_KEY"`
	CORSAllowed    string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	MaxBodySizeMB  int64         `mapstructure:"MAX_BODY_MB"`
	DatasetLimit   int           `mapstructure:"DATASET_LIMIT"`

	AssistantProvider  string        `mapstructure:"ASSISTANT_PROVIDER"`
	AssistantBaseURL   string        `mapstructure:"ASSISTANT_BASE_URL"`
	AssistantModel     string        `mapstructure:"ASSISTANT_MODEL"`
	AssistantAPIKey    string        `mapstructure:"ASSISTANT_API_KEY"`
	AssistantMaxTokens int           `mapstructure:"ASSISTANT_MAX_TOKENS"`
	AssistantCacheTTL  time.Duration `mapstructure:"ASSISTANT_CACHE_TTL"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("ADMIN_KEY", "")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("MAX_BODY_MB", 20)
	v.SetDefault("DATASET_LIMIT", 500)
	v.SetDefault("ASSISTANT_PROVIDER", "openai")
	v.SetDefault("ASSISTANT_BASE_URL", "")
	v.SetDefault("ASSISTANT_MODEL", "")
	v.SetDefault("ASSISTANT_API_KEY", "")
	v.SetDefault("ASSISTANT_MAX_TOKENS", 1024)
	v.SetDefault("ASSISTANT_CACHE_TTL", "60s")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
