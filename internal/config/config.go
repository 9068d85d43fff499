package config

import (
	"fmt"
	"strings"
	"time"

	"techbrief/internal/core"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App     App     `mapstructure:"app"`
	Gemini  Gemini  `mapstructure:"gemini"`
	Server  Server  `mapstructure:"server"`
	Catalog Catalog `mapstructure:"catalog"`
}

// App holds general application configuration.
type App struct {
	LogLevel string `mapstructure:"log_level"`
}

// Gemini holds the generation collaborator configuration. The API key is
// normally supplied via GEMINI_API_KEY rather than the config file.
type Gemini struct {
	APIKey    string `mapstructure:"api_key"`
	Model     string `mapstructure:"model"`
	ChatModel string `mapstructure:"chat_model"`
}

// Server holds HTTP server configuration.
type Server struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	CORS         CORS          `mapstructure:"cors"`
}

// CORS holds cross-origin configuration for the API.
type CORS struct {
	Enabled        bool     `mapstructure:"enabled"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Catalog optionally overrides the built-in category catalog. Entries are
// fixed for the process lifetime once loaded.
type Catalog struct {
	Entries []core.CatalogEntry `mapstructure:"entries"`
}

// Load reads configuration from an optional .env file, the given config
// file (default .techbrief.yaml in the working directory), and
// TECHBRIEF_*-prefixed environment variables, in increasing precedence.
func Load(cfgFile string) (*Config, error) {
	// A missing .env file is fine; it only feeds process env vars.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".techbrief")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	viper.SetEnvPrefix("TECHBRIEF")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// Only a present-but-broken config file is fatal.
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("gemini.model", "gemini-2.5-flash")
	viper.SetDefault("gemini.chat_model", "gemini-2.5-pro")
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 15*time.Second)
	viper.SetDefault("server.write_timeout", 120*time.Second)
	viper.SetDefault("server.cors.enabled", true)
	viper.SetDefault("server.cors.allowed_origins", []string{"*"})
}
