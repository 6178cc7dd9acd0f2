// Package config provides Viper-based hierarchical configuration management:
// defaults, then an optional config file, then STMT_-prefixed environment
// variables. API keys are bound straight from their conventional environment
// variables and are never serialized.
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"fjacquet/stmt-extract/internal/sanitize"
)

// ProviderConfig holds the settings of one LLM backend.
type ProviderConfig struct {
	Model   string `mapstructure:"model" yaml:"model"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	APIKey  string `mapstructure:"api_key" yaml:"-"` // never serialize API keys
}

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Provider struct {
		Type           string         `mapstructure:"type" yaml:"type"`
		TimeoutSeconds int            `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		Gemini         ProviderConfig `mapstructure:"gemini" yaml:"gemini"`
		OpenAI         ProviderConfig `mapstructure:"openai" yaml:"openai"`
		DeepSeek       ProviderConfig `mapstructure:"deepseek" yaml:"deepseek"`
		Groq           ProviderConfig `mapstructure:"groq" yaml:"groq"`
	} `mapstructure:"provider" yaml:"provider"`

	Extraction struct {
		DefaultCurrency string `mapstructure:"default_currency" yaml:"default_currency"`
		TaxonomyFile    string `mapstructure:"taxonomy_file" yaml:"taxonomy_file"`
	} `mapstructure:"extraction" yaml:"extraction"`

	Sanitizer struct {
		AccountNumber    bool   `mapstructure:"account_number" yaml:"account_number"`
		CardNumber       bool   `mapstructure:"card_number" yaml:"card_number"`
		MobileNumber     bool   `mapstructure:"mobile_number" yaml:"mobile_number"`
		Email            bool   `mapstructure:"email" yaml:"email"`
		PANID            bool   `mapstructure:"pan_id" yaml:"pan_id"`
		CustomerID       bool   `mapstructure:"customer_id" yaml:"customer_id"`
		IFSCCode         bool   `mapstructure:"ifsc_code" yaml:"ifsc_code"`
		Address          bool   `mapstructure:"address" yaml:"address"`
		Name             bool   `mapstructure:"name" yaml:"name"`
		MaskingCharacter string `mapstructure:"masking_character" yaml:"masking_character"`
		PreserveFormat   bool   `mapstructure:"preserve_format" yaml:"preserve_format"`
	} `mapstructure:"sanitizer" yaml:"sanitizer"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.stmt-extract")
	v.AddConfigPath(".stmt-extract")
	v.AddConfigPath(".")

	v.SetEnvPrefix("STMT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Log the error but don't fail - continue with defaults and env vars
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// API keys come from their conventional unprefixed variables.
	bindings := map[string]string{
		"provider.gemini.api_key":   "GEMINI_API_KEY",
		"provider.openai.api_key":   "OPENAI_API_KEY",
		"provider.deepseek.api_key": "DEEPSEEK_API_KEY",
		"provider.groq.api_key":     "GROQ_API_KEY",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			fmt.Printf("Warning: failed to bind %s environment variable: %v\n", env, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("provider.type", "gemini")
	v.SetDefault("provider.timeout_seconds", 60)
	v.SetDefault("provider.gemini.model", "gemini-2.0-flash")
	v.SetDefault("provider.openai.model", "gpt-4o-mini")
	v.SetDefault("provider.openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("provider.deepseek.model", "deepseek-chat")
	v.SetDefault("provider.deepseek.base_url", "https://api.deepseek.com/v1")
	v.SetDefault("provider.groq.model", "llama-3.3-70b-versatile")
	v.SetDefault("provider.groq.base_url", "https://api.groq.com/openai/v1")

	v.SetDefault("extraction.default_currency", "INR")
	v.SetDefault("extraction.taxonomy_file", "")

	v.SetDefault("sanitizer.account_number", true)
	v.SetDefault("sanitizer.card_number", true)
	v.SetDefault("sanitizer.mobile_number", true)
	v.SetDefault("sanitizer.email", true)
	v.SetDefault("sanitizer.pan_id", true)
	v.SetDefault("sanitizer.customer_id", true)
	v.SetDefault("sanitizer.ifsc_code", true)
	v.SetDefault("sanitizer.address", true)
	// Name detection is honorific-based and false-positive prone.
	v.SetDefault("sanitizer.name", false)
	v.SetDefault("sanitizer.masking_character", "*")
	v.SetDefault("sanitizer.preserve_format", true)
}

func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	switch config.Provider.Type {
	case "gemini", "openai", "deepseek", "groq":
	default:
		return fmt.Errorf("unknown provider type: %s", config.Provider.Type)
	}

	if config.Provider.TimeoutSeconds < 1 || config.Provider.TimeoutSeconds > 300 {
		return fmt.Errorf("provider.timeout_seconds must be between 1 and 300, got: %d", config.Provider.TimeoutSeconds)
	}

	if len([]rune(config.Sanitizer.MaskingCharacter)) != 1 {
		return fmt.Errorf("sanitizer.masking_character must be a single character, got: %q", config.Sanitizer.MaskingCharacter)
	}

	if len(config.Extraction.DefaultCurrency) != 3 {
		return fmt.Errorf("extraction.default_currency must be a 3-letter code, got: %q", config.Extraction.DefaultCurrency)
	}

	return nil
}

// SanitizeConfig converts the sanitizer section into the sanitize package's
// config type.
func (c *Config) SanitizeConfig() sanitize.Config {
	return sanitize.Config{
		AccountNumber:    c.Sanitizer.AccountNumber,
		CardNumber:       c.Sanitizer.CardNumber,
		MobileNumber:     c.Sanitizer.MobileNumber,
		Email:            c.Sanitizer.Email,
		PANID:            c.Sanitizer.PANID,
		CustomerID:       c.Sanitizer.CustomerID,
		IFSCCode:         c.Sanitizer.IFSCCode,
		Address:          c.Sanitizer.Address,
		Name:             c.Sanitizer.Name,
		MaskingCharacter: c.Sanitizer.MaskingCharacter,
		PreserveFormat:   c.Sanitizer.PreserveFormat,
	}
}

// ActiveProvider returns the settings of the selected provider type.
func (c *Config) ActiveProvider() ProviderConfig {
	switch c.Provider.Type {
	case "openai":
		return c.Provider.OpenAI
	case "deepseek":
		return c.Provider.DeepSeek
	case "groq":
		return c.Provider.Groq
	default:
		return c.Provider.Gemini
	}
}

// ConfigureLoggingFromConfig configures a logrus logger from the Config.
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
