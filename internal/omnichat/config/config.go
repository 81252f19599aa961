package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/longkey1/omnichat/internal/omnichat"
	"github.com/spf13/viper"
)

const (
	DefaultBaseURL        = "https://dashscope.aliyuncs.com/compatible-mode/v1"
	DefaultToken          = "$DASHSCOPE_API_KEY"
	DefaultEndMarker      = "</end>"
	DefaultRequestTimeout = 60 // seconds
)

// Config holds the configuration for the chat client
type Config struct {
	Model          string   `toml:"model" mapstructure:"model" validate:"required"`
	BaseURL        string   `toml:"base_url" mapstructure:"base_url" validate:"required,url"`
	Token          string   `toml:"token" mapstructure:"token" validate:"required"` // Literal token or $VAR / ${VAR} reference
	SystemPrompt   string   `toml:"system_prompt" mapstructure:"system_prompt"`
	PromptDirs     []string `toml:"prompt_dirs" mapstructure:"prompt_dirs"`
	EndMarker      string   `toml:"end_marker" mapstructure:"end_marker" validate:"required"`
	IncludeUsage   bool     `toml:"include_usage" mapstructure:"include_usage"`
	Stream         bool     `toml:"stream" mapstructure:"stream"`
	RequestTimeout int      `toml:"request_timeout" mapstructure:"request_timeout" validate:"min=0"` // Seconds to wait for response headers, 0 = no limit
}

// GetModel returns the model name
func (c *Config) GetModel() string {
	return c.Model
}

// GetBaseURL returns the endpoint base URL without a trailing slash
func (c *Config) GetBaseURL() string {
	return strings.TrimRight(c.BaseURL, "/")
}

// GetToken returns the API token
// Environment variables are already expanded during LoadConfig()
func (c *Config) GetToken() string {
	return c.Token
}

// GetRequestTimeout returns the response header timeout
func (c *Config) GetRequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// NewDefaultConfig returns a new Config with default values
func NewDefaultConfig(promptDir string) *Config {
	return &Config{
		Model:          omnichat.DefaultModel,
		BaseURL:        DefaultBaseURL,
		Token:          DefaultToken, // Default to env var
		SystemPrompt:   omnichat.DefaultSystemPrompt,
		PromptDirs:     []string{promptDir},
		EndMarker:      DefaultEndMarker,
		IncludeUsage:   true,
		Stream:         true,
		RequestTimeout: DefaultRequestTimeout,
	}
}

// SetDefaults registers the default values on v
func SetDefaults(v *viper.Viper, promptDirs []string) {
	d := NewDefaultConfig("")
	v.SetDefault("model", d.Model)
	v.SetDefault("base_url", d.BaseURL)
	v.SetDefault("token", d.Token)
	v.SetDefault("system_prompt", d.SystemPrompt)
	v.SetDefault("prompt_dirs", promptDirs)
	v.SetDefault("end_marker", d.EndMarker)
	v.SetDefault("include_usage", d.IncludeUsage)
	v.SetDefault("stream", d.Stream)
	v.SetDefault("request_timeout", d.RequestTimeout)
}

// LoadConfig loads configuration from the global viper instance
func LoadConfig() (*Config, error) {
	return Load(viper.GetViper())
}

// Load unmarshals v into a Config, expands environment variable references
// and resolves prompt directories to absolute paths.
func Load(v *viper.Viper) (*Config, error) {
	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	config.BaseURL = expandEnvVar(config.BaseURL)
	config.Token = expandEnvVar(config.Token)

	// Convert prompt directories to absolute paths
	for i, promptDir := range config.PromptDirs {
		absPath, err := ResolvePath(v, promptDir)
		if err != nil {
			return nil, fmt.Errorf("error resolving prompt directory path '%s': %w", promptDir, err)
		}
		config.PromptDirs[i] = absPath
	}

	return config, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks that the configuration is usable for talking to the endpoint
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	key := tomlKeys[fe.StructField()]
	if key == "" {
		key = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		if key == "token" {
			return "token is not configured. Set it in config file (token) or environment variable (OMNICHAT_TOKEN)"
		}
		return fmt.Sprintf("%s is required", key)
	case "url":
		return fmt.Sprintf("%s must be a valid URL, got %q", key, fe.Value())
	case "min":
		return fmt.Sprintf("%s must be at least %s", key, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", key, fe.Tag())
	}
}

var tomlKeys = map[string]string{
	"Model":          "model",
	"BaseURL":        "base_url",
	"Token":          "token",
	"EndMarker":      "end_marker",
	"RequestTimeout": "request_timeout",
}
