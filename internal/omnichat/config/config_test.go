package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestExpandEnvVar(t *testing.T) {
	t.Setenv("OMNICHAT_TEST_KEY", "sk-123")

	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"literal", "sk-literal", "sk-literal"},
		{"dollar", "$OMNICHAT_TEST_KEY", "sk-123"},
		{"braces", "${OMNICHAT_TEST_KEY}", "sk-123"},
		{"unset", "$OMNICHAT_TEST_UNSET", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := expandEnvVar(tt.value); got != tt.want {
				t.Errorf("expandEnvVar(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DASHSCOPE_API_KEY", "sk-env")
	v := viper.New()
	SetDefaults(v, []string{"/usr/share/omnichat/prompts"})

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Model != "qwen-omni-turbo" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.GetToken() != "sk-env" {
		t.Errorf("Token = %q, want expanded env value", cfg.GetToken())
	}
	if cfg.GetBaseURL() != DefaultBaseURL {
		t.Errorf("BaseURL = %q", cfg.GetBaseURL())
	}
	if !cfg.IncludeUsage || !cfg.Stream {
		t.Errorf("IncludeUsage = %v, Stream = %v, want both true", cfg.IncludeUsage, cfg.Stream)
	}
	if cfg.EndMarker != "</end>" {
		t.Errorf("EndMarker = %q", cfg.EndMarker)
	}
	if cfg.GetRequestTimeout() != 60*time.Second {
		t.Errorf("GetRequestTimeout() = %v", cfg.GetRequestTimeout())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `model = "qwen-plus"
base_url = "http://localhost:8080/v1/"
token = "${OMNICHAT_FILE_TOKEN}"
prompt_dirs = ["prompts", "/abs/prompts"]
include_usage = false
request_timeout = 5
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("OMNICHAT_FILE_TOKEN", "sk-file")

	v := viper.New()
	SetDefaults(v, nil)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig() error = %v", err)
	}

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Model != "qwen-plus" || cfg.GetToken() != "sk-file" {
		t.Errorf("Model = %q, Token = %q", cfg.Model, cfg.GetToken())
	}
	if cfg.GetBaseURL() != "http://localhost:8080/v1" {
		t.Errorf("GetBaseURL() = %q, want trailing slash trimmed", cfg.GetBaseURL())
	}
	if cfg.IncludeUsage {
		t.Error("IncludeUsage = true, want false from file")
	}
	if cfg.EndMarker != DefaultEndMarker {
		t.Errorf("EndMarker = %q, want default", cfg.EndMarker)
	}
	want := []string{filepath.Join(dir, "prompts"), "/abs/prompts"}
	if strings.Join(cfg.PromptDirs, ",") != strings.Join(want, ",") {
		t.Errorf("PromptDirs = %v, want %v", cfg.PromptDirs, want)
	}
	if cfg.GetRequestTimeout() != 5*time.Second {
		t.Errorf("GetRequestTimeout() = %v", cfg.GetRequestTimeout())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing token", func(c *Config) { c.Token = "" }, "token is not configured"},
		{"bad url", func(c *Config) { c.BaseURL = "not a url" }, "base_url must be a valid URL"},
		{"missing model", func(c *Config) { c.Model = "" }, "model is required"},
		{"negative timeout", func(c *Config) { c.RequestTimeout = -1 }, "request_timeout must be at least 0"},
		{"missing end marker", func(c *Config) { c.EndMarker = "" }, "end_marker is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig("/tmp/prompts")
			cfg.Token = "sk-test"
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestResolvePath(t *testing.T) {
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	v := viper.New()

	got, err := ResolvePath(v, "prompts")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(cwd, "prompts") {
		t.Errorf("ResolvePath() = %q", got)
	}

	got, err = ResolvePath(v, "/etc/omnichat/prompts")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/etc/omnichat/prompts" {
		t.Errorf("ResolvePath() = %q, want absolute path unchanged", got)
	}
}
