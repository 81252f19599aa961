package cmd

import (
	"testing"

	"github.com/longkey1/omnichat/internal/omnichat"
	"github.com/longkey1/omnichat/internal/omnichat/config"
	"github.com/longkey1/omnichat/internal/omnichat/session"
	"go.uber.org/zap"
)

func TestMaskToken(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"", "********"},
		{"short", "********"},
		{"sk-1234567890abcdef", "sk-1...cdef"},
	}

	for _, tt := range tests {
		if got := maskToken(tt.token); got != tt.want {
			t.Errorf("maskToken(%q) = %q, want %q", tt.token, got, tt.want)
		}
	}
}

func TestConfigField(t *testing.T) {
	cfg := config.NewDefaultConfig("/tmp/prompts")
	cfg.Token = "sk-1234567890abcdef"

	tests := []struct {
		field string
		want  string
		ok    bool
	}{
		{"model", "qwen-omni-turbo", true},
		{"MODEL", "qwen-omni-turbo", true},
		{"token", "sk-1...cdef", true},
		{"end_marker", "</end>", true},
		{"request_timeout", "1m0s", true},
		{"include_usage", "true", true},
		{"prompt_dirs", "/tmp/prompts", true},
		{"nope", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			got, ok := configField(cfg, tt.field)
			if ok != tt.ok || got != tt.want {
				t.Errorf("configField(%q) = %q, %v, want %q, %v", tt.field, got, ok, tt.want, tt.ok)
			}
		})
	}
}

type noAssembler struct{}

func (noAssembler) Assemble(text string) []omnichat.ContentBlock {
	return []omnichat.ContentBlock{omnichat.Text(text)}
}

func TestHandleSpecialCommand(t *testing.T) {
	conv := session.NewConversation("qwen-omni-turbo", "sys", noAssembler{}, nil, zap.NewNop().Sugar())
	firstID := conv.Session().ID

	tests := []struct {
		command      string
		wantContinue bool
	}{
		{"/help", true},
		{"/INFO", true},
		{"/history", true},
		{"/unknown", true},
		{"/reset", true},
		{"/exit", false},
		{"/q", false},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			if got := handleSpecialCommand(tt.command, conv); got != tt.wantContinue {
				t.Errorf("handleSpecialCommand(%q) = %v, want %v", tt.command, got, tt.wantContinue)
			}
		})
	}

	if conv.Session().ID == firstID {
		t.Error("/reset did not start a new session")
	}
}
