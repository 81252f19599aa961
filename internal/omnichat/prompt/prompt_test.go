package prompt

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

func newPromptFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range files {
		if err := afero.WriteFile(fs, path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return fs
}

func TestProcessArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    map[string]string
		wantErr bool
	}{
		{"simple", []string{"lang:Japanese"}, map[string]string{"lang": "Japanese"}, false},
		{"quoted", []string{`"role: a tutor"`}, map[string]string{"role": "a tutor"}, false},
		{"colon in value", []string{`url:http\://x`}, map[string]string{"url": "http://x"}, false},
		{"first colon splits", []string{"time:10:30"}, map[string]string{"time": "10:30"}, false},
		{"missing colon", []string{"novalue"}, nil, true},
		{"empty key", []string{":value"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := processArgs(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("processArgs() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("processArgs() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("processArgs()[%q] = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestSystemPrompt(t *testing.T) {
	fs := newPromptFs(t, map[string]string{
		"/sys/tutor.toml":      `system = "You are a {{role}}."`,
		"/user/tutor.toml":     "system = \"You are a {{role}} speaking {{lang}}.\"\nmodel = \"qwen-plus\"",
		"/user/sub/brief.toml": `system = "Be brief."`,
		"/user/broken.toml":    `system = `,
	})
	dirs := []string{"/sys", "/user"}

	system, model, err := SystemPrompt(fs, "tutor", dirs, []string{"role:tutor", "lang:French"})
	if err != nil {
		t.Fatalf("SystemPrompt() error = %v", err)
	}
	if system != "You are a tutor speaking French." {
		t.Errorf("system = %q, want the later directory's template rendered", system)
	}
	if model == nil || *model != "qwen-plus" {
		t.Errorf("model = %v, want qwen-plus", model)
	}

	system, model, err = SystemPrompt(fs, "sub/brief.toml", dirs, nil)
	if err != nil {
		t.Fatalf("SystemPrompt() error = %v", err)
	}
	if system != "Be brief." || model != nil {
		t.Errorf("system = %q, model = %v", system, model)
	}

	_, _, err = SystemPrompt(fs, "missing", dirs, nil)
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Name != "missing.toml" {
		t.Errorf("error = %v, want *NotFoundError for missing.toml", err)
	}

	if _, _, err := SystemPrompt(fs, "broken", dirs, nil); err == nil {
		t.Error("SystemPrompt() error = nil for invalid TOML")
	}

	if _, _, err := SystemPrompt(fs, "tutor", dirs, []string{"bad"}); err == nil {
		t.Error("SystemPrompt() error = nil for invalid argument")
	}
}

func TestList(t *testing.T) {
	fs := newPromptFs(t, map[string]string{
		"/sys/a.toml":     `system = "a"`,
		"/sys/b.toml":     `system = "b"`,
		"/user/b.toml":    `system = "b2"`,
		"/user/x/c.toml":  `system = "c"`,
		"/user/notes.txt": "ignored",
	})

	got := List(fs, []string{"/sys", "/missing", "/user"}, zap.NewNop().Sugar())
	want := []Entry{
		{Name: "a", Dir: "/sys"},
		{Name: "b", Dir: "/user"},
		{Name: "x/c", Dir: "/user"},
	}

	if len(got) != len(want) {
		t.Fatalf("List() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}
