// Package prompt loads system prompt templates from TOML files.
//
// A template file looks like:
//
//	system = "You are a {{role}} who answers in {{lang}}."
//	model = "qwen-omni-turbo" # optional
package prompt

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
)

const fileExt = ".toml"

// Template represents the structure of a TOML prompt file
type Template struct {
	System string  `toml:"system"`
	Model  *string `toml:"model,omitempty"`
}

// NotFoundError is returned when no prompt directory holds the named template
type NotFoundError struct {
	Name string
	Dirs []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("prompt file '%s' not found in any of the prompt directories: %v", e.Name, e.Dirs)
}

// LoadTemplate loads a prompt file and returns its contents
func LoadTemplate(fs afero.Fs, filePath string) (*Template, error) {
	f, err := fs.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening prompt file: %w", err)
	}
	defer f.Close()

	var tmpl Template
	if _, err := toml.NewDecoder(f).Decode(&tmpl); err != nil {
		return nil, fmt.Errorf("error decoding prompt file %s: %w", filePath, err)
	}
	return &tmpl, nil
}
